// Package observation normalizes batches of per-observation Sentinel-2
// reflectances, as read from CSV or posted to the HTTP service.
package observation

import (
	"fmt"
	"math"
	"strconv"

	"github.com/chrissnell/s2brdf/pkg/brdf"
	"gonum.org/v1/gonum/stat"
)

// Observation is one reflectance sample with its geometry in degrees.
type Observation struct {
	Band        string  `json:"band"`
	Reflectance float64 `json:"reflectance"`
	SZA         float64 `json:"sza"`
	VZA         float64 `json:"vza"`
	SAA         float64 `json:"saa"`
	VAA         float64 `json:"vaa"`
}

// Geometry returns the observation geometry in radians.
func (o Observation) Geometry() brdf.Geometry {
	return brdf.GeometryFromDegrees(o.SZA, o.VZA, o.SAA, o.VAA)
}

// CheckFinite returns an error naming the first NaN or infinite field of o.
func (o Observation) CheckFinite() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"reflectance", o.Reflectance}, {"sza", o.SZA}, {"vza", o.VZA}, {"saa", o.SAA}, {"vaa", o.VAA},
	}
	for _, f := range fields {
		if !Value(f.v).Finite() {
			return fmt.Errorf("%s: non-finite value %v", f.name, f.v)
		}
	}
	return nil
}

// Value is a float64 that encodes non-finite values as JSON null.
type Value float64

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// Finite reports whether v is neither NaN nor infinite.
func (v Value) Finite() bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Result is the normalization outcome for one observation. Error is set,
// and the values are zero, when the band is not in the table.
type Result struct {
	Observation
	CLambda Value  `json:"c_lambda"`
	NBAR    Value  `json:"nbar"`
	Error   string `json:"error,omitempty"`
}

// Normalize computes c_lambda and NBAR for o.
func Normalize(n *brdf.Normalizer, o Observation) Result {
	res := Result{Observation: o}

	band, err := n.Bands.ParseBand(o.Band)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Band = string(band)

	cl, err := n.CLambda(o.Geometry(), band)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.CLambda = Value(cl)
	res.NBAR = Value(cl * o.Reflectance)
	return res
}

// Process normalizes every observation. A bad row never aborts the batch.
func Process(n *brdf.Normalizer, obs []Observation) []Result {
	results := make([]Result, len(obs))
	for i, o := range obs {
		results[i] = Normalize(n, o)
	}
	return results
}

// Summary describes the normalization factors of a batch.
type Summary struct {
	Count         int   `json:"count"`
	Failed        int   `json:"failed"`
	NonFinite     int   `json:"non_finite"`
	MeanCLambda   Value `json:"mean_c_lambda"`
	StdDevCLambda Value `json:"stddev_c_lambda"`
	MinCLambda    Value `json:"min_c_lambda"`
	MaxCLambda    Value `json:"max_c_lambda"`
}

// Summarize computes statistics over the finite c_lambda values of results.
// The standard deviation of a single value is 0.
func Summarize(results []Result) Summary {
	s := Summary{Count: len(results)}

	var cls []float64
	for _, r := range results {
		switch {
		case r.Error != "":
			s.Failed++
		case !r.CLambda.Finite():
			s.NonFinite++
		default:
			cls = append(cls, float64(r.CLambda))
		}
	}

	if len(cls) == 0 {
		nan := Value(math.NaN())
		s.MeanCLambda, s.StdDevCLambda, s.MinCLambda, s.MaxCLambda = nan, nan, nan, nan
		return s
	}

	mean, std := stat.MeanStdDev(cls, nil)
	if len(cls) == 1 {
		std = 0
	}
	s.MeanCLambda = Value(mean)
	s.StdDevCLambda = Value(std)

	lo, hi := cls[0], cls[0]
	for _, v := range cls[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	s.MinCLambda = Value(lo)
	s.MaxCLambda = Value(hi)
	return s
}
