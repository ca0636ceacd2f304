package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/chrissnell/s2brdf/internal/observation"
	"github.com/chrissnell/s2brdf/pkg/brdf"
	"github.com/chrissnell/s2brdf/pkg/responseformat"
)

const maxBatchBytes = 8 << 20

// Handlers contains all HTTP handlers for the service
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type bandEntry struct {
	Band string `json:"band"`
	brdf.Coefficients
}

type kernelResponse struct {
	SZA  float64           `json:"sza"`
	VZA  float64           `json:"vza"`
	SAA  float64           `json:"saa"`
	VAA  float64           `json:"vaa"`
	KGeo observation.Value `json:"kgeo"`
	KVol observation.Value `json:"kvol"`
}

type batchResponse struct {
	Results []observation.Result `json:"results"`
	Summary observation.Summary  `json:"summary"`
}

type trueColorResponse struct {
	R observation.Value `json:"r"`
	G observation.Value `json:"g"`
	B observation.Value `json:"b"`
}

func (h *Handlers) write(w http.ResponseWriter, req *http.Request, status int, data any) {
	if err := h.formatter.WriteResponse(w, req, status, data); err != nil {
		h.controller.logger.Errorf("error writing response: %v", err)
	}
}

func (h *Handlers) fail(w http.ResponseWriter, req *http.Request, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, brdf.ErrUnknownBand) {
		status = http.StatusNotFound
	}
	h.write(w, req, status, errorResponse{Error: err.Error()})
}

// Health reports liveness
func (h *Handlers) Health(w http.ResponseWriter, req *http.Request) {
	h.write(w, req, http.StatusOK, map[string]string{"status": "ok"})
}

// GetBands lists the coefficient table
func (h *Handlers) GetBands(w http.ResponseWriter, req *http.Request) {
	table := h.controller.normalizer.Bands
	entries := make([]bandEntry, 0, len(table))
	for _, b := range table.Bands() {
		entries = append(entries, bandEntry{Band: string(b), Coefficients: table[b]})
	}
	h.write(w, req, http.StatusOK, entries)
}

// GetKernels evaluates both kernels for one geometry
func (h *Handlers) GetKernels(w http.ResponseWriter, req *http.Request) {
	o, g, err := parseGeometry(req)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	h.write(w, req, http.StatusOK, kernelResponse{
		SZA:  o.SZA,
		VZA:  o.VZA,
		SAA:  o.SAA,
		VAA:  o.VAA,
		KGeo: observation.Value(brdf.KGeo(g.SZA, g.VZA, g.SAA, g.VAA)),
		KVol: observation.Value(brdf.KVol(g.SZA, g.VZA, g.SAA, g.VAA)),
	})
}

// GetNBAR normalizes one observation given as query parameters
func (h *Handlers) GetNBAR(w http.ResponseWriter, req *http.Request) {
	o, _, err := parseGeometry(req)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	if o.Reflectance, err = queryFloat(req, "reflectance"); err != nil {
		h.fail(w, req, err)
		return
	}
	o.Band = req.URL.Query().Get("band")

	res := observation.Normalize(h.controller.normalizer, o)
	if res.Error != "" {
		h.write(w, req, http.StatusNotFound, errorResponse{Error: res.Error})
		return
	}
	h.write(w, req, http.StatusOK, res)
}

// PostNBAR normalizes a JSON array of observations (angles in degrees)
func (h *Handlers) PostNBAR(w http.ResponseWriter, req *http.Request) {
	var obs []observation.Observation
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBatchBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&obs); err != nil {
		h.fail(w, req, fmt.Errorf("invalid request body: %w", err))
		return
	}

	results := observation.Process(h.controller.normalizer, obs)
	summary := observation.Summarize(results)
	h.controller.logger.Debugw("normalized batch", "count", summary.Count, "failed", summary.Failed)

	h.write(w, req, http.StatusOK, batchResponse{Results: results, Summary: summary})
}

// GetTrueColor returns the display RGB for one pixel
func (h *Handlers) GetTrueColor(w http.ResponseWriter, req *http.Request) {
	_, g, err := parseGeometry(req)
	if err != nil {
		h.fail(w, req, err)
		return
	}

	var rgb [3]float64
	for i, name := range []string{"red", "green", "blue"} {
		if rgb[i], err = queryFloat(req, name); err != nil {
			h.fail(w, req, err)
			return
		}
	}

	out, err := h.controller.normalizer.TrueColor(rgb[0], rgb[1], rgb[2], g, h.controller.gain)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	h.write(w, req, http.StatusOK, trueColorResponse{
		R: observation.Value(out.R),
		G: observation.Value(out.G),
		B: observation.Value(out.B),
	})
}

// parseGeometry reads sza, vza, saa and vaa. Angles are degrees unless
// units=rad is given; the returned observation always holds degrees.
func parseGeometry(req *http.Request) (observation.Observation, brdf.Geometry, error) {
	var o observation.Observation
	var vals [4]float64
	for i, name := range []string{"sza", "vza", "saa", "vaa"} {
		v, err := queryFloat(req, name)
		if err != nil {
			return o, brdf.Geometry{}, err
		}
		vals[i] = v
	}

	switch units := req.URL.Query().Get("units"); units {
	case "", "deg":
	case "rad":
		for i := range vals {
			vals[i] = brdf.Rad2Deg(vals[i])
		}
	default:
		return o, brdf.Geometry{}, fmt.Errorf("unsupported units %q", units)
	}

	o.SZA, o.VZA, o.SAA, o.VAA = vals[0], vals[1], vals[2], vals[3]
	return o, o.Geometry(), nil
}

func queryFloat(req *http.Request, name string) (float64, error) {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing parameter %q", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %w", name, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parameter %q: non-finite value %q", name, raw)
	}
	return v, nil
}
