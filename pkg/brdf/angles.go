package brdf

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	degPerRad = 180.0 / math.Pi
	radPerDeg = math.Pi / 180.0
)

// Deg2Rad converts an angle from degrees to radians
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Rad2Deg converts an angle from radians to degrees
func Rad2Deg(rad float64) float64 {
	return rad / math.Pi * 180
}

// Deg2RadSlice converts every element of src to radians and stores it in dst.
// dst may be src. It returns dst, allocating it when nil.
func Deg2RadSlice(dst, src []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(src))
	}
	return floats.ScaleTo(dst, radPerDeg, src)
}

// Rad2DegSlice is the inverse of Deg2RadSlice.
func Rad2DegSlice(dst, src []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(src))
	}
	return floats.ScaleTo(dst, degPerRad, src)
}

// RelativeAzimuth returns |vaa - saa|. The difference is not wrapped into
// [0, pi], so values up to 2*pi are possible.
func RelativeAzimuth(saa, vaa float64) float64 {
	return math.Abs(vaa - saa)
}

// Sec returns 1/cos(x). It is +/-Inf where cos(x) is zero.
func Sec(x float64) float64 {
	return 1 / math.Cos(x)
}

// CosPhase returns the cosine of the phase angle between the solar and view
// directions for zenith angles theta, vartheta and relative azimuth phi.
func CosPhase(theta, vartheta, phi float64) float64 {
	return math.Cos(theta)*math.Cos(vartheta) + math.Sin(theta)*math.Sin(vartheta)*math.Cos(phi)
}
