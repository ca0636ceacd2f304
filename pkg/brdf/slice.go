package brdf

import (
	"errors"
	"fmt"
)

// ErrShape is returned when element-wise inputs do not have matching shapes.
var ErrShape = errors.New("brdf: shape mismatch")

// GeometrySlice holds per-pixel angles (radians) as parallel slices.
type GeometrySlice struct {
	SZA, VZA, SAA, VAA []float64
}

// Len returns the common length of the slices or an ErrShape error.
func (s GeometrySlice) Len() (int, error) {
	n := len(s.SZA)
	if len(s.VZA) != n || len(s.SAA) != n || len(s.VAA) != n {
		return 0, fmt.Errorf("%w: sza=%d vza=%d saa=%d vaa=%d", ErrShape, len(s.SZA), len(s.VZA), len(s.SAA), len(s.VAA))
	}
	return n, nil
}

// At returns the geometry of element i.
func (s GeometrySlice) At(i int) Geometry {
	return Geometry{SZA: s.SZA[i], VZA: s.VZA[i], SAA: s.SAA[i], VAA: s.VAA[i]}
}

func (s GeometrySlice) apply(fn func(Geometry) float64) ([]float64, error) {
	n, err := s.Len()
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = fn(s.At(i))
	}
	return out, nil
}

// KGeoSlice evaluates KGeo for every element of s.
func KGeoSlice(s GeometrySlice) ([]float64, error) {
	return s.apply(func(g Geometry) float64 { return KGeo(g.SZA, g.VZA, g.SAA, g.VAA) })
}

// KVolSlice evaluates KVol for every element of s.
func KVolSlice(s GeometrySlice) ([]float64, error) {
	return s.apply(func(g Geometry) float64 { return KVol(g.SZA, g.VZA, g.SAA, g.VAA) })
}

// CLambdaSlice evaluates the normalization factor for every element of s.
func (n *Normalizer) CLambdaSlice(s GeometrySlice, band Band) ([]float64, error) {
	c, err := n.Bands.Lookup(band)
	if err != nil {
		return nil, err
	}
	return s.apply(func(g Geometry) float64 { return n.cLambda(g, c) })
}

// NBARSlice normalizes every reflectance in r with the matching geometry in s.
func (n *Normalizer) NBARSlice(r []float64, band Band, s GeometrySlice) ([]float64, error) {
	cl, err := n.CLambdaSlice(s, band)
	if err != nil {
		return nil, err
	}
	if len(r) != len(cl) {
		return nil, fmt.Errorf("%w: reflectance=%d geometry=%d", ErrShape, len(r), len(cl))
	}
	for i := range cl {
		cl[i] *= r[i]
	}
	return cl, nil
}
