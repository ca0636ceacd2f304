package brdf

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// GeometryTile holds per-pixel angles (radians) of a raster tile. All four
// matrices must have the same dimensions.
type GeometryTile struct {
	SZA, VZA, SAA, VAA mat.Matrix
}

// Dims returns the common tile dimensions or an ErrShape error.
func (t GeometryTile) Dims() (rows, cols int, err error) {
	if t.SZA == nil || t.VZA == nil || t.SAA == nil || t.VAA == nil {
		return 0, 0, fmt.Errorf("%w: nil angle matrix", ErrShape)
	}
	rows, cols = t.SZA.Dims()
	if rows == 0 || cols == 0 {
		return 0, 0, fmt.Errorf("%w: empty tile", ErrShape)
	}
	for _, m := range []mat.Matrix{t.VZA, t.SAA, t.VAA} {
		if r, c := m.Dims(); r != rows || c != cols {
			return 0, 0, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShape, rows, cols, r, c)
		}
	}
	return rows, cols, nil
}

// At returns the geometry of pixel (i, j).
func (t GeometryTile) At(i, j int) Geometry {
	return Geometry{SZA: t.SZA.At(i, j), VZA: t.VZA.At(i, j), SAA: t.SAA.At(i, j), VAA: t.VAA.At(i, j)}
}

func (t GeometryTile) apply(fn func(Geometry) float64) (*mat.Dense, error) {
	rows, cols, err := t.Dims()
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(i, j int, _ float64) float64 {
		return fn(t.At(i, j))
	}, out)
	return out, nil
}

// TileFromDegrees converts four degree-valued matrices into a GeometryTile.
func TileFromDegrees(sza, vza, saa, vaa mat.Matrix) GeometryTile {
	conv := func(m mat.Matrix) mat.Matrix {
		var d mat.Dense
		d.Scale(radPerDeg, m)
		return &d
	}
	return GeometryTile{SZA: conv(sza), VZA: conv(vza), SAA: conv(saa), VAA: conv(vaa)}
}

// KGeoTile evaluates KGeo per pixel.
func KGeoTile(t GeometryTile) (*mat.Dense, error) {
	return t.apply(func(g Geometry) float64 { return KGeo(g.SZA, g.VZA, g.SAA, g.VAA) })
}

// KVolTile evaluates KVol per pixel.
func KVolTile(t GeometryTile) (*mat.Dense, error) {
	return t.apply(func(g Geometry) float64 { return KVol(g.SZA, g.VZA, g.SAA, g.VAA) })
}

// CLambdaTile evaluates the normalization factor per pixel.
func (n *Normalizer) CLambdaTile(t GeometryTile, band Band) (*mat.Dense, error) {
	c, err := n.Bands.Lookup(band)
	if err != nil {
		return nil, err
	}
	return t.apply(func(g Geometry) float64 { return n.cLambda(g, c) })
}

// NBARTile normalizes a reflectance tile r pixel by pixel.
func (n *Normalizer) NBARTile(r mat.Matrix, band Band, t GeometryTile) (*mat.Dense, error) {
	cl, err := n.CLambdaTile(t, band)
	if err != nil {
		return nil, err
	}
	rows, cols := cl.Dims()
	if rr, rc := r.Dims(); rr != rows || rc != cols {
		return nil, fmt.Errorf("%w: reflectance %dx%d vs geometry %dx%d", ErrShape, rr, rc, rows, cols)
	}
	cl.MulElem(cl, r)
	return cl, nil
}
