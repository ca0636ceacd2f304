package brdf

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func testTile() GeometryTile {
	return TileFromDegrees(
		mat.NewDense(2, 2, []float64{45, 45, 30, 45}),
		mat.NewDense(2, 2, []float64{0, 50, 10, 50}),
		mat.NewDense(2, 2, []float64{0, 0, 150, 90}),
		mat.NewDense(2, 2, []float64{0, 0, 100, 0}),
	)
}

func TestKGeoTile(t *testing.T) {
	got, err := KGeoTile(testTile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v := got.At(0, 0); math.Abs(v-(-1.1068191757647372)) > 1e-9 {
		t.Errorf("pixel (0,0) = %v, expected -1.1068191757647372", v)
	}
	if v := got.At(0, 1); math.Abs(v-0.4675029273554563) > 1e-9 {
		t.Errorf("pixel (0,1) = %v, expected 0.4675029273554563", v)
	}
	if v := got.At(1, 1); math.Abs(v-(-1.3813018127008058)) > 0.04 {
		t.Errorf("pixel (1,1) = %v, expected -1.3813018127008058 (+/-0.04)", v)
	}
}

func TestKVolTile(t *testing.T) {
	got, err := KVolTile(testTile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := got.At(0, 1); math.Abs(v-0.374) > 0.001 {
		t.Errorf("pixel (0,1) = %v, expected 0.374", v)
	}
}

func TestNBARTile(t *testing.T) {
	tile := testTile()
	r := mat.NewDense(2, 2, []float64{0.1, 0.2, 0.12, 0.3})

	got, err := DefaultNormalizer().NBARTile(r, B04, tile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v := got.At(0, 0); v != 0.1 {
		t.Errorf("nadir pixel = %v, expected 0.1", v)
	}
	if v := got.At(1, 0); math.Abs(v-0.116335816338364) > 1e-9 {
		t.Errorf("pixel (1,0) = %v, expected 0.116335816338364", v)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want, _ := NBAR(r.At(i, j), B04, tile.At(i, j))
			if got.At(i, j) != want {
				t.Errorf("pixel (%d,%d) = %v, expected scalar %v", i, j, got.At(i, j), want)
			}
		}
	}
}

func TestTileShapeErrors(t *testing.T) {
	tile := testTile()
	tile.VAA = mat.NewDense(1, 2, []float64{0, 0})
	if _, err := KVolTile(tile); !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape, got %v", err)
	}

	if _, err := KGeoTile(GeometryTile{}); !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape for nil matrices, got %v", err)
	}

	r := mat.NewDense(3, 3, nil)
	if _, err := DefaultNormalizer().NBARTile(r, B04, testTile()); !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape for mismatched reflectance, got %v", err)
	}
}
