package brdf

import (
	"errors"
	"math"
	"testing"
)

var offNadir = GeometryFromDegrees(30, 10, 150, 100)

func TestRhoMODISLinearInCoefficients(t *testing.T) {
	g := GeometryFromDegrees(40, 25, 120, 300)
	kv := KVol(g.SZA, g.VZA, g.SAA, g.VAA)
	kg := KGeo(g.SZA, g.VZA, g.SAA, g.VAA)

	base := Coefficients{Iso: 0.1, Geo: 0.02, Vol: 0.05}
	rho0 := RhoMODIS(g, base)

	tests := []struct {
		name   string
		delta  Coefficients
		kernel float64
	}{
		{"iso", Coefficients{Iso: 0.3}, 1},
		{"geo", Coefficients{Geo: 0.3}, kg},
		{"vol", Coefficients{Vol: 0.3}, kv},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Coefficients{
				Iso: base.Iso + tt.delta.Iso,
				Geo: base.Geo + tt.delta.Geo,
				Vol: base.Vol + tt.delta.Vol,
			}
			got := RhoMODIS(g, c) - rho0
			want := 0.3 * tt.kernel
			if math.Abs(got-want) > 1e-12 {
				t.Errorf("increment = %v, expected %v", got, want)
			}
		})
	}

	if got := RhoMODIS(g, Coefficients{Iso: 0.25}); got != 0.25 {
		t.Errorf("isotropic-only model = %v, expected 0.25", got)
	}
}

func TestCLambda(t *testing.T) {
	tests := []struct {
		band     Band
		expected float64
	}{
		{B04, 0.9694651361530333},
		{B08, 0.9685890403695087},
	}

	for _, tt := range tests {
		t.Run(string(tt.band), func(t *testing.T) {
			got, err := CLambda(offNadir, tt.band)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("CLambda = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestNBAR(t *testing.T) {
	got, err := NBAR(0.12, B04, offNadir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-0.116335816338364) > 1e-9 {
		t.Errorf("NBAR = %v, expected 0.116335816338364", got)
	}
}

func TestNBARAtNadirIsIdentity(t *testing.T) {
	// the reference keeps saa/vaa, so a nadir observation maps onto itself
	for _, band := range DefaultBands().Bands() {
		for _, g := range []Geometry{
			GeometryFromDegrees(45, 0, 0, 0),
			GeometryFromDegrees(30, 0, 150, 100),
			GeometryFromDegrees(60, 0, 10, 350),
		} {
			for _, r := range []float64{0, 0.05, 0.3, 1.2, -0.1} {
				got, err := NBAR(r, band, g)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != r {
					t.Errorf("NBAR(%v, %s, %+v) = %v, expected %v", r, band, g, got, r)
				}
			}
		}
	}
}

func TestCLambdaUnknownBand(t *testing.T) {
	_, err := CLambda(offNadir, Band("B99"))
	if !errors.Is(err, ErrUnknownBand) {
		t.Fatalf("expected ErrUnknownBand, got %v", err)
	}

	_, err = NBAR(0.1, Band("B99"), offNadir)
	if !errors.Is(err, ErrUnknownBand) {
		t.Fatalf("expected ErrUnknownBand from NBAR, got %v", err)
	}
}

func TestCLambdaZeroModelPropagatesNaN(t *testing.T) {
	n := NewNormalizer(BandTable{"ZERO": {}}, nil)
	got, err := n.CLambda(offNadir, "ZERO")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(got) {
		t.Errorf("CLambda with zero coefficients = %v, expected NaN", got)
	}
}

func TestFixedSolarZenithReference(t *testing.T) {
	n := NewNormalizer(DefaultBands(), FixedSolarZenith(Deg2Rad(45)))
	got, err := n.CLambda(offNadir, B04)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-0.9047502030637996) > 1e-9 {
		t.Errorf("CLambda = %v, expected 0.9047502030637996", got)
	}
}

func TestNadirView(t *testing.T) {
	g := GeometryFromDegrees(30, 10, 150, 100)
	ref := NadirView(g)
	if ref.VZA != 0 {
		t.Errorf("expected VZA 0, got %v", ref.VZA)
	}
	if ref.SZA != g.SZA || ref.SAA != g.SAA || ref.VAA != g.VAA {
		t.Errorf("NadirView changed sun geometry or azimuths: %+v -> %+v", g, ref)
	}
}

func TestTrueColor(t *testing.T) {
	rgb, err := DefaultNormalizer().TrueColor(0.2, 0.1, 0.05, offNadir, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := RGB{R: 0.48473256807651666, G: 0.2413993632555046, B: 0.12122996241310205}
	if math.Abs(rgb.R-want.R) > 1e-9 || math.Abs(rgb.G-want.G) > 1e-9 || math.Abs(rgb.B-want.B) > 1e-9 {
		t.Errorf("TrueColor = %+v, expected %+v", rgb, want)
	}

	n := NewNormalizer(BandTable{B04: {Iso: 1}}, nil)
	if _, err := n.TrueColor(0.2, 0.1, 0.05, offNadir, 1); !errors.Is(err, ErrUnknownBand) {
		t.Errorf("expected ErrUnknownBand for a table without B03, got %v", err)
	}
}
