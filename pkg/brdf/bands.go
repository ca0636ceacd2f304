package brdf

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownBand is returned when a band has no entry in the coefficient table.
var ErrUnknownBand = errors.New("unknown band identifier")

// Band identifies a Sentinel-2 MSI spectral band, e.g. "B04".
type Band string

// Sentinel-2 bands with literature coefficients.
const (
	B02 Band = "B02" // blue
	B03 Band = "B03" // green
	B04 Band = "B04" // red
	B08 Band = "B08" // NIR
	B11 Band = "B11" // SWIR 1
	B12 Band = "B12" // SWIR 2
)

// Coefficients are the isotropic, geometric and volumetric weights of the
// linear kernel model for one band.
type Coefficients struct {
	Iso float64 `json:"f_iso" yaml:"f_iso"`
	Geo float64 `json:"f_geo" yaml:"f_geo"`
	Vol float64 `json:"f_vol" yaml:"f_vol"`
}

// BandTable maps bands to their model coefficients.
type BandTable map[Band]Coefficients

// Roy et al. 2017, table 1
var royCoefficients = BandTable{
	B02: {Iso: 0.0774, Geo: 0.0079, Vol: 0.0372},
	B03: {Iso: 0.1306, Geo: 0.0178, Vol: 0.0580},
	B04: {Iso: 0.1690, Geo: 0.0227, Vol: 0.0574},
	B08: {Iso: 0.3093, Geo: 0.0330, Vol: 0.1535},
	B11: {Iso: 0.3430, Geo: 0.0453, Vol: 0.1154},
	B12: {Iso: 0.2658, Geo: 0.0387, Vol: 0.0639},
}

// DefaultBands returns a copy of the Roy et al. (2017) coefficient table.
// Callers may extend the copy without affecting the package default.
func DefaultBands() BandTable {
	return royCoefficients.Clone()
}

// Clone returns an independent copy of t.
func (t BandTable) Clone() BandTable {
	out := make(BandTable, len(t))
	for b, c := range t {
		out[b] = c
	}
	return out
}

// Lookup returns the coefficients for band b or an error wrapping ErrUnknownBand.
func (t BandTable) Lookup(b Band) (Coefficients, error) {
	c, ok := t[b]
	if !ok {
		return Coefficients{}, fmt.Errorf("%w: %q", ErrUnknownBand, string(b))
	}
	return c, nil
}

// Bands returns the table keys in sorted order.
func (t BandTable) Bands() []Band {
	bands := make([]Band, 0, len(t))
	for b := range t {
		bands = append(bands, b)
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i] < bands[j] })
	return bands
}

// ParseBand normalizes s ("b4", " B04 ", "b8a") to a Band and checks that t
// has coefficients for it.
func (t BandTable) ParseBand(s string) (Band, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	// accept the single-digit form, B4 -> B04
	if len(name) == 2 && name[0] == 'B' && name[1] >= '0' && name[1] <= '9' {
		name = "B0" + name[1:]
	}
	b := Band(name)
	if _, err := t.Lookup(b); err != nil {
		return "", err
	}
	return b, nil
}
