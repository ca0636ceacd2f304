package brdf

// RhoMODIS evaluates the linear kernel model (Roy et al. 2017 eq. 6, Lucht
// et al. 2000 eq. 37) for geometry g and coefficients c.
func RhoMODIS(g Geometry, c Coefficients) float64 {
	return c.Iso + c.Vol*KVol(g.SZA, g.VZA, g.SAA, g.VAA) + c.Geo*KGeo(g.SZA, g.VZA, g.SAA, g.VAA)
}

// Normalizer converts observed reflectance to NBAR using a coefficient table
// and a reference geometry policy. The zero value is not usable; use
// NewNormalizer or DefaultNormalizer.
type Normalizer struct {
	Bands     BandTable
	Reference ReferenceGeometry
}

// NewNormalizer returns a Normalizer over bands. A nil ref selects NadirView.
func NewNormalizer(bands BandTable, ref ReferenceGeometry) *Normalizer {
	if ref == nil {
		ref = NadirView
	}
	return &Normalizer{Bands: bands, Reference: ref}
}

var defaultNormalizer = NewNormalizer(royCoefficients, NadirView)

// DefaultNormalizer returns a Normalizer over the literature table with a
// nadir-view reference.
func DefaultNormalizer() *Normalizer {
	return NewNormalizer(DefaultBands(), NadirView)
}

// CLambda returns the ratio of the modeled reflectance at the reference
// geometry to the modeled reflectance at the observed geometry (Roy et al.
// 2017 eq. 5, part 2). A zero denominator yields Inf or NaN.
func (n *Normalizer) CLambda(g Geometry, band Band) (float64, error) {
	c, err := n.Bands.Lookup(band)
	if err != nil {
		return 0, err
	}
	return n.cLambda(g, c), nil
}

func (n *Normalizer) cLambda(g Geometry, c Coefficients) float64 {
	// TODO: reference to the average solar zenith of the forward/backward
	// scattering pair once both observations are available together.
	return RhoMODIS(n.Reference(g), c) / RhoMODIS(g, c)
}

// NBAR returns the nadir BRDF-adjusted reflectance for the observed
// reflectance r (Roy et al. 2017 eq. 5, part 1). r is not range checked.
func (n *Normalizer) NBAR(r float64, band Band, g Geometry) (float64, error) {
	cl, err := n.CLambda(g, band)
	if err != nil {
		return 0, err
	}
	return cl * r, nil
}

// CLambda computes the normalization factor with the literature table and
// a nadir-view reference.
func CLambda(g Geometry, band Band) (float64, error) {
	return defaultNormalizer.CLambda(g, band)
}

// NBAR computes nadir BRDF-adjusted reflectance with the literature table
// and a nadir-view reference.
func NBAR(r float64, band Band, g Geometry) (float64, error) {
	return defaultNormalizer.NBAR(r, band, g)
}
