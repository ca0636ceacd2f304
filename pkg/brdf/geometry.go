package brdf

// Geometry is the sun/view configuration of a single observation. All fields
// are radians. Zenith angles are expected in [0, pi/2] for physical
// observations but are not validated.
type Geometry struct {
	SZA float64 // solar zenith
	VZA float64 // view zenith
	SAA float64 // solar azimuth
	VAA float64 // view azimuth
}

// GeometryFromDegrees builds a Geometry from angles given in degrees.
func GeometryFromDegrees(sza, vza, saa, vaa float64) Geometry {
	return Geometry{
		SZA: Deg2Rad(sza),
		VZA: Deg2Rad(vza),
		SAA: Deg2Rad(saa),
		VAA: Deg2Rad(vaa),
	}
}

// RelativeAzimuth returns the unwrapped relative azimuth of g.
func (g Geometry) RelativeAzimuth() float64 {
	return RelativeAzimuth(g.SAA, g.VAA)
}

// ReferenceGeometry derives the geometry a reflectance is normalized to
// from the observed geometry.
type ReferenceGeometry func(observed Geometry) Geometry

// NadirView keeps the observed solar zenith and both azimuths and forces a
// nadir view (VZA = 0). The azimuths still feed the kernels even though they
// carry no physical meaning at nadir.
func NadirView(observed Geometry) Geometry {
	observed.VZA = 0
	return observed
}

// FixedSolarZenith returns a policy that normalizes to a nadir view under a
// fixed solar zenith sza (radians), as done when NBAR is referenced to a
// modeled solar zenith rather than the per-observation one.
func FixedSolarZenith(sza float64) ReferenceGeometry {
	return func(observed Geometry) Geometry {
		ref := NadirView(observed)
		ref.SZA = sza
		return ref
	}
}
