package brdf

import "math"

// KGeo computes the LiSparse-Reciprocal geometric kernel (Lucht et al. 2000,
// eqs. 39-44) with crown shape ratios b/r = 1 and h/b = 2.
func KGeo(sza, vza, saa, vaa float64) float64 {
	phi := RelativeAzimuth(saa, vaa)

	// eq. 44 with b/r = 1: the primed angles equal the observed ones
	thetaP := sza
	varthetaP := vza

	// eq. 43
	cosXiP := CosPhase(thetaP, varthetaP, phi)

	tanT := math.Tan(thetaP)
	tanV := math.Tan(varthetaP)
	secSum := Sec(thetaP) + Sec(varthetaP)

	// eq. 42
	d := math.Sqrt(tanT*tanT + tanV*tanV - 2*tanT*tanV*math.Cos(phi))

	// eq. 41, only the upper bound is clamped
	tts := tanT * tanV * math.Sin(phi)
	cosT := 2 * math.Sqrt(d*d+tts*tts) / secSum
	t := math.Acos(math.Min(1, cosT))

	// eq. 40
	o := (1 / math.Pi) * (t - math.Sin(t)*math.Cos(t)) * secSum

	// eq. 39
	return o - Sec(thetaP) - Sec(varthetaP) + 0.5*(1+cosXiP)*Sec(thetaP)*Sec(varthetaP)
}

// KVol computes the RossThick volumetric kernel (Lucht et al. 2000, eq. 38).
// The result is Inf when sza + vza == pi.
func KVol(sza, vza, saa, vaa float64) float64 {
	phi := RelativeAzimuth(saa, vaa)

	cosXi := CosPhase(sza, vza, phi)
	// Rounding can push cosXi just past 1 at the hotspot.
	xi := math.Acos(clamp(cosXi, -1, 1))

	return ((math.Pi/2-xi)*cosXi+math.Sin(xi))/(math.Cos(sza)+math.Cos(vza)) - math.Pi/4
}

// clamp leaves NaN untouched.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
