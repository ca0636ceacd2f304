// Package solar computes the apparent position of the sun for a ground
// location, giving the solar zenith and azimuth angles needed by BRDF
// normalization when a product carries only acquisition time.
package solar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// Position is the sun position seen from a ground location.
type Position struct {
	ZenithDeg      float64 // angle from local vertical
	AzimuthDeg     float64 // clockwise from true north, [0, 360)
	ElevationDeg   float64 // 90 - zenith, no refraction correction
	DeclinationDeg float64
	EqOfTimeMin    float64
}

// AboveHorizon reports whether the sun is above the geometric horizon.
func (p Position) AboveHorizon() bool {
	return p.ZenithDeg < 90
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
func fixAngle(a float64) float64   { return a - 360.0*math.Floor(a/360.0) }

// Calculate returns the sun position at t for latitude and longitude in
// degrees (north and east positive). It uses the NOAA low-precision solar
// series, good to roughly 0.01 degrees between 1950 and 2050.
func Calculate(t time.Time, lat, lon float64) Position {
	t = t.UTC()
	jd := julian.TimeToJD(t)
	T := (jd - 2451545.0) / 36525.0

	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	C := math.Sin(degToRad(M))*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(degToRad(2*M))*(0.019993-T*0.000101) +
		math.Sin(degToRad(3*M))*0.000289
	omega := 125.04 - 1934.136*T
	lambda := L0 + C - 0.00569 - 0.00478*math.Sin(degToRad(omega))
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	eps := eps0 + 0.00256*math.Cos(degToRad(omega))
	decl := math.Asin(math.Sin(degToRad(eps)) * math.Sin(degToRad(lambda)))

	y := math.Tan(degToRad(eps)/2) * math.Tan(degToRad(eps)/2)
	eqTime := radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4

	utcMin := float64(t.Hour()*60+t.Minute()) + (float64(t.Second())+float64(t.Nanosecond())/1e9)/60.0
	tst := utcMin + 4*lon + eqTime
	ha := tst/4 - 180
	if ha < -180 {
		ha += 360
	} else if ha > 180 {
		ha -= 360
	}
	haRad := degToRad(ha)

	latRad := degToRad(lat)
	cosZen := math.Sin(latRad)*math.Sin(decl) + math.Cos(latRad)*math.Cos(decl)*math.Cos(haRad)
	zen := math.Acos(math.Max(-1, math.Min(1, cosZen)))

	var az float64
	if den := math.Cos(latRad) * math.Sin(zen); math.Abs(den) > 1e-12 {
		cosAz := (math.Sin(decl) - math.Sin(latRad)*cosZen) / den
		az = radToDeg(math.Acos(math.Max(-1, math.Min(1, cosAz))))
		if ha > 0 {
			az = 360 - az
		}
	} else if lat > 0 {
		// sun at zenith or observer at a pole
		az = 180
	}

	zenDeg := radToDeg(zen)
	return Position{
		ZenithDeg:      zenDeg,
		AzimuthDeg:     fixAngle(az),
		ElevationDeg:   90 - zenDeg,
		DeclinationDeg: radToDeg(decl),
		EqOfTimeMin:    eqTime,
	}
}
