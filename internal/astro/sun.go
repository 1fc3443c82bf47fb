// Package astro provides the solar geometry behind CTU: equation of time,
// declination, solar noon and the hour angle of twilight crossings.
package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// sinObliquity is sin(23.44°), the fixed obliquity used for declination.
const sinObliquity = 0.3977895

// SolarCoordinates returns the Sun's declination in degrees and the equation
// of time in minutes for a Julian date.
// Uses the low-precision solar series from Meeus, Astronomical Algorithms
// (ch. 25 and 28). Accuracy: ~0.01° in declination, a few seconds in the
// equation of time.
func SolarCoordinates(jd float64) (decDeg, eotMin float64) {
	// Julian centuries from J2000.0
	T := base.J2000Century(jd)

	// Mean longitude and mean anomaly of the Sun (degrees)
	L := unit.PMod(280.46646+36000.76983*T+0.0003032*T*T, 360)
	M := unit.PMod(357.52911+35999.05029*T-0.0001537*T*T, 360)

	// Eccentricity of Earth's orbit
	e := 0.016708634 - 0.000042037*T - 0.0000001267*T*T

	mA := unit.AngleFromDeg(M)
	lA := unit.AngleFromDeg(L)

	// Equation of center (degrees)
	C := (1.914602-0.004817*T-0.000014*T*T)*mA.Sin() +
		(0.019993-0.000101*T)*mA.Mul(2).Sin() +
		0.000289*mA.Mul(3).Sin()

	// True ecliptic longitude
	lambda := unit.AngleFromDeg(unit.PMod(L+C, 360))
	decDeg = unit.Angle(math.Asin(lambda.Sin() * sinObliquity)).Deg()

	// Equation of time (Smart's series), radians
	eps := unit.AngleFromDeg(23.4393 - 0.01300*T)
	y := eps.Div(2).Tan()
	y *= y
	E := y*lA.Mul(2).Sin() -
		2*e*mA.Sin() +
		4*e*y*mA.Sin()*lA.Mul(2).Cos() -
		0.5*y*y*lA.Mul(4).Sin() -
		1.25*e*e*mA.Mul(2).Sin()

	// 4 minutes of time per degree
	eotMin = unit.Angle(E).Deg() * 4
	return decDeg, eotMin
}

// SunHorizontal returns the apparent altitude and azimuth of the Sun for an
// observer at time t.
func SunHorizontal(obs Observer, t time.Time) HorizontalCoord {
	ra, dec := solar.ApparentEquatorial(JulianDate(t))
	return EquatorialToHorizontal(ra.Angle().Deg(), dec.Deg(), obs, t)
}
