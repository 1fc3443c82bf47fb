package astro

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/soniakeys/unit"
)

// Solar elevation thresholds in degrees.
const (
	SolarRadius = 0.26667 // apparent radius of the solar disc
	Refraction  = 0.5667  // atmospheric refraction at the horizon

	SunriseSunset        = -(SolarRadius + Refraction) // upper limb on the horizon
	CivilTwilight        = -6.0
	NauticalTwilight     = -12.0
	AstronomicalTwilight = -18.0
)

// ParseElevation maps a twilight name to its elevation threshold.
// Accepted names: civil, sunrise, nautical, astronomical.
func ParseElevation(name string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "civil", "":
		return CivilTwilight, nil
	case "sunrise", "sunset", "sunrise-sunset":
		return SunriseSunset, nil
	case "nautical":
		return NauticalTwilight, nil
	case "astronomical":
		return AstronomicalTwilight, nil
	default:
		return 0, fmt.Errorf("unknown twilight %q (want civil, sunrise, nautical or astronomical)", name)
	}
}

// HourAngle returns the hour angle in degrees at which the Sun reaches
// elevation elevDeg, for an observer at latDeg when the solar declination is
// decDeg.
//
// Polar cases are clamped: if the Sun never climbs to elevDeg the result is
// 0° (dawn and dusk collapse onto noon); if it never sinks to elevDeg the
// result is 180° (the crossing window spans the whole day).
func HourAngle(latDeg, decDeg, elevDeg float64) float64 {
	lat := unit.AngleFromDeg(latDeg)
	dec := unit.AngleFromDeg(decDeg)
	elev := unit.AngleFromDeg(elevDeg)

	cosHA := (elev.Sin() - lat.Sin()*dec.Sin()) / (lat.Cos() * dec.Cos())
	switch {
	case cosHA < -1:
		return 180
	case cosHA > 1:
		return 0
	}
	return unit.Angle(math.Acos(cosHA)).Deg()
}

// Crossing holds the two instants at which the Sun passes a given elevation
// on one solar day, and the quantities they were derived from.
type Crossing struct {
	Noon         time.Time
	Dawn         time.Time
	Dusk         time.Time
	ElevationDeg float64
	HourAngleDeg float64
	DecDeg       float64
	EotMin       float64
}

// CrossingAt computes dawn and dusk around the given solar noon. The
// declination and equation of time are evaluated at noon; dawn and dusk are
// placed symmetrically at noon ∓ (4·HA + EoT) minutes.
func CrossingAt(noon time.Time, latDeg, elevDeg float64) Crossing {
	dec, eot := SolarCoordinates(JulianDate(noon))
	ha := HourAngle(latDeg, dec, elevDeg)

	offset := time.Duration(math.Round((ha*4 + eot) * float64(time.Minute)))
	return Crossing{
		Noon:         noon,
		Dawn:         noon.Add(-offset),
		Dusk:         noon.Add(offset),
		ElevationDeg: elevDeg,
		HourAngleDeg: ha,
		DecDeg:       dec,
		EotMin:       eot,
	}
}
