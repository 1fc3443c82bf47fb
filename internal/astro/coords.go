package astro

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"
)

// Observer represents a ground-based observer location.
type Observer struct {
	Name   string  // Optional name for the site
	LatDeg float64 // Latitude in degrees (north positive)
	LonDeg float64 // Longitude in degrees (east positive)
}

func (o Observer) String() string {
	ns, ew := 'N', 'E'
	lat, lon := o.LatDeg, o.LonDeg
	if lat < 0 {
		ns, lat = 'S', -lat
	}
	if lon < 0 {
		ew, lon = 'W', -lon
	}
	s := fmt.Sprintf("%.4f°%c %.4f°%c", lat, ns, lon, ew)
	if o.Name != "" {
		s = o.Name + " (" + s + ")"
	}
	return s
}

// HorizontalCoord is a position in the observer's local sky.
type HorizontalCoord struct {
	AltDeg float64 // Altitude in degrees (0=horizon, 90=zenith)
	AzDeg  float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
}

// JulianDate returns the Julian Date of t, evaluated in UTC.
func JulianDate(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// UTCMidnight returns 00:00 UTC of the calendar day containing t in UTC.
func UTCMidnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// LocalSiderealTime returns apparent local sidereal time in degrees [0, 360).
func LocalSiderealTime(t time.Time, lonDeg float64) float64 {
	gast := sidereal.Apparent(JulianDate(t)).Angle().Deg()
	return unit.PMod(gast+lonDeg, 360)
}

// EquatorialToHorizontal converts apparent right ascension and declination to
// altitude and azimuth for an observer at time t.
func EquatorialToHorizontal(raDeg, decDeg float64, obs Observer, t time.Time) HorizontalCoord {
	// Hour angle = LST - RA
	ha := unit.AngleFromDeg(LocalSiderealTime(t, obs.LonDeg) - raDeg)
	dec := unit.AngleFromDeg(decDeg)
	lat := unit.AngleFromDeg(obs.LatDeg)

	sinAlt := dec.Sin()*lat.Sin() + dec.Cos()*lat.Cos()*ha.Cos()
	sinAlt = math.Max(-1, math.Min(1, sinAlt))
	alt := math.Asin(sinAlt)

	den := math.Cos(alt) * lat.Cos()
	az := math.Pi
	if math.Abs(den) > 1e-12 {
		cosAz := (dec.Sin() - sinAlt*lat.Sin()) / den
		// Clamp cosAz to [-1, 1] to handle floating point errors
		cosAz = math.Max(-1, math.Min(1, cosAz))
		az = math.Acos(cosAz)
		// West of the meridian when the hour angle is positive
		if ha.Sin() > 0 {
			az = 2*math.Pi - az
		}
		if az >= 2*math.Pi {
			az -= 2 * math.Pi
		}
	}

	return HorizontalCoord{
		AltDeg: unit.Angle(alt).Deg(),
		AzDeg:  unit.Angle(az).Deg(),
	}
}
