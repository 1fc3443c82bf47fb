package astro

import (
	"errors"
	"math"
	"time"
)

// ErrInsufficientSamples is returned when a trace is too short to contain a
// crossing.
var ErrInsufficientSamples = errors.New("insufficient samples for crossing search")

// ElevationSample is the Sun's apparent altitude at one instant.
type ElevationSample struct {
	Time   time.Time
	AltDeg float64
}

// TraceSun samples the Sun's apparent altitude every step from start, for
// span. Both ends are included.
func TraceSun(obs Observer, start time.Time, span, step time.Duration) []ElevationSample {
	if step <= 0 || span < 0 {
		return nil
	}
	n := int(span/step) + 1
	samples := make([]ElevationSample, n)
	for i := range samples {
		t := start.Add(time.Duration(i) * step)
		samples[i] = ElevationSample{Time: t, AltDeg: SunHorizontal(obs, t).AltDeg}
	}
	return samples
}

// SampledCrossing is the result of scanning a trace for an elevation.
type SampledCrossing struct {
	Rise      time.Time // first upward crossing
	Set       time.Time // first downward crossing after Rise, or after the start
	RiseFound bool
	SetFound  bool
	MaxAltDeg float64
	Transit   time.Time // sample with the highest altitude
}

// FindCrossings scans chronologically ordered samples for the first upward
// crossing of elevDeg and the first downward crossing after it. Crossing
// times are linearly interpolated between samples.
func FindCrossings(samples []ElevationSample, elevDeg float64) (SampledCrossing, error) {
	if len(samples) < 2 {
		return SampledCrossing{}, ErrInsufficientSamples
	}

	var c SampledCrossing
	c.MaxAltDeg = math.Inf(-1)
	for _, s := range samples {
		if s.AltDeg > c.MaxAltDeg {
			c.MaxAltDeg, c.Transit = s.AltDeg, s.Time
		}
	}

	setFrom := 1
	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		if prev.AltDeg <= elevDeg && curr.AltDeg > elevDeg {
			c.Rise = interpolateCrossing(prev.Time, curr.Time, prev.AltDeg, curr.AltDeg, elevDeg)
			c.RiseFound = true
			setFrom = i + 1
			break
		}
	}

	for i := setFrom; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		if prev.AltDeg > elevDeg && curr.AltDeg <= elevDeg {
			c.Set = interpolateCrossing(prev.Time, curr.Time, prev.AltDeg, curr.AltDeg, elevDeg)
			c.SetFound = true
			break
		}
	}
	return c, nil
}

// interpolateCrossing finds the time when elevation crosses a threshold.
func interpolateCrossing(t1, t2 time.Time, el1, el2, threshold float64) time.Time {
	if math.Abs(el2-el1) < 0.0001 {
		return t1
	}

	fraction := (threshold - el1) / (el2 - el1)
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}

	dt := t2.Sub(t1)
	return t1.Add(time.Duration(float64(dt) * fraction))
}

// SunPhase classifies the sky by the Sun's altitude.
type SunPhase int

const (
	PhaseNight SunPhase = iota
	PhaseAstronomical
	PhaseNautical
	PhaseCivil
	PhaseDay
)

func (p SunPhase) String() string {
	switch p {
	case PhaseDay:
		return "day"
	case PhaseCivil:
		return "civil twilight"
	case PhaseNautical:
		return "nautical twilight"
	case PhaseAstronomical:
		return "astronomical twilight"
	default:
		return "night"
	}
}

// PhaseOf returns the phase for a solar altitude in degrees.
func PhaseOf(altDeg float64) SunPhase {
	switch {
	case altDeg >= SunriseSunset:
		return PhaseDay
	case altDeg >= CivilTwilight:
		return PhaseCivil
	case altDeg >= NauticalTwilight:
		return PhaseNautical
	case altDeg >= AstronomicalTwilight:
		return PhaseAstronomical
	default:
		return PhaseNight
	}
}
