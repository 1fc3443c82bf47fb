package state

import (
	"fmt"
	"time"

	"github.com/litescript/ls-ctu/internal/astro"
	"github.com/litescript/ls-ctu/internal/ctu"
)

// Sample is everything shown for one instant at one observer.
type Sample struct {
	Reading      ctu.Reading
	Twilight     astro.Crossing
	DawnCTU      ctu.Time
	DuskCTU      ctu.Time
	Sun          astro.HorizontalCoord
	Cache        ctu.CacheStats
	RoundtripErr float64 // seconds
}

// Take reads the clock at the given instant. Twilight is computed for the
// reference day of the solar day containing at.
func Take(clock *ctu.Clock, obs astro.Observer, elevDeg float64, at time.Time) (Sample, error) {
	at = at.UTC()
	r, err := clock.Read(at, obs.LonDeg)
	if err != nil {
		return Sample{}, err
	}
	tw := clock.Twilight(obs.LatDeg, obs.LonDeg, ctu.DayStart(r.Day.ReferenceDay), elevDeg)

	dawn, _, err := clock.UTCToCTU(tw.Dawn, obs.LonDeg)
	if err != nil {
		return Sample{}, fmt.Errorf("dawn: %w", err)
	}
	dusk, _, err := clock.UTCToCTU(tw.Dusk, obs.LonDeg)
	if err != nil {
		return Sample{}, fmt.Errorf("dusk: %w", err)
	}
	rt, err := clock.RoundtripError(obs.LonDeg, at)
	if err != nil {
		return Sample{}, err
	}

	return Sample{
		Reading:      r,
		Twilight:     tw,
		DawnCTU:      dawn,
		DuskCTU:      dusk,
		Sun:          astro.SunHorizontal(obs, at),
		Cache:        clock.Cache().Stats(),
		RoundtripErr: rt,
	}, nil
}
