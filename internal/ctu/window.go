package ctu

import (
	"fmt"
	"time"

	"cloudeng.io/datetime"

	"github.com/litescript/ls-ctu/internal/logging"
)

// DefaultMaxRetries bounds the one-second back-off used when an instant
// falls into the seam between two solar-day windows. Seams stay below a
// second except across New Year, where the day-of-year fit restarts and they
// can reach about 20 s.
const DefaultMaxRetries = 60

// SolarDay is one solar day at a longitude: the span from solar midnight to
// the next solar midnight, centred on its noon.
type SolarDay struct {
	ReferenceDay datetime.CalendarDate
	Longitude    float64
	Noon         time.Time
	Midnight     time.Time     // Noon - Duration/2
	Duration     time.Duration // next noon - noon
}

// Seconds returns the length of the solar day in seconds.
func (d SolarDay) Seconds() float64 {
	return d.Duration.Seconds()
}

// End returns the exclusive end of the window.
func (d SolarDay) End() time.Time {
	return d.Midnight.Add(d.Duration)
}

// Contains reports whether Midnight <= t < End.
func (d SolarDay) Contains(t time.Time) bool {
	return !t.Before(d.Midnight) && t.Before(d.End())
}

// VariableHourStart returns the instant at which CTU 23:00:00 occurs.
func (d SolarDay) VariableHourStart() time.Time {
	return d.Midnight.Add(time.Duration(FixedSeconds) * time.Second)
}

// Resolver locates the solar day that contains an instant.
type Resolver struct {
	cache      *NoonCache
	maxRetries int
	log        *logging.Logger
}

// NewResolver creates a resolver reading noons through cache, which may be
// nil. A negative maxRetries uses DefaultMaxRetries.
func NewResolver(cache *NoonCache, maxRetries int, log *logging.Logger) *Resolver {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Resolver{cache: cache, maxRetries: maxRetries, log: log}
}

// Day builds the solar day for a known reference day.
func (r *Resolver) Day(lonDeg float64, ref datetime.CalendarDate) SolarDay {
	start := DayStart(ref)
	noon := r.cache.Get(lonDeg, start)
	next := r.cache.Get(lonDeg, start.AddDate(0, 0, 1))
	dur := next.Sub(noon)
	return SolarDay{
		ReferenceDay: ref,
		Longitude:    lonDeg,
		Noon:         noon,
		Midnight:     noon.Add(-dur / 2),
		Duration:     dur,
	}
}

// Resolve returns the solar day whose window contains utc, trying the
// reference days before, on and after utc's calendar date.
//
// Consecutive windows do not meet exactly: their edges are half-day offsets
// from different noons and can leave a sub-second seam. An instant in a seam
// is retried one second earlier, up to the retry budget. The instant the
// window was found for is returned alongside it.
func (r *Resolver) Resolve(utc time.Time, lonDeg float64) (SolarDay, time.Time, error) {
	probe := utc
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		today := CalendarDay(probe)
		for _, offset := range [...]int{-1, 0, 1} {
			day := r.Day(lonDeg, AddDays(today, offset))
			if day.Contains(probe) {
				if attempt > 0 {
					r.log.Debug("instant %s resolved %d s earlier into solar day %s",
						utc.Format(time.RFC3339Nano), attempt, FormatDay(day.ReferenceDay))
				}
				return day, probe, nil
			}
		}
		probe = probe.Add(-time.Second)
	}
	return SolarDay{}, utc, fmt.Errorf("%w: %s at longitude %.4f after %d retries",
		ErrWindowResolution, utc.Format(time.RFC3339Nano), lonDeg, r.maxRetries)
}
