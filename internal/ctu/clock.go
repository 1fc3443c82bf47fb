// Package ctu converts between UTC and Calculated Time Uncoordinated, a clock
// whose noon is pinned to true solar noon at a longitude. The first 23 hours
// of every CTU day run at SI rate; the last hour absorbs the difference
// between the real solar day and 24 h.
package ctu

import (
	"fmt"
	"math"
	"time"

	"cloudeng.io/datetime"

	"github.com/litescript/ls-ctu/internal/astro"
	"github.com/litescript/ls-ctu/internal/logging"
)

// Options configures a Clock.
type Options struct {
	// Cache is shared noon storage. When nil a private cache of CacheSize
	// entries is created.
	Cache *NoonCache

	// CacheSize sizes the private cache. Zero uses DefaultCacheSize; a
	// negative value disables memoization.
	CacheSize int

	// MaxRetries bounds window-seam retries. Zero uses DefaultMaxRetries.
	MaxRetries int

	// Now supplies the current time. Defaults to time.Now.
	Now func() time.Time

	Logger *logging.Logger
}

// Reading is the full result of converting one UTC instant.
type Reading struct {
	UTC     time.Time // instant that was converted
	Probe   time.Time // instant the window was resolved for; differs from UTC only in a seam
	Time    Time
	Day     SolarDay
	Elapsed float64 // real seconds since solar midnight
}

// Clock converts between UTC and CTU. It is safe for concurrent use.
type Clock struct {
	cache    *NoonCache
	resolver *Resolver
	now      func() time.Time
	log      *logging.Logger
}

// NewClock creates a Clock.
func NewClock(opts Options) *Clock {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	cache := opts.Cache
	if cache == nil && opts.CacheSize >= 0 {
		cache = NewNoonCache(opts.CacheSize)
		cache.SetLogger(log.With("cache"))
	}
	retries := opts.MaxRetries
	if retries == 0 {
		retries = DefaultMaxRetries
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Clock{
		cache:    cache,
		resolver: NewResolver(cache, retries, log.With("window")),
		now:      now,
		log:      log,
	}
}

// Cache returns the clock's noon cache, nil when memoization is disabled.
func (c *Clock) Cache() *NoonCache {
	return c.cache
}

// Read converts a UTC instant and returns every intermediate quantity.
func (c *Clock) Read(utc time.Time, lonDeg float64) (Reading, error) {
	utc, err := ValidateInstant(utc)
	if err != nil {
		return Reading{}, err
	}
	day, probe, err := c.resolver.Resolve(utc, lonDeg)
	if err != nil {
		return Reading{}, err
	}
	elapsed := probe.Sub(day.Midnight).Seconds()
	sec, err := ScaleForward(elapsed, day.Seconds())
	if err != nil {
		return Reading{}, fmt.Errorf("solar day %s: %w", FormatDay(day.ReferenceDay), err)
	}
	return Reading{
		UTC:     utc,
		Probe:   probe,
		Time:    TimeFromSeconds(sec),
		Day:     day,
		Elapsed: elapsed,
	}, nil
}

// UTCToCTU converts a UTC instant to CTU at a longitude and returns the
// reference day needed to convert it back.
func (c *Clock) UTCToCTU(utc time.Time, lonDeg float64) (Time, datetime.CalendarDate, error) {
	r, err := c.Read(utc, lonDeg)
	if err != nil {
		return Time{}, datetime.CalendarDate(0), err
	}
	return r.Time, r.Day.ReferenceDay, nil
}

// CTUToUTC converts a CTU reading on a reference day back to UTC.
func (c *Clock) CTUToUTC(t Time, ref datetime.CalendarDate, lonDeg float64) (time.Time, error) {
	day := c.resolver.Day(lonDeg, ref)
	elapsed, err := ScaleInverse(t.Seconds(), day.Seconds())
	if err != nil {
		return time.Time{}, fmt.Errorf("solar day %s: %w", FormatDay(ref), err)
	}
	return day.Midnight.Add(secondsToDuration(elapsed)).UTC(), nil
}

// Now returns the current CTU reading at a longitude.
func (c *Clock) Now(lonDeg float64) (Time, error) {
	t, _, err := c.UTCToCTU(c.now().UTC(), lonDeg)
	return t, err
}

// NowReading returns the full reading for the current instant.
func (c *Clock) NowReading(lonDeg float64) (Reading, error) {
	return c.Read(c.now().UTC(), lonDeg)
}

// RoundtripError converts utc to CTU and back and returns the absolute
// discrepancy in seconds.
func (c *Clock) RoundtripError(lonDeg float64, utc time.Time) (float64, error) {
	t, ref, err := c.UTCToCTU(utc, lonDeg)
	if err != nil {
		return 0, err
	}
	back, err := c.CTUToUTC(t, ref, lonDeg)
	if err != nil {
		return 0, err
	}
	return math.Abs(utc.Sub(back).Seconds()), nil
}

// SolarDayOn returns the solar day for a reference day.
func (c *Clock) SolarDayOn(ref datetime.CalendarDate, lonDeg float64) SolarDay {
	return c.resolver.Day(lonDeg, ref)
}

// Twilight returns the crossings of elevDeg around solar noon on the UTC
// calendar day of date.
func (c *Clock) Twilight(latDeg, lonDeg float64, date time.Time, elevDeg float64) astro.Crossing {
	noon := c.cache.Get(lonDeg, date)
	return astro.CrossingAt(noon, latDeg, elevDeg)
}

// DawnDusk returns civil dawn and dusk in UTC.
func (c *Clock) DawnDusk(latDeg, lonDeg float64, date time.Time) (dawn, dusk time.Time) {
	return c.DawnDuskAt(latDeg, lonDeg, date, astro.CivilTwilight)
}

// DawnDuskAt returns dawn and dusk in UTC for an arbitrary elevation.
func (c *Clock) DawnDuskAt(latDeg, lonDeg float64, date time.Time, elevDeg float64) (dawn, dusk time.Time) {
	x := c.Twilight(latDeg, lonDeg, date, elevDeg)
	return x.Dawn, x.Dusk
}

// DawnDuskCTU returns civil dawn and dusk as CTU readings.
func (c *Clock) DawnDuskCTU(latDeg, lonDeg float64, date time.Time) (dawn, dusk Time, err error) {
	return c.DawnDuskCTUAt(latDeg, lonDeg, date, astro.CivilTwilight)
}

// DawnDuskCTUAt returns dawn and dusk as CTU readings for an arbitrary
// elevation.
func (c *Clock) DawnDuskCTUAt(latDeg, lonDeg float64, date time.Time, elevDeg float64) (dawn, dusk Time, err error) {
	dawnUTC, duskUTC := c.DawnDuskAt(latDeg, lonDeg, date, elevDeg)
	if dawn, _, err = c.UTCToCTU(dawnUTC, lonDeg); err != nil {
		return Time{}, Time{}, fmt.Errorf("dawn: %w", err)
	}
	if dusk, _, err = c.UTCToCTU(duskUTC, lonDeg); err != nil {
		return Time{}, Time{}, fmt.Errorf("dusk: %w", err)
	}
	return dawn, dusk, nil
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(math.Round(sec * float64(time.Second)))
}
