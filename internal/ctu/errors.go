package ctu

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidOffset is returned when an instant passed to a conversion
	// does not carry a zero UTC offset.
	ErrInvalidOffset = errors.New("instant must have a zero UTC offset")

	// ErrDegenerateSolarDay is returned when a solar day is not longer than
	// the 23 fixed hours, leaving no room for the variable hour.
	ErrDegenerateSolarDay = errors.New("degenerate solar day: no variable hour")

	// ErrWindowResolution is returned when no solar-day window contains an
	// instant within the retry budget.
	ErrWindowResolution = errors.New("no solar-day window contains instant")

	// ErrInvalidTime is returned when a CTU reading has out-of-range fields.
	ErrInvalidTime = errors.New("invalid CTU time")
)

// ValidateInstant checks that t has a zero UTC offset and returns it in UTC.
func ValidateInstant(t time.Time) (time.Time, error) {
	if name, off := t.Zone(); off != 0 {
		return time.Time{}, fmt.Errorf("%w: %s is in %s (%+ds)",
			ErrInvalidOffset, t.Format(time.RFC3339Nano), name, off)
	}
	return t.UTC(), nil
}
