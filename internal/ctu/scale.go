package ctu

import "fmt"

const (
	// FixedHours is the number of leading CTU hours that run at SI rate.
	FixedHours = 23

	// FixedSeconds is the fixed part of every CTU day.
	FixedSeconds = FixedHours * 3600.0

	// TotalSeconds is the nominal length of a CTU day.
	TotalSeconds = 86400.0

	// variableHour is the CTU length of the stretched last hour.
	variableHour = TotalSeconds - FixedSeconds
)

// ScaleForward maps seconds elapsed since solar midnight onto CTU seconds for
// a solar day lasting tSolar seconds. The first 23 hours map 1:1; whatever
// remains of the real day is stretched or squeezed linearly into one hour.
// The result is not normalised.
func ScaleForward(elapsed, tSolar float64) (float64, error) {
	variable, err := variableLength(tSolar)
	if err != nil {
		return 0, err
	}
	if elapsed <= FixedSeconds {
		return elapsed, nil
	}
	extra := elapsed - FixedSeconds
	return FixedSeconds + extra*(variableHour/variable), nil
}

// ScaleInverse maps CTU seconds since solar midnight back onto real seconds
// elapsed for a solar day lasting tSolar seconds.
func ScaleInverse(ctuSec, tSolar float64) (float64, error) {
	variable, err := variableLength(tSolar)
	if err != nil {
		return 0, err
	}
	if ctuSec <= FixedSeconds {
		return ctuSec, nil
	}
	extra := ctuSec - FixedSeconds
	return FixedSeconds + extra*(variable/variableHour), nil
}

func variableLength(tSolar float64) (float64, error) {
	variable := tSolar - FixedSeconds
	if variable <= 0 {
		return 0, fmt.Errorf("%w: solar day of %.3fs", ErrDegenerateSolarDay, tSolar)
	}
	return variable, nil
}
