package astro

import (
	"math"
	"testing"
	"time"
)

func TestCooperEquationOfTime(t *testing.T) {
	// B = 0 on day 81: 9.87·0 − 7.53·1 − 1.5·0 + 0.21·1
	if got := CooperEquationOfTime(81); math.Abs(got-(-7.32)) > 1e-12 {
		t.Errorf("CooperEquationOfTime(81) = %v, want -7.32", got)
	}

	// The fit tracks the precise series to within a couple of minutes.
	for n := 1; n <= 365; n += 11 {
		day := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n-1)
		_, precise := SolarCoordinates(JulianDate(day))
		if diff := math.Abs(CooperEquationOfTime(n) - precise); diff > 2 {
			t.Errorf("day %d: Cooper EoT differs from series by %.2f min", n, diff)
		}
	}
}

func TestSolarNoon(t *testing.T) {
	// 2023-03-22 is day-of-year 81.
	day := time.Date(2023, 3, 22, 0, 0, 0, 0, time.UTC)
	if day.YearDay() != 81 {
		t.Fatalf("test date has YearDay %d, want 81", day.YearDay())
	}

	got := SolarNoon(0, day)
	want := time.Date(2023, 3, 22, 12, 7, 19, 200_000_000, time.UTC)
	if diff := got.Sub(want); diff < -time.Millisecond || diff > time.Millisecond {
		t.Errorf("SolarNoon(0, %s) = %s, want %s", day.Format("2006-01-02"), got, want)
	}
}

func TestSolarNoon_LongitudeShift(t *testing.T) {
	day := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	base := SolarNoon(0, day)

	tests := []struct {
		lon   float64
		shift time.Duration
	}{
		{15, -time.Hour},
		{-15, time.Hour},
		{90, -6 * time.Hour},
		{-120, 8 * time.Hour},
		{9.120802, -time.Duration(math.Round(9.120802 / 15 * float64(time.Hour)))},
	}
	for _, tt := range tests {
		got := SolarNoon(tt.lon, day).Sub(base)
		if diff := got - tt.shift; diff < -time.Microsecond || diff > time.Microsecond {
			t.Errorf("lon %.4f: noon shift = %v, want %v", tt.lon, got, tt.shift)
		}
	}
}

func TestSolarNoon_IgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 10, 5, 23, 59, 59, 999_999_999, time.UTC)
	if a, b := SolarNoon(9.12, morning), SolarNoon(9.12, evening); !a.Equal(b) {
		t.Errorf("SolarNoon depends on time of day: %s vs %s", a, b)
	}
	if got := SolarNoon(9.12, morning).Location(); got != time.UTC {
		t.Errorf("SolarNoon location = %v, want UTC", got)
	}
}
