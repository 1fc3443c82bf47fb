package astro

import (
	"math"
	"testing"
	"time"
)

func TestHourAngle(t *testing.T) {
	tests := []struct {
		name      string
		lat, dec  float64
		elev      float64
		want      float64
		tolerance float64
	}{
		{"Equator at equinox, geometric horizon", 0, 0, 0, 90, 1e-9},
		{"Polar day at 80N, summer", 80, 23.44, CivilTwilight, 180, 0},
		{"Polar night at 80N, winter", 80, -23.44, CivilTwilight, 0, 0},
		{"Polar night at 80S, southern winter", -80, 23.44, CivilTwilight, 0, 0},
		{"Mid-latitude equinox civil twilight", 48.8, 0, CivilTwilight, 99.1, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HourAngle(tt.lat, tt.dec, tt.elev)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("HourAngle(%v, %v, %v) = %.4f°, want %.4f°", tt.lat, tt.dec, tt.elev, got, tt.want)
			}
		})
	}
}

func TestHourAngle_Monotonic(t *testing.T) {
	// Lower thresholds are reached earlier, so the hour angle grows.
	prev := -1.0
	for _, elev := range []float64{SunriseSunset, CivilTwilight, NauticalTwilight, AstronomicalTwilight} {
		ha := HourAngle(45, 10, elev)
		if ha <= prev {
			t.Errorf("HourAngle at %.2f° = %.3f°, not greater than %.3f°", elev, ha, prev)
		}
		prev = ha
	}
}

func TestCrossingAt_Symmetric(t *testing.T) {
	lat, lon := 48.827097, 9.120802
	for _, day := range []time.Time{
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
	} {
		noon := SolarNoon(lon, day)
		c := CrossingAt(noon, lat, CivilTwilight)

		if !c.Noon.Equal(noon) {
			t.Errorf("%s: Noon = %s, want %s", day.Format("2006-01-02"), c.Noon, noon)
		}
		if before, after := noon.Sub(c.Dawn), c.Dusk.Sub(noon); before != after {
			t.Errorf("%s: dawn %v before noon, dusk %v after", day.Format("2006-01-02"), before, after)
		}
		if !c.Dawn.Before(c.Dusk) {
			t.Errorf("%s: dawn %s not before dusk %s", day.Format("2006-01-02"), c.Dawn, c.Dusk)
		}
	}
}

func TestCrossingAt_Polar(t *testing.T) {
	summer := SolarNoon(0, time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC))
	c := CrossingAt(summer, 80, CivilTwilight)
	if c.HourAngleDeg != 180 {
		t.Fatalf("summer HourAngleDeg = %v, want 180", c.HourAngleDeg)
	}
	wantOffset := time.Duration(math.Round((720 + c.EotMin) * float64(time.Minute)))
	if got := summer.Sub(c.Dawn); got != wantOffset {
		t.Errorf("summer dawn offset = %v, want %v", got, wantOffset)
	}

	winter := SolarNoon(0, time.Date(2025, 12, 21, 0, 0, 0, 0, time.UTC))
	c = CrossingAt(winter, 80, CivilTwilight)
	if c.HourAngleDeg != 0 {
		t.Fatalf("winter HourAngleDeg = %v, want 0", c.HourAngleDeg)
	}
	// Only the equation-of-time term separates dawn and dusk from noon.
	if got := c.Dusk.Sub(c.Dawn); math.Abs(got.Minutes()-2*c.EotMin) > 1e-6 {
		t.Errorf("winter dusk-dawn = %v, want 2·EoT = %.4f min", got, 2*c.EotMin)
	}
}

func TestParseElevation(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"civil", CivilTwilight, false},
		{"", CivilTwilight, false},
		{"Sunrise", SunriseSunset, false},
		{"nautical", NauticalTwilight, false},
		{" astronomical ", AstronomicalTwilight, false},
		{"golden", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseElevation(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseElevation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseElevation(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if math.Abs(SunriseSunset-(-0.83337)) > 1e-9 {
		t.Errorf("SunriseSunset = %v, want -0.83337", SunriseSunset)
	}
}
