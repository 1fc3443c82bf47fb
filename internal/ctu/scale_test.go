package ctu

import (
	"errors"
	"math"
	"testing"
)

func TestScale_UniformDayIsIdentity(t *testing.T) {
	for _, elapsed := range []float64{0, 1, 43200, FixedSeconds, FixedSeconds + 0.5, 84600, 86399.999999} {
		sec, err := ScaleForward(elapsed, TotalSeconds)
		if err != nil {
			t.Fatalf("ScaleForward(%v): %v", elapsed, err)
		}
		if sec != elapsed {
			t.Errorf("ScaleForward(%v, 86400) = %v, want identity", elapsed, sec)
		}
		back, err := ScaleInverse(sec, TotalSeconds)
		if err != nil {
			t.Fatalf("ScaleInverse(%v): %v", sec, err)
		}
		if back != elapsed {
			t.Errorf("ScaleInverse(ScaleForward(%v)) = %v", elapsed, back)
		}
	}

	sec, err := ScaleForward(FixedSeconds+1800, TotalSeconds)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := TimeFromSeconds(sec), (Time{Hour: 23, Minute: 30}); got != want {
		t.Errorf("84600 s on a 86400 s day = %s, want %s", got, want)
	}
}

func TestScale_VariableHour(t *testing.T) {
	tests := []struct {
		name    string
		tSolar  float64
		elapsed float64
		want    float64
	}{
		{"long day, halfway through last hour", 86420, FixedSeconds + 1810, FixedSeconds + 1800},
		{"short day, halfway through last hour", 86380, FixedSeconds + 1790, FixedSeconds + 1800},
		{"long day, end of day", 86420, 86420, TotalSeconds},
		{"short day, end of day", 86380, 86380, TotalSeconds},
		{"fixed part untouched", 86380, 50000, 50000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScaleForward(tt.elapsed, tt.tSolar)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ScaleForward(%v, %v) = %v, want %v", tt.elapsed, tt.tSolar, got, tt.want)
			}
			back, err := ScaleInverse(got, tt.tSolar)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(back-tt.elapsed) > 1e-9 {
				t.Errorf("ScaleInverse(%v, %v) = %v, want %v", got, tt.tSolar, back, tt.elapsed)
			}
		})
	}
}

func TestScale_ContinuousAtBoundary(t *testing.T) {
	for _, tSolar := range []float64{86370, 86400, 86430} {
		for _, eps := range []float64{1e-1, 1e-3, 1e-6} {
			below, err := ScaleForward(FixedSeconds-eps, tSolar)
			if err != nil {
				t.Fatal(err)
			}
			above, err := ScaleForward(FixedSeconds+eps, tSolar)
			if err != nil {
				t.Fatal(err)
			}
			// The variable-hour slope is close to 1, so both sides stay within ~2ε.
			if math.Abs(below-FixedSeconds) > 2*eps || math.Abs(above-FixedSeconds) > 2*eps {
				t.Errorf("T=%v ε=%v: below=%v above=%v, want both near %v", tSolar, eps, below, above, FixedSeconds)
			}
		}
	}
}

func TestScale_Monotonic(t *testing.T) {
	for _, tSolar := range []float64{86370, 86400, 86430} {
		prev := -1.0
		for elapsed := 0.0; elapsed < tSolar; elapsed += 97.3 {
			got, err := ScaleForward(elapsed, tSolar)
			if err != nil {
				t.Fatal(err)
			}
			if got <= prev {
				t.Fatalf("T=%v: ScaleForward(%v) = %v, not above previous %v", tSolar, elapsed, got, prev)
			}
			prev = got
		}
	}
}

func TestScale_Degenerate(t *testing.T) {
	for _, tSolar := range []float64{FixedSeconds, FixedSeconds - 1, 0} {
		if _, err := ScaleForward(100, tSolar); !errors.Is(err, ErrDegenerateSolarDay) {
			t.Errorf("ScaleForward with T=%v: err = %v, want ErrDegenerateSolarDay", tSolar, err)
		}
		if _, err := ScaleInverse(100, tSolar); !errors.Is(err, ErrDegenerateSolarDay) {
			t.Errorf("ScaleInverse with T=%v: err = %v, want ErrDegenerateSolarDay", tSolar, err)
		}
	}
}
