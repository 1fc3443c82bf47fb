package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"cloudeng.io/datetime"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/litescript/ls-ctu/internal/ctu"
)

// YearStats summarises every solar day of a calendar year at one longitude.
type YearStats struct {
	Year      int
	Longitude float64
	Days      int

	MeanSeconds   float64
	StdDevSeconds float64

	Shortest        datetime.CalendarDate
	ShortestSeconds float64
	Longest         datetime.CalendarDate
	LongestSeconds  float64

	// MaxSeam is the widest gap or overlap between consecutive windows.
	MaxSeam    time.Duration
	MaxSeamDay datetime.CalendarDate
}

// ComputeYear walks the solar days of year at lonDeg.
func ComputeYear(clock *ctu.Clock, lonDeg float64, year int) (YearStats, error) {
	first := datetime.NewCalendarDate(year, datetime.Month(time.January), 1)
	n := ctu.DayStart(first).AddDate(1, 0, 0).Sub(ctu.DayStart(first)) / (24 * time.Hour)

	lengths := make([]float64, 0, n)
	refs := make([]datetime.CalendarDate, 0, n)
	ys := YearStats{Year: year, Longitude: lonDeg, Days: int(n)}

	var prev ctu.SolarDay
	for i := 0; i < int(n); i++ {
		ref := ctu.AddDays(first, i)
		day := clock.SolarDayOn(ref, lonDeg)
		if day.Duration <= 0 {
			return YearStats{}, fmt.Errorf("solar day %s has length %v", ctu.FormatDay(ref), day.Duration)
		}
		lengths = append(lengths, day.Seconds())
		refs = append(refs, ref)

		if i > 0 {
			seam := day.Midnight.Sub(prev.End())
			if seam < 0 {
				seam = -seam
			}
			if seam > ys.MaxSeam {
				ys.MaxSeam, ys.MaxSeamDay = seam, ref
			}
		}
		prev = day
	}

	ys.MeanSeconds = stat.Mean(lengths, nil)
	ys.StdDevSeconds = stat.StdDev(lengths, nil)
	lo, hi := floats.MinIdx(lengths), floats.MaxIdx(lengths)
	ys.Shortest, ys.ShortestSeconds = refs[lo], lengths[lo]
	ys.Longest, ys.LongestSeconds = refs[hi], lengths[hi]
	return ys, nil
}

// WriteYear writes a year summary.
func WriteYear(w io.Writer, ys YearStats) {
	fmt.Fprintf(w, "Solar days %d @ %.4f°\n", ys.Year, ys.Longitude)
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))

	row := func(label, format string, args ...interface{}) {
		fmt.Fprintf(w, "%-17s %s\n", label+":", fmt.Sprintf(format, args...))
	}
	offset := func(sec float64) string {
		return fmt.Sprintf("%+.3f s", sec-ctu.TotalSeconds)
	}
	row("Days", "%d", ys.Days)
	row("Mean length", "%s (%s)", FormatDuration(secondsDuration(ys.MeanSeconds)), offset(ys.MeanSeconds))
	row("Std deviation", "%.3f s", ys.StdDevSeconds)
	row("Shortest", "%s  %s (%s)", ctu.FormatDay(ys.Shortest),
		FormatDuration(secondsDuration(ys.ShortestSeconds)), offset(ys.ShortestSeconds))
	row("Longest", "%s  %s (%s)", ctu.FormatDay(ys.Longest),
		FormatDuration(secondsDuration(ys.LongestSeconds)), offset(ys.LongestSeconds))
	row("Variable hour", "%.3f s to %.3f s",
		ys.ShortestSeconds-ctu.FixedSeconds, ys.LongestSeconds-ctu.FixedSeconds)
	row("Widest seam", "%v before %s", ys.MaxSeam, ctu.FormatDay(ys.MaxSeamDay))
}

func secondsDuration(sec float64) time.Duration {
	return time.Duration(math.Round(sec * float64(time.Second)))
}
