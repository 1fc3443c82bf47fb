package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-ctu/internal/astro"
	"github.com/litescript/ls-ctu/internal/ctu"
	"github.com/litescript/ls-ctu/internal/state"
)

const ruleWidth = 60

// checkWindow is how far either side of an analytic crossing the Sun is
// traced when cross-checking it.
const (
	checkWindow = 40 * time.Minute
	checkStep   = 15 * time.Second
)

// TwilightName returns a label for an elevation threshold.
func TwilightName(elevDeg float64) string {
	switch elevDeg {
	case astro.SunriseSunset:
		return "Sunrise/sunset"
	case astro.CivilTwilight:
		return "Civil twilight"
	case astro.NauticalTwilight:
		return "Nautical twilight"
	case astro.AstronomicalTwilight:
		return "Astronomical twilight"
	}
	return fmt.Sprintf("Sun at %.2f°", elevDeg)
}

// FormatDuration renders a solar day length as 24h00m12.345s.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Millisecond)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := float64(d%time.Minute) / float64(time.Second)
	return fmt.Sprintf("%dh%02dm%06.3fs", h, m, s)
}

// WriteSummary writes the full clock report. Local times use loc.
func WriteSummary(w io.Writer, snap state.Snapshot, loc *time.Location) {
	fmt.Fprintf(w, "CTU @ %s\n", snap.Observer)
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))

	if !snap.HasData {
		if snap.LastError != nil {
			fmt.Fprintf(w, "Error: %v\n", snap.LastError)
			return
		}
		fmt.Fprintln(w, "No reading")
		return
	}

	s := snap.Sample
	r := s.Reading
	day := r.Day

	row := func(label, format string, args ...interface{}) {
		fmt.Fprintf(w, "%-17s %s\n", label+":", fmt.Sprintf(format, args...))
	}
	row("Local time", "%s", r.UTC.In(loc).Format("2006-01-02 15:04:05.000000 MST"))
	row("UTC time", "%s", r.UTC.Format("2006-01-02 15:04:05.000000"))
	ctuLine := fmt.Sprintf("%s (solar day %s)", r.Time, ctu.FormatDay(day.ReferenceDay))
	if r.Time.InVariableHour() {
		ctuLine += " variable hour"
	}
	row("CTU time", "%s", ctuLine)
	row("Roundtrip error", "%.6f s", s.RoundtripErr)
	fmt.Fprintln(w)

	row("Solar noon", "%s UTC", day.Noon.Format("15:04:05"))
	row("Solar midnight", "%s UTC", day.Midnight.Format("2006-01-02 15:04:05"))
	row("Solar day", "%s (variable hour %.3f s)", FormatDuration(day.Duration), day.Seconds()-ctu.FixedSeconds)
	fmt.Fprintln(w)

	name := TwilightName(s.Twilight.ElevationDeg)
	switch ha := s.Twilight.HourAngleDeg; {
	case ha == 0:
		row(name, "none (Sun stays below %.2f°)", s.Twilight.ElevationDeg)
	case ha == 180:
		row(name, "none (Sun stays above %.2f°)", s.Twilight.ElevationDeg)
	default:
		row("Dawn", "%s UTC  %s CTU", s.Twilight.Dawn.Format("15:04:05"), s.DawnCTU.Clock())
		row("Dusk", "%s UTC  %s CTU", s.Twilight.Dusk.Format("15:04:05"), s.DuskCTU.Clock())
		row("Threshold", "%s (%.2f°)", name, s.Twilight.ElevationDeg)
		if dawn, dusk, ok := SampledOffsets(snap.Observer, s.Twilight); ok {
			row("Sampled check", "dawn %+.0f s  dusk %+.0f s", dawn.Seconds(), dusk.Seconds())
		}
	}
	row("Sun", "alt %.1f°  az %.1f°  %s", s.Sun.AltDeg, s.Sun.AzDeg, astro.PhaseOf(s.Sun.AltDeg))
	fmt.Fprintln(w)

	row("Noon cache", "%d/%d entries, %d hits, %d misses, %d evictions",
		s.Cache.Len, s.Cache.Capacity, s.Cache.Hits, s.Cache.Misses, s.Cache.Evictions)
}

// SampledOffsets traces the Sun's apparent altitude around the analytic dawn
// and dusk and returns how far the sampled crossings lie from them. ok is
// false when either crossing is not found inside the window.
func SampledOffsets(obs astro.Observer, c astro.Crossing) (dawn, dusk time.Duration, ok bool) {
	find := func(at time.Time) (astro.SampledCrossing, bool) {
		samples := astro.TraceSun(obs, at.Add(-checkWindow), 2*checkWindow, checkStep)
		sc, err := astro.FindCrossings(samples, c.ElevationDeg)
		return sc, err == nil
	}

	up, okUp := find(c.Dawn)
	down, okDown := find(c.Dusk)
	if !okUp || !okDown || !up.RiseFound || !down.SetFound {
		return 0, 0, false
	}
	return up.Rise.Sub(c.Dawn), down.Set.Sub(c.Dusk), true
}

// WriteNow writes a single status line.
func WriteNow(w io.Writer, snap state.Snapshot) {
	if !snap.HasData {
		fmt.Fprintln(w, "CTU --:--:-- (no reading)")
		return
	}
	r := snap.Sample.Reading
	marker := ""
	if r.Time.InVariableHour() {
		marker = " *"
	}
	fmt.Fprintf(w, "CTU %s%s | solar day %s | UTC %s | %s\n",
		r.Time.Clock(), marker, ctu.FormatDay(r.Day.ReferenceDay),
		r.UTC.Format("15:04:05"), snap.Observer)
}

// WriteEvents writes the most recent events, newest last.
func WriteEvents(w io.Writer, events []state.Event, limit int) {
	fmt.Fprintln(w, "Solar-day events")
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))
	if len(events) == 0 {
		fmt.Fprintln(w, "No events yet")
		return
	}
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	for _, e := range events {
		fmt.Fprintf(w, "%s UTC  %s CTU  %-14s %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.CTU.Clock(), e.Type, e.ReferenceDay)
	}
}
