package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-ctu/internal/astro"
	"github.com/litescript/ls-ctu/internal/ctu"
	"github.com/litescript/ls-ctu/internal/report"
	"github.com/litescript/ls-ctu/internal/state"
)

// Styles for the clock view
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Padding(0, 2)

	variableClockStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#C084FC")).
				Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("60"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// glyphs is a three-row segment font for the large clock.
var glyphs = map[rune][3]string{
	'0': {"┏━┓", "┃ ┃", "┗━┛"},
	'1': {"  ┓", "  ┃", "  ╹"},
	'2': {"╺━┓", "┏━┛", "┗━╸"},
	'3': {"╺━┓", " ━┫", "╺━┛"},
	'4': {"╻ ╻", "┗━┫", "  ╹"},
	'5': {"┏━╸", "┗━┓", "╺━┛"},
	'6': {"┏━╸", "┣━┓", "┗━┛"},
	'7': {"╺━┓", "  ┃", "  ╹"},
	'8': {"┏━┓", "┣━┫", "┗━┛"},
	'9': {"┏━┓", "┗━┫", "╺━┛"},
	':': {" ", "╏", " "},
}

// bigText renders digits and colons three rows tall. Other runes are
// dropped.
func bigText(s string) string {
	var rows [3][]string
	for _, r := range s {
		g, ok := glyphs[r]
		if !ok {
			continue
		}
		for i := range rows {
			rows[i] = append(rows[i], g[i])
		}
	}
	lines := make([]string, len(rows))
	for i, parts := range rows {
		lines[i] = strings.Join(parts, " ")
	}
	return strings.Join(lines, "\n")
}

// renderDayBar draws progress through the CTU day. The last cell after the
// divider is the variable hour.
func renderDayBar(t ctu.Time, width int) string {
	if width < 4 {
		width = 4
	}
	fixedCells := width * ctu.FixedHours / 24
	if fixedCells >= width {
		fixedCells = width - 1
	}
	filled := int(t.Seconds() / ctu.TotalSeconds * float64(width))
	if filled > width {
		filled = width
	}

	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < width; i++ {
		if i == fixedCells {
			b.WriteString("│")
		}
		if i < filled {
			b.WriteString("█")
		} else {
			b.WriteString("░")
		}
	}
	b.WriteString("]")
	return b.String()
}

// renderClockPanel shows the clock selected by mode large, and the other
// two clocks and the solar day underneath.
func renderClockPanel(snap state.Snapshot, mode DisplayMode, loc *time.Location, width int) string {
	if !snap.HasData {
		return panelStyle.Render(labelStyle.Render("No reading yet"))
	}

	s := snap.Sample
	r := s.Reading
	local := r.UTC.In(loc)

	var big, caption string
	style := clockStyle
	switch mode {
	case ModeUTC:
		big, caption = r.UTC.Format("15:04:05"), "UTC"
	case ModeLocal:
		zone, _ := local.Zone()
		big, caption = local.Format("15:04:05"), "Local ("+zone+")"
	default:
		big, caption = r.Time.Clock(), "CTU · solar day "+ctu.FormatDay(r.Day.ReferenceDay)
		if r.Time.InVariableHour() {
			style = variableClockStyle
			caption += " · variable hour"
		}
	}

	barWidth := 48
	if width > 0 && width-12 < barWidth {
		barWidth = width - 12
	}

	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-12s", label)) + valueStyle.Render(value)
	}

	lines := []string{
		titleStyle.Render(caption),
		style.Render(bigText(big)),
		"",
		row("CTU", r.Time.String()),
		row("UTC", r.UTC.Format("2006-01-02 15:04:05.000")),
		row("Local", local.Format("2006-01-02 15:04:05.000 MST")),
		"",
		row("Day", renderDayBar(r.Time, barWidth)),
		row("Solar noon", r.Day.Noon.In(loc).Format("15:04:05 MST")),
		row("Day length", fmt.Sprintf("%s (variable hour %.1f s)",
			report.FormatDuration(r.Day.Duration), r.Day.Seconds()-ctu.FixedSeconds)),
	}

	tw := s.Twilight
	switch {
	case tw.HourAngleDeg == 0:
		lines = append(lines, row(report.TwilightName(tw.ElevationDeg), "Sun stays below"))
	case tw.HourAngleDeg == 180:
		lines = append(lines, row(report.TwilightName(tw.ElevationDeg), "Sun stays above"))
	default:
		lines = append(lines,
			row("Dawn", fmt.Sprintf("%s CTU  %s", s.DawnCTU.Short(), tw.Dawn.In(loc).Format("15:04 MST"))),
			row("Dusk", fmt.Sprintf("%s CTU  %s", s.DuskCTU.Short(), tw.Dusk.In(loc).Format("15:04 MST"))))
	}
	lines = append(lines, row("Sun", fmt.Sprintf("alt %.1f°  az %.1f°  %s", s.Sun.AltDeg, s.Sun.AzDeg, astro.PhaseOf(s.Sun.AltDeg))))

	return panelStyle.Render(strings.Join(lines, "\n"))
}

// renderEvents lists the most recent solar-day events, newest first.
func renderEvents(events []state.Event, limit int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("  Events"))
	b.WriteString("\n")
	if len(events) == 0 {
		b.WriteString(mutedStyle.Render("  none yet"))
		return b.String()
	}
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			labelStyle.Render(e.CTU.Clock()),
			accentStyle.Render(fmt.Sprintf("%-14s", e.Type)),
			mutedStyle.Render(e.ReferenceDay)))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
