// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-ctu/internal/state"
	"github.com/litescript/ls-ctu/internal/version"
)

// DisplayMode selects which clock is shown large.
type DisplayMode int

const (
	ModeCTU DisplayMode = iota
	ModeUTC
	ModeLocal
)

var modeNames = [...]string{"CTU", "UTC", "Local"}

func (d DisplayMode) String() string {
	if d < 0 || int(d) >= len(modeNames) {
		return "?"
	}
	return modeNames[d]
}

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// SampleMsg signals a new clock sample is available.
	SampleMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a failed reading.
	ErrorMsg struct {
		Error error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	state *state.Manager
	loc   *time.Location

	mode       DisplayMode
	showEvents bool
	width      int
	height     int
	ready      bool
	tick       int
	lastErr    error

	snapshot state.Snapshot
}

// New creates a new root UI model. Local times are shown in loc.
func New(stateMgr *state.Manager, loc *time.Location) Model {
	if loc == nil {
		loc = time.Local
	}
	return Model{
		state:      stateMgr,
		loc:        loc,
		mode:       ModeCTU,
		showEvents: true,
	}
}

// Mode returns the active display mode.
func (m Model) Mode() DisplayMode {
	return m.mode
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.mode = (m.mode + 1) % DisplayMode(len(modeNames))
		case "shift+tab":
			m.mode = (m.mode + DisplayMode(len(modeNames)) - 1) % DisplayMode(len(modeNames))
		case "1", "c":
			m.mode = ModeCTU
		case "2", "u":
			m.mode = ModeUTC
		case "3", "l":
			m.mode = ModeLocal
		case "e":
			m.showEvents = !m.showEvents
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		m.tick++
		if m.state != nil {
			m.snapshot = m.state.Snapshot()
		}
		return m, tickCmd()

	case SampleMsg:
		m.snapshot = msg.Snapshot
		m.lastErr = nil

	case ErrorMsg:
		m.lastErr = msg.Error
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(renderClockPanel(m.snapshot, m.mode, m.loc, m.width))
	if m.showEvents {
		b.WriteString("\n")
		b.WriteString(renderEvents(m.snapshot.Events, 6))
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ╻  ┏━┓   ┏━╸╺┳╸╻ ╻`,
		`  ┃  ┗━┓╺━╸┃   ┃ ┃ ┃`,
		`  ┗━╸┗━┛   ┗━╸ ╹ ┗━┛`,
	}

	var b strings.Builder
	b.WriteString("\n")
	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
		}
		b.WriteString("\n")
	}

	b.WriteString(mutedStyle.Render(fmt.Sprintf("  Calculated Time Uncoordinated · v%s", version.Version)))
	b.WriteString("\n\n")
	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient,
// running from dawn orange through noon gold to dusk violet.
func gradientColor(col, row, width, height int) string {
	x := float64(col) / float64(width)
	y := float64(row) / float64(height)

	var r, g, b float64
	if x < 0.5 {
		t := x / 0.5
		r = 249 + t*(250-249)
		g = 115 + t*(204-115)
		b = 22 + t*(21-22)
	} else {
		t := (x - 0.5) / 0.5
		r = 250 + t*(139-250)
		g = 204 + t*(92-204)
		b = 21 + t*(246-21)
	}

	fade := 1.0 - y*0.4
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r*fade), clampByte(g*fade), clampByte(b*fade))
}

func clampByte(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return int(v)
}

func (m Model) renderTabs() string {
	var parts []string
	for i, name := range modeNames {
		tab := fmt.Sprintf("[%d] %s", i+1, name)
		if DisplayMode(i) == m.mode {
			parts = append(parts, activeTabStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, mutedStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	spinnerFrames := []string{"◐", "◓", "◑", "◒"}
	spinner := spinnerFrames[m.tick%len(spinnerFrames)]

	err := m.lastErr
	if err == nil {
		err = m.snapshot.LastError
	}

	var status string
	switch {
	case err != nil:
		status = errorStyle.Render("ERROR: " + err.Error())
	case m.snapshot.HasData:
		status = accentStyle.Render(spinner) + mutedStyle.Render(" "+m.snapshot.Observer.String())
	default:
		status = accentStyle.Render(spinner) + mutedStyle.Render(" waiting for first reading...")
	}

	help := mutedStyle.Render("tab: mode | e: events | q: quit")
	return "  " + status + "  " + mutedStyle.Render("|") + "  " + help
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
