// Package state provides thread-safe state management for the application.
package state

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/litescript/ls-ctu/internal/astro"
	"github.com/litescript/ls-ctu/internal/ctu"
)

// EventType represents the type of solar-day event.
type EventType string

const (
	EventNewSolarDay  EventType = "NEW_SOLAR_DAY"
	EventDawn         EventType = "DAWN"
	EventSolarNoon    EventType = "SOLAR_NOON"
	EventDusk         EventType = "DUSK"
	EventVariableHour EventType = "VARIABLE_HOUR"
)

// Event is a solar-day boundary crossed between two samples.
type Event struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	CTU          ctu.Time  `json:"ctu"`
	ReferenceDay string    `json:"reference_day"`
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	current    Sample
	hasSample  bool
	lastUpdate time.Time
	lastError  error

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	observer        astro.Observer
	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents       int
	RefreshInterval time.Duration
	Observer        astro.Observer
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents:       50,
		RefreshInterval: 500 * time.Millisecond,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		observer:        cfg.Observer,
		refreshInterval: cfg.RefreshInterval,
	}
}

// Update records a new sample, or the error that prevented taking one.
func (m *Manager) Update(s Sample, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastUpdate = time.Now()
	m.lastError = err
	if err != nil {
		return
	}

	if m.hasSample {
		m.detectEvents(m.current, s)
	}
	m.current = s
	m.hasSample = true
}

type mark struct {
	typ EventType
	at  time.Time
	day ctu.SolarDay
}

// marks lists the boundaries of one solar day. Dawn and dusk are left out
// when the Sun never crosses the twilight elevation.
func marks(s Sample) []mark {
	day := s.Reading.Day
	ms := []mark{
		{EventNewSolarDay, day.Midnight, day},
		{EventSolarNoon, day.Noon, day},
		{EventVariableHour, day.VariableHourStart(), day},
	}
	if ha := s.Twilight.HourAngleDeg; ha > 0 && ha < 180 {
		ms = append(ms,
			mark{EventDawn, s.Twilight.Dawn, day},
			mark{EventDusk, s.Twilight.Dusk, day})
	}
	return ms
}

// detectEvents emits every boundary of the previous and current solar day
// in (prev, next].
func (m *Manager) detectEvents(prev, next Sample) {
	from, to := prev.Reading.UTC, next.Reading.UTC
	if !to.After(from) {
		return
	}

	type seenKey struct {
		typ EventType
		at  int64
	}
	seen := make(map[seenKey]bool)
	var found []mark
	for _, mk := range append(marks(prev), marks(next)...) {
		k := seenKey{mk.typ, mk.at.UnixNano()}
		if seen[k] || !mk.at.After(from) || mk.at.After(to) {
			continue
		}
		seen[k] = true
		found = append(found, mk)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].at.Before(found[j].at) })

	for _, mk := range found {
		sec, err := ctu.ScaleForward(mk.at.Sub(mk.day.Midnight).Seconds(), mk.day.Seconds())
		if err != nil {
			continue
		}
		m.addEvent(Event{
			ID:           uuid.NewString(),
			Type:         mk.typ,
			Timestamp:    mk.at,
			CTU:          ctu.TimeFromSeconds(sec),
			ReferenceDay: ctu.FormatDay(mk.day.ReferenceDay),
		})
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Sample     Sample
	HasData    bool
	Observer   astro.Observer
	LastUpdate time.Time
	LastError  error
	Events     []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Sample:     m.current,
		HasData:    m.hasSample,
		Observer:   m.observer,
		LastUpdate: m.lastUpdate,
		LastError:  m.lastError,
		Events:     m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		result[i] = m.events[(m.eventWriteAt+i)%m.maxEvents]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// Observer returns the observer samples are taken for.
func (m *Manager) Observer() astro.Observer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.observer
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true once a sample has been recorded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hasSample
}
