// Package report renders clock state for headless output.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/litescript/ls-ctu/internal/astro"
	"github.com/litescript/ls-ctu/internal/ctu"
	"github.com/litescript/ls-ctu/internal/state"
)

// SnapshotExport is the serializable representation of clock state. The
// json tags name fields in both the JSON and MessagePack encodings.
type SnapshotExport struct {
	GeneratedAt    time.Time      `json:"generated_at"`
	Observer       ObserverExport `json:"observer"`
	UTC            time.Time      `json:"utc"`
	CTU            ctu.Time       `json:"ctu"`
	ReferenceDay   string         `json:"reference_day"`
	VariableHour   bool           `json:"in_variable_hour"`
	RoundtripError float64        `json:"roundtrip_error_seconds"`
	SolarDay       SolarDayExport `json:"solar_day"`
	Twilight       TwilightExport `json:"twilight"`
	Sun            SunExport      `json:"sun"`
	Cache          ctu.CacheStats `json:"cache"`
	Events         []state.Event  `json:"events,omitempty"`
}

// ObserverExport is a JSON-friendly observer.
type ObserverExport struct {
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SolarDayExport describes the solar day containing the instant.
type SolarDayExport struct {
	Midnight            time.Time `json:"midnight"`
	Noon                time.Time `json:"noon"`
	End                 time.Time `json:"end"`
	LengthSeconds       float64   `json:"length_seconds"`
	VariableHourSeconds float64   `json:"variable_hour_seconds"`
}

// TwilightExport holds dawn and dusk for the solar day.
type TwilightExport struct {
	ElevationDeg   float64   `json:"elevation_deg"`
	Dawn           time.Time `json:"dawn"`
	Dusk           time.Time `json:"dusk"`
	DawnCTU        ctu.Time  `json:"dawn_ctu"`
	DuskCTU        ctu.Time  `json:"dusk_ctu"`
	HourAngleDeg   float64   `json:"hour_angle_deg"`
	DeclinationDeg float64   `json:"declination_deg"`
	EquationOfTime float64   `json:"equation_of_time_min"`
}

// SunExport is the apparent position of the Sun.
type SunExport struct {
	Altitude float64 `json:"altitude_deg"`
	Azimuth  float64 `json:"azimuth_deg"`
	Phase    string  `json:"phase"`
}

// ExportSnapshot converts a state snapshot to an exportable format.
func ExportSnapshot(snap state.Snapshot, generatedAt time.Time) *SnapshotExport {
	export := &SnapshotExport{
		GeneratedAt: generatedAt.UTC(),
		Observer: ObserverExport{
			Name:      snap.Observer.Name,
			Latitude:  snap.Observer.LatDeg,
			Longitude: snap.Observer.LonDeg,
		},
		Events: snap.Events,
	}
	if !snap.HasData {
		return export
	}

	s := snap.Sample
	day := s.Reading.Day
	export.UTC = s.Reading.UTC
	export.CTU = s.Reading.Time
	export.ReferenceDay = ctu.FormatDay(day.ReferenceDay)
	export.VariableHour = s.Reading.Time.InVariableHour()
	export.RoundtripError = s.RoundtripErr
	export.SolarDay = SolarDayExport{
		Midnight:            day.Midnight,
		Noon:                day.Noon,
		End:                 day.End(),
		LengthSeconds:       day.Seconds(),
		VariableHourSeconds: day.Seconds() - ctu.FixedSeconds,
	}
	export.Twilight = TwilightExport{
		ElevationDeg:   s.Twilight.ElevationDeg,
		Dawn:           s.Twilight.Dawn,
		Dusk:           s.Twilight.Dusk,
		DawnCTU:        s.DawnCTU,
		DuskCTU:        s.DuskCTU,
		HourAngleDeg:   s.Twilight.HourAngleDeg,
		DeclinationDeg: s.Twilight.DecDeg,
		EquationOfTime: s.Twilight.EotMin,
	}
	export.Sun = SunExport{Altitude: s.Sun.AltDeg, Azimuth: s.Sun.AzDeg, Phase: astro.PhaseOf(s.Sun.AltDeg).String()}
	export.Cache = s.Cache
	return export
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteMsgpack writes the snapshot as MessagePack using the JSON field names.
func (s *SnapshotExport) WriteMsgpack(w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	return enc.Encode(s)
}
