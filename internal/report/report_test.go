package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"cloudeng.io/datetime"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/litescript/ls-ctu/internal/astro"
	"github.com/litescript/ls-ctu/internal/ctu"
	"github.com/litescript/ls-ctu/internal/state"
)

var stuttgart = astro.Observer{Name: "Stuttgart", LatDeg: 48.827097, LonDeg: 9.120802}

func testSnapshot(t *testing.T, obs astro.Observer, at time.Time) state.Snapshot {
	t.Helper()
	clock := ctu.NewClock(ctu.Options{})
	s, err := state.Take(clock, obs, astro.CivilTwilight, at)
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	cfg := state.DefaultConfig()
	cfg.Observer = obs
	m := state.NewManager(cfg)
	m.Update(s, nil)
	return m.Snapshot()
}

func TestExportSnapshot(t *testing.T) {
	at := time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC)
	snap := testSnapshot(t, stuttgart, at)
	generated := time.Date(2025, 6, 21, 12, 0, 1, 0, time.UTC)

	export := ExportSnapshot(snap, generated)
	if !export.UTC.Equal(at) || !export.GeneratedAt.Equal(generated) {
		t.Errorf("UTC/GeneratedAt = %s/%s", export.UTC, export.GeneratedAt)
	}
	if export.ReferenceDay != "2025-06-21" {
		t.Errorf("ReferenceDay = %s, want 2025-06-21", export.ReferenceDay)
	}
	if export.Observer.Name != "Stuttgart" || export.Observer.Longitude != stuttgart.LonDeg {
		t.Errorf("Observer = %+v", export.Observer)
	}
	if d := export.SolarDay.LengthSeconds - ctu.TotalSeconds; d < -30 || d > 30 {
		t.Errorf("LengthSeconds = %v", export.SolarDay.LengthSeconds)
	}
	if got := export.SolarDay.VariableHourSeconds; got != export.SolarDay.LengthSeconds-ctu.FixedSeconds {
		t.Errorf("VariableHourSeconds = %v", got)
	}
	if export.Sun.Phase != "day" {
		t.Errorf("Sun phase = %q, want day", export.Sun.Phase)
	}
	if export.Twilight.ElevationDeg != astro.CivilTwilight {
		t.Errorf("Twilight elevation = %v", export.Twilight.ElevationDeg)
	}

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"utc", "ctu", "reference_day", "solar_day", "twilight", "sun", "cache"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("JSON missing %q", key)
		}
	}
	if got, want := decoded["ctu"], export.CTU.String(); got != want {
		t.Errorf("ctu = %v, want %q", got, want)
	}
	cache, _ := decoded["cache"].(map[string]interface{})
	if _, ok := cache["misses"]; !ok {
		t.Errorf("cache stats not exported: %v", decoded["cache"])
	}
}

func TestExportSnapshot_Msgpack(t *testing.T) {
	snap := testSnapshot(t, stuttgart, time.Date(2025, 12, 21, 23, 30, 0, 0, time.UTC))
	export := ExportSnapshot(snap, time.Date(2025, 12, 21, 23, 30, 1, 0, time.UTC))

	var buf bytes.Buffer
	if err := export.WriteMsgpack(&buf); err != nil {
		t.Fatalf("WriteMsgpack: %v", err)
	}
	var decoded map[string]interface{}
	if err := msgpack.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not MessagePack: %v", err)
	}
	if got := decoded["reference_day"]; got != export.ReferenceDay {
		t.Errorf("reference_day = %v, want %q", got, export.ReferenceDay)
	}
	if got := decoded["ctu"]; got != export.CTU.String() {
		t.Errorf("ctu = %v, want %q", got, export.CTU.String())
	}
	if _, ok := decoded["solar_day"].(map[string]interface{}); !ok {
		t.Errorf("solar_day = %T, want a map", decoded["solar_day"])
	}
}

func TestExportSnapshot_NoData(t *testing.T) {
	export := ExportSnapshot(state.Snapshot{Observer: stuttgart}, time.Now())
	if !export.UTC.IsZero() || export.ReferenceDay != "" {
		t.Errorf("empty snapshot exported a reading: %+v", export)
	}
	var buf bytes.Buffer
	if err := export.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
}

func TestWriteSummary(t *testing.T) {
	snap := testSnapshot(t, stuttgart, time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	WriteSummary(&buf, snap, time.FixedZone("CEST", 2*3600))
	out := buf.String()

	for _, want := range []string{
		"CTU @ Stuttgart (48.8271°N 9.1208°E)",
		"Local time:       2025-06-21 14:00:00.000000 CEST",
		"UTC time:         2025-06-21 12:00:00.000000",
		"(solar day 2025-06-21)",
		"Roundtrip error:",
		"Solar noon:",
		"Dawn:",
		"Dusk:",
		"Civil twilight (-6.00°)",
		"Sampled check:",
		"Noon cache:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSampledOffsets(t *testing.T) {
	noon := astro.SolarNoon(stuttgart.LonDeg, time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC))
	c := astro.CrossingAt(noon, stuttgart.LatDeg, astro.CivilTwilight)

	dawn, dusk, ok := SampledOffsets(stuttgart, c)
	if !ok {
		t.Fatal("sampled crossings not found")
	}
	for name, d := range map[string]time.Duration{"dawn": dawn, "dusk": dusk} {
		if d < -5*time.Minute || d > 5*time.Minute {
			t.Errorf("%s offset = %v, want within 5m", name, d)
		}
	}

	polar := astro.CrossingAt(astro.SolarNoon(0, time.Date(2025, 12, 21, 0, 0, 0, 0, time.UTC)), 80, astro.CivilTwilight)
	if _, _, ok := SampledOffsets(astro.Observer{LatDeg: 80}, polar); ok {
		t.Error("polar night produced sampled crossings")
	}
}

func TestWriteSummary_PolarNight(t *testing.T) {
	obs := astro.Observer{LatDeg: 80, LonDeg: 0}
	snap := testSnapshot(t, obs, time.Date(2025, 12, 21, 12, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	WriteSummary(&buf, snap, time.UTC)
	if !strings.Contains(buf.String(), "none (Sun stays below -6.00°)") {
		t.Errorf("polar night not reported:\n%s", buf.String())
	}
}

func TestWriteSummary_Error(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, state.Snapshot{Observer: stuttgart, LastError: errors.New("boom")}, time.UTC)
	if !strings.Contains(buf.String(), "Error: boom") {
		t.Errorf("error not reported:\n%s", buf.String())
	}
}

func TestWriteNow(t *testing.T) {
	clock := ctu.NewClock(ctu.Options{})
	day := clock.SolarDayOn(datetime.NewCalendarDate(2025, 3, 10), stuttgart.LonDeg)
	at := day.VariableHourStart().Add(10 * time.Minute)
	snap := testSnapshot(t, stuttgart, at)

	var buf bytes.Buffer
	WriteNow(&buf, snap)
	out := buf.String()
	if !strings.HasPrefix(out, "CTU 23:") || !strings.Contains(out, " * | solar day 2025-03-10 |") {
		t.Errorf("WriteNow = %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("WriteNow wrote %d lines", strings.Count(out, "\n"))
	}

	buf.Reset()
	WriteNow(&buf, state.Snapshot{})
	if !strings.Contains(buf.String(), "no reading") {
		t.Errorf("WriteNow without data = %q", buf.String())
	}
}

func TestWriteEvents(t *testing.T) {
	base := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)
	events := []state.Event{
		{Type: state.EventNewSolarDay, Timestamp: base, ReferenceDay: "2025-06-21"},
		{Type: state.EventDawn, Timestamp: base.Add(3 * time.Hour), CTU: ctu.Time{Hour: 3, Minute: 10}, ReferenceDay: "2025-06-21"},
		{Type: state.EventSolarNoon, Timestamp: base.Add(11 * time.Hour), CTU: ctu.Time{Hour: 12}, ReferenceDay: "2025-06-21"},
	}

	var buf bytes.Buffer
	WriteEvents(&buf, events, 2)
	out := buf.String()
	if strings.Contains(out, "NEW_SOLAR_DAY") {
		t.Errorf("limit not applied:\n%s", out)
	}
	if !strings.Contains(out, "03:10:00 CTU  DAWN") || !strings.Contains(out, "SOLAR_NOON") {
		t.Errorf("events missing:\n%s", out)
	}

	buf.Reset()
	WriteEvents(&buf, nil, 10)
	if !strings.Contains(buf.String(), "No events yet") {
		t.Errorf("empty log = %q", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{24 * time.Hour, "24h00m00.000s"},
		{24*time.Hour + 12345*time.Millisecond, "24h00m12.345s"},
		{23*time.Hour + 59*time.Minute + 40*time.Second, "23h59m40.000s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTwilightName(t *testing.T) {
	if got := TwilightName(astro.NauticalTwilight); got != "Nautical twilight" {
		t.Errorf("TwilightName(nautical) = %q", got)
	}
	if got := TwilightName(-3); got != "Sun at -3.00°" {
		t.Errorf("TwilightName(-3) = %q", got)
	}
}
