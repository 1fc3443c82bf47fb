// Command ls-ctu is a terminal clock for Calculated Time Uncoordinated.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-ctu/internal/astro"
	"github.com/litescript/ls-ctu/internal/config"
	"github.com/litescript/ls-ctu/internal/ctu"
	"github.com/litescript/ls-ctu/internal/logging"
	"github.com/litescript/ls-ctu/internal/report"
	"github.com/litescript/ls-ctu/internal/state"
	"github.com/litescript/ls-ctu/internal/ui"
	"github.com/litescript/ls-ctu/internal/version"
)

// CLI flags for headless mode
var (
	summaryMode   bool
	nowMode       bool
	eventsMode    bool
	jsonPath      string
	msgpackPath   string
	yearReport    int
	watchInterval time.Duration
	atInstant     string
	fromCTU       string
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	lat := flag.Float64("lat", 0, "Observer latitude in degrees (north positive)")
	lon := flag.Float64("lon", 0, "Observer longitude in degrees (east positive)")
	name := flag.String("name", "", "Observer name")
	twilight := flag.String("twilight", "", "Dawn/dusk threshold: civil, sunrise, nautical, astronomical")
	refresh := flag.Duration("refresh", 0, "Clock refresh interval (e.g., 500ms, 1s)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to file instead of stderr")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.BoolVar(&nowMode, "now", false, "Single-line CTU mode")
	flag.BoolVar(&eventsMode, "events", false, "Show solar-day event log")
	flag.StringVar(&jsonPath, "json", "", "Export JSON snapshot to file (use - for stdout)")
	flag.StringVar(&msgpackPath, "msgpack", "", "Export MessagePack snapshot to file (use - for stdout)")
	flag.IntVar(&yearReport, "year", 0, "Print solar-day length statistics for a year and exit")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat output at interval (e.g., 30s)")
	flag.StringVar(&atInstant, "at", "", "Convert a UTC instant (RFC 3339) to CTU and exit")
	flag.StringVar(&fromCTU, "from-ctu", "", "Convert HH:MM:SS@YYYY-MM-DD from CTU to UTC and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ls-ctu %s\n", version.Version)
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Flags override the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			cfg.Observer.Latitude = lat
		case "lon":
			cfg.Observer.Longitude = lon
		case "name":
			cfg.Observer.Name = *name
		case "twilight":
			cfg.Twilight = *twilight
		case "refresh":
			cfg.Refresh = *refresh
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-file":
			cfg.LogFile = *logFile
		}
	})
	if cfg.Refresh < config.MinRefresh {
		cfg.Refresh = config.MinRefresh
	} else if cfg.Refresh > config.MaxRefresh {
		cfg.Refresh = config.MaxRefresh
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration:\n%v\n", err)
		os.Exit(1)
	}

	headless := summaryMode || nowMode || eventsMode || jsonPath != "" || msgpackPath != "" ||
		watchInterval > 0 || atInstant != "" || fromCTU != "" || yearReport != 0
	if !headless && !term.IsTerminal(int(os.Stdout.Fd())) {
		summaryMode, headless = true, true
	}

	// Set up logging
	logger := logging.New(logging.ParseLevel(cfg.LogLevel))
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
	} else if !headless {
		// Anything on stderr would tear the alt screen.
		logger.SetOutput(io.Discard)
	}

	obs, estimated := cfg.ResolveObserver(time.Now())
	if estimated {
		logger.Warn("No longitude configured; estimated %.2f° from the local UTC offset", obs.LonDeg)
		if cfg.Observer.Latitude == nil {
			logger.Warn("No latitude configured; dawn and dusk assume the equator")
		}
	}
	logger.Info("Observer %s, twilight %s", obs, cfg.Twilight)

	clock := ctu.NewClock(ctu.Options{
		CacheSize:  cfg.CacheSize,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger.With("ctu"),
	})

	if atInstant != "" || fromCTU != "" {
		if err := runConvert(os.Stdout, clock, obs.LonDeg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if yearReport != 0 {
		ys, err := report.ComputeYear(clock, obs.LonDeg, yearReport)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		report.WriteYear(os.Stdout, ys)
		return
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	stateMgr := state.NewManager(state.Config{
		MaxEvents:       50,
		RefreshInterval: cfg.Refresh,
		Observer:        obs,
	})
	s := sampler{clock: clock, obs: obs, elev: cfg.Elevation(), log: logger.With("sampler")}

	if headless {
		runHeadless(ctx, s, stateMgr)
		return
	}

	model := ui.New(stateMgr, time.Local)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	go runSampleLoop(ctx, s, stateMgr, p)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// sampler takes clock samples for one observer.
type sampler struct {
	clock *ctu.Clock
	obs   astro.Observer
	elev  float64
	log   *logging.Logger
}

func (s sampler) take(stateMgr *state.Manager) error {
	sample, err := state.Take(s.clock, s.obs, s.elev, time.Now())
	if err != nil {
		s.log.Error("Reading failed: %v", err)
	}
	stateMgr.Update(sample, err)
	return err
}

func runSampleLoop(ctx context.Context, s sampler, stateMgr *state.Manager, p *tea.Program) {
	sampleOnce := func() {
		if err := s.take(stateMgr); err != nil {
			p.Send(ui.ErrorMsg{Error: err})
			return
		}
		p.Send(ui.SampleMsg{Snapshot: stateMgr.Snapshot()})
	}

	sampleOnce()

	ticker := time.NewTicker(stateMgr.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("Sample loop shutting down")
			return
		case <-ticker.C:
			sampleOnce()
		}
	}
}

// runHeadless handles all headless modes without starting TUI.
func runHeadless(ctx context.Context, s sampler, stateMgr *state.Manager) {
	outputOnce := func() error {
		if err := s.take(stateMgr); err != nil {
			return err
		}
		snap := stateMgr.Snapshot()

		if nowMode {
			report.WriteNow(os.Stdout, snap)
			return nil
		}

		export := report.ExportSnapshot(snap, time.Now())
		if jsonPath != "" {
			if err := writeExport(jsonPath, export.WriteJSON); err != nil {
				return fmt.Errorf("write JSON: %w", err)
			}
		}
		if msgpackPath != "" {
			if err := writeExport(msgpackPath, export.WriteMsgpack); err != nil {
				return fmt.Errorf("write MessagePack: %w", err)
			}
		}

		if summaryMode || (!eventsMode && jsonPath == "" && msgpackPath == "") {
			report.WriteSummary(os.Stdout, snap, time.Local)
		}

		if eventsMode {
			fmt.Println()
			report.WriteEvents(os.Stdout, snap.Events, 10)
		}
		return nil
	}

	// Single run
	if watchInterval == 0 {
		if err := outputOnce(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Watch mode: repeat at interval
	if err := outputOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !nowMode {
				fmt.Println()
			}
			if err := outputOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

// writeExport writes to stdout for "-", else creates path.
func writeExport(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// runConvert handles -at and -from-ctu.
func runConvert(w io.Writer, clock *ctu.Clock, lonDeg float64) error {
	if atInstant != "" {
		utc, err := time.Parse(time.RFC3339Nano, atInstant)
		if err != nil {
			return fmt.Errorf("parse -at: %w", err)
		}
		t, ref, err := clock.UTCToCTU(utc, lonDeg)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s UTC = %s CTU@%s\n", utc.Format(time.RFC3339Nano), t, ctu.FormatDay(ref))
	}

	if fromCTU != "" {
		clockPart, dayPart, ok := strings.Cut(fromCTU, "@")
		if !ok {
			return fmt.Errorf("parse -from-ctu %q: want HH:MM:SS@YYYY-MM-DD", fromCTU)
		}
		t, err := ctu.ParseTime(clockPart)
		if err != nil {
			return err
		}
		ref, err := ctu.ParseDay(dayPart)
		if err != nil {
			return err
		}
		utc, err := clock.CTUToUTC(t, ref, lonDeg)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s CTU@%s = %s UTC\n", t, ctu.FormatDay(ref), utc.Format(time.RFC3339Nano))
	}
	return nil
}
