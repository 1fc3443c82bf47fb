// Package config loads ls-ctu settings from an optional YAML file.
package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"cloudeng.io/errors"
	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-ctu/internal/astro"
	"github.com/litescript/ls-ctu/internal/ctu"
	"github.com/litescript/ls-ctu/internal/logging"
)

const (
	DefaultRefresh = 500 * time.Millisecond
	MinRefresh     = 100 * time.Millisecond
	MaxRefresh     = 5 * time.Minute
)

type Config struct {
	Observer   ObserverConfig `yaml:"observer"`
	Twilight   string         `yaml:"twilight"`
	CacheSize  int            `yaml:"cache_size"`
	MaxRetries int            `yaml:"max_retries"`
	Refresh    time.Duration  `yaml:"refresh"`
	LogLevel   string         `yaml:"log_level"`
	LogFile    string         `yaml:"log_file"`
}

// ObserverConfig locates the observer. Latitude and Longitude are pointers
// so that an omitted value can be told apart from 0°.
type ObserverConfig struct {
	Name      string   `yaml:"name"`
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Twilight:   "civil",
		CacheSize:  ctu.DefaultCacheSize,
		MaxRetries: ctu.DefaultMaxRetries,
		Refresh:    DefaultRefresh,
		LogLevel:   "info",
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Twilight) == "" {
		c.Twilight = "civil"
	}
	if c.CacheSize == 0 {
		c.CacheSize = ctu.DefaultCacheSize
	}
	if c.Refresh == 0 {
		c.Refresh = DefaultRefresh
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	errs := &errors.M{}
	if lat := c.Observer.Latitude; lat != nil && (math.IsNaN(*lat) || *lat < -90 || *lat > 90) {
		errs.Append(fmt.Errorf("observer.latitude %v out of range [-90, 90]", *lat))
	}
	// Longitudes outside ±180° wrap through the noon model.
	if lon := c.Observer.Longitude; lon != nil && (math.IsNaN(*lon) || math.IsInf(*lon, 0)) {
		errs.Append(fmt.Errorf("observer.longitude %v is not a finite number", *lon))
	}
	if _, err := astro.ParseElevation(c.Twilight); err != nil {
		errs.Append(fmt.Errorf("twilight: %w", err))
	}
	if c.MaxRetries < 1 {
		errs.Append(fmt.Errorf("max_retries must be >= 1, got %d", c.MaxRetries))
	}
	if c.Refresh < MinRefresh || c.Refresh > MaxRefresh {
		errs.Append(fmt.Errorf("refresh %v outside [%v, %v]", c.Refresh, MinRefresh, MaxRefresh))
	}
	if _, ok := logging.LookupLevel(c.LogLevel); !ok {
		errs.Append(fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}
	return errs.Err()
}

// Elevation returns the twilight threshold in degrees.
func (c Config) Elevation() float64 {
	elev, err := astro.ParseElevation(c.Twilight)
	if err != nil {
		return astro.CivilTwilight
	}
	return elev
}

// ResolveObserver returns the configured observer. A missing longitude is
// estimated from the UTC offset of now's zone and estimated is set; a
// missing latitude is 0°.
func (c Config) ResolveObserver(now time.Time) (obs astro.Observer, estimated bool) {
	obs.Name = c.Observer.Name
	if c.Observer.Latitude != nil {
		obs.LatDeg = *c.Observer.Latitude
	}
	if c.Observer.Longitude != nil {
		obs.LonDeg = *c.Observer.Longitude
		return obs, false
	}
	_, offset := now.Zone()
	obs.LonDeg = EstimateLongitude(offset)
	return obs, true
}

// EstimateLongitude maps a UTC offset to the longitude of its zone meridian,
// 15° per hour, normalised to [-180, 180).
func EstimateLongitude(offsetSeconds int) float64 {
	lon := math.Mod(15*float64(offsetSeconds)/3600+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
