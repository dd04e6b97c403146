// Package config gathers ShortSwipe's settings from defaults, an optional
// .env file, SHORTSWIPE_* environment variables and persisted overrides.
//
// Every setting has a kebab-case key ("swipe-delta", "cooldown", ...). The
// same key names the environment variable (SHORTSWIPE_SWIPE_DELTA), the row
// in the settings table and the field in the HTTP settings API.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/shortswipe/internal/capture"
	"github.com/ayusman/shortswipe/internal/detector"
	"github.com/ayusman/shortswipe/internal/gesture"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SHORTSWIPE_"

// ErrUnknownKey is returned for a setting key that does not exist.
var ErrUnknownKey = errors.New("unknown setting")

// Config is the full runtime configuration.
type Config struct {
	Detector detector.Config
	Gesture  gesture.Config
	Camera   capture.Options

	// MotionThreshold is the percentage of changed pixels that counts as
	// activity; IdleAfter is how long without activity before idling.
	MotionThreshold float64
	IdleAfter       time.Duration
	IdleFPS         int

	DBPath string
	// HistoryLimit is how many events are kept; 0 keeps all of them.
	HistoryLimit int
	HTTPAddr     string
	StaticDir    string

	// Sink is one of "keys", "plugin" or "log".
	Sink      string
	Keys      string
	PluginDir string
	Plugin    string

	ShowWindow bool
	ShowMask   bool
	Tray       bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Detector: detector.DefaultConfig(),
		Gesture:  gesture.DefaultConfig(),
		Camera: capture.Options{
			Width:  capture.DefaultWidth,
			Height: capture.DefaultHeight,
			FPS:    capture.DefaultFPS,
			Mirror: true,
		},
		MotionThreshold: 1.0,
		IdleAfter:       2 * time.Second,
		IdleFPS:         5,
		DBPath:          "shortswipe.db",
		HistoryLimit:    1000,
		HTTPAddr:        "127.0.0.1:8080",
		Sink:            "keys",
		PluginDir:       "plugins",
		ShowWindow:      true,
	}
}

// Load returns Default overlaid with envFile (if it exists) and then the
// process environment. An empty envFile means ".env".
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	} else {
		log.Printf("Loaded environment from %s", envFile)
	}

	cfg := Default()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// EnvName returns the environment variable for a setting key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// ApplyEnv sets every key for which lookup finds a value.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, key := range Keys() {
		if v, ok := lookup(EnvName(key)); ok {
			if err := c.Set(key, v); err != nil {
				return fmt.Errorf("%s: %w", EnvName(key), err)
			}
		}
	}
	return nil
}

// ApplySettings applies persisted key/value overrides. Unknown keys are
// logged and skipped so stale rows never block startup.
func (c *Config) ApplySettings(settings map[string]string) error {
	for key, value := range settings {
		if _, ok := fields[key]; !ok {
			log.Printf("Ignoring unknown setting %q", key)
			continue
		}
		if err := c.Set(key, value); err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
	}
	return c.Validate()
}

// Set parses value into the setting named key.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.set(c, strings.TrimSpace(value))
}

// Get formats the setting named key.
func (c Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.get(&c), nil
}

// Settings returns every setting formatted as a string.
func (c Config) Settings() map[string]string {
	out := make(map[string]string, len(fields))
	for key, f := range fields {
		out[key] = f.get(&c)
	}
	return out
}

// Live reports whether a change to key takes effect without a restart.
func Live(key string) bool {
	f, ok := fields[key]
	return ok && f.live
}

// Keys returns all setting keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks the values that would break the pipeline.
func (c Config) Validate() error {
	d, g := c.Detector, c.Gesture

	for i, pair := range [][2]float64{
		{d.SkinLower.H, d.SkinUpper.H},
		{d.SkinLower.S, d.SkinUpper.S},
		{d.SkinLower.V, d.SkinUpper.V},
	} {
		if pair[0] > pair[1] {
			return fmt.Errorf("skin range channel %d: lower %v above upper %v", i, pair[0], pair[1])
		}
	}

	switch {
	case d.KernelSize < 1:
		return fmt.Errorf("kernel-size must be positive, got %d", d.KernelSize)
	case d.DilateIterations < 0:
		return fmt.Errorf("dilate-iterations must not be negative, got %d", d.DilateIterations)
	case g.WindowSize < 1:
		return fmt.Errorf("window-size must be positive, got %d", g.WindowSize)
	case g.SwipeDelta < 0:
		return fmt.Errorf("swipe-delta must not be negative, got %d", g.SwipeDelta)
	case g.SuppressCycles < 0:
		return fmt.Errorf("suppress-cycles must not be negative, got %d", g.SuppressCycles)
	case g.Cooldown < 0:
		return fmt.Errorf("cooldown must not be negative, got %v", g.Cooldown)
	case c.HistoryLimit < 0:
		return fmt.Errorf("history-limit must not be negative, got %d", c.HistoryLimit)
	case c.Camera.FPS < 1 || c.IdleFPS < 1:
		return fmt.Errorf("frame rates must be positive, got fps=%d idle-fps=%d", c.Camera.FPS, c.IdleFPS)
	}

	switch c.Sink {
	case "keys", "plugin", "log":
	default:
		return fmt.Errorf("sink must be keys, plugin or log, got %q", c.Sink)
	}
	return nil
}

// ParseHSV parses "h,s,v".
func ParseHSV(s string) (detector.HSV, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return detector.HSV{}, fmt.Errorf("want h,s,v, got %q", s)
	}

	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return detector.HSV{}, fmt.Errorf("parse %q: %w", p, err)
		}
		v[i] = f
	}

	hsv := detector.HSV{H: v[0], S: v[1], V: v[2]}
	if hsv.H < 0 || hsv.H > 180 || hsv.S < 0 || hsv.S > 255 || hsv.V < 0 || hsv.V > 255 {
		return detector.HSV{}, fmt.Errorf("hsv %q out of range", s)
	}
	return hsv, nil
}

// FormatHSV formats an HSV triple the way ParseHSV reads it.
func FormatHSV(hsv detector.HSV) string {
	return fmt.Sprintf("%g,%g,%g", hsv.H, hsv.S, hsv.V)
}
