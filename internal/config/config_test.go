package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/shortswipe/internal/detector"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() is invalid: %v", err)
	}
	if cfg.Gesture.SwipeDelta != 50 {
		t.Errorf("SwipeDelta = %d, want 50", cfg.Gesture.SwipeDelta)
	}
	if cfg.Gesture.Cooldown != 1500*time.Millisecond {
		t.Errorf("Cooldown = %v, want 1.5s", cfg.Gesture.Cooldown)
	}
	if !cfg.Camera.Mirror {
		t.Error("frames should be mirrored by default")
	}
	if cfg.Sink != "keys" {
		t.Errorf("Sink = %q, want keys", cfg.Sink)
	}
}

func TestEnvName(t *testing.T) {
	tests := map[string]string{
		"swipe-delta": "SHORTSWIPE_SWIPE_DELTA",
		"db":          "SHORTSWIPE_DB",
		"skin-lower":  "SHORTSWIPE_SKIN_LOWER",
	}
	for key, want := range tests {
		if got := EnvName(key); got != want {
			t.Errorf("EnvName(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestSetGet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{key: "swipe-delta", value: "30", want: "30"},
		{key: "cooldown", value: "2s", want: "2s"},
		{key: "cooldown", value: "750ms", want: "750ms"},
		{key: "palm-circularity", value: "0.4", want: "0.4"},
		{key: "skin-lower", value: "5, 30, 60", want: "5,30,60"},
		{key: "show-window", value: "false", want: "false"},
		{key: "sink", value: "log", want: "log"},
		{key: "db", value: " /tmp/x.db ", want: "/tmp/x.db"},
		{key: "swipe-delta", value: "many", wantErr: true},
		{key: "cooldown", value: "1500", wantErr: true},
		{key: "skin-upper", value: "1,2", wantErr: true},
		{key: "skin-upper", value: "200,255,255", wantErr: true},
		{key: "tray", value: "maybe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := Default()
			err := cfg.Set(tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestUnknownKey(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("volume", "11"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Set() expected ErrUnknownKey, got %v", err)
	}
	if _, err := cfg.Get("volume"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get() expected ErrUnknownKey, got %v", err)
	}
}

func TestSettings_CoversEveryKey(t *testing.T) {
	cfg := Default()
	settings := cfg.Settings()

	if len(settings) != len(Keys()) {
		t.Fatalf("Settings() has %d entries, Keys() has %d", len(settings), len(Keys()))
	}

	// Round trip through strings must not change anything.
	restored := Default()
	if err := restored.ApplySettings(settings); err != nil {
		t.Fatalf("ApplySettings() error = %v", err)
	}
	if restored != cfg {
		t.Errorf("round trip changed config:\n got %+v\nwant %+v", restored, cfg)
	}
}

func TestApplySettings(t *testing.T) {
	cfg := Default()

	err := cfg.ApplySettings(map[string]string{
		"swipe-delta":  "70",
		"removed-knob": "1",
	})
	if err != nil {
		t.Fatalf("ApplySettings() error = %v", err)
	}
	if cfg.Gesture.SwipeDelta != 70 {
		t.Errorf("SwipeDelta = %d, want 70", cfg.Gesture.SwipeDelta)
	}

	if err := cfg.ApplySettings(map[string]string{"kernel-size": "0"}); err == nil {
		t.Error("expected validation error for kernel-size=0")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SHORTSWIPE_SUPPRESS_CYCLES": "10",
		"SHORTSWIPE_CAMERA":          "2",
		"SHORTSWIPE_SKIN_UPPER":      "25,255,255",
		"UNRELATED":                  "x",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if cfg.Gesture.SuppressCycles != 10 {
		t.Errorf("SuppressCycles = %d, want 10", cfg.Gesture.SuppressCycles)
	}
	if cfg.Camera.DeviceID != 2 {
		t.Errorf("DeviceID = %d, want 2", cfg.Camera.DeviceID)
	}
	if cfg.Detector.SkinUpper != (detector.HSV{H: 25, S: 255, V: 255}) {
		t.Errorf("SkinUpper = %+v", cfg.Detector.SkinUpper)
	}

	env["SHORTSWIPE_FPS"] = "fast"
	if err := cfg.ApplyEnv(lookup); err == nil {
		t.Error("expected error for bad SHORTSWIPE_FPS")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	content := "SHORTSWIPE_SWIPE_DELTA=42\nSHORTSWIPE_SINK=log\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatalf("write env: %v", err)
	}

	// godotenv never overrides variables already set; start clean.
	t.Setenv("SHORTSWIPE_SWIPE_DELTA", "")
	os.Unsetenv("SHORTSWIPE_SWIPE_DELTA")
	t.Setenv("SHORTSWIPE_SINK", "")
	os.Unsetenv("SHORTSWIPE_SINK")

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Gesture.SwipeDelta != 42 {
		t.Errorf("SwipeDelta = %d, want 42", cfg.Gesture.SwipeDelta)
	}
	if cfg.Sink != "log" {
		t.Errorf("Sink = %q, want log", cfg.Sink)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"inverted hue", func(c *Config) { c.Detector.SkinLower.H = 30 }},
		{"zero window", func(c *Config) { c.Gesture.WindowSize = 0 }},
		{"negative cooldown", func(c *Config) { c.Gesture.Cooldown = -time.Second }},
		{"negative suppression", func(c *Config) { c.Gesture.SuppressCycles = -1 }},
		{"zero idle fps", func(c *Config) { c.IdleFPS = 0 }},
		{"negative history", func(c *Config) { c.HistoryLimit = -1 }},
		{"bad sink", func(c *Config) { c.Sink = "email" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLive(t *testing.T) {
	if !Live("swipe-delta") || !Live("skin-lower") {
		t.Error("recognition settings should be live")
	}
	if Live("camera") || Live("db") || Live("nope") {
		t.Error("device and storage settings should need a restart")
	}
}
