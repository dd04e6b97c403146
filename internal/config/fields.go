package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ayusman/shortswipe/internal/detector"
)

type field struct {
	get func(*Config) string
	set func(*Config, string) error
	// live settings are picked up by a running app
	live bool
}

var fields = map[string]field{
	"skin-lower":        hsvField(func(c *Config) *detector.HSV { return &c.Detector.SkinLower }),
	"skin-upper":        hsvField(func(c *Config) *detector.HSV { return &c.Detector.SkinUpper }),
	"min-area":          floatField(func(c *Config) *float64 { return &c.Detector.MinArea }, true),
	"kernel-size":       intField(func(c *Config) *int { return &c.Detector.KernelSize }, true),
	"dilate-iterations": intField(func(c *Config) *int { return &c.Detector.DilateIterations }, true),
	"window-size":       intField(func(c *Config) *int { return &c.Gesture.WindowSize }, true),
	"binary-threshold":  floatField(func(c *Config) *float64 { return &c.Gesture.BinaryThreshold }, true),
	"palm-circularity":  floatField(func(c *Config) *float64 { return &c.Gesture.PalmCircularity }, true),
	"palm-min-area":     floatField(func(c *Config) *float64 { return &c.Gesture.PalmMinArea }, true),
	"swipe-delta":       intField(func(c *Config) *int { return &c.Gesture.SwipeDelta }, true),
	"suppress-cycles":   intField(func(c *Config) *int { return &c.Gesture.SuppressCycles }, true),
	"cooldown":          durationField(func(c *Config) *time.Duration { return &c.Gesture.Cooldown }, true),
	"motion-threshold":  floatField(func(c *Config) *float64 { return &c.MotionThreshold }, true),
	"idle-after":        durationField(func(c *Config) *time.Duration { return &c.IdleAfter }, true),
	"idle-fps":          intField(func(c *Config) *int { return &c.IdleFPS }, true),

	"camera":        intField(func(c *Config) *int { return &c.Camera.DeviceID }, false),
	"video-file":    stringField(func(c *Config) *string { return &c.Camera.File }),
	"width":         intField(func(c *Config) *int { return &c.Camera.Width }, false),
	"height":        intField(func(c *Config) *int { return &c.Camera.Height }, false),
	"fps":           intField(func(c *Config) *int { return &c.Camera.FPS }, false),
	"mirror":        boolField(func(c *Config) *bool { return &c.Camera.Mirror }),
	"db":            stringField(func(c *Config) *string { return &c.DBPath }),
	"history-limit": intField(func(c *Config) *int { return &c.HistoryLimit }, false),
	"http-addr":     stringField(func(c *Config) *string { return &c.HTTPAddr }),
	"static-dir":    stringField(func(c *Config) *string { return &c.StaticDir }),
	"sink":          stringField(func(c *Config) *string { return &c.Sink }),
	"keys":          stringField(func(c *Config) *string { return &c.Keys }),
	"plugin-dir":    stringField(func(c *Config) *string { return &c.PluginDir }),
	"plugin":        stringField(func(c *Config) *string { return &c.Plugin }),
	"show-window":   boolField(func(c *Config) *bool { return &c.ShowWindow }),
	"show-mask":     boolField(func(c *Config) *bool { return &c.ShowMask }),
	"tray":          boolField(func(c *Config) *bool { return &c.Tray }),
}

func intField(ptr func(*Config) *int, live bool) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *Config, s string) error {
			v, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("not an integer: %q", s)
			}
			*ptr(c) = v
			return nil
		},
		live: live,
	}
}

func floatField(ptr func(*Config) *float64, live bool) field {
	return field{
		get: func(c *Config) string { return strconv.FormatFloat(*ptr(c), 'g', -1, 64) },
		set: func(c *Config, s string) error {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("not a number: %q", s)
			}
			*ptr(c) = v
			return nil
		},
		live: live,
	}
}

func durationField(ptr func(*Config) *time.Duration, live bool) field {
	return field{
		get: func(c *Config) string { return ptr(c).String() },
		set: func(c *Config, s string) error {
			v, err := time.ParseDuration(s)
			if err != nil {
				return fmt.Errorf("not a duration: %q", s)
			}
			*ptr(c) = v
			return nil
		},
		live: live,
	}
}

func boolField(ptr func(*Config) *bool) field {
	return field{
		get: func(c *Config) string { return strconv.FormatBool(*ptr(c)) },
		set: func(c *Config, s string) error {
			v, err := strconv.ParseBool(s)
			if err != nil {
				return fmt.Errorf("not a boolean: %q", s)
			}
			*ptr(c) = v
			return nil
		},
	}
}

func stringField(ptr func(*Config) *string) field {
	return field{
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, s string) error {
			*ptr(c) = s
			return nil
		},
	}
}

func hsvField(ptr func(*Config) *detector.HSV) field {
	return field{
		get: func(c *Config) string { return FormatHSV(*ptr(c)) },
		set: func(c *Config, s string) error {
			v, err := ParseHSV(s)
			if err != nil {
				return err
			}
			*ptr(c) = v
			return nil
		},
		live: true,
	}
}
