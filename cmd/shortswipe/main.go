// ShortSwipe - hands-free short-video browsing
// Swipe a fist up or down in front of the camera to move between items and
// show an open palm to pause or resume playback.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/ayusman/shortswipe/internal/action"
	"github.com/ayusman/shortswipe/internal/app"
	"github.com/ayusman/shortswipe/internal/capture"
	"github.com/ayusman/shortswipe/internal/config"
	"github.com/ayusman/shortswipe/internal/overlay"
	"github.com/ayusman/shortswipe/internal/server"
	"github.com/ayusman/shortswipe/internal/store"
	"github.com/ayusman/shortswipe/internal/tray"
)

var (
	version      = "0.1.0"
	envFile      = flag.String("env", ".env", "Optional .env file with SHORTSWIPE_* variables")
	showVer      = flag.Bool("version", false, "Show version")
	showSettings = flag.Bool("settings", false, "Print the effective settings and exit")
)

func main() {
	// Every setting is also a flag; flags win over .env, environment and
	// stored settings.
	defaults := config.Default().Settings()
	for _, key := range config.Keys() {
		flag.String(key, defaults[key], fmt.Sprintf("Setting %s (env %s)", key, config.EnvName(key)))
	}
	flag.Parse()

	if *showVer {
		fmt.Printf("shortswipe version %s\n", version)
		return
	}

	if err := run(); err != nil {
		log.Fatalf("ShortSwipe failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load(*envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyFlags(&cfg); err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	st, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	overrides, err := st.Settings().All()
	if err != nil {
		return fmt.Errorf("load stored settings: %w", err)
	}
	if err := cfg.ApplySettings(overrides); err != nil {
		return fmt.Errorf("apply stored settings: %w", err)
	}
	if err := applyFlags(&cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if *showSettings {
		settings := cfg.Settings()
		for _, key := range config.Keys() {
			fmt.Printf("%-18s %s\n", key, settings[key])
		}
		return nil
	}

	if cfg.HistoryLimit > 0 {
		if n, err := st.Events().Prune(cfg.HistoryLimit); err != nil {
			log.Printf("Failed to prune history: %v", err)
		} else if n > 0 {
			log.Printf("Pruned %d old events", n)
		}
	}

	sink, err := action.New(action.Options{
		Kind:      cfg.Sink,
		Keys:      cfg.Keys,
		PluginDir: cfg.PluginDir,
		Plugin:    cfg.Plugin,
	})
	if err != nil {
		return fmt.Errorf("create action sink: %w", err)
	}

	opts := app.Options{
		Config: cfg,
		Camera: capture.NewCamera(cfg.Camera),
		Sink:   sink,
		Store:  st,
	}
	if cfg.ShowWindow {
		// On macOS both the tray and HighGUI need the main thread.
		if cfg.Tray && runtime.GOOS == "darwin" {
			log.Println("Preview window disabled while the tray is running; use the dashboard stream")
		} else {
			opts.Display = overlay.NewWindow("ShortSwipe", cfg.ShowMask)
		}
	}

	a := app.New(opts)
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		StaticDir: staticDir(cfg),
		Store:     st,
		App:       a,
	})
	a.OnEvent(srv.Publish)

	serverDone := make(chan struct{})
	if cfg.HTTPAddr != "" {
		go func() {
			defer close(serverDone)
			if err := srv.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
				log.Printf("Server error: %v", err)
			}
		}()
	} else {
		close(serverDone)
	}

	for _, line := range overlay.Instructions {
		log.Println(line)
	}

	if cfg.Tray {
		err = runWithTray(ctx, stop, a, cfg)
	} else {
		err = a.Run(ctx)
	}

	stop()
	<-serverDone
	return err
}

// runWithTray runs the loop in the background while the tray owns the
// main goroutine. Quitting either one stops the other.
func runWithTray(ctx context.Context, stop context.CancelFunc, a *app.App, cfg config.Config) error {
	dashboard := ""
	if cfg.HTTPAddr != "" {
		dashboard = "http://" + cfg.HTTPAddr
	}

	t := tray.New(a, dashboard)
	t.OnQuit(stop)
	a.OnEvent(func(e app.Event) {
		t.SetLastAction(e.Action, e.Time)
	})

	loopErr := make(chan error, 1)
	go func() {
		err := a.Run(ctx)
		loopErr <- err
		t.Quit()
	}()

	t.Run()
	stop()
	return <-loopErr
}

// applyFlags applies the setting flags given on the command line.
func applyFlags(cfg *config.Config) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		if _, getErr := cfg.Get(f.Name); getErr != nil {
			return // not a setting flag
		}
		if setErr := cfg.Set(f.Name, f.Value.String()); setErr != nil {
			err = fmt.Errorf("flag -%s: %w", f.Name, setErr)
		}
	})
	return err
}

// staticDir returns the configured dashboard directory, or the first of
// "web", "../web" and ~/.shortswipe/web that exists.
func staticDir(cfg config.Config) string {
	if cfg.StaticDir != "" {
		return cfg.StaticDir
	}

	candidates := []string{"web", "../web"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, ".shortswipe", "web"))
	}

	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				log.Printf("Serving static files from: %s", abs)
				return abs
			}
			return p
		}
	}
	return ""
}
