// Package app runs the ShortSwipe recognition loop: it reads frames, turns
// them into gesture actions, performs the actions and reports them.
package app

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/shortswipe/internal/action"
	"github.com/ayusman/shortswipe/internal/capture"
	"github.com/ayusman/shortswipe/internal/config"
	"github.com/ayusman/shortswipe/internal/detector"
	"github.com/ayusman/shortswipe/internal/gesture"
	"github.com/ayusman/shortswipe/internal/store"
	"gocv.io/x/gocv"
)

// Display shows annotated frames. overlay.Window implements it.
type Display interface {
	// Show returns true when the user asked to stop.
	Show(frame gocv.Mat) bool
	ShowMask(mask gocv.Mat)
	Close() error
}

// Options wires the App's collaborators. Camera is required; everything
// else has a default.
type Options struct {
	Config config.Config
	Camera capture.Camera
	// Detector defaults to a SkinDetector built from Config.Detector.
	Detector detector.Detector
	// Sink defaults to action.LogSink.
	Sink action.Sink
	// Store, when set, receives every event.
	Store   *store.Store
	Display Display
	// Now defaults to time.Now.
	Now func() time.Time
}

// Status is a snapshot of the loop's state.
type Status struct {
	Running    bool      `json:"running"`
	Enabled    bool      `json:"enabled"`
	Active     bool      `json:"active"`
	FPS        int       `json:"fps"`
	Frames     uint64    `json:"frames"`
	HandFrames uint64    `json:"hand_frames"`
	Actions    uint64    `json:"actions"`
	LastAction string    `json:"last_action,omitempty"`
	LastAt     time.Time `json:"last_action_at,omitempty"`
}

// App is the recognition loop.
type App struct {
	opts     Options
	camera   capture.Camera
	sink     action.Sink
	activity *capture.ActivityMonitor
	now      func() time.Time

	// owned by the loop goroutine
	pipeline     *gesture.Pipeline
	ownsDetector bool
	session      gesture.Session

	mu        sync.RWMutex
	cfg       config.Config
	pending   *config.Config
	enabled   bool
	running   bool
	active    bool
	last      *Event
	listeners []func(Event)
	jpeg      []byte
	jpegSeq   uint64

	watchers   atomic.Int32
	frames     atomic.Uint64
	handFrames atomic.Uint64
	actions    atomic.Uint64
}

// New creates an App. It starts enabled.
func New(opts Options) *App {
	a := &App{
		opts:    opts,
		camera:  opts.Camera,
		sink:    opts.Sink,
		now:     opts.Now,
		cfg:     opts.Config,
		enabled: true,
	}
	if a.sink == nil {
		a.sink = action.LogSink{}
	}
	if a.now == nil {
		a.now = time.Now
	}
	a.activity = capture.NewActivityMonitor(opts.Config.MotionThreshold, opts.Config.IdleAfter)
	a.buildPipeline(opts.Config)
	return a
}

// buildPipeline replaces the pipeline for cfg. Only detectors the App built
// itself are closed and rebuilt.
func (a *App) buildPipeline(cfg config.Config) {
	d := a.opts.Detector
	if d == nil {
		if a.pipeline != nil && a.ownsDetector {
			a.pipeline.Close()
		}
		d = detector.NewSkinDetector(cfg.Detector)
		a.ownsDetector = true
	}
	a.pipeline = gesture.NewPipeline(d, cfg.Gesture)
}

// SetEnabled turns recognition on or off. Frames keep flowing to the
// display and stream while disabled.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.enabled != enabled {
		log.Printf("Recognition enabled: %v", enabled)
	}
	a.enabled = enabled
}

// IsEnabled returns whether recognition is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Config returns the configuration in effect, including any change
// waiting for the next cycle.
func (a *App) Config() config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.pending != nil {
		return *a.pending
	}
	return a.cfg
}

// Reconfigure applies cfg at the start of the next cycle. Only live
// settings take effect; the rest wait for a restart.
func (a *App) Reconfigure(cfg config.Config) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = &cfg
}

// OnEvent registers fn to receive every dispatched action. Listeners run
// on the loop goroutine and must not block.
func (a *App) OnEvent(fn func(Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// LastEvent returns the most recent event, or nil.
func (a *App) LastEvent() *Event {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.last == nil {
		return nil
	}
	e := *a.last
	return &e
}

// Watch asks the loop to JPEG-encode every annotated frame until the
// returned release function is called.
func (a *App) Watch() (release func()) {
	a.watchers.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { a.watchers.Add(-1) })
	}
}

// LatestJPEG returns the most recent annotated frame and its sequence
// number. It is only refreshed while someone is watching.
func (a *App) LatestJPEG() ([]byte, uint64) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.jpeg, a.jpegSeq
}

// Status returns a snapshot of the loop's state.
func (a *App) Status() Status {
	a.mu.RLock()
	st := Status{
		Running: a.running,
		Enabled: a.enabled,
		Active:  a.active,
	}
	if a.last != nil {
		st.LastAction = a.last.Action
		st.LastAt = a.last.Time
	}
	a.mu.RUnlock()

	if a.camera != nil {
		st.FPS = a.camera.FPS()
	}
	st.Frames = a.frames.Load()
	st.HandFrames = a.handFrames.Load()
	st.Actions = a.actions.Load()
	return st
}

// Close releases the detector the App built and the activity monitor.
// Call it after Run has returned.
func (a *App) Close() error {
	a.activity.Close()
	if a.ownsDetector {
		return a.pipeline.Close()
	}
	return nil
}

func (a *App) setRunning(running bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.running = running
	a.active = false
}
