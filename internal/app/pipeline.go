package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ayusman/shortswipe/internal/capture"
	"github.com/ayusman/shortswipe/internal/gesture"
	"github.com/ayusman/shortswipe/internal/overlay"
	"gocv.io/x/gocv"
)

// segmenter is implemented by detectors that can expose their mask.
type segmenter interface {
	Segment(frame *gocv.Mat) gocv.Mat
}

// Run opens the camera and processes frames until ctx is cancelled, the
// source runs out of frames or the user presses a stop key. Running out of
// frames is a clean stop. The camera and display are released on every
// return path; Close releases the rest.
func (a *App) Run(ctx context.Context) error {
	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	// Every run starts idle, without a baseline from a previous run.
	a.activity.Reset()
	a.setRunning(true)
	a.camera.SetFPS(a.Config().IdleFPS)
	log.Println("Recognition loop started")

	defer func() {
		a.setRunning(false)
		if err := a.camera.Close(); err != nil {
			log.Printf("Error closing camera: %v", err)
		}
		if a.opts.Display != nil {
			if err := a.opts.Display.Close(); err != nil {
				log.Printf("Error closing display: %v", err)
			}
		}
		log.Println("Recognition loop stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		stop, err := a.cycle(ctx)
		if errors.Is(err, capture.ErrEndOfStream) {
			log.Printf("Frame source ended: %v", err)
			return nil
		}
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// cycle runs one read -> recognise -> act -> report -> display pass and
// reports whether the user asked to stop.
func (a *App) cycle(ctx context.Context) (bool, error) {
	a.applyPending()

	frame, err := a.camera.ReadFrame()
	if err != nil {
		return false, err
	}
	defer frame.Close()

	now := a.now()
	a.frames.Add(1)
	a.observeActivity(frame, now)

	var res gesture.Result
	if a.IsEnabled() {
		res, a.session, err = a.pipeline.Step(frame, a.session, now)
		if err != nil {
			return false, err
		}
	} else {
		// Re-enabling starts a fresh episode: no stale position to swipe
		// from and no leftover suppression. The cooldown still applies.
		a.session.Previous = nil
		a.session.Suppression = 0
	}

	if res.Region != nil {
		a.handFrames.Add(1)
		if a.opts.Display != nil && a.Config().ShowMask {
			a.showMask(frame, a.opts.Display)
		}
	}

	overlay.Draw(frame, res)

	if res.Action != gesture.ActionNone {
		a.fire(ctx, frame, res, now)
	}

	a.publishFrame(frame)

	if d := a.opts.Display; d != nil {
		return d.Show(*frame), nil
	}
	return false, nil
}

// fire performs the action and reports the event.
func (a *App) fire(ctx context.Context, frame *gocv.Mat, res gesture.Result, now time.Time) {
	log.Printf("Gesture %s -> %s", res.Outcome, res.Action)

	var sinkErr error
	if err := a.sink.Perform(ctx, res.Action); err != nil {
		sinkErr = err
		log.Printf("Action %s failed: %v", res.Action, err)
	}

	a.actions.Add(1)
	event := newEvent(res, now, sinkErr)
	if snap, err := Snapshot(frame, SnapshotWidth); err != nil {
		log.Printf("Snapshot failed: %v", err)
	} else {
		event.Snapshot = snap
	}

	a.record(event)
}

func (a *App) record(event Event) {
	if a.opts.Store != nil {
		if err := a.opts.Store.Events().Create(event.toStore()); err != nil {
			log.Printf("Failed to store event %s: %v", event.ID, err)
		}
	}

	a.mu.Lock()
	a.last = &event
	listeners := append([]func(Event){}, a.listeners...)
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(event)
	}
}

// observeActivity switches the capture rate between idle and active.
func (a *App) observeActivity(frame *gocv.Mat, now time.Time) {
	active, switched := a.activity.Observe(frame, now)
	if !switched {
		return
	}

	cfg := a.Config()
	if active {
		a.camera.SetFPS(cfg.Camera.FPS)
		log.Println("Switched to active mode")
	} else {
		a.camera.SetFPS(cfg.IdleFPS)
		log.Println("Switched to idle mode")
	}

	a.mu.Lock()
	a.active = active
	a.mu.Unlock()
}

func (a *App) publishFrame(frame *gocv.Mat) {
	if a.watchers.Load() <= 0 {
		return
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		log.Printf("Failed to encode frame: %v", err)
		return
	}
	data := append([]byte(nil), buf.GetBytes()...)
	buf.Close()

	a.mu.Lock()
	a.jpeg = data
	a.jpegSeq++
	a.mu.Unlock()
}

func (a *App) showMask(frame *gocv.Mat, d Display) {
	seg, ok := a.pipeline.Detector().(segmenter)
	if !ok {
		return
	}
	mask := seg.Segment(frame)
	defer mask.Close()
	d.ShowMask(mask)
}

// applyPending installs a configuration queued by Reconfigure.
func (a *App) applyPending() {
	a.mu.Lock()
	pending := a.pending
	a.pending = nil
	if pending != nil {
		a.cfg = *pending
	}
	a.mu.Unlock()

	if pending == nil {
		return
	}

	a.buildPipeline(*pending)
	a.activity.Close()
	a.activity = capture.NewActivityMonitor(pending.MotionThreshold, pending.IdleAfter)
	a.session.Previous = nil
	log.Println("Applied new recognition settings")
}
