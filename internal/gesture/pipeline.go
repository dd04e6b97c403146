package gesture

import (
	"fmt"
	"image"
	"time"

	"github.com/ayusman/shortswipe/internal/detector"
	"gocv.io/x/gocv"
)

// Result is what one pipeline cycle produced.
type Result struct {
	Region  *detector.Region
	Outcome Outcome
	Action  Action
}

// Position returns the hand position, or nil when no hand was found.
func (r Result) Position() *image.Point {
	if r.Region == nil {
		return nil
	}
	p := r.Region.Centroid
	return &p
}

// Pipeline runs detect -> arbitrate -> dispatch for one frame.
type Pipeline struct {
	detector   detector.Detector
	arbiter    *Arbiter
	dispatcher *Dispatcher
}

// NewPipeline wires a pipeline with the contour shape classifier.
func NewPipeline(d detector.Detector, config Config) *Pipeline {
	return &Pipeline{
		detector:   d,
		arbiter:    NewArbiter(NewContourShapeClassifier(config), NewMotionClassifier(config.SwipeDelta)),
		dispatcher: NewDispatcher(config.SuppressCycles, config.Cooldown),
	}
}

// Step processes one frame. The returned session replaces s; Previous is
// always set to this frame's hand position, nil included.
func (p *Pipeline) Step(frame *gocv.Mat, s Session, now time.Time) (Result, Session, error) {
	region, err := p.detector.Detect(frame)
	if err != nil {
		return Result{}, s, fmt.Errorf("detect hand: %w", err)
	}

	res := Result{
		Region:  region,
		Outcome: p.arbiter.Arbitrate(frame, s.Previous, region),
	}

	res.Action, s = p.dispatcher.Dispatch(res.Outcome, s, now)
	s.Previous = res.Position()

	return res, s, nil
}

// Detector returns the hand detector the pipeline runs.
func (p *Pipeline) Detector() detector.Detector {
	return p.detector
}

// Close releases the detector.
func (p *Pipeline) Close() error {
	return p.detector.Close()
}
