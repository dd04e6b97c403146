package gesture

import (
	"image"

	"github.com/ayusman/shortswipe/internal/detector"
	"gocv.io/x/gocv"
)

// Arbiter combines shape and motion into one outcome per frame.
type Arbiter struct {
	shape  ShapeClassifier
	motion *MotionClassifier
}

// NewArbiter creates an Arbiter.
func NewArbiter(shape ShapeClassifier, motion *MotionClassifier) *Arbiter {
	return &Arbiter{shape: shape, motion: motion}
}

// Arbitrate returns the outcome for the current frame. An open palm always
// wins over motion, so a moving open hand is never a swipe. Motion is only
// consulted for a closed hand.
func (a *Arbiter) Arbitrate(frame *gocv.Mat, prev *image.Point, region *detector.Region) Outcome {
	if region == nil {
		return OutcomeNone
	}

	if a.shape.Classify(frame, region) == ShapeOpen {
		return OutcomePalmOpen
	}

	switch a.motion.Classify(prev, region.Centroid) {
	case MotionUp:
		return OutcomeSwipeUp
	case MotionDown:
		return OutcomeSwipeDown
	case MotionNone:
		return OutcomeNone
	}
	return OutcomeNone
}
