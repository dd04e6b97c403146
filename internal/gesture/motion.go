package gesture

import "image"

// Motion is the vertical movement between two consecutive hand positions.
type Motion int

const (
	MotionNone Motion = iota
	MotionUp
	MotionDown
)

// String returns the name of the motion.
func (m Motion) String() string {
	switch m {
	case MotionUp:
		return "up"
	case MotionDown:
		return "down"
	}
	return "none"
}

// MotionClassifier detects vertical swipes from single-step displacement.
type MotionClassifier struct {
	threshold int
}

// NewMotionClassifier creates a MotionClassifier with the given pixel threshold.
func NewMotionClassifier(threshold int) *MotionClassifier {
	return &MotionClassifier{threshold: threshold}
}

// Classify compares the previous and current positions. Image rows grow
// downward, so a positive prev.Y-cur.Y means the hand moved up.
// Without a previous position there is no motion.
func (m *MotionClassifier) Classify(prev *image.Point, cur image.Point) Motion {
	if prev == nil {
		return MotionNone
	}

	delta := prev.Y - cur.Y
	switch {
	case delta > m.threshold:
		return MotionUp
	case delta < -m.threshold:
		return MotionDown
	}
	return MotionNone
}
