package capture

import (
	"image"
	"time"

	"gocv.io/x/gocv"
)

// Activity detection constants
const (
	// BlurSize is the Gaussian kernel used before differencing.
	BlurSize = 21
	// DiffThreshold is the per-pixel change that counts as activity.
	DiffThreshold = 25
)

// ActivityMonitor tracks whether anything is moving in front of the camera
// so the run loop can drop to an idle frame rate. It never decides gestures.
type ActivityMonitor struct {
	threshold   float64
	idleAfter   time.Duration
	prevGray    gocv.Mat
	initialized bool
	lastActive  time.Time
	active      bool
}

// NewActivityMonitor creates a monitor. threshold is the percentage of
// changed pixels that counts as activity; idleAfter is how long without
// activity before the monitor reports idle.
func NewActivityMonitor(threshold float64, idleAfter time.Duration) *ActivityMonitor {
	if threshold <= 0 {
		threshold = 1.0
	}
	return &ActivityMonitor{
		threshold: threshold,
		idleAfter: idleAfter,
		prevGray:  gocv.NewMat(),
	}
}

// Changed returns the percentage of pixels that changed since the previous
// frame. The first frame only stores a baseline and returns 0.
func (m *ActivityMonitor) Changed(frame *gocv.Mat) float64 {
	if frame == nil || frame.Empty() {
		return 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(BlurSize, BlurSize), 0, 0, gocv.BorderDefault)

	if !m.initialized || m.prevGray.Rows() != blurred.Rows() || m.prevGray.Cols() != blurred.Cols() {
		blurred.CopyTo(&m.prevGray)
		m.initialized = true
		return 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)
	gocv.Threshold(diff, &diff, DiffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(diff)) / float64(diff.Rows()*diff.Cols()) * 100.0

	blurred.CopyTo(&m.prevGray)
	return changed
}

// Observe feeds a frame and returns whether the scene is active at now.
// The second value is true when the state flipped on this frame.
func (m *ActivityMonitor) Observe(frame *gocv.Mat, now time.Time) (active bool, switched bool) {
	if m.Changed(frame) > m.threshold {
		m.lastActive = now
		if !m.active {
			m.active = true
			return true, true
		}
		return true, false
	}

	if m.active && now.Sub(m.lastActive) > m.idleAfter {
		m.active = false
		return false, true
	}
	return m.active, false
}

// Reset clears the baseline frame and returns to idle.
func (m *ActivityMonitor) Reset() {
	m.initialized = false
	m.active = false
}

// Close releases resources used by the monitor.
func (m *ActivityMonitor) Close() {
	m.prevGray.Close()
	m.initialized = false
}
