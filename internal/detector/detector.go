// Package detector locates the hand in a camera frame using a fixed
// skin-colour range, morphological cleanup and contour geometry.
package detector

import (
	"image"

	"gocv.io/x/gocv"
)

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the dominant hand region.
	// Returns nil when no qualifying region is present.
	Detect(frame *gocv.Mat) (*Region, error)

	// Close releases any resources held by the detector.
	Close() error
}

// HSV is a colour in OpenCV's HSV scale (H 0-180, S and V 0-255).
type HSV struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
}

// Config holds configuration options for hand detection.
type Config struct {
	// SkinLower and SkinUpper bound the inclusive skin colour range.
	SkinLower HSV
	SkinUpper HSV

	// KernelSize is the side of the square structuring element.
	KernelSize int

	// DilateIterations is how many times surviving regions are grown.
	DilateIterations int

	// MinArea is the smallest contour area accepted as a hand, in pixels.
	MinArea float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		SkinLower:        HSV{H: 0, S: 20, V: 70},
		SkinUpper:        HSV{H: 20, S: 255, V: 255},
		KernelSize:       5,
		DilateIterations: 2,
		MinArea:          5000,
	}
}

// Region is the largest qualifying connected component of a skin mask.
type Region struct {
	Contour   []image.Point   `json:"-"`
	Area      float64         `json:"area"`
	Perimeter float64         `json:"perimeter"`
	Bounds    image.Rectangle `json:"bounds"`
	// Centroid is the centre of Bounds, not the area-weighted centroid.
	Centroid image.Point `json:"centroid"`
}
