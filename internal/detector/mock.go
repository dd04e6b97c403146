package detector

import (
	"image"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	regions []*Region
	index   int
	err     error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetRegion makes every Detect call return r.
func (m *MockDetector) SetRegion(r *Region) {
	m.regions = []*Region{r}
	m.index = 0
}

// SetSequence makes successive Detect calls return the given regions in
// order, repeating the last one once exhausted.
func (m *MockDetector) SetSequence(regions ...*Region) {
	m.regions = regions
	m.index = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured region or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Region, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.regions) == 0 {
		return nil, nil
	}

	r := m.regions[m.index]
	if m.index < len(m.regions)-1 {
		m.index++
	}
	return r, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// RegionAt returns a square region of the given side centred on (x, y).
func RegionAt(x, y, side int) *Region {
	half := side / 2
	bounds := image.Rect(x-half, y-half, x-half+side, y-half+side)
	return &Region{
		Contour: []image.Point{
			bounds.Min,
			{X: bounds.Min.X, Y: bounds.Max.Y - 1},
			{X: bounds.Max.X - 1, Y: bounds.Max.Y - 1},
			{X: bounds.Max.X - 1, Y: bounds.Min.Y},
		},
		Area:      float64((side - 1) * (side - 1)),
		Perimeter: float64(4 * (side - 1)),
		Bounds:    bounds,
		Centroid:  BoxCenter(bounds),
	}
}
