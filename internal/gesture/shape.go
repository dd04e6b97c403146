package gesture

import (
	"image"
	"math"

	"github.com/ayusman/shortswipe/internal/detector"
	"gocv.io/x/gocv"
)

// Shape is the hand shape inside the analysis window.
type Shape int

const (
	ShapeClosed Shape = iota
	ShapeOpen
)

// String returns the name of the shape.
func (s Shape) String() string {
	if s == ShapeOpen {
		return "open"
	}
	return "closed"
}

// ShapeClassifier decides whether the hand in a region is open or closed.
type ShapeClassifier interface {
	Classify(frame *gocv.Mat, region *detector.Region) Shape
}

// ContourShapeClassifier classifies by the circularity of the largest bright
// contour around the region centroid. A compact fist is close to a circle;
// spread fingers give a long perimeter for their area.
type ContourShapeClassifier struct {
	windowSize      int
	binaryThreshold float64
	maxCircularity  float64
	minArea         float64
}

// NewContourShapeClassifier creates a classifier from the gesture config.
func NewContourShapeClassifier(config Config) *ContourShapeClassifier {
	return &ContourShapeClassifier{
		windowSize:      config.WindowSize,
		binaryThreshold: config.BinaryThreshold,
		maxCircularity:  config.PalmCircularity,
		minArea:         config.PalmMinArea,
	}
}

// Classify returns ShapeOpen when the largest contour in the window has
// circularity below the threshold and area above the floor. Any missing
// input (nil region, empty crop, no contour, zero perimeter) is ShapeClosed.
func (c *ContourShapeClassifier) Classify(frame *gocv.Mat, region *detector.Region) Shape {
	if frame == nil || frame.Empty() || region == nil {
		return ShapeClosed
	}

	window := CropWindow(region.Centroid, c.windowSize, image.Rect(0, 0, frame.Cols(), frame.Rows()))
	if window.Empty() {
		return ShapeClosed
	}

	roi := frame.Region(window)
	defer roi.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	if roi.Channels() > 1 {
		gocv.CvtColor(roi, &gray, gocv.ColorBGRToGray)
	} else {
		roi.CopyTo(&gray)
	}

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, float32(c.binaryThreshold), 255, gocv.ThresholdBinary)

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return ShapeClosed
	}

	best := 0
	bestArea := gocv.ContourArea(contours.At(0))
	for i := 1; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > bestArea {
			best = i
			bestArea = area
		}
	}

	perimeter := gocv.ArcLength(contours.At(best), true)
	if perimeter == 0 {
		return ShapeClosed
	}

	if Circularity(bestArea, perimeter) < c.maxCircularity && bestArea > c.minArea {
		return ShapeOpen
	}
	return ShapeClosed
}

// Circularity returns 4π·area/perimeter², 1.0 for a perfect circle.
// A zero perimeter yields 0.
func Circularity(area, perimeter float64) float64 {
	if perimeter == 0 {
		return 0
	}
	return 4 * math.Pi * area / (perimeter * perimeter)
}

// CropWindow returns the size×size square centred on c, clipped to bounds.
func CropWindow(c image.Point, size int, bounds image.Rectangle) image.Rectangle {
	half := size / 2
	return image.Rect(c.X-half, c.Y-half, c.X+half, c.Y+half).Intersect(bounds)
}
