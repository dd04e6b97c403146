package detector

import (
	"image"

	"gocv.io/x/gocv"
)

// SkinDetector implements Detector with an HSV colour threshold followed by
// contour extraction.
type SkinDetector struct {
	config Config
	kernel gocv.Mat
}

// NewSkinDetector creates a SkinDetector. Non-positive kernel sizes fall
// back to the default.
func NewSkinDetector(config Config) *SkinDetector {
	if config.KernelSize <= 0 {
		config.KernelSize = DefaultConfig().KernelSize
	}
	if config.DilateIterations < 0 {
		config.DilateIterations = 0
	}

	return &SkinDetector{
		config: config,
		kernel: gocv.GetStructuringElement(gocv.MorphRect, image.Pt(config.KernelSize, config.KernelSize)),
	}
}

// Config returns the detector configuration.
func (d *SkinDetector) Config() Config {
	return d.config
}

// Detect segments the frame and returns the dominant hand region.
func (d *SkinDetector) Detect(frame *gocv.Mat) (*Region, error) {
	if frame == nil || frame.Empty() {
		return nil, nil
	}

	mask := d.Segment(frame)
	defer mask.Close()

	return d.Locate(mask), nil
}

// Segment converts a BGR frame into a binary skin mask of the same size.
// The caller is responsible for closing the returned Mat.
//
// Steps:
// 1. Convert BGR to HSV
// 2. Keep pixels inside [SkinLower, SkinUpper]
// 3. Close (dilate then erode) to fill small holes
// 4. Open (erode then dilate) to drop isolated specks
// 5. Dilate so thin fingers survive
func (d *SkinDetector) Segment(frame *gocv.Mat) gocv.Mat {
	mask := gocv.NewMat()
	if frame == nil || frame.Empty() {
		return mask
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(*frame, &hsv, gocv.ColorBGRToHSV)

	lower := gocv.NewScalar(d.config.SkinLower.H, d.config.SkinLower.S, d.config.SkinLower.V, 0)
	upper := gocv.NewScalar(d.config.SkinUpper.H, d.config.SkinUpper.S, d.config.SkinUpper.V, 0)
	gocv.InRangeWithScalar(hsv, lower, upper, &mask)

	gocv.MorphologyEx(mask, &mask, gocv.MorphClose, d.kernel)
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, d.kernel)

	for i := 0; i < d.config.DilateIterations; i++ {
		gocv.Dilate(mask, &mask, d.kernel)
	}

	return mask
}

// Locate finds the largest external contour in the mask. It returns nil
// when the mask has no contour or the largest one is below MinArea.
// Equal areas keep the first contour found.
func (d *SkinDetector) Locate(mask gocv.Mat) *Region {
	if mask.Empty() {
		return nil
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return nil
	}

	best := -1
	bestArea := 0.0
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if best < 0 || area > bestArea {
			best = i
			bestArea = area
		}
	}

	if bestArea < d.config.MinArea {
		return nil
	}

	contour := contours.At(best)
	bounds := gocv.BoundingRect(contour)

	return &Region{
		Contour:   contour.ToPoints(),
		Area:      bestArea,
		Perimeter: gocv.ArcLength(contour, true),
		Bounds:    bounds,
		Centroid:  BoxCenter(bounds),
	}
}

// Close releases the structuring element.
func (d *SkinDetector) Close() error {
	return d.kernel.Close()
}

// BoxCenter returns the centre of r using integer halving.
func BoxCenter(r image.Rectangle) image.Point {
	return image.Pt(r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2)
}
