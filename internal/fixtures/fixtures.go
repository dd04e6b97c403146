// Package fixtures builds synthetic camera frames for pipeline tests.
package fixtures

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Frame dimensions used by the fixtures.
const (
	Width  = 640
	Height = 480
)

// Skin is a BGR colour inside the default skin range (HSV ~ 10,153,200)
// whose grayscale value is above the default binary threshold.
var Skin = color.RGBA{R: 200, G: 120, B: 80, A: 0}

// Blank returns a black frame.
func Blank() *gocv.Mat {
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), Height, Width, gocv.MatTypeCV8UC3)
	return &mat
}

// Fist returns a frame containing a filled skin-coloured disc centred on c.
// Its circularity is close to 1.
func Fist(c image.Point) *gocv.Mat {
	frame := Blank()
	gocv.Circle(frame, c, 42, Skin, -1)
	return frame
}

// Palm returns a frame containing a comb-shaped skin blob: a 90x50 palm
// with four 10x40 fingers on top. The blob's bounding box is 90x90 and
// centred on c. Its circularity is about 0.2.
func Palm(c image.Point) *gocv.Mat {
	frame := Blank()

	top := c.Y - 45
	left := c.X - 45
	gocv.Rectangle(frame, image.Rect(left, top+40, left+90, top+90), Skin, -1)
	for i := 0; i < 4; i++ {
		x := left + 5 + i*23
		gocv.Rectangle(frame, image.Rect(x, top, x+10, top+40), Skin, -1)
	}
	return frame
}

// Speck returns a frame containing a small skin square of the given side,
// too small to pass the default minimum area.
func Speck(c image.Point, side int) *gocv.Mat {
	frame := Blank()
	half := side / 2
	gocv.Rectangle(frame, image.Rect(c.X-half, c.Y-half, c.X-half+side, c.Y-half+side), Skin, -1)
	return frame
}

// Mask returns a single-channel mask with a filled white rectangle.
func Mask(r image.Rectangle) gocv.Mat {
	mask := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), Height, Width, gocv.MatTypeCV8U)
	gocv.Rectangle(&mask, r, color.RGBA{R: 255, G: 255, B: 255, A: 0}, -1)
	return mask
}

// CloseAll releases every frame.
func CloseAll(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
