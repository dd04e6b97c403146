// Package overlay annotates frames with recognition results and shows them
// in a desktop window.
package overlay

import (
	"image"
	"image/color"

	"github.com/ayusman/shortswipe/internal/gesture"
	"gocv.io/x/gocv"
)

var (
	green = color.RGBA{0, 255, 0, 0}
	red   = color.RGBA{255, 0, 0, 0}
	white = color.RGBA{255, 255, 255, 0}
)

// Instructions are printed along the bottom of every annotated frame.
var Instructions = []string{
	"Move hand up: next item",
	"Move hand down: previous item",
	"Open palm: play/pause",
	"Press 'q' to quit",
}

// Draw annotates frame in place with the hand boundary, its centre, the
// gesture label and the instruction lines.
func Draw(frame *gocv.Mat, res gesture.Result) {
	if frame == nil || frame.Empty() {
		return
	}

	if r := res.Region; r != nil {
		if len(r.Contour) > 0 {
			pv := gocv.NewPointsVectorFromPoints([][]image.Point{r.Contour})
			gocv.DrawContours(frame, pv, -1, green, 2)
			pv.Close()
		}
		gocv.Circle(frame, r.Centroid, 5, red, -1)
		drawOutcome(frame, res.Outcome, r.Centroid)
	}

	h := frame.Rows()
	for i, line := range Instructions {
		gocv.PutText(frame, line, image.Pt(10, h-80+i*25),
			gocv.FontHersheySimplex, 0.6, white, 2)
	}
}

func drawOutcome(frame *gocv.Mat, o gesture.Outcome, c image.Point) {
	label := o.Label()
	if label == "" {
		return
	}

	gocv.PutText(frame, label, image.Pt(c.X-50, c.Y-30),
		gocv.FontHersheySimplex, 0.7, green, 2)

	switch o {
	case gesture.OutcomeSwipeUp:
		gocv.ArrowedLine(frame, image.Pt(c.X, c.Y+20), image.Pt(c.X, c.Y-20), green, 3)
	case gesture.OutcomeSwipeDown:
		gocv.ArrowedLine(frame, image.Pt(c.X, c.Y-20), image.Pt(c.X, c.Y+20), green, 3)
	case gesture.OutcomePalmOpen:
		gocv.Circle(frame, c, 25, green, 2)
	}
}

// Window displays annotated frames and, optionally, the skin mask.
type Window struct {
	frames *gocv.Window
	mask   *gocv.Window
}

// NewWindow opens the display window. When withMask is set a second window
// shows the segmentation mask.
func NewWindow(title string, withMask bool) *Window {
	w := &Window{frames: gocv.NewWindow(title)}
	if withMask {
		w.mask = gocv.NewWindow(title + " - mask")
	}
	return w
}

// Stop keys.
const (
	KeyQuit = 'q'
	KeyEsc  = 27
)

// Show displays frame and polls the keyboard. It returns true when the user
// asked to stop.
func (w *Window) Show(frame gocv.Mat) bool {
	w.frames.IMShow(frame)
	return IsStopKey(w.frames.WaitKey(1))
}

// ShowMask displays the segmentation mask if a mask window was requested.
func (w *Window) ShowMask(mask gocv.Mat) {
	if w.mask == nil || mask.Empty() {
		return
	}
	w.mask.IMShow(mask)
}

// IsStopKey reports whether a WaitKey result is a stop key.
func IsStopKey(key int) bool {
	if key < 0 {
		return false
	}
	key &= 0xFF
	return key == KeyQuit || key == KeyEsc
}

// Close destroys the windows.
func (w *Window) Close() error {
	if w.mask != nil {
		w.mask.Close()
	}
	return w.frames.Close()
}
