// Package capture provides camera capture functionality using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultFPS    = 30
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrEndOfStream is returned when the source has no more frames.
	ErrEndOfStream = errors.New("end of stream")
)

// Camera defines the interface for frame sources.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// Options configures a capture device.
type Options struct {
	DeviceID int
	// File, when set, plays back a video file instead of a device.
	File   string
	Width  int
	Height int
	FPS    int
	// Mirror flips frames horizontally so on-screen motion matches the user's.
	Mirror bool
}

// cameraImpl manages video capture from a camera device or file using GoCV.
type cameraImpl struct {
	opts    Options
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
}

// NewCamera creates a Camera for the given options.
func NewCamera(opts Options) Camera {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	return &cameraImpl{opts: opts}
}

// Open opens the device or file for capturing frames.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	var (
		capture *gocv.VideoCapture
		err     error
	)
	if c.opts.File != "" {
		capture, err = gocv.VideoCaptureFile(c.opts.File)
	} else {
		capture, err = gocv.OpenVideoCapture(c.opts.DeviceID)
	}
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}

	if c.opts.File == "" {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(c.opts.Width))
		capture.Set(gocv.VideoCaptureFrameHeight, float64(c.opts.Height))
		capture.Set(gocv.VideoCaptureFPS, float64(c.opts.FPS))
	}

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the camera and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame, mirrored when configured.
// The caller is responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, ErrEndOfStream
	}

	if c.opts.Mirror {
		Mirror(&mat)
	}

	return &mat, nil
}

// SetFPS sets the frames per second for capture.
// Values less than or equal to 0 are ignored.
func (c *cameraImpl) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.opts.FPS = fps

	if c.capture != nil && c.opts.File == "" {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current frames per second setting.
func (c *cameraImpl) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.opts.FPS
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

// Mirror flips a frame horizontally in place.
func Mirror(frame *gocv.Mat) {
	flipped := gocv.NewMat()
	defer flipped.Close()
	gocv.Flip(*frame, &flipped, 1)
	flipped.CopyTo(frame)
}
