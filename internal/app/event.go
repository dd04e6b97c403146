package app

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ayusman/shortswipe/internal/gesture"
	"github.com/ayusman/shortswipe/internal/store"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"gocv.io/x/gocv"
)

// SnapshotWidth is the width of event thumbnails in pixels.
const SnapshotWidth = 240

// Event describes one dispatched action.
type Event struct {
	ID      string    `json:"id"`
	Action  string    `json:"action"`
	Outcome string    `json:"outcome"`
	X       int       `json:"x"`
	Y       int       `json:"y"`
	Area    float64   `json:"area"`
	Error   string    `json:"error,omitempty"`
	Time    time.Time `json:"time"`
	// Snapshot is a JPEG thumbnail; it travels through the store, not JSON.
	Snapshot []byte `json:"-"`
}

func newEvent(res gesture.Result, now time.Time, sinkErr error) Event {
	e := Event{
		ID:      uuid.New().String(),
		Action:  res.Action.String(),
		Outcome: res.Outcome.String(),
		Time:    now,
	}
	if r := res.Region; r != nil {
		e.X, e.Y = r.Centroid.X, r.Centroid.Y
		e.Area = r.Area
	}
	if sinkErr != nil {
		e.Error = sinkErr.Error()
	}
	return e
}

func (e Event) toStore() *store.Event {
	return &store.Event{
		ID:        e.ID,
		Action:    e.Action,
		Outcome:   e.Outcome,
		X:         e.X,
		Y:         e.Y,
		Area:      e.Area,
		Snapshot:  e.Snapshot,
		SinkError: e.Error,
		CreatedAt: e.Time,
	}
}

// Snapshot encodes frame as a JPEG thumbnail width pixels wide.
func Snapshot(frame *gocv.Mat, width int) ([]byte, error) {
	if frame == nil || frame.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	img, err := frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}

	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}
