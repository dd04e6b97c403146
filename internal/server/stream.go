package server

import (
	"fmt"
	"net/http"
	"time"
)

// FrameSource provides annotated JPEG frames. Frames are only produced
// while at least one watcher holds a Watch.
type FrameSource interface {
	Watch() (release func())
	LatestJPEG() ([]byte, uint64)
}

// streamInterval caps the stream at roughly 15 FPS.
const streamInterval = 66 * time.Millisecond

// StreamHandler serves the annotated frames as MJPEG.
type StreamHandler struct {
	source   FrameSource
	interval time.Duration
}

// NewStreamHandler creates a new StreamHandler reading from source.
func NewStreamHandler(source FrameSource) *StreamHandler {
	return &StreamHandler{source: source, interval: streamInterval}
}

// ServeHTTP streams MJPEG frames until the client goes away.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	release := h.source.Watch()
	defer release()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var last uint64
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		data, seq := h.source.LatestJPEG()
		if len(data) == 0 || seq == last {
			continue
		}
		last = seq

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data))
		if _, err := w.Write(data); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
