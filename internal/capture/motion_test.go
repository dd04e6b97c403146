package capture

import (
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func solidFrame(v float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, v, v, 0), 480, 640, gocv.MatTypeCV8UC3)
}

func TestNewActivityMonitor(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		want      float64
	}{
		{"explicit threshold", 5.0, 5.0},
		{"zero falls back", 0, 1.0},
		{"negative falls back", -2, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewActivityMonitor(tt.threshold, time.Second)
			defer m.Close()

			if m.threshold != tt.want {
				t.Errorf("threshold = %f, want %f", m.threshold, tt.want)
			}
			if m.initialized {
				t.Error("monitor should not be initialized initially")
			}
		})
	}
}

func TestActivityMonitor_Changed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	m := NewActivityMonitor(1.0, time.Second)
	defer m.Close()

	black := solidFrame(0)
	defer black.Close()
	white := solidFrame(255)
	defer white.Close()

	if got := m.Changed(&black); got != 0 {
		t.Errorf("first frame changed = %f, want 0", got)
	}
	if got := m.Changed(&black); got != 0 {
		t.Errorf("identical frame changed = %f, want 0", got)
	}
	if got := m.Changed(&white); got < 50 {
		t.Errorf("black to white changed = %f, want > 50", got)
	}
	if got := m.Changed(nil); got != 0 {
		t.Errorf("nil frame changed = %f, want 0", got)
	}
}

func TestActivityMonitor_Observe(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	m := NewActivityMonitor(1.0, 2*time.Second)
	defer m.Close()

	black := solidFrame(0)
	defer black.Close()
	white := solidFrame(255)
	defer white.Close()

	start := time.Now()

	if active, switched := m.Observe(&black, start); active || switched {
		t.Errorf("baseline frame: active=%v switched=%v", active, switched)
	}

	if active, switched := m.Observe(&white, start.Add(time.Second)); !active || !switched {
		t.Errorf("change: active=%v switched=%v, want true/true", active, switched)
	}

	if active, switched := m.Observe(&white, start.Add(2*time.Second)); !active || switched {
		t.Errorf("still within idle window: active=%v switched=%v", active, switched)
	}

	if active, switched := m.Observe(&white, start.Add(4*time.Second)); active || !switched {
		t.Errorf("after idle window: active=%v switched=%v, want false/true", active, switched)
	}
}

func TestActivityMonitor_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	m := NewActivityMonitor(1.0, time.Second)
	defer m.Close()

	frame := solidFrame(0)
	defer frame.Close()

	m.Changed(&frame)
	if !m.initialized {
		t.Error("monitor should be initialized after first frame")
	}

	m.Reset()
	if m.initialized || m.active {
		t.Error("monitor should be idle and uninitialized after Reset")
	}
}
