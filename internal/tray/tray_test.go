package tray

import (
	"testing"
	"time"
)

type fakeSwitch struct{ enabled bool }

func (f *fakeSwitch) IsEnabled() bool   { return f.enabled }
func (f *fakeSwitch) SetEnabled(e bool) { f.enabled = e }

func TestTitles(t *testing.T) {
	if got := toggleTitle(true); got != "● Enabled" {
		t.Errorf("toggleTitle(true) = %q", got)
	}
	if got := toggleTitle(false); got != "○ Disabled" {
		t.Errorf("toggleTitle(false) = %q", got)
	}

	at := time.Date(2026, 3, 1, 9, 5, 7, 0, time.UTC)
	tests := []struct {
		action string
		want   string
	}{
		{"", "Last: none"},
		{"next-item", "Last: next-item at 09:05:07"},
	}
	for _, tt := range tests {
		if got := lastActionTitle(tt.action, at); got != tt.want {
			t.Errorf("lastActionTitle(%q) = %q, want %q", tt.action, got, tt.want)
		}
	}
}

// Menu items do not exist until Run; updates before then must be no-ops.
func TestTray_BeforeRun(t *testing.T) {
	sw := &fakeSwitch{enabled: true}
	tr := New(sw, "http://127.0.0.1:8080")

	tr.SetLastAction("toggle-playback", time.Now())
	tr.Refresh()

	tr.handleToggle()
	if sw.enabled {
		t.Error("handleToggle should disable recognition")
	}
	tr.handleToggle()
	if !sw.enabled {
		t.Error("handleToggle should re-enable recognition")
	}
}
