// Package tray provides the macOS menu bar interface for ShortSwipe.
package tray

import (
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/getlantern/systray"
)

// Switch is the recognition on/off state the tray controls.
type Switch interface {
	IsEnabled() bool
	SetEnabled(enabled bool)
}

// Tray represents the menu bar application.
type Tray struct {
	app          Switch
	dashboardURL string
	onQuit       func()
	openURL      func(url string) error
	mu           sync.RWMutex

	// Menu items stored for later updates
	menuToggle     *systray.MenuItem
	menuLastAction *systray.MenuItem
}

// New creates a Tray that toggles app and links to dashboardURL. An empty
// URL hides the dashboard item.
func New(app Switch, dashboardURL string) *Tray {
	return &Tray{
		app:          app,
		dashboardURL: dashboardURL,
		openURL:      openBrowser,
	}
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray. It must be called from the main goroutine and
// blocks until Quit is called or the user picks Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit closes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("ShortSwipe")
	systray.SetTooltip("ShortSwipe hand gesture control")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.app.IsEnabled()), "Toggle gesture recognition")
	systray.AddSeparator()
	t.menuLastAction = systray.AddMenuItem(lastActionTitle("", time.Time{}), "Last action sent")
	t.menuLastAction.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	dashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in the browser")
	if t.dashboardURL == "" {
		dashboard.Hide()
	}
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit ShortSwipe")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-dashboard.ClickedCh:
				if err := t.openURL(t.dashboardURL); err != nil {
					log.Printf("Failed to open dashboard: %v", err)
				}
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// handleToggle flips recognition and updates the menu.
func (t *Tray) handleToggle() {
	enabled := !t.app.IsEnabled()
	t.app.SetEnabled(enabled)
	t.Refresh()
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// Refresh updates the toggle item from the app's state, which the
// dashboard may also have changed.
func (t *Tray) Refresh() {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(t.app.IsEnabled()))
	}
}

// SetLastAction shows the most recent action in the menu.
func (t *Tray) SetLastAction(action string, at time.Time) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.menuLastAction != nil {
		t.menuLastAction.SetTitle(lastActionTitle(action, at))
	}
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func lastActionTitle(action string, at time.Time) string {
	if action == "" {
		return "Last: none"
	}
	return fmt.Sprintf("Last: %s at %s", action, at.Format("15:04:05"))
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
