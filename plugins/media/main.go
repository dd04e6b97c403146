// Package main provides a media control plugin for macOS.
// It maps ShortSwipe actions to the media keys, or to a player's own
// AppleScript commands when one is configured.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	Config  json.RawMessage `json:"config"`
	Params  json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Config selects a player such as "Music" or "Spotify".
type Config struct {
	Player string `json:"player"`
}

type command struct {
	keyCode int    // media key code
	verb    string // player AppleScript command
}

var commands = map[string]command{
	"next-item":       {keyCode: 101, verb: "next track"},
	"previous-item":   {keyCode: 98, verb: "previous track"},
	"toggle-playback": {keyCode: 100, verb: "playpause"},
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	cmd, ok := commands[req.Action]
	if !ok {
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	var cfg Config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("invalid config: %v", err))
			return
		}
	}

	if err := runAppleScript(buildScript(cmd, cfg.Player)); err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}

	writeSuccessResponse()
}

func buildScript(cmd command, player string) string {
	if player != "" {
		return fmt.Sprintf(`tell application %q to %s`, player, cmd.verb)
	}
	return fmt.Sprintf(`tell application "System Events"
	key code %d
end tell`, cmd.keyCode)
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
