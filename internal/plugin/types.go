// Package plugin discovers and runs external action plugins. A plugin is a
// directory holding a plugin.json manifest and an executable that reads one
// JSON Request on stdin and writes one JSON Response on stdout.
package plugin

import "encoding/json"

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Request represents a request sent to a plugin for execution.
type Request struct {
	// Action is the action wire name, e.g. "next-item".
	Action string `json:"action"`
	// Gesture is the outcome that produced the action, e.g. "swipe-up".
	Gesture string          `json:"gesture"`
	Config  json.RawMessage `json:"config,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents the response from a plugin execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Supports reports whether the manifest lists the action.
func (p *Plugin) Supports(action string) bool {
	for _, a := range p.Manifest.Actions {
		if a == action {
			return true
		}
	}
	return false
}
