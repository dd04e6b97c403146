// Package gesture turns located hand regions into debounced actions.
//
// A cycle runs Arbiter (shape first, then motion) and then Dispatcher,
// threading a Session value from one frame to the next.
package gesture

import (
	"fmt"
	"time"
)

// Outcome is the per-frame gesture classification.
type Outcome int

const (
	// OutcomeNone means no gesture this frame. A closed, still hand (fist)
	// also yields OutcomeNone.
	OutcomeNone Outcome = iota
	OutcomeSwipeUp
	OutcomeSwipeDown
	OutcomePalmOpen
)

// String returns the wire name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeSwipeUp:
		return "swipe-up"
	case OutcomeSwipeDown:
		return "swipe-down"
	case OutcomePalmOpen:
		return "palm-open"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Label returns the on-screen label for the outcome.
func (o Outcome) Label() string {
	switch o {
	case OutcomeSwipeUp:
		return "SWIPE UP"
	case OutcomeSwipeDown:
		return "SWIPE DOWN"
	case OutcomePalmOpen:
		return "PALM OPEN"
	}
	return ""
}

// Action identifies what the action sink should do.
type Action int

const (
	ActionNone Action = iota
	ActionNextItem
	ActionPreviousItem
	ActionTogglePlayback
)

// String returns the wire name of the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionNextItem:
		return "next-item"
	case ActionPreviousItem:
		return "previous-item"
	case ActionTogglePlayback:
		return "toggle-playback"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction parses a wire name produced by Action.String.
func ParseAction(s string) (Action, error) {
	switch s {
	case "none":
		return ActionNone, nil
	case "next-item":
		return ActionNextItem, nil
	case "previous-item":
		return ActionPreviousItem, nil
	case "toggle-playback":
		return ActionTogglePlayback, nil
	}
	return ActionNone, fmt.Errorf("unknown action %q", s)
}

// ActionFor maps an outcome to the action it triggers.
func ActionFor(o Outcome) Action {
	switch o {
	case OutcomeSwipeUp:
		return ActionNextItem
	case OutcomeSwipeDown:
		return ActionPreviousItem
	case OutcomePalmOpen:
		return ActionTogglePlayback
	case OutcomeNone:
		return ActionNone
	}
	return ActionNone
}

// Config holds the classification and debounce parameters.
type Config struct {
	// WindowSize is the side of the square crop used for shape analysis.
	WindowSize int
	// BinaryThreshold binarizes the grayscale crop.
	BinaryThreshold float64
	// PalmCircularity: shapes below it may be an open palm.
	PalmCircularity float64
	// PalmMinArea is the contour area an open palm must exceed.
	PalmMinArea float64
	// SwipeDelta is the vertical pixel displacement per frame for a swipe.
	SwipeDelta int
	// SuppressCycles is how many cycles are ignored after an action.
	SuppressCycles int
	// Cooldown is the minimum wall-clock time between two actions.
	Cooldown time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		WindowSize:      100,
		BinaryThreshold: 127,
		PalmCircularity: 0.5,
		PalmMinArea:     500,
		SwipeDelta:      50,
		SuppressCycles:  20,
		Cooldown:        1500 * time.Millisecond,
	}
}
