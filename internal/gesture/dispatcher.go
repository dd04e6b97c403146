package gesture

import (
	"image"
	"time"
)

// Session is the state carried from one cycle to the next.
type Session struct {
	// Previous is the hand position of the last cycle, nil if no hand.
	Previous *image.Point
	// LastAction is when the last action was emitted.
	LastAction time.Time
	// Suppression is the number of cycles still ignored, never negative.
	Suppression int
}

// Dispatcher debounces outcomes into actions using an episode counter and
// a wall-clock cooldown.
type Dispatcher struct {
	suppressCycles int
	cooldown       time.Duration
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(suppressCycles int, cooldown time.Duration) *Dispatcher {
	return &Dispatcher{
		suppressCycles: suppressCycles,
		cooldown:       cooldown,
	}
}

// Dispatch returns the action to emit for this cycle and the next session.
// A non-None outcome arriving once the suppression counter has run out
// re-arms the counter, whether or not it is emitted. It is emitted only when
// more than the cooldown has also passed since the last action, which
// resets the cooldown. Any other cycle counts the suppression counter down
// toward zero.
func (d *Dispatcher) Dispatch(outcome Outcome, s Session, now time.Time) (Action, Session) {
	action := ActionFor(outcome)

	if action == ActionNone || s.Suppression > 0 {
		if s.Suppression > 0 {
			s.Suppression--
		}
		return ActionNone, s
	}

	s.Suppression = d.suppressCycles
	if now.Sub(s.LastAction) <= d.cooldown {
		return ActionNone, s
	}
	s.LastAction = now
	return action, s
}
