// Package action performs dispatched gesture actions on the host.
package action

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ayusman/shortswipe/internal/gesture"
	"github.com/ayusman/shortswipe/internal/plugin"
	"github.com/go-vgo/robotgo"
)

// ErrUnmapped is returned when a sink has nothing bound to an action.
var ErrUnmapped = errors.New("action not mapped")

// Sink performs one action. Implementations must not block for long; the
// run loop calls Perform synchronously.
type Sink interface {
	Perform(ctx context.Context, a gesture.Action) error
}

// Kind names a sink implementation in configuration.
const (
	KindKeys   = "keys"
	KindPlugin = "plugin"
	KindLog    = "log"
)

// DefaultKeys maps actions to robotgo key names.
func DefaultKeys() map[gesture.Action]string {
	return map[gesture.Action]string{
		gesture.ActionNextItem:       "down",
		gesture.ActionPreviousItem:   "up",
		gesture.ActionTogglePlayback: "space",
	}
}

// ParseKeys reads overrides such as "next-item=j,previous-item=k" on top of
// DefaultKeys.
func ParseKeys(s string) (map[gesture.Action]string, error) {
	keys := DefaultKeys()
	if strings.TrimSpace(s) == "" {
		return keys, nil
	}

	for _, pair := range strings.Split(s, ",") {
		name, key, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid key binding %q", pair)
		}
		a, err := gesture.ParseAction(name)
		if err != nil {
			return nil, err
		}
		if a == gesture.ActionNone {
			return nil, fmt.Errorf("cannot bind key to %q", name)
		}
		keys[a] = key
	}
	return keys, nil
}

// KeySink taps a keyboard key for each action.
type KeySink struct {
	keys map[gesture.Action]string
	tap  func(key string) error
}

// NewKeySink creates a KeySink that sends keystrokes to the focused window.
func NewKeySink(keys map[gesture.Action]string) *KeySink {
	return newKeySink(keys, func(key string) error {
		return robotgo.KeyTap(key)
	})
}

func newKeySink(keys map[gesture.Action]string, tap func(string) error) *KeySink {
	if keys == nil {
		keys = DefaultKeys()
	}
	return &KeySink{keys: keys, tap: tap}
}

// Perform taps the key bound to a.
func (s *KeySink) Perform(_ context.Context, a gesture.Action) error {
	key, ok := s.keys[a]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnmapped, a)
	}
	if err := s.tap(key); err != nil {
		return fmt.Errorf("tap %s: %w", key, err)
	}
	return nil
}

// PluginSink hands each action to an external plugin.
type PluginSink struct {
	manager   *plugin.Manager
	executor  *plugin.Executor
	preferred string
}

// NewPluginSink creates a PluginSink. When preferred is empty, any plugin
// that lists the action is used.
func NewPluginSink(manager *plugin.Manager, executor *plugin.Executor, preferred string) *PluginSink {
	return &PluginSink{
		manager:   manager,
		executor:  executor,
		preferred: preferred,
	}
}

// Perform runs the plugin for a. A response without success is an error.
func (s *PluginSink) Perform(ctx context.Context, a gesture.Action) error {
	if a == gesture.ActionNone {
		return fmt.Errorf("%w: %s", ErrUnmapped, a)
	}

	p, err := s.manager.FindFor(a.String(), s.preferred)
	if err != nil {
		return err
	}

	resp, err := s.executor.Execute(ctx, p, &plugin.Request{
		Action:  a.String(),
		Gesture: outcomeFor(a).String(),
	})
	if err != nil {
		return fmt.Errorf("plugin %s: %w", p.Manifest.Name, err)
	}
	if !resp.Success {
		return fmt.Errorf("plugin %s: %s", p.Manifest.Name, resp.Error)
	}
	return nil
}

func outcomeFor(a gesture.Action) gesture.Outcome {
	switch a {
	case gesture.ActionNextItem:
		return gesture.OutcomeSwipeUp
	case gesture.ActionPreviousItem:
		return gesture.OutcomeSwipeDown
	case gesture.ActionTogglePlayback:
		return gesture.OutcomePalmOpen
	}
	return gesture.OutcomeNone
}

// LogSink only logs actions.
type LogSink struct{}

func (LogSink) Perform(_ context.Context, a gesture.Action) error {
	log.Printf("Action: %s", a)
	return nil
}

// Options selects and configures a sink.
type Options struct {
	Kind      string
	Keys      string
	PluginDir string
	Plugin    string
	Executor  *plugin.Executor
}

// New builds the sink named by opts.Kind.
func New(opts Options) (Sink, error) {
	switch opts.Kind {
	case KindKeys, "":
		keys, err := ParseKeys(opts.Keys)
		if err != nil {
			return nil, err
		}
		return NewKeySink(keys), nil

	case KindPlugin:
		mgr := plugin.NewManager(opts.PluginDir)
		if err := mgr.Discover(); err != nil {
			return nil, fmt.Errorf("discover plugins: %w", err)
		}
		log.Printf("Discovered %d plugins in %s", len(mgr.List()), opts.PluginDir)
		exec := opts.Executor
		if exec == nil {
			exec = plugin.NewExecutor(plugin.DefaultTimeout)
		}
		return NewPluginSink(mgr, exec, opts.Plugin), nil

	case KindLog:
		return LogSink{}, nil
	}
	return nil, fmt.Errorf("unknown sink %q", opts.Kind)
}
