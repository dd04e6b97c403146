package gesture

import (
	"image"
	"math"
	"testing"
	"time"

	"github.com/ayusman/shortswipe/internal/detector"
	"gocv.io/x/gocv"
)

func TestActionFor(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    Action
	}{
		{OutcomeNone, ActionNone},
		{OutcomeSwipeUp, ActionNextItem},
		{OutcomeSwipeDown, ActionPreviousItem},
		{OutcomePalmOpen, ActionTogglePlayback},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			if got := ActionFor(tt.outcome); got != tt.want {
				t.Errorf("ActionFor(%v) = %v, want %v", tt.outcome, got, tt.want)
			}
		})
	}
}

func TestParseAction(t *testing.T) {
	for _, a := range []Action{ActionNone, ActionNextItem, ActionPreviousItem, ActionTogglePlayback} {
		got, err := ParseAction(a.String())
		if err != nil {
			t.Fatalf("ParseAction(%q) error = %v", a.String(), err)
		}
		if got != a {
			t.Errorf("ParseAction(%q) = %v, want %v", a.String(), got, a)
		}
	}

	if _, err := ParseAction("jump"); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestCircularity(t *testing.T) {
	r := 10.0
	if c := Circularity(math.Pi*r*r, 2*math.Pi*r); math.Abs(c-1) > 1e-9 {
		t.Errorf("circle circularity = %f, want 1", c)
	}
	if c := Circularity(800, 183); c > 0.31 || c < 0.29 {
		t.Errorf("circularity = %f, want about 0.3", c)
	}
	if c := Circularity(100, 0); c != 0 {
		t.Errorf("zero perimeter circularity = %f, want 0", c)
	}
}

func TestCropWindow(t *testing.T) {
	bounds := image.Rect(0, 0, 640, 480)

	tests := []struct {
		name   string
		center image.Point
		want   image.Rectangle
	}{
		{"inside", image.Pt(320, 240), image.Rect(270, 190, 370, 290)},
		{"clamped top left", image.Pt(10, 20), image.Rect(0, 0, 60, 70)},
		{"clamped bottom right", image.Pt(630, 470), image.Rect(580, 420, 640, 480)},
		{"outside", image.Pt(-100, -100), image.Rectangle{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CropWindow(tt.center, 100, bounds)
			if got != tt.want && !(got.Empty() && tt.want.Empty()) {
				t.Errorf("CropWindow(%v) = %v, want %v", tt.center, got, tt.want)
			}
		})
	}
}

func TestMotionClassifier(t *testing.T) {
	m := NewMotionClassifier(50)
	pt := func(x, y int) *image.Point { p := image.Pt(x, y); return &p }

	tests := []struct {
		name string
		prev *image.Point
		cur  image.Point
		want Motion
	}{
		{"no previous position", nil, image.Pt(100, 0), MotionNone},
		{"hand moved up", pt(100, 300), image.Pt(100, 230), MotionUp},
		{"hand moved down", pt(100, 230), image.Pt(100, 300), MotionDown},
		{"exactly threshold is not a swipe", pt(100, 300), image.Pt(100, 250), MotionNone},
		{"small jitter", pt(100, 300), image.Pt(130, 290), MotionNone},
		{"horizontal only", pt(0, 300), image.Pt(300, 300), MotionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Classify(tt.prev, tt.cur); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

type fixedShape Shape

func (f fixedShape) Classify(*gocv.Mat, *detector.Region) Shape { return Shape(f) }

func TestArbiter(t *testing.T) {
	prev := image.Pt(100, 300)
	up := detector.RegionAt(100, 230, 80)
	down := detector.RegionAt(100, 370, 80)
	still := detector.RegionAt(100, 300, 80)

	tests := []struct {
		name   string
		shape  Shape
		prev   *image.Point
		region *detector.Region
		want   Outcome
	}{
		{"no region", ShapeOpen, &prev, nil, OutcomeNone},
		{"open palm still", ShapeOpen, &prev, still, OutcomePalmOpen},
		{"open palm moving up is still palm", ShapeOpen, &prev, up, OutcomePalmOpen},
		{"open palm moving down is still palm", ShapeOpen, &prev, down, OutcomePalmOpen},
		{"closed moving up", ShapeClosed, &prev, up, OutcomeSwipeUp},
		{"closed moving down", ShapeClosed, &prev, down, OutcomeSwipeDown},
		{"closed still is fist", ShapeClosed, &prev, still, OutcomeNone},
		{"closed without previous", ShapeClosed, nil, up, OutcomeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArbiter(fixedShape(tt.shape), NewMotionClassifier(50))
			if got := a.Arbitrate(nil, tt.prev, tt.region); got != tt.want {
				t.Errorf("Arbitrate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDispatcher_FirstActionFires(t *testing.T) {
	d := NewDispatcher(20, 1500*time.Millisecond)
	now := time.Now()

	action, s := d.Dispatch(OutcomeSwipeUp, Session{}, now)

	if action != ActionNextItem {
		t.Errorf("action = %v, want %v", action, ActionNextItem)
	}
	if s.Suppression != 20 {
		t.Errorf("Suppression = %d, want 20", s.Suppression)
	}
	if !s.LastAction.Equal(now) {
		t.Errorf("LastAction = %v, want %v", s.LastAction, now)
	}
}

func TestDispatcher_NoneNeverFires(t *testing.T) {
	d := NewDispatcher(20, 0)
	action, s := d.Dispatch(OutcomeNone, Session{}, time.Now())

	if action != ActionNone {
		t.Errorf("action = %v, want none", action)
	}
	if s.Suppression != 0 {
		t.Errorf("Suppression = %d, want 0", s.Suppression)
	}
}

func TestDispatcher_SuppressesEpisode(t *testing.T) {
	d := NewDispatcher(20, 0)
	start := time.Now()

	action, s := d.Dispatch(OutcomePalmOpen, Session{}, start)
	if action != ActionTogglePlayback {
		t.Fatalf("first action = %v, want %v", action, ActionTogglePlayback)
	}

	// Palm stays open; the cooldown is zero so only the counter holds it back.
	for i := 1; i <= 20; i++ {
		action, s = d.Dispatch(OutcomePalmOpen, s, start.Add(time.Duration(i)*time.Second))
		if action != ActionNone {
			t.Fatalf("cycle %d: action = %v while suppressed", i, action)
		}
	}
	if s.Suppression != 0 {
		t.Errorf("Suppression = %d after window, want 0", s.Suppression)
	}

	action, _ = d.Dispatch(OutcomePalmOpen, s, start.Add(21*time.Second))
	if action != ActionTogglePlayback {
		t.Errorf("action after window = %v, want %v", action, ActionTogglePlayback)
	}
}

func TestDispatcher_Cooldown(t *testing.T) {
	d := NewDispatcher(0, 1500*time.Millisecond)
	start := time.Now()

	action, s := d.Dispatch(OutcomeSwipeUp, Session{}, start)
	if action != ActionNextItem {
		t.Fatalf("first action = %v, want %v", action, ActionNextItem)
	}

	action, s = d.Dispatch(OutcomeSwipeUp, s, start.Add(500*time.Millisecond))
	if action != ActionNone {
		t.Errorf("second swipe 0.5s later fired %v", action)
	}

	action, s = d.Dispatch(OutcomeSwipeUp, s, start.Add(1500*time.Millisecond))
	if action != ActionNone {
		t.Errorf("swipe exactly at cooldown fired %v", action)
	}

	action, _ = d.Dispatch(OutcomeSwipeDown, s, start.Add(1600*time.Millisecond))
	if action != ActionPreviousItem {
		t.Errorf("swipe after cooldown = %v, want %v", action, ActionPreviousItem)
	}
}

func TestDispatcher_SustainedPalmTimeline(t *testing.T) {
	d := NewDispatcher(20, 1500*time.Millisecond)
	start := time.Now()
	frame := time.Second / 30

	var s Session
	var fired []int
	for i := 0; i < 100; i++ {
		var action Action
		action, s = d.Dispatch(OutcomePalmOpen, s, start.Add(time.Duration(i)*frame))
		if action != ActionNone {
			fired = append(fired, i)
		}
	}

	// Cycles 21 and 42 arrive inside the cooldown; each re-arms the counter
	// without firing, so the next action waits until cycle 63.
	want := []int{0, 63}
	if len(fired) != len(want) {
		t.Fatalf("fired at cycles %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("fired at cycles %v, want %v", fired, want)
			break
		}
	}
}

func TestDispatcher_RearmsDuringCooldown(t *testing.T) {
	d := NewDispatcher(20, 1500*time.Millisecond)
	start := time.Now()
	s := Session{LastAction: start}

	action, s := d.Dispatch(OutcomeSwipeUp, s, start.Add(time.Second))
	if action != ActionNone {
		t.Fatalf("action = %v inside cooldown", action)
	}
	if s.Suppression != 20 {
		t.Errorf("Suppression = %d, want 20", s.Suppression)
	}
	if !s.LastAction.Equal(start) {
		t.Errorf("LastAction moved to %v without an action", s.LastAction)
	}
}

func TestDispatcher_NeverTwiceWithinCooldown(t *testing.T) {
	d := NewDispatcher(3, time.Second)
	start := time.Now()
	outcomes := []Outcome{OutcomeSwipeUp, OutcomePalmOpen, OutcomeSwipeDown, OutcomeNone}

	var s Session
	var fired []time.Time
	for i := 0; i < 200; i++ {
		now := start.Add(time.Duration(i) * 33 * time.Millisecond)
		var action Action
		action, s = d.Dispatch(outcomes[i%len(outcomes)], s, now)
		if action != ActionNone {
			fired = append(fired, now)
		}
		if s.Suppression < 0 {
			t.Fatalf("cycle %d: negative suppression %d", i, s.Suppression)
		}
	}

	if len(fired) < 2 {
		t.Fatalf("expected several actions over 6.6s, got %d", len(fired))
	}
	for i := 1; i < len(fired); i++ {
		if gap := fired[i].Sub(fired[i-1]); gap <= time.Second {
			t.Errorf("actions %d and %d only %v apart", i-1, i, gap)
		}
	}
}
