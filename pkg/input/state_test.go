package input

import (
	"math"
	"sync"
	"testing"
	"time"
)

func TestNewState_Defaults(t *testing.T) {
	s := NewState()
	snap := s.Snapshot()

	if snap.Forward || snap.TurnLeft || snap.TurnRight || snap.Brake {
		t.Errorf("Expected all flags false, got %+v", snap)
	}
	if snap.PointerTargetAngle != math.Pi {
		t.Errorf("Expected pointer angle π, got %f", snap.PointerTargetAngle)
	}
}

func TestActionForKey(t *testing.T) {
	tests := []struct {
		key  string
		want Action
	}{
		{"w", ActionForward},
		{"W", ActionForward},
		{"ArrowUp", ActionForward},
		{"a", ActionTurnLeft},
		{"ArrowLeft", ActionTurnLeft},
		{"d", ActionTurnRight},
		{"ArrowRight", ActionTurnRight},
		{"s", ActionBrake},
		{"ArrowDown", ActionBrake},
		{"x", ActionNone},
		{"arrowup", ActionNone},
		{"", ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := ActionForKey(tt.key); got != tt.want {
				t.Errorf("ActionForKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestKeyDownUp(t *testing.T) {
	s := NewState()

	if !s.KeyDown("w") {
		t.Fatal("Expected w to be handled")
	}
	s.KeyDown("ArrowLeft")
	snap := s.Snapshot()
	if !snap.Forward || !snap.TurnLeft || snap.TurnRight {
		t.Errorf("Unexpected snapshot after presses: %+v", snap)
	}

	s.KeyUp("w")
	if s.Snapshot().Forward {
		t.Error("Expected forward released")
	}

	if s.KeyDown("q") {
		t.Error("Expected unbound key to be reported as not handled")
	}
}

func TestPointerMoved(t *testing.T) {
	tests := []struct {
		name  string
		x     float64
		width float64
		want  float64
	}{
		{name: "Centre", x: 400, width: 800, want: math.Pi},
		{name: "Left edge", x: 0, width: 800, want: math.Pi / 2},
		{name: "Right edge", x: 800, width: 800, want: 3 * math.Pi / 2},
		{name: "Quarter", x: 200, width: 800, want: math.Pi * 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.PointerMoved(tt.x, tt.width)
			if got := s.Snapshot().PointerTargetAngle; math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestPointerMoved_ZeroWidthIgnored(t *testing.T) {
	s := NewState()
	s.PointerMoved(100, 0)
	if got := s.Snapshot().PointerTargetAngle; got != math.Pi {
		t.Errorf("Expected pointer unchanged, got %f", got)
	}
}

func TestReset(t *testing.T) {
	s := NewState()
	s.KeyDown("d")
	s.KeyDown("s")
	s.SetPointerTargetAngle(1)
	s.Reset()

	if got := s.Snapshot(); got != (Snapshot{PointerTargetAngle: math.Pi}) {
		t.Errorf("Expected defaults after reset, got %+v", got)
	}
}

func TestState_ConcurrentWriters(t *testing.T) {
	s := NewState()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				s.KeyDown("w")
				s.PointerMoved(float64(j%800), 800)
				s.KeyUp("w")
			}
		}(i)
	}
	for j := 0; j < 1000; j++ {
		_ = s.Snapshot()
	}
	wg.Wait()
}

func TestHoldTracker(t *testing.T) {
	s := NewState()
	h := NewHoldTracker(s, 100*time.Millisecond)
	start := time.Unix(0, 0)

	if !h.Press("w", start) {
		t.Fatal("Expected w to be handled")
	}
	if h.Press("z", start) {
		t.Error("Expected unbound key to be ignored")
	}

	h.Expire(start.Add(50 * time.Millisecond))
	if !s.Snapshot().Forward {
		t.Error("Expected forward still held inside window")
	}

	// auto-repeat extends the hold
	h.Press("w", start.Add(80*time.Millisecond))
	h.Expire(start.Add(150 * time.Millisecond))
	if !s.Snapshot().Forward {
		t.Error("Expected repeat to extend hold")
	}

	h.Expire(start.Add(180 * time.Millisecond))
	if s.Snapshot().Forward {
		t.Error("Expected forward released after window")
	}
	if h.Held() != 0 {
		t.Errorf("Expected no held actions, got %d", h.Held())
	}
}

func TestHoldTracker_ReleaseAll(t *testing.T) {
	s := NewState()
	h := NewHoldTracker(s, 0)
	now := time.Now()

	h.Press("a", now)
	h.Press("ArrowUp", now)
	if h.Held() != 2 {
		t.Fatalf("Expected 2 held actions, got %d", h.Held())
	}

	h.ReleaseAll()
	snap := s.Snapshot()
	if snap.TurnLeft || snap.Forward {
		t.Errorf("Expected all released, got %+v", snap)
	}
}
