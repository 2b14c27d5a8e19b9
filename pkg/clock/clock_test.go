package clock

import (
	"math"
	"testing"
	"time"
)

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time { return f.t }

func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestWallClock_FirstTickIsZero(t *testing.T) {
	ft := &fakeTime{t: time.Unix(100, 0)}
	c := newWallClock(ft.now, DefaultMaxDelta)

	delta, elapsed := c.Tick()
	if delta != 0 || elapsed != 0 {
		t.Errorf("Expected zero first tick, got delta=%f elapsed=%f", delta, elapsed)
	}
}

func TestWallClock_Accumulates(t *testing.T) {
	ft := &fakeTime{t: time.Unix(100, 0)}
	c := newWallClock(ft.now, DefaultMaxDelta)
	c.Tick()

	for i := 0; i < 3; i++ {
		ft.advance(16 * time.Millisecond)
		delta, _ := c.Tick()
		if math.Abs(delta-0.016) > 1e-9 {
			t.Errorf("Expected delta 0.016, got %f", delta)
		}
	}

	ft.advance(20 * time.Millisecond)
	_, elapsed := c.Tick()
	if math.Abs(elapsed-0.068) > 1e-9 {
		t.Errorf("Expected elapsed 0.068, got %f", elapsed)
	}
}

func TestWallClock_ClampsStall(t *testing.T) {
	tests := []struct {
		name     string
		maxDelta float64
		stall    time.Duration
		want     float64
	}{
		{name: "Clamped", maxDelta: 0.25, stall: 3 * time.Second, want: 0.25},
		{name: "Under limit", maxDelta: 0.25, stall: 100 * time.Millisecond, want: 0.1},
		{name: "Unclamped", maxDelta: 0, stall: 3 * time.Second, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTime{t: time.Unix(0, 0)}
			c := newWallClock(ft.now, tt.maxDelta)
			c.Tick()
			ft.advance(tt.stall)

			delta, elapsed := c.Tick()
			if math.Abs(delta-tt.want) > 1e-9 {
				t.Errorf("Expected delta %f, got %f", tt.want, delta)
			}
			if elapsed != delta {
				t.Errorf("Expected elapsed to follow clamped delta, got %f", elapsed)
			}
		})
	}
}

func TestWallClock_Real(t *testing.T) {
	c := NewWallClock(DefaultMaxDelta)
	c.Tick()
	time.Sleep(5 * time.Millisecond)

	delta, elapsed := c.Tick()
	if delta <= 0 || delta > DefaultMaxDelta {
		t.Errorf("Expected positive bounded delta, got %f", delta)
	}
	if elapsed != delta {
		t.Errorf("Expected elapsed %f, got %f", delta, elapsed)
	}
}

func TestFixedClock(t *testing.T) {
	c := NewFixedRate(60)
	var delta, elapsed float64
	for i := 0; i < 120; i++ {
		delta, elapsed = c.Tick()
	}

	if math.Abs(delta-1.0/60.0) > 1e-12 {
		t.Errorf("Expected delta 1/60, got %f", delta)
	}
	if math.Abs(elapsed-2) > 1e-9 {
		t.Errorf("Expected elapsed 2s, got %f", elapsed)
	}
	if NewFixedRate(0).Step() != 1.0/60.0 {
		t.Error("Expected non-positive rate to default to 60 Hz")
	}
}
