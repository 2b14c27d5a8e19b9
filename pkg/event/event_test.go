// pkg/event/event_test.go
package event_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/opd-ai/go-sailboat/pkg/asset"
	"github.com/opd-ai/go-sailboat/pkg/camera"
	"github.com/opd-ai/go-sailboat/pkg/engine"
	"github.com/opd-ai/go-sailboat/pkg/event"
	"github.com/opd-ai/go-sailboat/pkg/physics"
)

// eventLog collects published events by type
type eventLog struct {
	mu     sync.Mutex
	events []event.Event
}

func (l *eventLog) record(e event.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) of(t event.Type) []event.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []event.Event
	for _, e := range l.events {
		if e.GetType() == t {
			out = append(out, e)
		}
	}
	return out
}

func watch(bus *event.Bus, types ...event.Type) *eventLog {
	l := &eventLog{}
	for _, t := range types {
		bus.Subscribe(t, l.record)
	}
	return l
}

func newSimulation(t *testing.T, bus *event.Bus) *engine.Simulation {
	t.Helper()
	sim, err := engine.NewSimulation(engine.Options{
		Tuning:         physics.DefaultTuning(),
		Camera:         camera.DefaultSettings(),
		InitialHeading: math.Pi,
		Width:          800,
		Height:         600,
		Bus:            bus,
	})
	if err != nil {
		t.Fatalf("NewSimulation() error = %v", err)
	}
	return sim
}

// settled starts a load and waits for it so the next Step sees the result
func settled(t *testing.T, loader asset.Loader, path string) *asset.Pending {
	t.Helper()
	p := asset.Start(context.Background(), loader, path)
	<-p.Done()
	return p
}

func TestSubscriptionCancel_RemovesOnlyThatHandler(t *testing.T) {
	bus := event.NewEventBus()
	var first, second int

	a := bus.Subscribe(event.ViewportResized, func(event.Event) { first++ })
	b := bus.Subscribe(event.ViewportResized, func(event.Event) { second++ })
	if a.ID == b.ID {
		t.Fatalf("Expected distinct subscription IDs, got %d twice", a.ID)
	}

	a.Cancel()
	a.Cancel()
	bus.Publish(event.NewViewportEvent(nil, 640, 480))

	if first != 0 || second != 1 {
		t.Errorf("Expected only the remaining handler to run, got first=%d second=%d", first, second)
	}
}

func TestSubscriptionCancel_DuringPublish(t *testing.T) {
	bus := event.NewEventBus()
	var calls []string

	var self *event.Subscription
	self = bus.Subscribe(event.AssetLoadFailed, func(event.Event) {
		calls = append(calls, "once")
		self.Cancel()
	})
	bus.Subscribe(event.AssetLoadFailed, func(event.Event) {
		calls = append(calls, "always")
	})

	bus.Publish(event.NewAssetLoadFailedEvent(nil, "a.png", errors.New("x")))
	bus.Publish(event.NewAssetLoadFailedEvent(nil, "a.png", errors.New("x")))

	want := []string{"once", "always", "always"}
	if len(calls) != len(want) {
		t.Fatalf("Expected calls %v, got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("Call %d: expected %s, got %s", i, want[i], calls[i])
		}
	}
}

func TestPublish_NilBus(t *testing.T) {
	var bus *event.Bus
	bus.Publish(event.NewSimulationEvent(event.SimulationStarted, nil, 0))
}

func TestBus_ConcurrentSubscribePublishCancel(t *testing.T) {
	bus := event.NewEventBus()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sub := bus.Subscribe(event.ViewportResized, func(event.Event) {})
				bus.Publish(event.NewViewportEvent(nil, j+1, j+1))
				sub.Cancel()
			}
		}()
	}
	wg.Wait()
}

func TestSimulation_AssetLoadFailedPublishedOnce(t *testing.T) {
	bus := event.NewEventBus()
	events := watch(bus, event.AssetLoaded, event.AssetLoadFailed)
	sim := newSimulation(t, bus)

	missing := asset.LoaderFunc(func(ctx context.Context, path string) (*asset.Model, error) {
		return nil, errors.New("no such file")
	})
	sim.SetAsset(settled(t, missing, "boats/missing.png"))

	for i := 0; i < 100; i++ {
		sim.Step(1.0/60.0, float64(i+1)/60.0)
	}

	failed := events.of(event.AssetLoadFailed)
	if len(failed) != 1 {
		t.Fatalf("Expected exactly one asset_load_failed across 100 frames, got %d", len(failed))
	}
	if n := len(events.of(event.AssetLoaded)); n != 0 {
		t.Errorf("Expected no asset_loaded, got %d", n)
	}

	ae, ok := failed[0].(*event.AssetEvent)
	if !ok {
		t.Fatalf("Expected *AssetEvent, got %T", failed[0])
	}
	if !errors.Is(ae.Err, asset.ErrAssetLoadFailed) {
		t.Errorf("Expected error to wrap ErrAssetLoadFailed, got %v", ae.Err)
	}
	if ae.Path != "boats/missing.png" {
		t.Errorf("Expected path boats/missing.png, got %q", ae.Path)
	}
	if ae.GetSource() != sim {
		t.Error("Expected the simulation as event source")
	}
	if sim.State() != engine.Degraded {
		t.Errorf("Expected Degraded, got %v", sim.State())
	}
}

func TestSimulation_AssetLoadedPublishedOnce(t *testing.T) {
	bus := event.NewEventBus()
	events := watch(bus, event.AssetLoaded, event.AssetLoadFailed)
	sim := newSimulation(t, bus)

	sim.SetAsset(settled(t, asset.HullLoader{}, asset.HullModelName))
	for i := 0; i < 30; i++ {
		sim.Step(1.0/60.0, float64(i+1)/60.0)
	}

	loaded := events.of(event.AssetLoaded)
	if len(loaded) != 1 {
		t.Fatalf("Expected exactly one asset_loaded, got %d", len(loaded))
	}
	if ae := loaded[0].(*event.AssetEvent); ae.Name != asset.HullModelName || ae.Err != nil {
		t.Errorf("Expected hull model without error, got name=%q err=%v", ae.Name, ae.Err)
	}
	if n := len(events.of(event.AssetLoadFailed)); n != 0 {
		t.Errorf("Expected no asset_load_failed, got %d", n)
	}
}

func TestSimulation_ViewportResizedOnlyForValidSizes(t *testing.T) {
	bus := event.NewEventBus()
	events := watch(bus, event.ViewportResized)
	sim := newSimulation(t, bus)

	tests := []struct {
		width, height int
		applied       bool
	}{
		{0, 600, false},
		{800, 0, false},
		{-1, -1, false},
		{1280, 720, true},
	}
	for _, tt := range tests {
		if got := sim.Resize(tt.width, tt.height); got != tt.applied {
			t.Errorf("Resize(%d, %d) = %v, want %v", tt.width, tt.height, got, tt.applied)
		}
	}

	resized := events.of(event.ViewportResized)
	if len(resized) != 1 {
		t.Fatalf("Expected one viewport_resized, got %d", len(resized))
	}
	if ve := resized[0].(*event.ViewportEvent); ve.Width != 1280 || ve.Height != 720 {
		t.Errorf("Expected 1280x720, got %dx%d", ve.Width, ve.Height)
	}
}

func TestSimulation_StartStopCarryFrameCount(t *testing.T) {
	bus := event.NewEventBus()
	events := watch(bus, event.SimulationStarted, event.SimulationStopped)
	sim := newSimulation(t, bus)

	sim.Start(context.Background())
	for i := 0; i < 12; i++ {
		sim.Step(1.0/60.0, float64(i+1)/60.0)
	}
	sim.Stop()

	started := events.of(event.SimulationStarted)
	stopped := events.of(event.SimulationStopped)
	if len(started) != 1 || len(stopped) != 1 {
		t.Fatalf("Expected one start and one stop, got %d and %d", len(started), len(stopped))
	}
	if f := started[0].(*event.SimulationEvent).Frame; f != 0 {
		t.Errorf("Expected start at frame 0, got %d", f)
	}
	if f := stopped[0].(*event.SimulationEvent).Frame; f != 12 {
		t.Errorf("Expected stop at frame 12, got %d", f)
	}
}
