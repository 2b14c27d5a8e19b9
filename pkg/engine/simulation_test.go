package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-sailboat/pkg/asset"
	"github.com/opd-ai/go-sailboat/pkg/camera"
	"github.com/opd-ai/go-sailboat/pkg/clock"
	"github.com/opd-ai/go-sailboat/pkg/event"
	"github.com/opd-ai/go-sailboat/pkg/physics"
)

func newTestSimulation(t *testing.T, bus *event.Bus) *Simulation {
	t.Helper()
	sim, err := NewSimulation(Options{
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

func hullModel(t *testing.T) *asset.Model {
	t.Helper()
	m, err := asset.HullLoader{}.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("hull load failed: %v", err)
	}
	return m
}

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) handle(e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(t event.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.GetType() == t {
			n++
		}
	}
	return n
}

func subscribeAll(bus *event.Bus, r *recorder) {
	for _, t := range []event.Type{
		event.SimulationStarted, event.SimulationStopped,
		event.AssetLoaded, event.AssetLoadFailed, event.ViewportResized,
	} {
		bus.Subscribe(t, r.handle)
	}
}

func TestNewSimulation_StartsNotReady(t *testing.T) {
	sim := newTestSimulation(t, nil)

	if sim.State() != NotReady {
		t.Errorf("Expected NotReady, got %v", sim.State())
	}

	f := sim.LastFrame()
	if f.HasBoat() {
		t.Error("Expected no boat before load")
	}
	if f.Camera != camera.Static(camera.DefaultSettings()) {
		t.Errorf("Expected static camera, got %+v", f.Camera)
	}
	if f.Motion.Heading != math.Pi || f.Motion.SmoothedYaw != math.Pi {
		t.Errorf("Expected heading and yaw π, got %+v", f.Motion)
	}
}

func TestStep_NotReadyHoldsBoat(t *testing.T) {
	sim := newTestSimulation(t, nil)
	sim.Input().KeyDown("w")
	sim.Input().KeyDown("a")
	sim.Input().PointerMoved(800, 800)

	var f Frame
	c := clock.NewFixedRate(60)
	for i := 0; i < 30; i++ {
		f = sim.Step(c.Tick())
	}

	if f.Motion.ForwardVelocity != 0 || f.Motion.TurnVelocity != 0 {
		t.Errorf("Expected boat velocities held at rest, got %+v", f.Motion)
	}
	if f.Pose.Position != (mgl64.Vec3{}) {
		t.Errorf("Expected boat not to move, got %v", f.Pose.Position)
	}
	if f.Motion.SmoothedYaw <= math.Pi {
		t.Errorf("Expected smoothed yaw to track pointer, got %f", f.Motion.SmoothedYaw)
	}
	if f.Camera != camera.Static(camera.DefaultSettings()) {
		t.Errorf("Expected static camera, got %+v", f.Camera)
	}
}

func TestStep_AssetReadyTransition(t *testing.T) {
	bus := event.NewEventBus()
	rec := &recorder{}
	subscribeAll(bus, rec)

	sim := newTestSimulation(t, bus)
	model := hullModel(t)
	sim.SetAsset(asset.Resolved(model, nil))

	f := sim.Step(1.0/60.0, 1.0/60.0)
	if f.State != Running || !f.HasBoat() || f.Boat != model {
		t.Fatalf("Expected Running with boat, got %v", f.State)
	}

	for i := 0; i < 10; i++ {
		sim.Step(1.0/60.0, float64(i+2)/60.0)
	}
	if n := rec.count(event.AssetLoaded); n != 1 {
		t.Errorf("Expected exactly one asset_loaded event, got %d", n)
	}
}

func TestStep_AssetFailureDegrades(t *testing.T) {
	bus := event.NewEventBus()
	rec := &recorder{}
	subscribeAll(bus, rec)

	var failed *event.AssetEvent
	bus.Subscribe(event.AssetLoadFailed, func(e event.Event) {
		failed = e.(*event.AssetEvent)
	})

	sim := newTestSimulation(t, bus)
	sim.SetAsset(asset.Resolved(nil, errors.New("404")))
	sim.Input().KeyDown("w")

	var f Frame
	for i := 0; i < 5; i++ {
		f = sim.Step(1.0/60.0, float64(i+1)/60.0)
	}

	if f.State != Degraded {
		t.Fatalf("Expected Degraded, got %v", f.State)
	}
	if f.HasBoat() {
		t.Error("Expected no boat after failure")
	}
	if f.Camera != camera.Static(camera.DefaultSettings()) {
		t.Errorf("Expected static camera, got %+v", f.Camera)
	}
	if f.Motion.ForwardVelocity != 0 {
		t.Errorf("Expected boat to stay at rest, got %f", f.Motion.ForwardVelocity)
	}
	if n := rec.count(event.AssetLoadFailed); n != 1 {
		t.Errorf("Expected exactly one asset_load_failed event, got %d", n)
	}
	if failed == nil || !errors.Is(failed.Err, asset.ErrAssetLoadFailed) {
		t.Errorf("Expected event to carry ErrAssetLoadFailed, got %+v", failed)
	}
}

func TestStep_AsyncLoad(t *testing.T) {
	sim := newTestSimulation(t, nil)
	release := make(chan struct{})
	loader := asset.LoaderFunc(func(ctx context.Context, path string) (*asset.Model, error) {
		<-release
		return asset.HullLoader{}.Load(ctx, path)
	})

	sim.LoadAsset(context.Background(), loader, "")
	if f := sim.Step(1.0/60.0, 1.0/60.0); f.State != NotReady {
		t.Fatalf("Expected NotReady while loading, got %v", f.State)
	}

	close(release)
	sim.pending.Wait(context.Background())

	if f := sim.Step(1.0/60.0, 2.0/60.0); f.State != Running {
		t.Errorf("Expected Running after load, got %v", f.State)
	}
}

func TestStep_CameraTrailsFinalPose(t *testing.T) {
	sim := newTestSimulation(t, nil)
	sim.SetAsset(asset.Resolved(hullModel(t), nil))
	sim.Input().KeyDown("w")
	sim.Input().KeyDown("d")

	c := clock.NewFixedRate(60)
	radius := camera.DefaultSettings().OrbitRadius
	for i := 0; i < 300; i++ {
		f := sim.Step(c.Tick())

		if f.Camera.LookAt != f.Pose.Position {
			t.Fatalf("Frame %d: camera aimed at %v, boat at %v", i, f.Camera.LookAt, f.Pose.Position)
		}
		if d := physics.PlanarDistance(f.Camera.Position, f.Pose.Position); math.Abs(d-radius) > 1e-9 {
			t.Fatalf("Frame %d: camera planar distance %f, want %f", i, d, radius)
		}
	}
}

func TestStep_ClampInvariants(t *testing.T) {
	sim := newTestSimulation(t, nil)
	sim.SetAsset(asset.Resolved(hullModel(t), nil))
	tuning := sim.Tuning()

	c := clock.NewFixedRate(60)
	keys := []string{"w", "a", "d", "ArrowUp", "ArrowLeft", "ArrowRight"}
	for i := 0; i < 2000; i++ {
		k := keys[(i/97)%len(keys)]
		if i%3 == 0 {
			sim.Input().KeyDown(k)
		} else if i%7 == 0 {
			sim.Input().KeyUp(k)
		}

		f := sim.Step(c.Tick())
		if math.Abs(f.Motion.TurnVelocity) > tuning.MaxTurnVelocity+1e-12 {
			t.Fatalf("Frame %d: turn velocity %f exceeds max", i, f.Motion.TurnVelocity)
		}
		if f.Motion.ForwardVelocity < 0 || f.Motion.ForwardVelocity > tuning.MaxForwardVelocity+1e-12 {
			t.Fatalf("Frame %d: forward velocity %f out of range", i, f.Motion.ForwardVelocity)
		}
		if f.Throttle < 0 || f.Throttle > 1+1e-12 {
			t.Fatalf("Frame %d: throttle %f out of range", i, f.Throttle)
		}
	}
}

func TestStep_DisplacementMatchesVelocity(t *testing.T) {
	sim := newTestSimulation(t, nil)
	sim.SetAsset(asset.Resolved(hullModel(t), nil))
	sim.Input().KeyDown("w")
	sim.Input().KeyDown("a")

	c := clock.NewFixedRate(60)
	prev := sim.Step(c.Tick())
	for i := 0; i < 200; i++ {
		f := sim.Step(c.Tick())

		step := physics.Planar(f.Pose.Position).Sub(physics.Planar(prev.Pose.Position))
		want := physics.Planar(physics.FromHeading(f.Motion.Heading, f.Motion.ForwardVelocity))
		if !step.ApproxEqualThreshold(want, 1e-9) {
			t.Fatalf("Frame %d: displacement %v, want %v", i, step, want)
		}
		prev = f
	}
}

func TestResize(t *testing.T) {
	bus := event.NewEventBus()
	rec := &recorder{}
	subscribeAll(bus, rec)
	sim := newTestSimulation(t, bus)
	sim.SetAsset(asset.Resolved(hullModel(t), nil))
	sim.Input().KeyDown("w")

	for i := 0; i < 10; i++ {
		sim.Step(1.0/60.0, float64(i)/60.0)
	}
	before := sim.LastFrame().Motion

	if !sim.Resize(1920, 1080) {
		t.Fatal("Expected resize to apply")
	}
	if sim.Resize(0, 1080) {
		t.Error("Expected zero width to be ignored")
	}
	if w, h := sim.Viewport(); w != 1920 || h != 1080 {
		t.Errorf("Expected viewport 1920x1080, got %dx%d", w, h)
	}
	if sim.LastFrame().Motion != before {
		t.Error("Resize must not change boat state")
	}
	if n := rec.count(event.ViewportResized); n != 1 {
		t.Errorf("Expected one viewport_resized event, got %d", n)
	}
}

func TestStartStop(t *testing.T) {
	bus := event.NewEventBus()
	rec := &recorder{}
	subscribeAll(bus, rec)
	var stopped *event.SimulationEvent
	bus.Subscribe(event.SimulationStopped, func(e event.Event) {
		stopped = e.(*event.SimulationEvent)
	})

	sim := newTestSimulation(t, bus)
	sim.Start(context.Background())
	sim.Step(0, 0)
	sim.Step(1.0/60.0, 1.0/60.0)
	sim.Stop()

	if rec.count(event.SimulationStarted) != 1 || rec.count(event.SimulationStopped) != 1 {
		t.Errorf("Expected one start and one stop event, got %v", rec.events)
	}
	if stopped == nil || stopped.Frame != 2 {
		t.Errorf("Expected stop at frame 2, got %+v", stopped)
	}
}

func TestProjectBoatAtCentre(t *testing.T) {
	sim := newTestSimulation(t, nil)
	sim.SetAsset(asset.Resolved(hullModel(t), nil))
	sim.Input().KeyDown("w")

	var f Frame
	for i := 0; i < 60; i++ {
		f = sim.Step(1.0/60.0, float64(i)/60.0)
	}

	screen, ok := sim.Project(f.Pose.Position)
	if !ok {
		t.Fatal("Expected boat to be visible")
	}
	if math.Abs(screen.X()-400) > 1e-6 || math.Abs(screen.Y()-300) > 1e-6 {
		t.Errorf("Expected boat at viewport centre, got %v", screen)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		NotReady: "not_ready",
		Running:  "running",
		Degraded: "degraded",
		State(9): "State(9)",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
