// pkg/engine/simulation.go
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/opd-ai/go-sailboat/pkg/asset"
	"github.com/opd-ai/go-sailboat/pkg/camera"
	"github.com/opd-ai/go-sailboat/pkg/event"
	"github.com/opd-ai/go-sailboat/pkg/input"
	"github.com/opd-ai/go-sailboat/pkg/logging"
	"github.com/opd-ai/go-sailboat/pkg/physics"
)

// State is the simulation lifecycle state
type State int

const (
	// NotReady waits for the boat model; the camera holds its static pose.
	NotReady State = iota
	// Running steps the boat and trails it with the camera.
	Running
	// Degraded means the boat model failed to load. The scene keeps
	// running without a boat and with a static camera.
	Degraded
)

// String returns the state name
func (s State) String() string {
	switch s {
	case NotReady:
		return "not_ready"
	case Running:
		return "running"
	case Degraded:
		return "degraded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configures a Simulation
type Options struct {
	Tuning         physics.Tuning
	Camera         camera.Settings
	InitialHeading float64
	Width, Height  int

	Input  *input.State
	Bus    *event.Bus
	Logger *logging.Logger
}

// Frame is everything a renderer needs to draw one frame
type Frame struct {
	Number  uint64
	Delta   float64
	Elapsed float64
	State   State

	Input  input.Snapshot
	Motion physics.MotionState
	Pose   physics.Pose
	Camera camera.Pose

	// Boat is nil unless State is Running
	Boat *asset.Model
	// Throttle is forward velocity as a fraction of the maximum
	Throttle float64
}

// HasBoat reports whether the boat should be drawn
func (f Frame) HasBoat() bool {
	return f.State == Running && f.Boat != nil
}

// Simulation owns all per-frame state of the sailing scene
type Simulation struct {
	mu sync.Mutex

	tuning physics.Tuning
	rig    *camera.Rig
	input  *input.State
	bus    *event.Bus
	logger *logging.Logger
	stats  *metrics
	ctx    context.Context

	pending *asset.Pending
	model   *asset.Model
	state   State

	motion physics.MotionState
	pose   physics.Pose
	frame  Frame
	count  uint64
}

// NewSimulation creates a simulation in the NotReady state
func NewSimulation(opts Options) (*Simulation, error) {
	stats, err := newMetrics()
	if err != nil {
		return nil, err
	}

	if opts.Input == nil {
		opts.Input = input.NewState()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Tuning.ReferenceFrameRate <= 0 {
		opts.Tuning.ReferenceFrameRate = physics.DefaultTuning().ReferenceFrameRate
	}

	s := &Simulation{
		tuning: opts.Tuning,
		rig:    camera.NewRig(opts.Camera, opts.Width, opts.Height),
		input:  opts.Input,
		bus:    opts.Bus,
		logger: opts.Logger.With("component", "simulation"),
		stats:  stats,
		ctx:    context.Background(),
		state:  NotReady,
	}

	heading := opts.InitialHeading
	if s.tuning.NormalizeHeading {
		heading = physics.NormalizeAngle(heading)
	}
	pointer := s.input.Snapshot().PointerTargetAngle
	s.motion = physics.MotionState{Heading: heading, SmoothedYaw: pointer}
	s.pose = physics.Pose{
		Position: physics.WorldUp.Mul(s.tuning.WaterLevel),
		Yaw:      heading,
	}
	s.frame = s.snapshot(0, 0, input.Snapshot{PointerTargetAngle: pointer}, s.rig.Reset())

	return s, nil
}

// Input returns the input state written by hosts
func (s *Simulation) Input() *input.State {
	return s.input
}

// Tuning returns the model constants
func (s *Simulation) Tuning() physics.Tuning {
	return s.tuning
}

// Project maps a world point to viewport pixels through the current camera
func (s *Simulation) Project(world mgl64.Vec3) (mgl64.Vec2, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rig.Project(world)
}

// Viewport returns the camera viewport size
func (s *Simulation) Viewport() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rig.Viewport()
}

// CameraSettings returns the rig configuration
func (s *Simulation) CameraSettings() camera.Settings {
	return s.rig.Settings()
}

// State returns the lifecycle state
func (s *Simulation) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastFrame returns the most recent frame
func (s *Simulation) LastFrame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// LoadAsset starts loading the boat model in the background.
// The result is picked up by a later Step.
func (s *Simulation) LoadAsset(ctx context.Context, loader asset.Loader, path string) {
	s.SetAsset(asset.Start(ctx, loader, path))
}

// SetAsset attaches a pending load and returns the simulation to NotReady.
func (s *Simulation) SetAsset(p *asset.Pending) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil && s.pending != p {
		s.pending.Cancel()
	}
	s.pending = p
	s.model = nil
	s.state = NotReady
}

// Start publishes the started event and binds ctx to telemetry and logs
func (s *Simulation) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.logger.Info(ctx, "simulation started",
		"integration", s.tuning.Integration.String(),
		"orbit_radius", s.CameraSettings().OrbitRadius)
	s.bus.Publish(event.NewSimulationEvent(event.SimulationStarted, s, 0))
}

// Stop cancels any pending load and publishes the stopped event
func (s *Simulation) Stop() {
	s.mu.Lock()
	if s.pending != nil {
		s.pending.Cancel()
	}
	ctx, count := s.ctx, s.count
	s.mu.Unlock()

	s.logger.Info(ctx, "simulation stopped", "frames", count)
	s.bus.Publish(event.NewSimulationEvent(event.SimulationStopped, s, count))
}

// Step advances the scene by one frame. The order is fixed: asset poll,
// input, steering and propulsion, heading, boat pose, then camera.
func (s *Simulation) Step(delta, elapsed float64) Frame {
	s.mu.Lock()

	published := s.pollAsset()

	snap := s.input.Snapshot()
	controls := physics.Controls{
		Forward:            snap.Forward,
		TurnLeft:           snap.TurnLeft,
		TurnRight:          snap.TurnRight,
		PointerTargetAngle: snap.PointerTargetAngle,
	}

	var cam camera.Pose
	if s.state == Running {
		scale := physics.UpdateMotion(&s.motion, controls, delta, s.tuning)
		s.pose = physics.UpdatePose(s.pose, s.motion, scale, elapsed, s.tuning)
		cam = s.rig.Follow(s.pose.Position, s.motion.SmoothedYaw)
	} else {
		// no boat: hold the boat state and keep tracking the pointer
		s.motion.SmoothedYaw = physics.SmoothYaw(s.motion.SmoothedYaw, controls.PointerTargetAngle, delta, s.tuning.SmoothingRate)
		cam = s.rig.Reset()
	}

	s.count++
	s.frame = s.snapshot(delta, elapsed, snap, cam)
	frame := s.frame
	ctx := s.ctx
	s.mu.Unlock()

	s.record(ctx, frame)
	if published != nil {
		s.bus.Publish(published)
	}
	return frame
}

// pollAsset moves NotReady to Running or Degraded once the load resolves.
// It returns the event to publish after the lock is released.
func (s *Simulation) pollAsset() event.Event {
	if s.state != NotReady || s.pending == nil {
		return nil
	}

	state, model, err := s.pending.Poll()
	switch state {
	case asset.Ready:
		s.model = model
		s.state = Running
		s.logger.Info(s.ctx, "boat model loaded", "model", model.Name, "frame", s.count)
		s.stats.assetLoads.Add(s.ctx, 1, metric.WithAttributes(attribute.String("outcome", "ready")))
		return event.NewAssetLoadedEvent(s, s.pending.Path(), model.Name)
	case asset.Failed:
		s.state = Degraded
		s.logger.Error(s.ctx, "boat model failed to load, continuing without boat", err, "path", s.pending.Path())
		s.stats.assetLoads.Add(s.ctx, 1, metric.WithAttributes(attribute.String("outcome", "failed")))
		return event.NewAssetLoadFailedEvent(s, s.pending.Path(), err)
	}
	return nil
}

func (s *Simulation) snapshot(delta, elapsed float64, snap input.Snapshot, cam camera.Pose) Frame {
	f := Frame{
		Number:  s.count,
		Delta:   delta,
		Elapsed: elapsed,
		State:   s.state,
		Input:   snap,
		Motion:  s.motion,
		Pose:    s.pose,
		Camera:  cam,
	}
	if s.state == Running {
		f.Boat = s.model
	}
	if s.tuning.MaxForwardVelocity > 0 {
		f.Throttle = s.motion.ForwardVelocity / s.tuning.MaxForwardVelocity
	}
	return f
}

func (s *Simulation) record(ctx context.Context, f Frame) {
	stateAttr := metric.WithAttributes(attribute.String("state", f.State.String()))
	s.stats.frames.Add(ctx, 1, stateAttr)
	s.stats.frameDelta.Record(ctx, f.Delta)
	if f.State == Running {
		s.stats.forwardSpeed.Record(ctx, f.Motion.ForwardVelocity)
	}
}

// Resize updates the camera projection for a new viewport.
// It has no effect on the boat. Non-positive sizes are ignored.
func (s *Simulation) Resize(width, height int) bool {
	s.mu.Lock()
	ok := s.rig.Resize(width, height)
	ctx := s.ctx
	s.mu.Unlock()

	if !ok {
		return false
	}
	s.logger.Debug(ctx, "viewport resized", "width", width, "height", height)
	s.bus.Publish(event.NewViewportEvent(s, width, height))
	return true
}
