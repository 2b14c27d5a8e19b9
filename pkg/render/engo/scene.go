// pkg/render/engo/scene.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-sailboat/pkg/clock"
	"github.com/opd-ai/go-sailboat/pkg/engine"
	"github.com/opd-ai/go-sailboat/pkg/logging"
	"github.com/opd-ai/go-sailboat/pkg/render"
)

// WindowOptions configures the engo window
type WindowOptions struct {
	Title         string
	Width, Height int
	Fullscreen    bool
	VSync         bool
}

// SceneOptions configures a SailScene
type SceneOptions struct {
	Title    string
	MaxDelta float64
	Surface  *render.Surface
	Logger   *logging.Logger

	// OnFrame is called after each frame is drawn
	OnFrame func(engine.Frame)
}

// SailSystem steps the simulation once per engo frame and hands the result
// to the renderer and HUD.
type SailSystem struct {
	sim      *engine.Simulation
	renderer render.Renderer
	hud      *HUDSystem
	onFrame  func(engine.Frame)
	maxDelta float64
	elapsed  float64
}

// NewSailSystem creates a sail system. A non-positive maxDelta uses
// clock.DefaultMaxDelta.
func NewSailSystem(sim *engine.Simulation, r render.Renderer, hud *HUDSystem, maxDelta float64, onFrame func(engine.Frame)) *SailSystem {
	if maxDelta <= 0 {
		maxDelta = clock.DefaultMaxDelta
	}
	return &SailSystem{
		sim:      sim,
		renderer: r,
		hud:      hud,
		onFrame:  onFrame,
		maxDelta: maxDelta,
	}
}

// Remove satisfies the ecs.System interface
func (ss *SailSystem) Remove(basic ecs.BasicEntity) {
	// Not used for sail system
}

// Update advances the simulation by dt seconds
func (ss *SailSystem) Update(dt float32) {
	delta := float64(dt)
	if delta < 0 {
		delta = 0
	}
	if delta > ss.maxDelta {
		delta = ss.maxDelta
	}
	ss.elapsed += delta

	frame := ss.sim.Step(delta, ss.elapsed)
	if ss.renderer != nil {
		ss.renderer.Draw(frame)
	}
	if ss.hud != nil {
		ss.hud.Update(frame)
	}
	if ss.onFrame != nil {
		ss.onFrame(frame)
	}
}

// SailScene represents the sailing scene in Engo
type SailScene struct {
	sim    *engine.Simulation
	opts   SceneOptions
	logger *logging.Logger

	renderer *EngoRenderer
	input    *InputSystem
	sail     *SailSystem
	hud      *HUDSystem
}

// NewSailScene creates a new sailing scene
func NewSailScene(sim *engine.Simulation, opts SceneOptions) *SailScene {
	if opts.Title == "" {
		opts.Title = "Sailboat"
	}
	if opts.Surface == nil {
		opts.Surface = render.NewSurface(sim.Tuning().WaterLevel)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &SailScene{
		sim:    sim,
		opts:   opts,
		logger: opts.Logger.With("component", "engo"),
	}
}

// Type returns the scene type (required by Engo)
func (scene *SailScene) Type() string {
	return "SailScene"
}

// Preload is called before the scene starts (required by Engo).
// Sprites are generated from loaded models, so there is nothing to preload.
func (scene *SailScene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *SailScene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)

	SetupInputBindings()
	common.SetBackground(hexColor(render.SkyColor))

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)

	scene.sim.Resize(int(engo.GameWidth()), int(engo.GameHeight()))
	cam := NewScreenCamera(scene.sim, scene.sim.CameraSettings())
	scene.renderer = NewEngoRenderer(renderSystem, cam, scene.opts.Surface)
	scene.renderer.Initialize()

	scene.input = NewInputSystem(scene.sim.Input(), nil, nil)
	world.AddSystem(scene.input)

	scene.hud = NewHUDSystem(scene.opts.Title, nil)
	scene.sail = NewSailSystem(scene.sim, scene.renderer, scene.hud, scene.opts.MaxDelta, scene.opts.OnFrame)
	world.AddSystem(scene.sail)

	engo.Mailbox.Listen("WindowResizeMessage", func(msg engo.Message) {
		resize, ok := msg.(engo.WindowResizeMessage)
		if !ok {
			return
		}
		scene.sim.Resize(resize.NewWidth, resize.NewHeight)
	})

	scene.logger.Info(context.Background(), "engo scene ready",
		"width", engo.GameWidth(), "height", engo.GameHeight())
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *SailScene) Exit() {
	scene.sim.Stop()
}

// Run opens the window and runs scene until the window closes or ctx is
// cancelled.
func Run(ctx context.Context, scene *SailScene, w WindowOptions) {
	opts := engo.RunOptions{
		Title:      w.Title,
		Width:      w.Width,
		Height:     w.Height,
		Fullscreen: w.Fullscreen,
		VSync:      w.VSync,
	}

	done := make(chan struct{})
	defer close(done)
	go exitOnCancel(ctx, done, engo.Exit)

	engo.Run(opts, scene)
}

// exitOnCancel calls exit once ctx ends, unless done closes first.
func exitOnCancel(ctx context.Context, done <-chan struct{}, exit func()) {
	select {
	case <-ctx.Done():
		exit()
	case <-done:
	}
}
