// Package terminal runs the sailing scene in a text terminal with tcell.
package terminal

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-sailboat/pkg/clock"
	"github.com/opd-ai/go-sailboat/pkg/engine"
	"github.com/opd-ai/go-sailboat/pkg/input"
	"github.com/opd-ai/go-sailboat/pkg/logging"
	"github.com/opd-ai/go-sailboat/pkg/render"
)

// DefaultFrameRate is the tick rate of the terminal loop.
const DefaultFrameRate = 30

// Options configures a Host
type Options struct {
	FrameRate  int
	HoldWindow time.Duration
	Scale      float64
	Clock      clock.FrameClock
	Surface    *render.Surface
	Logger     *logging.Logger

	// OnFrame is called after each frame is drawn
	OnFrame func(engine.Frame)

	// OnMute is called with the new state each time the mute key is pressed
	OnMute func(muted bool)
}

// Host owns the terminal screen and drives the simulation from it.
type Host struct {
	screen tcell.Screen
	sim    *engine.Simulation
	view   *View
	hold   *input.HoldTracker
	clock  clock.FrameClock
	logger *logging.Logger

	frameRate int
	onFrame   func(engine.Frame)
	onMute    func(bool)
	muted     bool
	now       func() time.Time
}

// NewScreen creates and initializes a terminal screen with mouse reporting.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, logging.WrapError(err, "creating terminal screen")
	}
	if err := screen.Init(); err != nil {
		return nil, logging.WrapError(err, "initializing terminal screen")
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	return screen, nil
}

// NewHost creates a host for an initialized screen.
func NewHost(screen tcell.Screen, sim *engine.Simulation, opts Options) *Host {
	if opts.FrameRate <= 0 {
		opts.FrameRate = DefaultFrameRate
	}
	if opts.HoldWindow <= 0 {
		opts.HoldWindow = input.DefaultHoldWindow
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewWallClock(clock.DefaultMaxDelta)
	}
	if opts.Surface == nil {
		opts.Surface = render.NewSurface(sim.Tuning().WaterLevel)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	h := &Host{
		screen:    screen,
		sim:       sim,
		view:      NewView(screen, opts.Surface, opts.Scale),
		hold:      input.NewHoldTracker(sim.Input(), opts.HoldWindow),
		clock:     opts.Clock,
		logger:    opts.Logger.With("component", "terminal"),
		frameRate: opts.FrameRate,
		onFrame:   opts.OnFrame,
		onMute:    opts.OnMute,
		now:       time.Now,
	}
	h.syncSize()
	return h
}

// View returns the renderer used by the host
func (h *Host) View() *View {
	return h.view
}

// Run processes terminal events and draws frames until the user quits or
// ctx is cancelled. The screen is finalized on return.
func (h *Host) Run(ctx context.Context) error {
	defer h.screen.Fini()

	ticker := time.NewTicker(time.Second / time.Duration(h.frameRate))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	h.logger.Info(ctx, "terminal host started", "frame_rate", h.frameRate)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok || !h.handleEvent(ev) {
				h.hold.ReleaseAll()
				h.logger.Info(ctx, "terminal host stopped")
				return nil
			}

		case <-ticker.C:
			h.Tick()
		}
	}
}

// Tick releases expired keys, steps the simulation and draws the frame.
func (h *Host) Tick() engine.Frame {
	h.hold.Expire(h.now())
	frame := h.sim.Step(h.clock.Tick())
	h.view.Draw(frame)
	if h.onFrame != nil {
		h.onFrame(frame)
	}
	return frame
}

// handleEvent applies one terminal event. It returns false to quit.
func (h *Host) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			return false
		}
		if isMute(ev) {
			h.toggleMute()
			return true
		}
		if key := keyName(ev); key != "" {
			h.hold.Press(key, h.now())
		}

	case *tcell.EventMouse:
		x, _ := ev.Position()
		width, _ := h.screen.Size()
		h.sim.Input().PointerMoved(float64(x), float64(width))

	case *tcell.EventResize:
		h.syncSize()
		h.screen.Sync()
	}
	return true
}

func (h *Host) toggleMute() {
	h.muted = !h.muted
	if h.onMute != nil {
		h.onMute(h.muted)
	}
	h.logger.Debug(context.Background(), "mute toggled", "muted", h.muted)
}

func (h *Host) syncSize() {
	width, height := h.screen.Size()
	h.sim.Resize(width, height)
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

func isMute(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyRune && (ev.Rune() == 'm' || ev.Rune() == 'M')
}

// keyName maps a tcell key to the name used by input.State.
func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyUp:
		return input.KeyArrowUp
	case tcell.KeyDown:
		return input.KeyArrowDown
	case tcell.KeyLeft:
		return input.KeyArrowLeft
	case tcell.KeyRight:
		return input.KeyArrowRight
	case tcell.KeyRune:
		return string(ev.Rune())
	}
	return ""
}
