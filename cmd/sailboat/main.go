// cmd/sailboat/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/go-sailboat/pkg/asset"
	"github.com/opd-ai/go-sailboat/pkg/audio"
	"github.com/opd-ai/go-sailboat/pkg/clock"
	"github.com/opd-ai/go-sailboat/pkg/config"
	"github.com/opd-ai/go-sailboat/pkg/engine"
	"github.com/opd-ai/go-sailboat/pkg/event"
	"github.com/opd-ai/go-sailboat/pkg/input"
	"github.com/opd-ai/go-sailboat/pkg/logging"
	"github.com/opd-ai/go-sailboat/pkg/render"
	engorender "github.com/opd-ai/go-sailboat/pkg/render/engo"
	"github.com/opd-ai/go-sailboat/pkg/render/terminal"
)

// defaultTerminalLog keeps log lines off the terminal canvas
const defaultTerminalLog = "sailboat.log"

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file and exit")
	renderer := flag.String("renderer", "", "Renderer type: 'engo', 'terminal' or 'headless' (overrides config)")
	frames := flag.Uint64("frames", 0, "Frames to run before exiting, 0 runs until interrupted (headless only)")
	width := flag.Int("width", 0, "Window width (engo only, overrides config)")
	height := flag.Int("height", 0, "Window height (engo only, overrides config)")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode (engo only)")
	model := flag.String("model", "", "Boat model: image path or "+asset.HullModelName+" (overrides config)")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stdout")
	flag.Parse()

	if *createDefault {
		logger := logging.NewLogger()
		ctx := context.Background()
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err, "config_path", *configPath)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file", "config_path", *configPath)
		return
	}

	cfg, cfgErr := loadConfig(*configPath)
	if cfg != nil {
		applyFlags(cfg, *renderer, *width, *height, *fullscreen, *model)
	}

	chosen := *renderer
	if cfg != nil {
		chosen = cfg.Renderer
	}
	logger, closeLog, err := newLogger(*logFile, chosen)
	if err != nil {
		logging.NewLogger().Error(context.Background(), "Failed to open log file", err, "log_file", *logFile)
		os.Exit(1)
	}
	defer closeLog()

	ctx := logging.WithSessionID(context.Background(), logging.GenerateSessionID())
	if cfgErr != nil {
		logger.Error(ctx, "Failed to load configuration", cfgErr, "config_path", *configPath)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error(ctx, "Invalid configuration", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *frames, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(ctx, "Sailboat exited with error", err)
		os.Exit(1)
	}
}

// loadConfig reads path, falling back to defaults plus environment when the
// file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config.LoadConfig("")
	}
	return config.LoadConfig(path)
}

func applyFlags(cfg *config.Config, renderer string, width, height int, fullscreen bool, model string) {
	if renderer != "" {
		cfg.Renderer = renderer
	}
	if width > 0 {
		cfg.Window.Width = width
	}
	if height > 0 {
		cfg.Window.Height = height
	}
	if fullscreen {
		cfg.Window.Fullscreen = true
	}
	if model != "" {
		cfg.Asset.Model = model
	}
}

// newLogger picks the log destination. The terminal host owns stdout, so it
// logs to a file even when none is given.
func newLogger(path, renderer string) (*logging.Logger, func(), error) {
	if path == "" && renderer == "terminal" {
		path = defaultTerminalLog
	}
	if path == "" {
		return logging.NewLogger(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return logging.NewLoggerTo(f), func() { f.Close() }, nil
}

func run(ctx context.Context, cfg *config.Config, frames uint64, logger *logging.Logger) error {
	bus := event.NewEventBus()
	bus.Subscribe(event.AssetLoadFailed, func(e event.Event) {
		if ae, ok := e.(*event.AssetEvent); ok {
			logger.Warn(ctx, "Sailing without a boat model", "path", ae.Path, "error", ae.Err)
		}
	})

	sim, err := engine.NewSimulation(engine.Options{
		Tuning:         cfg.Tuning(),
		Camera:         cfg.CameraSettings(),
		InitialHeading: cfg.Boat.InitialHeading,
		Width:          cfg.Window.Width,
		Height:         cfg.Window.Height,
		Input:          input.NewState(),
		Bus:            bus,
		Logger:         logger,
	})
	if err != nil {
		return logging.WrapError(err, "creating simulation")
	}

	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.Asset.LoadTimeout)
	defer cancelLoad()
	sim.LoadAsset(loadCtx, asset.ForPath(cfg.Asset.Model), cfg.Asset.Model)

	mgr := startAudio(ctx, cfg, logger)
	var onFrame func(engine.Frame)
	if mgr != nil {
		onFrame = func(f engine.Frame) {
			mgr.SetThrottle(f.Throttle)
		}
	}

	sim.Start(ctx)
	switch cfg.Renderer {
	case "headless":
		defer sim.Stop()
		return runHeadless(ctx, sim, cfg, frames, logger)
	case "terminal":
		defer sim.Stop()
		return runTerminal(ctx, sim, cfg, logger, mgr, onFrame)
	default:
		scene := engorender.NewSailScene(sim, engorender.SceneOptions{
			Title:    cfg.Window.Title,
			MaxDelta: cfg.Clock.MaxDelta,
			Logger:   logger,
			OnFrame:  onFrame,
		})
		engorender.Run(ctx, scene, engorender.WindowOptions{
			Title:      cfg.Window.Title,
			Width:      cfg.Window.Width,
			Height:     cfg.Window.Height,
			Fullscreen: cfg.Window.Fullscreen,
			VSync:      cfg.Window.VSync,
		})
		return nil
	}
}

// startAudio opens the speaker when enabled and returns nil when there is no
// sound. Audio failures only cost the wake sound.
func startAudio(ctx context.Context, cfg *config.Config, logger *logging.Logger) *audio.Manager {
	if !cfg.Audio.Enabled || cfg.Renderer == "headless" {
		return nil
	}
	mgr := audio.NewManager(cfg.Audio.SampleRate, cfg.Audio.Volume, logger)
	if err := mgr.Initialize(ctx); err != nil {
		logger.Warn(ctx, "Audio unavailable, continuing without sound", "error", err.Error())
		return nil
	}
	go func() {
		<-ctx.Done()
		mgr.Close()
	}()
	return mgr
}

func runHeadless(ctx context.Context, sim *engine.Simulation, cfg *config.Config, frames uint64, logger *logging.Logger) error {
	clk := clock.NewFixedRate(cfg.Clock.FixedRate)
	n, err := render.RunHeadless(ctx, sim, clk, render.NewNullRenderer(logger), frames, nil)

	last := sim.LastFrame()
	logger.Info(ctx, "Headless run finished",
		"frames", n,
		"state", last.State.String(),
		"x", last.Pose.Position.X(),
		"z", last.Pose.Position.Z(),
		"heading", last.Motion.Heading,
		"forward_velocity", last.Motion.ForwardVelocity,
	)
	return err
}

func runTerminal(ctx context.Context, sim *engine.Simulation, cfg *config.Config, logger *logging.Logger, mgr *audio.Manager, onFrame func(engine.Frame)) error {
	screen, err := terminal.NewScreen()
	if err != nil {
		return err
	}
	opts := terminal.Options{
		FrameRate:  int(cfg.Terminal.FrameRate),
		HoldWindow: cfg.Terminal.HoldWindow,
		Clock:      clock.NewWallClock(cfg.Clock.MaxDelta),
		Logger:     logger,
		OnFrame:    onFrame,
	}
	if mgr != nil {
		opts.OnMute = mgr.SetPaused
	}
	host := terminal.NewHost(screen, sim, opts)
	return host.Run(ctx)
}
