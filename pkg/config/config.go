// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/opd-ai/go-sailboat/pkg/asset"
	"github.com/opd-ai/go-sailboat/pkg/camera"
	"github.com/opd-ai/go-sailboat/pkg/physics"
)

// EnvPrefix prefixes environment overrides, e.g. SAILBOAT_CAMERA_ORBITRADIUS.
const EnvPrefix = "SAILBOAT"

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config contains configuration for a sailing session
type Config struct {
	Renderer string         `json:"renderer" mapstructure:"renderer"`
	Physics  PhysicsConfig  `json:"physics" mapstructure:"physics"`
	Boat     BoatConfig     `json:"boat" mapstructure:"boat"`
	Camera   CameraConfig   `json:"camera" mapstructure:"camera"`
	Window   WindowConfig   `json:"window" mapstructure:"window"`
	Terminal TerminalConfig `json:"terminal" mapstructure:"terminal"`
	Asset    AssetConfig    `json:"asset" mapstructure:"asset"`
	Audio    AudioConfig    `json:"audio" mapstructure:"audio"`
	Clock    ClockConfig    `json:"clock" mapstructure:"clock"`
}

// PhysicsConfig contains the steering and propulsion constants
type PhysicsConfig struct {
	TurnAcceleration    float64 `json:"turnAcceleration" mapstructure:"turnAcceleration"`
	TurnDeceleration    float64 `json:"turnDeceleration" mapstructure:"turnDeceleration"`
	MaxTurnVelocity     float64 `json:"maxTurnVelocity" mapstructure:"maxTurnVelocity"`
	ForwardAcceleration float64 `json:"forwardAcceleration" mapstructure:"forwardAcceleration"`
	ForwardDeceleration float64 `json:"forwardDeceleration" mapstructure:"forwardDeceleration"`
	MaxForwardVelocity  float64 `json:"maxForwardVelocity" mapstructure:"maxForwardVelocity"`
	SmoothingRate       float64 `json:"smoothingRate" mapstructure:"smoothingRate"`
	Integration         string  `json:"integration" mapstructure:"integration"`
	ReferenceFrameRate  float64 `json:"referenceFrameRate" mapstructure:"referenceFrameRate"`
	NormalizeHeading    bool    `json:"normalizeHeading" mapstructure:"normalizeHeading"`
}

// BoatConfig contains the boat's starting pose and cosmetic motion
type BoatConfig struct {
	InitialHeading float64 `json:"initialHeading" mapstructure:"initialHeading"`
	BobAmplitude   float64 `json:"bobAmplitude" mapstructure:"bobAmplitude"`
	TiltAmplitude  float64 `json:"tiltAmplitude" mapstructure:"tiltAmplitude"`
	WaterLevel     float64 `json:"waterLevel" mapstructure:"waterLevel"`
}

// CameraConfig contains the trailing camera settings
type CameraConfig struct {
	OrbitRadius  float64 `json:"orbitRadius" mapstructure:"orbitRadius"`
	HeightOffset float64 `json:"heightOffset" mapstructure:"heightOffset"`
	FOV          float64 `json:"fov" mapstructure:"fov"`
	Near         float64 `json:"near" mapstructure:"near"`
	Far          float64 `json:"far" mapstructure:"far"`
}

// WindowConfig contains the windowed host settings
type WindowConfig struct {
	Title      string `json:"title" mapstructure:"title"`
	Width      int    `json:"width" mapstructure:"width"`
	Height     int    `json:"height" mapstructure:"height"`
	Fullscreen bool   `json:"fullscreen" mapstructure:"fullscreen"`
	VSync      bool   `json:"vsync" mapstructure:"vsync"`
}

// TerminalConfig contains the terminal host settings
type TerminalConfig struct {
	HoldWindow time.Duration `json:"holdWindow" mapstructure:"holdWindow"`
	FrameRate  float64       `json:"frameRate" mapstructure:"frameRate"`
}

// AssetConfig selects the boat model
type AssetConfig struct {
	Model       string        `json:"model" mapstructure:"model"`
	LoadTimeout time.Duration `json:"loadTimeout" mapstructure:"loadTimeout"`
}

// AudioConfig contains wake sound settings
type AudioConfig struct {
	Enabled    bool    `json:"enabled" mapstructure:"enabled"`
	Volume     float64 `json:"volume" mapstructure:"volume"`
	SampleRate int     `json:"sampleRate" mapstructure:"sampleRate"`
}

// ClockConfig contains frame timing settings
type ClockConfig struct {
	MaxDelta  float64 `json:"maxDelta" mapstructure:"maxDelta"`
	FixedRate float64 `json:"fixedRate" mapstructure:"fixedRate"`
}

// DefaultConfig returns the default session configuration
func DefaultConfig() *Config {
	tuning := physics.DefaultTuning()
	cam := camera.DefaultSettings()

	return &Config{
		Renderer: "engo",
		Physics: PhysicsConfig{
			TurnAcceleration:    tuning.TurnAcceleration,
			TurnDeceleration:    tuning.TurnDeceleration,
			MaxTurnVelocity:     tuning.MaxTurnVelocity,
			ForwardAcceleration: tuning.ForwardAcceleration,
			ForwardDeceleration: tuning.ForwardDeceleration,
			MaxForwardVelocity:  tuning.MaxForwardVelocity,
			SmoothingRate:       tuning.SmoothingRate,
			Integration:         tuning.Integration.String(),
			ReferenceFrameRate:  tuning.ReferenceFrameRate,
			NormalizeHeading:    tuning.NormalizeHeading,
		},
		Boat: BoatConfig{
			InitialHeading: math.Pi,
			BobAmplitude:   tuning.BobAmplitude,
			TiltAmplitude:  tuning.TiltAmplitude,
			WaterLevel:     tuning.WaterLevel,
		},
		Camera: CameraConfig{
			OrbitRadius:  cam.OrbitRadius,
			HeightOffset: cam.HeightOffset,
			FOV:          cam.FOV,
			Near:         cam.Near,
			Far:          cam.Far,
		},
		Window: WindowConfig{
			Title:  "Sailboat",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Terminal: TerminalConfig{
			HoldWindow: 150 * time.Millisecond,
			FrameRate:  30,
		},
		Asset: AssetConfig{
			Model:       asset.HullModelName,
			LoadTimeout: 10 * time.Second,
		},
		Audio: AudioConfig{
			Enabled:    true,
			Volume:     0.5,
			SampleRate: 44100,
		},
		Clock: ClockConfig{
			MaxDelta:  0.25,
			FixedRate: 60,
		},
	}
}

// setDefaults registers every default with v so environment overrides apply
// even when the file omits a key.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("renderer", d.Renderer)

	v.SetDefault("physics.turnAcceleration", d.Physics.TurnAcceleration)
	v.SetDefault("physics.turnDeceleration", d.Physics.TurnDeceleration)
	v.SetDefault("physics.maxTurnVelocity", d.Physics.MaxTurnVelocity)
	v.SetDefault("physics.forwardAcceleration", d.Physics.ForwardAcceleration)
	v.SetDefault("physics.forwardDeceleration", d.Physics.ForwardDeceleration)
	v.SetDefault("physics.maxForwardVelocity", d.Physics.MaxForwardVelocity)
	v.SetDefault("physics.smoothingRate", d.Physics.SmoothingRate)
	v.SetDefault("physics.integration", d.Physics.Integration)
	v.SetDefault("physics.referenceFrameRate", d.Physics.ReferenceFrameRate)
	v.SetDefault("physics.normalizeHeading", d.Physics.NormalizeHeading)

	v.SetDefault("boat.initialHeading", d.Boat.InitialHeading)
	v.SetDefault("boat.bobAmplitude", d.Boat.BobAmplitude)
	v.SetDefault("boat.tiltAmplitude", d.Boat.TiltAmplitude)
	v.SetDefault("boat.waterLevel", d.Boat.WaterLevel)

	v.SetDefault("camera.orbitRadius", d.Camera.OrbitRadius)
	v.SetDefault("camera.heightOffset", d.Camera.HeightOffset)
	v.SetDefault("camera.fov", d.Camera.FOV)
	v.SetDefault("camera.near", d.Camera.Near)
	v.SetDefault("camera.far", d.Camera.Far)

	v.SetDefault("window.title", d.Window.Title)
	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.fullscreen", d.Window.Fullscreen)
	v.SetDefault("window.vsync", d.Window.VSync)

	v.SetDefault("terminal.holdWindow", d.Terminal.HoldWindow)
	v.SetDefault("terminal.frameRate", d.Terminal.FrameRate)

	v.SetDefault("asset.model", d.Asset.Model)
	v.SetDefault("asset.loadTimeout", d.Asset.LoadTimeout)

	v.SetDefault("audio.enabled", d.Audio.Enabled)
	v.SetDefault("audio.volume", d.Audio.Volume)
	v.SetDefault("audio.sampleRate", d.Audio.SampleRate)

	v.SetDefault("clock.maxDelta", d.Clock.MaxDelta)
	v.SetDefault("clock.fixedRate", d.Clock.FixedRate)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads a configuration from a JSON file layered over the
// defaults, then applies SAILBOAT_* environment overrides. An empty path
// skips the file.
func LoadConfig(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks ranges the models depend on.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	p := c.Physics
	check(p.TurnAcceleration > 0, "physics.turnAcceleration must be positive")
	check(p.MaxTurnVelocity > 0, "physics.maxTurnVelocity must be positive")
	check(p.ForwardAcceleration > 0, "physics.forwardAcceleration must be positive")
	check(p.MaxForwardVelocity > 0, "physics.maxForwardVelocity must be positive")
	check(p.TurnDeceleration >= 0 && p.TurnDeceleration <= 1, "physics.turnDeceleration must be in [0, 1], got %g", p.TurnDeceleration)
	check(p.ForwardDeceleration >= 0 && p.ForwardDeceleration <= 1, "physics.forwardDeceleration must be in [0, 1], got %g", p.ForwardDeceleration)
	check(p.SmoothingRate >= 0, "physics.smoothingRate must not be negative")
	check(p.ReferenceFrameRate > 0, "physics.referenceFrameRate must be positive")
	if _, err := physics.ParseIntegrationMode(p.Integration); err != nil {
		errs = append(errs, fmt.Errorf("physics.integration: %w", err))
	}

	cam := c.Camera
	check(cam.OrbitRadius > 0, "camera.orbitRadius must be positive")
	check(cam.FOV > 0 && cam.FOV < 180, "camera.fov must be in (0, 180), got %g", cam.FOV)
	check(cam.Near > 0 && cam.Far > cam.Near, "camera near/far must satisfy 0 < near < far")

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	check(c.Terminal.FrameRate > 0, "terminal.frameRate must be positive")
	check(c.Audio.Volume >= 0 && c.Audio.Volume <= 1, "audio.volume must be in [0, 1], got %g", c.Audio.Volume)
	check(!c.Audio.Enabled || c.Audio.SampleRate > 0, "audio.sampleRate must be positive")
	check(c.Clock.MaxDelta >= 0, "clock.maxDelta must not be negative")
	check(c.Clock.FixedRate > 0, "clock.fixedRate must be positive")

	switch c.Renderer {
	case "engo", "terminal", "headless":
	default:
		errs = append(errs, fmt.Errorf("renderer must be engo, terminal or headless, got %q", c.Renderer))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Tuning converts the physics and boat sections to model constants.
func (c *Config) Tuning() physics.Tuning {
	mode, err := physics.ParseIntegrationMode(c.Physics.Integration)
	if err != nil {
		mode = physics.TimeScaled
	}
	return physics.Tuning{
		TurnAcceleration:    c.Physics.TurnAcceleration,
		TurnDeceleration:    c.Physics.TurnDeceleration,
		MaxTurnVelocity:     c.Physics.MaxTurnVelocity,
		ForwardAcceleration: c.Physics.ForwardAcceleration,
		ForwardDeceleration: c.Physics.ForwardDeceleration,
		MaxForwardVelocity:  c.Physics.MaxForwardVelocity,
		SmoothingRate:       c.Physics.SmoothingRate,
		Integration:         mode,
		ReferenceFrameRate:  c.Physics.ReferenceFrameRate,
		NormalizeHeading:    c.Physics.NormalizeHeading,
		BobAmplitude:        c.Boat.BobAmplitude,
		TiltAmplitude:       c.Boat.TiltAmplitude,
		WaterLevel:          c.Boat.WaterLevel,
	}
}

// CameraSettings converts the camera section to rig settings.
func (c *Config) CameraSettings() camera.Settings {
	return camera.Settings{
		OrbitRadius:  c.Camera.OrbitRadius,
		HeightOffset: c.Camera.HeightOffset,
		FOV:          c.Camera.FOV,
		Near:         c.Camera.Near,
		Far:          c.Camera.Far,
	}
}
