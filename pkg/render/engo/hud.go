// pkg/render/engo/hud.go
package engo

import (
	"fmt"

	"github.com/EngoEngine/engo"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-sailboat/pkg/engine"
	"github.com/opd-ai/go-sailboat/pkg/physics"
)

// DefaultHUDInterval is how often, in seconds, the title status refreshes.
const DefaultHUDInterval = 0.25

// HUDSystem shows the sailing status in the window title
type HUDSystem struct {
	title    string
	setTitle func(string)
	interval float64

	sinceUpdate float64
	state       engine.State
	written     bool
	current     string
}

// NewHUDSystem creates a HUD that prefixes status with title. A nil setter
// writes to the engo window.
func NewHUDSystem(title string, setTitle func(string)) *HUDSystem {
	if setTitle == nil {
		setTitle = engo.SetTitle
	}
	return &HUDSystem{
		title:    title,
		setTitle: setTitle,
		interval: DefaultHUDInterval,
	}
}

// Update refreshes the title when the interval has passed or the state
// changes.
func (hud *HUDSystem) Update(frame engine.Frame) {
	hud.sinceUpdate += frame.Delta
	if hud.written && frame.State == hud.state && hud.sinceUpdate < hud.interval {
		return
	}
	hud.sinceUpdate = 0
	hud.state = frame.State
	hud.written = true

	status := fmt.Sprintf("%s | %s", hud.title, StatusLine(frame))
	if status != hud.current {
		hud.current = status
		hud.setTitle(status)
	}
}

// Current returns the last title written
func (hud *HUDSystem) Current() string {
	return hud.current
}

// StatusLine describes the frame for the HUD
func StatusLine(frame engine.Frame) string {
	switch frame.State {
	case engine.NotReady:
		return "not_ready loading boat"
	case engine.Degraded:
		return "degraded boat model unavailable"
	}
	return fmt.Sprintf("running speed %.2f (%.0f%%) heading %.0f°",
		frame.Motion.ForwardVelocity,
		frame.Throttle*100,
		mgl64.RadToDeg(physics.NormalizeAngle(frame.Motion.Heading)))
}
