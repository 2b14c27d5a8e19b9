// pkg/physics/boat.go
package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// IntegrationMode selects how per-frame rates are applied to heading and position.
type IntegrationMode int

const (
	// TimeScaled multiplies per-frame rates by deltaTime*ReferenceFrameRate,
	// so turning and travel speed do not depend on the display refresh rate.
	TimeScaled IntegrationMode = iota
	// FrameCoupled applies per-frame rates once per frame regardless of deltaTime.
	FrameCoupled
)

// String returns the configuration name of the mode.
func (m IntegrationMode) String() string {
	switch m {
	case TimeScaled:
		return "time"
	case FrameCoupled:
		return "frame"
	default:
		return fmt.Sprintf("IntegrationMode(%d)", int(m))
	}
}

// ParseIntegrationMode parses "time" or "frame".
func ParseIntegrationMode(s string) (IntegrationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "time", "":
		return TimeScaled, nil
	case "frame":
		return FrameCoupled, nil
	default:
		return TimeScaled, fmt.Errorf("unknown integration mode %q", s)
	}
}

// Tuning holds the constants of the boat models.
// Velocities are per reference frame; accelerations are per frame.
type Tuning struct {
	TurnAcceleration float64
	TurnDeceleration float64
	MaxTurnVelocity  float64

	ForwardAcceleration float64
	ForwardDeceleration float64
	MaxForwardVelocity  float64

	// SmoothingRate is the camera yaw low-pass rate in 1/s.
	SmoothingRate float64

	Integration        IntegrationMode
	ReferenceFrameRate float64
	NormalizeHeading   bool

	BobAmplitude  float64
	TiltAmplitude float64
	WaterLevel    float64
}

// DefaultTuning returns the stock sailboat handling.
func DefaultTuning() Tuning {
	return Tuning{
		TurnAcceleration:    0.001,
		TurnDeceleration:    0.05,
		MaxTurnVelocity:     0.05,
		ForwardAcceleration: 0.001,
		ForwardDeceleration: 0.02,
		MaxForwardVelocity:  0.5,
		SmoothingRate:       5,
		Integration:         TimeScaled,
		ReferenceFrameRate:  60,
		NormalizeHeading:    true,
		BobAmplitude:        0.1,
		TiltAmplitude:       0.05,
		WaterLevel:          0,
	}
}

// Scale returns the multiplier applied to per-frame rates for a frame of deltaTime seconds.
func (t Tuning) Scale(deltaTime float64) float64 {
	if t.Integration == FrameCoupled {
		return 1
	}
	return deltaTime * t.ReferenceFrameRate
}

// Controls are the input flags the models consume for one frame.
type Controls struct {
	Forward            bool
	TurnLeft           bool
	TurnRight          bool
	PointerTargetAngle float64
}

// MotionState tracks boat physics between frames.
type MotionState struct {
	Heading         float64 // radians
	TurnVelocity    float64 // radians per frame
	ForwardVelocity float64 // units per frame
	SmoothedYaw     float64 // radians, camera orbit angle
}

// Pose is the boat's world transform.
type Pose struct {
	Position mgl64.Vec3
	Yaw      float64
	Tilt     float64
}

// Steer advances the turning velocity for one frame. Acceleration and decay
// are per-frame rates stretched by scale.
func Steer(turnVelocity float64, left, right bool, scale float64, t Tuning) float64 {
	switch {
	case left && turnVelocity < t.MaxTurnVelocity:
		turnVelocity = math.Min(turnVelocity+t.TurnAcceleration*scale, t.MaxTurnVelocity)
	case right && turnVelocity > -t.MaxTurnVelocity:
		turnVelocity = math.Max(turnVelocity-t.TurnAcceleration*scale, -t.MaxTurnVelocity)
	case turnVelocity > 0:
		turnVelocity -= turnVelocity * decayFraction(t.TurnDeceleration, scale)
	case turnVelocity < 0:
		turnVelocity -= turnVelocity * decayFraction(t.TurnDeceleration, scale)
	}
	return turnVelocity
}

// Propel advances the forward velocity for one frame.
// Holding forward at the limit keeps the boat at full speed.
func Propel(forwardVelocity float64, forward bool, scale float64, t Tuning) float64 {
	if forward {
		return math.Min(forwardVelocity+t.ForwardAcceleration*scale, t.MaxForwardVelocity)
	}
	forwardVelocity -= forwardVelocity * decayFraction(t.ForwardDeceleration, scale)
	if forwardVelocity < 0 {
		forwardVelocity = 0
	}
	return forwardVelocity
}

// decayFraction is the share of velocity lost over scale frames when rate is
// lost every frame: 1-(1-rate)^scale. A rate of 1 or more loses everything.
func decayFraction(rate, scale float64) float64 {
	if scale == 1 {
		return rate
	}
	keep := 1 - rate
	if keep <= 0 {
		return 1
	}
	return 1 - math.Pow(keep, scale)
}

// IntegrateHeading adds the scaled turning velocity to the heading.
func IntegrateHeading(heading, turnVelocity, scale float64, normalize bool) float64 {
	heading += turnVelocity * scale
	if normalize {
		heading = NormalizeAngle(heading)
	}
	return heading
}

// SmoothYaw blends yaw toward target with an exponential low-pass filter.
// The blend factor deltaTime*rate is capped at 1 so a step never passes the target.
func SmoothYaw(yaw, target, deltaTime, rate float64) float64 {
	k := deltaTime * rate
	if k <= 0 {
		return yaw
	}
	if k > 1 {
		k = 1
	}
	return yaw + (target-yaw)*k
}

// UpdateMotion runs the steering, propulsion and heading models for one frame
// and returns the integration scale used for the frame.
func UpdateMotion(state *MotionState, c Controls, deltaTime float64, t Tuning) float64 {
	scale := t.Scale(deltaTime)

	state.TurnVelocity = Steer(state.TurnVelocity, c.TurnLeft, c.TurnRight, scale, t)
	state.ForwardVelocity = Propel(state.ForwardVelocity, c.Forward, scale, t)
	state.Heading = IntegrateHeading(state.Heading, state.TurnVelocity, scale, t.NormalizeHeading)
	state.SmoothedYaw = SmoothYaw(state.SmoothedYaw, c.PointerTargetAngle, deltaTime, t.SmoothingRate)

	return scale
}

// UpdatePose moves the boat along its heading and applies the cosmetic bob and tilt.
// The bob follows wall-clock elapsed time, not the boat's motion.
func UpdatePose(pose Pose, state MotionState, scale, elapsed float64, t Tuning) Pose {
	step := FromHeading(state.Heading, state.ForwardVelocity*scale)
	pose.Position = mgl64.Vec3{
		pose.Position.X() + step.X(),
		t.WaterLevel + math.Sin(elapsed)*t.BobAmplitude,
		pose.Position.Z() + step.Z(),
	}
	pose.Yaw = state.Heading
	pose.Tilt = math.Cos(elapsed) * t.TiltAmplitude
	return pose
}
