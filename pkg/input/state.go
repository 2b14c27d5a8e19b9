// pkg/input/state.go
package input

import (
	"math"
	"strings"
	"sync/atomic"
)

// Key identifiers follow browser KeyboardEvent.key names.
const (
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

// DefaultPointerAngle is the pointer target with the pointer centred.
const DefaultPointerAngle = math.Pi

// Action is a control flag a key maps to.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionTurnLeft
	ActionTurnRight
	ActionBrake
)

// String returns a readable action name.
func (a Action) String() string {
	switch a {
	case ActionForward:
		return "forward"
	case ActionTurnLeft:
		return "turnLeft"
	case ActionTurnRight:
		return "turnRight"
	case ActionBrake:
		return "brake"
	default:
		return "none"
	}
}

// ActionForKey maps a key identifier to its action.
// Single letters match case-insensitively.
func ActionForKey(key string) Action {
	switch key {
	case KeyArrowUp:
		return ActionForward
	case KeyArrowLeft:
		return ActionTurnLeft
	case KeyArrowRight:
		return ActionTurnRight
	case KeyArrowDown:
		return ActionBrake
	}
	if len(key) != 1 {
		return ActionNone
	}
	switch strings.ToLower(key) {
	case "w":
		return ActionForward
	case "a":
		return ActionTurnLeft
	case "d":
		return ActionTurnRight
	case "s":
		return ActionBrake
	}
	return ActionNone
}

// Snapshot is a plain copy of the input state for one frame.
type Snapshot struct {
	Forward            bool
	TurnLeft           bool
	TurnRight          bool
	Brake              bool
	PointerTargetAngle float64
}

// State holds the player's control flags and pointer target.
// Input handlers may write from any goroutine; the frame loop reads a Snapshot.
type State struct {
	forward   atomic.Bool
	turnLeft  atomic.Bool
	turnRight atomic.Bool
	// brake is tracked but no model consumes it
	brake   atomic.Bool
	pointer atomic.Uint64
}

// NewState creates an input state with defaults applied.
func NewState() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset clears all flags and centres the pointer target.
func (s *State) Reset() {
	s.forward.Store(false)
	s.turnLeft.Store(false)
	s.turnRight.Store(false)
	s.brake.Store(false)
	s.pointer.Store(math.Float64bits(DefaultPointerAngle))
}

// KeyDown marks the key's action held. It reports whether the key is bound.
func (s *State) KeyDown(key string) bool {
	return s.Set(ActionForKey(key), true)
}

// KeyUp releases the key's action. It reports whether the key is bound.
func (s *State) KeyUp(key string) bool {
	return s.Set(ActionForKey(key), false)
}

// Set writes a single action flag.
func (s *State) Set(a Action, down bool) bool {
	switch a {
	case ActionForward:
		s.forward.Store(down)
	case ActionTurnLeft:
		s.turnLeft.Store(down)
	case ActionTurnRight:
		s.turnRight.Store(down)
	case ActionBrake:
		s.brake.Store(down)
	default:
		return false
	}
	return true
}

// PointerMoved maps a horizontal pointer position to a target angle.
// The viewport centre maps to π and each edge to π∓π/2.
func (s *State) PointerMoved(x, viewportWidth float64) {
	if viewportWidth <= 0 {
		return
	}
	half := viewportWidth / 2
	dist := (x - half) / half
	s.pointer.Store(math.Float64bits(dist*(math.Pi/2) + math.Pi))
}

// SetPointerTargetAngle writes the pointer target directly.
func (s *State) SetPointerTargetAngle(angle float64) {
	s.pointer.Store(math.Float64bits(angle))
}

// Snapshot returns the current values.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Forward:            s.forward.Load(),
		TurnLeft:           s.turnLeft.Load(),
		TurnRight:          s.turnRight.Load(),
		Brake:              s.brake.Load(),
		PointerTargetAngle: math.Float64frombits(s.pointer.Load()),
	}
}
