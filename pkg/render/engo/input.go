// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-sailboat/pkg/input"
)

// Button names registered with engo
const (
	ButtonForward   = "forward"
	ButtonTurnLeft  = "turnLeft"
	ButtonTurnRight = "turnRight"
	ButtonBrake     = "brake"
)

var buttonActions = []struct {
	name   string
	action input.Action
}{
	{ButtonForward, input.ActionForward},
	{ButtonTurnLeft, input.ActionTurnLeft},
	{ButtonTurnRight, input.ActionTurnRight},
	{ButtonBrake, input.ActionBrake},
}

// ButtonReader reports whether a registered button is held
type ButtonReader interface {
	Down(name string) bool
}

// PointerReader returns the pointer x position and the width it spans
type PointerReader func() (x, width float32)

type engoButtons struct{}

func (engoButtons) Down(name string) bool {
	return engo.Input.Button(name).Down()
}

func engoPointer() (float32, float32) {
	return engo.Input.Mouse.X, engo.GameWidth()
}

// InputSystem copies engo's keyboard and mouse state into the simulation
// input each frame.
type InputSystem struct {
	state   *input.State
	buttons ButtonReader
	pointer PointerReader

	lastX float32
}

// NewInputSystem creates an input system. Nil readers use engo's input.
func NewInputSystem(state *input.State, buttons ButtonReader, pointer PointerReader) *InputSystem {
	if buttons == nil {
		buttons = engoButtons{}
	}
	if pointer == nil {
		pointer = engoPointer
	}
	return &InputSystem{
		state:   state,
		buttons: buttons,
		pointer: pointer,
	}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {
	// Not used for input system
}

// Update samples held buttons and pointer motion
func (is *InputSystem) Update(dt float32) {
	for _, b := range buttonActions {
		is.state.Set(b.action, is.buttons.Down(b.name))
	}

	// the pointer target keeps its default until the mouse first moves
	x, width := is.pointer()
	if x != is.lastX {
		is.state.PointerMoved(float64(x), float64(width))
		is.lastX = x
	}
}

// SetupInputBindings sets up the key bindings for sailing
func SetupInputBindings() {
	engo.Input.RegisterButton(ButtonForward, engo.KeyW, engo.KeyArrowUp)
	engo.Input.RegisterButton(ButtonTurnLeft, engo.KeyA, engo.KeyArrowLeft)
	engo.Input.RegisterButton(ButtonTurnRight, engo.KeyD, engo.KeyArrowRight)
	engo.Input.RegisterButton(ButtonBrake, engo.KeyS, engo.KeyArrowDown)
}
