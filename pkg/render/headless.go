// pkg/render/headless.go
package render

import (
	"context"

	"github.com/opd-ai/go-sailboat/pkg/clock"
	"github.com/opd-ai/go-sailboat/pkg/engine"
)

// FrameHook runs after each headless frame is drawn. Returning false stops
// the loop.
type FrameHook func(frame engine.Frame) bool

// RunHeadless steps sim without a window. It stops after frames frames
// (0 means until ctx is done), when hook returns false, or when ctx is
// cancelled, and returns the number of frames stepped.
func RunHeadless(ctx context.Context, sim *engine.Simulation, clk clock.FrameClock, r Renderer, frames uint64, hook FrameHook) (uint64, error) {
	if r == nil {
		r = NewNullRenderer(nil)
	}

	var n uint64
	for frames == 0 || n < frames {
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		default:
		}

		delta, elapsed := clk.Tick()
		frame := sim.Step(delta, elapsed)
		r.Draw(frame)
		n++

		if hook != nil && !hook(frame) {
			break
		}
	}
	return n, nil
}
