// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-sailboat/pkg/engine"
	"github.com/opd-ai/go-sailboat/pkg/logging"
)

// Renderer draws one simulation frame
type Renderer interface {
	Draw(frame engine.Frame)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(frame engine.Frame)

// Draw calls f(frame)
func (f RendererFunc) Draw(frame engine.Frame) {
	f(frame)
}

// NullRenderer logs frames instead of drawing them.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
// A nil logger discards output.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &NullRenderer{
		logger: logger.With("component", "null_renderer"),
	}
}

// Draw implements Renderer.
func (d *NullRenderer) Draw(frame engine.Frame) {
	ctx := context.Background()
	if !frame.HasBoat() {
		d.logger.Debug(ctx, "Draw called without boat",
			"frame", frame.Number,
			"state", frame.State.String(),
		)
		return
	}
	d.logger.Debug(ctx, "Draw called",
		"frame", frame.Number,
		"state", frame.State.String(),
		"x", frame.Pose.Position.X(),
		"z", frame.Pose.Position.Z(),
		"heading", frame.Motion.Heading,
		"speed", frame.Motion.ForwardVelocity,
	)
}
