// pkg/engine/otel.go
package engine

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/opd-ai/go-sailboat/pkg/engine"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// metrics are recorded against the global meter provider, a no-op unless
// the host installs one.
type metrics struct {
	frames       metric.Int64Counter
	frameDelta   metric.Float64Histogram
	forwardSpeed metric.Float64Histogram
	assetLoads   metric.Int64Counter
}

func newMetrics() (*metrics, error) {
	m := meter()
	var (
		out metrics
		err error
	)

	out.frames, err = m.Int64Counter(
		"sailboat.frames",
		metric.WithDescription("Simulation frames stepped"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frame counter: %w", err)
	}

	out.frameDelta, err = m.Float64Histogram(
		"sailboat.frame.delta",
		metric.WithDescription("Frame delta time"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frame delta histogram: %w", err)
	}

	out.forwardSpeed, err = m.Float64Histogram(
		"sailboat.boat.forward_speed",
		metric.WithDescription("Boat forward velocity per reference frame"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating forward speed histogram: %w", err)
	}

	out.assetLoads, err = m.Int64Counter(
		"sailboat.asset.loads",
		metric.WithDescription("Boat model loads by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating asset load counter: %w", err)
	}

	return &out, nil
}
