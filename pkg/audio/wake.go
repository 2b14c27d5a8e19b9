// pkg/audio/wake.go
package audio

import (
	"math"
	"sync/atomic"

	"github.com/gopxl/beep"
)

// WakeStreamer synthesizes the hiss of water along the hull: low-passed
// noise whose loudness follows the boat's throttle.
type WakeStreamer struct {
	sr    beep.SampleRate
	level atomic.Uint64 // float64 bits, target amplitude in [0, 1]

	seed    uint32
	lowPass float64
	gain    float64
	pos     int
}

// NewWakeStreamer creates a silent wake generator.
func NewWakeStreamer(sr beep.SampleRate) *WakeStreamer {
	return &WakeStreamer{sr: sr, seed: 0x2545f491}
}

// SetLevel sets the target loudness. It is safe to call from the frame loop
// while the speaker goroutine streams.
func (w *WakeStreamer) SetLevel(level float64) {
	level = math.Max(0, math.Min(1, level))
	w.level.Store(math.Float64bits(level))
}

// Level returns the target loudness.
func (w *WakeStreamer) Level() float64 {
	return math.Float64frombits(w.level.Load())
}

// Stream fills samples with wake noise. It never ends.
func (w *WakeStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	target := w.Level()
	// per-sample glide toward the target, about 50 ms
	glide := 1 / (0.05 * float64(w.sr))
	// cutoff rises with speed so fast sailing sounds brighter
	alpha := 0.02 + 0.08*target

	for i := range samples {
		w.seed = w.seed*1664525 + 1013904223
		noise := float64(w.seed)/float64(math.MaxUint32)*2 - 1
		w.lowPass += alpha * (noise - w.lowPass)

		w.gain += (target - w.gain) * math.Min(1, glide)

		// slow swell of passing waves
		t := float64(w.pos) / float64(w.sr)
		swell := 0.8 + 0.2*math.Sin(2*math.Pi*0.3*t)

		sample := w.lowPass * w.gain * swell * 0.6
		samples[i][0] = sample
		samples[i][1] = sample
		w.pos++
	}
	return len(samples), true
}

// Err always returns nil.
func (w *WakeStreamer) Err() error {
	return nil
}
