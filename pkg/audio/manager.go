// pkg/audio/manager.go
package audio

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/opd-ai/go-sailboat/pkg/logging"
)

// Manager owns the speaker and the wake sound
type Manager struct {
	mu          sync.Mutex
	sr          beep.SampleRate
	wake        *WakeStreamer
	volume      *effects.Volume
	ctrl        *beep.Ctrl
	logger      *logging.Logger
	initialized bool
}

// NewManager creates a manager for the given sample rate and volume in [0, 1]
func NewManager(sampleRate int, volume float64, logger *logging.Logger) *Manager {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	if logger == nil {
		logger = logging.Discard()
	}

	sr := beep.SampleRate(sampleRate)
	wake := NewWakeStreamer(sr)
	vol := &effects.Volume{
		Streamer: wake,
		Base:     2,
		Volume:   volumeExponent(volume),
		Silent:   volume <= 0,
	}

	return &Manager{
		sr:     sr,
		wake:   wake,
		volume: vol,
		ctrl:   &beep.Ctrl{Streamer: vol},
		logger: logger.With("component", "audio"),
	}
}

// volumeExponent maps a linear [0, 1] volume to beep's base-2 exponent
func volumeExponent(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Log2(math.Min(v, 1))
}

// Initialize opens the audio device and starts the wake stream
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	if err := speaker.Init(m.sr, m.sr.N(100*time.Millisecond)); err != nil {
		return logging.WrapError(err, "initializing speaker at %d Hz", int(m.sr))
	}

	speaker.Play(m.ctrl)
	m.initialized = true
	m.logger.Info(ctx, "audio started", "sample_rate", int(m.sr))
	return nil
}

// SetThrottle sets the wake loudness from the boat's throttle in [0, 1]
func (m *Manager) SetThrottle(throttle float64) {
	m.wake.SetLevel(throttle)
}

// SetPaused mutes or resumes the wake
func (m *Manager) SetPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		m.ctrl.Paused = paused
		return
	}
	speaker.Lock()
	m.ctrl.Paused = paused
	speaker.Unlock()
}

// Close stops playback and releases the device
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	m.initialized = false
}

// Wake returns the wake streamer
func (m *Manager) Wake() *WakeStreamer {
	return m.wake
}
