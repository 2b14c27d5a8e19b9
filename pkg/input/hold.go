// pkg/input/hold.go
package input

import (
	"sync"
	"time"
)

// DefaultHoldWindow is how long a press counts as held without a repeat.
const DefaultHoldWindow = 150 * time.Millisecond

// HoldTracker emulates key-up events for hosts that only report presses,
// such as terminals. Each press holds its action for the hold window and
// auto-repeat presses extend it.
type HoldTracker struct {
	state  *State
	window time.Duration

	mu       sync.Mutex
	deadline map[Action]time.Time
}

// NewHoldTracker creates a tracker writing into state.
func NewHoldTracker(state *State, window time.Duration) *HoldTracker {
	if window <= 0 {
		window = DefaultHoldWindow
	}
	return &HoldTracker{
		state:    state,
		window:   window,
		deadline: make(map[Action]time.Time),
	}
}

// Press marks the key held until now+window. It reports whether the key is bound.
func (h *HoldTracker) Press(key string, now time.Time) bool {
	a := ActionForKey(key)
	if a == ActionNone {
		return false
	}

	h.mu.Lock()
	h.deadline[a] = now.Add(h.window)
	h.mu.Unlock()

	h.state.Set(a, true)
	return true
}

// Expire releases every action whose hold window has passed.
func (h *HoldTracker) Expire(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for a, until := range h.deadline {
		if !now.Before(until) {
			h.state.Set(a, false)
			delete(h.deadline, a)
		}
	}
}

// ReleaseAll drops every held action.
func (h *HoldTracker) ReleaseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for a := range h.deadline {
		h.state.Set(a, false)
		delete(h.deadline, a)
	}
}

// Held returns the number of actions currently held.
func (h *HoldTracker) Held() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.deadline)
}
