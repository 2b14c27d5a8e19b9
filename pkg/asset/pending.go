// pkg/asset/pending.go
package asset

import (
	"context"
	"fmt"
	"sync"
)

// State is the progress of an asynchronous load.
type State int

const (
	Loading State = iota
	Ready
	Failed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type result struct {
	model *Model
	err   error
}

// Pending is a load running in the background. It resolves exactly once.
type Pending struct {
	path   string
	done   chan struct{}
	cancel context.CancelFunc

	mu    sync.Mutex
	state State
	model *Model
	err   error
}

// Start runs loader.Load(path) on its own goroutine.
func Start(ctx context.Context, loader Loader, path string) *Pending {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pending{
		path:   path,
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer cancel()
		r := load(ctx, loader, path)

		p.mu.Lock()
		p.resolve(r)
		p.mu.Unlock()
		close(p.done)
	}()

	return p
}

func load(ctx context.Context, loader Loader, path string) (r result) {
	defer func() {
		if rec := recover(); rec != nil {
			r = result{err: loadFailed(path, fmt.Errorf("loader panic: %v", rec))}
		}
	}()

	model, err := loader.Load(ctx, path)
	switch {
	case err != nil:
		return result{err: loadFailed(path, err)}
	case model == nil || model.Sprite == nil:
		return result{err: loadFailed(path, fmt.Errorf("loader returned no sprite"))}
	}
	return result{model: model}
}

// Path returns the requested path.
func (p *Pending) Path() string {
	return p.path
}

// Done is closed once the load resolves.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Poll reports the load state without blocking.
func (p *Pending) Poll() (State, *Model, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.model, p.err
}

// Wait blocks until the load resolves or ctx ends.
func (p *Pending) Wait(ctx context.Context) (*Model, error) {
	select {
	case <-p.done:
		_, model, err := p.Poll()
		return model, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel abandons the load. A load that has not finished resolves as Failed.
func (p *Pending) Cancel() {
	p.cancel()
}

func (p *Pending) resolve(r result) {
	if r.err != nil {
		p.state = Failed
		p.err = r.err
		return
	}
	p.state = Ready
	p.model = r.model
}

// Resolved returns a Pending that has already finished.
func Resolved(model *Model, err error) *Pending {
	p := &Pending{done: make(chan struct{}), cancel: func() {}}
	if model != nil {
		p.path = model.Name
	}
	if model == nil && err == nil {
		err = fmt.Errorf("no model")
	}
	r := result{model: model, err: err}
	if err != nil {
		r = result{err: loadFailed(p.path, err)}
	}
	p.resolve(r)
	close(p.done)
	return p
}
