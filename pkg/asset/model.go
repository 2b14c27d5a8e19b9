// pkg/asset/model.go
package asset

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// ErrAssetLoadFailed is returned, wrapped with the cause, when a boat model
// cannot be produced.
var ErrAssetLoadFailed = errors.New("asset load failed")

// Model is a loaded boat: a top-down sprite with the bow at the top edge,
// plus its size in world units.
type Model struct {
	Name   string
	Sprite *image.NRGBA
	Length float64
	Beam   float64
}

// Loader produces a boat model for a path.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, path string) (*Model, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, path string) (*Model, error) {
	return f(ctx, path)
}

func loadFailed(path string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrAssetLoadFailed, path, cause)
}
