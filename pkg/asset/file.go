// pkg/asset/file.go
package asset

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// DefaultSpriteSize is the edge length, in pixels, sprites are resampled to.
const DefaultSpriteSize = 64

// FileLoader decodes a PNG or JPEG boat sprite from disk.
type FileLoader struct {
	Size   int
	Length float64
	Beam   float64
}

// Load reads, decodes and resamples the sprite at path.
func (l FileLoader) Load(ctx context.Context, path string) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, loadFailed(path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, loadFailed(path, err)
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return nil, loadFailed(path, fmt.Errorf("decode: %w", err))
	}
	if src.Bounds().Empty() {
		return nil, loadFailed(path, fmt.Errorf("empty %s image", format))
	}

	if err := ctx.Err(); err != nil {
		return nil, loadFailed(path, err)
	}

	size := l.Size
	if size <= 0 {
		size = DefaultSpriteSize
	}
	length, beam := l.Length, l.Beam
	if length <= 0 {
		length = 2
	}
	if beam <= 0 {
		beam = length / 2
	}

	return &Model{
		Name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Sprite: Resample(src, size),
		Length: length,
		Beam:   beam,
	}, nil
}

// Resample scales src to fit a size×size box, keeping its aspect ratio.
func Resample(src image.Image, size int) *image.NRGBA {
	b := src.Bounds()
	w, h := size, size
	if b.Dx() > b.Dy() {
		h = max(1, size*b.Dy()/b.Dx())
	} else if b.Dy() > b.Dx() {
		w = max(1, size*b.Dx()/b.Dy())
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// ForPath picks the loader for a configured model path.
func ForPath(path string) Loader {
	if path == "" || path == HullModelName {
		return HullLoader{}
	}
	return FileLoader{}
}
