// pkg/render/engo/assets.go
package engo

import (
	"image"
	"image/color"
	"sync"

	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-sailboat/pkg/asset"
)

// markerSize is the side of the water marker sprite in pixels.
const markerSize = 8

// AssetManager turns loaded models into engo textures. Textures need a GL
// context, so they are built lazily on the render goroutine.
type AssetManager struct {
	mu     sync.Mutex
	boats  map[string]common.Drawable
	marker common.Drawable
	upload func(*image.NRGBA) common.Drawable
}

// NewAssetManager creates an empty asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{
		boats:  make(map[string]common.Drawable),
		upload: convertToEngoTexture,
	}
}

// BoatSprite returns the texture for a model, uploading it on first use.
func (am *AssetManager) BoatSprite(model *asset.Model) common.Drawable {
	if model == nil || model.Sprite == nil {
		return nil
	}

	am.mu.Lock()
	defer am.mu.Unlock()

	if sprite, exists := am.boats[model.Name]; exists {
		return sprite
	}
	sprite := am.upload(model.Sprite)
	am.boats[model.Name] = sprite
	return sprite
}

// MarkerSprite returns the soft dot used for water markers
func (am *AssetManager) MarkerSprite() common.Drawable {
	am.mu.Lock()
	defer am.mu.Unlock()

	if am.marker == nil {
		am.marker = am.upload(markerImage(markerSize))
	}
	return am.marker
}

// markerImage draws a round white dot that fades toward the rim. The render
// component colour tints it.
func markerImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float64(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			d := (dx*dx + dy*dy) / (c*c + 0.25)
			if d > 1 {
				continue
			}
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, uint8(255 * (1 - d*d))})
		}
	}
	return img
}

// convertToEngoTexture uploads an image as an engo texture
func convertToEngoTexture(img *image.NRGBA) common.Drawable {
	texture := common.NewImageObject(img)
	return common.NewTextureSingle(texture)
}
