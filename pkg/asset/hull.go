// pkg/asset/hull.go
package asset

import (
	"context"
	"image"
	"image/color"
	"image/draw"
)

// HullModelName is the path that selects the built-in hull.
const HullModelName = "builtin:hull"

var (
	hullColor = color.NRGBA{R: 240, G: 236, B: 222, A: 255}
	deckColor = color.NRGBA{R: 150, G: 104, B: 62, A: 255}
	mastColor = color.NRGBA{R: 60, G: 44, B: 30, A: 255}
)

// hullPattern is a top-down sailboat, bow at row 0.
// 1 = hull, 2 = deck, 3 = mast.
var hullPattern = [][]int{
	{0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 2, 2, 1, 0, 0, 0, 0},
	{0, 0, 0, 1, 1, 2, 2, 1, 1, 0, 0, 0},
	{0, 0, 0, 1, 2, 2, 2, 2, 1, 0, 0, 0},
	{0, 0, 1, 1, 2, 2, 2, 2, 1, 1, 0, 0},
	{0, 0, 1, 2, 2, 3, 3, 2, 2, 1, 0, 0},
	{0, 0, 1, 2, 2, 3, 3, 2, 2, 1, 0, 0},
	{0, 1, 1, 2, 2, 2, 2, 2, 2, 1, 1, 0},
	{0, 1, 2, 2, 2, 2, 2, 2, 2, 2, 1, 0},
	{0, 1, 2, 2, 2, 2, 2, 2, 2, 2, 1, 0},
	{0, 1, 2, 2, 2, 2, 2, 2, 2, 2, 1, 0},
	{0, 1, 2, 2, 2, 2, 2, 2, 2, 2, 1, 0},
	{0, 1, 1, 2, 2, 2, 2, 2, 2, 1, 1, 0},
	{0, 0, 1, 1, 2, 2, 2, 2, 1, 1, 0, 0},
	{0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0, 0},
}

// HullLoader draws the built-in boat sprite. It ignores the path.
type HullLoader struct {
	// Scale is the number of pixels per pattern cell.
	Scale int
}

// Load renders the hull pattern.
func (l HullLoader) Load(ctx context.Context, path string) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, loadFailed(path, err)
	}

	scale := l.Scale
	if scale <= 0 {
		scale = 4
	}

	return &Model{
		Name:   HullModelName,
		Sprite: drawPattern(hullPattern, scale),
		Length: 2.0,
		Beam:   1.0,
	}, nil
}

// drawPattern paints a cell pattern onto a transparent image.
func drawPattern(pattern [][]int, scale int) *image.NRGBA {
	height := len(pattern)
	width := 0
	for _, row := range pattern {
		if len(row) > width {
			width = len(row)
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, width*scale, height*scale))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	for y, row := range pattern {
		for x, cell := range row {
			var c color.NRGBA
			switch cell {
			case 1:
				c = hullColor
			case 2:
				c = deckColor
			case 3:
				c = mastColor
			default:
				continue
			}
			cellRect := image.Rect(x*scale, y*scale, (x+1)*scale, (y+1)*scale)
			draw.Draw(img, cellRect, &image.Uniform{C: c}, image.Point{}, draw.Src)
		}
	}
	return img
}
