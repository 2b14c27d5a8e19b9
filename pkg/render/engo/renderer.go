// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-sailboat/pkg/engine"
	"github.com/opd-ai/go-sailboat/pkg/render"
)

// Grid of water markers drawn around the camera target
const (
	DefaultGridSize = 21
	DefaultGridStep = 2.0
)

// sprite is one drawable entity
type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

func newSprite(drawable common.Drawable, c color.Color, z float32) *sprite {
	s := &sprite{BasicEntity: ecs.NewBasic()}
	s.Drawable = drawable
	s.Color = c
	s.Scale = engo.Point{X: 1, Y: 1}
	s.Hidden = true
	s.SetZIndex(z)
	return s
}

// EngoRenderer implements render.Renderer using the Engo game engine
type EngoRenderer struct {
	renderSystem *common.RenderSystem
	camera       *ScreenCamera
	surface      *render.Surface
	assets       *AssetManager

	gridSize int
	gridStep float64

	water   *sprite
	boat    *sprite
	markers []*sprite
}

// NewEngoRenderer creates a new Engo-based renderer
func NewEngoRenderer(rs *common.RenderSystem, cam *ScreenCamera, surface *render.Surface) *EngoRenderer {
	return &EngoRenderer{
		renderSystem: rs,
		camera:       cam,
		surface:      surface,
		assets:       NewAssetManager(),
		gridSize:     DefaultGridSize,
		gridStep:     DefaultGridStep,
	}
}

// Initialize creates the water, marker and boat entities. It needs a GL
// context.
func (r *EngoRenderer) Initialize() {
	r.water = newSprite(common.Rectangle{}, hexColor(render.WaterColor), 0)
	r.add(r.water)

	marker := r.assets.MarkerSprite()
	r.markers = make([]*sprite, r.gridSize*r.gridSize)
	for i := range r.markers {
		r.markers[i] = newSprite(marker, color.White, 1)
		r.add(r.markers[i])
	}

	r.boat = newSprite(nil, color.White, 2)
	r.add(r.boat)
}

func (r *EngoRenderer) add(s *sprite) {
	r.renderSystem.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
}

// Draw implements render.Renderer
func (r *EngoRenderer) Draw(frame engine.Frame) {
	r.camera.SetPose(frame.Camera)
	width, height := r.camera.projector.Viewport()

	horizon := r.camera.Horizon(r.surface.Level)
	r.water.Position = engo.Point{X: 0, Y: horizon}
	r.water.Width = float32(width)
	r.water.Height = float32(height) - horizon
	r.water.Hidden = r.water.Height <= 0

	r.drawMarkers(frame, horizon)
	r.drawBoat(frame)
}

func (r *EngoRenderer) drawMarkers(frame engine.Frame, horizon float32) {
	points := r.surface.Grid(frame.Camera.LookAt, r.gridSize, r.gridStep, frame.Elapsed)
	amp := r.surface.Amplitude()

	for i, m := range r.markers {
		m.Hidden = true
		if i >= len(points) {
			continue
		}
		p := points[i]
		pt, ok := r.camera.ToScreen(p)
		ppu := r.camera.PixelsPerUnit(p)
		if !ok || ppu <= 0 || pt.Y < horizon {
			continue
		}

		size := float32(math.Max(1, math.Min(12, ppu*0.15)))
		m.Width, m.Height = size, size
		m.Scale = engo.Point{X: size / markerSize, Y: size / markerSize}
		m.Position = engo.Point{X: pt.X - size/2, Y: pt.Y - size/2}

		frac := 0.5
		if amp > 0 {
			frac = (p.Y() - r.surface.Level + amp) / (2 * amp)
		}
		m.Color = markerColor(frac)
		m.Hidden = false
	}
}

func (r *EngoRenderer) drawBoat(frame engine.Frame) {
	r.boat.Hidden = true
	if !frame.HasBoat() {
		return
	}
	drawable := r.assets.BoatSprite(frame.Boat)
	if drawable == nil || drawable.Width() == 0 || drawable.Height() == 0 {
		return
	}

	pos := frame.Pose.Position
	center, ok := r.camera.ToScreen(pos)
	ppu := r.camera.PixelsPerUnit(pos)
	if !ok || ppu <= 0 {
		return
	}
	angle, ok := r.camera.HeadingAngle(pos, frame.Motion.Heading)
	if !ok {
		return
	}

	w := float32(frame.Boat.Beam * ppu)
	h := float32(frame.Boat.Length * ppu)
	r.boat.Drawable = drawable
	r.boat.Scale = engo.Point{X: w / drawable.Width(), Y: h / drawable.Height()}
	r.boat.Width, r.boat.Height = w, h
	r.boat.Rotation = angle
	r.boat.Position = centeredAt(center, w, h, angle)
	r.boat.Hidden = false
}

// hexColor converts 0xRRGGBB to a colour
func hexColor(hex uint32) color.RGBA {
	return color.RGBA{R: uint8(hex >> 16), G: uint8(hex >> 8), B: uint8(hex), A: 255}
}

// markerColor blends from the water colour at troughs to foam at crests
func markerColor(frac float64) color.RGBA {
	frac = math.Max(0, math.Min(1, frac))
	water := hexColor(render.WaterColor)
	lerp := func(a uint8) uint8 {
		return uint8(float64(a) + (255-float64(a))*(0.3+0.7*frac))
	}
	return color.RGBA{R: lerp(water.R), G: lerp(water.G), B: lerp(water.B), A: 255}
}
