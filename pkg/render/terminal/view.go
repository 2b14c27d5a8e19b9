// pkg/render/terminal/view.go
package terminal

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-sailboat/pkg/engine"
	"github.com/opd-ai/go-sailboat/pkg/physics"
	"github.com/opd-ai/go-sailboat/pkg/render"
)

// cellAspect is how many columns make up the height of one row.
const cellAspect = 2.0

// DefaultScale is world units per terminal row.
const DefaultScale = 0.5

var (
	skyStyle   = tcell.StyleDefault.Background(tcell.NewHexColor(render.SkyColor)).Foreground(tcell.ColorBlack)
	waterBg    = tcell.NewHexColor(render.WaterColor)
	boatStyle  = tcell.StyleDefault.Background(waterBg).Foreground(tcell.ColorWhite).Bold(true)
	wakeStyle  = tcell.StyleDefault.Background(waterBg).Foreground(tcell.NewRGBColor(200, 210, 255))
	waterGlyph = []rune{' ', '.', '~', '≈'}
	waterFg    = []tcell.Color{
		tcell.NewRGBColor(64, 87, 194),
		tcell.NewRGBColor(96, 120, 214),
		tcell.NewRGBColor(140, 160, 230),
		tcell.NewRGBColor(190, 205, 250),
	}
	// boat glyphs by screen direction, clockwise from up
	boatGlyph = []rune{'▲', '◥', '▶', '◢', '▼', '◣', '◀', '◤'}
)

// View draws a top-down picture of the scene into a tcell screen. The picture
// is centred on the camera target and rotated so the camera looks up the
// screen.
type View struct {
	screen  tcell.Screen
	surface *render.Surface
	scale   float64
}

// NewView creates a view drawing onto screen. A non-positive scale uses
// DefaultScale.
func NewView(screen tcell.Screen, surface *render.Surface, scale float64) *View {
	if scale <= 0 {
		scale = DefaultScale
	}
	if surface == nil {
		surface = render.NewSurface(0)
	}
	return &View{screen: screen, surface: surface, scale: scale}
}

// basis returns the planar camera forward and right vectors.
func basis(cam mgl64.Vec3, target mgl64.Vec3) (forward, right mgl64.Vec2) {
	d := physics.Planar(target.Sub(cam))
	if d.Len() < 1e-9 {
		d = mgl64.Vec2{0, -1}
	}
	forward = d.Normalize()
	right = mgl64.Vec2{-forward.Y(), forward.X()}
	return forward, right
}

// projector maps between world x/z and screen cells.
type projector struct {
	center         mgl64.Vec2
	forward, right mgl64.Vec2
	cx, cy         int
	scale          float64
}

func (p projector) toCell(world mgl64.Vec3) (int, int) {
	rel := physics.Planar(world).Sub(p.center)
	col := p.cx + int(math.Round(rel.Dot(p.right)/p.scale*cellAspect))
	row := p.cy - int(math.Round(rel.Dot(p.forward)/p.scale))
	return col, row
}

func (p projector) toWorld(col, row int) mgl64.Vec2 {
	rx := float64(col-p.cx) * p.scale / cellAspect
	ry := float64(p.cy-row) * p.scale
	return p.center.Add(p.right.Mul(rx)).Add(p.forward.Mul(ry))
}

func (v *View) projector(frame engine.Frame, width, height int) projector {
	forward, right := basis(frame.Camera.Position, frame.Camera.LookAt)
	return projector{
		center:  physics.Planar(frame.Camera.LookAt),
		forward: forward,
		right:   right,
		cx:      width / 2,
		cy:      height / 2,
		scale:   v.scale,
	}
}

// Draw implements render.Renderer.
func (v *View) Draw(frame engine.Frame) {
	v.screen.Clear()
	width, height := v.screen.Size()
	if width <= 0 || height <= 2 {
		v.screen.Show()
		return
	}

	p := v.projector(frame, width, height)
	v.drawWater(p, frame.Elapsed, width, height)
	if frame.HasBoat() {
		v.drawBoat(p, frame)
	}
	v.drawHUD(frame, width, height)
	v.screen.Show()
}

func (v *View) drawWater(p projector, elapsed float64, width, height int) {
	amp := v.surface.Amplitude()
	for row := 1; row < height-1; row++ {
		for col := 0; col < width; col++ {
			w := p.toWorld(col, row)
			if !v.surface.Contains(w.X(), w.Y()) {
				v.screen.SetContent(col, row, ' ', nil, skyStyle)
				continue
			}
			level := 0
			if amp > 0 {
				n := (v.surface.Height(w.X(), w.Y(), elapsed) - v.surface.Level + amp) / (2 * amp)
				level = int(math.Min(float64(len(waterGlyph)-1), math.Max(0, n*float64(len(waterGlyph)))))
			}
			style := tcell.StyleDefault.Background(waterBg).Foreground(waterFg[level])
			v.screen.SetContent(col, row, waterGlyph[level], nil, style)
		}
	}
}

// glyphFor picks the boat glyph pointing along heading in screen space.
func glyphFor(p projector, heading float64) rune {
	dir := physics.Planar(physics.FromHeading(heading, 1))
	angle := math.Atan2(dir.Dot(p.right), dir.Dot(p.forward))
	sector := int(math.Round(physics.NormalizeAngle(angle)/(math.Pi/4))) % len(boatGlyph)
	return boatGlyph[sector]
}

func (v *View) drawBoat(p projector, frame engine.Frame) {
	width, height := v.screen.Size()
	inside := func(col, row int) bool {
		return col >= 0 && col < width && row >= 1 && row < height-1
	}

	// wake trails behind the hull, longer at speed
	if frame.Throttle > 0 {
		steps := 1 + int(frame.Throttle*4)
		back := physics.FromHeading(frame.Motion.Heading, -v.scale)
		for i := 1; i <= steps; i++ {
			col, row := p.toCell(frame.Pose.Position.Add(back.Mul(float64(i))))
			if inside(col, row) {
				v.screen.SetContent(col, row, '·', nil, wakeStyle)
			}
		}
	}

	col, row := p.toCell(frame.Pose.Position)
	if inside(col, row) {
		v.screen.SetContent(col, row, glyphFor(p, frame.Motion.Heading), nil, boatStyle)
	}
}

func (v *View) drawHUD(frame engine.Frame, width, height int) {
	var status string
	switch frame.State {
	case engine.NotReady:
		status = "loading boat..."
	case engine.Degraded:
		status = "boat model unavailable"
	default:
		status = fmt.Sprintf("speed %4.2f  heading %3.0f°  turn %+.3f",
			frame.Motion.ForwardVelocity,
			mgl64.RadToDeg(physics.NormalizeAngle(frame.Motion.Heading)),
			frame.Motion.TurnVelocity)
	}
	drawText(v.screen, 0, 0, width, fmt.Sprintf(" %s  %s ", frame.State, status), skyStyle)
	drawText(v.screen, 0, height-1, width, " W/↑ sail  A/← D/→ turn  mouse orbit  m mute  q quit ", skyStyle)
}

func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= width {
			return
		}
		s.SetContent(col, y, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		s.SetContent(col, y, ' ', nil, style)
	}
}
