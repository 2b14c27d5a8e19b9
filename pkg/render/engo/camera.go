// pkg/render/engo/camera.go
package engo

import (
	"math"

	"github.com/EngoEngine/engo"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-sailboat/pkg/camera"
	"github.com/opd-ai/go-sailboat/pkg/physics"
)

// Projector maps world points into viewport pixels. *engine.Simulation and
// *camera.Rig both satisfy it.
type Projector interface {
	Project(world mgl64.Vec3) (mgl64.Vec2, bool)
	Viewport() (int, int)
}

// ScreenCamera flattens the 3D follow camera onto engo's 2D screen space.
type ScreenCamera struct {
	projector Projector
	settings  camera.Settings
	pose      camera.Pose
}

// NewScreenCamera creates a screen camera for the given projector
func NewScreenCamera(p Projector, s camera.Settings) *ScreenCamera {
	return &ScreenCamera{projector: p, settings: s, pose: camera.Static(s)}
}

// SetPose sets the camera pose of the frame being drawn
func (sc *ScreenCamera) SetPose(p camera.Pose) {
	sc.pose = p
}

// ToScreen returns the screen point of a world point
func (sc *ScreenCamera) ToScreen(world mgl64.Vec3) (engo.Point, bool) {
	p, ok := sc.projector.Project(world)
	if !ok {
		return engo.Point{}, false
	}
	return engo.Point{X: float32(p.X()), Y: float32(p.Y())}, true
}

// PixelsPerUnit returns how many pixels one world unit covers at the depth
// of world. It is zero for points behind the near plane.
func (sc *ScreenCamera) PixelsPerUnit(world mgl64.Vec3) float64 {
	forward := sc.pose.LookAt.Sub(sc.pose.Position)
	if forward.Len() == 0 {
		return 0
	}
	depth := world.Sub(sc.pose.Position).Dot(forward.Normalize())
	if depth <= sc.settings.Near {
		return 0
	}
	_, height := sc.projector.Viewport()
	return float64(height) / (2 * math.Tan(mgl64.DegToRad(sc.settings.FOV)/2) * depth)
}

// HeadingAngle returns the on-screen direction of heading at pos, in degrees
// clockwise from screen up.
func (sc *ScreenCamera) HeadingAngle(pos mgl64.Vec3, heading float64) (float32, bool) {
	from, ok := sc.projector.Project(pos)
	if !ok {
		return 0, false
	}
	to, ok := sc.projector.Project(pos.Add(physics.FromHeading(heading, 1)))
	if !ok {
		return 0, false
	}
	d := to.Sub(from)
	if d.Len() < 1e-9 {
		return 0, false
	}
	return float32(mgl64.RadToDeg(math.Atan2(d.X(), -d.Y()))), true
}

// Horizon returns the screen row where the water plane meets the sky.
func (sc *ScreenCamera) Horizon(level float64) float32 {
	forward := physics.Planar(sc.pose.LookAt.Sub(sc.pose.Position))
	if forward.Len() == 0 {
		return 0
	}
	forward = forward.Normalize().Mul(sc.settings.Far * 0.9)
	far := mgl64.Vec3{sc.pose.Position.X() + forward.X(), level, sc.pose.Position.Z() + forward.Y()}

	p, ok := sc.projector.Project(far)
	if !ok {
		return 0
	}
	_, height := sc.projector.Viewport()
	return float32(math.Max(0, math.Min(float64(height), p.Y())))
}

// centeredAt returns the top-left position that puts the centre of a w×h
// sprite rotated by deg degrees at center. engo rotates around Position.
func centeredAt(center engo.Point, w, h, deg float32) engo.Point {
	rad := float64(deg) * math.Pi / 180
	sin, cos := math.Sincos(rad)
	hx, hy := float64(w)/2, float64(h)/2
	ox := hx*cos - hy*sin
	oy := hx*sin + hy*cos
	return engo.Point{X: center.X - float32(ox), Y: center.Y - float32(oy)}
}
