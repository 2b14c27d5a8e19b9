// pkg/camera/rig.go
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Settings holds the rig's orbit and lens parameters.
type Settings struct {
	OrbitRadius  float64
	HeightOffset float64
	FOV          float64 // vertical field of view, degrees
	Near         float64
	Far          float64
}

// DefaultSettings returns the stock trailing camera.
func DefaultSettings() Settings {
	return Settings{
		OrbitRadius:  8,
		HeightOffset: 2,
		FOV:          75,
		Near:         0.1,
		Far:          100,
	}
}

// Pose is the camera eye and its look-at target.
type Pose struct {
	Position mgl64.Vec3
	LookAt   mgl64.Vec3
}

// Follow places the camera on the orbit around target at angle yaw,
// aimed at target. The planar distance to target is always the orbit radius.
func Follow(target mgl64.Vec3, yaw float64, s Settings) Pose {
	return Pose{
		Position: mgl64.Vec3{
			target.X() + math.Sin(yaw)*s.OrbitRadius,
			target.Y() + s.HeightOffset,
			target.Z() + math.Cos(yaw)*s.OrbitRadius,
		},
		LookAt: target,
	}
}

// Static is the pose used while no boat is available.
func Static(s Settings) Pose {
	return Pose{
		Position: mgl64.Vec3{0, s.HeightOffset, s.OrbitRadius},
		LookAt:   mgl64.Vec3{},
	}
}

// Rig owns the camera pose and projection for one viewport.
type Rig struct {
	settings Settings
	pose     Pose

	width, height int
	aspect        float64
	projection    mgl64.Mat4
}

// NewRig creates a rig for a viewport, starting in the static pose.
func NewRig(s Settings, width, height int) *Rig {
	r := &Rig{
		settings: s,
		pose:     Static(s),
		width:    1,
		height:   1,
		aspect:   1,
	}
	r.Resize(width, height)
	if r.projection == (mgl64.Mat4{}) {
		r.projection = mgl64.Perspective(mgl64.DegToRad(s.FOV), r.aspect, s.Near, s.Far)
	}
	return r
}

// Settings returns the rig configuration.
func (r *Rig) Settings() Settings {
	return r.settings
}

// Follow recomputes the pose around target. Call it after the target's pose is final.
func (r *Rig) Follow(target mgl64.Vec3, yaw float64) Pose {
	r.pose = Follow(target, yaw, r.settings)
	return r.pose
}

// Reset moves the camera back to the static pose.
func (r *Rig) Reset() Pose {
	r.pose = Static(r.settings)
	return r.pose
}

// Pose returns the current camera pose.
func (r *Rig) Pose() Pose {
	return r.pose
}

// Resize updates the viewport and projection. Non-positive sizes are ignored.
func (r *Rig) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	r.width, r.height = width, height
	r.aspect = float64(width) / float64(height)
	r.projection = mgl64.Perspective(mgl64.DegToRad(r.settings.FOV), r.aspect, r.settings.Near, r.settings.Far)
	return true
}

// Viewport returns the viewport size in pixels.
func (r *Rig) Viewport() (int, int) {
	return r.width, r.height
}

// Aspect returns width/height.
func (r *Rig) Aspect() float64 {
	return r.aspect
}

// View returns the look-at matrix for the current pose.
func (r *Rig) View() mgl64.Mat4 {
	return View(r.pose)
}

// View returns the look-at matrix for a pose.
func View(p Pose) mgl64.Mat4 {
	return mgl64.LookAtV(p.Position, p.LookAt, mgl64.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix.
func (r *Rig) Projection() mgl64.Mat4 {
	return r.projection
}

// Project maps a world point to viewport pixels with the origin at the top left.
// It reports false for points behind the camera or outside the depth range.
func (r *Rig) Project(world mgl64.Vec3) (mgl64.Vec2, bool) {
	view := r.View()

	clip := r.projection.Mul4(view).Mul4x1(world.Vec4(1))
	w := clip.W()
	if w <= 0 || clip.Z() < -w || clip.Z() > w {
		return mgl64.Vec2{}, false
	}

	win := mgl64.Project(world, view, r.projection, 0, 0, r.width, r.height)
	return mgl64.Vec2{win.X(), float64(r.height) - win.Y()}, true
}
