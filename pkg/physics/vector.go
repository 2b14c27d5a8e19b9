// pkg/physics/vector.go
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// TwoPi is one full turn in radians.
const TwoPi = 2 * math.Pi

// WorldUp is the up axis of the Y-up world.
var WorldUp = mgl64.Vec3{0, 1, 0}

// Planar drops the vertical component, returning (x, z).
func Planar(v mgl64.Vec3) mgl64.Vec2 {
	return mgl64.Vec2{v.X(), v.Z()}
}

// PlanarDistance returns the distance between two points on the water plane.
func PlanarDistance(a, b mgl64.Vec3) float64 {
	return Planar(a).Sub(Planar(b)).Len()
}

// FromHeading returns the direction of travel for a heading, scaled by magnitude.
// A boat with heading h moves along (-sin h, 0, -cos h).
func FromHeading(heading float64, magnitude float64) mgl64.Vec3 {
	return mgl64.Vec3{
		-magnitude * math.Sin(heading),
		0,
		-magnitude * math.Cos(heading),
	}
}

// OrbitOffset returns the planar offset of a point orbiting at radius and angle yaw.
func OrbitOffset(yaw, radius float64) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Sin(yaw) * radius,
		0,
		math.Cos(yaw) * radius,
	}
}

// NormalizeAngle wraps an angle into [0, 2π).
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(angle, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// math.Mod of a tiny negative value can round up to exactly 2π
	if a >= TwoPi {
		a = 0
	}
	return a
}
