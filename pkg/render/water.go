// pkg/render/water.go
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultWaterExtent is half the side of the square water plane.
const DefaultWaterExtent = 500.0

// Water colours shared by the hosts.
const (
	SkyColor   = 0x8fa0ff
	WaterColor = 0x4057c2
)

// wave is one travelling sine component of the surface.
type wave struct {
	amplitude float64
	length    float64
	speed     float64
	direction float64 // radians in the x/z plane
}

// Surface is the animated sea the boat floats on. Heights are purely
// decorative and do not feed back into the boat's motion.
type Surface struct {
	Level  float64
	Extent float64
	waves  []wave
}

// NewSurface creates a surface at the given rest level.
func NewSurface(level float64) *Surface {
	return &Surface{
		Level:  level,
		Extent: DefaultWaterExtent,
		waves: []wave{
			{amplitude: 0.12, length: 9, speed: 1.3, direction: 0.3},
			{amplitude: 0.06, length: 4.5, speed: 0.9, direction: 2.1},
			{amplitude: 0.03, length: 2, speed: 0.6, direction: 4.0},
		},
	}
}

// Height returns the water height at (x, z) and time t.
func (s *Surface) Height(x, z, t float64) float64 {
	h := s.Level
	for _, w := range s.waves {
		along := x*math.Cos(w.direction) + z*math.Sin(w.direction)
		h += w.amplitude * math.Sin(2*math.Pi/w.length*along-w.speed*t)
	}
	return h
}

// Amplitude returns the largest possible displacement from Level.
func (s *Surface) Amplitude() float64 {
	a := 0.0
	for _, w := range s.waves {
		a += w.amplitude
	}
	return a
}

// Contains reports whether (x, z) lies on the water plane.
func (s *Surface) Contains(x, z float64) bool {
	return math.Abs(x) <= s.Extent && math.Abs(z) <= s.Extent
}

// Grid returns surface points on a square grid of spacing step centred on
// the grid cell nearest center, n points per side. Points off the plane are
// skipped. Snapping to the grid keeps markers fixed in the world while the
// boat moves over them.
func (s *Surface) Grid(center mgl64.Vec3, n int, step, t float64) []mgl64.Vec3 {
	if n <= 0 || step <= 0 {
		return nil
	}
	cx := math.Round(center.X()/step) * step
	cz := math.Round(center.Z()/step) * step
	half := float64(n-1) / 2

	points := make([]mgl64.Vec3, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x := cx + (float64(i)-half)*step
			z := cz + (float64(j)-half)*step
			if !s.Contains(x, z) {
				continue
			}
			points = append(points, mgl64.Vec3{x, s.Height(x, z, t), z})
		}
	}
	return points
}
