package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glview/internal/engine/input"
)

// Orbit orbits around a center point.
type Orbit struct {
	Center mgl32.Vec3

	// Spherical coordinates
	Distance  float32
	RotationX float32 // pitch, radians
	RotationY float32 // yaw, radians

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32 // radians per pixel
	ZoomSensitivity float32 // fraction of distance per wheel step
	Fov             float32

	home orbitState
}

// orbitState is the reset target of an Orbit camera.
type orbitState struct {
	Center    mgl32.Vec3
	Distance  float32
	RotationX float32
	RotationY float32
}

// NewOrbit creates an orbit camera around the origin.
func NewOrbit(fov float32) *Orbit {
	c := &Orbit{
		Distance:        3,
		RotationX:       0.3,
		MinDistance:     0.05,
		MaxDistance:     1000,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		Fov:             fov,
	}
	c.home = c.snapshot()
	return c
}

func (c *Orbit) snapshot() orbitState {
	return orbitState{Center: c.Center, Distance: c.Distance, RotationX: c.RotationX, RotationY: c.RotationY}
}

// Position returns the camera position in world space.
func (c *Orbit) Position() mgl32.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))
	return c.Center.Add(mgl32.Vec3{x, y, z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *Orbit) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, worldUp)
}

// FOV implements Camera.
func (c *Orbit) FOV() float32 {
	return c.Fov
}

// Update applies one frame of input.
func (c *Orbit) Update(s *input.State, dt float32) {
	if s.Look {
		c.HandleDrag(s.MouseDX, s.MouseDY)
	}
	if s.Scroll != 0 {
		c.HandleZoom(s.Scroll)
	}

	step := dt
	if s.Held(input.KeyFast) {
		step *= fastModifier
	}
	c.HandleMovement(
		s.Axis(input.KeyForward, input.KeyBackward)*step,
		s.Axis(input.KeyRight, input.KeyLeft)*step,
		s.Axis(input.KeyUp, input.KeyDown)*step,
	)
	if s.Pressed(input.KeyResetCamera) {
		c.Reset()
	}
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *Orbit) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = clamp(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *Orbit) HandleZoom(delta float32) {
	c.Distance = clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// HandleMovement pans the center point; speed scales with distance.
func (c *Orbit) HandleMovement(forward, right, up float32) {
	speed := c.Distance

	dirX := float32(gomath.Sin(float64(c.RotationY)))
	dirZ := float32(gomath.Cos(float64(c.RotationY)))
	rightX := float32(gomath.Cos(float64(c.RotationY)))
	rightZ := float32(-gomath.Sin(float64(c.RotationY)))

	// Negate forward so it moves into the scene.
	c.Center[0] += (-dirX*forward + rightX*right) * speed
	c.Center[2] += (-dirZ*forward + rightZ*right) * speed
	c.Center[1] += up * speed
}

// FitToBounds centers on the sphere and backs off until it fits the view.
func (c *Orbit) FitToBounds(center mgl32.Vec3, radius float32) {
	if radius <= 0 {
		radius = 1
	}
	half := float64(mgl32.DegToRad(c.Fov)) / 2
	c.Center = center
	c.Distance = radius / float32(gomath.Sin(half))
	c.MinDistance = radius * 0.01
	c.MaxDistance = c.Distance * 20
	c.RotationX = 0.3
	c.RotationY = 0
	c.home = c.snapshot()
}

// Reset returns to the construction or last fitted state.
func (c *Orbit) Reset() {
	c.Center = c.home.Center
	c.Distance = c.home.Distance
	c.RotationX = c.home.RotationX
	c.RotationY = c.home.RotationY
}

var _ Camera = (*Orbit)(nil)
