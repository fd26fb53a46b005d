package scene

import "math"

// OrbitCamera looks at the origin from a point on a sphere.
type OrbitCamera struct {
	FovY        float32 // radians
	Aspect      float32
	Near, Far   float32
	Distance    float32
	Yaw, Pitch  float32 // radians
	MinDistance float32
}

func NewOrbitCamera(width, height int) *OrbitCamera {
	c := &OrbitCamera{
		FovY:        math.Pi / 4,
		Near:        0.1,
		Far:         100,
		Distance:    4,
		Pitch:       0.4,
		MinDistance: 1.5,
	}
	c.SetViewportPixels(width, height)
	return c
}

func (c *OrbitCamera) SetViewportPixels(w, h int) {
	if h <= 0 {
		h = 1
	}
	c.Aspect = float32(w) / float32(h)
}

// Zoom moves the camera towards the target by d units.
func (c *OrbitCamera) Zoom(d float32) {
	c.Distance = max(c.Distance-d, c.MinDistance)
}

// Eye returns the camera position.
func (c *OrbitCamera) Eye() [3]float32 {
	cy, sy := sincos(c.Yaw)
	cp, sp := sincos(c.Pitch)
	return [3]float32{c.Distance * cp * sy, c.Distance * sp, c.Distance * cp * cy}
}

func (c *OrbitCamera) VP() Mat4 {
	view := LookAt(c.Eye(), [3]float32{}, [3]float32{0, 1, 0})
	return Mul(Perspective(c.FovY, c.Aspect, c.Near, c.Far), view)
}
