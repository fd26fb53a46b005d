package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hubastard/es2/engine/core"
)

func assertPoint(t *testing.T, want [3]float32, p [4]float32) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], p[i]/p[3], 1e-5, "component %d", i)
	}
}

func TestMulOrder(t *testing.T) {
	m := Mul(Translate(1, 0, 0), RotateZ(math.Pi/2))
	// rotate first, then translate
	assertPoint(t, [3]float32{1, 1, 0}, Transform(m, 1, 0, 0))
	assert.Equal(t, Translate(2, 3, 4), Mul(Identity(), Translate(2, 3, 4)))
}

func TestOrtho2DMapsPixelsWithYDown(t *testing.T) {
	c := NewOrtho2D(200, 100)
	vp := c.VP()
	assertPoint(t, [3]float32{-1, 1, 0}, Transform(vp, -100, -50, 0))
	assertPoint(t, [3]float32{1, -1, 0}, Transform(vp, 100, 50, 0))

	c.Move(100, 0)
	assertPoint(t, [3]float32{0, 0, 0}, Transform(c.VP(), 100, 0, 0))
}

func TestZoomClamps(t *testing.T) {
	c := NewOrtho2D(10, 10)
	c.SetZoom(0)
	assert.Equal(t, float32(0.05), c.Zoom)
}

func TestPerspectiveDepthRange(t *testing.T) {
	p := Perspective(math.Pi/2, 1, 0.5, 10)
	assert.InDelta(t, -1, Transform(p, 0, 0, -0.5)[2]/Transform(p, 0, 0, -0.5)[3], 1e-5)
	assert.InDelta(t, 1, Transform(p, 0, 0, -10)[2]/Transform(p, 0, 0, -10)[3], 1e-5)
}

func TestLookAt(t *testing.T) {
	v := LookAt([3]float32{0, 0, 5}, [3]float32{}, [3]float32{0, 1, 0})
	assertPoint(t, [3]float32{0, 0, -5}, Transform(v, 0, 0, 0))
}

func TestOrbitCamera(t *testing.T) {
	c := NewOrbitCamera(800, 400)
	assert.Equal(t, float32(2), c.Aspect)

	c.Pitch = 0
	eye := c.Eye()
	assert.InDelta(t, 4, eye[2], 1e-5)

	c.Zoom(10)
	assert.Equal(t, c.MinDistance, c.Distance)
	// the target projects to the centre of the screen
	p := Transform(c.VP(), 0, 0, 0)
	assert.InDelta(t, 0, p[0]/p[3], 1e-5)
	assert.InDelta(t, 0, p[1]/p[3], 1e-5)
}

func TestControllerMovesAndZooms(t *testing.T) {
	in := core.NewInput()
	cam := NewOrtho2D(100, 100)
	cc := NewOrthoController2D(cam)

	in.Handle(core.EventKey{Key: core.KeyD, Down: true})
	in.Handle(core.EventScroll{Yoff: 1})
	cc.Update(in, 0.5)

	assert.Equal(t, float32(150), cam.X)
	assert.InDelta(t, 1.2, cam.Zoom, 1e-6)

	cc.Update(in, 0.5)
	assert.InDelta(t, 1.2, cam.Zoom, 1e-6, "scroll is consumed")
}

func TestCubeWindsClockwiseFromOutside(t *testing.T) {
	verts, inds := Cube(2)
	assert.Len(t, verts, 24*MeshVertexFloats)
	assert.Len(t, inds, 36)

	pos := func(i uint16) [3]float32 {
		o := int(i) * MeshVertexFloats
		return [3]float32{verts[o], verts[o+1], verts[o+2]}
	}
	for tri := 0; tri < len(inds); tri += 3 {
		a, b, c := pos(inds[tri]), pos(inds[tri+1]), pos(inds[tri+2])
		o := int(inds[tri]) * MeshVertexFloats
		n := [3]float32{verts[o+5], verts[o+6], verts[o+7]}
		assert.Less(t, dot(cross(sub(b, a), sub(c, a)), n), float32(0), "triangle %d", tri/3)
		for _, p := range [][3]float32{a, b, c} {
			assert.InDelta(t, 1, dot(p, n), 1e-6, "vertex lies on its face")
		}
	}
}
