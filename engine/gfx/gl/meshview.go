package glbackend

import (
	"fmt"

	"github.com/hubastard/es2/engine/handle"
)

// MeshViewID addresses a MeshView owned by a Context.
type MeshViewID handle.Handle

func (id MeshViewID) String() string { return "mesh view " + handle.Handle(id).String() }

type PointLight struct {
	Index    int32
	Position [3]float32
	Color    [3]float32
	Weight   float32
}

// MeshView binds a mesh to a material together with per view render
// state. Mesh and Material are weak references: releasing the view does not
// release them, and releasing them turns the view into a no-op.
type MeshView struct {
	Mesh     MeshID
	Material MaterialID

	CullEnable bool
	CullMode   Enum
	FillMode   Enum

	AmbientLight [3]float32
	PointLight   PointLight
}

// CreateMeshView returns a view of mesh with back face culling, filled
// polygons, no material and no lights.
func (c *Context) CreateMeshView(mesh MeshID) (MeshViewID, error) {
	if !c.live() {
		return 0, ErrContextDisposed
	}
	if _, err := c.mesh(mesh); err != nil {
		return 0, err
	}
	mv := &MeshView{
		Mesh:       mesh,
		CullEnable: true,
		CullMode:   BACK,
		FillMode:   FILL,
	}
	return MeshViewID(c.views.Insert(mv)), nil
}

func (c *Context) meshView(id MeshViewID) (*MeshView, error) {
	mv, err := c.views.Get(handle.Handle(id))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", id, err)
	}
	return mv, nil
}

// MeshView returns a copy of the view record.
func (c *Context) MeshView(id MeshViewID) (MeshView, error) {
	mv, err := c.meshView(id)
	if err != nil {
		return MeshView{}, err
	}
	return *mv, nil
}

// update runs fn on the view record of a live context.
func (c *Context) update(id MeshViewID, fn func(*MeshView) error) error {
	if !c.live() {
		return ErrContextDisposed
	}
	mv, err := c.meshView(id)
	if err != nil {
		return err
	}
	return fn(mv)
}

// SetCullingMode selects which faces the view culls. CullNone disables
// culling and resets the face to BACK.
func (c *Context) SetCullingMode(id MeshViewID, mode CullMode) error {
	return c.update(id, func(mv *MeshView) error {
		switch mode {
		case CullBack:
			mv.CullEnable, mv.CullMode = true, BACK
		case CullFront:
			mv.CullEnable, mv.CullMode = true, FRONT
		case CullNone:
			mv.CullEnable, mv.CullMode = false, BACK
		default:
			return fmt.Errorf("%w: cull mode %d", ErrInvalidArgument, mode)
		}
		return nil
	})
}

// SetMaterial points the view at a material.
func (c *Context) SetMaterial(id MeshViewID, mat MaterialID) error {
	if !c.live() {
		return ErrContextDisposed
	}
	if _, err := c.material(mat); err != nil {
		return err
	}
	return c.update(id, func(mv *MeshView) error {
		mv.Material = mat
		return nil
	})
}

// SetWireframe switches the view between LINE and FILL polygon mode. GLES
// contexts have no polygon mode and always render filled.
func (c *Context) SetWireframe(id MeshViewID, wireframe bool) error {
	return c.update(id, func(mv *MeshView) error {
		mv.FillMode = FILL
		if wireframe {
			mv.FillMode = LINE
		}
		return nil
	})
}

func (c *Context) SetAmbientLight(id MeshViewID, r, g, b float32) error {
	return c.update(id, func(mv *MeshView) error {
		mv.AmbientLight = [3]float32{r, g, b}
		return nil
	})
}

func (c *Context) SetPointLight(id MeshViewID, index int32, x, y, z, r, g, b, w float32) error {
	return c.update(id, func(mv *MeshView) error {
		mv.PointLight = PointLight{
			Index:    index,
			Position: [3]float32{x, y, z},
			Color:    [3]float32{r, g, b},
			Weight:   w,
		}
		return nil
	})
}

// RenderMeshView draws the view's mesh as indexed triangles after applying
// the view's cull and fill modes through the state cache.
//
// A view whose mesh or material is unset or released renders nothing and
// returns ErrIncompleteMeshView. Missing entry points make the call a no-op.
func (c *Context) RenderMeshView(id MeshViewID) error {
	if !c.live() {
		return ErrContextDisposed
	}
	p := &c.procs
	if p.BindBuffer == nil || p.BufferData == nil || p.EnableVertexAttribArray == nil ||
		p.DisableVertexAttribArray == nil || p.VertexAttribOffset == nil {
		c.missing("RenderMeshView")
		return nil
	}
	mv, err := c.meshView(id)
	if err != nil {
		return err
	}
	m, merr := c.mesh(mv.Mesh)
	matLive := c.materials.Valid(handle.Handle(mv.Material))
	if merr != nil || !matLive {
		c.logger().Warn("RenderMeshView: incomplete view", "view", id,
			"mesh", refState(handle.Handle(mv.Mesh), merr == nil),
			"material", refState(handle.Handle(mv.Material), matLive))
		return fmt.Errorf("%v: %w", id, ErrIncompleteMeshView)
	}

	c.setCullMode(mv.CullEnable, mv.CullMode)
	c.setFillMode(mv.FillMode)

	p.BindBuffer(ARRAY_BUFFER, m.VertexBuffer)
	p.BindBuffer(ELEMENT_ARRAY_BUFFER, m.IndexBuffer)

	p.EnableVertexAttribArray(attrib3DPosition)
	p.EnableVertexAttribArray(attrib3DTexCoord)
	p.EnableVertexAttribArray(attrib3DNormal)

	var off uintptr
	p.VertexAttribOffset(attrib3DPosition, size3DPosition, FLOAT, false, stride3D, off)
	off += size3DPosition * 4
	p.VertexAttribOffset(attrib3DTexCoord, size3DTexCoord, FLOAT, false, stride3D, off)
	off += size3DTexCoord * 4
	p.VertexAttribOffset(attrib3DNormal, size3DNormal, FLOAT, false, stride3D, off)

	c.drv.DrawElements(TRIANGLES, m.IndexCount, UNSIGNED_SHORT)

	p.DisableVertexAttribArray(attrib3DPosition)
	p.DisableVertexAttribArray(attrib3DNormal)
	p.DisableVertexAttribArray(attrib3DTexCoord)
	p.BindBuffer(ARRAY_BUFFER, 0)
	p.BindBuffer(ELEMENT_ARRAY_BUFFER, 0)

	// The 3D pointers replaced the client arrays bound for 2D drawing.
	c.resetAttribPointers()
	return nil
}

// ReleaseMeshView invalidates id. The mesh and material are untouched.
func (c *Context) ReleaseMeshView(id MeshViewID) error {
	if !c.live() {
		return ErrContextDisposed
	}
	if _, err := c.views.Release(handle.Handle(id)); err != nil {
		c.logger().Warn("ReleaseMeshView: bad handle", "view", id, "err", err)
		return fmt.Errorf("%v: %w", id, err)
	}
	return nil
}

// refState names the state of a mesh view reference for logs.
func refState(h handle.Handle, live bool) string {
	switch {
	case h.IsNil():
		return "unset"
	case !live:
		return "released"
	}
	return "live"
}
