package glbackend

import (
	"fmt"
	"unsafe"

	"github.com/hubastard/es2/engine/handle"
)

// MeshID addresses a Mesh owned by a Context.
type MeshID handle.Handle

func (id MeshID) String() string { return "mesh " + handle.Handle(id).String() }

// Mesh is a GPU resident vertex/index buffer pair. Vertices use the 3D
// layout: position (3 floats), texture coordinate (2), normal (4).
type Mesh struct {
	VertexBuffer uint32
	IndexBuffer  uint32
	IndexCount   int32
}

// FloatsPerMeshVertex is the number of floats one mesh vertex occupies.
const FloatsPerMeshVertex = size3DPosition + size3DTexCoord + size3DNormal

// CreateMesh generates the vertex and index buffers of a new mesh. Both stay
// empty until BuildNativeGeometry.
func (c *Context) CreateMesh() (MeshID, error) {
	if !c.live() {
		return 0, ErrContextDisposed
	}
	p := &c.procs
	if p.GenBuffers == nil {
		c.missing("CreateMesh")
		return 0, errUnsupported("CreateMesh")
	}
	ids := p.GenBuffers(2)
	if len(ids) != 2 || ids[0] == 0 || ids[1] == 0 {
		if p.DeleteBuffers != nil && len(ids) > 0 {
			p.DeleteBuffers(ids)
		}
		return 0, fmt.Errorf("%w: glGenBuffers", ErrNoObject)
	}
	m := &Mesh{VertexBuffer: ids[0], IndexBuffer: ids[1]}
	return MeshID(c.meshes.Insert(m)), nil
}

func (c *Context) mesh(id MeshID) (*Mesh, error) {
	m, err := c.meshes.Get(handle.Handle(id))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", id, err)
	}
	return m, nil
}

// Mesh returns a copy of the mesh record.
func (c *Context) Mesh(id MeshID) (Mesh, error) {
	m, err := c.mesh(id)
	if err != nil {
		return Mesh{}, err
	}
	return *m, nil
}

// BuildNativeGeometry replaces the contents of both mesh buffers and
// unbinds them again. Indices are not checked against the vertex count.
func (c *Context) BuildNativeGeometry(id MeshID, vertices []float32, indices []uint16) error {
	if !c.live() {
		return ErrContextDisposed
	}
	p := &c.procs
	if p.BindBuffer == nil || p.BufferData == nil {
		c.missing("BuildNativeGeometry")
		return errUnsupported("BuildNativeGeometry")
	}
	m, err := c.mesh(id)
	if err != nil {
		return err
	}
	if len(vertices) == 0 || len(indices) == 0 {
		return fmt.Errorf("%w: %v: %d floats, %d indices", ErrInvalidArgument, id, len(vertices), len(indices))
	}

	p.BindBuffer(ARRAY_BUFFER, m.VertexBuffer)
	p.BufferData(ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(unsafe.SliceData(vertices)), STATIC_DRAW)
	p.BindBuffer(ELEMENT_ARRAY_BUFFER, m.IndexBuffer)
	p.BufferData(ELEMENT_ARRAY_BUFFER, len(indices)*2, unsafe.Pointer(unsafe.SliceData(indices)), STATIC_DRAW)
	m.IndexCount = int32(len(indices))

	p.BindBuffer(ARRAY_BUFFER, 0)
	p.BindBuffer(ELEMENT_ARRAY_BUFFER, 0)
	return nil
}

// ReleaseMesh deletes both buffers and invalidates id. Mesh views that
// still reference the mesh render nothing afterwards.
func (c *Context) ReleaseMesh(id MeshID) error {
	if !c.live() {
		return ErrContextDisposed
	}
	m, err := c.meshes.Release(handle.Handle(id))
	if err != nil {
		c.logger().Warn("ReleaseMesh: bad handle", "mesh", id, "err", err)
		return fmt.Errorf("%v: %w", id, err)
	}
	if c.procs.DeleteBuffers == nil {
		c.missing("ReleaseMesh")
		return nil
	}
	c.procs.DeleteBuffers([]uint32{m.VertexBuffer, m.IndexBuffer})
	return nil
}
