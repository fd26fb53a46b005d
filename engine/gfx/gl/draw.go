package glbackend

import (
	"fmt"
	"unsafe"
)

// 2D vertex layout: position xyz plus two texture coordinate pairs in one
// float array, and one RGBA byte quadruple per vertex in a parallel array.
const (
	FloatsPerTexCoord = 2
	FloatsPerPosition = 3
	FloatsPerVertex   = FloatsPerTexCoord*2 + FloatsPerPosition
	BytesPerColor     = 4

	coordStride = FloatsPerVertex * 4
	colorStride = BytesPerColor

	attribPosition  = 0
	attribColor     = 1
	attribTexCoord0 = 2
	attribTexCoord1 = 3
	num2DAttribs    = 4
)

// 3D (mesh) vertex layout inside a mesh's vertex buffer.
const (
	attrib3DPosition = 0
	attrib3DTexCoord = 1
	attrib3DNormal   = 2

	size3DPosition = 3
	size3DTexCoord = 2
	size3DNormal   = 4
	stride3D       = (size3DPosition + size3DTexCoord + size3DNormal) * 4
)

// IndicesPerQuad is the number of indices a quad expands to (two triangles).
const IndicesPerQuad = 6

// setVertexAttributePointers points the 2D attributes at the given arrays,
// skipping whichever array is already bound.
func (c *Context) setVertexAttributePointers(floats []float32, bytes []byte) {
	p := c.procs.VertexAttribPointer
	pf := unsafe.Pointer(unsafe.SliceData(floats))
	pb := unsafe.Pointer(unsafe.SliceData(bytes))
	changed := false

	if pf != c.state.FloatData {
		p(attribPosition, FloatsPerPosition, FLOAT, false, coordStride, pf)
		p(attribTexCoord0, FloatsPerTexCoord, FLOAT, false, coordStride,
			unsafe.Add(pf, FloatsPerPosition*4))
		p(attribTexCoord1, FloatsPerTexCoord, FLOAT, false, coordStride,
			unsafe.Add(pf, (FloatsPerPosition+FloatsPerTexCoord)*4))
		c.state.FloatData = pf
		changed = true
	}
	if pb != c.state.ByteData {
		p(attribColor, BytesPerColor, UNSIGNED_BYTE, true, colorStride, pb)
		c.state.ByteData = pb
		changed = true
	}
	if changed {
		c.repin()
	}
}

// repin keeps exactly the currently bound client arrays pinned, so the
// driver may hold on to their addresses between calls.
func (c *Context) repin() {
	c.pinner.Unpin()
	if c.state.FloatData != nil {
		c.pinner.Pin(c.state.FloatData)
	}
	if c.state.ByteData != nil {
		c.pinner.Pin(c.state.ByteData)
	}
}

func (c *Context) resetAttribPointers() {
	c.state.FloatData = nil
	c.state.ByteData = nil
	c.pinner.Unpin()
}

// checkVertexData verifies the arrays hold n vertices. The bound index
// buffer is not checked; the driver reports mismatches.
func checkVertexData(n int, floats []float32, bytes []byte) error {
	if n < 0 {
		return fmt.Errorf("%w: vertex count %d", ErrInvalidArgument, n)
	}
	if len(floats) < n*FloatsPerVertex {
		return fmt.Errorf("%w: %d floats for %d vertices", ErrShortBuffer, len(floats), n)
	}
	if len(bytes) < n*BytesPerColor {
		return fmt.Errorf("%w: %d colour bytes for %d vertices", ErrShortBuffer, len(bytes), n)
	}
	return nil
}

// DrawIndexedQuads draws numVertices/4 quads using the bound 16-bit index
// buffer, which must hold IndicesPerQuad indices per quad.
func (c *Context) DrawIndexedQuads(numVertices int, floats []float32, bytes []byte) error {
	if !c.live() {
		return nil
	}
	if c.procs.VertexAttribPointer == nil {
		c.missing("DrawIndexedQuads")
		return nil
	}
	if err := checkVertexData(numVertices, floats, bytes); err != nil {
		return err
	}
	if numVertices == 0 {
		return nil
	}
	numQuads := numVertices / 4
	c.setVertexAttributePointers(floats, bytes)
	c.drv.DrawElements(TRIANGLES, int32(numQuads*IndicesPerQuad), UNSIGNED_SHORT)
	return nil
}

// DrawTriangleList draws numTriangles non-indexed triangles.
func (c *Context) DrawTriangleList(numTriangles int, floats []float32, bytes []byte) error {
	if !c.live() {
		return nil
	}
	if c.procs.VertexAttribPointer == nil {
		c.missing("DrawTriangleList")
		return nil
	}
	if numTriangles < 0 {
		return fmt.Errorf("%w: triangle count %d", ErrInvalidArgument, numTriangles)
	}
	if err := checkVertexData(numTriangles*3, floats, bytes); err != nil {
		return err
	}
	if numTriangles == 0 {
		return nil
	}
	c.setVertexAttributePointers(floats, bytes)
	c.drv.DrawArrays(TRIANGLES, 0, int32(numTriangles*3))
	return nil
}

// EnableVertexAttributes enables the four 2D attribute arrays.
func (c *Context) EnableVertexAttributes() {
	if !c.live() {
		return
	}
	if c.procs.EnableVertexAttribArray == nil {
		c.missing("EnableVertexAttributes")
		return
	}
	for i := uint32(0); i < num2DAttribs; i++ {
		c.procs.EnableVertexAttribArray(i)
	}
}

// DisableVertexAttributes disables the four 2D attribute arrays.
func (c *Context) DisableVertexAttributes() {
	if !c.live() {
		return
	}
	if c.procs.DisableVertexAttribArray == nil {
		c.missing("DisableVertexAttributes")
		return
	}
	for i := uint32(0); i < num2DAttribs; i++ {
		c.procs.DisableVertexAttribArray(i)
	}
}

// CreateIndexBuffer16 uploads a static 16-bit index buffer and leaves it
// bound as the element array buffer.
func (c *Context) CreateIndexBuffer16(indices []uint16) (uint32, error) {
	if !c.live() {
		return 0, ErrContextDisposed
	}
	p := &c.procs
	if p.GenBuffers == nil || p.BindBuffer == nil || p.BufferData == nil {
		c.missing("CreateIndexBuffer16")
		return 0, errUnsupported("CreateIndexBuffer16")
	}
	if len(indices) == 0 {
		return 0, fmt.Errorf("%w: empty index buffer", ErrInvalidArgument)
	}
	ids := p.GenBuffers(1)
	if len(ids) == 0 || ids[0] == 0 {
		return 0, fmt.Errorf("%w: glGenBuffers", ErrNoObject)
	}
	id := ids[0]
	p.BindBuffer(ELEMENT_ARRAY_BUFFER, id)
	p.BufferData(ELEMENT_ARRAY_BUFFER, len(indices)*2, unsafe.Pointer(unsafe.SliceData(indices)), STATIC_DRAW)
	return id, nil
}

// SetIndexBuffer binds buf as the element array buffer.
func (c *Context) SetIndexBuffer(buf uint32) {
	if !c.live() {
		return
	}
	if c.procs.BindBuffer == nil {
		c.missing("SetIndexBuffer")
		return
	}
	c.procs.BindBuffer(ELEMENT_ARRAY_BUFFER, buf)
}

// DeleteBuffer deletes a buffer created with CreateIndexBuffer16.
func (c *Context) DeleteBuffer(buf uint32) {
	if !c.live() || buf == 0 {
		return
	}
	if c.procs.DeleteBuffers == nil {
		c.missing("DeleteBuffer")
		return
	}
	c.procs.DeleteBuffers([]uint32{buf})
}
