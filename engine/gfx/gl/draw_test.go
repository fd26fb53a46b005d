package glbackend_test

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gl "github.com/hubastard/es2/engine/gfx/gl"
)

func vertexData(n int) ([]float32, []byte) {
	return make([]float32, n*gl.FloatsPerVertex), make([]byte, n*gl.BytesPerColor)
}

func TestDrawIndexedQuadsBindsPointersOnce(t *testing.T) {
	c, d := newCtx(t)
	floats, bytes := vertexData(8)

	require.NoError(t, c.DrawIndexedQuads(8, floats, bytes))
	assert.Equal(t, 4, d.Count("glVertexAttribPointer"))
	require.NoError(t, c.DrawIndexedQuads(4, floats, bytes))
	assert.Equal(t, 4, d.Count("glVertexAttribPointer"))
	assert.Equal(t, 2, d.Count("glDrawElements"))

	s := c.State()
	assert.Equal(t, unsafe.Pointer(&floats[0]), s.FloatData)
	assert.Equal(t, unsafe.Pointer(&bytes[0]), s.ByteData)

	last := d.Calls[len(d.Calls)-1]
	assert.Equal(t, "glDrawElements", last.Name)
	assert.Equal(t, []any{gl.TRIANGLES, int32(gl.IndicesPerQuad), gl.UNSIGNED_SHORT}, last.Args)
}

func TestDrawIndexedQuadsAttribLayout(t *testing.T) {
	c, d := newCtx(t)
	floats, bytes := vertexData(4)
	require.NoError(t, c.DrawIndexedQuads(4, floats, bytes))

	pos := d.State.Attribs[0]
	assert.Equal(t, int32(3), pos.Size)
	assert.Equal(t, gl.FLOAT, pos.Type)
	assert.False(t, pos.Normalized)
	assert.Equal(t, int32(28), pos.Stride)
	assert.Equal(t, unsafe.Pointer(&floats[0]), pos.Pointer)

	color := d.State.Attribs[1]
	assert.Equal(t, int32(4), color.Size)
	assert.Equal(t, gl.UNSIGNED_BYTE, color.Type)
	assert.True(t, color.Normalized)
	assert.Equal(t, int32(4), color.Stride)
	assert.Equal(t, unsafe.Pointer(&bytes[0]), color.Pointer)

	tex0 := d.State.Attribs[2]
	assert.Equal(t, int32(2), tex0.Size)
	assert.Equal(t, int32(28), tex0.Stride)
	assert.Equal(t, unsafe.Pointer(&floats[3]), tex0.Pointer)

	tex1 := d.State.Attribs[3]
	assert.Equal(t, int32(2), tex1.Size)
	assert.Equal(t, unsafe.Pointer(&floats[5]), tex1.Pointer)
}

func TestDrawRebindsOnlyChangedArray(t *testing.T) {
	c, d := newCtx(t)
	floats, bytes := vertexData(4)
	require.NoError(t, c.DrawIndexedQuads(4, floats, bytes))
	d.Reset()

	_, other := vertexData(4)
	require.NoError(t, c.DrawIndexedQuads(4, floats, other))
	assert.Equal(t, 1, d.Count("glVertexAttribPointer"))
	assert.Equal(t, unsafe.Pointer(&other[0]), d.State.Attribs[1].Pointer)

	d.Reset()
	moreFloats, _ := vertexData(4)
	require.NoError(t, c.DrawIndexedQuads(4, moreFloats, other))
	assert.Equal(t, 3, d.Count("glVertexAttribPointer"))
}

func TestDrawIndexedQuadsPartialQuad(t *testing.T) {
	c, d := newCtx(t)
	floats, bytes := vertexData(6)
	require.NoError(t, c.DrawIndexedQuads(6, floats, bytes))
	last := d.Calls[len(d.Calls)-1]
	assert.Equal(t, int32(6), last.Args[1])
}

func TestDrawIndexedQuadsInvalidInput(t *testing.T) {
	c, d := newCtx(t)
	floats, bytes := vertexData(4)

	assert.ErrorIs(t, c.DrawIndexedQuads(-1, floats, bytes), gl.ErrInvalidArgument)
	assert.ErrorIs(t, c.DrawIndexedQuads(4, floats[:27], bytes), gl.ErrShortBuffer)
	assert.ErrorIs(t, c.DrawIndexedQuads(4, floats, bytes[:15]), gl.ErrShortBuffer)
	assert.ErrorIs(t, c.DrawIndexedQuads(8, floats, bytes), gl.ErrShortBuffer)
	assert.Empty(t, d.Calls)

	assert.NoError(t, c.DrawIndexedQuads(0, nil, nil))
	assert.Empty(t, d.Calls)
	assert.Nil(t, c.State().FloatData)
}

func TestDrawTriangleList(t *testing.T) {
	c, d := newCtx(t)
	floats, bytes := vertexData(6)

	require.NoError(t, c.DrawTriangleList(2, floats, bytes))
	last := d.Calls[len(d.Calls)-1]
	assert.Equal(t, "glDrawArrays", last.Name)
	assert.Equal(t, []any{gl.TRIANGLES, int32(0), int32(6)}, last.Args)
	assert.Equal(t, 4, d.Count("glVertexAttribPointer"))

	assert.ErrorIs(t, c.DrawTriangleList(-1, floats, bytes), gl.ErrInvalidArgument)
	assert.ErrorIs(t, c.DrawTriangleList(3, floats, bytes), gl.ErrShortBuffer)
	assert.NoError(t, c.DrawTriangleList(0, nil, nil))
	assert.Equal(t, 1, d.Count("glDrawArrays"))
}

func TestDrawWithoutAttribPointer(t *testing.T) {
	c, d := newCtxWithout(t, "glVertexAttribPointer")
	floats, bytes := vertexData(4)

	assert.NoError(t, c.DrawIndexedQuads(4, floats, bytes))
	assert.NoError(t, c.DrawTriangleList(1, floats, bytes))
	assert.Empty(t, d.Calls)
}

func TestCreateIndexBuffer16(t *testing.T) {
	c, d := newCtx(t)
	indices := []uint16{0, 1, 2, 2, 1, 3}

	buf, err := c.CreateIndexBuffer16(indices)
	require.NoError(t, err)
	assert.NotZero(t, buf)
	assert.True(t, d.IsBuffer(buf))
	assert.Equal(t, buf, d.State.BoundElements)
	assert.Equal(t, unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), 12), d.BufferData[buf])

	c.SetIndexBuffer(0)
	assert.Zero(t, d.State.BoundElements)
	c.SetIndexBuffer(buf)
	assert.Equal(t, buf, d.State.BoundElements)

	c.DeleteBuffer(buf)
	assert.False(t, d.IsBuffer(buf))
	assert.Zero(t, d.Live().Buffers)

	d.Reset()
	c.DeleteBuffer(0)
	assert.Empty(t, d.Calls)
}

func TestCreateIndexBuffer16Errors(t *testing.T) {
	c, d := newCtx(t)
	_, err := c.CreateIndexBuffer16(nil)
	assert.ErrorIs(t, err, gl.ErrInvalidArgument)

	d.NoNames = true
	_, err = c.CreateIndexBuffer16([]uint16{0})
	assert.ErrorIs(t, err, gl.ErrNoObject)

	c2, d2 := newCtxWithout(t, "glGenBuffers")
	_, err = c2.CreateIndexBuffer16([]uint16{0})
	assert.True(t, errors.Is(err, errors.ErrUnsupported))
	assert.Empty(t, d2.Calls)
}

func TestVertexAttributeArrays(t *testing.T) {
	c, d := newCtx(t)

	c.EnableVertexAttributes()
	for i := 0; i < 4; i++ {
		assert.True(t, d.State.Attribs[i].Enabled, "attrib %d", i)
	}
	assert.False(t, d.State.Attribs[4].Enabled)

	c.DisableVertexAttributes()
	for i := 0; i < 4; i++ {
		assert.False(t, d.State.Attribs[i].Enabled, "attrib %d", i)
	}
	assert.Equal(t, 4, d.Count("glEnableVertexAttribArray"))
	assert.Equal(t, 4, d.Count("glDisableVertexAttribArray"))
}
