package glbackend_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gl "github.com/hubastard/es2/engine/gfx/gl"
	"github.com/hubastard/es2/engine/gfx/gl/gltest"
)

func TestProcsHasMissing(t *testing.T) {
	d := gltest.NewDriver()
	p := d.Procs()
	assert.True(t, p.Has("glGenBuffers"))
	assert.False(t, p.Has("glNoSuchThing"))
	assert.Empty(t, p.Missing())

	p = d.Procs("glUseProgram", "glActiveTexture")
	assert.False(t, p.Has("glUseProgram"))
	assert.Equal(t, []string{"glActiveTexture", "glUseProgram"}, p.Missing())
}

func TestProcsSharedSymbol(t *testing.T) {
	p := gltest.NewDriver().Procs("glVertexAttribPointer")
	assert.Nil(t, p.VertexAttribPointer)
	assert.Nil(t, p.VertexAttribOffset)
	assert.Equal(t, []string{"glVertexAttribPointer"}, p.Missing())

	p.VertexAttribOffset = gltest.NewDriver().Procs().VertexAttribOffset
	// One of the two views is still unresolved.
	assert.False(t, p.Has("glVertexAttribPointer"))
}

func TestProcsWithoutCopies(t *testing.T) {
	full := gltest.NewDriver().Procs()
	masked := full.Without("glGenBuffers")
	assert.Nil(t, masked.GenBuffers)
	assert.NotNil(t, full.GenBuffers)
}

func TestSymbols(t *testing.T) {
	syms := gl.Symbols()
	require.NotEmpty(t, syms)
	assert.Contains(t, syms, "glActiveTexture")
	assert.Contains(t, syms, "glDeleteBuffers")

	uniq := slices.Clone(syms)
	slices.Sort(uniq)
	uniq = slices.Compact(uniq)
	assert.Len(t, uniq, len(syms))

	var empty gl.Procs
	assert.ElementsMatch(t, syms, empty.Missing())
}

// With an empty capability table every void operation is silent and every
// operation that creates an object reports errors.ErrUnsupported.
func TestEmptyProcs(t *testing.T) {
	c, d := newCtxWithout(t, gl.Symbols()...)
	floats, bytes := vertexData(4)

	c.SetDeviceParametersFor2D()
	c.EnableVertexAttributes()
	c.DisableVertexAttributes()
	c.SetIndexBuffer(1)
	c.DeleteBuffer(1)
	c.ActiveTexture(0)
	c.UseProgram(1)
	c.Uniform1f(0, 1)
	c.Uniform2f(0, 1, 2)
	c.Uniform3f(0, 1, 2, 3)
	c.Uniform4f(0, 1, 2, 3, 4)
	c.Uniform1i(0, 1)
	c.Uniform2i(0, 1, 2)
	c.Uniform3i(0, 1, 2, 3)
	c.Uniform4i(0, 1, 2, 3, 4)
	c.Uniform4fv(0, make([]float32, 4))
	c.Uniform4iv(0, make([]int32, 4))
	c.UniformMatrix4fv(0, false, make([]float32, 16))
	assert.Zero(t, c.GetUniformLocation(1, "u"))
	c.DeleteShader(1)
	c.DisposeShaders(1, 2, []uint32{3})
	c.BindFBO(1)
	c.DeleteFBO(1)
	c.DeleteRenderBuffer(1)
	assert.NoError(t, c.DrawIndexedQuads(4, floats, bytes))
	assert.NoError(t, c.DrawTriangleList(1, floats, bytes))
	assert.Empty(t, d.Calls)

	unsupported := func(_ any, err error) {
		t.Helper()
		assert.ErrorIs(t, err, errors.ErrUnsupported)
	}
	unsupported(c.CreateTexture(4, 4))
	unsupported(c.CreateIndexBuffer16([]uint16{0}))
	unsupported(c.CompileShader("", true))
	unsupported(c.CreateProgram(1, []uint32{2}, nil, nil))
	unsupported(c.CreateFBO(1))
	unsupported(c.CreateDepthBuffer(4, 4))
	unsupported(c.CreateMesh())
	assert.Empty(t, d.Calls)
}

func TestRenderMeshViewWithoutProcs(t *testing.T) {
	c, d := newCtx(t)
	view := completeView(t, c)

	// Drop the buffer entry points after the records exist.
	*c.Procs() = c.Procs().Without("glVertexAttribPointer")
	d.Reset()
	assert.NoError(t, c.RenderMeshView(view))
	assert.Empty(t, d.Calls)
}
