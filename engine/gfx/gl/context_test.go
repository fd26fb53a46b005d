package glbackend_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gl "github.com/hubastard/es2/engine/gfx/gl"
	"github.com/hubastard/es2/engine/gfx/gl/gltest"
)

// newCtx returns an initialized context on a fresh fake driver with the
// initialization calls forgotten.
func newCtx(t *testing.T, opts ...gl.Option) (*gl.Context, *gltest.Driver) {
	t.Helper()
	d := gltest.NewDriver()
	c := gl.NewContext(d, d.Procs(), opts...)
	c.InitState()
	d.Reset()
	return c, d
}

// newCtxWithout is newCtx with the given GL symbols left unresolved.
func newCtxWithout(t *testing.T, omit ...string) (*gl.Context, *gltest.Driver) {
	t.Helper()
	d := gltest.NewDriver()
	c := gl.NewContext(d, d.Procs(omit...))
	c.InitState()
	d.Reset()
	return c, d
}

type releaser struct{ n int }

func (r *releaser) Release() { r.n++ }

func TestInitState(t *testing.T) {
	d := gltest.NewDriver()
	c := gl.NewContext(d, d.Procs())
	c.InitState()

	s := c.State()
	assert.False(t, s.DepthTestEnabled)
	assert.False(t, s.DepthWritesEnabled)
	assert.False(t, s.ScissorEnabled)
	assert.Equal(t, [4]float32{}, s.ClearColor)
	assert.Equal(t, gl.FILL, s.FillMode)
	assert.False(t, s.CullEnable)
	assert.Equal(t, gl.BACK, s.CullMode)
	assert.Nil(t, s.FloatData)
	assert.Nil(t, s.ByteData)

	// The driver agrees with the cache.
	assert.True(t, d.Enabled(gl.BLEND))
	assert.False(t, d.Enabled(gl.DEPTH_TEST))
	assert.False(t, d.Enabled(gl.SCISSOR_TEST))
	assert.False(t, d.State.DepthMask)
	assert.Equal(t, gl.ONE, d.State.BlendSrc)
	assert.Equal(t, gl.ONE_MINUS_SRC_ALPHA, d.State.BlendDst)
}

func TestContextAccessors(t *testing.T) {
	info := gl.Info{Version: "2.1", Vendor: "v", Renderer: "r", Extensions: "GL_A GL_B", PlatformExtensions: "GLX_X"}
	c, _ := newCtx(t, gl.WithInfo(info), gl.WithDesktopGL(true))
	assert.Equal(t, info, c.Info())
	assert.True(t, c.DesktopGL())
	assert.Empty(t, c.Procs().Missing())

	c2, _ := newCtx(t)
	assert.False(t, c2.DesktopGL())
}

func TestDisposeReleasesPlatformOnce(t *testing.T) {
	r := &releaser{}
	c, d := newCtx(t, gl.WithPlatform(r), gl.WithInfo(gl.Info{Version: "2.1"}))

	c.Dispose()
	assert.Equal(t, 1, r.n)
	assert.True(t, c.Disposed())
	assert.Equal(t, gl.Info{}, c.Info())

	c.Dispose()
	assert.Equal(t, 1, r.n)

	// Every operation on a disposed context is inert.
	c.ClearBuffers(1, 1, 1, 1, true, true, true)
	c.SetDepthTest(true)
	c.UpdateViewport(0, 0, 10, 10)
	c.SetDeviceParametersFor2D()
	c.SetDeviceParametersFor3D()
	require.NoError(t, c.DrawIndexedQuads(4, make([]float32, 28), make([]byte, 16)))
	assert.Empty(t, d.Calls)

	_, err := c.CreateTexture(4, 4)
	assert.ErrorIs(t, err, gl.ErrContextDisposed)
	_, err = c.CreateMesh()
	assert.ErrorIs(t, err, gl.ErrContextDisposed)
	_, err = c.CompileShader("void main(){}", true)
	assert.ErrorIs(t, err, gl.ErrContextDisposed)
	assert.ErrorIs(t, c.ReadPixels(make([]byte, 4), 0, 0, 1, 1), gl.ErrContextDisposed)
}

func TestDisposeWithLiveRecords(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	c, d := newCtx(t, gl.WithLogger(l))
	mesh, err := c.CreateMesh()
	require.NoError(t, err)
	view, err := c.CreateMeshView(mesh)
	require.NoError(t, err)
	released, err := c.CreatePhongMaterial()
	require.NoError(t, err)
	require.NoError(t, c.ReleasePhongMaterial(released))

	c.Dispose()
	assert.True(t, c.Disposed())
	// Abandoned records are not deleted through a dying context.
	assert.Zero(t, d.Count("glDeleteBuffers"))

	out := buf.String()
	assert.Contains(t, out, "meshes=1 materials=0 meshViews=1")
	assert.Equal(t, 2, strings.Count(out, "leaked record"))
	assert.Contains(t, out, mesh.String())
	assert.Contains(t, out, view.String())
	assert.NotContains(t, out, released.String())
}

func TestNilContextIsDisposed(t *testing.T) {
	var c *gl.Context
	assert.True(t, c.Disposed())
	c.Finish()
	c.Dispose()
	_, err := c.CreatePhongMaterial()
	assert.True(t, errors.Is(err, gl.ErrContextDisposed))
}
