package glbackend_test

import (
	"bytes"
	"log/slog"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gl "github.com/hubastard/es2/engine/gfx/gl"
	"github.com/hubastard/es2/engine/gfx/gl/gltest"
	"github.com/hubastard/es2/engine/handle"
)

var quadIndices = []uint16{0, 1, 2, 2, 1, 3}

func newMesh(t *testing.T, c *gl.Context) gl.MeshID {
	t.Helper()
	id, err := c.CreateMesh()
	require.NoError(t, err)
	require.NoError(t, c.BuildNativeGeometry(id, make([]float32, 4*gl.FloatsPerMeshVertex), quadIndices))
	return id
}

// completeView returns a view with a built mesh and a material.
func completeView(t *testing.T, c *gl.Context) gl.MeshViewID {
	t.Helper()
	view, err := c.CreateMeshView(newMesh(t, c))
	require.NoError(t, err)
	mat, err := c.CreatePhongMaterial()
	require.NoError(t, err)
	require.NoError(t, c.SetMaterial(view, mat))
	return view
}

func TestMeshLifecycle(t *testing.T) {
	c, d := newCtx(t)

	id, err := c.CreateMesh()
	require.NoError(t, err)
	m, err := c.Mesh(id)
	require.NoError(t, err)
	assert.True(t, d.IsBuffer(m.VertexBuffer))
	assert.True(t, d.IsBuffer(m.IndexBuffer))
	assert.Zero(t, m.IndexCount)

	require.NoError(t, c.BuildNativeGeometry(id, make([]float32, 4*gl.FloatsPerMeshVertex), quadIndices))
	m, err = c.Mesh(id)
	require.NoError(t, err)
	assert.Equal(t, int32(6), m.IndexCount)
	assert.Len(t, d.BufferData[m.VertexBuffer], 4*36)
	assert.Len(t, d.BufferData[m.IndexBuffer], 12)
	assert.Zero(t, d.State.BoundArrayBuffer)
	assert.Zero(t, d.State.BoundElements)

	mat, err := c.CreatePhongMaterial()
	require.NoError(t, err)
	view, err := c.CreateMeshView(id)
	require.NoError(t, err)
	require.NoError(t, c.SetMaterial(view, mat))

	d.Reset()
	require.NoError(t, c.RenderMeshView(view))
	draw, ok := findCall(d, "glDrawElements")
	require.True(t, ok)
	assert.Equal(t, []any{gl.TRIANGLES, int32(6), gl.UNSIGNED_SHORT}, draw.Args)

	wantAttribs := []gltest.Attrib{
		{Size: 3, Type: gl.FLOAT, Stride: 36, Offset: 0, Buffer: m.VertexBuffer},
		{Size: 2, Type: gl.FLOAT, Stride: 36, Offset: 12, Buffer: m.VertexBuffer},
		{Size: 4, Type: gl.FLOAT, Stride: 36, Offset: 20, Buffer: m.VertexBuffer},
	}
	for i, want := range wantAttribs {
		assert.Equal(t, want, d.State.Attribs[i], "attrib %d", i)
	}
	assert.Zero(t, d.State.BoundArrayBuffer)
	assert.Zero(t, d.State.BoundElements)

	require.NoError(t, c.ReleaseMeshView(view))
	require.NoError(t, c.ReleasePhongMaterial(mat))
	require.NoError(t, c.ReleaseMesh(id))
	assert.Equal(t, gltest.Live{}, d.Live())
}

func TestDoubleRelease(t *testing.T) {
	c, d := newCtx(t)
	view := completeView(t, c)
	mv, err := c.MeshView(view)
	require.NoError(t, err)

	require.NoError(t, c.ReleaseMesh(mv.Mesh))
	deletes := d.Count("glDeleteBuffers")
	assert.ErrorIs(t, c.ReleaseMesh(mv.Mesh), handle.ErrStale)
	assert.Equal(t, deletes, d.Count("glDeleteBuffers"))

	require.NoError(t, c.ReleasePhongMaterial(mv.Material))
	assert.ErrorIs(t, c.ReleasePhongMaterial(mv.Material), handle.ErrStale)

	require.NoError(t, c.ReleaseMeshView(view))
	assert.ErrorIs(t, c.ReleaseMeshView(view), handle.ErrStale)
	_, err = c.MeshView(view)
	assert.ErrorIs(t, err, handle.ErrStale)

	assert.ErrorIs(t, c.ReleaseMesh(0), handle.ErrInvalid)
}

func TestCreateMeshNoObject(t *testing.T) {
	c, d := newCtx(t)
	d.NoNames = true
	_, err := c.CreateMesh()
	assert.ErrorIs(t, err, gl.ErrNoObject)
}

func TestBuildNativeGeometryErrors(t *testing.T) {
	c, d := newCtx(t)
	id, err := c.CreateMesh()
	require.NoError(t, err)
	d.Reset()

	assert.ErrorIs(t, c.BuildNativeGeometry(id, nil, quadIndices), gl.ErrInvalidArgument)
	assert.ErrorIs(t, c.BuildNativeGeometry(id, make([]float32, 9), nil), gl.ErrInvalidArgument)
	assert.Empty(t, d.Calls)

	require.NoError(t, c.ReleaseMesh(id))
	assert.ErrorIs(t, c.BuildNativeGeometry(id, make([]float32, 9), quadIndices), handle.ErrStale)
}

func TestPhongMaterial(t *testing.T) {
	c, _ := newCtx(t)
	id, err := c.CreatePhongMaterial()
	require.NoError(t, err)

	m, err := c.PhongMaterial(id)
	require.NoError(t, err)
	assert.Equal(t, gl.PhongMaterial{}, m)

	require.NoError(t, c.SetSolidColor(id, 1, 0.5, 0.25, 1))
	require.NoError(t, c.SetMap(id, gl.MapDiffuse, 7, false, false))
	require.NoError(t, c.SetMap(id, gl.MapSpecular, 8, true, false))

	m, err = c.PhongMaterial(id)
	require.NoError(t, err)
	assert.Equal(t, [4]float32{1, 0.5, 0.25, 1}, m.DiffuseColor)
	assert.Equal(t, [gl.NumMaps]uint32{7, 8, 0, 0}, m.Maps)
	assert.True(t, m.SpecularAlpha)
	assert.False(t, m.BumpAlpha)

	assert.ErrorIs(t, c.SetMap(id, gl.NumMaps, 1, false, false), gl.ErrInvalidArgument)
	assert.ErrorIs(t, c.SetMap(id, -1, 1, false, false), gl.ErrInvalidArgument)

	require.NoError(t, c.ReleasePhongMaterial(id))
	assert.ErrorIs(t, c.SetSolidColor(id, 0, 0, 0, 0), handle.ErrStale)
}

func TestMeshViewSettings(t *testing.T) {
	c, _ := newCtx(t)
	view, err := c.CreateMeshView(newMesh(t, c))
	require.NoError(t, err)

	mv, err := c.MeshView(view)
	require.NoError(t, err)
	assert.True(t, mv.CullEnable)
	assert.Equal(t, gl.BACK, mv.CullMode)
	assert.Equal(t, gl.FILL, mv.FillMode)
	assert.Equal(t, gl.MaterialID(0), mv.Material)

	require.NoError(t, c.SetCullingMode(view, gl.CullFront))
	mv, _ = c.MeshView(view)
	assert.True(t, mv.CullEnable)
	assert.Equal(t, gl.FRONT, mv.CullMode)

	require.NoError(t, c.SetCullingMode(view, gl.CullNone))
	mv, _ = c.MeshView(view)
	assert.False(t, mv.CullEnable)
	assert.Equal(t, gl.BACK, mv.CullMode)

	assert.ErrorIs(t, c.SetCullingMode(view, gl.CullMode(9)), gl.ErrInvalidArgument)

	require.NoError(t, c.SetWireframe(view, true))
	mv, _ = c.MeshView(view)
	assert.Equal(t, gl.LINE, mv.FillMode)

	require.NoError(t, c.SetAmbientLight(view, 0.1, 0.2, 0.3))
	require.NoError(t, c.SetPointLight(view, 0, 1, 2, 3, 1, 1, 1, 0.5))
	mv, _ = c.MeshView(view)
	assert.Equal(t, [3]float32{0.1, 0.2, 0.3}, mv.AmbientLight)
	assert.Equal(t, gl.PointLight{Position: [3]float32{1, 2, 3}, Color: [3]float32{1, 1, 1}, Weight: 0.5}, mv.PointLight)
}

func TestRenderMeshViewCachesCullState(t *testing.T) {
	c, d := newCtx(t)
	view := completeView(t, c)
	d.Reset()

	require.NoError(t, c.RenderMeshView(view))
	assert.Equal(t, 1, d.Count("glEnable"))
	assert.Zero(t, d.Count("glCullFace"))
	assert.True(t, d.Enabled(gl.CULL_FACE))
	assert.True(t, c.State().CullEnable)

	d.Reset()
	require.NoError(t, c.RenderMeshView(view))
	assert.Zero(t, d.Count("glEnable"))
	assert.Zero(t, d.Count("glDisable"))

	require.NoError(t, c.SetCullingMode(view, gl.CullFront))
	d.Reset()
	require.NoError(t, c.RenderMeshView(view))
	assert.Equal(t, 1, d.Count("glCullFace"))
	assert.Equal(t, gl.FRONT, d.State.CullFace)
	assert.Equal(t, gl.FRONT, c.State().CullMode)

	require.NoError(t, c.SetCullingMode(view, gl.CullNone))
	require.NoError(t, c.RenderMeshView(view))
	assert.False(t, d.Enabled(gl.CULL_FACE))
	assert.Equal(t, gl.BACK, d.State.CullFace)
}

func TestRenderMeshViewWireframe(t *testing.T) {
	t.Run("desktop", func(t *testing.T) {
		c, d := newCtx(t, gl.WithDesktopGL(true))
		view := completeView(t, c)
		require.NoError(t, c.SetWireframe(view, true))
		d.Reset()

		require.NoError(t, c.RenderMeshView(view))
		assert.Equal(t, 1, d.Count("glPolygonMode"))
		assert.Equal(t, gl.LINE, d.State.PolygonMode)
		assert.Equal(t, gl.LINE, c.State().FillMode)

		require.NoError(t, c.RenderMeshView(view))
		assert.Equal(t, 1, d.Count("glPolygonMode"))

		require.NoError(t, c.SetWireframe(view, false))
		require.NoError(t, c.RenderMeshView(view))
		assert.Equal(t, gl.FILL, d.State.PolygonMode)
	})
	t.Run("es", func(t *testing.T) {
		c, d := newCtx(t)
		view := completeView(t, c)
		require.NoError(t, c.SetWireframe(view, true))
		d.Reset()

		require.NoError(t, c.RenderMeshView(view))
		assert.Zero(t, d.Count("glPolygonMode"))
		assert.Equal(t, gl.FILL, c.State().FillMode)
	})
}

func TestRenderIncompleteMeshView(t *testing.T) {
	for name, setup := range map[string]func(t *testing.T, c *gl.Context) gl.MeshViewID{
		"no material": func(t *testing.T, c *gl.Context) gl.MeshViewID {
			view, err := c.CreateMeshView(newMesh(t, c))
			require.NoError(t, err)
			return view
		},
		"released mesh": func(t *testing.T, c *gl.Context) gl.MeshViewID {
			view := completeView(t, c)
			mv, err := c.MeshView(view)
			require.NoError(t, err)
			require.NoError(t, c.ReleaseMesh(mv.Mesh))
			return view
		},
		"released material": func(t *testing.T, c *gl.Context) gl.MeshViewID {
			view := completeView(t, c)
			mv, err := c.MeshView(view)
			require.NoError(t, err)
			require.NoError(t, c.ReleasePhongMaterial(mv.Material))
			return view
		},
	} {
		t.Run(name, func(t *testing.T) {
			c, d := newCtx(t)
			view := setup(t, c)
			d.Reset()

			assert.ErrorIs(t, c.RenderMeshView(view), gl.ErrIncompleteMeshView)
			assert.Empty(t, d.Calls)
		})
	}
}

func TestRenderIncompleteMeshViewLogsReferences(t *testing.T) {
	var buf bytes.Buffer
	c, _ := newCtx(t, gl.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	view, err := c.CreateMeshView(newMesh(t, c))
	require.NoError(t, err)
	assert.ErrorIs(t, c.RenderMeshView(view), gl.ErrIncompleteMeshView)
	assert.Contains(t, buf.String(), "mesh=live material=unset")

	buf.Reset()
	view = completeView(t, c)
	mv, err := c.MeshView(view)
	require.NoError(t, err)
	require.NoError(t, c.ReleaseMesh(mv.Mesh))
	assert.ErrorIs(t, c.RenderMeshView(view), gl.ErrIncompleteMeshView)
	assert.Contains(t, buf.String(), "mesh=released material=live")
}

func TestMeshViewNeedsLiveRecords(t *testing.T) {
	c, _ := newCtx(t)
	mesh := newMesh(t, c)
	mat, err := c.CreatePhongMaterial()
	require.NoError(t, err)
	view, err := c.CreateMeshView(mesh)
	require.NoError(t, err)

	require.NoError(t, c.ReleasePhongMaterial(mat))
	assert.ErrorIs(t, c.SetMaterial(view, mat), handle.ErrStale)

	require.NoError(t, c.ReleaseMesh(mesh))
	_, err = c.CreateMeshView(mesh)
	assert.ErrorIs(t, err, handle.ErrStale)
	_, err = c.CreateMeshView(0)
	assert.ErrorIs(t, err, handle.ErrInvalid)

	// The view outlives its mesh.
	_, err = c.MeshView(view)
	assert.NoError(t, err)
}

func TestRenderMeshViewResetsClientArrays(t *testing.T) {
	c, d := newCtx(t)
	view := completeView(t, c)
	floats, bytes := vertexData(4)

	require.NoError(t, c.DrawIndexedQuads(4, floats, bytes))
	require.NoError(t, c.RenderMeshView(view))
	assert.Nil(t, c.State().FloatData)
	assert.Nil(t, c.State().ByteData)

	d.Reset()
	require.NoError(t, c.DrawIndexedQuads(4, floats, bytes))
	assert.Equal(t, 4, d.Count("glVertexAttribPointer"))
	assert.Equal(t, unsafe.Pointer(&floats[0]), d.State.Attribs[0].Pointer)
}
