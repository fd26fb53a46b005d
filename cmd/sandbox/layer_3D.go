package main

import (
	"errors"
	"log/slog"

	"github.com/hubastard/es2/engine/assets"
	"github.com/hubastard/es2/engine/core"
	glbackend "github.com/hubastard/es2/engine/gfx/gl"
	"github.com/hubastard/es2/engine/gfx/renderer2d"
	"github.com/hubastard/es2/engine/profiler"
	"github.com/hubastard/es2/engine/scene"
)

var meshAttribs = []string{"aPosition", "aTexCoord", "aNormal"}

type meshUniforms struct {
	mvp, model                       int32
	diffuseColor, diffuseMap, hasMap int32
	ambient                          int32
	lightPos, lightColor, lightW     int32
}

// Layer3D spins a lit cube through a mesh view.
// Space cycles the cull mode, C toggles wireframe.
type Layer3D struct {
	cam *scene.OrbitCamera

	vert, frag, prog uint32
	u                meshUniforms

	tex      uint32
	mesh     glbackend.MeshID
	material glbackend.MaterialID
	view     glbackend.MeshViewID

	cull      glbackend.CullMode
	wireframe bool
	angle     float32
	ready     bool
	warned    bool
}

func (l *Layer3D) OnAttach(e *core.Engine) {
	l.cam = scene.NewOrbitCamera(e.Window.FramebufferSize())
	if err := l.setup(e.GL); err != nil {
		slog.Warn("3D layer disabled", "err", err)
		l.OnDetach(e)
		return
	}
	l.ready = true
}

func (l *Layer3D) setup(ctx *glbackend.Context) error {
	vs, err := assets.LoadShader("mesh.vert")
	if err != nil {
		return err
	}
	fs, err := assets.LoadShader("mesh.frag")
	if err != nil {
		return err
	}
	if l.vert, err = ctx.CompileShader(vs, true); err != nil {
		return err
	}
	if l.frag, err = ctx.CompileShader(fs, false); err != nil {
		return err
	}
	if l.prog, err = ctx.CreateProgram(l.vert, []uint32{l.frag}, meshAttribs, []uint32{0, 1, 2}); err != nil {
		if errors.Is(err, glbackend.ErrProgramLink) || errors.Is(err, glbackend.ErrProgramValidate) {
			l.vert, l.frag = 0, 0
		}
		return err
	}
	l.u = meshUniforms{
		mvp:          ctx.GetUniformLocation(l.prog, "uMVP"),
		model:        ctx.GetUniformLocation(l.prog, "uModel"),
		diffuseColor: ctx.GetUniformLocation(l.prog, "uDiffuseColor"),
		diffuseMap:   ctx.GetUniformLocation(l.prog, "uDiffuseMap"),
		hasMap:       ctx.GetUniformLocation(l.prog, "uHasDiffuseMap"),
		ambient:      ctx.GetUniformLocation(l.prog, "uAmbientLight"),
		lightPos:     ctx.GetUniformLocation(l.prog, "uLightPos"),
		lightColor:   ctx.GetUniformLocation(l.prog, "uLightColor"),
		lightW:       ctx.GetUniformLocation(l.prog, "uLightWeight"),
	}

	w, h, pix, err := assets.LoadTexture("checker.png", int(ctx.MaxTextureSize()))
	if err != nil {
		return err
	}
	if l.tex, err = renderer2d.UploadRGBA(ctx, int32(w), int32(h), pix); err != nil {
		return err
	}
	ctx.UpdateWrapState(glbackend.WrapRepeat)
	ctx.UpdateFilterState(true)

	if l.mesh, err = ctx.CreateMesh(); err != nil {
		return err
	}
	verts, inds := scene.Cube(1)
	if err := ctx.BuildNativeGeometry(l.mesh, verts, inds); err != nil {
		return err
	}
	if l.material, err = ctx.CreatePhongMaterial(); err != nil {
		return err
	}
	if err := ctx.SetSolidColor(l.material, 1, 0.75, 0.5, 1); err != nil {
		return err
	}
	if err := ctx.SetMap(l.material, glbackend.MapDiffuse, l.tex, false, false); err != nil {
		return err
	}
	if l.view, err = ctx.CreateMeshView(l.mesh); err != nil {
		return err
	}
	if err := ctx.SetMaterial(l.view, l.material); err != nil {
		return err
	}
	if err := ctx.SetAmbientLight(l.view, 0.15, 0.15, 0.2); err != nil {
		return err
	}
	l.cull = glbackend.CullBack
	return ctx.SetPointLight(l.view, 0, 2, 3, 2, 1, 0.95, 0.9, 1)
}

func (l *Layer3D) OnDetach(e *core.Engine) {
	ctx := e.GL
	if l.view != glbackend.MeshViewID(0) {
		_ = ctx.ReleaseMeshView(l.view)
	}
	if l.material != glbackend.MaterialID(0) {
		_ = ctx.ReleasePhongMaterial(l.material)
	}
	if l.mesh != glbackend.MeshID(0) {
		_ = ctx.ReleaseMesh(l.mesh)
	}
	ctx.DeleteTexture(l.tex)
	if l.prog != 0 {
		ctx.DisposeShaders(l.prog, l.vert, []uint32{l.frag})
	} else {
		ctx.DeleteShader(l.vert)
		ctx.DeleteShader(l.frag)
	}
	*l = Layer3D{cam: l.cam}
}

func (l *Layer3D) OnUpdate(e *core.Engine, dt float64) {
	l.angle += float32(dt) * 0.8
	l.cam.Yaw += float32(dt) * 0.1
}

func (l *Layer3D) OnRender(e *core.Engine, alpha float64) {
	defer profiler.Start("Layer3D.OnRender")()
	if !l.ready {
		return
	}
	ctx := e.GL
	mv, err := ctx.MeshView(l.view)
	if err != nil {
		return
	}
	mat, err := ctx.PhongMaterial(mv.Material)
	if err != nil {
		return
	}

	ctx.SetDeviceParametersFor3D()
	ctx.SetDepthTest(true)
	ctx.UseProgram(l.prog)

	model := scene.Mul(scene.RotateY(l.angle), scene.RotateX(l.angle*0.5))
	mvp := scene.Mul(l.cam.VP(), model)
	ctx.UniformMatrix4fv(l.u.mvp, false, mvp[:])
	ctx.UniformMatrix4fv(l.u.model, false, model[:])
	ctx.Uniform4fv(l.u.diffuseColor, mat.DiffuseColor[:])

	diffuse := mat.Maps[glbackend.MapDiffuse]
	ctx.ActiveTexture(0)
	ctx.BindTexture(diffuse)
	ctx.Uniform1i(l.u.diffuseMap, 0)
	hasMap := int32(0)
	if diffuse != 0 {
		hasMap = 1
	}
	ctx.Uniform1i(l.u.hasMap, hasMap)

	a := mv.AmbientLight
	ctx.Uniform3f(l.u.ambient, a[0], a[1], a[2])
	pl := mv.PointLight
	ctx.Uniform3f(l.u.lightPos, pl.Position[0], pl.Position[1], pl.Position[2])
	ctx.Uniform3f(l.u.lightColor, pl.Color[0], pl.Color[1], pl.Color[2])
	ctx.Uniform1f(l.u.lightW, pl.Weight)

	if err := ctx.RenderMeshView(l.view); err != nil && !l.warned {
		slog.Warn("render mesh view", "err", err)
		l.warned = true
	}
	ctx.SetDepthTest(false)
}

func (l *Layer3D) OnEvent(e *core.Engine, ev core.Event) bool {
	switch v := ev.(type) {
	case core.EventKey:
		if !v.Down || !l.ready {
			return false
		}
		switch v.Key {
		case core.KeySpace:
			l.cull = (l.cull + 1) % 3
			if err := e.GL.SetCullingMode(l.view, l.cull); err != nil {
				slog.Warn("set culling mode", "err", err)
			}
			return true
		case core.KeyC:
			l.wireframe = !l.wireframe
			if err := e.GL.SetWireframe(l.view, l.wireframe); err != nil {
				slog.Warn("set wireframe", "err", err)
			}
			return true
		}
	case core.EventResize:
		l.cam.SetViewportPixels(v.W, v.H)
	}
	return false
}
