package main

import (
	"log/slog"

	"github.com/hubastard/es2/engine/assets"
	"github.com/hubastard/es2/engine/colors"
	"github.com/hubastard/es2/engine/core"
	glbackend "github.com/hubastard/es2/engine/gfx/gl"
	"github.com/hubastard/es2/engine/gfx/renderer2d"
	"github.com/hubastard/es2/engine/profiler"
	"github.com/hubastard/es2/engine/scene"
)

const offscreenSize = 128

// ------- A simple 2D Layer demo -------
type Layer2D struct {
	cam    *scene.OrthoCamera2D
	ctrl   *scene.OrthoController2D
	r2d    *renderer2d.Renderer2D
	tex    uint32
	player renderer2d.SubTexture2D
	t      float32

	// offscreen target, rendered once at attach
	rtTex, fbo, depth uint32

	w, h int
}

func (l *Layer2D) OnAttach(e *core.Engine) {
	l.w, l.h = e.Window.FramebufferSize()
	l.cam = scene.NewOrtho2D(l.w, l.h)
	l.ctrl = scene.NewOrthoController2D(l.cam)

	w, h, pixels, err := assets.LoadTexture("checker.png", int(e.GL.MaxTextureSize()))
	if err != nil {
		slog.Error("load texture", "err", err)
		return
	}
	l.tex, err = renderer2d.UploadRGBA(e.GL, int32(w), int32(h), pixels)
	if err != nil {
		slog.Error("upload texture", "err", err)
		return
	}
	e.GL.TexParamsMinMax(glbackend.FilterNearest)
	l.player = renderer2d.FromPixels(l.tex, 0, 0, 16, 16, w, h)

	l.renderOffscreen(e)
}

// renderOffscreen draws a small pattern into a texture backed framebuffer.
// Render targets are optional; the layer draws without one.
func (l *Layer2D) renderOffscreen(e *core.Engine) {
	ctx := e.GL
	var err error
	if l.rtTex, err = ctx.CreateTexture(offscreenSize, offscreenSize); err != nil {
		slog.Warn("offscreen texture unavailable", "err", err)
		return
	}
	if l.fbo, err = ctx.CreateFBO(l.rtTex); err != nil {
		slog.Warn("offscreen framebuffer unavailable", "err", err)
		return
	}
	ctx.BindFBO(l.fbo)
	if l.depth, err = ctx.CreateDepthBuffer(offscreenSize, offscreenSize); err != nil {
		slog.Warn("offscreen depth buffer unavailable", "err", err)
	}
	ctx.UpdateViewport(0, 0, offscreenSize, offscreenSize)

	cam := scene.NewOrtho2D(offscreenSize, offscreenSize)
	l.r2d.BeginScene(cam.VP())
	const cell = offscreenSize / 4
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := colors.Magenta
			if (x+y)%2 == 0 {
				c = colors.Cyan
			}
			px := float32(x*cell-offscreenSize/2) + cell/2
			py := float32(y*cell-offscreenSize/2) + cell/2
			l.r2d.DrawQuad(px, py, cell, cell, c, 0)
		}
	}
	if err := l.r2d.EndScene(); err != nil {
		slog.Warn("offscreen render", "err", err)
	}

	ctx.BindFBO(0)
	ctx.UpdateViewport(0, 0, int32(l.w), int32(l.h))
}

func (l *Layer2D) OnDetach(e *core.Engine) {
	e.GL.DeleteFBO(l.fbo)
	e.GL.DeleteRenderBuffer(l.depth)
	e.GL.DeleteTexture(l.rtTex)
	e.GL.DeleteTexture(l.tex)
}

func (l *Layer2D) OnUpdate(e *core.Engine, dt float64) {
	l.ctrl.Update(e.Input, float32(dt))
	l.t += float32(dt)
}

func (l *Layer2D) OnRender(e *core.Engine, alpha float64) {
	defer profiler.Start("Layer2D.OnRender")()
	hw, hh := float32(l.w)/2, float32(l.h)/2

	l.r2d.BeginScene(l.cam.VP())
	l.r2d.DrawQuad(-hw+80, -hh+80, 96, 96, colors.Red.WithAlpha(0.6), l.t)
	if l.tex != 0 {
		l.r2d.DrawSubTexQuad(-hw+200, -hh+80, 64, 64, l.player, colors.White, -l.t)
		l.r2d.DrawTexturedQuad(hw-80, -hh+80, 96, 96, l.tex, colors.White, 0)
	}
	if l.fbo != 0 {
		l.r2d.DrawTexturedQuad(hw-80, hh-80, offscreenSize, offscreenSize, l.rtTex, colors.White, 0)
	}
	if err := l.r2d.EndScene(); err != nil {
		slog.Warn("2D scene", "err", err)
	}

	// A scissored band across the bottom of the window.
	l.r2d.BeginScene(l.cam.VP())
	e.GL.ScissorTest(true, 0, 0, int32(l.w/2), 24)
	l.r2d.DrawQuad(0, hh-12, float32(l.w), 24, colors.Yellow.WithAlpha(0.8), 0)
	if err := l.r2d.EndScene(); err != nil {
		slog.Warn("2D scene", "err", err)
	}
	e.GL.ScissorTest(false, 0, 0, 0, 0)
}

func (l *Layer2D) OnEvent(e *core.Engine, ev core.Event) bool {
	switch v := ev.(type) {
	case core.EventKey:
		if v.Down && v.Key == core.KeyP {
			l.probePixel(e)
			return true
		}
	case core.EventResize:
		if v.W > 0 && v.H > 0 {
			l.w, l.h = v.W, v.H
			l.cam.SetViewportPixels(v.W, v.H)
		}
	}
	return false
}

// probePixel reads back the pixel under the window centre.
func (l *Layer2D) probePixel(e *core.Engine) {
	var px [4]byte
	if err := e.GL.ReadPixels(px[:], int32(l.w/2), int32(l.h/2), 1, 1); err != nil {
		slog.Warn("read pixels", "err", err)
		return
	}
	slog.Info("centre pixel", "bgra", px, "color", colors.FromBGRA8(px[:]))
}
