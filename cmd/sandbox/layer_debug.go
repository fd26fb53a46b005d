package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hubastard/es2/engine/colors"
	"github.com/hubastard/es2/engine/core"
	"github.com/hubastard/es2/engine/gfx/renderer2d"
	"github.com/hubastard/es2/engine/profiler"
	"github.com/hubastard/es2/engine/scene"
	"github.com/hubastard/es2/engine/text"
)

const overlayFontPx = 14

// LayerDebug draws frame timing, batch statistics, runtime counters and the
// GL renderer as a text overlay and mirrors the frame rate in the window
// title once per second. Ctrl+P opens the profiler capture.
type LayerDebug struct {
	r2d  *renderer2d.Renderer2D
	font *text.Atlas

	frames   int
	since    time.Time
	maxStats renderer2d.Statistics
	lines    string
}

func (l *LayerDebug) OnAttach(e *core.Engine) {
	l.since = time.Now()
	l.lines = e.GL.Info().Renderer

	font, err := text.Default(overlayFontPx)
	if err == nil {
		err = font.Upload(e.GL)
	}
	if err != nil {
		slog.Warn("debug overlay disabled", "err", err)
		return
	}
	l.font = font
}

func (l *LayerDebug) OnDetach(e *core.Engine) {
	if l.font != nil {
		l.font.Release(e.GL)
	}
}

func (l *LayerDebug) OnUpdate(e *core.Engine, dt float64) {}

func (l *LayerDebug) OnRender(e *core.Engine, alpha float64) {
	defer profiler.Start("LayerDebug.OnRender")()
	l.frames++
	s := l.r2d.Stats()
	l.maxStats.DrawCalls = max(l.maxStats.DrawCalls, s.DrawCalls)
	l.maxStats.QuadCount = max(l.maxStats.QuadCount, s.QuadCount)

	if elapsed := time.Since(l.since); elapsed >= time.Second {
		l.report(e, float64(l.frames)/elapsed.Seconds())
	}
	l.drawOverlay(e)
}

func (l *LayerDebug) report(e *core.Engine, fps float64) {
	info := e.GL.Info()
	rt := profiler.ReadStats()
	e.Window.SetTitle(fmt.Sprintf("%s | %.1f FPS", e.Config.Title, fps))
	l.lines = fmt.Sprintf("%.1f FPS\n%d draws, %d quads\nheap %.3f MB, %d allocs\n%d goroutines, %d CPUs\n%s\n%s",
		fps, l.maxStats.DrawCalls, l.maxStats.QuadCount,
		rt.HeapMB(), rt.Mallocs, rt.Goroutines, rt.CPUs,
		info.Renderer, info.Version)

	st := e.GL.State()
	slog.Debug("frame stats", "fps", fps, "draws", l.maxStats.DrawCalls, "quads", l.maxStats.QuadCount,
		"heapMB", rt.HeapMB(), "goroutines", rt.Goroutines,
		"depthTest", st.DepthTestEnabled, "cull", st.CullEnable, "fill", st.FillMode)

	l.frames = 0
	l.since = time.Now()
	l.maxStats = renderer2d.Statistics{}
}

func (l *LayerDebug) drawOverlay(e *core.Engine) {
	if l.font == nil {
		return
	}
	w, h := e.Window.FramebufferSize()
	const margin = 8
	tw, th := text.Measure(l.font, l.lines)

	l.r2d.BeginScene(scene.Ortho(0, float32(w), float32(h), 0, -1, 1))
	l.r2d.DrawQuad(tw*0.5+margin, th*0.5+margin, tw+margin*2, th+margin*2, colors.Black.WithAlpha(0.6), 0)
	text.Draw(l.r2d, l.font, margin*2, margin*2, l.lines, colors.White)
	if err := l.r2d.EndScene(); err != nil {
		slog.Warn("debug overlay", "err", err)
	}
}

func (l *LayerDebug) OnEvent(e *core.Engine, ev core.Event) bool {
	k, ok := ev.(core.EventKey)
	if !ok || !k.Down || k.Key != core.KeyP || k.Mods&core.ModCtrl == 0 {
		return false
	}
	path, err := profiler.OpenGraph()
	if err != nil {
		slog.Warn("profiler capture", "path", path, "err", err)
	} else {
		slog.Info("profiler capture", "path", path)
	}
	return true
}
