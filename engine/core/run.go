package core

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	glbackend "github.com/hubastard/es2/engine/gfx/gl"
)

// ErrNilContext is returned when newContext reports success without a context.
var ErrNilContext = errors.New("core: nil graphics context")

// Run wires the platform window + graphics context and executes the main loop.
// The context is disposed on return; disposing it releases the window.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newContext func(Window, Config) (*glbackend.Context, error)) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := cfg.Validate(); err != nil {
		return err
	}

	win, err := newWindow(cfg)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	ctx, err := newContext(win, cfg)
	if err != nil {
		return fmt.Errorf("create context: %w", err)
	}
	if ctx == nil {
		return ErrNilContext
	}
	defer ctx.Dispose()

	log := slog.Default().With("component", "core")
	info := ctx.Info()
	log.Info("context ready", "version", info.Version, "renderer", info.Renderer, "desktop", ctx.DesktopGL())
	if missing := ctx.Procs().Missing(); len(missing) > 0 {
		log.Warn("capabilities missing", "symbols", missing)
	}

	ctx.InitState()
	w, h := win.FramebufferSize()
	ctx.UpdateViewport(0, 0, int32(w), int32(h))

	eng := &Engine{Window: win, GL: ctx, Input: NewInput(), Config: cfg, start: time.Now()}
	win.SetEventCallback(func(ev Event) {
		eng.Input.Handle(ev)
		if r, ok := ev.(EventResize); ok && r.W > 0 && r.H > 0 {
			fw, fh := win.FramebufferSize()
			if fw >= 1 && fh >= 1 {
				ctx.UpdateViewport(0, 0, int32(fw), int32(fh))
			}
		}
		handled := false
		eng.Layers.ForEachReverse(func(l Layer) bool {
			handled = l.OnEvent(eng, ev)
			return handled
		})
		if !handled {
			app.OnEvent(eng, ev)
		}
	})

	app.OnStart(eng)

	// Fixed-timestep (60 Hz) with interpolation
	const tick = time.Second / 60
	var (
		accum   time.Duration
		prev    = time.Now()
		clear   = cfg.ClearColor
		maxStep = 10 // prevent spiral of death
	)

	for !win.ShouldClose() {
		now := time.Now()
		accum += now.Sub(prev)
		prev = now

		// Poll OS events (platform will emit via callbacks)
		win.PollEvents()

		steps := 0
		for accum >= tick && steps < maxStep {
			dt := float64(tick) / float64(time.Second)
			eng.Layers.ForEach(func(l Layer) { l.OnUpdate(eng, dt) })
			app.OnUpdate(eng, dt)
			accum -= tick
			steps++
		}
		alpha := float64(accum) / float64(tick)

		ctx.ClearBuffers(clear[0], clear[1], clear[2], clear[3], true, true, true)
		eng.Layers.ForEach(func(l Layer) { l.OnRender(eng, alpha) })
		app.OnRender(eng, alpha)

		win.SwapBuffers()
		eng.frames++
		if cfg.MaxFrames > 0 && eng.frames >= cfg.MaxFrames {
			win.RequestClose()
		}
	}

	for l, ok := eng.Layers.Pop(); ok; l, ok = eng.Layers.Pop() {
		l.OnDetach(eng)
	}
	app.OnShutdown(eng)
	log.Info("engine exit", "frames", eng.frames, "uptime", eng.Uptime().Round(time.Millisecond))
	return nil
}
