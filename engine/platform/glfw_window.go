package platform

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/hubastard/es2/engine/core"
	glbackend "github.com/hubastard/es2/engine/gfx/gl"
	"github.com/hubastard/es2/engine/gfx/gl/gogl"
)

// GLFWWindow implements core.Window and pushes events to the app via a handler.
// It also owns the GL context: releasing it destroys the window.
type GLFWWindow struct {
	w    *glfw.Window
	onEv func(core.Event)
}

// platformExtensions are the window system extensions worth reporting.
// GLFW has no call returning the raw GLX/WGL/EGL string.
var platformExtensions = []string{
	"GLX_ARB_create_context",
	"GLX_ARB_create_context_profile",
	"GLX_EXT_swap_control",
	"GLX_EXT_swap_control_tear",
	"GLX_MESA_swap_control",
	"WGL_ARB_create_context",
	"WGL_ARB_create_context_profile",
	"WGL_EXT_swap_control",
	"WGL_EXT_swap_control_tear",
	"EGL_KHR_create_context",
}

// NewGLFWWindow opens the window and makes its context current.
// Must be called on main thread before any GL calls.
func NewGLFWWindow(cfg core.Config, onEvent func(core.Event)) (*GLFWWindow, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	// Compatibility profile: the 2D path draws from client side arrays.
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCompatProfile)
	glfw.WindowHint(glfw.Samples, 0)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	gw := &GLFWWindow{w: win, onEv: onEvent}

	// Callbacks -> translate to core.Event
	win.SetCloseCallback(func(*glfw.Window) { gw.emit(core.EventCloseRequested{}) })
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		gw.emit(core.EventResize{W: w, H: h})
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		gw.emit(core.EventMouseMove{X: x, Y: y})
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		k := translateKey(key)
		if k == core.KeyUnknown {
			return
		}
		gw.emit(core.EventKey{Key: k, Down: action != glfw.Release, Mods: translateMods(mods)})
	})
	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		gw.emit(core.EventScroll{Xoff: xoff, Yoff: yoff})
	})

	return gw, nil
}

// NewWindow adapts NewGLFWWindow to core.Run.
func NewWindow(cfg core.Config) (core.Window, error) {
	w, err := NewGLFWWindow(cfg, nil)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// NewContext resolves the GL entry points of the window's current context
// and returns a Context owning the window. The window is destroyed when no
// context can be created.
func NewContext(win core.Window, cfg core.Config) (*glbackend.Context, error) {
	gw, ok := win.(*GLFWWindow)
	if !ok {
		return nil, fmt.Errorf("platform: window %T is not a GLFW window", win)
	}
	missing, err := gogl.Init(glfw.GetProcAddress)
	if err != nil {
		gw.Release()
		return nil, fmt.Errorf("platform: load GL: %w", err)
	}
	if len(missing) > 0 {
		slog.Debug("unresolved GL entry points", "count", len(missing))
	}

	procs := gogl.Bind(missing.Resolved)
	procs = procs.Without(cfg.DisableProcs...)

	var exts []string
	for _, name := range platformExtensions {
		if glfw.ExtensionSupported(name) {
			exts = append(exts, name)
		}
	}
	info := gogl.Info(strings.Join(exts, " "))

	return glbackend.NewContext(gogl.Driver{}, procs,
		glbackend.WithInfo(info),
		glbackend.WithPlatform(gw),
		glbackend.WithDesktopGL(!cfg.ES),
		glbackend.WithLogger(slog.Default().With("component", "gl")),
	), nil
}

// Release destroys the window and its GL context.
func (g *GLFWWindow) Release() {
	if g.w == nil {
		return
	}
	g.w.Destroy()
	g.w = nil
	glfw.Terminate()
}

func (g *GLFWWindow) emit(ev core.Event) {
	if g.onEv != nil {
		g.onEv(ev)
	}
}

// core.Window impl
func (g *GLFWWindow) PollEvents()                          { glfw.PollEvents() }
func (g *GLFWWindow) SwapBuffers()                         { g.w.SwapBuffers() }
func (g *GLFWWindow) ShouldClose() bool                    { return g.w.ShouldClose() }
func (g *GLFWWindow) RequestClose()                        { g.w.SetShouldClose(true) }
func (g *GLFWWindow) FramebufferSize() (int, int)          { return g.w.GetFramebufferSize() }
func (g *GLFWWindow) SetTitle(t string)                    { g.w.SetTitle(t) }
func (g *GLFWWindow) SetEventCallback(cb func(core.Event)) { g.onEv = cb }

func translateKey(k glfw.Key) core.Key {
	switch k {
	case glfw.KeyEscape:
		return core.KeyEscape
	case glfw.KeySpace:
		return core.KeySpace
	case glfw.KeyW:
		return core.KeyW
	case glfw.KeyA:
		return core.KeyA
	case glfw.KeyS:
		return core.KeyS
	case glfw.KeyD:
		return core.KeyD
	case glfw.KeyC:
		return core.KeyC
	case glfw.KeyP:
		return core.KeyP
	default:
		return core.KeyUnknown
	}
}

func translateMods(m glfw.ModifierKey) core.Mod {
	var out core.Mod
	if m&glfw.ModShift != 0 {
		out |= core.ModShift
	}
	if m&glfw.ModControl != 0 {
		out |= core.ModCtrl
	}
	if m&glfw.ModAlt != 0 {
		out |= core.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		out |= core.ModSuper
	}
	return out
}
