package glbackend

import (
	"log/slog"
	"runtime"
	"unsafe"

	"github.com/hubastard/es2/engine/handle"
)

// State is the subset of driver state mirrored by a Context. Every field
// equals the driver's value whenever control is outside a Context method.
type State struct {
	DepthTestEnabled   bool
	DepthWritesEnabled bool
	ScissorEnabled     bool
	ScissorRect        [4]int32
	ClearColor         [4]float32
	FillMode           Enum
	CullEnable         bool
	CullMode           Enum

	// Base addresses of the client arrays last handed to
	// glVertexAttribPointer; nil when nothing is bound.
	FloatData unsafe.Pointer
	ByteData  unsafe.Pointer
}

// Info holds the strings the driver reported when the context was created.
type Info struct {
	Version            string
	Vendor             string
	Renderer           string
	Extensions         string
	PlatformExtensions string // GLX, EGL or WGL extension string
}

// Releaser frees the platform context (GLX/EGL/WGL) backing a Context.
type Releaser interface {
	Release()
}

// Option configures a Context at creation.
type Option func(*Context)

// WithInfo stores the driver strings on the context.
func WithInfo(info Info) Option { return func(c *Context) { c.info = info } }

// WithPlatform hands ownership of the platform context to the Context; it is
// released by Dispose.
func WithPlatform(r Releaser) Option { return func(c *Context) { c.platform = r } }

// WithDesktopGL marks the context as desktop GL rather than GLES. Desktop
// contexts have glPolygonMode and read back pixels as BGRA.
func WithDesktopGL(gl2 bool) Option { return func(c *Context) { c.gl2 = gl2 } }

// WithLogger overrides the package logger for this context.
func WithLogger(l *slog.Logger) Option { return func(c *Context) { c.log = l } }

// Context is the per rendering context descriptor: the driver, its resolved
// capability table and the cached fixed function state.
//
// A Context is bound to the thread that owns the GL context and is not safe
// for concurrent use. The caller must call Dispose exactly once; every method
// on a disposed Context is a no-op.
type Context struct {
	drv   Driver
	procs Procs
	state State
	info  Info
	gl2   bool

	// false until glScissor has been issued; the driver's initial box is the
	// window rectangle, which the cache cannot know.
	scissorRectKnown bool

	platform Releaser
	log      *slog.Logger

	// pins the client arrays referenced by State.FloatData/ByteData.
	pinner runtime.Pinner

	meshes    handle.Pool[*Mesh]
	materials handle.Pool[*PhongMaterial]
	views     handle.Pool[*MeshView]
}

// NewContext returns an initialized descriptor: procs as resolved, cached
// state zeroed. Call InitState once the GL context is current to bring the
// driver in line with the cache.
func NewContext(d Driver, p Procs, opts ...Option) *Context {
	c := &Context{drv: d, procs: p}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// InitState drives the GL context into the default state and records it.
func (c *Context) InitState() {
	if !c.live() {
		return
	}
	d := c.drv
	d.Enable(BLEND)
	d.BlendFunc(ONE, ONE_MINUS_SRC_ALPHA)

	c.state.DepthWritesEnabled = false
	d.DepthMask(false)
	c.state.DepthTestEnabled = false
	d.Disable(DEPTH_TEST)

	c.state.ScissorEnabled = false
	d.Disable(SCISSOR_TEST)
	c.state.ScissorRect = [4]int32{}
	d.Scissor(0, 0, 0, 0)
	c.scissorRectKnown = true

	c.state.ClearColor = [4]float32{}
	d.ClearColor(0, 0, 0, 0)

	c.resetAttribPointers()
	c.state.FillMode = FILL
	c.state.CullEnable = false
	c.state.CullMode = BACK
}

// Dispose drops the cached driver strings, releases the platform context and
// zeroes the descriptor. Records still alive are reported and abandoned:
// their driver objects die with the GL context.
func (c *Context) Dispose() {
	if !c.live() {
		return
	}
	if n := c.meshes.Len() + c.materials.Len() + c.views.Len(); n > 0 {
		log := c.logger()
		log.Warn("disposing context with live records",
			"meshes", c.meshes.Len(), "materials", c.materials.Len(), "meshViews", c.views.Len())
		c.meshes.Each(func(h handle.Handle, _ *Mesh) { log.Warn("leaked record", "record", MeshID(h)) })
		c.materials.Each(func(h handle.Handle, _ *PhongMaterial) { log.Warn("leaked record", "record", MaterialID(h)) })
		c.views.Each(func(h handle.Handle, _ *MeshView) { log.Warn("leaked record", "record", MeshViewID(h)) })
	}
	c.pinner.Unpin()
	if c.platform != nil {
		c.platform.Release()
	}
	*c = Context{}
}

// Disposed reports whether Dispose has been called.
func (c *Context) Disposed() bool { return !c.live() }

// State returns a copy of the cached state.
func (c *Context) State() State { return c.state }

// Info returns the driver strings recorded at creation.
func (c *Context) Info() Info { return c.info }

// Procs returns the resolved capability table.
func (c *Context) Procs() *Procs { return &c.procs }

// DesktopGL reports whether the context is desktop GL rather than GLES.
func (c *Context) DesktopGL() bool { return c.gl2 }

func (c *Context) live() bool { return c != nil && c.drv != nil }

func (c *Context) logger() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	return Logger()
}

// missing logs a skipped operation at debug level.
func (c *Context) missing(op string) {
	c.logger().Debug("skipping operation: entry point unavailable", "op", op)
}
