// Package gltest provides an in-memory GL driver for tests. It simulates
// the state the glbackend layer touches, records every call and tracks the
// lifetime of driver objects so leaks can be asserted.
package gltest

import (
	"slices"
	"unsafe"

	gl "github.com/hubastard/es2/engine/gfx/gl"
)

// Call is one recorded driver call.
type Call struct {
	Name string
	Args []any
}

// Clear captures the state in effect when glClear ran.
type Clear struct {
	Mask      gl.Enum
	Color     [4]float32
	Scissor   bool
	DepthMask bool
}

// Attrib is the simulated state of one vertex attribute.
type Attrib struct {
	Enabled    bool
	Size       int32
	Type       gl.Enum
	Normalized bool
	Stride     int32
	Pointer    unsafe.Pointer // client array, when Buffer is 0
	Offset     uintptr        // offset into Buffer
	Buffer     uint32
}

// Live counts driver objects that were created and not yet deleted.
type Live struct {
	Textures      int
	Buffers       int
	Framebuffers  int
	Renderbuffers int
	Shaders       int
	Programs      int
}

// State is the simulated driver state.
type State struct {
	Caps        map[gl.Enum]bool
	ClearColor  [4]float32
	DepthMask   bool
	DepthFunc   gl.Enum
	ScissorRect [4]int32
	Viewport    [4]int32
	CullFace    gl.Enum
	FrontFace   gl.Enum
	PolygonMode gl.Enum
	BlendSrc    gl.Enum
	BlendDst    gl.Enum
	PixelStore  map[gl.Enum]int32
	TexParams   map[gl.Enum]int32
	ActiveUnit  gl.Enum
	Attribs     [8]Attrib
	Program     uint32

	BoundTexture      uint32
	BoundArrayBuffer  uint32
	BoundElements     uint32
	BoundFramebuffer  uint32
	BoundRenderbuffer uint32
}

// Driver is a fake glbackend.Driver. The exported fields are the simulated
// driver state; tests read them directly and set the failure knobs before
// exercising the code under test.
type Driver struct {
	Calls  []Call
	Clears []Clear

	State State

	Uniforms     map[int32]any
	Strings      map[gl.Enum]string
	MaxTexture   int32
	Pixel        [4]byte // RGBA value ReadPixels returns for every pixel
	BufferData   map[uint32][]byte
	AttribLocs   map[string]uint32
	Attached     map[uint32][]uint32
	ShaderSource map[uint32]string

	// Failure knobs.
	TexImageError     gl.Enum // raised by the next TexImage2D
	FramebufferStatus gl.Enum // returned by CheckFramebufferStatus
	CompileFails      bool
	LinkFails         bool
	ValidateFails     bool
	NoNames           bool // generators return 0

	pending gl.Enum
	next    uint32

	textures      map[uint32]bool
	buffers       map[uint32]bool
	framebuffers  map[uint32]bool
	renderbuffers map[uint32]bool
	shaders       map[uint32]gl.Enum
	programs      map[uint32]bool
	uniformLocs   map[string]int32
}

var _ gl.Driver = (*Driver)(nil)

// NewDriver returns a driver in the GL default state with a complete
// framebuffer and successful shader builds.
func NewDriver() *Driver {
	return &Driver{
		State: State{
			Caps:        map[gl.Enum]bool{},
			DepthMask:   true,
			DepthFunc:   0x201, // GL_LESS
			CullFace:    gl.BACK,
			FrontFace:   gl.CCW,
			PolygonMode: gl.FILL,
			ScissorRect: [4]int32{0, 0, 800, 600}, // window size
			BlendSrc:    gl.ONE,
			BlendDst:    gl.ZERO,
			PixelStore:  map[gl.Enum]int32{gl.UNPACK_ALIGNMENT: 4},
			TexParams:   map[gl.Enum]int32{},
			ActiveUnit:  gl.TEXTURE0,
		},
		Uniforms:          map[int32]any{},
		Strings:           map[gl.Enum]string{gl.VENDOR: "gltest", gl.RENDERER: "fake", gl.VERSION: "2.1 gltest", gl.EXTENSIONS: "GL_ARB_framebuffer_object"},
		MaxTexture:        4096,
		Pixel:             [4]byte{0x11, 0x22, 0x33, 0x44},
		BufferData:        map[uint32][]byte{},
		AttribLocs:        map[string]uint32{},
		Attached:          map[uint32][]uint32{},
		ShaderSource:      map[uint32]string{},
		FramebufferStatus: gl.FRAMEBUFFER_COMPLETE,
		textures:          map[uint32]bool{},
		buffers:           map[uint32]bool{},
		framebuffers:      map[uint32]bool{},
		renderbuffers:     map[uint32]bool{},
		shaders:           map[uint32]gl.Enum{},
		programs:          map[uint32]bool{},
		uniformLocs:       map[string]int32{},
	}
}

func (d *Driver) record(name string, args ...any) {
	d.Calls = append(d.Calls, Call{Name: name, Args: args})
}

func (d *Driver) name() uint32 {
	if d.NoNames {
		return 0
	}
	d.next++
	return d.next
}

// Count returns how many times the GL function name was called.
func (d *Driver) Count(name string) int {
	n := 0
	for _, c := range d.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Names returns the recorded call names in order.
func (d *Driver) Names() []string {
	out := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		out[i] = c.Name
	}
	return out
}

// Reset forgets recorded calls and clears, keeping the simulated state.
func (d *Driver) Reset() {
	d.Calls = nil
	d.Clears = nil
}

// Enabled reports the simulated state of a capability.
func (d *Driver) Enabled(cap gl.Enum) bool { return d.State.Caps[cap] }

// Live returns the number of live driver objects.
func (d *Driver) Live() Live {
	return Live{
		Textures:      len(d.textures),
		Buffers:       len(d.buffers),
		Framebuffers:  len(d.framebuffers),
		Renderbuffers: len(d.renderbuffers),
		Shaders:       len(d.shaders),
		Programs:      len(d.programs),
	}
}

// IsBuffer reports whether buf is a live buffer object.
func (d *Driver) IsBuffer(buf uint32) bool { return d.buffers[buf] }

// IsShader reports whether sh is a live shader object.
func (d *Driver) IsShader(sh uint32) bool { _, ok := d.shaders[sh]; return ok }

func (d *Driver) Enable(cap gl.Enum) {
	d.record("glEnable", cap)
	d.State.Caps[cap] = true
}

func (d *Driver) Disable(cap gl.Enum) {
	d.record("glDisable", cap)
	d.State.Caps[cap] = false
}

func (d *Driver) BlendFunc(src, dst gl.Enum) {
	d.record("glBlendFunc", src, dst)
	d.State.BlendSrc, d.State.BlendDst = src, dst
}

func (d *Driver) Clear(mask gl.Enum) {
	d.record("glClear", mask)
	d.Clears = append(d.Clears, Clear{
		Mask:      mask,
		Color:     d.State.ClearColor,
		Scissor:   d.State.Caps[gl.SCISSOR_TEST],
		DepthMask: d.State.DepthMask,
	})
}

func (d *Driver) ClearColor(r, g, b, a float32) {
	d.record("glClearColor", r, g, b, a)
	d.State.ClearColor = [4]float32{r, g, b, a}
}

func (d *Driver) DepthMask(flag bool) {
	d.record("glDepthMask", flag)
	d.State.DepthMask = flag
}

func (d *Driver) DepthFunc(fn gl.Enum) {
	d.record("glDepthFunc", fn)
	d.State.DepthFunc = fn
}

func (d *Driver) Scissor(x, y, w, h int32) {
	d.record("glScissor", x, y, w, h)
	d.State.ScissorRect = [4]int32{x, y, w, h}
}

func (d *Driver) Viewport(x, y, w, h int32) {
	d.record("glViewport", x, y, w, h)
	d.State.Viewport = [4]int32{x, y, w, h}
}

func (d *Driver) CullFace(mode gl.Enum) {
	d.record("glCullFace", mode)
	d.State.CullFace = mode
}

func (d *Driver) FrontFace(mode gl.Enum) {
	d.record("glFrontFace", mode)
	d.State.FrontFace = mode
}

func (d *Driver) PolygonMode(face, mode gl.Enum) {
	d.record("glPolygonMode", face, mode)
	d.State.PolygonMode = mode
}

func (d *Driver) GenTexture() uint32 {
	d.record("glGenTextures")
	t := d.name()
	if t != 0 {
		d.textures[t] = true
	}
	return t
}

func (d *Driver) BindTexture(target gl.Enum, tex uint32) {
	d.record("glBindTexture", target, tex)
	d.State.BoundTexture = tex
}

func (d *Driver) TexImage2D(target gl.Enum, level int32, internalFormat gl.Enum, width, height, border int32, format, xtype gl.Enum, pixels []byte) {
	d.record("glTexImage2D", target, level, internalFormat, width, height, border, format, xtype, len(pixels))
	if d.TexImageError != gl.NO_ERROR {
		d.pending = d.TexImageError
		d.TexImageError = gl.NO_ERROR
	}
}

func (d *Driver) TexSubImage2D(target gl.Enum, level, x, y, width, height int32, format, xtype gl.Enum, pixels []byte) {
	d.record("glTexSubImage2D", target, level, x, y, width, height, format, xtype, len(pixels))
}

func (d *Driver) TexParameteri(target, pname gl.Enum, param int32) {
	d.record("glTexParameteri", target, pname, param)
	d.State.TexParams[pname] = param
}

func (d *Driver) DeleteTexture(tex uint32) {
	d.record("glDeleteTextures", tex)
	delete(d.textures, tex)
	if d.State.BoundTexture == tex {
		d.State.BoundTexture = 0
	}
}

func (d *Driver) PixelStorei(pname gl.Enum, param int32) {
	d.record("glPixelStorei", pname, param)
	d.State.PixelStore[pname] = param
}

// ReadPixels fills dst with Pixel, in BGRA order when format is BGRA.
func (d *Driver) ReadPixels(x, y, width, height int32, format, xtype gl.Enum, dst []byte) {
	d.record("glReadPixels", x, y, width, height, format, xtype)
	px := d.Pixel
	if format == gl.BGRA {
		px[0], px[2] = px[2], px[0]
	}
	n := int(width) * int(height) * 4
	for i := 0; i+4 <= n && i+4 <= len(dst); i += 4 {
		copy(dst[i:i+4], px[:])
	}
}

func (d *Driver) DrawElements(mode gl.Enum, count int32, xtype gl.Enum) {
	d.record("glDrawElements", mode, count, xtype)
}

func (d *Driver) DrawArrays(mode gl.Enum, first, count int32) {
	d.record("glDrawArrays", mode, first, count)
}

func (d *Driver) GetInteger(pname gl.Enum) int32 {
	d.record("glGetIntegerv", pname)
	switch pname {
	case gl.FRAMEBUFFER_BINDING:
		return int32(d.State.BoundFramebuffer)
	case gl.TEXTURE_BINDING_2D:
		return int32(d.State.BoundTexture)
	case gl.MAX_TEXTURE_SIZE:
		return d.MaxTexture
	}
	return 0
}

func (d *Driver) GetString(name gl.Enum) string {
	d.record("glGetString", name)
	return d.Strings[name]
}

func (d *Driver) GetError() gl.Enum {
	d.record("glGetError")
	e := d.pending
	d.pending = gl.NO_ERROR
	return e
}

func (d *Driver) Finish() { d.record("glFinish") }

// Procs returns a capability table backed by d with the given GL symbols
// left unresolved.
func (d *Driver) Procs(omit ...string) gl.Procs {
	p := gl.Procs{
		ActiveTexture: func(unit gl.Enum) {
			d.record("glActiveTexture", unit)
			d.State.ActiveUnit = unit
		},

		GenFramebuffer: func() uint32 {
			d.record("glGenFramebuffers")
			fb := d.name()
			if fb != 0 {
				d.framebuffers[fb] = true
			}
			return fb
		},
		BindFramebuffer: func(target gl.Enum, fb uint32) {
			d.record("glBindFramebuffer", target, fb)
			d.State.BoundFramebuffer = fb
		},
		FramebufferTexture2D: func(target, attachment, texTarget gl.Enum, tex uint32, level int32) {
			d.record("glFramebufferTexture2D", target, attachment, texTarget, tex, level)
		},
		CheckFramebufferStatus: func(target gl.Enum) gl.Enum {
			d.record("glCheckFramebufferStatus", target)
			return d.FramebufferStatus
		},
		DeleteFramebuffer: func(fb uint32) {
			d.record("glDeleteFramebuffers", fb)
			delete(d.framebuffers, fb)
			if d.State.BoundFramebuffer == fb {
				d.State.BoundFramebuffer = 0
			}
		},
		GenRenderbuffer: func() uint32 {
			d.record("glGenRenderbuffers")
			rb := d.name()
			if rb != 0 {
				d.renderbuffers[rb] = true
			}
			return rb
		},
		BindRenderbuffer: func(target gl.Enum, rb uint32) {
			d.record("glBindRenderbuffer", target, rb)
			d.State.BoundRenderbuffer = rb
		},
		RenderbufferStorage: func(target, internalFormat gl.Enum, width, height int32) {
			d.record("glRenderbufferStorage", target, internalFormat, width, height)
		},
		FramebufferRenderbuffer: func(target, attachment, rbTarget gl.Enum, rb uint32) {
			d.record("glFramebufferRenderbuffer", target, attachment, rbTarget, rb)
		},
		DeleteRenderbuffer: func(rb uint32) {
			d.record("glDeleteRenderbuffers", rb)
			delete(d.renderbuffers, rb)
		},

		CreateShader: func(kind gl.Enum) uint32 {
			d.record("glCreateShader", kind)
			sh := d.name()
			if sh != 0 {
				d.shaders[sh] = kind
			}
			return sh
		},
		ShaderSource: func(sh uint32, src string) {
			d.record("glShaderSource", sh)
			d.ShaderSource[sh] = src
		},
		CompileShader: func(sh uint32) { d.record("glCompileShader", sh) },
		GetShaderi: func(sh uint32, pname gl.Enum) int32 {
			d.record("glGetShaderiv", sh, pname)
			if pname == gl.COMPILE_STATUS && !d.CompileFails {
				return 1
			}
			return 0
		},
		GetShaderInfoLog: func(sh uint32) string {
			d.record("glGetShaderInfoLog", sh)
			if d.CompileFails {
				return "0:1: syntax error"
			}
			return ""
		},
		DeleteShader: func(sh uint32) {
			d.record("glDeleteShader", sh)
			delete(d.shaders, sh)
		},

		CreateProgram: func() uint32 {
			d.record("glCreateProgram")
			prog := d.name()
			if prog != 0 {
				d.programs[prog] = true
			}
			return prog
		},
		AttachShader: func(prog, sh uint32) {
			d.record("glAttachShader", prog, sh)
			d.Attached[prog] = append(d.Attached[prog], sh)
		},
		DetachShader: func(prog, sh uint32) {
			d.record("glDetachShader", prog, sh)
			d.Attached[prog] = slices.DeleteFunc(d.Attached[prog], func(s uint32) bool { return s == sh })
		},
		BindAttribLocation: func(prog, index uint32, name string) {
			d.record("glBindAttribLocation", prog, index, name)
			d.AttribLocs[name] = index
		},
		LinkProgram:     func(prog uint32) { d.record("glLinkProgram", prog) },
		ValidateProgram: func(prog uint32) { d.record("glValidateProgram", prog) },
		GetProgrami: func(prog uint32, pname gl.Enum) int32 {
			d.record("glGetProgramiv", prog, pname)
			switch pname {
			case gl.LINK_STATUS:
				if !d.LinkFails {
					return 1
				}
			case gl.VALIDATE_STATUS:
				if !d.ValidateFails {
					return 1
				}
			}
			return 0
		},
		GetProgramInfoLog: func(prog uint32) string {
			d.record("glGetProgramInfoLog", prog)
			return "program log"
		},
		DeleteProgram: func(prog uint32) {
			d.record("glDeleteProgram", prog)
			delete(d.programs, prog)
			delete(d.Attached, prog)
		},
		UseProgram: func(prog uint32) {
			d.record("glUseProgram", prog)
			d.State.Program = prog
		},
		GetUniformLocation: func(prog uint32, name string) int32 {
			d.record("glGetUniformLocation", prog, name)
			loc, ok := d.uniformLocs[name]
			if !ok {
				loc = int32(len(d.uniformLocs))
				d.uniformLocs[name] = loc
			}
			return loc
		},

		Uniform1f: func(loc int32, v0 float32) { d.uniform("glUniform1f", loc, []float32{v0}) },
		Uniform2f: func(loc int32, v0, v1 float32) { d.uniform("glUniform2f", loc, []float32{v0, v1}) },
		Uniform3f: func(loc int32, v0, v1, v2 float32) { d.uniform("glUniform3f", loc, []float32{v0, v1, v2}) },
		Uniform4f: func(loc int32, v0, v1, v2, v3 float32) {
			d.uniform("glUniform4f", loc, []float32{v0, v1, v2, v3})
		},
		Uniform4fv: func(loc int32, v []float32) { d.uniform("glUniform4fv", loc, slices.Clone(v)) },
		Uniform1i:  func(loc int32, v0 int32) { d.uniform("glUniform1i", loc, []int32{v0}) },
		Uniform2i:  func(loc int32, v0, v1 int32) { d.uniform("glUniform2i", loc, []int32{v0, v1}) },
		Uniform3i:  func(loc int32, v0, v1, v2 int32) { d.uniform("glUniform3i", loc, []int32{v0, v1, v2}) },
		Uniform4i: func(loc int32, v0, v1, v2, v3 int32) {
			d.uniform("glUniform4i", loc, []int32{v0, v1, v2, v3})
		},
		Uniform4iv: func(loc int32, v []int32) { d.uniform("glUniform4iv", loc, slices.Clone(v)) },
		UniformMatrix4fv: func(loc int32, transpose bool, m []float32) {
			d.uniform("glUniformMatrix4fv", loc, slices.Clone(m))
		},

		EnableVertexAttribArray: func(i uint32) {
			d.record("glEnableVertexAttribArray", i)
			d.State.Attribs[i].Enabled = true
		},
		DisableVertexAttribArray: func(i uint32) {
			d.record("glDisableVertexAttribArray", i)
			d.State.Attribs[i].Enabled = false
		},
		VertexAttribPointer: func(i uint32, size int32, xtype gl.Enum, normalized bool, stride int32, data unsafe.Pointer) {
			d.record("glVertexAttribPointer", i, size, xtype, normalized, stride)
			d.State.Attribs[i] = Attrib{Enabled: d.State.Attribs[i].Enabled, Size: size, Type: xtype,
				Normalized: normalized, Stride: stride, Pointer: data}
		},
		VertexAttribOffset: func(i uint32, size int32, xtype gl.Enum, normalized bool, stride int32, offset uintptr) {
			d.record("glVertexAttribPointer", i, size, xtype, normalized, stride)
			d.State.Attribs[i] = Attrib{Enabled: d.State.Attribs[i].Enabled, Size: size, Type: xtype,
				Normalized: normalized, Stride: stride, Offset: offset, Buffer: d.State.BoundArrayBuffer}
		},

		GenBuffers: func(n int) []uint32 {
			d.record("glGenBuffers", n)
			out := make([]uint32, n)
			for i := range out {
				out[i] = d.name()
				if out[i] != 0 {
					d.buffers[out[i]] = true
				}
			}
			return out
		},
		BindBuffer: func(target gl.Enum, buf uint32) {
			d.record("glBindBuffer", target, buf)
			if target == gl.ELEMENT_ARRAY_BUFFER {
				d.State.BoundElements = buf
			} else {
				d.State.BoundArrayBuffer = buf
			}
		},
		BufferData: func(target gl.Enum, size int, data unsafe.Pointer, usage gl.Enum) {
			d.record("glBufferData", target, size, usage)
			buf := d.State.BoundArrayBuffer
			if target == gl.ELEMENT_ARRAY_BUFFER {
				buf = d.State.BoundElements
			}
			var b []byte
			if data != nil {
				b = slices.Clone(unsafe.Slice((*byte)(data), size))
			}
			d.BufferData[buf] = b
		},
		DeleteBuffers: func(bufs []uint32) {
			d.record("glDeleteBuffers", slices.Clone(bufs))
			for _, b := range bufs {
				delete(d.buffers, b)
				delete(d.BufferData, b)
				if d.State.BoundArrayBuffer == b {
					d.State.BoundArrayBuffer = 0
				}
				if d.State.BoundElements == b {
					d.State.BoundElements = 0
				}
			}
		},
	}
	return p.Without(omit...)
}

func (d *Driver) uniform(name string, loc int32, v any) {
	d.record(name, loc, v)
	d.Uniforms[loc] = v
}
