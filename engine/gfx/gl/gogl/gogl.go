// Package gogl backs glbackend with go-gl. Every function here assumes the
// GL context is current on the calling thread.
package gogl

import (
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	glb "github.com/hubastard/es2/engine/gfx/gl"
)

// Init loads the go-gl function pointers for the current context through
// getProcAddress and returns the symbols it could not resolve.
//
// go-gl refuses to initialize when any 3.3 core entry point is missing, so
// unresolved symbols are bound to a placeholder that must never be called.
// Pass the result to Bind through Missing.Resolved so their Procs fields stay
// nil.
func Init(getProcAddress func(name string) unsafe.Pointer) (Missing, error) {
	l := loader{get: getProcAddress, missing: Missing{}}
	if err := gl.InitWithProcAddrFunc(l.load); err != nil {
		return nil, err
	}
	return l.missing, nil
}

// Missing is the set of GL symbols the platform did not resolve.
type Missing map[string]bool

// Resolved reports whether symbol was found; it is the argument to Bind.
func (m Missing) Resolved(symbol string) bool { return !m[symbol] }

var placeholder byte

type loader struct {
	get     func(name string) unsafe.Pointer
	missing Missing
}

func (l *loader) load(name string) unsafe.Pointer {
	if p := l.get(name); p != nil {
		return p
	}
	l.missing[strings.TrimSuffix(name, "\x00")] = true
	return unsafe.Pointer(&placeholder)
}

// Driver implements glbackend.Driver with go-gl.
type Driver struct{}

var _ glb.Driver = Driver{}

func u(e glb.Enum) uint32 { return uint32(e) }

func bytePtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

func (Driver) Enable(cap glb.Enum)             { gl.Enable(u(cap)) }
func (Driver) Disable(cap glb.Enum)            { gl.Disable(u(cap)) }
func (Driver) BlendFunc(s, d glb.Enum)         { gl.BlendFunc(u(s), u(d)) }
func (Driver) Clear(mask glb.Enum)             { gl.Clear(u(mask)) }
func (Driver) ClearColor(r, g, b, a float32)   { gl.ClearColor(r, g, b, a) }
func (Driver) DepthMask(flag bool)             { gl.DepthMask(flag) }
func (Driver) DepthFunc(fn glb.Enum)           { gl.DepthFunc(u(fn)) }
func (Driver) Scissor(x, y, w, h int32)        { gl.Scissor(x, y, w, h) }
func (Driver) Viewport(x, y, w, h int32)       { gl.Viewport(x, y, w, h) }
func (Driver) CullFace(mode glb.Enum)          { gl.CullFace(u(mode)) }
func (Driver) FrontFace(mode glb.Enum)         { gl.FrontFace(u(mode)) }
func (Driver) PolygonMode(face, mode glb.Enum) { gl.PolygonMode(u(face), u(mode)) }

func (Driver) GenTexture() uint32 {
	var t uint32
	gl.GenTextures(1, &t)
	return t
}

func (Driver) BindTexture(target glb.Enum, tex uint32) { gl.BindTexture(u(target), tex) }

func (Driver) TexImage2D(target glb.Enum, level int32, internalFormat glb.Enum, width, height, border int32, format, xtype glb.Enum, pixels []byte) {
	gl.TexImage2D(u(target), level, int32(internalFormat), width, height, border, u(format), u(xtype), bytePtr(pixels))
}

func (Driver) TexSubImage2D(target glb.Enum, level, x, y, width, height int32, format, xtype glb.Enum, pixels []byte) {
	gl.TexSubImage2D(u(target), level, x, y, width, height, u(format), u(xtype), bytePtr(pixels))
}

func (Driver) TexParameteri(target, pname glb.Enum, param int32) {
	gl.TexParameteri(u(target), u(pname), param)
}

func (Driver) DeleteTexture(tex uint32)                { gl.DeleteTextures(1, &tex) }
func (Driver) PixelStorei(pname glb.Enum, param int32) { gl.PixelStorei(u(pname), param) }

func (Driver) ReadPixels(x, y, width, height int32, format, xtype glb.Enum, dst []byte) {
	gl.ReadPixels(x, y, width, height, u(format), u(xtype), bytePtr(dst))
}

func (Driver) DrawElements(mode glb.Enum, count int32, xtype glb.Enum) {
	gl.DrawElements(u(mode), count, u(xtype), nil)
}

func (Driver) DrawArrays(mode glb.Enum, first, count int32) { gl.DrawArrays(u(mode), first, count) }

func (Driver) GetInteger(pname glb.Enum) int32 {
	var v int32
	gl.GetIntegerv(u(pname), &v)
	return v
}

func (Driver) GetString(name glb.Enum) string {
	p := gl.GetString(u(name))
	if p == nil {
		return ""
	}
	return gl.GoStr(p)
}

func (Driver) GetError() glb.Enum { return glb.Enum(gl.GetError()) }
func (Driver) Finish()            { gl.Finish() }

// Info queries the driver strings of the current context.
func Info(platformExtensions string) glb.Info {
	var d Driver
	return glb.Info{
		Version:            d.GetString(glb.VERSION),
		Vendor:             d.GetString(glb.VENDOR),
		Renderer:           d.GetString(glb.RENDERER),
		Extensions:         extensions(),
		PlatformExtensions: platformExtensions,
	}
}

// extensions joins the indexed extension list; core profiles reject
// glGetString(GL_EXTENSIONS).
func extensions() string {
	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	names := make([]string, 0, n)
	for i := int32(0); i < n; i++ {
		if p := gl.GetStringi(gl.EXTENSIONS, uint32(i)); p != nil {
			names = append(names, gl.GoStr(p))
		}
	}
	return strings.Join(names, " ")
}

// cstr returns a NUL terminated copy of s for go-gl.
func cstr(s string) *uint8 { return gl.Str(s + "\x00") }

func shaderLog(sh uint32) string {
	var n int32
	gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return ""
	}
	buf := make([]uint8, n+1)
	gl.GetShaderInfoLog(sh, n, nil, &buf[0])
	return gl.GoStr(&buf[0])
}

func programLog(prog uint32) string {
	var n int32
	gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return ""
	}
	buf := make([]uint8, n+1)
	gl.GetProgramInfoLog(prog, n, nil, &buf[0])
	return gl.GoStr(&buf[0])
}

func genOne(gen func(int32, *uint32)) uint32 {
	var id uint32
	gen(1, &id)
	return id
}

// Bind builds the capability table. probe reports whether the platform
// resolves a GL symbol; unresolved symbols leave their fields nil.
func Bind(probe func(symbol string) bool) glb.Procs {
	p := glb.Procs{
		ActiveTexture: func(t glb.Enum) { gl.ActiveTexture(u(t)) },

		GenFramebuffer:  func() uint32 { return genOne(gl.GenFramebuffers) },
		BindFramebuffer: func(target glb.Enum, fb uint32) { gl.BindFramebuffer(u(target), fb) },
		FramebufferTexture2D: func(target, attachment, texTarget glb.Enum, tex uint32, level int32) {
			gl.FramebufferTexture2D(u(target), u(attachment), u(texTarget), tex, level)
		},
		CheckFramebufferStatus: func(target glb.Enum) glb.Enum {
			return glb.Enum(gl.CheckFramebufferStatus(u(target)))
		},
		DeleteFramebuffer: func(fb uint32) { gl.DeleteFramebuffers(1, &fb) },
		GenRenderbuffer:   func() uint32 { return genOne(gl.GenRenderbuffers) },
		BindRenderbuffer:  func(target glb.Enum, rb uint32) { gl.BindRenderbuffer(u(target), rb) },
		RenderbufferStorage: func(target, internalFormat glb.Enum, width, height int32) {
			gl.RenderbufferStorage(u(target), u(internalFormat), width, height)
		},
		FramebufferRenderbuffer: func(target, attachment, rbTarget glb.Enum, rb uint32) {
			gl.FramebufferRenderbuffer(u(target), u(attachment), u(rbTarget), rb)
		},
		DeleteRenderbuffer: func(rb uint32) { gl.DeleteRenderbuffers(1, &rb) },

		CreateShader: func(kind glb.Enum) uint32 { return gl.CreateShader(u(kind)) },
		ShaderSource: func(sh uint32, src string) {
			csrc, free := gl.Strs(src)
			defer free()
			gl.ShaderSource(sh, 1, csrc, nil)
		},
		CompileShader: gl.CompileShader,
		GetShaderi: func(sh uint32, pname glb.Enum) int32 {
			var v int32
			gl.GetShaderiv(sh, u(pname), &v)
			return v
		},
		GetShaderInfoLog: shaderLog,
		DeleteShader:     gl.DeleteShader,

		CreateProgram: gl.CreateProgram,
		AttachShader:  gl.AttachShader,
		DetachShader:  gl.DetachShader,
		BindAttribLocation: func(prog, index uint32, name string) {
			gl.BindAttribLocation(prog, index, cstr(name))
		},
		LinkProgram:     gl.LinkProgram,
		ValidateProgram: gl.ValidateProgram,
		GetProgrami: func(prog uint32, pname glb.Enum) int32 {
			var v int32
			gl.GetProgramiv(prog, u(pname), &v)
			return v
		},
		GetProgramInfoLog: programLog,
		DeleteProgram:     gl.DeleteProgram,
		UseProgram:        gl.UseProgram,
		GetUniformLocation: func(prog uint32, name string) int32 {
			return gl.GetUniformLocation(prog, cstr(name))
		},

		Uniform1f: gl.Uniform1f,
		Uniform2f: gl.Uniform2f,
		Uniform3f: gl.Uniform3f,
		Uniform4f: gl.Uniform4f,
		Uniform4fv: func(loc int32, v []float32) {
			if len(v) >= 4 {
				gl.Uniform4fv(loc, int32(len(v)/4), &v[0])
			}
		},
		Uniform1i: gl.Uniform1i,
		Uniform2i: gl.Uniform2i,
		Uniform3i: gl.Uniform3i,
		Uniform4i: gl.Uniform4i,
		Uniform4iv: func(loc int32, v []int32) {
			if len(v) >= 4 {
				gl.Uniform4iv(loc, int32(len(v)/4), &v[0])
			}
		},
		UniformMatrix4fv: func(loc int32, transpose bool, m []float32) {
			gl.UniformMatrix4fv(loc, 1, transpose, &m[0])
		},

		EnableVertexAttribArray:  gl.EnableVertexAttribArray,
		DisableVertexAttribArray: gl.DisableVertexAttribArray,
		VertexAttribPointer: func(i uint32, size int32, xtype glb.Enum, normalized bool, stride int32, data unsafe.Pointer) {
			gl.VertexAttribPointer(i, size, u(xtype), normalized, stride, data)
		},
		VertexAttribOffset: func(i uint32, size int32, xtype glb.Enum, normalized bool, stride int32, offset uintptr) {
			gl.VertexAttribPointerWithOffset(i, size, u(xtype), normalized, stride, offset)
		},

		GenBuffers: func(n int) []uint32 {
			ids := make([]uint32, n)
			if n > 0 {
				gl.GenBuffers(int32(n), &ids[0])
			}
			return ids
		},
		BindBuffer: func(target glb.Enum, buf uint32) { gl.BindBuffer(u(target), buf) },
		BufferData: func(target glb.Enum, size int, data unsafe.Pointer, usage glb.Enum) {
			gl.BufferData(u(target), size, data, u(usage))
		},
		DeleteBuffers: func(bufs []uint32) {
			if len(bufs) > 0 {
				gl.DeleteBuffers(int32(len(bufs)), &bufs[0])
			}
		},
	}

	var missing []string
	for _, sym := range glb.Symbols() {
		if !probe(sym) {
			missing = append(missing, sym)
		}
	}
	return p.Without(missing...)
}
