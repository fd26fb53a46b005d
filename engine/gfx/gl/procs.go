package glbackend

import (
	"reflect"
	"slices"
	"unsafe"
)

// Procs is the capability table of a context: one optional entry point per
// field, resolved once when the context is created. A nil field means the
// driver does not provide that entry point, and every operation depending on
// it degrades to a no-op.
//
// The struct tag names the GL symbol the field was resolved from. Several
// fields may share a symbol when they are typed views of the same entry
// point (VertexAttribPointer and VertexAttribOffset).
type Procs struct {
	ActiveTexture func(texture Enum) `gl:"glActiveTexture"`

	GenFramebuffer          func() uint32                                                     `gl:"glGenFramebuffers"`
	BindFramebuffer         func(target Enum, fb uint32)                                      `gl:"glBindFramebuffer"`
	FramebufferTexture2D    func(target, attachment, texTarget Enum, tex uint32, level int32) `gl:"glFramebufferTexture2D"`
	CheckFramebufferStatus  func(target Enum) Enum                                            `gl:"glCheckFramebufferStatus"`
	DeleteFramebuffer       func(fb uint32)                                                   `gl:"glDeleteFramebuffers"`
	GenRenderbuffer         func() uint32                                                     `gl:"glGenRenderbuffers"`
	BindRenderbuffer        func(target Enum, rb uint32)                                      `gl:"glBindRenderbuffer"`
	RenderbufferStorage     func(target, internalFormat Enum, width, height int32)            `gl:"glRenderbufferStorage"`
	FramebufferRenderbuffer func(target, attachment, rbTarget Enum, rb uint32)                `gl:"glFramebufferRenderbuffer"`
	DeleteRenderbuffer      func(rb uint32)                                                   `gl:"glDeleteRenderbuffers"`

	CreateShader     func(xtype Enum) uint32               `gl:"glCreateShader"`
	ShaderSource     func(shader uint32, src string)       `gl:"glShaderSource"`
	CompileShader    func(shader uint32)                   `gl:"glCompileShader"`
	GetShaderi       func(shader uint32, pname Enum) int32 `gl:"glGetShaderiv"`
	GetShaderInfoLog func(shader uint32) string            `gl:"glGetShaderInfoLog"`
	DeleteShader     func(shader uint32)                   `gl:"glDeleteShader"`

	CreateProgram      func() uint32                            `gl:"glCreateProgram"`
	AttachShader       func(program, shader uint32)             `gl:"glAttachShader"`
	DetachShader       func(program, shader uint32)             `gl:"glDetachShader"`
	BindAttribLocation func(program, index uint32, name string) `gl:"glBindAttribLocation"`
	LinkProgram        func(program uint32)                     `gl:"glLinkProgram"`
	ValidateProgram    func(program uint32)                     `gl:"glValidateProgram"`
	GetProgrami        func(program uint32, pname Enum) int32   `gl:"glGetProgramiv"`
	GetProgramInfoLog  func(program uint32) string              `gl:"glGetProgramInfoLog"`
	DeleteProgram      func(program uint32)                     `gl:"glDeleteProgram"`
	UseProgram         func(program uint32)                     `gl:"glUseProgram"`
	GetUniformLocation func(program uint32, name string) int32  `gl:"glGetUniformLocation"`

	Uniform1f        func(loc int32, v0 float32)                  `gl:"glUniform1f"`
	Uniform2f        func(loc int32, v0, v1 float32)              `gl:"glUniform2f"`
	Uniform3f        func(loc int32, v0, v1, v2 float32)          `gl:"glUniform3f"`
	Uniform4f        func(loc int32, v0, v1, v2, v3 float32)      `gl:"glUniform4f"`
	Uniform4fv       func(loc int32, v []float32)                 `gl:"glUniform4fv"`
	Uniform1i        func(loc int32, v0 int32)                    `gl:"glUniform1i"`
	Uniform2i        func(loc int32, v0, v1 int32)                `gl:"glUniform2i"`
	Uniform3i        func(loc int32, v0, v1, v2 int32)            `gl:"glUniform3i"`
	Uniform4i        func(loc int32, v0, v1, v2, v3 int32)        `gl:"glUniform4i"`
	Uniform4iv       func(loc int32, v []int32)                   `gl:"glUniform4iv"`
	UniformMatrix4fv func(loc int32, transpose bool, m []float32) `gl:"glUniformMatrix4fv"`

	EnableVertexAttribArray  func(index uint32) `gl:"glEnableVertexAttribArray"`
	DisableVertexAttribArray func(index uint32) `gl:"glDisableVertexAttribArray"`
	// VertexAttribPointer sources an attribute from client memory. The
	// pointer must stay valid until the next rebind; the context pins it.
	VertexAttribPointer func(index uint32, size int32, xtype Enum, normalized bool, stride int32, data unsafe.Pointer) `gl:"glVertexAttribPointer"`
	// VertexAttribOffset sources an attribute from the bound array buffer.
	VertexAttribOffset func(index uint32, size int32, xtype Enum, normalized bool, stride int32, offset uintptr) `gl:"glVertexAttribPointer"`

	GenBuffers    func(n int) []uint32                                         `gl:"glGenBuffers"`
	BindBuffer    func(target Enum, buf uint32)                                `gl:"glBindBuffer"`
	BufferData    func(target Enum, size int, data unsafe.Pointer, usage Enum) `gl:"glBufferData"`
	DeleteBuffers func(bufs []uint32)                                          `gl:"glDeleteBuffers"`
}

// Has reports whether every field resolved from the GL symbol name is set.
// Unknown names report false.
func (p *Procs) Has(name string) bool {
	found := false
	ok := true
	p.each(func(sym string, f reflect.Value) {
		if sym != name {
			return
		}
		found = true
		if f.IsNil() {
			ok = false
		}
	})
	return found && ok
}

// Missing lists the GL symbols with at least one unresolved field, sorted.
func (p *Procs) Missing() []string {
	var out []string
	p.each(func(sym string, f reflect.Value) {
		if f.IsNil() && !slices.Contains(out, sym) {
			out = append(out, sym)
		}
	})
	slices.Sort(out)
	return out
}

// Without returns a copy of p with every field resolved from one of the
// given GL symbols cleared. Platform code uses it to mask entry points known
// to be broken on a driver.
func (p Procs) Without(names ...string) Procs {
	p.each(func(sym string, f reflect.Value) {
		if slices.Contains(names, sym) {
			f.Set(reflect.Zero(f.Type()))
		}
	})
	return p
}

// Symbols lists every GL symbol the table can hold, in field order.
func Symbols() []string {
	var p Procs
	var out []string
	p.each(func(sym string, _ reflect.Value) {
		if !slices.Contains(out, sym) {
			out = append(out, sym)
		}
	})
	return out
}

func (p *Procs) each(fn func(sym string, f reflect.Value)) {
	v := reflect.ValueOf(p).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		fn(t.Field(i).Tag.Get("gl"), v.Field(i))
	}
}
