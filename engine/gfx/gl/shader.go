package glbackend

import "fmt"

// CompileShader compiles a vertex or fragment shader. On failure the info
// log is logged, the shader is deleted and ErrShaderCompile is returned.
func (c *Context) CompileShader(src string, vertex bool) (uint32, error) {
	if !c.live() {
		return 0, ErrContextDisposed
	}
	p := &c.procs
	if p.CreateShader == nil || p.ShaderSource == nil || p.CompileShader == nil ||
		p.GetShaderi == nil || p.DeleteShader == nil {
		c.missing("CompileShader")
		return 0, errUnsupported("CompileShader")
	}

	kind := FRAGMENT_SHADER
	if vertex {
		kind = VERTEX_SHADER
	}
	sh := p.CreateShader(kind)
	if sh == 0 {
		return 0, fmt.Errorf("%w: glCreateShader", ErrNoObject)
	}
	p.ShaderSource(sh, src)
	p.CompileShader(sh)
	if p.GetShaderi(sh, COMPILE_STATUS) != 0 {
		return sh, nil
	}

	var infoLog string
	if p.GetShaderInfoLog != nil {
		infoLog = p.GetShaderInfoLog(sh)
	}
	c.logger().Error("shader compile failed", "vertex", vertex, "log", infoLog)
	p.DeleteShader(sh)
	return 0, fmt.Errorf("%w: %s", ErrShaderCompile, infoLog)
}

// CreateProgram links a program from a vertex shader and any number of
// fragment shaders. attrs[i] is bound to location indices[i] before linking.
// When linking or validation fails, every shader is detached and deleted
// along with the program.
func (c *Context) CreateProgram(vert uint32, frags []uint32, attrs []string, indices []uint32) (uint32, error) {
	if !c.live() {
		return 0, ErrContextDisposed
	}
	p := &c.procs
	if p.CreateProgram == nil || p.AttachShader == nil || p.BindAttribLocation == nil ||
		p.LinkProgram == nil || p.GetProgrami == nil || p.ValidateProgram == nil ||
		p.DetachShader == nil || p.DeleteShader == nil || p.DeleteProgram == nil {
		c.missing("CreateProgram")
		return 0, errUnsupported("CreateProgram")
	}
	if len(attrs) != len(indices) {
		return 0, fmt.Errorf("%w: %d attribute names for %d locations", ErrInvalidArgument, len(attrs), len(indices))
	}

	prog := p.CreateProgram()
	if prog == 0 {
		return 0, fmt.Errorf("%w: glCreateProgram", ErrNoObject)
	}
	p.AttachShader(prog, vert)
	for _, f := range frags {
		p.AttachShader(prog, f)
	}
	for i, name := range attrs {
		p.BindAttribLocation(prog, indices[i], name)
	}

	p.LinkProgram(prog)
	var err error
	if p.GetProgrami(prog, LINK_STATUS) == 0 {
		err = fmt.Errorf("%w: %s", ErrProgramLink, c.programLog(prog))
	} else {
		p.ValidateProgram(prog)
		if p.GetProgrami(prog, VALIDATE_STATUS) == 0 {
			err = fmt.Errorf("%w: %s", ErrProgramValidate, c.programLog(prog))
		}
	}
	if err == nil {
		return prog, nil
	}

	c.logger().Error("program creation failed", "program", prog, "err", err)
	c.detachAndDelete(prog, vert, frags)
	p.DeleteProgram(prog)
	return 0, err
}

func (c *Context) programLog(prog uint32) string {
	if c.procs.GetProgramInfoLog == nil {
		return ""
	}
	return c.procs.GetProgramInfoLog(prog)
}

func (c *Context) detachAndDelete(prog, vert uint32, frags []uint32) {
	p := &c.procs
	if vert != 0 {
		p.DetachShader(prog, vert)
		p.DeleteShader(vert)
	}
	for _, f := range frags {
		if f != 0 {
			p.DetachShader(prog, f)
			p.DeleteShader(f)
		}
	}
}

// DisposeShaders detaches and deletes the shaders of a program, then the
// program itself. Zero shader ids are skipped.
func (c *Context) DisposeShaders(prog, vert uint32, frags []uint32) {
	if !c.live() {
		return
	}
	p := &c.procs
	if p.DetachShader == nil || p.DeleteShader == nil || p.DeleteProgram == nil {
		c.missing("DisposeShaders")
		return
	}
	c.detachAndDelete(prog, vert, frags)
	p.DeleteProgram(prog)
}

// DeleteShader deletes a shader object; zero is ignored.
func (c *Context) DeleteShader(sh uint32) {
	if !c.live() || sh == 0 {
		return
	}
	if c.procs.DeleteShader == nil {
		c.missing("DeleteShader")
		return
	}
	c.procs.DeleteShader(sh)
}

func (c *Context) UseProgram(prog uint32) {
	if !c.live() {
		return
	}
	if c.procs.UseProgram == nil {
		c.missing("UseProgram")
		return
	}
	c.procs.UseProgram(prog)
}

// GetUniformLocation returns the location of a uniform, or -1 when the
// program has no such uniform. It returns 0 when the entry point is missing.
func (c *Context) GetUniformLocation(prog uint32, name string) int32 {
	if !c.live() {
		return 0
	}
	if c.procs.GetUniformLocation == nil {
		c.missing("GetUniformLocation")
		return 0
	}
	return c.procs.GetUniformLocation(prog, name)
}

func (c *Context) Uniform1f(loc int32, v0 float32) {
	if c.live() && c.procs.Uniform1f != nil {
		c.procs.Uniform1f(loc, v0)
	}
}

func (c *Context) Uniform2f(loc int32, v0, v1 float32) {
	if c.live() && c.procs.Uniform2f != nil {
		c.procs.Uniform2f(loc, v0, v1)
	}
}

func (c *Context) Uniform3f(loc int32, v0, v1, v2 float32) {
	if c.live() && c.procs.Uniform3f != nil {
		c.procs.Uniform3f(loc, v0, v1, v2)
	}
}

func (c *Context) Uniform4f(loc int32, v0, v1, v2, v3 float32) {
	if c.live() && c.procs.Uniform4f != nil {
		c.procs.Uniform4f(loc, v0, v1, v2, v3)
	}
}

func (c *Context) Uniform1i(loc int32, v0 int32) {
	if c.live() && c.procs.Uniform1i != nil {
		c.procs.Uniform1i(loc, v0)
	}
}

func (c *Context) Uniform2i(loc int32, v0, v1 int32) {
	if c.live() && c.procs.Uniform2i != nil {
		c.procs.Uniform2i(loc, v0, v1)
	}
}

func (c *Context) Uniform3i(loc int32, v0, v1, v2 int32) {
	if c.live() && c.procs.Uniform3i != nil {
		c.procs.Uniform3i(loc, v0, v1, v2)
	}
}

func (c *Context) Uniform4i(loc int32, v0, v1, v2, v3 int32) {
	if c.live() && c.procs.Uniform4i != nil {
		c.procs.Uniform4i(loc, v0, v1, v2, v3)
	}
}

// Uniform4fv uploads len(v)/4 vec4 values. v must hold whole vectors.
func (c *Context) Uniform4fv(loc int32, v []float32) {
	if !c.live() || c.procs.Uniform4fv == nil {
		return
	}
	if len(v)%4 != 0 {
		c.logger().Warn("Uniform4fv: partial vector ignored", "len", len(v))
		return
	}
	c.procs.Uniform4fv(loc, v)
}

// Uniform4iv uploads len(v)/4 ivec4 values. v must hold whole vectors.
func (c *Context) Uniform4iv(loc int32, v []int32) {
	if !c.live() || c.procs.Uniform4iv == nil {
		return
	}
	if len(v)%4 != 0 {
		c.logger().Warn("Uniform4iv: partial vector ignored", "len", len(v))
		return
	}
	c.procs.Uniform4iv(loc, v)
}

// UniformMatrix4fv uploads one 4x4 matrix.
func (c *Context) UniformMatrix4fv(loc int32, transpose bool, m []float32) {
	if !c.live() || c.procs.UniformMatrix4fv == nil {
		return
	}
	if len(m) < 16 {
		c.logger().Warn("UniformMatrix4fv: short matrix ignored", "len", len(m))
		return
	}
	c.procs.UniformMatrix4fv(loc, transpose, m[:16])
}
