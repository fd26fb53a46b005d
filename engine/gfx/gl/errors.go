package glbackend

import (
	"errors"
	"fmt"
)

var (
	ErrShortBuffer           = errors.New("glbackend: buffer too small")
	ErrInvalidArgument       = errors.New("glbackend: invalid argument")
	ErrNoObject              = errors.New("glbackend: driver returned no object")
	ErrFramebufferIncomplete = errors.New("glbackend: framebuffer incomplete")
	ErrShaderCompile         = errors.New("glbackend: shader compile failed")
	ErrProgramLink           = errors.New("glbackend: program link failed")
	ErrProgramValidate       = errors.New("glbackend: program validation failed")
	ErrIncompleteMeshView    = errors.New("glbackend: mesh view has no mesh or material")
	ErrContextDisposed       = errors.New("glbackend: context disposed")
)

// errUnsupported reports an operation whose entry points the context lacks.
func errUnsupported(op string) error {
	return fmt.Errorf("glbackend: %s: %w", op, errors.ErrUnsupported)
}

// checkGLError drains one pending driver error, if any.
func (c *Context) checkGLError() error {
	if e := c.drv.GetError(); e != NO_ERROR {
		return GLError(e)
	}
	return nil
}
