package glbackend

import "fmt"

// CreateFBO creates a framebuffer with tex as its colour attachment and
// clears it, ignoring the scissor. The previously bound framebuffer is bound
// again before returning. An incomplete framebuffer is deleted.
func (c *Context) CreateFBO(tex uint32) (uint32, error) {
	if !c.live() {
		return 0, ErrContextDisposed
	}
	p := &c.procs
	if p.GenFramebuffer == nil || p.BindFramebuffer == nil || p.FramebufferTexture2D == nil ||
		p.CheckFramebufferStatus == nil || p.DeleteFramebuffer == nil {
		c.missing("CreateFBO")
		return 0, errUnsupported("CreateFBO")
	}

	saved := uint32(c.drv.GetInteger(FRAMEBUFFER_BINDING))
	fb := p.GenFramebuffer()
	if fb == 0 {
		return 0, fmt.Errorf("%w: glGenFramebuffers", ErrNoObject)
	}
	p.BindFramebuffer(FRAMEBUFFER, fb)
	p.FramebufferTexture2D(FRAMEBUFFER, COLOR_ATTACHMENT0, TEXTURE_2D, tex, 0)
	status := p.CheckFramebufferStatus(FRAMEBUFFER)

	// Fresh attachments hold garbage.
	c.ClearBuffers(0, 0, 0, 0, true, false, true)

	p.BindFramebuffer(FRAMEBUFFER, saved)

	if status != FRAMEBUFFER_COMPLETE {
		p.DeleteFramebuffer(fb)
		c.logger().Error("framebuffer incomplete", "texture", tex, "status", uint32(status))
		return 0, fmt.Errorf("%w: texture %d, status 0x%x", ErrFramebufferIncomplete, tex, uint32(status))
	}
	return fb, nil
}

// CreateDepthBuffer attaches a new depth renderbuffer to the bound
// framebuffer and clears depth, ignoring the scissor. GLES contexts get a
// 16-bit depth format. An incomplete framebuffer deletes the renderbuffer.
func (c *Context) CreateDepthBuffer(width, height int32) (uint32, error) {
	if !c.live() {
		return 0, ErrContextDisposed
	}
	p := &c.procs
	if p.GenRenderbuffer == nil || p.BindRenderbuffer == nil || p.RenderbufferStorage == nil ||
		p.FramebufferRenderbuffer == nil || p.CheckFramebufferStatus == nil || p.DeleteRenderbuffer == nil {
		c.missing("CreateDepthBuffer")
		return 0, errUnsupported("CreateDepthBuffer")
	}

	rb := p.GenRenderbuffer()
	if rb == 0 {
		return 0, fmt.Errorf("%w: glGenRenderbuffers", ErrNoObject)
	}
	p.BindRenderbuffer(RENDERBUFFER, rb)
	format := DEPTH_COMPONENT
	if !c.gl2 {
		format = DEPTH_COMPONENT16
	}
	p.RenderbufferStorage(RENDERBUFFER, format, width, height)
	p.FramebufferRenderbuffer(FRAMEBUFFER, DEPTH_ATTACHMENT, RENDERBUFFER, rb)
	p.BindRenderbuffer(RENDERBUFFER, 0)

	var err error
	if status := p.CheckFramebufferStatus(FRAMEBUFFER); status != FRAMEBUFFER_COMPLETE {
		p.DeleteRenderbuffer(rb)
		rb = 0
		c.logger().Error("depth buffer incomplete", "width", width, "height", height, "status", uint32(status))
		err = fmt.Errorf("%w: depth buffer %dx%d, status 0x%x", ErrFramebufferIncomplete, width, height, uint32(status))
	}

	c.ClearBuffers(0, 0, 0, 0, false, true, true)
	return rb, err
}

func (c *Context) BindFBO(fb uint32) {
	if !c.live() {
		return
	}
	if c.procs.BindFramebuffer == nil {
		c.missing("BindFBO")
		return
	}
	c.procs.BindFramebuffer(FRAMEBUFFER, fb)
}

// GetFBO returns the currently bound framebuffer.
func (c *Context) GetFBO() uint32 {
	if !c.live() {
		return 0
	}
	return uint32(c.drv.GetInteger(FRAMEBUFFER_BINDING))
}

// DeleteFBO deletes a framebuffer; zero is ignored.
func (c *Context) DeleteFBO(fb uint32) {
	if !c.live() || fb == 0 {
		return
	}
	if c.procs.DeleteFramebuffer == nil {
		c.missing("DeleteFBO")
		return
	}
	c.procs.DeleteFramebuffer(fb)
}

// DeleteRenderBuffer deletes a renderbuffer; zero is ignored.
func (c *Context) DeleteRenderBuffer(rb uint32) {
	if !c.live() || rb == 0 {
		return
	}
	if c.procs.DeleteRenderbuffer == nil {
		c.missing("DeleteRenderBuffer")
		return
	}
	c.procs.DeleteRenderbuffer(rb)
}
