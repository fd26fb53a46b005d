package glbackend

// setClearColor updates the driver clear colour only when it changes.
func (c *Context) setClearColor(r, g, b, a float32) {
	if c.state.ClearColor == [4]float32{r, g, b, a} {
		return
	}
	c.drv.ClearColor(r, g, b, a)
	c.state.ClearColor = [4]float32{r, g, b, a}
}

// ClearBuffers clears the colour and/or depth buffer.
//
// The clear colour is a permanent cache update. With ignoreScissor set, an
// enabled scissor test is switched off for the clear and back on afterwards;
// a depth clear with depth writes disabled turns the depth mask on for the
// clear only. Neither temporary change is visible in the cache.
func (c *Context) ClearBuffers(r, g, b, a float32, clearColor, clearDepth, ignoreScissor bool) {
	if !c.live() {
		return
	}
	d := c.drv
	scissorOff := ignoreScissor && c.state.ScissorEnabled
	if scissorOff {
		// glClear honours the scissor rectangle.
		d.Disable(SCISSOR_TEST)
	}

	var mask Enum
	if clearColor {
		mask = COLOR_BUFFER_BIT
		c.setClearColor(r, g, b, a)
	}

	if clearDepth {
		mask |= DEPTH_BUFFER_BIT
		writes := c.state.DepthWritesEnabled
		if !writes {
			d.DepthMask(true)
		}
		d.Clear(mask)
		if !writes {
			d.DepthMask(false)
		}
	} else {
		d.Clear(mask)
	}

	if scissorOff {
		d.Enable(SCISSOR_TEST)
	}
}

// SetDepthTest switches depth testing and depth writes together. Enabling
// also selects LEQUAL as the depth function.
func (c *Context) SetDepthTest(enable bool) {
	if !c.live() {
		return
	}
	if c.state.DepthTestEnabled == enable && c.state.DepthWritesEnabled == enable {
		return
	}
	d := c.drv
	if enable {
		d.Enable(DEPTH_TEST)
		d.DepthFunc(LEQUAL)
		d.DepthMask(true)
	} else {
		d.Disable(DEPTH_TEST)
		d.DepthMask(false)
	}
	c.state.DepthTestEnabled = enable
	c.state.DepthWritesEnabled = enable
}

// ScissorTest enables the scissor test with the given rectangle, or disables
// it. The rectangle is ignored when disabling.
func (c *Context) ScissorTest(enable bool, x, y, w, h int32) {
	if !c.live() {
		return
	}
	d := c.drv
	if !enable {
		if c.state.ScissorEnabled {
			d.Disable(SCISSOR_TEST)
			c.state.ScissorEnabled = false
		}
		return
	}
	if !c.state.ScissorEnabled {
		d.Enable(SCISSOR_TEST)
		c.state.ScissorEnabled = true
	}
	rect := [4]int32{x, y, w, h}
	if !c.scissorRectKnown || c.state.ScissorRect != rect {
		d.Scissor(x, y, w, h)
		c.state.ScissorRect = rect
		c.scissorRectKnown = true
	}
}

// setCullMode applies a mesh view's culling against the cache.
func (c *Context) setCullMode(enable bool, mode Enum) {
	if enable != c.state.CullEnable {
		if enable {
			c.drv.Enable(CULL_FACE)
		} else {
			c.drv.Disable(CULL_FACE)
		}
		c.state.CullEnable = enable
	}
	if mode != c.state.CullMode {
		c.drv.CullFace(mode)
		c.state.CullMode = mode
	}
}

// setFillMode applies a mesh view's polygon mode against the cache. GLES has
// no glPolygonMode, so the call and the cache are left alone there.
func (c *Context) setFillMode(mode Enum) {
	if !c.gl2 || mode == c.state.FillMode {
		return
	}
	c.drv.PolygonMode(FRONT_AND_BACK, mode)
	c.state.FillMode = mode
}

// UpdateViewport sets the viewport rectangle.
func (c *Context) UpdateViewport(x, y, w, h int32) {
	if !c.live() {
		return
	}
	c.drv.Viewport(x, y, w, h)
}

// BlendFunc sets the blend factors.
func (c *Context) BlendFunc(src, dst BlendFactor) {
	if !c.live() {
		return
	}
	c.drv.BlendFunc(src.GL(), dst.GL())
}

// SetDeviceParametersFor2D resets the pipeline for 2D rendering: no 3D
// buffers or attributes, premultiplied blending, no scissor, no culling,
// filled polygons. The calls are issued unconditionally and re-anchor the
// cache to the driver.
func (c *Context) SetDeviceParametersFor2D() {
	if !c.live() {
		return
	}
	p := &c.procs
	if p.BindBuffer == nil || p.BufferData == nil || p.DisableVertexAttribArray == nil {
		c.missing("SetDeviceParametersFor2D")
		return
	}
	d := c.drv

	p.BindBuffer(ARRAY_BUFFER, 0)
	p.BindBuffer(ELEMENT_ARRAY_BUFFER, 0)
	p.DisableVertexAttribArray(attrib3DPosition)
	p.DisableVertexAttribArray(attrib3DNormal)
	p.DisableVertexAttribArray(attrib3DTexCoord)
	c.resetAttribPointers()

	d.Enable(BLEND)
	d.BlendFunc(ONE, ONE_MINUS_SRC_ALPHA)

	c.state.ScissorEnabled = false
	d.Disable(SCISSOR_TEST)

	d.CullFace(BACK)
	c.state.CullMode = BACK
	d.Disable(CULL_FACE)
	c.state.CullEnable = false

	if c.gl2 {
		d.PolygonMode(FRONT_AND_BACK, FILL)
	}
	c.state.FillMode = FILL
}

// SetDeviceParametersFor3D resets the pipeline for 3D rendering: blending
// off, no scissor, back face culling with clockwise front faces, filled
// polygons.
func (c *Context) SetDeviceParametersFor3D() {
	if !c.live() {
		return
	}
	d := c.drv

	d.Disable(BLEND)
	d.BlendFunc(ONE, ZERO)

	c.state.ScissorEnabled = false
	d.Disable(SCISSOR_TEST)

	d.Enable(CULL_FACE)
	c.state.CullEnable = true
	d.CullFace(BACK)
	c.state.CullMode = BACK
	d.FrontFace(CW)

	if c.gl2 {
		d.PolygonMode(FRONT_AND_BACK, FILL)
	}
	c.state.FillMode = FILL
}

// Finish blocks until the driver has executed all issued commands.
func (c *Context) Finish() {
	if !c.live() {
		return
	}
	c.drv.Finish()
}
