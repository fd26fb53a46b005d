package glbackend

import "fmt"

// CreateTexture allocates an uninitialised RGBA8 texture with linear
// filtering and leaves it bound to TEXTURE_2D. A texture the driver refuses
// to allocate is deleted again and the driver error is returned.
func (c *Context) CreateTexture(width, height int32) (uint32, error) {
	if !c.live() {
		return 0, ErrContextDisposed
	}
	// Multitexturing is the marker for a usable texture path.
	if c.procs.ActiveTexture == nil {
		c.missing("CreateTexture")
		return 0, errUnsupported("CreateTexture")
	}
	d := c.drv
	tex := d.GenTexture()
	if tex == 0 {
		return 0, fmt.Errorf("%w: glGenTextures", ErrNoObject)
	}
	d.BindTexture(TEXTURE_2D, tex)

	d.GetError()
	d.TexImage2D(TEXTURE_2D, 0, RGBA, width, height, 0, RGBA, UNSIGNED_BYTE, nil)
	if err := c.checkGLError(); err != nil {
		d.DeleteTexture(tex)
		c.logger().Error("texture allocation failed", "width", width, "height", height, "err", err)
		return 0, fmt.Errorf("create texture %dx%d: %w", width, height, err)
	}
	d.TexParameteri(TEXTURE_2D, TEXTURE_MAG_FILTER, int32(LINEAR))
	d.TexParameteri(TEXTURE_2D, TEXTURE_MIN_FILTER, int32(LINEAR))
	return tex, nil
}

// GenAndBindTexture generates a texture name and binds it to TEXTURE_2D.
func (c *Context) GenAndBindTexture() uint32 {
	if !c.live() {
		return 0
	}
	tex := c.drv.GenTexture()
	c.drv.BindTexture(TEXTURE_2D, tex)
	return tex
}

func (c *Context) BindTexture(tex uint32) {
	if !c.live() {
		return
	}
	c.drv.BindTexture(TEXTURE_2D, tex)
}

// ActiveTexture selects texture unit TEXTURE0+unit.
func (c *Context) ActiveTexture(unit int) {
	if !c.live() {
		return
	}
	if c.procs.ActiveTexture == nil {
		c.missing("ActiveTexture")
		return
	}
	c.procs.ActiveTexture(TEXTURE0 + Enum(unit))
}

// DeleteTexture deletes a texture; zero is ignored.
func (c *Context) DeleteTexture(tex uint32) {
	if !c.live() || tex == 0 {
		return
	}
	c.drv.DeleteTexture(tex)
}

// bytesPerPixel is the tightly packed size of one pixel, or 0 when the
// combination is not one the layer knows how to size.
func bytesPerPixel(format, xtype Enum) int {
	switch xtype {
	case UNSIGNED_INT_8_8_8_8, UNSIGNED_INT_8_8_8_8_REV:
		return 4
	case UNSIGNED_SHORT_8_8_APPLE:
		return 2
	}
	var n int
	switch format {
	case RGBA, BGRA:
		n = 4
	case RGB:
		n = 3
	case LUMINANCE, ALPHA:
		n = 1
	default:
		return 0
	}
	switch xtype {
	case UNSIGNED_BYTE:
		return n
	case FLOAT:
		return n * 4
	}
	return 0
}

// checkPixels verifies pixels can back a tightly packed width x height
// image. nil is allowed and means "allocate only". Unpack row length and
// skip parameters are not taken into account.
func checkPixels(pixels []byte, width, height int32, format, xtype Enum) error {
	if pixels == nil {
		return nil
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidArgument, width, height)
	}
	bpp := bytesPerPixel(format, xtype)
	if need := int(width) * int(height) * bpp; len(pixels) < need {
		return fmt.Errorf("%w: %d bytes for %dx%d image, need %d", ErrShortBuffer, len(pixels), width, height, need)
	}
	return nil
}

// TexImage2D uploads a full texture level. Pending driver errors are
// cleared first; an error raised by the upload is returned as a GLError.
func (c *Context) TexImage2D(target TexTarget, level int32, internalFormat PixelFormat,
	width, height, border int32, format PixelFormat, xtype PixelType, pixels []byte) error {
	if !c.live() {
		return ErrContextDisposed
	}
	glFormat, glType := format.GL(), xtype.GL()
	if err := checkPixels(pixels, width, height, glFormat, glType); err != nil {
		return err
	}
	c.drv.GetError()
	c.drv.TexImage2D(target.GL(), level, internalFormat.GL(), width, height, border, glFormat, glType, pixels)
	if err := c.checkGLError(); err != nil {
		return fmt.Errorf("glTexImage2D %dx%d: %w", width, height, err)
	}
	return nil
}

// TexSubImage2D replaces a region of a texture level.
func (c *Context) TexSubImage2D(target TexTarget, level, x, y, width, height int32,
	format PixelFormat, xtype PixelType, pixels []byte) error {
	if !c.live() {
		return ErrContextDisposed
	}
	glFormat, glType := format.GL(), xtype.GL()
	if pixels == nil {
		return fmt.Errorf("%w: nil pixels", ErrInvalidArgument)
	}
	if err := checkPixels(pixels, width, height, glFormat, glType); err != nil {
		return err
	}
	c.drv.TexSubImage2D(target.GL(), level, x, y, width, height, glFormat, glType, pixels)
	return nil
}

// TexParamsMinMax sets both filters of the bound texture.
func (c *Context) TexParamsMinMax(f Filter) {
	if !c.live() {
		return
	}
	v := int32(f.GL())
	c.drv.TexParameteri(TEXTURE_2D, TEXTURE_MAG_FILTER, v)
	c.drv.TexParameteri(TEXTURE_2D, TEXTURE_MIN_FILTER, v)
}

// UpdateFilterState switches the bound texture between linear and nearest
// filtering.
func (c *Context) UpdateFilterState(linear bool) {
	if !c.live() {
		return
	}
	v := int32(NEAREST)
	if linear {
		v = int32(LINEAR)
	}
	c.drv.TexParameteri(TEXTURE_2D, TEXTURE_MIN_FILTER, v)
	c.drv.TexParameteri(TEXTURE_2D, TEXTURE_MAG_FILTER, v)
}

// UpdateWrapState sets the S and T wrap modes of the bound texture.
func (c *Context) UpdateWrapState(w WrapMode) {
	if !c.live() {
		return
	}
	v := int32(w.GL())
	c.drv.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_S, v)
	c.drv.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_T, v)
}

func (c *Context) PixelStorei(pname PixelStoreParam, value int32) {
	if !c.live() {
		return
	}
	c.drv.PixelStorei(pname.GL(), value)
}

// ReadPixels reads a width x height block of the bound framebuffer into dst
// as 32-bit BGRA pixels (byte order B, G, R, A). Desktop GL reads BGRA
// directly; GLES reads RGBA and swaps red and blue in place.
func (c *Context) ReadPixels(dst []byte, x, y, width, height int32) error {
	if !c.live() {
		return ErrContextDisposed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidArgument, width, height)
	}
	n := int(width) * int(height)
	if len(dst)/4/int(width) < int(height) {
		c.logger().Error("ReadPixels: pixel buffer too small", "len", len(dst), "need", n*4)
		return fmt.Errorf("%w: %d bytes for %dx%d pixels", ErrShortBuffer, len(dst), width, height)
	}
	if c.gl2 {
		c.drv.ReadPixels(x, y, width, height, BGRA, UNSIGNED_INT_8_8_8_8_REV, dst)
		return nil
	}
	c.drv.ReadPixels(x, y, width, height, RGBA, UNSIGNED_BYTE, dst)
	for i := 0; i < n*4; i += 4 {
		dst[i], dst[i+2] = dst[i+2], dst[i]
	}
	return nil
}

// MaxTextureSize returns GL_MAX_TEXTURE_SIZE.
func (c *Context) MaxTextureSize() int32 {
	if !c.live() {
		return 0
	}
	return c.drv.GetInteger(MAX_TEXTURE_SIZE)
}

// OneValueGetInteger queries a single-valued integer parameter.
func (c *Context) OneValueGetInteger(q QueryParam) int32 {
	if !c.live() {
		return 0
	}
	return c.drv.GetInteger(q.GL())
}
