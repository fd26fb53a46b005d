package glbackend

// Driver is the set of GL entry points every supported context exposes.
// Anything that may be missing on some platform lives in Procs instead.
//
// Pixel data is passed as byte slices; nil means "no data" (allocate only).
type Driver interface {
	Enable(cap Enum)
	Disable(cap Enum)
	BlendFunc(sfactor, dfactor Enum)
	Clear(mask Enum)
	ClearColor(r, g, b, a float32)
	DepthMask(flag bool)
	DepthFunc(fn Enum)
	Scissor(x, y, w, h int32)
	Viewport(x, y, w, h int32)
	CullFace(mode Enum)
	FrontFace(mode Enum)
	PolygonMode(face, mode Enum)

	GenTexture() uint32
	BindTexture(target Enum, tex uint32)
	TexImage2D(target Enum, level int32, internalFormat Enum, width, height, border int32, format, xtype Enum, pixels []byte)
	TexSubImage2D(target Enum, level, x, y, width, height int32, format, xtype Enum, pixels []byte)
	TexParameteri(target, pname Enum, param int32)
	DeleteTexture(tex uint32)
	PixelStorei(pname Enum, param int32)
	ReadPixels(x, y, width, height int32, format, xtype Enum, dst []byte)

	// DrawElements draws from the bound element array buffer at offset 0.
	DrawElements(mode Enum, count int32, xtype Enum)
	DrawArrays(mode Enum, first, count int32)

	GetInteger(pname Enum) int32
	GetString(name Enum) string
	GetError() Enum
	Finish()
}

