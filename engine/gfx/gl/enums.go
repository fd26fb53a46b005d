package glbackend

import "strconv"

// Enum is a raw GL enumerant as passed to the driver.
type Enum uint32

// GL enumerants used by the context. Values follow the Khronos registry.
const (
	ZERO                     Enum = 0x0
	ONE                      Enum = 0x1
	SRC_COLOR                Enum = 0x300
	ONE_MINUS_SRC_COLOR      Enum = 0x301
	SRC_ALPHA                Enum = 0x302
	ONE_MINUS_SRC_ALPHA      Enum = 0x303
	DST_ALPHA                Enum = 0x304
	ONE_MINUS_DST_ALPHA      Enum = 0x305
	DST_COLOR                Enum = 0x306
	ONE_MINUS_DST_COLOR      Enum = 0x307
	SRC_ALPHA_SATURATE       Enum = 0x308
	CONSTANT_COLOR           Enum = 0x8001
	ONE_MINUS_CONSTANT_COLOR Enum = 0x8002
	CONSTANT_ALPHA           Enum = 0x8003
	ONE_MINUS_CONSTANT_ALPHA Enum = 0x8004

	BLEND        Enum = 0xbe2
	CULL_FACE    Enum = 0xb44
	DEPTH_TEST   Enum = 0xb71
	SCISSOR_TEST Enum = 0xc11

	LEQUAL         Enum = 0x203
	FRONT          Enum = 0x404
	BACK           Enum = 0x405
	FRONT_AND_BACK Enum = 0x408
	CW             Enum = 0x900
	CCW            Enum = 0x901
	LINE           Enum = 0x1b01
	FILL           Enum = 0x1b02

	DEPTH_BUFFER_BIT Enum = 0x100
	COLOR_BUFFER_BIT Enum = 0x4000

	TRIANGLES      Enum = 0x4
	UNSIGNED_BYTE  Enum = 0x1401
	UNSIGNED_SHORT Enum = 0x1403
	FLOAT          Enum = 0x1406

	TEXTURE_2D               Enum = 0xde1
	TEXTURE_BINDING_2D       Enum = 0x8069
	TEXTURE0                 Enum = 0x84c0
	TEXTURE_MAG_FILTER       Enum = 0x2800
	TEXTURE_MIN_FILTER       Enum = 0x2801
	TEXTURE_WRAP_S           Enum = 0x2802
	TEXTURE_WRAP_T           Enum = 0x2803
	NEAREST                  Enum = 0x2600
	LINEAR                   Enum = 0x2601
	REPEAT                   Enum = 0x2901
	CLAMP_TO_BORDER          Enum = 0x812d
	CLAMP_TO_EDGE            Enum = 0x812f
	MAX_TEXTURE_SIZE         Enum = 0xd33
	UNPACK_ROW_LENGTH        Enum = 0xcf2
	UNPACK_SKIP_ROWS         Enum = 0xcf3
	UNPACK_SKIP_PIXELS       Enum = 0xcf4
	UNPACK_ALIGNMENT         Enum = 0xcf5
	ALPHA                    Enum = 0x1906
	RGB                      Enum = 0x1907
	RGBA                     Enum = 0x1908
	LUMINANCE                Enum = 0x1909
	BGRA                     Enum = 0x80e1
	RGBA32F                  Enum = 0x8814
	UNSIGNED_INT_8_8_8_8     Enum = 0x8035
	UNSIGNED_INT_8_8_8_8_REV Enum = 0x8367
	YCBCR_422_APPLE          Enum = 0x85b9
	UNSIGNED_SHORT_8_8_APPLE Enum = 0x85ba

	ARRAY_BUFFER         Enum = 0x8892
	ELEMENT_ARRAY_BUFFER Enum = 0x8893
	STATIC_DRAW          Enum = 0x88e4

	FRAMEBUFFER          Enum = 0x8d40
	RENDERBUFFER         Enum = 0x8d41
	FRAMEBUFFER_BINDING  Enum = 0x8ca6
	FRAMEBUFFER_COMPLETE Enum = 0x8cd5
	COLOR_ATTACHMENT0    Enum = 0x8ce0
	DEPTH_ATTACHMENT     Enum = 0x8d00
	DEPTH_COMPONENT      Enum = 0x1902
	DEPTH_COMPONENT16    Enum = 0x81a5

	FRAGMENT_SHADER Enum = 0x8b30
	VERTEX_SHADER   Enum = 0x8b31
	COMPILE_STATUS  Enum = 0x8b81
	LINK_STATUS     Enum = 0x8b82
	VALIDATE_STATUS Enum = 0x8b83
	INFO_LOG_LENGTH Enum = 0x8b84

	VENDOR     Enum = 0x1f00
	RENDERER   Enum = 0x1f01
	VERSION    Enum = 0x1f02
	EXTENSIONS Enum = 0x1f03

	NO_ERROR                      Enum = 0x0
	INVALID_ENUM                  Enum = 0x500
	INVALID_VALUE                 Enum = 0x501
	INVALID_OPERATION             Enum = 0x502
	STACK_OVERFLOW                Enum = 0x503
	STACK_UNDERFLOW               Enum = 0x504
	OUT_OF_MEMORY                 Enum = 0x505
	INVALID_FRAMEBUFFER_OPERATION Enum = 0x506
)

// BlendFactor is the engine-side blend factor.
type BlendFactor int

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendDstColor
	BlendOneMinusDstColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstAlpha
	BlendOneMinusDstAlpha
	BlendConstantColor
	BlendOneMinusConstantColor
	BlendConstantAlpha
	BlendOneMinusConstantAlpha
	BlendSrcAlphaSaturate
)

var blendFactors = [...]Enum{
	BlendZero:                  ZERO,
	BlendOne:                   ONE,
	BlendSrcColor:              SRC_COLOR,
	BlendOneMinusSrcColor:      ONE_MINUS_SRC_COLOR,
	BlendDstColor:              DST_COLOR,
	BlendOneMinusDstColor:      ONE_MINUS_DST_COLOR,
	BlendSrcAlpha:              SRC_ALPHA,
	BlendOneMinusSrcAlpha:      ONE_MINUS_SRC_ALPHA,
	BlendDstAlpha:              DST_ALPHA,
	BlendOneMinusDstAlpha:      ONE_MINUS_DST_ALPHA,
	BlendConstantColor:         CONSTANT_COLOR,
	BlendOneMinusConstantColor: ONE_MINUS_CONSTANT_COLOR,
	BlendConstantAlpha:         CONSTANT_ALPHA,
	BlendOneMinusConstantAlpha: ONE_MINUS_CONSTANT_ALPHA,
	BlendSrcAlphaSaturate:      SRC_ALPHA_SATURATE,
}

// GL returns the driver enumerant. Unknown factors fall back to ZERO.
func (f BlendFactor) GL() Enum {
	if f < 0 || int(f) >= len(blendFactors) {
		Logger().Warn("unknown blend factor, using ZERO", "factor", int(f))
		return ZERO
	}
	return blendFactors[f]
}

// WrapMode is the texture addressing mode.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClampToEdge
	WrapClampToBorder
)

func (w WrapMode) GL() Enum {
	switch w {
	case WrapRepeat:
		return REPEAT
	case WrapClampToEdge:
		return CLAMP_TO_EDGE
	case WrapClampToBorder:
		return CLAMP_TO_BORDER
	}
	Logger().Warn("unknown wrap mode, passing through", "mode", int(w))
	return Enum(w)
}

// Filter selects texture minification and magnification filtering.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

func (f Filter) GL() Enum {
	if f == FilterLinear {
		return LINEAR
	}
	return NEAREST
}

// PixelFormat is the engine-side pixel layout of texture and readback data.
type PixelFormat int

const (
	FormatRGBA PixelFormat = iota
	FormatBGRA
	FormatRGB
	FormatLuminance
	FormatAlpha
	FormatRGBA32F
	FormatYCbCr422
)

func (f PixelFormat) GL() Enum {
	switch f {
	case FormatRGBA:
		return RGBA
	case FormatBGRA:
		return BGRA
	case FormatRGB:
		return RGB
	case FormatLuminance:
		return LUMINANCE
	case FormatAlpha:
		return ALPHA
	case FormatRGBA32F:
		return RGBA32F
	case FormatYCbCr422:
		return YCBCR_422_APPLE
	}
	Logger().Warn("unknown pixel format, passing through", "format", int(f))
	return Enum(f)
}

// PixelType is the engine-side component type of pixel data.
type PixelType int

const (
	TypeUnsignedByte PixelType = iota
	TypeFloat
	TypeUnsignedInt8888Rev
	TypeUnsignedInt8888
	TypeUnsignedShort88
)

func (t PixelType) GL() Enum {
	switch t {
	case TypeUnsignedByte:
		return UNSIGNED_BYTE
	case TypeFloat:
		return FLOAT
	case TypeUnsignedInt8888Rev:
		return UNSIGNED_INT_8_8_8_8_REV
	case TypeUnsignedInt8888:
		return UNSIGNED_INT_8_8_8_8
	case TypeUnsignedShort88:
		return UNSIGNED_SHORT_8_8_APPLE
	}
	Logger().Warn("unknown pixel type, passing through", "type", int(t))
	return Enum(t)
}

// TexTarget is the engine-side texture target.
type TexTarget int

const (
	TargetTexture2D TexTarget = iota
)

func (t TexTarget) GL() Enum {
	if t == TargetTexture2D {
		return TEXTURE_2D
	}
	Logger().Warn("unknown texture target, passing through", "target", int(t))
	return Enum(t)
}

// PixelStoreParam names an unpack parameter for PixelStorei.
type PixelStoreParam int

const (
	UnpackAlignment PixelStoreParam = iota
	UnpackRowLength
	UnpackSkipPixels
	UnpackSkipRows
)

func (p PixelStoreParam) GL() Enum {
	switch p {
	case UnpackAlignment:
		return UNPACK_ALIGNMENT
	case UnpackRowLength:
		return UNPACK_ROW_LENGTH
	case UnpackSkipPixels:
		return UNPACK_SKIP_PIXELS
	case UnpackSkipRows:
		return UNPACK_SKIP_ROWS
	}
	Logger().Warn("unknown pixel store parameter, passing through", "pname", int(p))
	return Enum(p)
}

// QueryParam names a single-valued integer query.
type QueryParam int

const (
	QueryTextureBinding2D QueryParam = iota
	QueryMaxTextureSize
	QueryFramebufferBinding
)

func (q QueryParam) GL() Enum {
	switch q {
	case QueryTextureBinding2D:
		return TEXTURE_BINDING_2D
	case QueryMaxTextureSize:
		return MAX_TEXTURE_SIZE
	case QueryFramebufferBinding:
		return FRAMEBUFFER_BINDING
	}
	Logger().Warn("unknown query parameter, passing through", "pname", int(q))
	return Enum(q)
}

// CullMode is the per mesh-view face culling request.
type CullMode int

const (
	CullNone CullMode = iota
	CullBack
	CullFront
)

// MapType is the texture slot of a phong material.
type MapType int

const (
	MapDiffuse MapType = iota
	MapSpecular
	MapBump
	MapSelfIllumination

	NumMaps = 4
)

var glErrorNames = map[Enum]string{
	NO_ERROR:                      "GL_NO_ERROR",
	INVALID_ENUM:                  "GL_INVALID_ENUM",
	INVALID_VALUE:                 "GL_INVALID_VALUE",
	INVALID_OPERATION:             "GL_INVALID_OPERATION",
	STACK_OVERFLOW:                "GL_STACK_OVERFLOW",
	STACK_UNDERFLOW:               "GL_STACK_UNDERFLOW",
	OUT_OF_MEMORY:                 "GL_OUT_OF_MEMORY",
	INVALID_FRAMEBUFFER_OPERATION: "GL_INVALID_FRAMEBUFFER_OPERATION",
}

// GLError is a non-zero glGetError result.
type GLError Enum

func (e GLError) Error() string {
	if name, ok := glErrorNames[Enum(e)]; ok {
		return "gl: " + name
	}
	return "gl: unknown error 0x" + strconv.FormatUint(uint64(e), 16)
}
