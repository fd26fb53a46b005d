package colors

type Color [4]float32

var (
	White       = Color{1, 1, 1, 1}
	Red         = Color{1, 0, 0, 1}
	Green       = Color{0, 1, 0, 1}
	Blue        = Color{0, 0, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Magenta     = Color{1, 0, 1, 1}
	Cyan        = Color{0, 1, 1, 1}
	Yellow      = Color{1, 1, 0, 1}
	Gray        = Color{0.5, 0.5, 0.5, 1}
	DarkGray    = Color{0.08, 0.10, 0.12, 1}
	Transparent = Color{}
)

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Premultiplied scales the colour channels by alpha.
func (c Color) Premultiplied() Color {
	a := clamp01(c[3])
	return Color{clamp01(c[0]) * a, clamp01(c[1]) * a, clamp01(c[2]) * a, a}
}

// RGBA8 packs the premultiplied colour as four bytes in R, G, B, A order,
// the vertex colour layout of the 2D pipeline.
func (c Color) RGBA8() [4]byte {
	p := c.Premultiplied()
	return [4]byte{toByte(p[0]), toByte(p[1]), toByte(p[2]), toByte(p[3])}
}

// FromBGRA8 converts a straight alpha BGRA pixel as returned by readback.
func FromBGRA8(px []byte) Color {
	return Color{float32(px[2]) / 255, float32(px[1]) / 255, float32(px[0]) / 255, float32(px[3]) / 255}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toByte(v float32) byte { return byte(v*255 + 0.5) }
