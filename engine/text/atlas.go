// Package text rasterizes TrueType fonts into glyph atlases and lays out
// strings as textured quads for the 2D renderer.
package text

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	glbackend "github.com/hubastard/es2/engine/gfx/gl"
	"github.com/hubastard/es2/engine/gfx/renderer2d"
)

// Printable ASCII.
const (
	firstRune = ' '
	lastRune  = '~'
)

const (
	glyphPadding = 2
	minAtlasSize = 128
	maxAtlasSize = 4096
)

// Glyph places one rune inside an Atlas. Metrics are in pixels; BearingY is
// the distance from the baseline up to the top of the bitmap.
type Glyph struct {
	Advance  float32
	BearingX float32
	BearingY float32
	W, H     int
	U0, V0   float32
	U1, V1   float32
}

// Atlas is a white-on-transparent glyph sheet. Image holds premultiplied
// RGBA pixels; Texture is set by Upload.
type Atlas struct {
	SizePx                   float32
	Ascent, Descent, LineGap float32
	Glyphs                   map[rune]Glyph
	Kern                     map[[2]rune]float32
	Image                    *image.RGBA
	Texture                  uint32
}

// Default rasterizes Go Regular at sizePx.
func Default(sizePx float32) (*Atlas, error) { return NewAtlas(goregular.TTF, sizePx) }

// NewAtlas rasterizes the printable ASCII range of a TrueType or OpenType
// font into a square atlas, doubling the atlas until every glyph fits.
func NewAtlas(ttf []byte, sizePx float32) (*Atlas, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("font size %v", sizePx)
	}
	ft, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer face.Close()

	m := face.Metrics()
	a := &Atlas{
		SizePx:  sizePx,
		Ascent:  float32(m.Ascent.Round()),
		Descent: float32(-m.Descent.Round()),
		Glyphs:  make(map[rune]Glyph, lastRune-firstRune+1),
		Kern:    map[[2]rune]float32{},
	}
	a.LineGap = float32(m.Height.Round()) - a.Ascent + a.Descent

	type bitmap struct {
		r      rune
		bounds image.Rectangle // relative to the dot
		adv    fixed.Int26_6
	}
	var bitmaps []bitmap
	for r := firstRune; r <= lastRune; r++ {
		b, adv, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		rect := image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
		bitmaps = append(bitmaps, bitmap{r: r, bounds: rect, adv: adv})
	}

	sizes := make([]image.Point, len(bitmaps))
	for i, b := range bitmaps {
		sizes[i] = b.bounds.Size()
	}
	size, pos, err := pack(sizes)
	if err != nil {
		return nil, err
	}

	a.Image = image.NewRGBA(image.Rect(0, 0, size, size))
	drawer := &font.Drawer{Dst: a.Image, Src: image.White, Face: face}
	for i, b := range bitmaps {
		g := Glyph{
			Advance:  float32(b.adv.Round()),
			BearingX: float32(b.bounds.Min.X),
			BearingY: float32(-b.bounds.Min.Y),
			W:        b.bounds.Dx(),
			H:        b.bounds.Dy(),
		}
		if g.W > 0 && g.H > 0 {
			p := pos[i]
			drawer.Dot = fixed.P(p.X-b.bounds.Min.X, p.Y-b.bounds.Min.Y)
			drawer.DrawString(string(b.r))
			s := float32(size)
			g.U0, g.V0 = float32(p.X)/s, float32(p.Y)/s
			g.U1, g.V1 = float32(p.X+g.W)/s, float32(p.Y+g.H)/s
		}
		a.Glyphs[b.r] = g
	}

	for _, l := range bitmaps {
		for _, r := range bitmaps {
			if k := face.Kern(l.r, r.r); k != 0 {
				a.Kern[[2]rune{l.r, r.r}] = float32(k) / 64
			}
		}
	}
	return a, nil
}

// pack places the boxes on shelves in a square atlas and returns its size
// and the top-left corner of every box. Empty boxes get no space.
func pack(sizes []image.Point) (int, []image.Point, error) {
	pos := make([]image.Point, len(sizes))
	for size := minAtlasSize; size <= maxAtlasSize; size *= 2 {
		if shelves(sizes, pos, size) {
			return size, pos, nil
		}
	}
	return 0, nil, fmt.Errorf("font atlas larger than %dx%d", maxAtlasSize, maxAtlasSize)
}

func shelves(sizes, pos []image.Point, size int) bool {
	x, y, rowH := glyphPadding, glyphPadding, 0
	for i, s := range sizes {
		if s.X == 0 || s.Y == 0 {
			pos[i] = image.Point{}
			continue
		}
		if x+s.X+glyphPadding > size {
			x = glyphPadding
			y += rowH + glyphPadding
			rowH = 0
		}
		if x+s.X+glyphPadding > size || y+s.Y+glyphPadding > size {
			return false
		}
		pos[i] = image.Pt(x, y)
		x += s.X + glyphPadding
		rowH = max(rowH, s.Y)
	}
	return true
}

// LineHeight is the baseline to baseline distance.
func (a *Atlas) LineHeight() float32 { return a.Ascent - a.Descent + a.LineGap }

// Upload creates the atlas texture with nearest filtering.
func (a *Atlas) Upload(ctx *glbackend.Context) error {
	b := a.Image.Bounds()
	tex, err := renderer2d.UploadRGBA(ctx, int32(b.Dx()), int32(b.Dy()), a.Image.Pix)
	if err != nil {
		return fmt.Errorf("upload font atlas: %w", err)
	}
	ctx.TexParamsMinMax(glbackend.FilterNearest)
	a.Texture = tex
	return nil
}

// Release deletes the atlas texture.
func (a *Atlas) Release(ctx *glbackend.Context) {
	ctx.DeleteTexture(a.Texture)
	a.Texture = 0
}
