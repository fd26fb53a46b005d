package text

import (
	"github.com/hubastard/es2/engine/colors"
	"github.com/hubastard/es2/engine/gfx/renderer2d"
)

// layout walks s with the top-left corner of the first line at (x, y) in a
// Y-down space. emit receives every glyph with a bitmap and the top-left
// corner of its quad. Runes missing from the atlas advance like a space.
func layout(a *Atlas, x, y float32, s string, emit func(g Glyph, left, top float32)) (w, h float32) {
	penX := x
	baseline := y + a.Ascent
	lineH := a.LineHeight()
	h = lineH
	prev := rune(-1)
	for _, r := range s {
		if r == '\n' {
			w = max(w, penX-x)
			penX = x
			baseline += lineH
			h += lineH
			prev = -1
			continue
		}
		g, ok := a.Glyphs[r]
		if !ok {
			g = a.Glyphs[' ']
		} else if prev >= 0 {
			penX += a.Kern[[2]rune{prev, r}]
		}
		if g.W > 0 && g.H > 0 && emit != nil {
			emit(g, penX+g.BearingX, baseline-g.BearingY)
		}
		penX += g.Advance
		prev = r
	}
	return max(w, penX-x), h
}

// Draw queues s on r2d, top-left aligned at (x, y). The atlas must have
// been uploaded.
func Draw(r2d *renderer2d.Renderer2D, a *Atlas, x, y float32, s string, tint colors.Color) {
	layout(a, x, y, s, func(g Glyph, left, top float32) {
		w, h := float32(g.W), float32(g.H)
		r2d.DrawTexturedQuadUV(left+w*0.5, top+h*0.5, w, h, a.Texture, tint, 0, g.U0, g.V0, g.U1, g.V1)
	})
}

// Measure returns the size of the box Draw would fill.
func Measure(a *Atlas, s string) (w, h float32) {
	return layout(a, 0, 0, s, nil)
}
