// Package renderer2d batches 2D quads into the client side vertex arrays of
// a glbackend.Context and draws them with the shared quad index buffer.
package renderer2d

import (
	"errors"
	"fmt"
	"math"

	"github.com/hubastard/es2/engine/colors"
	glbackend "github.com/hubastard/es2/engine/gfx/gl"
	"github.com/hubastard/es2/engine/profiler"
)

// Quads per batch are bounded by the 16-bit index buffer.
const MaxQuadsPerBatch = 65536 / vertsPerQuad

const (
	vertsPerQuad = 4
	indsPerQuad  = glbackend.IndicesPerQuad
	vStride      = glbackend.FloatsPerVertex
)

// Attribute names bound to the 2D attribute locations.
var attribNames = []string{"aPosition", "aColor", "aTexCoord0", "aTexCoord1"}

// Statistics captures the counts generated during a renderer frame.
type Statistics struct {
	DrawCalls    int
	QuadCount    int
	TextureCount int
}

// TotalVertexCount reports vertices submitted this frame.
func (s Statistics) TotalVertexCount() int { return s.QuadCount * vertsPerQuad }

// TotalIndexCount reports indices submitted this frame.
func (s Statistics) TotalIndexCount() int { return s.QuadCount * indsPerQuad }

// QuadIndices returns the index pattern for n quads laid out as
// top-left, top-right, bottom-left, bottom-right.
func QuadIndices(n int) []uint16 {
	inds := make([]uint16, 0, n*indsPerQuad)
	for q := 0; q < n; q++ {
		v := uint16(q * vertsPerQuad)
		inds = append(inds, v, v+1, v+2, v+2, v+1, v+3)
	}
	return inds
}

type Renderer2D struct {
	ctx *glbackend.Context

	vert, frag, prog uint32
	uVP, uTex        int32
	white            uint32 // 1x1 white
	indexBuf         uint32

	floats    []float32
	bytes     []byte
	quadCount int
	maxQuads  int
	tex       uint32 // texture of the current batch

	vp    [16]float32
	stats Statistics
	err   error
}

// New compiles the 2D program and allocates the shared index buffer and
// vertex arrays for maxQuads quads per batch.
func New(ctx *glbackend.Context, vertSrc, fragSrc string, maxQuads int) (rd *Renderer2D, err error) {
	if maxQuads <= 0 {
		maxQuads = 10000
	}
	maxQuads = min(maxQuads, MaxQuadsPerBatch)

	rd = &Renderer2D{
		ctx:      ctx,
		maxQuads: maxQuads,
		floats:   make([]float32, 0, maxQuads*vertsPerQuad*vStride),
		bytes:    make([]byte, 0, maxQuads*vertsPerQuad*glbackend.BytesPerColor),
	}
	defer func() {
		if err != nil {
			rd.Dispose()
			rd = nil
		}
	}()

	if rd.vert, err = ctx.CompileShader(vertSrc, true); err != nil {
		return rd, fmt.Errorf("renderer2d: vertex shader: %w", err)
	}
	if rd.frag, err = ctx.CompileShader(fragSrc, false); err != nil {
		return rd, fmt.Errorf("renderer2d: fragment shader: %w", err)
	}
	rd.prog, err = ctx.CreateProgram(rd.vert, []uint32{rd.frag}, attribNames, []uint32{0, 1, 2, 3})
	if err != nil {
		if errors.Is(err, glbackend.ErrProgramLink) || errors.Is(err, glbackend.ErrProgramValidate) {
			// the failed link deleted both shaders
			rd.vert, rd.frag = 0, 0
		}
		return rd, fmt.Errorf("renderer2d: %w", err)
	}
	rd.uVP = ctx.GetUniformLocation(rd.prog, "uVP")
	rd.uTex = ctx.GetUniformLocation(rd.prog, "uTex")

	if rd.white, err = UploadRGBA(ctx, 1, 1, []byte{255, 255, 255, 255}); err != nil {
		return rd, fmt.Errorf("renderer2d: white texture: %w", err)
	}
	if rd.indexBuf, err = ctx.CreateIndexBuffer16(QuadIndices(maxQuads)); err != nil {
		return rd, fmt.Errorf("renderer2d: index buffer: %w", err)
	}
	return rd, nil
}

// UploadRGBA creates a texture from tightly packed RGBA8 pixels.
func UploadRGBA(ctx *glbackend.Context, w, h int32, pix []byte) (uint32, error) {
	tex, err := ctx.CreateTexture(w, h)
	if err != nil {
		return 0, err
	}
	ctx.PixelStorei(glbackend.UnpackAlignment, 1)
	err = ctx.TexSubImage2D(glbackend.TargetTexture2D, 0, 0, 0, w, h,
		glbackend.FormatRGBA, glbackend.TypeUnsignedByte, pix)
	if err != nil {
		ctx.DeleteTexture(tex)
		return 0, err
	}
	ctx.UpdateWrapState(glbackend.WrapClampToEdge)
	return tex, nil
}

// WhiteTexture returns the 1x1 white texture used for solid quads.
func (rd *Renderer2D) WhiteTexture() uint32 { return rd.white }

// MaxQuads returns the batch capacity.
func (rd *Renderer2D) MaxQuads() int { return rd.maxQuads }

// BeginScene puts the context into 2D mode and starts a batch.
func (rd *Renderer2D) BeginScene(vp [16]float32) {
	rd.vp = vp
	rd.stats = Statistics{}
	rd.err = nil
	rd.resetBatch()

	c := rd.ctx
	c.SetDeviceParametersFor2D()
	c.SetIndexBuffer(rd.indexBuf)
	c.EnableVertexAttributes()
	c.UseProgram(rd.prog)
	c.UniformMatrix4fv(rd.uVP, false, rd.vp[:])
	c.Uniform1i(rd.uTex, 0)
	c.ActiveTexture(0)
}

// EndScene flushes the batch and returns the first draw error of the scene.
func (rd *Renderer2D) EndScene() error {
	rd.flush()
	rd.ctx.DisableVertexAttributes()
	return rd.err
}

// Stats returns the current frame statistics snapshot.
func (rd *Renderer2D) Stats() Statistics { return rd.stats }

// Draw solid color quad (uses the white texture)
func (rd *Renderer2D) DrawQuad(x, y, w, h float32, color colors.Color, rotationRad float32) {
	rd.drawQuadInternal(x, y, w, h, color, rotationRad, rd.white, 0, 0, 1, 1)
}

// Draw textured quad (tint color)
func (rd *Renderer2D) DrawTexturedQuad(x, y, w, h float32, tex uint32, tint colors.Color, rotationRad float32) {
	rd.drawQuadInternal(x, y, w, h, tint, rotationRad, tex, 0, 0, 1, 1)
}

// Draw textured sub-rect (UV rect: u0,v0 -> u1,v1)
func (rd *Renderer2D) DrawTexturedQuadUV(x, y, w, h float32, tex uint32, tint colors.Color, rotationRad float32, u0, v0, u1, v1 float32) {
	rd.drawQuadInternal(x, y, w, h, tint, rotationRad, tex, u0, v0, u1, v1)
}

// DrawSubTexQuad draws a quad using a SubTexture2D (tint + rotation optional).
func (rd *Renderer2D) DrawSubTexQuad(x, y, w, h float32, sub SubTexture2D, tint colors.Color, rotationRad float32) {
	rd.drawQuadInternal(x, y, w, h, tint, rotationRad, sub.Texture, sub.U0, sub.V0, sub.U1, sub.V1)
}

// Dispose deletes the GL objects owned by the renderer.
func (rd *Renderer2D) Dispose() {
	c := rd.ctx
	if rd.prog != 0 {
		c.DisposeShaders(rd.prog, rd.vert, []uint32{rd.frag})
	} else {
		c.DeleteShader(rd.vert)
		c.DeleteShader(rd.frag)
	}
	c.DeleteTexture(rd.white)
	c.DeleteBuffer(rd.indexBuf)
	*rd = Renderer2D{ctx: c}
}

// --- internals ---

func (rd *Renderer2D) drawQuadInternal(x, y, w, h float32, color colors.Color, rotationRad float32, tex uint32, u0, v0, u1, v1 float32) {
	if tex != rd.tex || rd.quadCount >= rd.maxQuads {
		rd.flush()
		rd.tex = tex
	}

	halfW := w * 0.5
	halfH := h * 0.5

	// corners (TL, TR, BL, BR) with UVs. Positive Y goes down so top is -halfH.
	corners := [4][4]float32{
		{-halfW, -halfH, u0, v0},
		{halfW, -halfH, u1, v0},
		{-halfW, halfH, u0, v1},
		{halfW, halfH, u1, v1},
	}
	c, s := float32(math.Cos(float64(rotationRad))), float32(math.Sin(float64(rotationRad)))
	rgba := color.RGBA8()

	for _, p := range corners {
		rx := p[0]*c - p[1]*s + x
		ry := p[0]*s + p[1]*c + y
		u, v := p[2], p[3]
		rd.floats = append(rd.floats, rx, ry, 0, u, v, u, v)
		rd.bytes = append(rd.bytes, rgba[:]...)
	}
	rd.quadCount++
	rd.stats.QuadCount++
}

func (rd *Renderer2D) flush() {
	if rd.quadCount == 0 {
		return
	}
	defer profiler.Start("Renderer2D.flush")()
	rd.ctx.BindTexture(rd.tex)
	err := rd.ctx.DrawIndexedQuads(rd.quadCount*vertsPerQuad, rd.floats, rd.bytes)
	if err != nil {
		rd.err = errors.Join(rd.err, fmt.Errorf("renderer2d: flush %d quads: %w", rd.quadCount, err))
	}
	rd.stats.DrawCalls++
	rd.stats.TextureCount++
	rd.resetBatch()
}

// resetBatch truncates the arrays in place; their base addresses stay the
// same so the context keeps its attribute pointers between flushes.
func (rd *Renderer2D) resetBatch() {
	rd.floats = rd.floats[:0]
	rd.bytes = rd.bytes[:0]
	rd.quadCount = 0
	rd.tex = rd.white
}
