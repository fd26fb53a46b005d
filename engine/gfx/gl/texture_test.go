package glbackend_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gl "github.com/hubastard/es2/engine/gfx/gl"
)

func TestCreateTexture(t *testing.T) {
	c, d := newCtx(t)

	tex, err := c.CreateTexture(64, 32)
	require.NoError(t, err)
	assert.NotZero(t, tex)
	assert.Equal(t, tex, d.State.BoundTexture)
	assert.Equal(t, int32(gl.LINEAR), d.State.TexParams[gl.TEXTURE_MIN_FILTER])
	assert.Equal(t, int32(gl.LINEAR), d.State.TexParams[gl.TEXTURE_MAG_FILTER])
	assert.Equal(t, 1, d.Live().Textures)

	for _, call := range d.Calls {
		if call.Name == "glTexImage2D" {
			assert.Equal(t, []any{gl.TEXTURE_2D, int32(0), gl.RGBA, int32(64), int32(32), int32(0),
				gl.RGBA, gl.UNSIGNED_BYTE, 0}, call.Args)
		}
	}

	c.DeleteTexture(tex)
	assert.Zero(t, d.Live().Textures)
	d.Reset()
	c.DeleteTexture(0)
	assert.Empty(t, d.Calls)
}

func TestCreateTextureDriverError(t *testing.T) {
	c, d := newCtx(t)
	d.TexImageError = gl.OUT_OF_MEMORY

	tex, err := c.CreateTexture(1<<15, 1<<15)
	require.Error(t, err)
	assert.Zero(t, tex)
	var glErr gl.GLError
	require.True(t, errors.As(err, &glErr))
	assert.Equal(t, gl.GLError(gl.OUT_OF_MEMORY), glErr)
	assert.ErrorContains(t, err, "GL_OUT_OF_MEMORY")
	assert.Zero(t, d.Live().Textures)
}

func TestCreateTextureNoObject(t *testing.T) {
	c, d := newCtx(t)
	d.NoNames = true
	_, err := c.CreateTexture(4, 4)
	assert.ErrorIs(t, err, gl.ErrNoObject)
}

func TestTexImage2D(t *testing.T) {
	c, d := newCtx(t)
	c.GenAndBindTexture()

	require.NoError(t, c.TexImage2D(gl.TargetTexture2D, 0, gl.FormatRGBA, 2, 2, 0, gl.FormatRGBA, gl.TypeUnsignedByte, make([]byte, 16)))
	require.NoError(t, c.TexImage2D(gl.TargetTexture2D, 0, gl.FormatRGBA, 2, 2, 0, gl.FormatRGBA, gl.TypeUnsignedByte, nil))

	err := c.TexImage2D(gl.TargetTexture2D, 0, gl.FormatRGBA, 2, 2, 0, gl.FormatRGBA, gl.TypeUnsignedByte, make([]byte, 15))
	assert.ErrorIs(t, err, gl.ErrShortBuffer)
	err = c.TexImage2D(gl.TargetTexture2D, 0, gl.FormatRGB, 2, 2, 0, gl.FormatRGB, gl.TypeFloat, make([]byte, 24))
	assert.ErrorIs(t, err, gl.ErrShortBuffer)
	assert.Equal(t, 2, d.Count("glTexImage2D"))

	d.TexImageError = gl.INVALID_VALUE
	err = c.TexImage2D(gl.TargetTexture2D, 0, gl.FormatRGBA, 2, 2, 0, gl.FormatRGBA, gl.TypeUnsignedByte, nil)
	assert.ErrorIs(t, err, gl.GLError(gl.INVALID_VALUE))
}

func TestTexSubImage2D(t *testing.T) {
	c, d := newCtx(t)

	err := c.TexSubImage2D(gl.TargetTexture2D, 0, 0, 0, 2, 2, gl.FormatRGBA, gl.TypeUnsignedByte, nil)
	assert.ErrorIs(t, err, gl.ErrInvalidArgument)
	err = c.TexSubImage2D(gl.TargetTexture2D, 0, 0, 0, 2, 2, gl.FormatBGRA, gl.TypeUnsignedByte, make([]byte, 8))
	assert.ErrorIs(t, err, gl.ErrShortBuffer)
	assert.Empty(t, d.Calls)

	require.NoError(t, c.TexSubImage2D(gl.TargetTexture2D, 0, 1, 1, 2, 2, gl.FormatLuminance, gl.TypeUnsignedByte, make([]byte, 4)))
	assert.Equal(t, []any{gl.TEXTURE_2D, int32(0), int32(1), int32(1), int32(2), int32(2),
		gl.LUMINANCE, gl.UNSIGNED_BYTE, 4}, d.Calls[0].Args)
}

func TestTextureParameters(t *testing.T) {
	c, d := newCtx(t)
	c.GenAndBindTexture()

	c.TexParamsMinMax(gl.FilterNearest)
	assert.Equal(t, int32(gl.NEAREST), d.State.TexParams[gl.TEXTURE_MIN_FILTER])
	assert.Equal(t, int32(gl.NEAREST), d.State.TexParams[gl.TEXTURE_MAG_FILTER])

	c.UpdateFilterState(true)
	assert.Equal(t, int32(gl.LINEAR), d.State.TexParams[gl.TEXTURE_MIN_FILTER])
	assert.Equal(t, int32(gl.LINEAR), d.State.TexParams[gl.TEXTURE_MAG_FILTER])
	c.UpdateFilterState(false)
	assert.Equal(t, int32(gl.NEAREST), d.State.TexParams[gl.TEXTURE_MIN_FILTER])

	c.UpdateWrapState(gl.WrapClampToEdge)
	assert.Equal(t, int32(gl.CLAMP_TO_EDGE), d.State.TexParams[gl.TEXTURE_WRAP_S])
	assert.Equal(t, int32(gl.CLAMP_TO_EDGE), d.State.TexParams[gl.TEXTURE_WRAP_T])

	c.PixelStorei(gl.UnpackAlignment, 1)
	assert.Equal(t, int32(1), d.State.PixelStore[gl.UNPACK_ALIGNMENT])
	c.PixelStorei(gl.UnpackRowLength, 64)
	assert.Equal(t, int32(64), d.State.PixelStore[gl.UNPACK_ROW_LENGTH])
}

func TestTextureUnitsAndQueries(t *testing.T) {
	c, d := newCtx(t)

	c.ActiveTexture(1)
	assert.Equal(t, gl.TEXTURE0+1, d.State.ActiveUnit)

	tex := c.GenAndBindTexture()
	assert.Equal(t, int32(tex), c.OneValueGetInteger(gl.QueryTextureBinding2D))
	c.BindTexture(0)
	assert.Zero(t, c.OneValueGetInteger(gl.QueryTextureBinding2D))

	assert.Equal(t, int32(4096), c.MaxTextureSize())
	assert.Equal(t, int32(4096), c.OneValueGetInteger(gl.QueryMaxTextureSize))
}

func TestReadPixels(t *testing.T) {
	for name, desktop := range map[string]bool{"desktop": true, "es": false} {
		t.Run(name, func(t *testing.T) {
			c, d := newCtx(t, gl.WithDesktopGL(desktop))

			dst := make([]byte, 2*2*4)
			require.NoError(t, c.ReadPixels(dst, 0, 0, 2, 2))
			for i := 0; i < len(dst); i += 4 {
				assert.Equal(t, []byte{0x33, 0x22, 0x11, 0x44}, dst[i:i+4], "pixel %d", i/4)
			}

			require.Len(t, d.Calls, 1)
			args := d.Calls[0].Args
			if desktop {
				assert.Equal(t, gl.BGRA, args[4])
				assert.Equal(t, gl.UNSIGNED_INT_8_8_8_8_REV, args[5])
			} else {
				assert.Equal(t, gl.RGBA, args[4])
				assert.Equal(t, gl.UNSIGNED_BYTE, args[5])
			}
		})
	}
}

func TestReadPixelsInvalid(t *testing.T) {
	c, d := newCtx(t)

	assert.ErrorIs(t, c.ReadPixels(make([]byte, 15), 0, 0, 2, 2), gl.ErrShortBuffer)
	assert.ErrorIs(t, c.ReadPixels(nil, 0, 0, 1, 1), gl.ErrShortBuffer)
	assert.ErrorIs(t, c.ReadPixels(make([]byte, 4), 0, 0, 0, 1), gl.ErrInvalidArgument)
	assert.ErrorIs(t, c.ReadPixels(make([]byte, 4), 0, 0, 1, -1), gl.ErrInvalidArgument)
	assert.Empty(t, d.Calls)

	// A larger buffer keeps its tail.
	dst := make([]byte, 8)
	dst[7] = 0xee
	require.NoError(t, c.ReadPixels(dst, 0, 0, 1, 1))
	assert.Equal(t, byte(0xee), dst[7])
}
