package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadRGBAPacksRows(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	src.Set(2, 1, color.NRGBA{B: 255, A: 255})
	fsys := fstest.MapFS{"a.png": {Data: encodePNG(t, src)}}

	w, h, pix, err := LoadRGBA(fsys, "a.png", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
	require.Len(t, pix, 3*2*4)
	assert.Equal(t, []byte{255, 0, 0, 255}, pix[:4])
	assert.Equal(t, []byte{0, 0, 255, 255}, pix[len(pix)-4:])
}

func TestLoadRGBAPremultiplies(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.Set(0, 0, color.NRGBA{R: 255, A: 128})
	fsys := fstest.MapFS{"a.png": {Data: encodePNG(t, src)}}

	_, _, pix, err := LoadRGBA(fsys, "a.png", 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{128, 0, 0, 128}, pix)
}

func TestLoadRGBAErrors(t *testing.T) {
	fsys := fstest.MapFS{"bad.png": {Data: []byte("nope")}}
	_, _, _, err := LoadRGBA(fsys, "missing.png", 0)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, _, _, err = LoadRGBA(fsys, "bad.png", 0)
	assert.ErrorContains(t, err, "decode image")
}

func TestLoadRGBAFitsMaxSize(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	fsys := fstest.MapFS{"wide.png": {Data: encodePNG(t, src)}}

	w, h, pix, err := LoadRGBA(fsys, "wide.png", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)
	assert.Len(t, pix, 4*2*4)
}

func TestFit(t *testing.T) {
	small := image.NewNRGBA(image.Rect(0, 0, 3, 5))
	assert.Same(t, small, Fit(small, 5))
	assert.Same(t, small, Fit(small, 0))

	tall := image.NewNRGBA(image.Rect(0, 0, 10, 40))
	got := Fit(tall, 20)
	assert.Equal(t, 5, got.Bounds().Dx())
	assert.Equal(t, 20, got.Bounds().Dy())
}

func TestBundledAssets(t *testing.T) {
	for _, name := range []string{"quad.vert", "quad.frag", "mesh.vert", "mesh.frag"} {
		src, err := LoadShader(name)
		require.NoError(t, err, name)
		assert.Contains(t, src, "#version 120")
	}
	w, h, pix, err := LoadTexture("checker.png", 4096)
	require.NoError(t, err)
	assert.Equal(t, 64, w)
	assert.Equal(t, 64, h)
	assert.Len(t, pix, 64*64*4)

	w, h, _, err = LoadTexture("checker.png", 32)
	require.NoError(t, err)
	assert.Equal(t, 32, w)
	assert.Equal(t, 32, h)

	_, err = LoadShader("nope.vert")
	assert.Error(t, err)
}
