package assets

import (
	"fmt"
	"image"
	"image/draw"
	"io/fs"

	"github.com/disintegration/imaging"
)

// LoadImage decodes any format imaging knows (PNG, JPEG, GIF, BMP, TIFF).
// EXIF orientation is applied.
func LoadImage(fsys fs.FS, name string) (image.Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", name, err)
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", name, err)
	}
	return img, nil
}

// Fit scales img down with a Lanczos filter so that neither side exceeds
// maxSize, keeping the aspect ratio. Images that already fit, and a
// maxSize <= 0, are returned unchanged.
func Fit(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	if maxSize <= 0 || (b.Dx() <= maxSize && b.Dy() <= maxSize) {
		return img
	}
	return imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
}

// LoadRGBA decodes name from fsys, fits it into maxSize and returns width,
// height, and tightly packed premultiplied RGBA8 pixels (row-major, top-left
// origin).
func LoadRGBA(fsys fs.FS, name string, maxSize int) (w, h int, rgba []byte, err error) {
	img, err := LoadImage(fsys, name)
	if err != nil {
		return 0, 0, nil, err
	}

	rgbaImg := imageToRGBA(Fit(img, maxSize))
	w, h = rgbaImg.Bounds().Dx(), rgbaImg.Bounds().Dy()

	// Repack in tight rows (stride == 4*w)
	out := make([]byte, w*h*4)
	src := rgbaImg.Pix
	srcStride := rgbaImg.Stride
	for y := 0; y < h; y++ {
		copy(out[y*w*4:(y+1)*w*4], src[y*srcStride:y*srcStride+w*4])
	}
	return w, h, out, nil
}

// LoadTexture decodes one of the bundled textures, scaled to fit maxSize
// (usually the context's MaxTextureSize).
func LoadTexture(name string, maxSize int) (w, h int, rgba []byte, err error) {
	return LoadRGBA(FS, "textures/"+name, maxSize)
}

// imageToRGBA converts to premultiplied RGBA, the blend mode of the 2D path.
func imageToRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
