package cropper

import (
	"image"
	"image/color"
)

// PixelSource is the read-only pixel access the cropper needs.
type PixelSource interface {
	// Size returns the width and height of the source.
	Size() image.Point
	// RGB returns the non-premultiplied channels of the pixel at (x, y),
	// where 0 <= x < width and 0 <= y < height.
	RGB(x, y int) (r, g, b uint8)
}

// NewImageSource adapts img to a PixelSource with zero-based coordinates.
func NewImageSource(img image.Image) PixelSource {
	switch m := img.(type) {
	case *image.NRGBA:
		return &nrgbaSource{img: m}
	case *image.RGBA:
		return &rgbaSource{imageSource: imageSource{img: m, min: m.Rect.Min}, img: m}
	default:
		return &imageSource{img: img, min: img.Bounds().Min}
	}
}

type imageSource struct {
	img image.Image
	min image.Point
}

func (s *imageSource) Size() image.Point {
	return s.img.Bounds().Size()
}

func (s *imageSource) RGB(x, y int) (r, g, b uint8) {
	c := color.NRGBAModel.Convert(s.img.At(s.min.X+x, s.min.Y+y)).(color.NRGBA)
	return c.R, c.G, c.B
}

// nrgbaSource reads straight from the pixel buffer; imaging hands out NRGBA
// images, so this is the common case.
type nrgbaSource struct {
	img *image.NRGBA
}

func (s *nrgbaSource) Size() image.Point {
	return s.img.Rect.Size()
}

func (s *nrgbaSource) RGB(x, y int) (r, g, b uint8) {
	i := y*s.img.Stride + x*4
	p := s.img.Pix[i : i+3 : i+3]
	return p[0], p[1], p[2]
}

// rgbaSource reads opaque pixels directly and falls back to un-premultiplying
// through the color model otherwise.
type rgbaSource struct {
	imageSource
	img *image.RGBA
}

func (s *rgbaSource) RGB(x, y int) (r, g, b uint8) {
	i := y*s.img.Stride + x*4
	p := s.img.Pix[i : i+4 : i+4]
	if p[3] == 0xff {
		return p[0], p[1], p[2]
	}
	return s.imageSource.RGB(x, y)
}
