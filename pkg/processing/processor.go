package processing

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Processor handles image loading, saving and the resizing done around a crop.
type Processor struct {
	client *http.Client
}

// NewProcessor creates a new image processor
func NewProcessor() *Processor {
	return &Processor{client: &http.Client{Timeout: 30 * time.Second}}
}

// LoadImageFromURL downloads and decodes an image.
func (p *Processor) LoadImageFromURL(imageURL string) (image.Image, error) {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %s (only http and https are supported)", parsedURL.Scheme)
	}

	req, err := http.NewRequest(http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "smart-crop/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %s", resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("URL does not point to an image (Content-Type: %s)", ct)
	}

	return p.LoadImageFromReader(resp.Body)
}

// LoadImage loads an image from a file path with WebP support
func (p *Processor) LoadImage(path string) (image.Image, error) {
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := p.LoadImageFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// LoadImageSmart loads an image from either a file path or URL
func (p *Processor) LoadImageSmart(source string) (image.Image, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return p.LoadImageFromURL(source)
	}
	return p.LoadImage(source)
}

// LoadImageFromReader decodes any registered format, falling back to the
// libwebp decoder for WebP variants x/image cannot read.
func (p *Processor) LoadImageFromReader(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown or unsupported format")
}

// SaveImage saves an image to a file with the specified format and quality
func (p *Processor) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		if err := webp.Encode(f, img, opts); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case "png":
		return imaging.Save(img, path, imaging.PNGCompressionLevel(png.BestCompression))
	case "jpg", "jpeg", "":
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// ScaleToCover resizes img so it covers width x height and matches it
// exactly on at least one axis, which turns any request into a one-axis
// crop. Images that already qualify are returned unchanged.
func (p *Processor) ScaleToCover(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if (w == width && h >= height) || (h == height && w >= width) {
		return img, nil
	}

	sx := float64(width) / float64(w)
	sy := float64(height) / float64(h)
	if sx >= sy {
		nh := int(math.Round(float64(h) * sx))
		if nh < height {
			nh = height
		}
		return imaging.Resize(img, width, nh, imaging.Lanczos), nil
	}
	nw := int(math.Round(float64(w) * sy))
	if nw < width {
		nw = width
	}
	return imaging.Resize(img, nw, height, imaging.Lanczos), nil
}

// CreateDebugOverlay darkens everything outside keep and outlines it.
// keep is in img's coordinates.
func (p *Processor) CreateDebugOverlay(img image.Image, keep image.Rectangle) image.Image {
	b := img.Bounds()
	out := imaging.Clone(img)
	keep = keep.Sub(b.Min).Intersect(out.Bounds())

	shade := image.NewUniform(color.NRGBA{0, 0, 0, 160})
	for _, band := range outside(out.Bounds(), keep) {
		draw.Draw(out, band, shade, image.Point{}, draw.Over)
	}

	gold := color.NRGBA{255, 204, 0, 255}
	stroke := int(math.Max(1, 0.004*float64(min(b.Dx(), b.Dy()))))
	drawRect(out, keep, gold, stroke)

	return out
}

// outside returns the up to four bands of r not covered by keep.
func outside(r, keep image.Rectangle) []image.Rectangle {
	if keep.Empty() {
		return []image.Rectangle{r}
	}
	bands := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, keep.Min.Y),
		image.Rect(r.Min.X, keep.Max.Y, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, keep.Min.Y, keep.Min.X, keep.Max.Y),
		image.Rect(keep.Max.X, keep.Min.Y, r.Max.X, keep.Max.Y),
	}
	var out []image.Rectangle
	for _, band := range bands {
		if !band.Empty() {
			out = append(out, band)
		}
	}
	return out
}

func drawRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA, stroke int) {
	if r.Empty() {
		return
	}
	fill := image.NewUniform(c)
	for s := 0; s < stroke; s++ {
		edges := []image.Rectangle{
			image.Rect(r.Min.X, r.Min.Y+s, r.Max.X, r.Min.Y+s+1),
			image.Rect(r.Min.X, r.Max.Y-1-s, r.Max.X, r.Max.Y-s),
			image.Rect(r.Min.X+s, r.Min.Y, r.Min.X+s+1, r.Max.Y),
			image.Rect(r.Max.X-1-s, r.Min.Y, r.Max.X-s, r.Max.Y),
		}
		for _, e := range edges {
			draw.Draw(img, e.Intersect(r), fill, image.Point{}, draw.Src)
		}
	}
}
