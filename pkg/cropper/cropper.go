package cropper

import (
	"fmt"
	"image"
	"io"
	"log"

	"github.com/disintegration/imaging"

	"github.com/menta2k/smart-crop/pkg/colorspace"
)

// ErrInvalidInput is returned for crop requests the cropper cannot satisfy.
// It is the same sentinel as colorspace.ErrInvalidInput.
var ErrInvalidInput = colorspace.ErrInvalidInput

// OriginFinder decides where a crop of the given size should start.
type OriginFinder interface {
	CropOrigin(img image.Image, width, height int) (image.Point, error)
}

// SmartCropper finds crop offsets by comparing the local contrast of the rows
// (or columns) at both ends of the axis being cropped.
type SmartCropper struct {
	config CropConfig
}

// CropConfig holds configuration for smart cropping
type CropConfig struct {
	// Tolerance is how much more interesting one side has to be before it
	// wins a contest outright; a winner needs a ratio above 1+Tolerance.
	Tolerance float64
	// Bounceback is the fraction of the target length the final offset is
	// shifted toward a side that was still clearly winning at the end.
	Bounceback float64
	// DisableBounceback turns the final shift off. A zero Bounceback means
	// the default, not "off".
	DisableBounceback bool
	// SampleDivisor and MinSampleStep control sparse sampling of long rows.
	SampleDivisor float64
	MinSampleStep int
	// Metric compares the Hunter Lab colors of neighboring pixels.
	Metric colorspace.DistanceFunc
	// Logger receives one summary line per search.
	Logger *log.Logger
}

// DefaultConfig returns the tuning the cropper was designed around.
func DefaultConfig() CropConfig {
	return CropConfig{
		Tolerance:     0.5,
		Bounceback:    0.03,
		SampleDivisor: 10,
		MinSampleStep: 4,
		Metric:        colorspace.DeltaE76,
		Logger:        log.New(io.Discard, "", 0),
	}
}

// New creates a new SmartCropper with default configuration
func New() *SmartCropper {
	return &SmartCropper{config: DefaultConfig()}
}

// NewWithConfig creates a new SmartCropper with custom configuration. Zero
// fields take their default value.
func NewWithConfig(config CropConfig) *SmartCropper {
	def := DefaultConfig()
	if config.Tolerance <= 0 {
		config.Tolerance = def.Tolerance
	}
	if config.Bounceback <= 0 {
		config.Bounceback = def.Bounceback
	}
	if config.SampleDivisor <= 0 {
		config.SampleDivisor = def.SampleDivisor
	}
	if config.MinSampleStep <= 0 {
		config.MinSampleStep = def.MinSampleStep
	}
	if config.Metric == nil {
		config.Metric = def.Metric
	}
	if config.Logger == nil {
		config.Logger = def.Logger
	}
	return &SmartCropper{config: config}
}

// Config returns the effective configuration.
func (c *SmartCropper) Config() CropConfig {
	return c.config
}

// CropResult contains the result of a cropping operation
type CropResult struct {
	Image  image.Image
	Region image.Rectangle
	Origin image.Point
	Axis   Axis
}

// CropOrigin returns the top-left corner, in img's coordinates, of the
// width x height crop that keeps the most detail. The crop size must match
// the image on one axis and be no larger on the other.
func (c *SmartCropper) CropOrigin(img image.Image, width, height int) (image.Point, error) {
	bounds := img.Bounds()
	offset, err := c.FindOrigin(NewImageSource(img), image.Pt(width, height))
	if err != nil {
		return image.Point{}, err
	}
	return bounds.Min.Add(offset), nil
}

// FindOrigin is CropOrigin for an arbitrary pixel source. The returned point
// is relative to the source's top-left corner.
func (c *SmartCropper) FindOrigin(src PixelSource, cropSize image.Point) (image.Point, error) {
	size := src.Size()
	axis, err := ResolveAxis(size, cropSize)
	if err != nil {
		return image.Point{}, err
	}
	if axis == AxisNone {
		return image.Point{}, nil
	}

	s := newSearch(src, axis, cropSize, c.config)
	offset := s.run()

	if axis == Vertical {
		return image.Pt(0, offset), nil
	}
	return image.Pt(offset, 0), nil
}

// CropToSize crops img to width x height around its most detailed region.
func (c *SmartCropper) CropToSize(img image.Image, width, height int) (CropResult, error) {
	return Apply(img, c, width, height)
}

// CropToSizes crops img to each of the given sizes.
func (c *SmartCropper) CropToSizes(img image.Image, sizes []image.Point) ([]CropResult, error) {
	var results []CropResult

	for _, size := range sizes {
		result, err := c.CropToSize(img, size.X, size.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to crop to %dx%d: %w", size.X, size.Y, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// Apply asks finder for an origin and crops img there.
func Apply(img image.Image, finder OriginFinder, width, height int) (CropResult, error) {
	axis, err := ResolveAxis(img.Bounds().Size(), image.Pt(width, height))
	if err != nil {
		return CropResult{}, err
	}

	origin, err := finder.CropOrigin(img, width, height)
	if err != nil {
		return CropResult{}, fmt.Errorf("failed to find crop origin: %w", err)
	}

	region := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(width, height))}
	if !region.In(img.Bounds()) {
		return CropResult{}, fmt.Errorf("crop region %v outside image bounds %v", region, img.Bounds())
	}

	return CropResult{
		Image:  imaging.Crop(img, region),
		Region: region,
		Origin: origin,
		Axis:   axis,
	}, nil
}
