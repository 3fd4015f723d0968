package analyzer

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/menta2k/smart-crop/pkg/cropper"
)

// ImageAnalyzer checks source images before they are cropped
type ImageAnalyzer struct {
	config Config
}

// Config holds configuration for the image analyzer
type Config struct {
	SupportedFormats []string `json:"supported_formats"`
	MinImageSize     int      `json:"min_image_size"`
}

// DefaultConfig returns the formats the processing package can decode.
func DefaultConfig() Config {
	return Config{
		SupportedFormats: []string{"jpg", "jpeg", "png", "webp", "gif", "bmp", "tiff"},
		MinImageSize:     1,
	}
}

// New creates a new ImageAnalyzer with default configuration
func New() *ImageAnalyzer {
	return &ImageAnalyzer{config: DefaultConfig()}
}

// NewWithConfig creates a new ImageAnalyzer with custom configuration
func NewWithConfig(config Config) *ImageAnalyzer {
	if len(config.SupportedFormats) == 0 {
		config.SupportedFormats = DefaultConfig().SupportedFormats
	}
	return &ImageAnalyzer{config: config}
}

// ImageInfo contains basic image metadata
type ImageInfo struct {
	Width       int
	Height      int
	AspectRatio float64
	Area        int
}

// GetImageInfo returns basic information about an image
func (a *ImageAnalyzer) GetImageInfo(img image.Image) ImageInfo {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	info := ImageInfo{
		Width:  width,
		Height: height,
		Area:   width * height,
	}
	if height > 0 {
		info.AspectRatio = float64(width) / float64(height)
	}
	return info
}

// IsFormatSupported reports whether path has one of the configured extensions.
func (a *ImageAnalyzer) IsFormatSupported(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, supported := range a.config.SupportedFormats {
		if strings.EqualFold(ext, supported) {
			return true
		}
	}
	return false
}

// ValidateImage checks if an image meets minimum requirements
func (a *ImageAnalyzer) ValidateImage(img image.Image) error {
	bounds := img.Bounds()
	if bounds.Dx() < a.config.MinImageSize || bounds.Dy() < a.config.MinImageSize {
		return fmt.Errorf("image too small: %dx%d (minimum: %d)",
			bounds.Dx(), bounds.Dy(), a.config.MinImageSize)
	}
	return nil
}

// ValidateCrop checks img and reports which axis a width x height crop
// would remove pixels along.
func (a *ImageAnalyzer) ValidateCrop(img image.Image, width, height int) (cropper.Axis, error) {
	if err := a.ValidateImage(img); err != nil {
		return cropper.AxisNone, err
	}
	return cropper.ResolveAxis(img.Bounds().Size(), image.Pt(width, height))
}
