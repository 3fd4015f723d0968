// Package smartcrop crops images along one axis while keeping the most
// detailed part of the picture.
//
// Basic usage:
//
//	sc := smartcrop.New()
//
//	img, err := sc.LoadImage("photo.jpg")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// 1200x800 -> 800x800 drops columns from the left and right
//	result, err := sc.CropToSize(img, 800, 800)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := sc.SaveImage(result.Image, "photo_square.jpg"); err != nil {
//		log.Fatal(err)
//	}
//
// A crop may only remove pixels along one axis. FitAndCrop first scales the
// image so that it covers the target and matches it on one side.
//
// The package consists of these components:
//
//  1. Colorspace (pkg/colorspace): RGB, XYZ, Hunter and CIE Lab conversion and color distances
//  2. Cropper (pkg/cropper): the contrast-driven crop offset search
//  3. Saliency (pkg/saliency): an alternative finder scoring whole windows
//  4. Processing (pkg/processing): loading, saving, scaling and debug overlays
package smartcrop

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/menta2k/smart-crop/internal/utils"
	"github.com/menta2k/smart-crop/pkg/analyzer"
	"github.com/menta2k/smart-crop/pkg/cropper"
	"github.com/menta2k/smart-crop/pkg/processing"
	"github.com/menta2k/smart-crop/pkg/saliency"
	"github.com/menta2k/smart-crop/pkg/types"
)

// Version of the smart-crop library
const Version = "1.0.0"

// Crop strategies accepted by Options.Strategy.
const (
	StrategyContrast = "contrast"
	StrategySaliency = "saliency"
)

// Options configures a SmartCrop.
type Options struct {
	Analyzer analyzer.Config
	Cropper  cropper.CropConfig
	// Strategy selects the origin finder; empty means StrategyContrast.
	Strategy string
	Output   types.OutputOptions
	// Fit scales images to cover the target before cropping.
	Fit bool
	// Debug writes an overlay of the kept region next to every crop.
	Debug  bool
	Prefix string
	Suffix string
}

// SmartCrop ties loading, cropping and saving together.
type SmartCrop struct {
	analyzer  *analyzer.ImageAnalyzer
	processor *processing.Processor
	finder    cropper.OriginFinder
	opts      Options
}

// New creates a SmartCrop using the contrast finder and JPEG output.
func New() *SmartCrop {
	sc, _ := NewWithConfig(Options{})
	return sc
}

// NewWithConfig creates a SmartCrop from opts. Zero values take defaults.
func NewWithConfig(opts Options) (*SmartCrop, error) {
	var finder cropper.OriginFinder
	switch strings.ToLower(opts.Strategy) {
	case "", StrategyContrast:
		finder = cropper.NewWithConfig(opts.Cropper)
	case StrategySaliency:
		finder = saliency.NewDefault()
	default:
		return nil, fmt.Errorf("unknown crop strategy %q", opts.Strategy)
	}

	if opts.Output.Format == "" {
		opts.Output.Format = "jpg"
	}
	if opts.Output.Quality <= 0 {
		opts.Output.Quality = 90
	}

	return &SmartCrop{
		analyzer:  analyzer.NewWithConfig(opts.Analyzer),
		processor: processing.NewProcessor(),
		finder:    finder,
		opts:      opts,
	}, nil
}

// LoadImage loads an image from a file path or an http(s) URL.
func (sc *SmartCrop) LoadImage(source string) (image.Image, error) {
	return sc.processor.LoadImageSmart(source)
}

// SaveImage encodes img with the configured output options.
func (sc *SmartCrop) SaveImage(img image.Image, path string) error {
	o := sc.opts.Output
	return sc.processor.SaveImage(img, path, o.Format, o.Quality, o.Lossless)
}

// CropOrigin returns where a width x height crop of img should start.
func (sc *SmartCrop) CropOrigin(img image.Image, width, height int) (image.Point, error) {
	return sc.finder.CropOrigin(img, width, height)
}

// CropToSize crops img to width x height. The size must match img on one axis.
func (sc *SmartCrop) CropToSize(img image.Image, width, height int) (cropper.CropResult, error) {
	return cropper.Apply(img, sc.finder, width, height)
}

// FitAndCrop scales img to cover size and then crops it. The returned
// result's Region refers to the scaled image, which is also returned.
func (sc *SmartCrop) FitAndCrop(img image.Image, size types.Size) (cropper.CropResult, image.Image, error) {
	scaled, err := sc.processor.ScaleToCover(img, size.Width, size.Height)
	if err != nil {
		return cropper.CropResult{}, nil, err
	}
	result, err := sc.CropToSize(scaled, size.Width, size.Height)
	if err != nil {
		return cropper.CropResult{}, nil, err
	}
	return result, scaled, nil
}

// Crop crops img to size, scaling first when Fit is set. The second return
// value is the image the crop region refers to.
func (sc *SmartCrop) Crop(img image.Image, size types.Size) (cropper.CropResult, image.Image, error) {
	if sc.opts.Fit {
		return sc.FitAndCrop(img, size)
	}
	result, err := sc.CropToSize(img, size.Width, size.Height)
	return result, img, err
}

// SaveCrop writes result to path and, in debug mode, an overlay of the kept
// region on source next to it.
func (sc *SmartCrop) SaveCrop(result cropper.CropResult, source image.Image, path string) error {
	if err := sc.SaveImage(result.Image, path); err != nil {
		return err
	}
	if !sc.opts.Debug {
		return nil
	}
	overlay := sc.processor.CreateDebugOverlay(source, result.Region)
	ext := filepath.Ext(path)
	return sc.SaveImage(overlay, strings.TrimSuffix(path, ext)+"_debug"+ext)
}

// GetImageInfo returns basic information about an image
func (sc *SmartCrop) GetImageInfo(img image.Image) analyzer.ImageInfo {
	return sc.analyzer.GetImageInfo(img)
}

// ValidateImage checks if an image meets requirements
func (sc *SmartCrop) ValidateImage(img image.Image) error {
	return sc.analyzer.ValidateImage(img)
}

// ProcessImageFile loads inputPath, crops it to every size and saves the
// results in outputDir. It returns the paths written.
func (sc *SmartCrop) ProcessImageFile(inputPath, outputDir string, sizes []types.Size) ([]string, error) {
	img, err := sc.LoadImage(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	if err := sc.ValidateImage(img); err != nil {
		return nil, fmt.Errorf("image validation failed: %w", err)
	}

	if err := utils.EnsureDir(outputDir); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	for _, size := range sizes {
		result, source, err := sc.Crop(img, size)
		if err != nil {
			return written, fmt.Errorf("failed to crop to %s: %w", size, err)
		}

		outputPath := utils.GenerateOutputFilename(inputPath, outputDir, sc.opts.Prefix, sc.opts.Suffix, size, sc.opts.Output.Format)
		if err := sc.SaveCrop(result, source, outputPath); err != nil {
			return written, fmt.Errorf("failed to save crop %s: %w", size, err)
		}
		written = append(written, outputPath)
	}

	return written, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
