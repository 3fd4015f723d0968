// Package saliency offers an alternative crop origin finder backed by
// github.com/muesli/smartcrop. It scores whole candidate windows for edges,
// skin tones and saturation rather than racing the two edges of the image.
package saliency

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"

	"github.com/menta2k/smart-crop/pkg/cropper"
)

// Finder implements cropper.OriginFinder.
type Finder struct {
	analyzer smartcrop.Analyzer
}

// New creates a Finder that downsamples with the given imaging filter.
func New(filter imaging.ResampleFilter) *Finder {
	return &Finder{analyzer: smartcrop.NewAnalyzer(&resizer{filter: filter})}
}

// NewDefault creates a Finder using Lanczos resampling.
func NewDefault() *Finder {
	return New(imaging.Lanczos)
}

// CropOrigin accepts the same one-axis requests as the contrast cropper.
// The saliency window's centre is projected onto the cropped axis and the
// crop is clamped to stay inside the image.
func (f *Finder) CropOrigin(img image.Image, width, height int) (image.Point, error) {
	bounds := img.Bounds()
	axis, err := cropper.ResolveAxis(bounds.Size(), image.Pt(width, height))
	if err != nil {
		return image.Point{}, err
	}
	if axis == cropper.AxisNone {
		return bounds.Min, nil
	}

	best, err := f.analyzer.FindBestCrop(img, width, height)
	if err != nil {
		return image.Point{}, fmt.Errorf("finding best crop: %w", err)
	}
	// The analyzer works on a resized copy, so its window is zero-based.
	centre := best.Min.Add(best.Max).Div(2).Add(bounds.Min)

	if axis == cropper.Vertical {
		y := clamp(centre.Y-height/2, bounds.Min.Y, bounds.Max.Y-height)
		return image.Pt(bounds.Min.X, y), nil
	}
	x := clamp(centre.X-width/2, bounds.Min.X, bounds.Max.X-width)
	return image.Pt(x, bounds.Min.Y), nil
}

// resizer implements smartcrop.Resizer on top of imaging.
type resizer struct {
	filter imaging.ResampleFilter
}

func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.filter)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
