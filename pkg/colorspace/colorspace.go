// Package colorspace converts RGB pixel values into perceptual Lab color
// spaces and measures perceptual distance between colors.
//
// The conversion pipeline is RGB -> XYZ (sRGB, D65/2°) -> Lab. Two Lab
// variants are provided: Hunter Lab, which is cheap and is what the cropper
// scores pixels with, and CIE L*a*b*. All functions are pure and safe to call
// from multiple goroutines.
package colorspace

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when a color value is out of range or incomplete.
var ErrInvalidInput = errors.New("invalid input")

// RGB is a color with channels in [0, 255]. Channels are floats because
// alpha-scaled packed colors are not integral.
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// XYZ holds CIE tristimulus values scaled so that Y is 100 for reference white.
type XYZ struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Lab is a lightness / two-chroma-axis color, either Hunter Lab or CIE L*a*b*
// depending on how it was produced.
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// NewRGB builds an RGB from 8-bit channels.
func NewRGB(r, g, b uint8) RGB {
	return RGB{R: float64(r), G: float64(g), B: float64(b)}
}

// Validate reports ErrInvalidInput if a channel is NaN or outside [0, 255].
func (c RGB) Validate() error {
	for _, ch := range [...]struct {
		name string
		v    float64
	}{{"red", c.R}, {"green", c.G}, {"blue", c.B}} {
		if math.IsNaN(ch.v) {
			return fmt.Errorf("%w: rgb %s channel is missing", ErrInvalidInput, ch.name)
		}
		if ch.v < 0 || ch.v > 255 {
			return fmt.Errorf("%w: rgb %s channel %v outside [0,255]", ErrInvalidInput, ch.name, ch.v)
		}
	}
	return nil
}

// Validate reports ErrInvalidInput if an axis is NaN or infinite.
func (c XYZ) Validate() error {
	for _, v := range [...]float64{c.X, c.Y, c.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: xyz axis is missing or not finite", ErrInvalidInput)
		}
	}
	return nil
}
