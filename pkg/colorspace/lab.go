package colorspace

import "math"

// D65 / 2° reference white used by the CIE L*a*b* conversion.
const (
	refWhiteX = 95.047
	refWhiteY = 100.0
	refWhiteZ = 108.883
)

// RGBToXYZ converts an sRGB color to XYZ tristimulus values under the
// D65 illuminant with the 2° observer.
func RGBToXYZ(c RGB) (XYZ, error) {
	if err := c.Validate(); err != nil {
		return XYZ{}, err
	}
	return rgbToXYZ(c), nil
}

func rgbToXYZ(c RGB) XYZ {
	r := linearize(c.R / 255)
	g := linearize(c.G / 255)
	b := linearize(c.B / 255)

	return XYZ{
		X: r*0.4124 + g*0.3576 + b*0.1805,
		Y: r*0.2126 + g*0.7152 + b*0.0722,
		Z: r*0.0193 + g*0.1192 + b*0.9505,
	}
}

// linearize removes the sRGB transfer curve and scales to [0, 100].
func linearize(v float64) float64 {
	if v < 0.04045 {
		return v / 12.92 * 100
	}
	return math.Pow((v+0.055)/1.055, 2.4) * 100
}

// XYZToHunterLab converts XYZ to Hunter Lab. A color without luminance maps
// to (0, 0, 0).
func XYZToHunterLab(c XYZ) (Lab, error) {
	if err := c.Validate(); err != nil {
		return Lab{}, err
	}
	return xyzToHunterLab(c), nil
}

func xyzToHunterLab(c XYZ) Lab {
	if c.Y == 0 {
		return Lab{}
	}
	sy := math.Sqrt(c.Y)
	return Lab{
		L: 10 * sy,
		A: 17.5 * ((1.02*c.X - c.Y) / sy),
		B: 7 * ((c.Y - 0.847*c.Z) / sy),
	}
}

// XYZToCIELab converts XYZ to CIE L*a*b* relative to the D65 white point.
func XYZToCIELab(c XYZ) (Lab, error) {
	if err := c.Validate(); err != nil {
		return Lab{}, err
	}
	x := labCompand(c.X / refWhiteX)
	y := labCompand(c.Y / refWhiteY)
	z := labCompand(c.Z / refWhiteZ)

	return Lab{
		L: 116*y - 16,
		A: 500 * (x - y),
		B: 200 * (y - z),
	}, nil
}

func labCompand(v float64) float64 {
	if v < 0.008856 {
		return 7.787*v + 16.0/116
	}
	return math.Cbrt(v)
}

// RGBToHunterLab is the conversion the cropper relies on.
func RGBToHunterLab(c RGB) (Lab, error) {
	if err := c.Validate(); err != nil {
		return Lab{}, err
	}
	return xyzToHunterLab(rgbToXYZ(c)), nil
}

// HunterLab8 converts 8-bit channels to Hunter Lab. It cannot fail, which
// makes it the hot path for per-pixel scoring.
func HunterLab8(r, g, b uint8) Lab {
	return xyzToHunterLab(rgbToXYZ(NewRGB(r, g, b)))
}

// RGBToCIELab converts an sRGB color to CIE L*a*b*.
func RGBToCIELab(c RGB) (Lab, error) {
	xyz, err := RGBToXYZ(c)
	if err != nil {
		return Lab{}, err
	}
	return XYZToCIELab(xyz)
}
