package colorspace

import "math"

// LabToHue returns the CIE hue angle of the (a, b) chroma pair in degrees,
// in [0, 360). Axis-aligned pairs are answered exactly.
func LabToHue(a, b float64) float64 {
	switch {
	case a >= 0 && b == 0:
		return 0
	case a < 0 && b == 0:
		return 180
	case a == 0 && b > 0:
		return 90
	case a == 0 && b < 0:
		return 270
	}

	var bias float64
	switch {
	case a < 0:
		bias = 180
	case b < 0:
		bias = 360
	}
	return math.Atan(b/a)*180/math.Pi + bias
}
