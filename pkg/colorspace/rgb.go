package colorspace

import "image/color"

// FromPacked unpacks a 0xAARRGGBB integer. Alpha here is transparency, so
// every channel is scaled by (255 - alpha) / 255: alpha 0 leaves the color
// untouched and alpha 255 yields black.
func FromPacked(v uint32) RGB {
	scale := float64(255-((v>>24)&0xFF)) / 255
	return RGB{
		R: float64((v>>16)&0xFF) * scale,
		G: float64((v>>8)&0xFF) * scale,
		B: float64(v&0xFF) * scale,
	}
}

// PackARGB is the inverse layout of FromPacked.
func PackARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// FromColor returns the non-premultiplied 8-bit channels of c.
func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return NewRGB(n.R, n.G, n.B)
}

// PackedToHunterLab converts a packed color straight to Hunter Lab.
func PackedToHunterLab(v uint32) Lab {
	return xyzToHunterLab(rgbToXYZ(FromPacked(v)))
}
