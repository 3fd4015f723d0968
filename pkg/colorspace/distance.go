package colorspace

import (
	"fmt"
	"math"
	"strings"
)

// DistanceFunc measures the perceptual difference between two Lab colors.
type DistanceFunc func(x, y Lab) float64

// DeltaE76 is the Euclidean distance over (L, a, b).
func DeltaE76(x, y Lab) float64 {
	dl := x.L - y.L
	da := x.A - y.A
	db := x.B - y.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// DeltaE2000 is CIEDE2000 with unit weighting factors.
func DeltaE2000(x, y Lab) float64 {
	return DeltaE2000Weighted(x, y, 1, 1, 1)
}

// pow25to7 is 25^7, the chroma normalisation constant of CIEDE2000.
const pow25to7 = 6103515625.0

// DeltaE2000Weighted computes CIEDE2000 following Sharma, Wu and Dalal (2005)
// with lightness, chroma and hue weights kL, kC and kH. Degenerate inputs
// yield 0 instead of NaN.
func DeltaE2000Weighted(x, y Lab, kL, kC, kH float64) float64 {
	c1 := math.Hypot(x.A, x.B)
	c2 := math.Hypot(y.A, y.B)
	cMean7 := math.Pow((c1+c2)/2, 7)
	g := 0.5 * (1 - math.Sqrt(cMean7/(cMean7+pow25to7)))

	a1 := (1 + g) * x.A
	a2 := (1 + g) * y.A
	c1p := math.Hypot(a1, x.B)
	c2p := math.Hypot(a2, y.B)
	h1p := LabToHue(a1, x.B)
	h2p := LabToHue(a2, y.B)

	dLp := y.L - x.L
	dCp := c2p - c1p

	var dhp float64
	if c1p*c2p != 0 {
		dhp = h2p - h1p
		switch {
		case dhp > 180:
			dhp -= 360
		case dhp < -180:
			dhp += 360
		}
	}
	dHp := 2 * math.Sqrt(c1p*c2p) * math.Sin(deg2rad(dhp/2))

	lMean := (x.L + y.L) / 2
	cpMean := (c1p + c2p) / 2

	hpMean := h1p + h2p
	if c1p*c2p != 0 {
		switch {
		case math.Abs(h1p-h2p) <= 180:
			hpMean /= 2
		case hpMean < 360:
			hpMean = (hpMean + 360) / 2
		default:
			hpMean = (hpMean - 360) / 2
		}
	}

	t := 1 - 0.17*math.Cos(deg2rad(hpMean-30)) +
		0.24*math.Cos(deg2rad(2*hpMean)) +
		0.32*math.Cos(deg2rad(3*hpMean+6)) -
		0.20*math.Cos(deg2rad(4*hpMean-63))

	dTheta := 30 * math.Exp(-math.Pow((hpMean-275)/25, 2))
	cpMean7 := math.Pow(cpMean, 7)
	rc := 2 * math.Sqrt(cpMean7/(cpMean7+pow25to7))
	l50 := (lMean - 50) * (lMean - 50)
	sl := 1 + 0.015*l50/math.Sqrt(20+l50)
	sc := 1 + 0.045*cpMean
	sh := 1 + 0.015*cpMean*t
	rt := -math.Sin(deg2rad(2*dTheta)) * rc

	lTerm := dLp / (kL * sl)
	cTerm := dCp / (kC * sc)
	hTerm := dHp / (kH * sh)

	return finite(math.Sqrt(lTerm*lTerm + cTerm*cTerm + hTerm*hTerm + rt*cTerm*hTerm))
}

// DeltaCMC is CMC l:c with the usual acceptability weighting 2:1. The metric
// is not symmetric: x is the reference color.
func DeltaCMC(x, y Lab) float64 {
	return DeltaCMCWeighted(x, y, 2, 1)
}

// DeltaCMCWeighted computes CMC l:c, where l weights lightness and c chroma.
func DeltaCMCWeighted(x, y Lab, l, c float64) float64 {
	c1 := math.Hypot(x.A, x.B)
	c2 := math.Hypot(y.A, y.B)
	c14 := c1 * c1 * c1 * c1
	f := math.Sqrt(c14 / (c14 + 1900))
	h1 := LabToHue(x.A, x.B)

	var t float64
	if h1 >= 164 && h1 <= 345 {
		t = 0.56 + math.Abs(0.2*math.Cos(deg2rad(h1+168)))
	} else {
		t = 0.36 + math.Abs(0.4*math.Cos(deg2rad(h1+35)))
	}

	sl := 0.511
	if x.L >= 16 {
		sl = 0.040975 * x.L / (1 + 0.01765*x.L)
	}
	sc := 0.0638*c1/(1+0.0131*c1) + 0.638
	sh := sc * (f*t + 1 - f)

	dl := y.L - x.L
	dc := c2 - c1
	da := y.A - x.A
	db := y.B - x.B
	// Rounding can push the hue term slightly below zero for near-equal chroma.
	dh2 := math.Max(0, da*da+db*db-dc*dc)

	lTerm := dl / (l * sl)
	cTerm := dc / (c * sc)
	return finite(math.Sqrt(lTerm*lTerm + cTerm*cTerm + dh2/(sh*sh)))
}

// MetricByName resolves a distance function from its configuration name.
func MetricByName(name string) (DistanceFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "euclidean", "cie76", "deltae76":
		return DeltaE76, nil
	case "ciede2000", "deltae2000":
		return DeltaE2000, nil
	case "cmc":
		return DeltaCMC, nil
	default:
		return nil, fmt.Errorf("%w: unknown distance metric %q", ErrInvalidInput, name)
	}
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
