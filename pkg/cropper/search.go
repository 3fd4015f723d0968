package cropper

import (
	"image"
	"math"
)

type side int

const (
	sideNone side = iota
	sideNear
	sideFar
)

// search runs one offset contest. It owns its pixel cache, so nothing
// carries over between calls.
type search struct {
	cache *pixelCache
	axis  Axis
	cfg   CropConfig

	length         int // target size along the cropped axis
	crossLength    int // size of the untouched axis
	originalLength int // source size along the cropped axis
}

func newSearch(src PixelSource, axis Axis, cropSize image.Point, cfg CropConfig) *search {
	s := &search{
		cache: newPixelCache(src, cfg.Metric),
		axis:  axis,
		cfg:   cfg,
	}
	size := src.Size()
	if axis == Vertical {
		s.length, s.crossLength, s.originalLength = cropSize.Y, cropSize.X, size.Y
	} else {
		s.length, s.crossLength, s.originalLength = cropSize.X, cropSize.Y, size.X
	}
	return s
}

// run pits the outermost remaining row on each side against the other,
// discarding the weaker, until enough rows are gone. It returns the number
// of rows to drop from the near edge.
func (s *search) run() int {
	rowsToCrop := s.originalLength - s.length
	step := sampleStep(rowsToCrop, s.crossLength, s.cfg.SampleDivisor, s.cfg.MinSampleStep)

	upperTol := 1 + s.cfg.Tolerance
	lowerTol := 1 / upperTol

	var near, far int
	champion := sideNone
	ratio := 1.0

	for cropped := 0; cropped < rowsToCrop; cropped++ {
		a := s.rowInterest(near, step)
		b := s.rowInterest(s.originalLength-far-1, step)
		ratio = contestRatio(a, b)

		switch {
		case ratio > upperTol:
			far++
			// The winner may walk back over rows it already gave up.
			if champion == sideNear {
				if near > 0 {
					near--
				}
			} else {
				champion = sideNear
			}
		case ratio < lowerTol:
			near++
			if champion == sideFar {
				if far > 0 {
					far--
				}
			} else {
				champion = sideFar
			}
		default:
			// Draw: take from whichever side has lost fewer rows, near on a tie.
			if near > far {
				far++
			} else {
				near++
			}
			champion = sideNone
		}
	}

	near = s.bounceback(near, ratio)
	offset := clampInt(near, 0, rowsToCrop)
	s.cfg.Logger.Printf("smartcrop: axis=%s rows=%d step=%d ratio=%.3f near=%d far=%d offset=%d",
		s.axis, rowsToCrop, step, ratio, near, far, offset)
	return offset
}

// bounceback moves the near offset toward a side that was still clearly
// winning when the contest ended, since detail at that edge is likely cut
// short.
func (s *search) bounceback(near int, ratio float64) int {
	if s.cfg.DisableBounceback {
		return near
	}
	edge := 1 + s.cfg.Tolerance*1.25
	shift := int(math.Round(float64(s.length) * s.cfg.Bounceback))
	switch {
	case ratio > edge:
		return near - shift
	case ratio < 1/edge:
		return near + shift
	}
	return near
}

// rowInterest scores the row (or column) at line by sampling every step-th
// pixel across it. The total is boosted by how far the best sample stands out
// from the average so one strong feature is not diluted by a bland row.
func (s *search) rowInterest(line, step int) float64 {
	var sum, peak float64
	n := 0
	for pos := 0; pos < s.crossLength; pos += step {
		v := s.cache.interest(s.point(line, pos))
		if v > peak {
			peak = v
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	count := float64(n)
	return sum + (peak-sum/count)*count
}

func (s *search) point(line, pos int) image.Point {
	if s.axis == Vertical {
		return image.Pt(pos, line)
	}
	return image.Pt(line, pos)
}

// sampleStep spreads samples across long rows so the work per row grows with
// the size of the crop rather than the image. Small steps still touch most
// neighbors, so below minStep every pixel is sampled.
func sampleStep(rowsToCrop, crossLength int, divisor float64, minStep int) int {
	step := int(math.Round(math.Sqrt(float64(rowsToCrop)*float64(crossLength)) / divisor))
	if step < minStep {
		return 1
	}
	return step
}

// contestRatio is a's score relative to b's. An empty far row loses to any
// detail on the near side.
func contestRatio(a, b float64) float64 {
	switch {
	case a == 0 && b == 0:
		return 1
	case b == 0:
		return 1 + a
	default:
		return a / b
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
