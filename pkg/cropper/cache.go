package cropper

import (
	"image"

	"github.com/menta2k/smart-crop/pkg/colorspace"
)

// neighborhood lists the eight neighbors of a pixel in scan order.
var neighborhood = [8]image.Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// forward is the half of the neighborhood whose distances a pixel record
// owns. Every unordered neighbor pair has exactly one member for which the
// other lies in this set.
var forward = [4]image.Point{{1, -1}, {1, 0}, {1, 1}, {0, 1}}

func forwardSlot(d image.Point) int {
	for i, f := range forward {
		if f == d {
			return i
		}
	}
	return -1
}

type pixelRecord struct {
	lab      colorspace.Lab
	deltas   [4]float64
	known    uint8
	interest float64
	scored   bool
}

// pixelCache lazily computes Lab colors, neighbor distances and
// interestingness for the pixels a single search touches.
type pixelCache struct {
	src     PixelSource
	bounds  image.Rectangle
	metric  colorspace.DistanceFunc
	records map[image.Point]*pixelRecord
}

func newPixelCache(src PixelSource, metric colorspace.DistanceFunc) *pixelCache {
	return &pixelCache{
		src:     src,
		bounds:  image.Rectangle{Max: src.Size()},
		metric:  metric,
		records: make(map[image.Point]*pixelRecord),
	}
}

func (c *pixelCache) record(p image.Point) *pixelRecord {
	if r, ok := c.records[p]; ok {
		return r
	}
	r := &pixelRecord{lab: colorspace.HunterLab8(c.src.RGB(p.X, p.Y))}
	c.records[p] = r
	return r
}

// delta returns the distance between p and its in-bounds neighbor p+d,
// computing it on first use.
func (c *pixelCache) delta(p, d image.Point) float64 {
	owner, slot := p, forwardSlot(d)
	if slot < 0 {
		owner, slot = p.Add(d), forwardSlot(image.Pt(-d.X, -d.Y))
	}

	rec := c.record(owner)
	if rec.known&(1<<slot) == 0 {
		other := c.record(owner.Add(forward[slot]))
		rec.deltas[slot] = c.metric(rec.lab, other.lab)
		rec.known |= 1 << slot
	}
	return rec.deltas[slot]
}

// interest is the mean distance between p and its in-bounds neighbors.
func (c *pixelCache) interest(p image.Point) float64 {
	rec := c.record(p)
	if rec.scored {
		return rec.interest
	}

	var sum float64
	n := 0
	for _, d := range neighborhood {
		if !p.Add(d).In(c.bounds) {
			continue
		}
		sum += c.delta(p, d)
		n++
	}
	if n > 0 {
		rec.interest = sum / float64(n)
	}
	rec.scored = true
	return rec.interest
}
