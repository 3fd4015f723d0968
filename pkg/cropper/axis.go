package cropper

import (
	"fmt"
	"image"
)

// Axis is the direction a crop removes pixels along.
type Axis int

const (
	// AxisNone means the crop keeps the whole image.
	AxisNone Axis = iota
	// Vertical crops remove rows from the top and bottom.
	Vertical
	// Horizontal crops remove columns from the left and right.
	Horizontal
)

func (a Axis) String() string {
	switch a {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return "none"
	}
}

// ResolveAxis validates a crop request and reports which axis it crops.
// Only one axis may be cropped per request.
func ResolveAxis(imageSize, cropSize image.Point) (Axis, error) {
	if cropSize.X <= 0 || cropSize.Y <= 0 {
		return AxisNone, fmt.Errorf("%w: crop size %dx%d must be positive", ErrInvalidInput, cropSize.X, cropSize.Y)
	}
	if cropSize.X > imageSize.X || cropSize.Y > imageSize.Y {
		return AxisNone, fmt.Errorf("%w: crop size %dx%d is too big for image %dx%d",
			ErrInvalidInput, cropSize.X, cropSize.Y, imageSize.X, imageSize.Y)
	}

	switch {
	case cropSize == imageSize:
		return AxisNone, nil
	case cropSize.X == imageSize.X:
		return Vertical, nil
	case cropSize.Y == imageSize.Y:
		return Horizontal, nil
	default:
		return AxisNone, fmt.Errorf("%w: can crop either top and bottom or left and right, not both (%dx%d to %dx%d)",
			ErrInvalidInput, imageSize.X, imageSize.Y, cropSize.X, cropSize.Y)
	}
}
