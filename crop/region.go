package crop

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidRegion reports a region with non-positive dimensions or corners
// outside the frame bounds.
var ErrInvalidRegion = errors.New("invalid crop region")

type Point struct {
	X int
	Y int
}

// Region is a rectangular sub-area of a frame, expressed as two corner
// points in source-image pixel coordinates. Regions live in memory only and
// are never persisted.
type Region struct {
	TopLeft     Point
	BottomRight Point
}

func (r Region) Width() int  { return r.BottomRight.X - r.TopLeft.X }
func (r Region) Height() int { return r.BottomRight.Y - r.TopLeft.Y }

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.TopLeft.X, r.TopLeft.Y, r.BottomRight.X, r.BottomRight.Y)
}

// Validate checks that the region has positive width and height and that
// both corners lie within bounds. Bounds are the frame's bounds with the
// origin treated as (0,0).
func (r Region) Validate(bounds image.Rectangle) error {
	w := bounds.Dx()
	h := bounds.Dy()
	if r.Width() <= 0 || r.Height() <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidRegion, r.Width(), r.Height())
	}
	if r.TopLeft.X < 0 || r.TopLeft.Y < 0 || r.BottomRight.X > w || r.BottomRight.Y > h {
		return fmt.Errorf("%w: %s outside %dx%d frame", ErrInvalidRegion, r, w, h)
	}
	return nil
}

// DefaultRegion returns the centered region covering 80% of the frame, used
// to pre-fill a first-time selection prompt.
func DefaultRegion(bounds image.Rectangle) Region {
	w := bounds.Dx()
	h := bounds.Dy()
	return Region{
		TopLeft:     Point{X: w / 10, Y: h / 10},
		BottomRight: Point{X: w - w/10, Y: h - h/10},
	}
}
