package crop

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
)

// ErrFrameReleased reports use of a frame after its pixel buffer was given
// back.
var ErrFrameReleased = errors.New("frame already released")

// Frame is one captured screen image. Whoever holds the Frame owns the pixel
// buffer and must call Release when done with it; the capture session does
// not keep a reference.
type Frame struct {
	img *image.RGBA
}

func NewFrame(img *image.RGBA) *Frame {
	return &Frame{img: img}
}

func (f *Frame) Released() bool { return f.img == nil }

// Release gives up the pixel buffer. Further use of the frame fails with
// ErrFrameReleased. Safe to call more than once.
func (f *Frame) Release() {
	f.img = nil
}

func (f *Frame) Bounds() image.Rectangle {
	if f.img == nil {
		return image.Rectangle{}
	}
	return f.img.Bounds()
}

// Image returns the underlying raster. The frame retains ownership.
func (f *Frame) Image() (*image.RGBA, error) {
	if f.img == nil {
		return nil, ErrFrameReleased
	}
	return f.img, nil
}

// Crop copies the region out of the frame into a new frame. The source frame
// stays valid; pixel (0,0) of the result is pixel (region.TopLeft) of the
// source.
func (f *Frame) Crop(region Region) (*Frame, error) {
	src, err := f.Image()
	if err != nil {
		return nil, err
	}
	if err := region.Validate(src.Bounds()); err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, region.Width(), region.Height()))
	origin := src.Bounds().Min.Add(image.Pt(region.TopLeft.X, region.TopLeft.Y))
	draw.Draw(dst, dst.Bounds(), src, origin, draw.Src)
	return NewFrame(dst), nil
}

// EncodePNG renders the frame as PNG bytes.
func (f *Frame) EncodePNG() ([]byte, error) {
	src, err := f.Image()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return nil, fmt.Errorf("failed to encode frame as PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePNG reads a PNG stream into a frame.
func DecodePNG(r io.Reader) (*Frame, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	return NewFrame(rgba), nil
}
