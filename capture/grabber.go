package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// systemGrabber reads pixels from the real displays.
type systemGrabber struct{}

func (systemGrabber) Bounds() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays found")
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	return union, nil
}

func (systemGrabber) Grab(bounds image.Rectangle) (*image.RGBA, error) {
	return screenshot.CaptureRect(bounds)
}
