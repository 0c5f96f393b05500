//go:build !windows

package gui

import (
	"context"
	"image"

	"screen-answerer/crop"
)

// SelectRegion has no overlay surface off Windows; the hint is confirmed
// as-is so the crop modes still function headless.
func SelectRegion(_ context.Context, _ string, bounds image.Rectangle, hint *crop.Region) (crop.Region, bool, error) {
	if hint != nil {
		return *hint, false, nil
	}
	return crop.DefaultRegion(bounds), false, nil
}
