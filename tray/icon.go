package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
)

var (
	iconOnce  sync.Once
	iconBytes []byte
)

// iconData renders a simple 16x16 framed square. Windows would prefer an
// ICO resource; systray accepts PNG on the other platforms and falls back
// to a default icon when it cannot decode.
func iconData() []byte {
	iconOnce.Do(func() {
		img := image.NewRGBA(image.Rect(0, 0, 16, 16))
		frame := color.RGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0xff}
		for i := 2; i < 14; i++ {
			img.Set(i, 2, frame)
			img.Set(i, 13, frame)
			img.Set(2, i, frame)
			img.Set(13, i, frame)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return
		}
		iconBytes = buf.Bytes()
	})
	return iconBytes
}
