//go:build windows

package gui

import (
	"context"
	"fmt"
	"image"
	"log"
	"runtime"
	"syscall"
	"time"
	"unsafe"

	"github.com/lxn/win"

	"screen-answerer/crop"
)

// Overlay state shared with the window procedure. One selection runs at a
// time; the pipeline's in-flight guard enforces that.
var (
	overlayHwnd     win.HWND
	overlayImage    *image.RGBA
	isSelecting     bool
	startX, startY  int32
	endX, endY      int32
	selectionResult chan crop.Region
)

// SelectRegion covers the virtual screen with a topmost overlay showing the
// spilled frame, lets the user drag out a rectangle, and returns it in frame
// pixel coordinates. ESC reports cancelled without an error.
func SelectRegion(_ context.Context, framePath string, bounds image.Rectangle, _ *crop.Region) (crop.Region, bool, error) {
	// Win32 message loops are bound to their creating thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	frame, err := crop.LoadTemp(framePath)
	if err != nil {
		return crop.Region{}, false, err
	}
	defer frame.Release()
	img, err := frame.Image()
	if err != nil {
		return crop.Region{}, false, err
	}

	// The overlay spans the virtual screen, so client coordinates line up
	// with the captured frame's pixels.
	vx := win.GetSystemMetrics(win.SM_XVIRTUALSCREEN)
	vy := win.GetSystemMetrics(win.SM_YVIRTUALSCREEN)
	vw := win.GetSystemMetrics(win.SM_CXVIRTUALSCREEN)
	vh := win.GetSystemMetrics(win.SM_CYVIRTUALSCREEN)
	log.Printf("gui: selection overlay at %d,%d %dx%d", vx, vy, vw, vh)

	overlayImage = img
	selectionResult = make(chan crop.Region, 1)
	isSelecting = false
	defer func() { overlayImage = nil }()

	classNameStr := fmt.Sprintf("AnswerOverlay_%d", time.Now().UnixNano())
	className := syscall.StringToUTF16Ptr(classNameStr)
	wndClass := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		Style:         win.CS_HREDRAW | win.CS_VREDRAW,
		LpfnWndProc:   syscall.NewCallback(overlayWndProc),
		HInstance:     win.GetModuleHandle(nil),
		HCursor:       win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_CROSS)),
		HbrBackground: 0,
		LpszClassName: className,
	}
	if win.RegisterClassEx(&wndClass) == 0 {
		return crop.Region{}, false, fmt.Errorf("failed to register overlay window class")
	}
	defer win.UnregisterClass(className)

	overlayHwnd = win.CreateWindowEx(
		win.WS_EX_TOPMOST,
		className,
		syscall.StringToUTF16Ptr("Select the question region, ESC to cancel"),
		win.WS_POPUP|win.WS_VISIBLE,
		vx, vy, vw, vh,
		0, 0, win.GetModuleHandle(nil), nil,
	)
	if overlayHwnd == 0 {
		return crop.Region{}, false, fmt.Errorf("failed to create overlay window")
	}
	defer win.DestroyWindow(overlayHwnd)

	win.ShowWindow(overlayHwnd, win.SW_SHOW)
	win.SetForegroundWindow(overlayHwnd)
	win.SetFocus(overlayHwnd)
	win.UpdateWindow(overlayHwnd)

	var msg win.MSG
	for {
		ret := win.GetMessage(&msg, 0, 0, 0)
		if ret == 0 { // WM_QUIT
			return crop.Region{}, true, nil
		}
		if ret == -1 {
			return crop.Region{}, false, fmt.Errorf("overlay message loop failed")
		}

		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)

		select {
		case region := <-selectionResult:
			return clampToBounds(region, bounds), false, nil
		default:
		}
	}
}

func clampToBounds(r crop.Region, bounds image.Rectangle) crop.Region {
	w := bounds.Dx()
	h := bounds.Dy()
	r.TopLeft.X = clamp(r.TopLeft.X, 0, w)
	r.TopLeft.Y = clamp(r.TopLeft.Y, 0, h)
	r.BottomRight.X = clamp(r.BottomRight.X, 0, w)
	r.BottomRight.Y = clamp(r.BottomRight.Y, 0, h)
	return r
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func overlayWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	switch msg {
	case win.WM_LBUTTONDOWN:
		win.SetCapture(hwnd)
		isSelecting = true
		startX = int32(win.LOWORD(uint32(lParam)))
		startY = int32(win.HIWORD(uint32(lParam)))
		endX, endY = startX, startY
		win.InvalidateRect(hwnd, nil, false)
		win.UpdateWindow(hwnd)
		return 0

	case win.WM_MOUSEMOVE:
		if isSelecting {
			endX = int32(win.LOWORD(uint32(lParam)))
			endY = int32(win.HIWORD(uint32(lParam)))
			win.InvalidateRect(hwnd, nil, false)
			win.UpdateWindow(hwnd)
		}
		return 0

	case win.WM_LBUTTONUP:
		if isSelecting {
			win.ReleaseCapture()
			endX = int32(win.LOWORD(uint32(lParam)))
			endY = int32(win.HIWORD(uint32(lParam)))
			isSelecting = false

			left := min32(startX, endX)
			top := min32(startY, endY)
			right := max32(startX, endX)
			bottom := max32(startY, endY)

			// Ignore accidental clicks; keep the overlay up for another try.
			if right-left > 5 && bottom-top > 5 {
				selectionResult <- crop.Region{
					TopLeft:     crop.Point{X: int(left), Y: int(top)},
					BottomRight: crop.Point{X: int(right), Y: int(bottom)},
				}
			}
		}
		return 0

	case win.WM_PAINT:
		var ps win.PAINTSTRUCT
		hdc := win.BeginPaint(hwnd, &ps)
		if overlayImage != nil {
			drawFrameBackground(hdc)
		}
		if isSelecting {
			drawSelectionRect(hdc)
		}
		win.EndPaint(hwnd, &ps)
		return 0

	case win.WM_KEYDOWN:
		if wParam == win.VK_ESCAPE {
			win.PostQuitMessage(0)
		}
		return 0

	case win.WM_NCHITTEST:
		// Every point is client area so the overlay sees all mouse events.
		return uintptr(win.HTCLIENT)

	case win.WM_DESTROY:
		win.PostQuitMessage(0)
		return 0
	}

	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

// drawFrameBackground blits the spilled frame so the user selects on the
// exact pixels that will be recognized, not the live screen.
func drawFrameBackground(hdc win.HDC) {
	bounds := overlayImage.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	memDC := win.CreateCompatibleDC(hdc)
	defer win.DeleteDC(memDC)

	bitmapInfo := win.BITMAPINFO{
		BmiHeader: win.BITMAPINFOHEADER{
			BiSize:        uint32(unsafe.Sizeof(win.BITMAPINFOHEADER{})),
			BiWidth:       int32(width),
			BiHeight:      -int32(height), // top-down
			BiPlanes:      1,
			BiBitCount:    32,
			BiCompression: win.BI_RGB,
		},
	}

	var pBits unsafe.Pointer
	hBitmap := win.CreateDIBSection(memDC, &bitmapInfo.BmiHeader, win.DIB_RGB_COLORS, &pBits, 0, 0)
	if hBitmap == 0 {
		return
	}
	defer win.DeleteObject(win.HGDIOBJ(hBitmap))

	oldBitmap := win.SelectObject(memDC, win.HGDIOBJ(hBitmap))
	defer win.SelectObject(memDC, oldBitmap)

	// RGBA to BGRA.
	bitmapData := (*[1 << 30]byte)(pBits)[: width*height*4 : width*height*4]
	pix := overlayImage.Pix
	stride := overlayImage.Stride
	for y := 0; y < height; y++ {
		row := pix[y*stride:]
		for x := 0; x < width; x++ {
			s := x * 4
			d := (y*width + x) * 4
			bitmapData[d] = row[s+2]
			bitmapData[d+1] = row[s+1]
			bitmapData[d+2] = row[s]
			bitmapData[d+3] = row[s+3]
		}
	}

	win.BitBlt(hdc, 0, 0, int32(width), int32(height), memDC, 0, 0, win.SRCCOPY)
}

func drawSelectionRect(hdc win.HDC) {
	gdi32 := syscall.NewLazyDLL("gdi32.dll")
	createPen := gdi32.NewProc("CreatePen")
	rectangle := gdi32.NewProc("Rectangle")

	// PS_SOLID, width 3, red in BGR.
	redPen, _, _ := createPen.Call(0, 3, 0x0000FF)
	oldPen := win.SelectObject(hdc, win.HGDIOBJ(redPen))
	oldBrush := win.SelectObject(hdc, win.GetStockObject(win.NULL_BRUSH))

	left := min32(startX, endX)
	top := min32(startY, endY)
	right := max32(startX, endX)
	bottom := max32(startY, endY)
	rectangle.Call(uintptr(hdc), uintptr(left), uintptr(top), uintptr(right), uintptr(bottom))

	win.SelectObject(hdc, oldPen)
	win.SelectObject(hdc, oldBrush)
	win.DeleteObject(win.HGDIOBJ(redPen))
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
