//go:build windows

package notify

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	MB_OK          = 0x00000000
	MB_ICONERROR   = 0x00000010
	MB_SYSTEMMODAL = 0x00001000
)

var (
	user32          = windows.NewLazySystemDLL("user32.dll")
	procMessageBoxW = user32.NewProc("MessageBoxW")
)

func showBlockingDialog(title, message string) {
	titlePtr, _ := syscall.UTF16PtrFromString(title)
	messagePtr, _ := syscall.UTF16PtrFromString(message)

	procMessageBoxW.Call(
		0, // no parent window
		uintptr(unsafe.Pointer(messagePtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		uintptr(MB_OK|MB_ICONERROR|MB_SYSTEMMODAL),
	)
}
