// Package tray hosts the resident system tray menu. It is the manual
// trigger surface next to the global hotkey.
package tray

import (
	"log"

	"github.com/getlantern/systray"

	"screen-answerer/config"
)

const appTitle = "Screen Answerer"

// Options wires menu actions to the rest of the application.
type Options struct {
	Settings  *config.Store
	OnCapture func()
	OnReset   func()
	OnQuit    func()
}

// Run blocks until Quit is chosen. Callers run it on the main goroutine
// because some platforms require the tray loop there.
func Run(opts Options) {
	systray.Run(func() { onReady(opts) }, func() { onExit(opts) })
}

// Quit asks the tray loop to exit, used when shutdown starts elsewhere
// (signal handler).
func Quit() {
	systray.Quit()
}

func onReady(opts Options) {
	systray.SetIcon(iconData())
	systray.SetTitle(appTitle)
	systray.SetTooltip(appTitle)

	mCapture := systray.AddMenuItem("Answer Screen Question", "Capture the screen and fetch an answer")
	mReset := systray.AddMenuItem("New Session", "Forget remembered crop regions")
	systray.AddSeparator()
	mAutoSubmit := systray.AddMenuItemCheckbox("Auto Submit", "Send recognized text without confirmation", opts.Settings.AutoSubmit())
	mAutoCopy := systray.AddMenuItemCheckbox("Auto Copy Answer", "Copy the formatted answer to the clipboard", opts.Settings.AutoCopy())
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit the application")

	go func() {
		for {
			select {
			case <-mCapture.ClickedCh:
				log.Printf("tray: capture requested")
				opts.OnCapture()
			case <-mReset.ClickedCh:
				log.Printf("tray: new session requested")
				if opts.OnReset != nil {
					opts.OnReset()
				}
			case <-mAutoSubmit.ClickedCh:
				next := !mAutoSubmit.Checked()
				opts.Settings.SetAutoSubmit(next)
				if next {
					mAutoSubmit.Check()
				} else {
					mAutoSubmit.Uncheck()
				}
			case <-mAutoCopy.ClickedCh:
				next := !mAutoCopy.Checked()
				opts.Settings.SetAutoCopy(next)
				if next {
					mAutoCopy.Check()
				} else {
					mAutoCopy.Uncheck()
				}
			case <-mQuit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}

func onExit(opts Options) {
	if opts.OnQuit != nil {
		opts.OnQuit()
	}
}
