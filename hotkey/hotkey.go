// Package hotkey registers a global key combination that triggers an
// answer attempt regardless of the focused application.
package hotkey

import (
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Listen watches for the configured combination (e.g. "Ctrl+Alt+Q") and
// invokes callback each time every key in it is held down at once. It
// returns immediately; the event loop runs on its own goroutine.
func Listen(combo string, callback func()) {
	keys := parseCombo(combo)

	type keyState struct {
		name     string
		rawcodes []uint16
		pressed  bool
	}

	var states []keyState
	for _, name := range keys {
		rawcodes := rawcodesFor(name)
		if len(rawcodes) == 0 {
			log.Printf("hotkey: unknown key %q in combination %q", name, combo)
			continue
		}
		states = append(states, keyState{name: name, rawcodes: rawcodes})
	}
	if len(states) == 0 {
		log.Printf("hotkey: no usable keys in combination %q", combo)
		return
	}

	log.Printf("hotkey: listening for %s", combo)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("hotkey: listener panic: %v", r)
			}
		}()

		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("hotkey: event hook unavailable")
			return
		}

		var mu sync.Mutex
		for ev := range evChan {
			switch ev.Kind {
			case gohook.KeyDown:
				mu.Lock()
				for i := range states {
					if matches(states[i].rawcodes, ev.Rawcode) {
						states[i].pressed = true
					}
				}
				all := true
				for i := range states {
					if !states[i].pressed {
						all = false
						break
					}
				}
				if all {
					for i := range states {
						states[i].pressed = false
					}
					mu.Unlock()
					log.Printf("hotkey: %s activated", combo)
					if callback != nil {
						callback()
					}
					continue
				}
				mu.Unlock()
			case gohook.KeyUp:
				mu.Lock()
				for i := range states {
					if matches(states[i].rawcodes, ev.Rawcode) {
						states[i].pressed = false
					}
				}
				mu.Unlock()
			}
		}
		log.Printf("hotkey: event channel closed")
	}()
}

// Stop tears down the global hook.
func Stop() {
	gohook.End()
}

func matches(rawcodes []uint16, code uint16) bool {
	for _, rc := range rawcodes {
		if rc == code {
			return true
		}
	}
	return false
}

// parseCombo splits "Ctrl+Alt+Q" into normalized lowercase key names.
func parseCombo(combo string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(combo), "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch part {
		case "win", "cmd", "super":
			keys = append(keys, "cmd")
		default:
			keys = append(keys, part)
		}
	}
	return keys
}

// rawcodeTable maps key names to Windows virtual-key rawcodes; modifiers
// list both left and right variants.
var rawcodeTable = map[string][]uint16{
	"ctrl":  {162, 163},
	"alt":   {164, 165},
	"shift": {160, 161},
	"cmd":   {91, 92},

	"space":     {32},
	"enter":     {13},
	"return":    {13},
	"esc":       {27},
	"escape":    {27},
	"tab":       {9},
	"backspace": {8},
	"delete":    {46},
	"del":       {46},
	"insert":    {45},
	"ins":       {45},
	"home":      {36},
	"end":       {35},
	"pageup":    {33},
	"pgup":      {33},
	"pagedown":  {34},
	"pgdn":      {34},
	"left":      {37},
	"up":        {38},
	"right":     {39},
	"down":      {40},
}

func rawcodesFor(name string) []uint16 {
	name = strings.ToLower(strings.TrimSpace(name))
	if codes, ok := rawcodeTable[name]; ok {
		return codes
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c - 'a' + 'A')}
		case c >= '0' && c <= '9':
			return []uint16{uint16(c)}
		}
	}
	// Function keys F1..F24 map to VK codes 112..135.
	if strings.HasPrefix(name, "f") && len(name) > 1 {
		n := 0
		for _, r := range name[1:] {
			if r < '0' || r > '9' {
				return nil
			}
			n = n*10 + int(r-'0')
		}
		if n >= 1 && n <= 24 {
			return []uint16{uint16(111 + n)}
		}
	}
	return nil
}
