package crop

import "fmt"

// Mode selects how much of a captured frame is fed to text recognition.
type Mode int

const (
	// ModeFull uses every frame whole, no region selection.
	ModeFull Mode = iota
	// ModeEachTime prompts for a region on every capture, pre-filling the
	// previous selection as a hint.
	ModeEachTime
	// ModeOnceThenReuse prompts once per session, then silently reuses the
	// confirmed region until the session restarts.
	ModeOnceThenReuse
)

func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeEachTime:
		return "each"
	case ModeOnceThenReuse:
		return "once"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "full":
		return ModeFull, nil
	case "each":
		return ModeEachTime, nil
	case "once":
		return ModeOnceThenReuse, nil
	}
	return ModeFull, fmt.Errorf("unknown crop mode %q", s)
}
