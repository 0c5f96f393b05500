package crop

import "sync"

// Plan tells the caller what to do with a freshly captured frame.
type Plan struct {
	// Prompt is true when the user must select a region interactively.
	Prompt bool
	// Hint pre-fills the selection prompt; nil when there is no prior
	// selection to suggest.
	Hint *Region
	// Region is applied directly without a prompt; nil means the frame is
	// used whole.
	Region *Region
}

// Planner tracks region selections across captures within one answer
// session. A new session gets a fresh planner (or Reset). Safe for
// concurrent use: Reset may arrive from the UI while an attempt is between
// Plan and Confirm.
type Planner struct {
	mode Mode

	mu     sync.Mutex
	cached *Region // OnceThenReuse: confirmed region, reused until Reset
	last   *Region // EachTime: previous selection, offered as a hint
}

func NewPlanner(mode Mode) *Planner {
	return &Planner{mode: mode}
}

func (p *Planner) Mode() Mode { return p.mode }

// Plan decides whether the next capture needs a prompt.
func (p *Planner) Plan() Plan {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.mode {
	case ModeEachTime:
		return Plan{Prompt: true, Hint: p.last}
	case ModeOnceThenReuse:
		if p.cached != nil {
			return Plan{Region: p.cached}
		}
		return Plan{Prompt: true}
	default:
		return Plan{}
	}
}

// Confirm records a user-confirmed selection according to the mode's caching
// policy. Never called on cancel, so cached state survives aborted attempts.
func (p *Planner) Confirm(region Region) {
	r := region
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.mode {
	case ModeEachTime:
		p.last = &r
	case ModeOnceThenReuse:
		p.cached = &r
	}
}

// Reset clears all remembered regions. Called when a new answer session
// starts.
func (p *Planner) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cached = nil
	p.last = nil
}
