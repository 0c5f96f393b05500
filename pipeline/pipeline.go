package pipeline

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"
	"time"

	"screen-answerer/crop"
	"screen-answerer/llm"
	"screen-answerer/ocr"
)

// ErrSelectionCancelled means the user dismissed the region prompt. The
// attempt is aborted without touching cached crop state.
var ErrSelectionCancelled = errors.New("region selection cancelled")

// CaptureSource produces one still frame per request.
type CaptureSource interface {
	CaptureOnce(ctx context.Context) (*crop.Frame, error)
	ReleaseAll()
}

// Answerer turns question text plus answer settings into a structured
// answer.
type Answerer interface {
	Analyze(ctx context.Context, text string, questionTypes []string, scope string) (llm.Answer, error)
}

// RegionSelector prompts the user for a crop region. The frame is spilled
// to framePath for the selection UI; hint pre-fills the prompt. cancelled
// reports the user dismissing the prompt.
type RegionSelector func(ctx context.Context, framePath string, bounds image.Rectangle, hint *crop.Region) (region crop.Region, cancelled bool, err error)

// HintSelector confirms the pre-filled hint without user interaction. Used
// where no interactive selection surface exists (resident mode without a
// GUI).
func HintSelector(_ context.Context, _ string, bounds image.Rectangle, hint *crop.Region) (crop.Region, bool, error) {
	if hint != nil {
		return *hint, false, nil
	}
	return crop.DefaultRegion(bounds), false, nil
}

// Presenter receives status updates, recognized text awaiting confirmation,
// and final formatted answers. The pipeline knows nothing about rendering.
type Presenter interface {
	ShowStatus(status Status)
	ClearStatus()
	ShowAnswer(text string)
	ClearAnswer()
	ShowRecognizedText(text string)
}

// ClipboardSink copies text, invoked per the auto-copy setting.
type ClipboardSink interface {
	Write(text string) error
}

// Settings is the synchronous key-value configuration surface read at each
// attempt, so setting changes take effect on the next question.
type Settings interface {
	AutoSubmit() bool
	AutoCopy() bool
	ShowQuestion() bool
	ShowOptions() bool
	QuestionTypes() []string
	QuestionScope() string
}

// Config wires the pipeline's collaborators. All of them are owned by the
// pipeline's lifetime scope and injected here; there is no ambient state.
type Config struct {
	Capture      CaptureSource
	Extractor    ocr.Extractor
	Answerer     Answerer
	SelectRegion RegionSelector
	Clipboard    ClipboardSink
	Presenter    Presenter
	Settings     Settings
	CropMode     crop.Mode
	TempDir      string

	// Status visibility overrides; zero selects the 2s/5s defaults.
	InfoStatusVisible  time.Duration
	ErrorStatusVisible time.Duration
}

// Pipeline sequences capture, crop, recognition and answer fetch for one
// logical answer session. Attempts are single-flight: a trigger while an
// attempt is running is refused.
type Pipeline struct {
	cfg     Config
	planner *crop.Planner

	mu        sync.Mutex
	state     State
	busy      bool
	closed    bool
	statusGen uint64
	answer    string
}

func New(cfg Config) *Pipeline {
	if cfg.SelectRegion == nil {
		cfg.SelectRegion = HintSelector
	}
	if cfg.InfoStatusVisible <= 0 {
		cfg.InfoStatusVisible = defaultInfoVisible
	}
	if cfg.ErrorStatusVisible <= 0 {
		cfg.ErrorStatusVisible = defaultErrorVisible
	}
	return &Pipeline{
		cfg:     cfg,
		planner: crop.NewPlanner(cfg.CropMode),
	}
}

// State reports the current attempt stage.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Answer reports the currently displayed answer, empty when none.
func (p *Pipeline) Answer() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.answer
}

// ResetSession starts a new answer session: cached crop regions are
// forgotten, so the next capture prompts again where the mode requires it.
// Safe to call while an attempt is in flight; the planner synchronizes.
func (p *Pipeline) ResetSession() {
	p.planner.Reset()
}

// Trigger starts one capture-to-answer attempt. Returns immediately; the
// attempt runs on its own goroutine. A trigger while an attempt is in
// flight only publishes a busy status.
func (p *Pipeline) Trigger(ctx context.Context) {
	if !p.begin() {
		return
	}
	go func() {
		defer p.finish()
		p.runAttempt(ctx)
	}()
}

// ConfirmText re-enters the pipeline with user-confirmed question text,
// starting directly at the answer fetch. Used when auto-submit is off and
// the user edited or approved the recognized text.
func (p *Pipeline) ConfirmText(ctx context.Context, text string) {
	if !p.begin() {
		return
	}
	go func() {
		defer p.finish()
		p.fetch(ctx, text)
	}()
}

// Shutdown tears the pipeline down. Outstanding stage completions are
// ignored via the relevance guard rather than forcibly aborted.
func (p *Pipeline) Shutdown() {
	p.mu.Lock()
	p.closed = true
	p.statusGen++ // orphan any pending status expiry
	p.mu.Unlock()
	p.cfg.Capture.ReleaseAll()
}

func (p *Pipeline) begin() bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false
	}
	if p.busy {
		p.mu.Unlock()
		p.publish(statusBusy, SeverityError)
		return false
	}
	p.busy = true
	p.mu.Unlock()
	return true
}

func (p *Pipeline) finish() {
	p.mu.Lock()
	p.state = StateIdle
	p.busy = false
	p.mu.Unlock()
}

func (p *Pipeline) runAttempt(ctx context.Context) {
	// Whatever the previous question showed is stale now.
	p.setAnswer("")
	p.present(func(pr Presenter) { pr.ClearAnswer() })

	p.setState(StateCapturing)
	p.show(statusCapturing, SeverityInfo)
	frame, err := p.cfg.Capture.CaptureOnce(ctx)
	if err != nil {
		p.fail(err)
		return
	}

	frame, err = p.applyCrop(ctx, frame)
	if err != nil {
		if errors.Is(err, ErrSelectionCancelled) {
			p.present(func(pr Presenter) { pr.ClearStatus() })
			return
		}
		p.fail(err)
		return
	}

	p.setState(StateRecognizing)
	p.show(statusRecognizing, SeverityInfo)
	text, err := p.cfg.Extractor.Recognize(ctx, frame)
	frame.Release()
	if err != nil {
		p.fail(err)
		return
	}

	p.setState(StateRoutingAnswer)
	if p.cfg.Settings.AutoSubmit() {
		p.fetch(ctx, text)
		return
	}

	// Confirmation is a separate user-initiated re-entry via ConfirmText;
	// this attempt is done.
	p.publish(statusRecognized, SeverityInfo)
	p.present(func(pr Presenter) { pr.ShowRecognizedText(text) })
}

// applyCrop routes the frame through the crop planner: pass-through, cached
// region, or interactive prompt. The input frame is always released here;
// the returned frame is a fresh one the caller owns.
func (p *Pipeline) applyCrop(ctx context.Context, frame *crop.Frame) (*crop.Frame, error) {
	plan := p.planner.Plan()
	if !plan.Prompt {
		if plan.Region == nil {
			return frame, nil
		}
		cropped, err := frame.Crop(*plan.Region)
		frame.Release()
		return cropped, err
	}

	// A stage message like the others: it stays up for as long as the user
	// is selecting and is replaced, not expired, by the next stage.
	p.setState(StateCropping)
	p.show(statusSelectRegion, SeverityInfo)

	bounds := frame.Bounds()
	path, err := crop.SaveTemp(frame, p.cfg.TempDir)
	frame.Release()
	if err != nil {
		return nil, err
	}
	defer crop.DeleteTemp(path)

	hint := plan.Hint
	if hint == nil {
		d := crop.DefaultRegion(bounds)
		hint = &d
	}

	region, cancelled, err := p.cfg.SelectRegion(ctx, path, bounds, hint)
	if err != nil {
		return nil, err
	}
	if cancelled {
		return nil, ErrSelectionCancelled
	}
	if err := region.Validate(bounds); err != nil {
		return nil, err
	}
	p.planner.Confirm(region)

	reloaded, err := crop.LoadTemp(path)
	if err != nil {
		return nil, err
	}
	cropped, err := reloaded.Crop(region)
	reloaded.Release()
	return cropped, err
}

func (p *Pipeline) fetch(ctx context.Context, text string) {
	p.setState(StateFetchingAnswer)
	p.show(statusFetching, SeverityInfo)

	answer, err := p.cfg.Answerer.Analyze(ctx, text, p.cfg.Settings.QuestionTypes(), p.cfg.Settings.QuestionScope())
	if err != nil {
		p.fail(err)
		return
	}

	formatted := answer.Format(p.cfg.Settings.ShowQuestion(), p.cfg.Settings.ShowOptions())
	copied := false
	if p.cfg.Settings.AutoCopy() && p.cfg.Clipboard != nil {
		if err := p.cfg.Clipboard.Write(formatted); err != nil {
			log.Printf("pipeline: clipboard write failed: %v", err)
		} else {
			copied = true
		}
	}

	p.setAnswer(formatted)
	p.present(func(pr Presenter) { pr.ShowAnswer(formatted) })
	if copied {
		p.publish(statusAnswerCopied, SeverityInfo)
	} else {
		p.publish(statusAnswerReady, SeverityInfo)
	}
}

func (p *Pipeline) fail(err error) {
	log.Printf("pipeline: attempt failed: %v", err)
	p.publish(statusForError(err), SeverityError)
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *Pipeline) setAnswer(text string) {
	p.mu.Lock()
	p.answer = text
	p.mu.Unlock()
}

// present runs a presenter call only while the pipeline is alive, so late
// completions after Shutdown never touch a torn-down surface.
func (p *Pipeline) present(fn func(Presenter)) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed || p.cfg.Presenter == nil {
		return
	}
	fn(p.cfg.Presenter)
}

// show overwrites the status slot and returns this status' generation.
// In-progress stage messages stay until replaced; terminal messages go
// through publish, which also schedules expiry.
func (p *Pipeline) show(text string, severity Severity) uint64 {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return 0
	}
	p.statusGen++
	gen := p.statusGen
	p.mu.Unlock()

	p.present(func(pr Presenter) { pr.ShowStatus(Status{Text: text, Severity: severity}) })
	return gen
}

// publish shows a terminal status and schedules its auto-expiry. The
// generation counter implements last-status-wins: the timer only clears the
// slot when no newer status has been published since, so an overwritten
// status never clears its successor.
func (p *Pipeline) publish(text string, severity Severity) {
	gen := p.show(text, severity)
	if gen == 0 {
		return
	}

	visible := p.cfg.InfoStatusVisible
	if severity == SeverityError {
		visible = p.cfg.ErrorStatusVisible
	}
	time.AfterFunc(visible, func() {
		p.mu.Lock()
		stale := p.closed || gen != p.statusGen
		p.mu.Unlock()
		if !stale {
			p.present(func(pr Presenter) { pr.ClearStatus() })
		}
	})
}
