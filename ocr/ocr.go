package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"screen-answerer/crop"
)

var (
	// ErrNoTextFound means recognition succeeded but produced only blank
	// text. Callers treat this as a failure, not an empty success.
	ErrNoTextFound = errors.New("no text found in frame")
	// ErrEngine wraps internal engine failures.
	ErrEngine = errors.New("text recognition engine failed")
	// ErrCancelled means the call's context ended before recognition did.
	ErrCancelled = errors.New("text recognition cancelled")
)

// Extractor converts one frame into recognized text.
type Extractor interface {
	Recognize(ctx context.Context, frame *crop.Frame) (string, error)
}

// Engine wraps one long-lived tesseract client. Constructing the client is
// expensive, so a single Engine is shared across all captures and closed on
// shutdown. The client is not safe for concurrent use; a mutex serializes
// recognitions.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
	closed bool

	// text runs OCR on PNG bytes; swapped out in tests.
	text func(png []byte) (string, error)
}

// NewEngine creates the recognition engine. Languages default to English
// when none are given.
func NewEngine(languages ...string) (*Engine, error) {
	client := gosseract.NewClient()
	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("%w: set languages %v: %v", ErrEngine, languages, err)
		}
	}
	e := &Engine{client: client}
	e.text = e.clientText
	return e, nil
}

func (e *Engine) clientText(png []byte) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return "", fmt.Errorf("%w: engine closed", ErrEngine)
	}
	if err := e.client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("%w: set image: %v", ErrEngine, err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEngine, err)
	}
	return text, nil
}

type completion struct {
	text string
	err  error
}

// Recognize extracts text from the frame. Blank output fails with
// ErrNoTextFound; a context ending first fails with ErrCancelled. The
// pending call resolves exactly once even when the engine reports a result
// after cancellation.
func (e *Engine) Recognize(ctx context.Context, frame *crop.Frame) (string, error) {
	data, err := frame.EncodePNG()
	if err != nil {
		return "", err
	}

	done := make(chan completion, 1)
	var once sync.Once
	resolve := func(text string, err error) {
		once.Do(func() { done <- completion{text: text, err: err} })
	}

	go func() {
		text, err := e.text(data)
		resolve(text, err)
	}()

	var c completion
	select {
	case c = <-done:
	case <-ctx.Done():
		// The engine may still fire a late result; the once-guard makes
		// sure this call resolves a single time.
		resolve("", ErrCancelled)
		c = <-done
	}
	if c.err != nil {
		return "", c.err
	}
	text := strings.TrimSpace(c.text)
	if text == "" {
		return "", ErrNoTextFound
	}
	return text, nil
}

// Close releases the underlying engine. Recognitions after Close fail with
// ErrEngine.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return e.client.Close()
}
