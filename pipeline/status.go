package pipeline

import (
	"errors"
	"fmt"
	"time"

	"screen-answerer/capture"
	"screen-answerer/crop"
	"screen-answerer/llm"
	"screen-answerer/ocr"
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

// Status is the single-slot, user-visible message. At most one status is
// visible at a time; a new one overwrites the previous immediately.
type Status struct {
	Text     string
	Severity Severity
}

const (
	// Transient info and success messages clear themselves after 2s,
	// errors after 5s, unless a newer status replaced them first.
	defaultInfoVisible  = 2 * time.Second
	defaultErrorVisible = 5 * time.Second
)

const (
	statusCapturing    = "capturing screen..."
	statusSelectRegion = "select the region to recognize..."
	statusRecognizing  = "recognizing text..."
	statusRecognized   = "text recognized, confirm to continue"
	statusFetching     = "fetching answer..."
	statusAnswerReady  = "answer ready"
	statusAnswerCopied = "answer copied to clipboard"
	statusBusy         = "busy with the previous question, please wait"
)

// statusForError maps each failure category to the short message shown in
// the status slot.
func statusForError(err error) string {
	switch {
	case errors.Is(err, capture.ErrNotAuthorized):
		return "screen capture not authorized, grant permission first"
	case errors.Is(err, capture.ErrCaptureBusy):
		return statusBusy
	case errors.Is(err, crop.ErrInvalidRegion):
		return "selected region is invalid"
	case errors.Is(err, ocr.ErrNoTextFound):
		return "no text recognized"
	case errors.Is(err, ocr.ErrCancelled):
		return "text recognition cancelled"
	case errors.Is(err, ocr.ErrEngine):
		return "text recognition failed"
	case errors.Is(err, llm.ErrConfigInvalid):
		return "api not configured, check endpoint, key and model"
	case errors.Is(err, llm.ErrEmptyResponse):
		return "api returned an empty response"
	case errors.Is(err, llm.ErrNoAnswerContent):
		return "api response had no answer"
	case errors.Is(err, llm.ErrResponseInvalid):
		return "api response was malformed"
	case errors.Is(err, llm.ErrInvalidKey):
		return "api key invalid or expired"
	case errors.Is(err, llm.ErrForbidden):
		return "access to api forbidden"
	case errors.Is(err, llm.ErrNotFound):
		return "api endpoint not found"
	case errors.Is(err, llm.ErrRateLimited):
		return "too many requests, try again later"
	case errors.Is(err, llm.ErrServer):
		return "api server error"
	case errors.Is(err, llm.ErrUnreachableHost):
		return "cannot reach api host, check network and url"
	case errors.Is(err, llm.ErrTimeout):
		return "connection to api timed out"
	case errors.Is(err, llm.ErrTLS):
		return "tls error, check the api url"
	}

	var statusErr *llm.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("api request failed (status %d)", statusErr.Code)
	}
	var unknownErr *llm.UnknownError
	if errors.As(err, &unknownErr) {
		return "request failed: " + unknownErr.Message
	}
	return "operation failed: " + err.Error()
}
