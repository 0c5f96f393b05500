package pipeline

import (
	"errors"
	"fmt"
	"testing"

	"screen-answerer/capture"
	"screen-answerer/crop"
	"screen-answerer/llm"
	"screen-answerer/ocr"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{capture.ErrNotAuthorized, "screen capture not authorized, grant permission first"},
		{capture.ErrCaptureBusy, statusBusy},
		{crop.ErrInvalidRegion, "selected region is invalid"},
		{ocr.ErrNoTextFound, "no text recognized"},
		{ocr.ErrCancelled, "text recognition cancelled"},
		{ocr.ErrEngine, "text recognition failed"},
		{llm.ErrConfigInvalid, "api not configured, check endpoint, key and model"},
		{llm.ErrInvalidKey, "api key invalid or expired"},
		{llm.ErrRateLimited, "too many requests, try again later"},
		{llm.ErrServer, "api server error"},
		{llm.ErrUnreachableHost, "cannot reach api host, check network and url"},
		{llm.ErrTimeout, "connection to api timed out"},
		{llm.ErrTLS, "tls error, check the api url"},
		{&llm.StatusError{Code: 418}, "api request failed (status 418)"},
		{&llm.UnknownError{Message: "weird"}, "request failed: weird"},
		{errors.New("surprise"), "operation failed: surprise"},
	}

	for _, tt := range tests {
		if got := statusForError(tt.err); got != tt.expected {
			t.Errorf("statusForError(%v) = %q, expected %q", tt.err, got, tt.expected)
		}
	}
}

func TestStatusForWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("capture failed: %w", ocr.ErrNoTextFound)
	if got := statusForError(wrapped); got != "no text recognized" {
		t.Errorf("Wrapped sentinel should still map, got %q", got)
	}
}
