package llm

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
)

var (
	// ErrConfigInvalid means the endpoint URL, API key, or model name is
	// missing or malformed; no network call was attempted.
	ErrConfigInvalid = errors.New("api configuration incomplete")
	// ErrEmptyResponse means a 2xx response carried no body.
	ErrEmptyResponse = errors.New("empty api response")
	// ErrNoAnswerContent means the first choice had no message content.
	ErrNoAnswerContent = errors.New("no answer content in response")
	// ErrResponseInvalid means a successful response did not look like a
	// chat completion (malformed, not a transport failure).
	ErrResponseInvalid = errors.New("malformed api response")

	ErrInvalidKey  = errors.New("api key invalid or expired")
	ErrForbidden   = errors.New("access to api forbidden")
	ErrNotFound    = errors.New("api endpoint not found")
	ErrRateLimited = errors.New("too many requests, try again later")
	ErrServer      = errors.New("api server error")

	ErrUnreachableHost = errors.New("unable to reach api host")
	ErrTimeout         = errors.New("connection to api timed out")
	ErrTLS             = errors.New("tls error connecting to api")
)

// StatusError reports a non-2xx chat completion response not covered by a
// more specific category.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api request failed with status %d", e.Code)
}

// UnknownError carries the message of a transport failure that fits no
// known category.
type UnknownError struct {
	Message string
}

func (e *UnknownError) Error() string {
	return "unknown api error: " + e.Message
}

// mapTransportError converts a round-trip failure into the taxonomy exposed
// by this package.
func mapTransportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	var recordErr tls.RecordHeaderError
	var certErr *tls.CertificateVerificationError
	var authErr x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	if errors.As(err, &recordErr) || errors.As(err, &certErr) ||
		errors.As(err, &authErr) || errors.As(err, &hostErr) {
		return ErrTLS
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrUnreachableHost
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrUnreachableHost
	}

	return &UnknownError{Message: err.Error()}
}
