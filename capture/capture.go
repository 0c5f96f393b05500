package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"

	"screen-answerer/crop"
)

var (
	// ErrNotAuthorized means Initialize was never called with a usable
	// grant, or the platform revoked the session.
	ErrNotAuthorized = errors.New("screen capture not authorized")
	// ErrCaptureBusy means a capture request is already outstanding. The
	// session has a single frame-ready slot, so requests are serialized.
	ErrCaptureBusy = errors.New("capture already in flight")
)

// AuthorizationRequest describes what the platform permission flow must
// obtain before capture can start. The integration layer forwards it to the
// OS; this package never shows UI itself.
type AuthorizationRequest struct {
	Reason string
}

// Grant is the opaque authorization result handed back by the platform
// permission flow: a result code plus the grant payload.
type Grant struct {
	ResultCode int
	Payload    []byte
}

func (g Grant) usable() bool {
	return g.ResultCode > 0 && len(g.Payload) > 0
}

// DesktopGrant returns the implicit grant used on desktop platforms, where
// reading the display needs no permission prompt.
func DesktopGrant() Grant {
	return Grant{ResultCode: 1, Payload: []byte("display")}
}

// Grabber is the pixel source behind a capture session.
type Grabber interface {
	// Bounds reports the virtual-screen rectangle covering all displays.
	Bounds() (image.Rectangle, error)
	// Grab reads one still frame of the given rectangle.
	Grab(bounds image.Rectangle) (*image.RGBA, error)
}

// session holds the per-grant resources that persist across captures.
// Enumerating displays and standing up the mirror surface costs hundreds of
// milliseconds on some platforms, so the session is created lazily on the
// first capture and reused until the platform invalidates it.
type session struct {
	bounds image.Rectangle
	valid  bool
}

// Source produces one still frame of the screen per request, reusing one
// persistent session across requests.
type Source struct {
	mu         sync.Mutex
	grabber    Grabber
	grant      *Grant
	authorized bool
	sess       *session
	inFlight   bool
}

// NewSource creates a capture source. A nil grabber selects the system
// display grabber.
func NewSource(g Grabber) *Source {
	if g == nil {
		g = systemGrabber{}
	}
	return &Source{grabber: g}
}

// Authorize returns the request the platform integration layer must forward
// to the OS permission flow before Initialize can be called.
func (s *Source) Authorize() AuthorizationRequest {
	return AuthorizationRequest{Reason: "mirror the screen to answer on-screen questions"}
}

// Initialize stores the permission grant, tearing down any previously active
// session first so native handles are never leaked. A malformed grant is
// logged and ignored; capture then fails with ErrNotAuthorized.
func (s *Source) Initialize(grant Grant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
	if !grant.usable() {
		log.Printf("capture: ignoring malformed grant (result code %d, %d payload bytes)",
			grant.ResultCode, len(grant.Payload))
		s.grant = nil
		s.authorized = false
		return
	}
	g := grant
	s.grant = &g
	s.authorized = true
}

// Reinitialize recreates the authorization from the stored grant without a
// new permission prompt. Used when the platform invalidated the surface but
// the grant survived.
func (s *Source) Reinitialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grant == nil {
		return ErrNotAuthorized
	}
	s.sess = nil
	s.authorized = true
	return nil
}

// Revoke handles a platform-reported session termination: all session
// resources are dropped and subsequent captures fail with ErrNotAuthorized
// until Initialize or Reinitialize runs again.
func (s *Source) Revoke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
	s.authorized = false
}

// CaptureOnce produces one still frame of the current screen content. The
// first call creates the session; later calls reuse it. Ownership of the
// returned frame transfers to the caller, who must Release it.
func (s *Source) CaptureOnce(ctx context.Context) (*crop.Frame, error) {
	s.mu.Lock()
	if !s.authorized {
		s.mu.Unlock()
		return nil, ErrNotAuthorized
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrCaptureBusy
	}
	if s.sess == nil || !s.sess.valid {
		sess, err := s.createSession()
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.sess = sess
	}
	bounds := s.sess.bounds
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := s.grabber.Grab(bounds)
	if err != nil {
		// Surface went stale underneath us; drop it but keep the grant so
		// the next capture rebuilds the session without re-prompting.
		s.mu.Lock()
		s.sess = nil
		s.mu.Unlock()
		return nil, fmt.Errorf("capture failed: %w", err)
	}
	return crop.NewFrame(img), nil
}

func (s *Source) createSession() (*session, error) {
	bounds, err := s.grabber.Bounds()
	if err != nil {
		return nil, fmt.Errorf("failed to create capture session: %w", err)
	}
	log.Printf("capture: session created for %dx%d virtual screen", bounds.Dx(), bounds.Dy())
	return &session{bounds: bounds, valid: true}, nil
}

// ReleaseSession drops the session resources but keeps the stored grant, so
// the next capture can recreate the session without re-prompting the user.
func (s *Source) ReleaseSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
}

// ReleaseAll drops everything, including the stored grant. Call on pipeline
// shutdown.
func (s *Source) ReleaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
	s.grant = nil
	s.authorized = false
}
