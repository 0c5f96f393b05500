package capture

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"
)

// fakeGrabber counts calls and can be told to fail.
type fakeGrabber struct {
	mu         sync.Mutex
	bounds     image.Rectangle
	boundsErr  error
	grabErr    error
	boundsCall int
	grabCall   int
	block      chan struct{} // when set, Grab waits for a receive
}

func (g *fakeGrabber) Bounds() (image.Rectangle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.boundsCall++
	if g.boundsErr != nil {
		return image.Rectangle{}, g.boundsErr
	}
	return g.bounds, nil
}

func (g *fakeGrabber) Grab(bounds image.Rectangle) (*image.RGBA, error) {
	g.mu.Lock()
	g.grabCall++
	err := g.grabErr
	block := g.block
	g.mu.Unlock()
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return image.NewRGBA(bounds), nil
}

func newTestSource(g *fakeGrabber) *Source {
	if g.bounds.Empty() {
		g.bounds = image.Rect(0, 0, 640, 480)
	}
	s := NewSource(g)
	s.Initialize(DesktopGrant())
	return s
}

func TestCaptureWithoutAuthorization(t *testing.T) {
	s := NewSource(&fakeGrabber{bounds: image.Rect(0, 0, 10, 10)})

	if _, err := s.CaptureOnce(context.Background()); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("Expected ErrNotAuthorized before Initialize, got %v", err)
	}
}

func TestInitializeMalformedGrant(t *testing.T) {
	tests := []struct {
		name  string
		grant Grant
	}{
		{"zero result code", Grant{ResultCode: 0, Payload: []byte("x")}},
		{"negative result code", Grant{ResultCode: -1, Payload: []byte("x")}},
		{"empty payload", Grant{ResultCode: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSource(&fakeGrabber{bounds: image.Rect(0, 0, 10, 10)})
			s.Initialize(tt.grant)

			if _, err := s.CaptureOnce(context.Background()); !errors.Is(err, ErrNotAuthorized) {
				t.Errorf("Expected ErrNotAuthorized after malformed grant, got %v", err)
			}
		})
	}
}

func TestCaptureReusesSession(t *testing.T) {
	g := &fakeGrabber{}
	s := newTestSource(g)

	for i := 0; i < 3; i++ {
		frame, err := s.CaptureOnce(context.Background())
		if err != nil {
			t.Fatalf("Capture %d failed: %v", i, err)
		}
		frame.Release()
	}

	if g.boundsCall != 1 {
		t.Errorf("Expected one session creation across captures, got %d", g.boundsCall)
	}
	if g.grabCall != 3 {
		t.Errorf("Expected 3 grabs, got %d", g.grabCall)
	}
}

func TestCaptureSingleFlight(t *testing.T) {
	g := &fakeGrabber{block: make(chan struct{})}
	s := newTestSource(g)

	done := make(chan error, 1)
	go func() {
		frame, err := s.CaptureOnce(context.Background())
		if frame != nil {
			frame.Release()
		}
		done <- err
	}()

	// Wait until the first capture is inside Grab.
	for {
		g.mu.Lock()
		started := g.grabCall > 0
		g.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := s.CaptureOnce(context.Background()); !errors.Is(err, ErrCaptureBusy) {
		t.Errorf("Expected ErrCaptureBusy while a capture is in flight, got %v", err)
	}

	g.block <- struct{}{}
	if err := <-done; err != nil {
		t.Errorf("First capture should succeed, got %v", err)
	}

	g.mu.Lock()
	g.block = nil
	g.mu.Unlock()

	// Slot is free again.
	frame, err := s.CaptureOnce(context.Background())
	if err != nil {
		t.Errorf("Capture after completion failed: %v", err)
	} else {
		frame.Release()
	}
}

func TestGrabFailureKeepsGrant(t *testing.T) {
	g := &fakeGrabber{}
	s := newTestSource(g)

	g.mu.Lock()
	g.grabErr = errors.New("surface lost")
	g.mu.Unlock()

	if _, err := s.CaptureOnce(context.Background()); err == nil {
		t.Fatal("Expected grab failure to propagate")
	}

	// Next capture rebuilds the session from the stored grant, no
	// re-authorization needed.
	g.mu.Lock()
	g.grabErr = nil
	g.mu.Unlock()

	frame, err := s.CaptureOnce(context.Background())
	if err != nil {
		t.Fatalf("Capture after grab failure should rebuild the session, got %v", err)
	}
	frame.Release()

	if g.boundsCall != 2 {
		t.Errorf("Expected session rebuild (2 Bounds calls), got %d", g.boundsCall)
	}
}

func TestRevokeAndReinitialize(t *testing.T) {
	g := &fakeGrabber{}
	s := newTestSource(g)

	frame, err := s.CaptureOnce(context.Background())
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	frame.Release()

	s.Revoke()
	if _, err := s.CaptureOnce(context.Background()); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("Expected ErrNotAuthorized after Revoke, got %v", err)
	}

	// The grant survived, so Reinitialize restores capture without a prompt.
	if err := s.Reinitialize(); err != nil {
		t.Fatalf("Reinitialize failed: %v", err)
	}
	frame, err = s.CaptureOnce(context.Background())
	if err != nil {
		t.Fatalf("Capture after Reinitialize failed: %v", err)
	}
	frame.Release()
}

func TestReinitializeAfterReleaseAll(t *testing.T) {
	s := newTestSource(&fakeGrabber{})

	s.ReleaseAll()
	if err := s.Reinitialize(); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("Expected ErrNotAuthorized after ReleaseAll dropped the grant, got %v", err)
	}
}

func TestReleaseSessionKeepsGrant(t *testing.T) {
	g := &fakeGrabber{}
	s := newTestSource(g)

	frame, err := s.CaptureOnce(context.Background())
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	frame.Release()

	s.ReleaseSession()

	frame, err = s.CaptureOnce(context.Background())
	if err != nil {
		t.Fatalf("Capture after ReleaseSession failed: %v", err)
	}
	frame.Release()

	if g.boundsCall != 2 {
		t.Errorf("Expected session recreation after ReleaseSession, got %d Bounds calls", g.boundsCall)
	}
}

func TestCaptureCancelledContext(t *testing.T) {
	s := newTestSource(&fakeGrabber{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.CaptureOnce(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
