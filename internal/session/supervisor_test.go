package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"go.klb.dev/clipcast/internal/message"
	"go.klb.dev/clipcast/internal/wire"
)

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

func TestSupervisorReconnectsWithFreshState(t *testing.T) {
	// The provider always reports "a". Because session state resets on
	// every reconnect, each connection must re-send "a" even though the
	// content never changed.
	p := newFakeProvider(readResult{content: "a"})

	var dials atomic.Int32
	gotClip := make(chan string, 8)

	dial := func(ctx context.Context) (*wire.Conn, io.Closer, error) {
		dials.Add(1)
		l := newLink()
		go func() {
			msg, err := l.peer.ReadMsg()
			if err != nil {
				return
			}
			if msg.Type == message.TypeClip {
				gotClip <- msg.Clip
			}
			// One message per connection, then hang up.
			l.inW.Close()
		}()
		return l.session, closeFunc(func() error {
			l.inW.Close()
			return l.outW.Close()
		}), nil
	}

	sv := &Supervisor{
		Dial:     dial,
		Provider: p,
		Config:   quietConfig(),
		Backoff:  5 * time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sv.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case clip := <-gotClip:
			if clip != "a" {
				t.Fatalf("connection %d: want clip \"a\", got %q", i+1, clip)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("connection %d never produced a clip", i+1)
		}
	}
	cancel()

	if err := waitErr(t, done); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if n := dials.Load(); n < 2 {
		t.Fatalf("want at least 2 dials, got %d", n)
	}
}

func TestSupervisorRetriesFailedDials(t *testing.T) {
	var dials atomic.Int32
	enough := make(chan struct{})

	dial := func(ctx context.Context) (*wire.Conn, io.Closer, error) {
		if dials.Add(1) == 3 {
			close(enough)
		}
		return nil, nil, fmt.Errorf("ssh: connection refused")
	}

	sv := &Supervisor{
		Dial:     dial,
		Provider: newFakeProvider(),
		Config:   quietConfig(),
		Backoff:  time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sv.Run(ctx) }()

	select {
	case <-enough:
	case <-time.After(5 * time.Second):
		t.Fatalf("supervisor gave up after %d dials", dials.Load())
	}
	cancel()
	if err := waitErr(t, done); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestSupervisorRedialsWithinBackoff(t *testing.T) {
	var dialTimes []time.Time
	recorded := make(chan struct{}, 8)

	dial := func(ctx context.Context) (*wire.Conn, io.Closer, error) {
		dialTimes = append(dialTimes, time.Now())
		recorded <- struct{}{}
		l := newLink()
		// Immediate EOF: the session ends with ConnectionClosed at once.
		l.inW.Close()
		return l.session, closeFunc(func() error { return l.outW.Close() }), nil
	}

	sv := &Supervisor{
		Dial:     dial,
		Provider: newFakeProvider(),
		Config:   quietConfig(),
		Backoff:  20 * time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sv.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-recorded:
		case <-time.After(5 * time.Second):
			t.Fatal("supervisor stopped dialing")
		}
	}
	cancel()
	<-done

	gap := dialTimes[1].Sub(dialTimes[0])
	if gap < 20*time.Millisecond {
		t.Fatalf("redial arrived before the backoff elapsed: %v", gap)
	}
	if gap > 3*time.Second {
		t.Fatalf("redial took far longer than one backoff interval: %v", gap)
	}
}
