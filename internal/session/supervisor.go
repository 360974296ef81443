package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.klb.dev/clipcast/internal/clipboard"
	"go.klb.dev/clipcast/internal/wire"
)

// DefaultBackoff is the fixed sleep between connection attempts.
const DefaultBackoff = time.Second

// Dialer establishes a fresh transport for one session attempt. The returned
// closer tears the transport down after the session ends.
type Dialer func(ctx context.Context) (*wire.Conn, io.Closer, error)

// Supervisor keeps exactly one session running on the initiating side,
// dialing a new transport after every failure. There is deliberately no retry
// ceiling and no exponential backoff: the supervisor retries until the
// process is killed, trading precise error reporting for availability.
type Supervisor struct {
	Dial     Dialer
	Provider clipboard.Provider
	Config   Config
	Backoff  time.Duration // 0 means DefaultBackoff
}

// Run loops forever, returning only when ctx is cancelled.
func (sv *Supervisor) Run(ctx context.Context) error {
	backoff := sv.Backoff
	if backoff <= 0 {
		backoff = DefaultBackoff
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, closer, err := sv.Dial(ctx)
		if err != nil {
			slog.Warn("connect failed", "err", err, "retry_in", backoff)
		} else {
			slog.Info("connected")
			err = New(sv.Config, conn, sv.Provider).Run(ctx)
			_ = closer.Close()
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			slog.Warn("session ended, reconnecting", "reason", err, "retry_in", backoff)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}
