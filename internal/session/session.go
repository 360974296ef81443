// Package session implements the clipcast protocol engine: the per-connection
// message loop and the client-side reconnect supervisor.
//
// One Session owns one duplex line stream and one clipboard provider for the
// lifetime of a connection. The loop multiplexes four event sources — the
// clipboard poll ticker, the ping ticker, inbound message arrival, and the
// liveness deadline — in a single goroutine that also owns the outbound
// stream, so outbound records appear in the exact order their triggering
// events were selected. Inbound records are handled strictly in arrival
// order, one per iteration.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.klb.dev/clipcast/internal/clipboard"
	"go.klb.dev/clipcast/internal/message"
	"go.klb.dev/clipcast/internal/wire"
)

// Termination reasons. Run always returns one of these (or the context's
// error after cancellation); callers dispatch with errors.Is.
var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrProtocol         = errors.New("protocol error")
	ErrSendTimeout      = errors.New("send timeout")
	ErrLivenessTimeout  = errors.New("liveness timeout")
	ErrProviderFailure  = errors.New("clipboard write failed")
)

// Config carries the per-session timing knobs. Ping interval and pong
// timeout are zero in the responder role: the initiator probes, the responder
// only replies.
type Config struct {
	// PollInterval is how often the local clipboard is read.
	PollInterval time.Duration

	// PingInterval is how often a Ping is sent. 0 disables the ping ticker.
	PingInterval time.Duration

	// PongTimeout ends the session when no Pong arrives for this long.
	// 0 disables the liveness deadline.
	PongTimeout time.Duration

	// SendTimeout bounds every outbound write.
	SendTimeout time.Duration

	// Ack makes the session reply Ack after applying a received Clip.
	Ack bool
}

// DefaultConfig returns the initiator-role defaults.
func DefaultConfig() Config {
	return Config{
		PollInterval: 500 * time.Millisecond,
		PingInterval: 3 * time.Second,
		PongTimeout:  10 * time.Second,
		SendTimeout:  wire.DefaultSendTimeout,
	}
}

// ResponderConfig returns the responder-role defaults: no ping ticker, no
// liveness deadline, acks enabled.
func ResponderConfig() Config {
	return Config{
		PollInterval: 500 * time.Millisecond,
		SendTimeout:  wire.DefaultSendTimeout,
		Ack:          true,
	}
}

// Session drives one connection until a fatal event ends it. State does not
// persist across connections: a fresh Session starts with an empty last
// observed clipboard, so a reconnect may re-send unchanged content.
type Session struct {
	cfg      Config
	conn     *wire.Conn
	provider clipboard.Provider

	lastClip string    // last content sent or applied; suppresses duplicate sends
	lastPong time.Time // last accepted liveness reply
}

// New binds a session to one connection and one clipboard provider.
func New(cfg Config, conn *wire.Conn, provider clipboard.Provider) *Session {
	return &Session{cfg: cfg, conn: conn, provider: provider}
}

type inbound struct {
	msg *message.Message
	err error
}

// Run executes the session loop until it terminates. It always returns a
// non-nil error naming the termination reason.
func (s *Session) Run(ctx context.Context) error {
	// Session-scoped context: the reader goroutine parks on the channel
	// send when the loop exits first (liveness or send timeout, provider
	// failure), and the caller's context may live for the whole process.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.lastClip = ""
	s.lastPong = time.Now()

	inboundCh := make(chan inbound)
	go func() {
		for {
			msg, err := s.conn.ReadMsg()
			select {
			case inboundCh <- inbound{msg: msg, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	pollTick := time.NewTicker(s.cfg.PollInterval)
	defer pollTick.Stop()

	var pingC <-chan time.Time
	if s.cfg.PingInterval > 0 {
		pingTick := time.NewTicker(s.cfg.PingInterval)
		defer pingTick.Stop()
		pingC = pingTick.C
	}

	var liveness *time.Timer
	var livenessC <-chan time.Time
	if s.cfg.PongTimeout > 0 {
		liveness = time.NewTimer(s.cfg.PongTimeout)
		defer liveness.Stop()
		livenessC = liveness.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-pollTick.C:
			if err := s.pollClipboard(ctx); err != nil {
				return err
			}

		case <-pingC:
			slog.Debug("sending ping")
			if err := s.send(&message.Message{Type: message.TypePing}); err != nil {
				return err
			}

		case <-livenessC:
			slog.Warn("peer silent past liveness deadline",
				"last_pong", s.lastPong,
				"timeout", s.cfg.PongTimeout,
			)
			return ErrLivenessTimeout

		case in := <-inboundCh:
			if in.err != nil {
				return classifyReadError(in.err)
			}
			if err := s.dispatch(ctx, in.msg, liveness); err != nil {
				return err
			}
		}
	}
}

// pollClipboard reads the provider and sends a Clip when the content changed.
// Provider read failures are transient (clipboard tooling flaps under session
// locks and screen savers) and only skip this tick.
func (s *Session) pollClipboard(ctx context.Context) error {
	content, err := s.provider.Read(ctx)
	if err != nil {
		slog.Debug("clipboard read failed, skipping tick", "err", err)
		return nil
	}
	if content == s.lastClip {
		return nil
	}
	s.lastClip = content
	slog.Info("sending clipboard", "len", len(content))
	return s.send(&message.Message{Type: message.TypeClip, Clip: content})
}

// dispatch handles one inbound message. The switch is exhaustive over the
// wire union; Decode rejects anything else before it gets here.
func (s *Session) dispatch(ctx context.Context, msg *message.Message, liveness *time.Timer) error {
	switch msg.Type {
	case message.TypeClip:
		slog.Info("received clipboard", "len", len(msg.Clip))
		s.lastClip = msg.Clip
		if err := s.provider.Write(ctx, msg.Clip); err != nil {
			slog.Error("clipboard write failed", "err", err)
			return fmt.Errorf("%w: %v", ErrProviderFailure, err)
		}
		if s.cfg.Ack {
			return s.send(&message.Message{Type: message.TypeAck})
		}
		return nil

	case message.TypePing:
		slog.Debug("received ping")
		return s.send(&message.Message{Type: message.TypePong})

	case message.TypePong:
		slog.Debug("received pong")
		s.lastPong = time.Now()
		if liveness != nil {
			liveness.Reset(s.cfg.PongTimeout)
		}
		return nil

	case message.TypeAck:
		slog.Debug("received ack")
		return nil
	}
	return fmt.Errorf("%w: unhandled type %q", ErrProtocol, msg.Type)
}

// send writes one message through the bounded writer, mapping write failures
// onto termination reasons.
func (s *Session) send(msg *message.Message) error {
	err := s.conn.WriteMsg(msg)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, wire.ErrSendTimeout):
		slog.Error("send timed out", "type", msg.Type)
		return fmt.Errorf("%w: %v", ErrSendTimeout, err)
	default:
		slog.Error("send failed", "type", msg.Type, "err", err)
		return fmt.Errorf("%w: %v", ErrConnectionClosed, err)
	}
}

// classifyReadError maps inbound failures onto termination reasons: clean EOF
// and transport errors end the connection, malformed records are protocol
// violations.
func classifyReadError(err error) error {
	switch {
	case errors.Is(err, io.EOF):
		return ErrConnectionClosed
	case errors.Is(err, message.ErrDecode):
		slog.Error("malformed inbound record", "err", err)
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	default:
		slog.Info("inbound read failed", "err", err)
		return fmt.Errorf("%w: %v", ErrConnectionClosed, err)
	}
}
