// Package wire handles reading and writing newline-delimited JSON messages
// over a duplex byte stream — the stdio of a tunnel process on the client, or
// the process's own stdin/stdout on the server.
//
// Wire format:
//
//	<json>\n
//
// Every line is a single message. Pipes have no write deadlines, so bounded
// sends are implemented by running the write on a goroutine and abandoning it
// on timeout; the caller must tear down the transport afterwards.
package wire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"go.klb.dev/clipcast/internal/message"
)

const (
	// MaxMessageSize is the largest line we will read (16 MiB).
	MaxMessageSize = 16 * 1024 * 1024

	// DefaultSendTimeout bounds every outbound write.
	DefaultSendTimeout = 5 * time.Second
)

// ErrSendTimeout is returned when an outbound write does not complete within
// the send timeout. The transport is presumed dead.
var ErrSendTimeout = errors.New("wire: send timeout")

// Conn frames newline-delimited JSON messages over an inbound reader and an
// outbound writer. It is not safe for concurrent writers; exactly one
// goroutine owns the outbound side of a connection.
type Conn struct {
	w           io.Writer
	br          *bufio.Reader
	sendTimeout time.Duration
}

// New wraps the inbound and outbound halves of a duplex stream. A
// sendTimeout of 0 means DefaultSendTimeout.
func New(r io.Reader, w io.Writer, sendTimeout time.Duration) *Conn {
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}
	return &Conn{
		w:           w,
		br:          bufio.NewReaderSize(r, 64*1024),
		sendTimeout: sendTimeout,
	}
}

// WriteMsg serialises msg and writes it as one newline-terminated line in a
// single Write call. A write that stalls past the send timeout returns
// ErrSendTimeout; the abandoned write goroutine exits when the transport is
// closed.
func (c *Conn) WriteMsg(msg *message.Message) error {
	raw, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("wire: encode: %w", err)
	}
	line := append(raw, '\n')

	errc := make(chan error, 1)
	go func() {
		_, err := c.w.Write(line)
		errc <- err
	}()

	t := time.NewTimer(c.sendTimeout)
	defer t.Stop()
	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("wire: write: %w", err)
		}
		return nil
	case <-t.C:
		return ErrSendTimeout
	}
}

// ReadMsg reads one line and decodes it. A clean end of stream is reported as
// io.EOF; decode failures wrap message.ErrDecode.
func (c *Conn) ReadMsg() (*message.Message, error) {
	line, err := c.br.ReadBytes('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			// Final line without a terminator: still one record.
			return message.Decode(line)
		}
		return nil, err
	}
	if len(line) > MaxMessageSize {
		return nil, fmt.Errorf("wire: message too large (%d bytes)", len(line))
	}
	line = line[:len(line)-1]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return message.Decode(line)
}
