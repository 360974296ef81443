// Package message defines the clipcast wire protocol.
//
// Every message is exactly one JSON object on one line: <json>\n. The "type"
// field discriminates the four variants; any other tag, an empty line, or
// malformed JSON is a protocol violation, never a silently-dropped record.
package message

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Type identifies the kind of message.
type Type string

const (
	TypePing Type = "ping"
	TypePong Type = "pong"
	TypeClip Type = "clip"
	TypeAck  Type = "ack"
)

// Message is the wire envelope. Clip carries the clipboard text for the
// "clip" variant; the other variants have no payload.
type Message struct {
	Type Type   `json:"type"`
	Clip string `json:"clip,omitempty"`
}

// ErrDecode tags every malformed-record error so the session loop can
// distinguish protocol violations from transport failures.
var ErrDecode = errors.New("malformed message")

// Encode serialises the message to a single JSON line, without the trailing
// newline. json.Marshal escapes control characters and quotes, so the result
// never contains a raw newline regardless of the clipboard payload.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode deserialises one wire line into a Message. The returned error wraps
// ErrDecode for empty lines, invalid JSON, and unknown type tags.
func Decode(b []byte) (*Message, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, fmt.Errorf("%w: empty line", ErrDecode)
	}
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	switch m.Type {
	case TypePing, TypePong, TypeClip, TypeAck:
		return &m, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrDecode, m.Type)
	}
}
