package message

import (
	"bytes"
	"errors"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	msgs := []Message{
		{Type: TypePing},
		{Type: TypePong},
		{Type: TypeAck},
		{Type: TypeClip, Clip: "hello"},
		{Type: TypeClip, Clip: ""},
		{Type: TypeClip, Clip: "line one\nline two\r\n"},
		{Type: TypeClip, Clip: `she said "hi" \ bye`},
		{Type: TypeClip, Clip: "héllo wörld — 日本語 🦊"},
		{Type: TypeClip, Clip: "tab\there\x00null"},
	}
	for _, want := range msgs {
		raw, err := want.Encode()
		if err != nil {
			t.Fatalf("encode %+v: %v", want, err)
		}
		if bytes.ContainsRune(raw, '\n') {
			t.Fatalf("encoded record contains a raw newline: %q", raw)
		}
		got, err := Decode(raw)
		if err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
		if *got != want {
			t.Fatalf("round trip mismatch: want %+v, got %+v", want, *got)
		}
	}
}

func TestDecodeKnownForms(t *testing.T) {
	got, err := Decode([]byte(`{"type":"clip","clip":"x"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Type != TypeClip || got.Clip != "x" {
		t.Fatalf("unexpected message: %+v", got)
	}

	got, err = Decode([]byte(`{"type":"ping"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Type != TypePing {
		t.Fatalf("unexpected message: %+v", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	bad := [][]byte{
		nil,
		[]byte(""),
		[]byte("   "),
		[]byte("not json"),
		[]byte(`{"type":"bogus"}`),
		[]byte(`{"clip":"x"}`),
		[]byte(`{"type":"clip","clip":`),
	}
	for _, line := range bad {
		_, err := Decode(line)
		if err == nil {
			t.Fatalf("decode %q: expected error", line)
		}
		if !errors.Is(err, ErrDecode) {
			t.Fatalf("decode %q: error %v does not wrap ErrDecode", line, err)
		}
	}
}
