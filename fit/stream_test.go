package fit

import (
	"errors"
	"testing"
)

func TestStreamMessageEnvelope(t *testing.T) {
	var b fileBuilder
	b.definition(2, mesgNumRecord, [3]byte{7, 2, 0x84}).
		data(2, u16le(250)...)

	var msgs []Message
	err := Stream(b.bytes(), func(msg Message) error {
		msgs = append(msgs, msg)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}

	msg := msgs[0]
	if msg.Local != 2 {
		t.Fatalf("Local = %d, want 2", msg.Local)
	}
	if msg.Global != mesgNumRecord {
		t.Fatalf("Global = %d, want %d", msg.Global, mesgNumRecord)
	}
	// header (14) + definition record (1 + 5 + 3).
	if msg.Offset != 23 {
		t.Fatalf("Offset = %d, want 23", msg.Offset)
	}
	if msg.Name == "" {
		t.Fatal("Name is empty")
	}
	if msg.Fields["power"] != uint16(250) {
		t.Fatalf("power = %v", msg.Fields["power"])
	}
}

func TestStreamStopsOnCallbackError(t *testing.T) {
	var b fileBuilder
	b.definition(0, mesgNumRecord, [3]byte{7, 2, 0x84}).
		data(0, u16le(100)...).
		data(0, u16le(200)...)

	stop := errors.New("stop")
	calls := 0
	err := Stream(b.bytes(), func(Message) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("err = %v, want the callback's error", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestStreamYieldsMessagesBeforeFailure(t *testing.T) {
	var b fileBuilder
	b.definition(0, mesgNumRecord, [3]byte{7, 2, 0x84}).
		data(0, u16le(100)...).
		data(0, u16le(200)...).
		data(1) // local 1 was never defined

	var powers []uint16
	err := Stream(b.bytes(), func(msg Message) error {
		if p, ok := msg.Fields["power"].(uint16); ok {
			powers = append(powers, p)
		}
		return nil
	})
	if !errors.Is(err, ErrUndefinedLocalMessage) {
		t.Fatalf("err = %v, want ErrUndefinedLocalMessage", err)
	}
	if len(powers) != 2 || powers[0] != 100 || powers[1] != 200 {
		t.Fatalf("powers = %v, want the two records before the failure", powers)
	}
}
