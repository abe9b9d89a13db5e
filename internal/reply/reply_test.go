package reply

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncodeAddedReply(t *testing.T) {
	h, err := NewHeader(1, 7)
	if err != nil {
		t.Fatal(err)
	}
	if got := h.Pack(); got != 30064771073 {
		t.Fatalf("Pack() = %d, want 30064771073", got)
	}
	if got := Encode(Reply{Header: h, Payload: "x", HasPayload: true}); got != "30064771073^x" {
		t.Fatalf("Encode() = %q", got)
	}
	if got := Encode(Reply{Header: Header{Slot: 0, ReqID: 7}}); got != "30064771072" {
		t.Fatalf("Encode() without payload = %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []Reply{
		{Header: Header{Slot: 0, ReqID: 0}},
		{Header: Header{Slot: 3, ReqID: 42}, Payload: "", HasPayload: true},
		{Header: Header{Slot: 1, ReqID: math.MaxUint32}, Payload: "with ^ inside", HasPayload: true},
		{Header: Header{Slot: math.MaxUint32, ReqID: 1 << 31}, Payload: "юникод", HasPayload: true},
		{Header: Header{Slot: 2, ReqID: 1}, Payload: "^leading", HasPayload: true},
	}
	for _, want := range tests {
		wire := Encode(want)
		got, err := Decode(wire)
		if err != nil {
			t.Fatalf("Decode(%q): %v", wire, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip of %q mismatch (-want +got):\n%s", wire, diff)
		}
	}
}

func TestNewHeaderRange(t *testing.T) {
	if _, err := NewHeader(-1, 0); err == nil {
		t.Errorf("negative slot must fail")
	}
	if _, err := NewHeader(0, 1<<32); err == nil {
		t.Errorf("request id above 32 bits must fail")
	}
	if _, err := NewHeader(5, math.MaxUint32); err != nil {
		t.Errorf("max request id: %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, in := range []string{"", "^x", "abc", "12a^x", "99999999999999999999", "1^\xff"} {
		if _, err := Decode(in); !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode(%q) err = %v, want ErrMalformed", in, err)
		}
	}
}
