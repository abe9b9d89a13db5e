// Package reply implements the textual wire format replies are posted in:
// a decimal i64 header, optionally followed by '^' and a UTF-8 payload.
// The header packs the variant slot into the low 32 bits and the request id
// into the high 32 bits.
package reply

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
)

// Separator splits the header from the payload.
const Separator = '^'

// ErrMalformed is wrapped by every decoding failure.
var ErrMalformed = errors.New("malformed reply")

type Header struct {
	Slot  uint32
	ReqID uint32
}

// NewHeader checks that slot and reqID fit their 32-bit halves.
func NewHeader(slot int, reqID uint64) (Header, error) {
	s, err := safecast.Conv[uint32](slot)
	if err != nil {
		return Header{}, fmt.Errorf("slot %d: %w", slot, err)
	}
	r, err := safecast.Conv[uint32](reqID)
	if err != nil {
		return Header{}, fmt.Errorf("request id %d: %w", reqID, err)
	}
	return Header{Slot: s, ReqID: r}, nil
}

// Pack returns the header as the signed value the host posts.
func (h Header) Pack() int64 {
	return int64(uint64(h.Slot) | uint64(h.ReqID)<<32)
}

// Unpack splits a packed header.
func Unpack(v int64) Header {
	u := uint64(v)
	return Header{Slot: uint32(u), ReqID: uint32(u >> 32)}
}

type Reply struct {
	Header
	Payload    string
	HasPayload bool
}

// Encode renders r in wire form.
func Encode(r Reply) string {
	head := strconv.FormatInt(r.Pack(), 10)
	if !r.HasPayload {
		return head
	}
	return head + string(Separator) + r.Payload
}

// Decode parses a wire string. Only the first separator splits, so
// payloads may contain '^'.
func Decode(s string) (Reply, error) {
	head, payload, found := strings.Cut(s, string(Separator))
	if head == "" {
		return Reply{}, fmt.Errorf("%w: empty header in %q", ErrMalformed, s)
	}
	v, err := strconv.ParseInt(head, 10, 64)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: header %q: %v", ErrMalformed, head, err)
	}
	if found && !utf8.ValidString(payload) {
		return Reply{}, fmt.Errorf("%w: payload is not valid UTF-8", ErrMalformed)
	}
	return Reply{Header: Unpack(v), Payload: payload, HasPayload: found}, nil
}
