package fuzztests

import (
	"errors"
	"testing"

	"rid/internal/reply"
)

// FuzzReplyDecode checks that any accepted wire string re-encodes to itself
// and that every rejection wraps ErrMalformed.
func FuzzReplyDecode(f *testing.F) {
	for _, s := range []string{"0", "30064771073^x", "1^a^b", "-1", "^x", "12^", "abc", "4294967297^\xff"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, wire string) {
		r, err := reply.Decode(wire)
		if err != nil {
			if !errors.Is(err, reply.ErrMalformed) {
				t.Fatalf("Decode(%q) error %v does not wrap ErrMalformed", wire, err)
			}
			return
		}
		again, err := reply.Decode(reply.Encode(r))
		if err != nil {
			t.Fatalf("re-decode of %q: %v", reply.Encode(r), err)
		}
		if again != r {
			t.Fatalf("round trip mismatch: %+v vs %+v", again, r)
		}
	})
}
