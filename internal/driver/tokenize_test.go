package driver

import (
	"os"
	"path/filepath"
	"testing"

	"rid/internal/token"
)

func TestTokenize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.rs")
	if err := os.WriteFile(path, []byte("pub struct Todo { id: u8 }\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := Tokenize(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics")
	}
	if n := len(res.Tokens); n < 2 || res.Tokens[n-1].Kind != token.EOF {
		t.Fatalf("tokens = %v", res.Tokens)
	}
	if res.Tokens[0].Kind != token.KwPub {
		t.Errorf("first token = %v, want pub", res.Tokens[0].Kind)
	}
}

func TestTokenizeMissingFile(t *testing.T) {
	if _, err := Tokenize(filepath.Join(t.TempDir(), "nope.rs"), 10); err == nil {
		t.Fatal("expected an error")
	}
}
