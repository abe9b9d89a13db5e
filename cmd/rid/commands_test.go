package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rid/internal/diag"
	"rid/internal/project"
	"rid/internal/source"
)

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tc := range cases {
		got, err := readUIMode(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("readUIMode(%q) err = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("readUIMode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestShouldUseTUI(t *testing.T) {
	var buf bytes.Buffer
	if !shouldUseTUI(uiModeOn, &buf, 1) {
		t.Errorf("on must force the UI")
	}
	if shouldUseTUI(uiModeOff, &buf, 10) {
		t.Errorf("off must disable the UI")
	}
	if shouldUseTUI(uiModeAuto, &buf, 10) {
		t.Errorf("auto must stay off for a non-terminal writer")
	}
}

func TestFilterBag(t *testing.T) {
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.TypMissingInfo, source.Span{}, "w"))
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "i"))

	if got := filterBag(bag, false, false); got != bag {
		t.Fatalf("no flags must return the same bag")
	}
	dropped := filterBag(bag, true, false)
	if dropped.Len() != 1 || dropped.HasWarnings() {
		t.Fatalf("no-warnings kept %d items", dropped.Len())
	}
	promoted := filterBag(bag, false, true)
	if !promoted.HasErrors() || promoted.Len() != 2 {
		t.Fatalf("warnings-as-errors: errors=%v len=%d", promoted.HasErrors(), promoted.Len())
	}
	if bag.HasErrors() {
		t.Fatalf("source bag must not change")
	}
}

func TestReplyEncodeDecode(t *testing.T) {
	var out bytes.Buffer
	replyEncodeCmd.SetOut(&out)
	t.Cleanup(func() { replyEncodeCmd.SetOut(nil) })

	for name, value := range map[string]string{"slot": "1", "req": "7", "payload": "x"} {
		if err := replyEncodeCmd.Flags().Set(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	t.Cleanup(func() {
		for _, name := range []string{"slot", "req", "payload"} {
			f := replyEncodeCmd.Flags().Lookup(name)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	if err := runReplyEncode(replyEncodeCmd, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "30064771073^x" {
		t.Fatalf("encode = %q, want 30064771073^x", got)
	}

	out.Reset()
	replyDecodeCmd.SetOut(&out)
	t.Cleanup(func() { replyDecodeCmd.SetOut(nil) })
	if err := runReplyDecode(replyDecodeCmd, []string{"30064771073^a^b"}); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "slot:    1\nreq_id:  7\npayload: \"a^b\"\n"
	if out.String() != want {
		t.Fatalf("decode output = %q, want %q", out.String(), want)
	}

	if err := runReplyDecode(replyDecodeCmd, []string{"^x"}); err == nil {
		t.Fatalf("expected error for empty header")
	}
}

func TestInitWritesManifest(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)
	var out bytes.Buffer
	initCmd.SetOut(&out)
	t.Cleanup(func() { initCmd.SetOut(nil) })

	if err := runInit(initCmd, []string{"my-crate"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	manifest := filepath.Join(root, "my-crate", project.ManifestName)
	cfg, err := project.LoadConfig(manifest)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Generate.LibraryName != "my_crate" {
		t.Errorf("library name = %q, want my_crate", cfg.Generate.LibraryName)
	}
	if !strings.Contains(out.String(), "Initialized rid project in my-crate") {
		t.Errorf("unexpected output %q", out.String())
	}

	if err := runInit(initCmd, []string{"my-crate"}); err == nil {
		t.Fatalf("second init must refuse to overwrite")
	}
	if _, err := os.Stat(manifest); err != nil {
		t.Fatalf("manifest gone: %v", err)
	}
}
