package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rid/internal/project"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestListRSFilesSkipsTargetAndHidden(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"src/lib.rs",
		"src/model/todo.rs",
		"src/notes.txt",
		"target/debug/build.rs",
		".git/hooks.rs",
	} {
		writeFile(t, filepath.Join(root, rel), "")
	}
	got, err := listRSFiles(root)
	if err != nil {
		t.Fatalf("listRSFiles: %v", err)
	}
	want := []string{
		filepath.Join(root, "src/lib.rs"),
		filepath.Join(root, "src/model/todo.rs"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("listRSFiles mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandInputs(t *testing.T) {
	root := t.TempDir()
	single := filepath.Join(root, "one.rs")
	writeFile(t, single, "")
	writeFile(t, filepath.Join(root, "dir", "a.rs"), "")
	writeFile(t, filepath.Join(root, "dir", "b.rs"), "")

	got, err := expandInputs([]string{single, filepath.Join(root, "dir")})
	if err != nil {
		t.Fatalf("expandInputs: %v", err)
	}
	want := []string{single, filepath.Join(root, "dir", "a.rs"), filepath.Join(root, "dir", "b.rs")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("expandInputs mismatch (-want +got):\n%s", diff)
	}

	if _, err := expandInputs([]string{filepath.Join(root, "missing.rs")}); err == nil {
		t.Fatalf("expected error for missing input")
	}
}

func TestExcludePath(t *testing.T) {
	root := t.TempDir()
	gen := filepath.Join(root, "src", "rid_generated.rs")
	inputs := []string{filepath.Join(root, "src", "lib.rs"), gen}
	got := excludePath(inputs, gen)
	if diff := cmp.Diff([]string{filepath.Join(root, "src", "lib.rs")}, got); diff != "" {
		t.Fatalf("excludePath mismatch (-want +got):\n%s", diff)
	}
	if got := excludePath([]string{"a.rs"}, ""); len(got) != 1 {
		t.Fatalf("empty target must keep inputs, got %v", got)
	}
}

func TestResolveGenConfigFromManifest(t *testing.T) {
	root := t.TempDir()
	data, err := project.Encode(project.DefaultConfig("todo_app"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	writeFile(t, filepath.Join(root, project.ManifestName), string(data))
	writeFile(t, filepath.Join(root, "src", "lib.rs"), "pub struct A {}\n")
	writeFile(t, filepath.Join(root, "src", "rid_generated.rs"), "// generated\n")
	t.Chdir(filepath.Join(root, "src"))

	gc, err := resolveGenConfig(generateCmd, nil)
	if err != nil {
		t.Fatalf("resolveGenConfig: %v", err)
	}
	if diff := cmp.Diff([]string{filepath.Join(root, "src", "lib.rs")}, gc.inputs); diff != "" {
		t.Fatalf("inputs mismatch (-want +got):\n%s", diff)
	}
	if gc.baseDir != root {
		t.Errorf("baseDir = %q, want %q", gc.baseDir, root)
	}
	if want := filepath.Join(root, "lib", "generated", "rid_generated.dart"); gc.targets.Client != want {
		t.Errorf("client target = %q, want %q", gc.targets.Client, want)
	}
	if gc.client.Runtime != "rid_runtime.dart" || gc.client.Library != "todo_app" {
		t.Errorf("client options = %+v", gc.client)
	}
	if gc.cacheDir != filepath.Join(root, ".rid-cache") {
		t.Errorf("cacheDir = %q", gc.cacheDir)
	}
}

func TestResolveGenConfigFlagOverrides(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lib.rs"), "")
	t.Chdir(root)

	if err := generateCmd.Flags().Set("host-module", "ffi"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	t.Cleanup(func() {
		_ = generateCmd.Flags().Set("host-module", "")
		generateCmd.Flags().Lookup("host-module").Changed = false
	})

	gc, err := resolveGenConfig(generateCmd, []string{"lib.rs"})
	if err != nil {
		t.Fatalf("resolveGenConfig: %v", err)
	}
	if gc.host.Module != "ffi" {
		t.Errorf("host module = %q, want ffi", gc.host.Module)
	}
	if gc.manifest != nil || gc.cacheDir != "" {
		t.Errorf("no manifest expected, got %+v", gc)
	}

	if _, err := resolveGenConfig(generateCmd, nil); err == nil {
		t.Fatalf("expected error without inputs and manifest")
	}
}
