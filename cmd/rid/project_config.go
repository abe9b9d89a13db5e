package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"rid/internal/clientgen"
	"rid/internal/driver"
	"rid/internal/hostgen"
	"rid/internal/project"
)

// genConfig is rid.toml merged with command-line overrides.
type genConfig struct {
	manifest *project.Manifest
	baseDir  string
	inputs   []string
	targets  driver.Targets
	host     hostgen.Options
	client   clientgen.Options
	cacheDir string
}

// loadManifestFromCwd finds rid.toml above the working directory.
func loadManifestFromCwd() (*project.Manifest, string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}
	manifest, ok, err := project.Load(wd)
	if err != nil {
		return nil, wd, err
	}
	if !ok {
		return nil, wd, nil
	}
	return manifest, wd, nil
}

// resolveGenConfig builds the generation config. Positional args name input
// files or directories; without them the manifest inputs are used.
func resolveGenConfig(cmd *cobra.Command, args []string) (*genConfig, error) {
	manifest, wd, err := loadManifestFromCwd()
	if err != nil {
		return nil, err
	}
	var cfg project.Config
	gc := &genConfig{manifest: manifest, baseDir: wd}
	abs := func(rel string) string {
		if rel == "" || filepath.IsAbs(rel) {
			return rel
		}
		return filepath.Join(wd, filepath.FromSlash(rel))
	}
	if manifest != nil {
		cfg = manifest.Config
		gc.baseDir = manifest.Root
		abs = manifest.Abs
	} else {
		cfg = project.DefaultConfig("rid")
	}

	g := cfg.Generate
	for _, o := range []struct {
		flag string
		dst  *string
	}{
		{"host-out", &g.HostOut},
		{"client-out", &g.ClientOut},
		{"runtime-out", &g.RuntimeOut},
		{"ffigen-binding", &g.FFIGenBinding},
		{"library", &g.LibraryName},
		{"host-module", &g.HostModule},
	} {
		if cmd.Flags().Lookup(o.flag) == nil || !cmd.Flags().Changed(o.flag) {
			continue
		}
		v, err := cmd.Flags().GetString(o.flag)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", o.flag, err)
		}
		*o.dst = v
	}

	gc.targets = driver.Targets{
		Host:    abs(g.HostOut),
		Client:  abs(g.ClientOut),
		Runtime: abs(g.RuntimeOut),
	}
	gc.host = hostgen.Options{Module: g.HostModule}
	gc.client = clientgen.Options{
		Binding: g.FFIGenBinding,
		Runtime: filepath.Base(g.RuntimeOut),
		Library: g.LibraryName,
	}
	if manifest != nil && cfg.Cache.Enabled && cfg.Cache.Dir != "" {
		gc.cacheDir = abs(cfg.Cache.Dir)
	}

	switch {
	case len(args) > 0:
		gc.inputs, err = expandInputs(args)
	case manifest != nil:
		gc.inputs, err = manifest.Inputs()
	default:
		return nil, errors.New("no inputs: pass .rs files or directories, or create rid.toml with `rid init`")
	}
	if err != nil {
		return nil, err
	}
	gc.inputs = excludePath(gc.inputs, gc.targets.Host)
	return gc, nil
}

// openCache opens the manifest cache. Runs without rid.toml share the per-user
// cache; a manifest with the cache disabled yields nil.
func (gc *genConfig) openCache() (*driver.DiskCache, error) {
	switch {
	case gc.cacheDir != "":
		return driver.OpenDiskCache(gc.cacheDir)
	case gc.manifest == nil:
		return driver.OpenUserCache("rid")
	default:
		return nil, nil
	}
}

// resolveInputs is resolveGenConfig for commands that only read sources.
func resolveInputs(cmd *cobra.Command, args []string) ([]string, string, error) {
	gc, err := resolveGenConfig(cmd, args)
	if err != nil {
		return nil, "", err
	}
	return gc.inputs, gc.baseDir, nil
}

// expandInputs keeps files as given and walks directories for *.rs files.
func expandInputs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path: %w", err)
		}
		if !st.IsDir() {
			out = append(out, arg)
			continue
		}
		files, err := listRSFiles(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

// listRSFiles возвращает отсортированный список всех *.rs файлов в директории,
// пропуская target/ и скрытые каталоги
func listRSFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (name == "target" || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".rs") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// excludePath drops target from inputs so the generated host file is never
// read back as a source.
func excludePath(inputs []string, target string) []string {
	if target == "" {
		return inputs
	}
	targetAbs, err := filepath.Abs(target)
	if err != nil {
		return inputs
	}
	out := inputs[:0]
	for _, in := range inputs {
		if a, err := filepath.Abs(in); err == nil && a == targetAbs {
			continue
		}
		out = append(out, in)
	}
	return out
}
