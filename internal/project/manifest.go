package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrNoManifest is returned when no rid.toml exists above the start directory.
var ErrNoManifest = errors.New("no rid.toml found")

// Manifest is a loaded rid.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the sections of rid.toml.
type Config struct {
	Package  PackageConfig  `toml:"package"`
	Generate GenerateConfig `toml:"generate"`
	Cache    CacheConfig    `toml:"cache"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

// GenerateConfig holds input globs and output paths, relative to the manifest.
type GenerateConfig struct {
	Inputs        []string `toml:"inputs"`
	HostOut       string   `toml:"host_out"`
	ClientOut     string   `toml:"client_out"`
	RuntimeOut    string   `toml:"runtime_out"`
	FFIGenBinding string   `toml:"ffigen_binding"`
	LibraryName   string   `toml:"library_name"`
	HostModule    string   `toml:"host_module"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// DefaultConfig is what `rid init` writes for a crate named name.
func DefaultConfig(name string) Config {
	return Config{
		Package: PackageConfig{Name: name},
		Generate: GenerateConfig{
			Inputs:        []string{"src/**/*.rs"},
			HostOut:       "src/rid_generated.rs",
			ClientOut:     "lib/generated/rid_generated.dart",
			RuntimeOut:    "lib/generated/rid_runtime.dart",
			FFIGenBinding: "ffigen_binding.dart",
			LibraryName:   name,
		},
		Cache: CacheConfig{Enabled: true, Dir: ".rid-cache"},
	}
}

// Load finds rid.toml above startDir and decodes it. ok is false when no
// manifest exists; that is not an error.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes one manifest file. Missing optional keys fall back
// to DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return finish(path, cfg, meta)
}

// DecodeConfig is LoadConfig over in-memory content; name is used in errors.
func DecodeConfig(name, content string) (Config, error) {
	var cfg Config
	meta, err := toml.Decode(content, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	return finish(name, cfg, meta)
}

func finish(path string, cfg Config, meta toml.MetaData) (Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	def := DefaultConfig(cfg.Package.Name)
	g := &cfg.Generate
	for _, f := range []struct {
		key string
		dst *string
		def string
	}{
		{"host_out", &g.HostOut, def.Generate.HostOut},
		{"client_out", &g.ClientOut, def.Generate.ClientOut},
		{"runtime_out", &g.RuntimeOut, def.Generate.RuntimeOut},
		{"ffigen_binding", &g.FFIGenBinding, def.Generate.FFIGenBinding},
		{"library_name", &g.LibraryName, def.Generate.LibraryName},
	} {
		if !meta.IsDefined("generate", f.key) {
			*f.dst = f.def
		} else if strings.TrimSpace(*f.dst) == "" {
			return Config{}, fmt.Errorf("%s: [generate].%s must not be empty", path, f.key)
		}
	}
	if !meta.IsDefined("generate", "inputs") {
		g.Inputs = def.Generate.Inputs
	}
	if len(g.Inputs) == 0 {
		return Config{}, fmt.Errorf("%s: [generate].inputs is empty", path)
	}
	if !meta.IsDefined("cache") {
		cfg.Cache = def.Cache
	} else if !meta.IsDefined("cache", "dir") {
		cfg.Cache.Dir = def.Cache.Dir
	}
	return cfg, nil
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode rid.toml: %w", err)
	}
	return buf.Bytes(), nil
}

// Abs resolves a manifest-relative path.
func (m *Manifest) Abs(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Root, filepath.FromSlash(rel))
}

// Inputs expands the [generate].inputs globs into sorted absolute paths.
// A `**` segment matches any number of directories.
func (m *Manifest) Inputs() ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range m.Config.Generate.Inputs {
		matches, err := expandGlob(m.Root, filepath.ToSlash(pattern))
		if err != nil {
			return nil, fmt.Errorf("%s: input %q: %w", m.Path, pattern, err)
		}
		for _, p := range matches {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func expandGlob(root, pattern string) ([]string, error) {
	head, tail, recursive := strings.Cut(pattern, "**/")
	if !recursive {
		return filepath.Glob(filepath.Join(root, filepath.FromSlash(pattern)))
	}
	base := filepath.Join(root, filepath.FromSlash(head))
	var out []string
	err := filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		matches, err := filepath.Glob(filepath.Join(path, filepath.FromSlash(tail)))
		if err != nil {
			return err
		}
		out = append(out, matches...)
		return nil
	})
	return out, err
}
