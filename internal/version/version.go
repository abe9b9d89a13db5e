// Package version carries the build fingerprint of the rid binary.
package version

import (
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
)

// Set at build time via -ldflags "-X rid/internal/version.Version=...".
var (
	Version    = "0.1.0-dev"
	GitCommit  = ""
	GitMessage = ""
	BuildDate  = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Info is the fingerprint as reported by `rid version`.
type Info struct {
	Version    string
	GitCommit  string
	GitMessage string
	BuildDate  string
}

// Current collects the fingerprint; a missing commit falls back to the VCS
// stamp embedded by the Go toolchain.
func Current() Info {
	info := Info{
		Version:    strings.TrimSpace(Version),
		GitCommit:  strings.TrimSpace(GitCommit),
		GitMessage: strings.TrimSpace(GitMessage),
		BuildDate:  strings.TrimSpace(BuildDate),
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.GitCommit == "" || info.BuildDate == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				switch {
				case s.Key == "vcs.revision" && info.GitCommit == "":
					info.GitCommit = s.Value
				case s.Key == "vcs.time" && info.BuildDate == "":
					info.BuildDate = s.Value
				}
			}
		}
	}
	return info
}

// Colored renders "major.minor.patch[-suffix]" with one color per part.
// Anything that is not a three-part version is returned unchanged.
func Colored(v string) string {
	core, suffix, hasSuffix := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return v
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if hasSuffix {
		out += "-" + suffix
	}
	return out
}

// CacheSalt identifies the generator build for cache keys; outputs from a
// different build are never reused.
func CacheSalt() string {
	i := Current()
	return i.Version + "+" + i.GitCommit
}
