package diagfmt

import (
	"fmt"
	"strings"

	"rid/internal/source"
)

// PathMode selects how file paths appear in rendered diagnostics.
type PathMode uint8

const (
	PathModeAuto PathMode = iota // short paths as is, long absolute ones shortened
	PathModeAbsolute
	PathModeRelative // relative to the FileSet base directory
	PathModeBasename
)

var pathModeNames = [...]string{"auto", "absolute", "relative", "basename"}

// String returns the mode name as accepted by ParsePathMode and
// source.File.FormatPath.
func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return "auto"
}

// ParsePathMode reads a --path-mode value.
func ParsePathMode(s string) (PathMode, error) {
	for i, name := range pathModeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return PathMode(i), nil
		}
	}
	return PathModeAuto, fmt.Errorf("unknown path mode %q (expected %s)", s, strings.Join(pathModeNames[:], "|"))
}

// displayPath renders the path of file id under mode.
func displayPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	if f == nil {
		return "<unknown>"
	}
	return f.FormatPath(mode.String(), fs.BaseDir())
}

// PrettyOpts configures the human-readable renderer.
type PrettyOpts struct {
	Color    bool
	Context  int8 // source lines shown around the primary span
	PathMode PathMode
	Width    uint8 // максимальная ширина сообщения, 0 - не ограничено

	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool // render the source as it would read after each fix
}

// JSONOpts configures the machine-readable renderer.
type JSONOpts struct {
	IncludePositions bool // line/col next to byte offsets
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag

	IncludeNotes    bool
	IncludeFixes    bool
	IncludePreviews bool
}

// SarifRunMeta names the producing tool in a SARIF log.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}
