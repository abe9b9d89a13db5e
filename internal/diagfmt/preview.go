package diagfmt

import (
	"bytes"
	"fmt"
	"strings"

	"rid/internal/diag"
	"rid/internal/source"
)

// fixEditPreview holds the whole lines an edit touches, before and after it
// is applied.
type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview applies edit to a copy of the lines it spans. An edit
// whose OldText no longer matches the source has no preview.
func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	content := file.Content
	start, end := int(edit.Span.Start), int(edit.Span.End)
	if start > end || end > len(content) {
		return fixEditPreview{}, fmt.Errorf("edit span %d..%d out of range (%d bytes)", start, end, len(content))
	}
	if edit.OldText != "" && string(content[start:end]) != edit.OldText {
		return fixEditPreview{}, fmt.Errorf("stale edit: expected %q at %d", edit.OldText, start)
	}

	lineStart := bytes.LastIndexByte(content[:start], '\n') + 1
	lineEnd := len(content)
	if i := bytes.IndexByte(content[end:], '\n'); i >= 0 {
		lineEnd = end + i
	}
	block := content[lineStart:lineEnd]

	var after strings.Builder
	after.Write(block[:start-lineStart])
	after.WriteString(edit.NewText)
	after.Write(block[end-lineStart:])

	return fixEditPreview{
		before: previewLines(string(block)),
		after:  previewLines(after.String()),
	}, nil
}

func previewLines(text string) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
