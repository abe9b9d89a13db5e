package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"rid/internal/diag"
	"rid/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// DryRun computes the new contents without touching the disk.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to opts, and applies them.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, skips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, skips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	selected, skips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, skips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	st := newStage(fs)
	for _, cand := range selected {
		n, reason := st.apply(cand.fix)
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: reason})
			continue
		}
		result.Applied = append(result.Applied, AppliedFix{
			ID:            cand.fix.ID,
			Title:         cand.fix.Title,
			Code:          cand.diag.Code,
			Message:       cand.diag.Message,
			Applicability: cand.fix.Applicability,
			PrimaryPath:   formatFilePath(fs, cand.diag.Primary.File),
			EditCount:     n,
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	changes, err := st.flush(opts.DryRun)
	result.FileChanges = changes
	return result, err
}

// gatherCandidates flattens the fixes of every diagnostic. Fixes without
// edits and repeated ids are skipped; a missing id is derived from the
// diagnostic code, its primary span and the fix index.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
	)
	seen := make(map[string]bool)
	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d", MakeFixID(d.Code, d.Primary), idx)
			}
			if seen[f.ID] {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[f.ID] = true
			cands = append(cands, candidate{diag: d, fix: f, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders by primary span and code; within one diagnostic
// preferred fixes go first, then insertion order.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		di, dj := ci.diag, cj.diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		if ci.fix.IsPreferred != cj.fix.IsPreferred {
			return ci.fix.IsPreferred
		}
		if ci.order != cj.order {
			return ci.order < cj.order
		}
		if ci.fix.ID != cj.fix.ID {
			return ci.fix.ID < cj.fix.ID
		}
		return ci.fix.Title < cj.fix.Title
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.fix.ID == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
	case ApplyModeAll:
		// одна правка на диагностику: предпочтительная, если безопасна
		var (
			selected []candidate
			skipped  []SkippedFix
		)
		taken := make(map[diagKey]bool)
		for _, cand := range candidates {
			key := keyOf(cand.diag)
			switch {
			case taken[key]:
				skipped = append(skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: "another fix for the same diagnostic was selected"})
			case cand.fix.Applicability == diag.FixApplicabilityManualReview:
				skipped = append(skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: fmt.Sprintf("applicability is %s", cand.fix.Applicability)})
			default:
				taken[key] = true
				selected = append(selected, cand)
			}
		}
		return selected, skipped
	case ApplyModeOnce:
		for _, cand := range candidates {
			if cand.fix.Applicability == diag.FixApplicabilityAlwaysSafe || cand.fix.IsPreferred {
				return []candidate{cand}, nil
			}
		}
		return candidates[:1], nil
	default:
		return nil, nil
	}
}

// diagKey identifies a diagnostic; fixes of one diagnostic are alternatives.
type diagKey struct {
	span source.Span
	code diag.Code
}

func keyOf(d diag.Diagnostic) diagKey {
	return diagKey{span: d.Primary, code: d.Code}
}

// stage accumulates edited buffers per file until flush.
type stage struct {
	fs      *source.FileSet
	buffers map[source.FileID][]byte
	applied map[source.FileID][]diag.FixEdit
	counts  map[source.FileID]int
}

func newStage(fs *source.FileSet) *stage {
	return &stage{
		fs:      fs,
		buffers: make(map[source.FileID][]byte),
		applied: make(map[source.FileID][]diag.FixEdit),
		counts:  make(map[source.FileID]int),
	}
}

// apply stages every edit of f or none of them; a non-empty reason means
// the fix was rejected.
func (st *stage) apply(f diag.Fix) (int, string) {
	buckets := groupEditsByFile(f.Edits)
	ids := make([]source.FileID, 0, len(buckets))
	for id := range buckets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	nextBuf := make(map[source.FileID][]byte, len(ids))
	nextApplied := make(map[source.FileID][]diag.FixEdit, len(ids))
	total := 0
	for _, fileID := range ids {
		edits := buckets[fileID]
		file := st.fs.Get(fileID)
		if file == nil {
			return 0, "target file is unknown"
		}
		if file.Flags&source.FileVirtual != 0 {
			return 0, "target file is virtual"
		}
		if conflictsWithExisting(st.applied[fileID], edits) {
			return 0, fmt.Sprintf("conflicts with previously applied edits in %s", file.FormatPath("auto", st.fs.BaseDir()))
		}
		working := st.buffers[fileID]
		if working == nil {
			working = file.Content
		}
		working = append([]byte(nil), working...)
		done := append([]diag.FixEdit(nil), st.applied[fileID]...)

		// с конца, чтобы смещения ещё не применённых правок не сдвигались
		sort.SliceStable(edits, func(i, j int) bool {
			if edits[i].Span.Start == edits[j].Span.Start {
				return edits[i].Span.End > edits[j].Span.End
			}
			return edits[i].Span.Start > edits[j].Span.Start
		})
		for _, edit := range edits {
			start := int(edit.Span.Start) + cumulativeDelta(done, int(edit.Span.Start))
			end := int(edit.Span.End) + cumulativeDelta(done, int(edit.Span.End))
			if start < 0 || end < start || end > len(working) {
				return 0, "edit span out of range"
			}
			if edit.OldText != "" && string(working[start:end]) != edit.OldText {
				return 0, "existing text does not match expected content"
			}
			suffix := append([]byte(nil), working[end:]...)
			working = append(append(working[:start], edit.NewText...), suffix...)
			done = insertEditSorted(done, edit)
		}
		nextBuf[fileID] = working
		nextApplied[fileID] = done
		total += len(edits)
	}
	for _, fileID := range ids {
		st.buffers[fileID] = nextBuf[fileID]
		st.applied[fileID] = nextApplied[fileID]
		st.counts[fileID] += len(buckets[fileID])
	}
	return total, ""
}

func (st *stage) flush(dryRun bool) ([]FileChange, error) {
	changes := make([]FileChange, 0, len(st.buffers))
	for fileID, buf := range st.buffers {
		file := st.fs.Get(fileID)
		if !dryRun {
			mode := os.FileMode(0o644)
			if info, err := os.Stat(file.Path); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(file.Path, buf, mode); err != nil {
				return changes, fmt.Errorf("write %s: %w", file.Path, err)
			}
		}
		changes = append(changes, FileChange{
			Path:      file.FormatPath("relative", st.fs.BaseDir()),
			EditCount: st.counts[fileID],
			Content:   buf,
		})
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})
	return changes, nil
}

func conflictsWithExisting(existing, edits []diag.FixEdit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if spansConflict(prev, cand) {
				return true
			}
		}
	}
	return false
}

// spansConflict reports whether two half-open edit spans overlap. Two
// insertions never conflict; an insertion conflicts with a span that
// strictly contains its position.
func spansConflict(a, b diag.FixEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func groupEditsByFile(edits []diag.FixEdit) map[source.FileID][]diag.FixEdit {
	buckets := make(map[source.FileID][]diag.FixEdit)
	for _, edit := range edits {
		buckets[edit.Span.File] = append(buckets[edit.Span.File], edit)
	}
	return buckets
}

// cumulativeDelta is the byte shift at pos caused by already applied edits.
func cumulativeDelta(edits []diag.FixEdit, pos int) int {
	delta := 0
	for _, e := range edits {
		eStart := int(e.Span.Start)
		if eStart > pos {
			break
		}
		eEnd := int(e.Span.End)
		if eEnd <= pos {
			delta += len(e.NewText) - (eEnd - eStart)
		}
	}
	return delta
}

func insertEditSorted(edits []diag.FixEdit, edit diag.FixEdit) []diag.FixEdit {
	i := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	edits = append(edits, diag.FixEdit{})
	copy(edits[i+1:], edits[i:])
	edits[i] = edit
	return edits
}

func formatFilePath(fs *source.FileSet, fileID source.FileID) string {
	file := fs.Get(fileID)
	if file == nil {
		return ""
	}
	return file.FormatPath("auto", fs.BaseDir())
}
