package diag

import "rid/internal/source"

// dedupKey identifies a report by what the user sees: code, location and text.
type dedupKey struct {
	code Code
	span source.Span
	msg  string
}

// DedupReporter forwards each distinct report once. Parser recovery and
// per-method type resolution can hit the same span repeatedly; only the
// first report reaches next.
type DedupReporter struct {
	next       Reporter
	seen       map[dedupKey]struct{}
	suppressed int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: map[dedupKey]struct{}{}}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r == nil || r.next == nil {
		return
	}
	k := dedupKey{code: code, span: primary, msg: msg}
	if _, dup := r.seen[k]; dup {
		r.suppressed++
		return
	}
	r.seen[k] = struct{}{}
	r.next.Report(code, sev, primary, msg, notes, fixes)
}

// Suppressed counts the reports dropped as duplicates.
func (r *DedupReporter) Suppressed() int {
	if r == nil {
		return 0
	}
	return r.suppressed
}
