package diag

import (
	"cmp"
	"slices"

	"rid/internal/source"
)

// Bag collects diagnostics up to an optional limit.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag holding at most limit diagnostics; limit <= 0 means
// unbounded.
func NewBag(limit int) *Bag {
	hint := 64
	if limit > 0 {
		hint = min(limit, hint)
	}
	return &Bag{items: make([]Diagnostic, 0, hint), max: limit}
}

// Add reports false when the limit dropped d.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Cap returns the limit the bag was created with.
func (b *Bag) Cap() int { return b.max }

func (b *Bag) Len() int { return len(b.items) }

// Items returns the backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) countAtLeast(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity >= sev {
			n++
		}
	}
	return n
}

func (b *Bag) HasErrors() bool   { return b.countAtLeast(SevError) > 0 }
func (b *Bag) HasWarnings() bool { return b.countAtLeast(SevWarning) > 0 }
func (b *Bag) ErrorCount() int   { return b.countAtLeast(SevError) }

// Merge appends other's diagnostics, growing the limit when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	if b.max > 0 {
		b.max = max(b.max, len(b.items))
	}
}

// Sort orders by file and span, then errors before warnings, then by code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Dedup keeps the first diagnostic per code and primary span.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span source.Span
	}
	seen := make(map[key]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := key{d.Code, d.Primary}
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
		return false
	})
}
