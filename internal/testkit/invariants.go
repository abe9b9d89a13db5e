package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"rid/internal/ast"
	"rid/internal/source"
)

// spanChecker accumulates every violation instead of stopping at the first.
type spanChecker struct {
	b    *ast.Builder
	file source.FileID
	errs []error
}

func (c *spanChecker) failf(format string, args ...any) {
	c.errs = append(c.errs, fmt.Errorf(format, args...))
}

// inside checks that what (named for the message) lies in outer.
func (c *spanChecker) inside(what string, sp, outer source.Span) {
	if sp.File != c.file {
		c.failf("%s: span %v belongs to file %d, want %d", what, sp, sp.File, c.file)
		return
	}
	if !outer.Contains(sp) {
		c.failf("%s: span %v is outside %v", what, sp, outer)
	}
}

// CheckSpanInvariants verifies the span tree of a parsed file: the file span
// is non-empty and within the content, and every item, its name, its fields,
// variants and methods nest inside their parent. All violations are joined.
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return errors.New("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node %d not found", fileID)
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("content length: %w", err)
	}
	c := &spanChecker{b: b, file: sf.ID}
	if f.Span.Empty() {
		c.failf("file span %v is empty", f.Span)
	}
	c.inside("file", f.Span, source.Span{File: sf.ID, Start: 0, End: size})

	for _, id := range f.Items {
		item := b.Items.Get(id)
		if item == nil {
			c.failf("item %d: missing node", id)
			continue
		}
		label := fmt.Sprintf("item %q", item.Name)
		if item.Span.Empty() {
			c.failf("%s: empty span %v", label, item.Span)
		}
		c.inside(label, item.Span, f.Span)
		c.members(id, item, label)
	}
	return errors.Join(c.errs...)
}

func (c *spanChecker) members(id ast.ItemID, item *ast.Item, label string) {
	sp := item.Span
	if item.Name != "" {
		c.inside(label+" name", item.NameSpan, sp)
	}
	var fields []ast.FieldID
	switch item.Kind {
	case ast.ItemStruct, ast.ItemUnion:
		fields = c.b.Items.Struct(id).Fields
	case ast.ItemEnum:
		for _, vid := range c.b.Items.Enum(id).Variants {
			v := c.b.Items.Variant(vid)
			c.inside(label+" variant "+v.Name, v.Span, sp)
			fields = append(fields, v.Fields...)
		}
	case ast.ItemImpl:
		for _, mid := range c.b.Items.Impl(id).Methods {
			m := c.b.Items.Get(mid)
			c.inside(label+" method "+m.Name, m.Span, sp)
		}
	}
	for _, fid := range fields {
		fd := c.b.Items.Field(fid)
		c.inside(label+" field "+fd.Name, fd.Span, sp)
	}
}
