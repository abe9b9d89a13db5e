package plan

import (
	"fmt"
	"slices"

	"rid/internal/diag"
	"rid/internal/source"
)

// EmissionContext tracks what one generator invocation has already emitted:
// shared accessors keyed by element type and every exported symbol.
type EmissionContext struct {
	claimed map[string]struct{}
	symbols map[string]source.Span
	order   []string
}

func NewEmissionContext() *EmissionContext {
	return &EmissionContext{
		claimed: map[string]struct{}{},
		symbols: map[string]source.Span{},
	}
}

// Once claims key and reports whether this is the first claim.
func (c *EmissionContext) Once(key string) bool {
	if _, ok := c.claimed[key]; ok {
		return false
	}
	c.claimed[key] = struct{}{}
	return true
}

// Reserve defines all syms for the item at sp, or none of them when any is
// already taken. A clash is reported at sp with a note at the first owner.
func (c *EmissionContext) Reserve(syms []string, sp source.Span, r diag.Reporter) bool {
	seen := make(map[string]struct{}, len(syms))
	for _, s := range syms {
		prev, taken := c.symbols[s]
		_, dup := seen[s]
		if taken || dup {
			b := diag.ReportError(r, diag.IntDuplicateSymbol, sp,
				fmt.Sprintf("exported symbol `%s` is already defined", s))
			if taken {
				b = b.WithNote(prev, "first defined here")
			}
			b.Emit()
			return false
		}
		seen[s] = struct{}{}
	}
	for _, s := range syms {
		c.symbols[s] = sp
		c.order = append(c.order, s)
	}
	return true
}

// Shared defines accessor symbols claimed through Once.
func (c *EmissionContext) Shared(syms ...string) {
	for _, s := range syms {
		if _, ok := c.symbols[s]; ok {
			continue
		}
		c.symbols[s] = source.Span{}
		c.order = append(c.order, s)
	}
}

func (c *EmissionContext) Defined(sym string) bool {
	_, ok := c.symbols[sym]
	return ok
}

// Symbols lists exported symbols in definition order.
func (c *EmissionContext) Symbols() []string {
	return slices.Clone(c.order)
}
