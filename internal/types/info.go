package types

import (
	"maps"
	"slices"

	"rid/internal/attrs"
	"rid/internal/source"
)

// Info is what an attribute registration says about an ident.
type Info struct {
	Category attrs.Category
	Origin   source.Span
}

// InfoMap maps idents to their registered category. Lookups are by ident
// only, so mutually referencing types need no resolution order.
type InfoMap map[string]Info

// NewInfoMap builds an InfoMap from registrations; earlier ones win.
func NewInfoMap(regs []attrs.Registration) InfoMap {
	m := make(InfoMap, len(regs))
	for _, reg := range regs {
		if _, ok := m[reg.Ident]; ok {
			continue
		}
		m[reg.Ident] = Info{Category: reg.Category, Origin: reg.Span}
	}
	return m
}

// Lookup returns the registration for ident.
func (m InfoMap) Lookup(ident string) (Info, bool) {
	info, ok := m[ident]
	return info, ok
}

// With returns a copy of m that also registers ident.
func (m InfoMap) With(ident string, info Info) InfoMap {
	out := maps.Clone(m)
	if out == nil {
		out = InfoMap{}
	}
	out[ident] = info
	return out
}

// Idents returns registered idents in sorted order.
func (m InfoMap) Idents() []string {
	return slices.Sorted(maps.Keys(m))
}
