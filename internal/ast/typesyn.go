package ast

import (
	"strings"

	"rid/internal/source"
)

type TypeExprKind uint8

const (
	TypeExprPath TypeExprKind = iota
	TypeExprRef
	TypeExprPtr
	TypeExprTuple
	TypeExprSlice
	TypeExprArray
	TypeExprFn
	TypeExprTraitObject // dyn Trait / impl Trait
	TypeExprNever
	TypeExprInfer
	TypeExprQualified // <T as Trait>::Assoc
)

func (k TypeExprKind) String() string {
	switch k {
	case TypeExprPath:
		return "path"
	case TypeExprRef:
		return "reference"
	case TypeExprPtr:
		return "raw pointer"
	case TypeExprTuple:
		return "tuple"
	case TypeExprSlice:
		return "slice"
	case TypeExprArray:
		return "array"
	case TypeExprFn:
		return "function pointer"
	case TypeExprTraitObject:
		return "trait object"
	case TypeExprNever:
		return "never type"
	case TypeExprInfer:
		return "inferred type"
	case TypeExprQualified:
		return "qualified path"
	}
	return "unknown"
}

// PathSegment is one `Name<Args>` piece of a path type.
type PathSegment struct {
	Name      string
	Span      source.Span
	Args      []TypeID
	Lifetimes []string
}

// TypeExpr is the syntax of a type. Only the fields relevant to Kind are set.
type TypeExpr struct {
	Kind TypeExprKind
	Span source.Span

	// TypeExprPath
	Segments []PathSegment

	// TypeExprRef / TypeExprPtr / TypeExprSlice / TypeExprArray
	Mut      bool
	Lifetime string
	Elem     TypeID

	// TypeExprTuple
	Elems []TypeID

	// TypeExprTraitObject / TypeExprFn / TypeExprArray / TypeExprQualified: source text
	Text string
}

// LastSegment returns the final path segment or nil for non-path types.
func (t *TypeExpr) LastSegment() *PathSegment {
	if t.Kind != TypeExprPath || len(t.Segments) == 0 {
		return nil
	}
	return &t.Segments[len(t.Segments)-1]
}

// PathString renders the path without generic arguments: `std::ffi::CString`.
func (t *TypeExpr) PathString() string {
	names := make([]string, len(t.Segments))
	for i, s := range t.Segments {
		names[i] = s.Name
	}
	return strings.Join(names, "::")
}

type TypeExprs struct {
	Arena *Arena[TypeExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	return &TypeExprs{
		Arena: NewArena[TypeExpr](capHint),
	}
}

func (t *TypeExprs) New(expr TypeExpr) TypeID {
	return TypeID(t.Arena.Allocate(expr))
}

func (t *TypeExprs) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}
