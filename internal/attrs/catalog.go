// Package attrs recognizes the `#[rid::...]` annotation grammar: a sorted
// catalog of known attributes and the per-item Config they produce.
package attrs

import (
	"slices"
	"strings"
)

// Namespace is the path prefix every generator attribute carries.
const Namespace = "rid"

// TargetMask describes the item kinds an attribute may be applied to.
type TargetMask uint8

const (
	TargetNone   TargetMask = 0
	TargetStruct TargetMask = 1 << iota
	TargetEnum
	TargetFn     // free functions
	TargetImpl   // impl blocks
	TargetMethod // functions inside an impl block

	TargetAny = TargetStruct | TargetEnum | TargetFn | TargetImpl | TargetMethod
)

func (m TargetMask) String() string {
	var names []string
	for _, t := range []struct {
		bit  TargetMask
		name string
	}{
		{TargetStruct, "struct"},
		{TargetEnum, "enum"},
		{TargetFn, "fn"},
		{TargetImpl, "impl"},
		{TargetMethod, "method"},
	} {
		if m&t.bit != 0 {
			names = append(names, t.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// ArgShape is the argument form an attribute accepts.
type ArgShape uint8

const (
	ArgsNone          ArgShape = iota // #[rid::model]
	ArgsOptionalIdent                 // #[rid::export], #[rid::export(name)]
	ArgsIdent                         // #[rid::message(Reply)]
	ArgsIdentList                     // #[rid::structs(A, B)]
	ArgsNameCategory                  // #[rid::types(A = Struct)]
)

func (s ArgShape) String() string {
	switch s {
	case ArgsNone:
		return "no arguments"
	case ArgsOptionalIdent:
		return "optional identifier"
	case ArgsIdent:
		return "identifier"
	case ArgsIdentList:
		return "identifier list"
	case ArgsNameCategory:
		return "Name = Struct|Enum list"
	}
	return "unknown"
}

// Spec describes one generator attribute.
type Spec struct {
	Name    string
	Targets TargetMask
	Args    ArgShape
	Doc     string
}

// Allows reports whether the attribute can be applied to the provided target bit.
func (spec Spec) Allows(target TargetMask) bool {
	return spec.Targets&target != 0
}

// Usage renders the attribute the way an author writes it.
func (spec Spec) Usage() string {
	base := "#[" + Namespace + "::" + spec.Name
	switch spec.Args {
	case ArgsOptionalIdent:
		return base + "] / " + base + "(name)]"
	case ArgsIdent:
		return base + "(Reply)]"
	case ArgsIdentList:
		return base + "(A, B)]"
	case ArgsNameCategory:
		return base + "(A = Struct, B = Enum)]"
	}
	return base + "]"
}

var registry = map[string]Spec{
	"model":   {Name: "model", Targets: TargetStruct | TargetEnum, Args: ArgsNone, Doc: "generate bindings for the item"},
	"store":   {Name: "store", Targets: TargetStruct, Args: ArgsNone, Doc: "the single mutex-guarded store; implies model"},
	"export":  {Name: "export", Targets: TargetFn | TargetImpl | TargetMethod, Args: ArgsOptionalIdent, Doc: "export a function or the marked methods of an impl"},
	"message": {Name: "message", Targets: TargetEnum, Args: ArgsIdent, Doc: "message enum paired with its reply enum"},
	"reply":   {Name: "reply", Targets: TargetEnum, Args: ArgsNone, Doc: "reply enum posted asynchronously to the client"},
	"structs": {Name: "structs", Targets: TargetAny, Args: ArgsIdentList, Doc: "register struct types used by the item"},
	"enums":   {Name: "enums", Targets: TargetAny, Args: ArgsIdentList, Doc: "register enum types used by the item"},
	"types":   {Name: "types", Targets: TargetAny, Args: ArgsNameCategory, Doc: "register types with an explicit category"},
	"debug":   {Name: "debug", Targets: TargetStruct | TargetEnum, Args: ArgsNone, Doc: "emit debug and pretty-debug accessors"},
}

// Lookup returns metadata for the attribute name without the namespace.
func Lookup(name string) (Spec, bool) {
	spec, ok := registry[name]
	return spec, ok
}

// Specs returns all attribute specifications sorted by name.
func Specs() []Spec {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	result := make([]Spec, 0, len(names))
	for _, name := range names {
		result = append(result, registry[name])
	}
	return result
}

// Names returns the sorted attribute names.
func Names() []string {
	specs := Specs()
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}
