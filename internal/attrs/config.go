package attrs

import (
	"fmt"
	"slices"
	"strings"

	"rid/internal/ast"
	"rid/internal/diag"
	"rid/internal/source"
)

// Category is the kind a registered type belongs to.
type Category uint8

const (
	CategoryStruct Category = iota
	CategoryEnum
)

func (c Category) String() string {
	if c == CategoryEnum {
		return "Enum"
	}
	return "Struct"
}

// ParseCategory accepts the category names used in `types(A = Struct)`.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "Struct":
		return CategoryStruct, true
	case "Enum":
		return CategoryEnum, true
	}
	return CategoryStruct, false
}

// Registration is one type made known to the resolver by an attribute.
type Registration struct {
	Ident    string
	Category Category
	Span     source.Span
}

// Config is the generator view of one item's attributes.
type Config struct {
	Model bool
	Store bool
	Reply bool
	Debug bool

	Export     bool
	ExportName string
	ExportSpan source.Span

	// Message is the reply enum named by `message(Reply)`.
	Message     string
	MessageSpan source.Span

	Registrations []Registration
	// Derives lists the idents of every `derive(...)` on the item.
	Derives []string

	// Spans keeps the span of each rid attribute by name.
	Spans map[string]source.Span
}

// HasRid reports whether any generator attribute was present.
func (c *Config) HasRid() bool {
	return len(c.Spans) > 0
}

// Derived reports whether trait was listed in a derive attribute.
func (c *Config) Derived(trait string) bool {
	return slices.Contains(c.Derives, trait)
}

// Span returns the span of the named rid attribute.
func (c *Config) Span(name string) source.Span {
	return c.Spans[name]
}

// Merge adds registrations from an enclosing item (impl → method).
func (c *Config) Merge(outer *Config) {
	if outer == nil {
		return
	}
	c.Registrations = append(slices.Clone(outer.Registrations), c.Registrations...)
}

// Parse collects the generator configuration of attrs applied to target.
// Problems are reported to r; the returned Config holds everything that was valid.
func Parse(list []ast.Attr, target TargetMask, r diag.Reporter) Config {
	cfg := Config{Spans: map[string]source.Span{}}
	seenKeys := map[string]source.Span{}

	for i := range list {
		attr := &list[i]
		if attr.Inner {
			continue
		}
		if !attr.InNamespace(Namespace) {
			if attr.PathString() == "derive" {
				for _, arg := range attr.Args {
					if arg.Kind == ast.AttrArgPath {
						cfg.Derives = append(cfg.Derives, lastSegment(arg.Name))
					}
				}
			}
			continue
		}

		if len(attr.Path) != 2 {
			diag.ReportError(r, diag.AtrUnknown, attr.PathSpan,
				fmt.Sprintf("unknown attribute `%s`", attr.PathString())).
				WithNote(attr.Span, "known attributes: "+strings.Join(Names(), ", ")).
				Emit()
			continue
		}
		name := attr.Path[1]
		spec, ok := Lookup(name)
		if !ok {
			diag.ReportError(r, diag.AtrUnknown, attr.PathSpan,
				fmt.Sprintf("unknown attribute `rid::%s`", name)).
				WithNote(attr.Span, "known attributes: "+strings.Join(Names(), ", ")).
				Emit()
			continue
		}
		if !spec.Allows(target) {
			diag.ReportError(r, diag.AtrWrongCarrier, attr.Span,
				fmt.Sprintf("`rid::%s` cannot be applied to %s", name, target)).
				WithNote(attr.Span, "allowed on: "+spec.Targets.String()).
				Emit()
			continue
		}
		if first, dup := cfg.Spans[name]; dup {
			diag.ReportError(r, diag.AtrDuplicate, attr.Span,
				fmt.Sprintf("duplicate attribute `rid::%s`", name)).
				WithNote(first, "first used here").
				WithFix("remove duplicate attribute", diag.FixEdit{Span: attr.Span}).
				Emit()
			continue
		}
		if !checkArgForm(attr, spec, r) {
			continue
		}
		cfg.Spans[name] = attr.Span

		switch name {
		case "model":
			cfg.Model = true
		case "store":
			cfg.Store = true
			cfg.Model = true
		case "reply":
			cfg.Reply = true
		case "debug":
			cfg.Debug = true
		case "export":
			cfg.Export = true
			cfg.ExportSpan = attr.Span
			if len(attr.Args) == 1 {
				cfg.ExportName = attr.Args[0].Name
				cfg.ExportSpan = attr.Args[0].Span
			}
		case "message":
			cfg.Message = attr.Args[0].Name
			cfg.MessageSpan = attr.Args[0].Span
		case "structs", "enums":
			cat := CategoryStruct
			if name == "enums" {
				cat = CategoryEnum
			}
			for _, arg := range attr.Args {
				cfg.addRegistration(Registration{Ident: lastSegment(arg.Name), Category: cat, Span: arg.Span}, seenKeys, r)
			}
		case "types":
			for _, arg := range attr.Args {
				cat, ok := ParseCategory(arg.Value)
				if !ok {
					diag.ReportError(r, diag.AtrUnknownCategory, arg.ValueSpan,
						fmt.Sprintf("unknown type category `%s`; expected `Struct` or `Enum`", arg.Value)).
						Emit()
					continue
				}
				cfg.addRegistration(Registration{Ident: lastSegment(arg.Name), Category: cat, Span: arg.Span}, seenKeys, r)
			}
		}
	}

	if cfg.Message != "" && cfg.Reply {
		diag.ReportError(r, diag.AtrConflict, cfg.Spans["reply"],
			"an enum cannot be both `rid::message` and `rid::reply`").
			WithNote(cfg.Spans["message"], "declared as message here").
			Emit()
		cfg.Reply = false
	}
	if cfg.Debug && !cfg.Derived("Debug") {
		diag.ReportWarning(r, diag.AtrDebugNoDerive, cfg.Spans["debug"],
			"`rid::debug` requires the item to implement Debug; add `#[derive(Debug)]`").
			Emit()
	}
	return cfg
}

func (c *Config) addRegistration(reg Registration, seen map[string]source.Span, r diag.Reporter) {
	if first, dup := seen[reg.Ident]; dup {
		diag.ReportError(r, diag.AtrDuplicateKey, reg.Span,
			fmt.Sprintf("type `%s` is registered more than once", reg.Ident)).
			WithNote(first, "first registered here").
			Emit()
		return
	}
	seen[reg.Ident] = reg.Span
	c.Registrations = append(c.Registrations, reg)
}

// checkArgForm validates the argument list against the spec's ArgShape.
func checkArgForm(attr *ast.Attr, spec Spec, r diag.Reporter) bool {
	if attr.Value != "" {
		diag.ReportError(r, diag.AtrMalformedArgument, attr.ArgsSpan,
			fmt.Sprintf("`rid::%s` does not take a value; use %s", spec.Name, spec.Usage())).
			Emit()
		return false
	}
	if attr.Opaque {
		diag.ReportError(r, diag.AtrMalformedArgument, attr.ArgsSpan,
			fmt.Sprintf("malformed arguments for `rid::%s`; expected %s", spec.Name, spec.Usage())).
			Emit()
		return false
	}

	switch spec.Args {
	case ArgsNone:
		if attr.HasArgs {
			diag.ReportError(r, diag.AtrUnexpectedArgs, attr.ArgsSpan,
				fmt.Sprintf("`rid::%s` takes no arguments", spec.Name)).
				WithFix("remove arguments", diag.FixEdit{Span: attr.ArgsSpan}).
				Emit()
			return false
		}
	case ArgsOptionalIdent:
		if len(attr.Args) > 1 {
			diag.ReportError(r, diag.AtrUnexpectedArgs, attr.Args[1].Span,
				fmt.Sprintf("`rid::%s` takes at most one name", spec.Name)).
				Emit()
			return false
		}
		if len(attr.Args) == 1 && !isIdentArg(attr.Args[0]) {
			reportBadArg(r, attr.Args[0], spec)
			return false
		}
	case ArgsIdent:
		if len(attr.Args) == 0 {
			diag.ReportError(r, diag.AtrMissingArgument, attr.Span,
				fmt.Sprintf("`rid::%s` requires an argument: %s", spec.Name, spec.Usage())).
				Emit()
			return false
		}
		if len(attr.Args) > 1 {
			diag.ReportError(r, diag.AtrUnexpectedArgs, attr.Args[1].Span,
				fmt.Sprintf("`rid::%s` takes exactly one argument", spec.Name)).
				Emit()
			return false
		}
		if !isIdentArg(attr.Args[0]) {
			reportBadArg(r, attr.Args[0], spec)
			return false
		}
	case ArgsIdentList:
		if len(attr.Args) == 0 {
			diag.ReportError(r, diag.AtrMissingArgument, attr.Span,
				fmt.Sprintf("`rid::%s` requires at least one type name", spec.Name)).
				Emit()
			return false
		}
		for _, arg := range attr.Args {
			if !isIdentArg(arg) {
				reportBadArg(r, arg, spec)
				return false
			}
		}
	case ArgsNameCategory:
		if len(attr.Args) == 0 {
			diag.ReportError(r, diag.AtrMissingArgument, attr.Span,
				fmt.Sprintf("`rid::%s` requires at least one `Name = Category` pair", spec.Name)).
				Emit()
			return false
		}
		for _, arg := range attr.Args {
			if arg.Kind != ast.AttrArgNameValue || arg.ValueLit {
				reportBadArg(r, arg, spec)
				return false
			}
		}
	}
	return true
}

func isIdentArg(arg ast.AttrArg) bool {
	return arg.Kind == ast.AttrArgPath && arg.Name != ""
}

func reportBadArg(r diag.Reporter, arg ast.AttrArg, spec Spec) {
	code := diag.AtrUnknownArgument
	if arg.Kind != ast.AttrArgPath {
		code = diag.AtrMalformedArgument
	}
	diag.ReportError(r, code, arg.Span,
		fmt.Sprintf("unexpected argument for `rid::%s`; expected %s", spec.Name, spec.Usage())).
		Emit()
}

// CheckAbsent reports generator attributes on positions that never carry
// them: fields, variants and parameters.
func CheckAbsent(list []ast.Attr, what string, r diag.Reporter) bool {
	ok := true
	for i := range list {
		if list[i].InNamespace(Namespace) {
			diag.ReportError(r, diag.AtrWrongCarrier, list[i].Span,
				fmt.Sprintf("`%s` cannot be applied to a %s", list[i].PathString(), what)).
				Emit()
			ok = false
		}
	}
	return ok
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "::"); i >= 0 {
		return path[i+2:]
	}
	return path
}
