package parser

import (
	"testing"

	"rid/internal/ast"
	"rid/internal/diag"
)

func TestParseTypes(t *testing.T) {
	tests := []struct {
		input    string
		wantKind ast.TypeExprKind
		want     string
	}{
		{"u8", ast.TypeExprPath, "u8"},
		{"Self", ast.TypeExprPath, "Self"},
		{"&str", ast.TypeExprRef, "&str"},
		{"&&str", ast.TypeExprRef, "&&str"},
		{"&'static mut String", ast.TypeExprRef, "&'static mut String"},
		{"*const *mut u8", ast.TypeExprPtr, "*const *mut u8"},
		{"()", ast.TypeExprTuple, "()"},
		{"(u8)", ast.TypeExprPath, "u8"},
		{"(u8,)", ast.TypeExprTuple, "(u8,)"},
		{"(u8, String)", ast.TypeExprTuple, "(u8, String)"},
		{"[u8]", ast.TypeExprSlice, "[u8]"},
		{"[u8; 4]", ast.TypeExprArray, "[u8; 4]"},
		{"Vec<HashMap<u8, Vec<u32>>>", ast.TypeExprPath, "Vec<HashMap<u8, Vec<u32>>>"},
		{"std::vec::Vec::<u8>", ast.TypeExprPath, "std::vec::Vec<u8>"},
		{"Box<dyn Error + Send>", ast.TypeExprPath, "Box<dyn Error + Send>"},
		{"impl Fn(u8) -> u8", ast.TypeExprTraitObject, "impl Fn(u8) -> u8"},
		{"fn(u8) -> u8", ast.TypeExprFn, "fn(u8) -> u8"},
		{`unsafe extern "C" fn()`, ast.TypeExprFn, `unsafe extern "C" fn()`},
		{"<T as Tr>::X", ast.TypeExprQualified, "<T as Tr>::X"},
		{"Cow<'a, str>", ast.TypeExprPath, "Cow<'a, str>"},
		{"Box<dyn Iterator<Item = u8>>", ast.TypeExprPath, "Box<dyn Iterator<Item = u8>>"},
		{"!", ast.TypeExprNever, "!"},
		{"_", ast.TypeExprInfer, "_"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			arenas, id := parseOne(t, "fn f(a: "+tt.input+") {}")
			fn := arenas.Items.Fn(id)
			typ := arenas.Items.FnParam(fn.Params[0]).Type
			if got := arenas.Types.Get(typ).Kind; got != tt.wantKind {
				t.Errorf("kind = %v, want %v", got, tt.wantKind)
			}
			if got := arenas.TypeString(typ); got != tt.want {
				t.Errorf("TypeString = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseGenericParams(t *testing.T) {
	arenas, id := parseOne(t, "struct S<'a, T: Into<Vec<u8>> + 'a, const N: usize = 3> { v: &'a T }")
	item := arenas.Items.Get(id)
	if len(item.Generics) != 3 {
		t.Fatalf("expected 3 generic params, got %d", len(item.Generics))
	}
	if g := item.Generics[0]; !g.IsLifetime || g.Name != "'a" {
		t.Errorf("param 0 = %+v", g)
	}
	if g := item.Generics[1]; g.IsLifetime || g.IsConst || g.Name != "T" {
		t.Errorf("param 1 = %+v", g)
	}
	if g := item.Generics[2]; !g.IsConst || g.Name != "N" {
		t.Errorf("param 2 = %+v", g)
	}
}

func TestParseTypeErrors(t *testing.T) {
	tests := []struct {
		input string
		want  diag.Code
	}{
		{"struct S { a: Vec<u8 }", diag.SynUnclosedDelimiter},
		{"struct S { a: *u8 }", diag.SynExpectType},
		{"struct S { a: = }", diag.SynExpectType},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, _, bag := parseSource(t, tt.input)
			if bag.Len() == 0 || bag.Items()[0].Code != tt.want {
				t.Errorf("got %s, want %s", diagnosticsSummary(bag), tt.want.ID())
			}
		})
	}
}
