package naming

import "testing"

func TestSnake(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Model", "model"},
		{"TodoList", "todo_list"},
		{"todoList", "todo_list"},
		{"title_owned", "title_owned"},
		{"HTTPServer", "http_server"},
		{"Vec2D", "vec2_d"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Snake(tt.in); got != tt.want {
			t.Errorf("Snake(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLowerCamel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"title_owned", "titleOwned"},
		{"id", "id"},
		{"AddTodo", "addTodo"},
		{"model_new", "modelNew"},
		{"__x", "x"},
	}
	for _, tt := range tests {
		if got := LowerCamel(tt.in); got != tt.want {
			t.Errorf("LowerCamel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := UpperCamel("add_todo"); got != "AddTodo" {
		t.Errorf("UpperCamel = %q", got)
	}
	if got := DartIdent("is"); got != "is_" {
		t.Errorf("DartIdent(is) = %q", got)
	}
}
