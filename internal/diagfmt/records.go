package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"rid/internal/abi"
	"rid/internal/attrs"
	"rid/internal/items"
	"rid/internal/source"
)

// RecordNode is one line of the parsed-record dump; JSON output uses the
// same tree.
type RecordNode struct {
	Label    string        `json:"label"`
	Children []*RecordNode `json:"children,omitempty"`
}

func leaf(format string, args ...any) *RecordNode {
	return &RecordNode{Label: fmt.Sprintf(format, args...)}
}

// BuildRecords describes the parsed records in source order.
func BuildRecords(list []items.Item, fs *source.FileSet) []*RecordNode {
	out := make([]*RecordNode, 0, len(list))
	for _, it := range list {
		switch it := it.(type) {
		case *items.Struct:
			n := leaf("struct %s (%s)%s", it.Ident, formatSpan(it.Span, fs), flags(&it.Config))
			for _, f := range it.Fields {
				n.Children = append(n.Children, leaf("field %s: %s -> %s (%s)", f.Ident, f.Type, f.MethodIdent, f.Binding.Conv))
			}
			out = append(out, n)
		case *items.Enum:
			role := it.Role.String()
			if it.Role == items.RoleMessage {
				role += "(" + it.Reply + ")"
			}
			n := leaf("enum %s %s (%s)%s", it.Ident, role, formatSpan(it.Span, fs), flags(&it.Config))
			for _, v := range it.Variants {
				n.Children = append(n.Children, leaf("variant %s = %d%s", v.Ident, v.Slot, variantExtra(v)))
			}
			out = append(out, n)
		case *items.Function:
			label := "fn " + it.FnIdent
			if it.ExportName != it.FnIdent {
				label += " as " + it.ExportName
			}
			if it.Owner != "" {
				label += " on " + it.Owner
			}
			if it.Receiver != items.RecvNone {
				label += " (" + it.Receiver.String() + ")"
			}
			n := leaf("%s (%s)", label, formatSpan(it.Span, fs))
			for _, a := range it.Args {
				n.Children = append(n.Children, leaf("arg %d %s: %s (%s)", a.Slot, a.Ident, a.Type, a.Binding.Conv))
			}
			if it.ReturnBind.Conv != abi.ConvUnit {
				n.Children = append(n.Children, leaf("returns %s (%s)", it.Return, it.ReturnBind.Conv))
			}
			out = append(out, n)
		}
	}
	return out
}

func variantExtra(v items.Variant) string {
	var parts []string
	if v.Payload != nil {
		parts = append(parts, fmt.Sprintf("payload %s", v.Payload.Model))
	}
	if v.HasReqID {
		parts = append(parts, "req_id")
	}
	if v.HasPayload {
		parts = append(parts, "payload String")
	}
	if len(parts) == 0 && len(v.Fields) > 0 {
		for _, f := range v.Fields {
			parts = append(parts, f.String())
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

func flags(cfg *attrs.Config) string {
	var parts []string
	for _, f := range []struct {
		on   bool
		name string
	}{{cfg.Store, "store"}, {cfg.Model && !cfg.Store, "model"}, {cfg.Debug, "debug"}} {
		if f.on {
			parts = append(parts, f.name)
		}
	}
	for _, r := range cfg.Registrations {
		parts = append(parts, r.Category.String()+" "+r.Ident)
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

func formatSpan(sp source.Span, fs *source.FileSet) string {
	if fs == nil || fs.Get(sp.File) == nil {
		return fmt.Sprintf("%d..%d", sp.Start, sp.End)
	}
	start, end := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d-%d:%d", displayPath(fs, sp.File, PathModeAuto), start.Line, start.Col, end.Line, end.Col)
}

// FormatRecordsTree prints the records as a box-drawing tree.
func FormatRecordsTree(w io.Writer, list []items.Item, fs *source.FileSet) error {
	nodes := BuildRecords(list, fs)
	if len(nodes) == 0 {
		_, err := fmt.Fprintln(w, "(no annotated items)")
		return err
	}
	for i, n := range nodes {
		if err := writeTree(w, n, "", i == len(nodes)-1); err != nil {
			return err
		}
	}
	return nil
}

func writeTree(w io.Writer, n *RecordNode, prefix string, last bool) error {
	branch, next := "├─ ", "│  "
	if last {
		branch, next = "└─ ", "   "
	}
	if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, branch, n.Label); err != nil {
		return err
	}
	for i, c := range n.Children {
		if err := writeTree(w, c, prefix+next, i == len(n.Children)-1); err != nil {
			return err
		}
	}
	return nil
}

// FormatRecordsJSON prints the records as indented JSON.
func FormatRecordsJSON(w io.Writer, list []items.Item, fs *source.FileSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildRecords(list, fs))
}
