package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"rid/internal/diag"
	"rid/internal/source"
)

func TestSarifResults(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("pub struct S {\n    t: T,\n}\n")
	fileID := fs.AddVirtual("lib.rs", content)

	bag := diag.NewBag(10)
	primary := source.Span{File: fileID, Start: 22, End: 23}
	bag.Add(diag.New(diag.SevError, diag.TypMissingInfo, primary, "Missing info for type T").
		WithNote(source.Span{File: fileID, Start: 0, End: 12}, "required by this struct"))
	bag.Add(diag.New(diag.SevWarning, diag.TypMissingInfo, primary, "second"))

	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "rid", ToolVersion: "dev", InvocationArgs: []string{"rid", "diag"}}
	if err := Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatal(err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected envelope: %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "rid" || len(run.Tool.Driver.Rules) != 1 {
		t.Errorf("rules should be deduplicated per code: %+v", run.Tool.Driver)
	}
	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Errorf("invocation should report failure: %+v", run.Invocations)
	}
	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}
	first := run.Results[0]
	if first.RuleID != "TYP5001" || first.Level != "error" {
		t.Errorf("unexpected result: %+v", first)
	}
	region := first.Locations[0].Physical.Region
	if region.StartLine != 2 || region.StartColumn != 8 {
		t.Errorf("unexpected region: %+v", region)
	}
	if len(first.RelatedLocations) != 1 || first.RelatedLocations[0].Message.Text != "required by this struct" {
		t.Errorf("unexpected related locations: %+v", first.RelatedLocations)
	}
	if run.Results[1].Level != "warning" {
		t.Errorf("expected warning level, got %s", run.Results[1].Level)
	}
}
