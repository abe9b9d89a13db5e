package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"rid/internal/diag"
	"rid/internal/diagfmt"
	"rid/internal/driver"
	"rid/internal/observ"
	"rid/internal/version"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] [file.rs|directory...]",
	Short: "Report diagnostics for annotated Rust sources",
	Long: `Run the generator up to code emission and report every diagnostic:
syntax errors, invalid attributes, unsupported field types and missing
#[rid::structs]/#[rid::enums] declarations.`,
	RunE: runDiagnose,
}

func init() {
	f := diagCmd.Flags()
	f.String("format", "pretty", "output format (pretty|json|sarif|short)")
	f.Bool("no-warnings", false, "ignore warnings in diagnostics")
	f.Bool("warnings-as-errors", false, "treat warnings as errors")
	f.Int("jobs", 0, "max parallel parsers (0=auto)")
	f.Bool("with-notes", false, "include diagnostic notes in output")
	f.Bool("suggest", false, "include fix suggestions in output")
	f.Bool("preview", false, "preview fix results in output")
	f.Bool("fullpath", false, "emit absolute file paths in output (same as --path-mode absolute)")
	f.String("path-mode", "auto", "file path style (auto|absolute|relative|basename)")
}

// diagOutput collects the formatting flags of diag.
type diagOutput struct {
	format   string
	color    bool
	pathMode diagfmt.PathMode
	notes    bool
	fixes    bool
	preview  bool
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, err := diagfmt.ParsePathMode(pathModeStr)
	if err != nil {
		return err
	}
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	gc, err := resolveGenConfig(cmd, args)
	if err != nil {
		return err
	}

	opts := driver.Options{
		Inputs:         gc.inputs,
		BaseDir:        gc.baseDir,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
		Host:           gc.host,
		Client:         gc.client,
		EmitTimings:    showTimings,
	}
	if showTimings {
		opts.Timer = observ.NewTimer()
	}
	res, err := driver.Analyze(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}

	out := cmd.OutOrStdout()
	color, err := useColor(cmd, out)
	if err != nil {
		return err
	}
	o := diagOutput{
		format:   format,
		color:    color,
		pathMode: pathMode,
		notes:    withNotes,
		fixes:    suggest || preview,
		preview:  preview,
	}

	bag := filterBag(res.Bag, noWarnings, warningsAsErrors)
	if err := writeDiagnostics(out, bag, res, o, cmd.CommandPath()); err != nil {
		return err
	}
	return exitForBag(cmd, bag)
}

// writeDiagnostics renders bag in the requested format.
func writeDiagnostics(w io.Writer, bag *diag.Bag, res *driver.Result, o diagOutput, invocation string) error {
	switch o.format {
	case "pretty":
		diagfmt.Pretty(w, bag, res.FileSet, diagfmt.PrettyOpts{
			Color:       o.color,
			Context:     2,
			PathMode:    o.pathMode,
			ShowNotes:   o.notes,
			ShowFixes:   o.fixes,
			ShowPreview: o.preview,
		})
	case "short":
		if s := diag.FormatShortDiagnostics(bag.Items(), res.FileSet, o.notes); s != "" {
			fmt.Fprintln(w, s)
		}
	case "json":
		err := diagfmt.JSON(w, bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         o.pathMode,
			IncludeNotes:     o.notes,
			IncludeFixes:     o.fixes,
			IncludePreviews:  o.preview,
		})
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "sarif":
		meta := diagfmt.SarifRunMeta{
			ToolName:       "rid",
			ToolVersion:    version.Version,
			InvocationArgs: []string{invocation},
		}
		if err := diagfmt.Sarif(w, bag, res.FileSet, meta); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", o.format)
	}
	return nil
}

// filterBag drops warnings or promotes them to errors. Info diagnostics pass
// through unchanged.
func filterBag(bag *diag.Bag, noWarnings, warningsAsErrors bool) *diag.Bag {
	if bag == nil || (!noWarnings && !warningsAsErrors) {
		return bag
	}
	out := diag.NewBag(bag.Cap())
	for _, d := range bag.Items() {
		if d.Severity == diag.SevWarning {
			if noWarnings {
				continue
			}
			d.Severity = diag.SevError
		}
		out.Add(d)
	}
	return out
}
