package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"rid/internal/diag"
	"rid/internal/diagfmt"
	"rid/internal/driver"
	"rid/internal/observ"
	"rid/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] [file.rs|directory...]",
	Short: "Generate Rust shims, Dart wrappers and the Dart runtime",
	Long: `Generate reads the annotated Rust sources (the rid.toml inputs when no
paths are given) and writes rid_generated.rs, rid_generated.dart and
rid_runtime.dart. Outputs are not written when errors were reported unless
--keep-going is set.`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.String("host-out", "", "path of the generated Rust source")
	f.String("client-out", "", "path of the generated Dart source")
	f.String("runtime-out", "", "path of the Dart runtime source")
	f.String("ffigen-binding", "", "ffigen binding file imported by the Dart source")
	f.String("library", "", "native library name loaded by the Dart source")
	f.String("host-module", "", "module wrapping the generated Rust items")
	f.Int("jobs", 0, "max parallel parsers (0=auto)")
	f.Bool("keep-going", false, "write outputs for the valid items even when errors were reported")
	f.Bool("no-cache", false, "bypass the disk cache")
	f.String("ui", "auto", "progress UI (auto|on|off)")
	f.Bool("timings-json", false, "print --timings as JSON")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	timingsJSON, err := cmd.Flags().GetBool("timings-json")
	if err != nil {
		return fmt.Errorf("failed to get timings-json flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	keepGoing, err := cmd.Flags().GetBool("keep-going")
	if err != nil {
		return fmt.Errorf("failed to get keep-going flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	gc, err := resolveGenConfig(cmd, args)
	if err != nil {
		return err
	}
	env := driver.ReadEnv()
	if env.ClientCopy != "" {
		gc.targets.ClientCopy = env.ClientCopy
	}

	opts := driver.Options{
		Inputs:         gc.inputs,
		BaseDir:        gc.baseDir,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
		Host:           gc.host,
		Client:         gc.client,
		KeepGoing:      keepGoing,
		StopBeforeEmit: env.PrintRecords,
	}
	if showTimings {
		opts.Timer = observ.NewTimer()
	}
	if !noCache && !keepGoing {
		cache, err := gc.openCache()
		switch {
		case err != nil:
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; continuing without cache\n", err)
		case cache != nil:
			opts.Cache = cache
		}
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	start := time.Now()

	var res *driver.Result
	if !quiet && shouldUseTUI(mode, out, len(gc.inputs)) {
		files := pipeline.DisplayFiles(gc.inputs, gc.baseDir)
		res, err = runGenerateWithUI(cmd.Context(), "rid generate", files, opts, out)
	} else {
		res, err = driver.Generate(cmd.Context(), opts)
	}
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if err := printDiagnostics(cmd, errOut, res.Bag, res); err != nil {
		return err
	}

	if env.PrintRecords {
		if err := diagfmt.FormatRecordsTree(out, res.Items, res.FileSet); err != nil {
			return err
		}
		return exitForBag(cmd, res.Bag)
	}

	if res.Outputs != nil {
		written, werr := driver.WriteOutputs(cmd.Context(), res.Outputs, gc.targets, nil)
		if !quiet {
			for _, w := range written {
				state := "wrote"
				if w.Unchanged {
					state = "unchanged"
				}
				fmt.Fprintf(out, "%-9s %s\n", state, pipeline.DisplayPath(w.Path, gc.baseDir))
			}
		}
		if werr != nil {
			return werr
		}
	}

	if showTimings {
		if err := printTimings(errOut, opts.Timer, res.Cached, timingsJSON); err != nil {
			return err
		}
	}
	if !quiet && res.Outputs != nil {
		note := ""
		if res.Cached {
			note = " (cached)"
		}
		fmt.Fprintf(out, "generated %d input(s) in %.1f ms%s\n", len(gc.inputs), toMillis(time.Since(start)), note)
	}
	return exitForBag(cmd, res.Bag)
}

// printDiagnostics renders the bag in pretty form to w.
func printDiagnostics(cmd *cobra.Command, w io.Writer, bag *diag.Bag, res *driver.Result) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	color, err := useColor(cmd, w)
	if err != nil {
		return err
	}
	diagfmt.Pretty(w, bag, res.FileSet, diagfmt.PrettyOpts{
		Color:     color,
		Context:   2,
		PathMode:  diagfmt.PathModeRelative,
		ShowNotes: true,
		ShowFixes: true,
	})
	return nil
}

// exitForBag turns reported errors into a silent non-zero exit.
func exitForBag(cmd *cobra.Command, bag *diag.Bag) error {
	if bag == nil || !bag.HasErrors() {
		return nil
	}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return errSilent
}

// relTo renders path relative to base for messages.
func relTo(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
