package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rid/internal/diagfmt"
	"rid/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] [file.rs|directory...]",
	Short: "Print the annotated items found in Rust sources",
	Long: `Parse reads the Rust sources and prints every item carrying a
#[rid::...] attribute together with its fields, variants and methods.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|json)")
	parseCmd.Flags().Int("jobs", 0, "max parallel parsers (0=auto)")
}

func runParse(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	inputs, baseDir, err := resolveInputs(cmd, args)
	if err != nil {
		return err
	}
	res, err := driver.Analyze(cmd.Context(), driver.Options{
		Inputs:         inputs,
		BaseDir:        baseDir,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
		KeepGoing:      true,
	})
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	// Диагностика в stderr, записи в stdout
	if err := printDiagnostics(cmd, cmd.ErrOrStderr(), res.Bag, res); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "tree":
		err = diagfmt.FormatRecordsTree(out, res.Items, res.FileSet)
	case "json":
		err = diagfmt.FormatRecordsJSON(out, res.Items, res.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	return exitForBag(cmd, res.Bag)
}
