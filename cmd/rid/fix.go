package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"rid/internal/diag"
	"rid/internal/driver"
	"rid/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [file.rs|directory...]",
	Short: "Apply available fixes to annotated Rust sources",
	Long: `Run diagnostics, surface available fixes (missing #[rid::structs]
declarations, bare str fields) and apply them according to the chosen strategy.`,
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all safe fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
	fixCmd.Flags().Bool("dry-run", false, "report fixes without writing files")
}

func runFix(cmd *cobra.Command, args []string) error {
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	if targetID != "" && (applyAll || applyOnce) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	mode := fix.ApplyModeOnce
	if targetID != "" {
		mode = fix.ApplyModeID
	} else if applyAll {
		mode = fix.ApplyModeAll
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	inputs, baseDir, err := resolveInputs(cmd, args)
	if err != nil {
		return err
	}
	res, err := driver.Analyze(cmd.Context(), driver.Options{
		Inputs:         inputs,
		BaseDir:        baseDir,
		MaxDiagnostics: maxDiagnostics,
	})
	if err != nil {
		return fmt.Errorf("fix: diagnose failed: %w", err)
	}

	var diagnostics []diag.Diagnostic
	if res.Bag != nil {
		res.Bag.Sort()
		diagnostics = res.Bag.Items()
	}
	applied, applyErr := fix.Apply(res.FileSet, diagnostics, fix.ApplyOptions{
		Mode:     mode,
		TargetID: targetID,
		DryRun:   dryRun,
	})
	return handleApplyResult(cmd.OutOrStdout(), applied, applyErr, dryRun)
}

func handleApplyResult(w io.Writer, res *fix.ApplyResult, applyErr error, dryRun bool) error {
	if res == nil {
		return applyErr
	}

	if len(res.Applied) > 0 {
		verb := "Applied"
		if dryRun {
			verb = "Would apply"
		}
		fmt.Fprintf(w, "%s %d fix(es):\n", verb, len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(w, "  %s [%s] at %s (%d edits, %s)\n",
				item.Title, item.ID, location, item.EditCount, item.Applicability.String())
		}
	}

	if len(res.FileChanges) > 0 {
		if dryRun {
			fmt.Fprintln(w, "Files that would change:")
		} else {
			fmt.Fprintln(w, "Updated files:")
		}
		for _, change := range res.FileChanges {
			fmt.Fprintf(w, "  %s (%d edits)\n", change.Path, change.EditCount)
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintln(w, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(w, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(w, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			_, err := fmt.Fprintln(w, "No applicable fixes found.")
			return err
		}
		return applyErr
	}
	if len(res.Applied) == 0 {
		_, err := fmt.Fprintln(w, "No fixes applied.")
		return err
	}
	return nil
}
