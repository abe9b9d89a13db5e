package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached generator outputs",
	Long: `Remove the disk cache of generated outputs: the rid.toml cache directory
inside a project, the per-user cache otherwise.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().Bool("list", false, "list cache entries instead of removing them")
}

func runClean(cmd *cobra.Command, _ []string) error {
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return fmt.Errorf("failed to get list flag: %w", err)
	}
	manifest, wd, err := loadManifestFromCwd()
	if err != nil {
		return err
	}
	gc := &genConfig{manifest: manifest, baseDir: wd}
	if manifest != nil {
		gc.baseDir = manifest.Root
		if c := manifest.Config.Cache; c.Enabled && c.Dir != "" {
			gc.cacheDir = manifest.Abs(c.Dir)
		}
	}
	cache, err := gc.openCache()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if cache == nil {
		fmt.Fprintln(out, "cache disabled in rid.toml")
		return nil
	}
	entries, err := cache.Entries()
	if err != nil {
		return err
	}
	if list {
		for _, e := range entries {
			fmt.Fprintln(out, relTo(gc.baseDir, e))
		}
		return nil
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to remove %q: %w", cache.Dir(), err)
	}
	fmt.Fprintf(out, "removed %d cache entr%s from %s\n", len(entries), plural(len(entries), "y", "ies"), relTo(gc.baseDir, cache.Dir()))
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
