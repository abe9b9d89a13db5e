package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"rid/internal/attrs"
)

var attrsCmd = &cobra.Command{
	Use:   "attrs [name]",
	Short: "List the #[rid::...] attributes",
	Long:  `Attrs prints every recognized generator attribute with the items it applies to and the arguments it takes.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAttrs,
}

func init() {
	attrsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type attrPayload struct {
	Name    string `json:"name"`
	Usage   string `json:"usage"`
	Targets string `json:"targets"`
	Args    string `json:"args"`
	Doc     string `json:"doc"`
}

func runAttrs(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	specs := attrs.Specs()
	if len(args) == 1 {
		name := strings.TrimPrefix(args[0], attrs.Namespace+"::")
		spec, ok := attrs.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown attribute %q (known: %s)", args[0], strings.Join(attrs.Names(), ", "))
		}
		specs = []attrs.Spec{spec}
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		colored, err := useColor(cmd, out)
		if err != nil {
			return err
		}
		renderAttrsPretty(out, specs, colored)
		return nil
	case "json":
		payload := make([]attrPayload, 0, len(specs))
		for _, s := range specs {
			payload = append(payload, attrPayload{
				Name:    s.Name,
				Usage:   s.Usage(),
				Targets: s.Targets.String(),
				Args:    s.Args.String(),
				Doc:     s.Doc,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func renderAttrsPretty(w io.Writer, specs []attrs.Spec, colored bool) {
	usage := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)
	if !colored {
		usage.DisableColor()
		dim.DisableColor()
	}
	width := 0
	for _, s := range specs {
		width = max(width, runewidth.StringWidth(s.Usage()))
	}
	for _, s := range specs {
		u := s.Usage()
		pad := strings.Repeat(" ", width-runewidth.StringWidth(u))
		fmt.Fprintf(w, "%s%s  %s\n", usage.Sprint(u), pad, s.Doc)
		fmt.Fprintf(w, "%s  %s\n", strings.Repeat(" ", width), dim.Sprintf("on %s; %s", s.Targets, s.Args))
	}
}
