package main

import (
	"fmt"
	"io"

	"rid/internal/observ"
)

// printTimings writes the phase table, or the JSON report when asJSON is set.
func printTimings(out io.Writer, timer *observ.Timer, cached bool, asJSON bool) error {
	if out == nil || timer == nil {
		return nil
	}
	if asJSON {
		return timer.WriteJSON(out)
	}
	if _, err := fmt.Fprint(out, timer.Summary()); err != nil {
		return err
	}
	if cached {
		_, err := fmt.Fprintln(out, "  (outputs served from the disk cache)")
		return err
	}
	return nil
}
