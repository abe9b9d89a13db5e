package driver

import (
	"encoding/json"
	"fmt"

	"rid/internal/diag"
	"rid/internal/observ"
	"rid/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Files   int                  `json:"files"`
	Cached  bool                 `json:"cached,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic records the timer report as an info diagnostic so
// it travels with --format json output.
func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "generate"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms, %d files", payload.Kind, payload.TotalMS, payload.Files)
	if payload.Cached {
		msg += " (cached)"
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	entry := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg).
		WithNote(source.Span{}, string(data))

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
