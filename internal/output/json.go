package output

import (
	"encoding/json"

	"medalc/internal/core"
	"medalc/internal/dispatch"
)

type jsonFormatter struct{}

// resultsSummary mirrors the teacher's diffSummary/migrationSummary shape:
// a small aggregate block alongside the raw per-item payload.
type resultsSummary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

type resultsPayload struct {
	Format  string                        `json:"format"`
	Summary resultsSummary                `json:"summary"`
	Results []*dispatch.OperationResult   `json:"results"`
}

// FormatPlan marshals the plan using its own §6-compliant MarshalJSON
// (core.ExecutionPlan already implements json.Marshaler), matching the
// teacher's marshalJSON[T Payload] helper but without an intermediate
// payload type since the plan's wire shape is already the encoding
// contract this port promises to round-trip.
func (jsonFormatter) FormatPlan(p *core.ExecutionPlan) (string, error) {
	if p == nil {
		return "null\n", nil
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

func (jsonFormatter) FormatResults(results []*dispatch.OperationResult) (string, error) {
	payload := resultsPayload{Format: string(FormatJSON), Results: results}
	for _, r := range results {
		payload.Summary.Total++
		if r.Success {
			payload.Summary.Success++
		} else {
			payload.Summary.Failed++
		}
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
