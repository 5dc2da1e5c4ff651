package output

import (
	"fmt"
	"sort"
	"strings"

	"medalc/internal/core"
	"medalc/internal/dispatch"
)

type summaryFormatter struct{}

// FormatPlan formats a plan as a compact summary, the plan-shaped
// counterpart of the teacher's schema-diff summary (which counted
// added/removed/modified tables, columns, indexes, constraints); here the
// countable dimensions are stages, operations-per-kind, and dependency
// edges.
//
// Example output:
//
//	Execution Plan Summary
//	=======================
//
//	Stages:     3
//	Operations: 5
//	Edges:      4
//
//	By kind:
//	  CREATE_TABLE         2
//	  INSERT               3
func (summaryFormatter) FormatPlan(p *core.ExecutionPlan) (string, error) {
	if p == nil || p.TotalQueries == 0 {
		return "No operations in plan.\n", nil
	}

	var sb strings.Builder
	sb.WriteString("Execution Plan Summary\n")
	sb.WriteString("=======================\n\n")

	edges := 0
	for _, deps := range p.DependencyGraph {
		edges += len(deps)
	}
	fmt.Fprintf(&sb, "Stages:     %d\n", len(p.Stages))
	fmt.Fprintf(&sb, "Operations: %d\n", p.TotalQueries)
	fmt.Fprintf(&sb, "Edges:      %d\n", edges)

	byKind := map[core.OperationKind]int{}
	for _, stage := range p.Stages {
		for _, op := range stage.Operations {
			byKind[op.Kind()]++
		}
	}
	if len(byKind) > 0 {
		sb.WriteString("\nBy kind:\n")
		for _, kind := range sortedKinds(byKind) {
			fmt.Fprintf(&sb, "  %-20s %d\n", kind, byKind[kind])
		}
	}
	return sb.String(), nil
}

func sortedKinds(byKind map[core.OperationKind]int) []core.OperationKind {
	kinds := make([]core.OperationKind, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// FormatResults formats a dispatch run as a compact summary: counts plus
// the failed operations' error messages, the results-shaped counterpart of
// the teacher's migration summary (which listed breaking changes,
// unresolved notes, and info notes after its statement counts).
func (summaryFormatter) FormatResults(results []*dispatch.OperationResult) (string, error) {
	if len(results) == 0 {
		return "No operations dispatched.\n", nil
	}

	var sb strings.Builder
	sb.WriteString("Dispatch Summary\n")
	sb.WriteString("================\n\n")

	var success, failed int
	var totalDuration float64
	var failures []*dispatch.OperationResult
	for _, r := range results {
		totalDuration += r.DurationSeconds
		if r.Success {
			success++
		} else {
			failed++
			failures = append(failures, r)
		}
	}

	fmt.Fprintf(&sb, "Operations: %d\n", len(results))
	fmt.Fprintf(&sb, "Succeeded:  %d\n", success)
	fmt.Fprintf(&sb, "Failed:     %d\n", failed)
	fmt.Fprintf(&sb, "Duration:   %.3fs\n", totalDuration)

	if len(failures) > 0 {
		fmt.Fprintf(&sb, "\nFailures: %d\n", len(failures))
		for _, r := range failures {
			fmt.Fprintf(&sb, "  - %s.%s: %s\n", r.Schema, r.Object, r.ErrorMessage)
		}
	}
	return sb.String(), nil
}
