package output

import (
	"fmt"
	"strings"

	"medalc/internal/core"
	"medalc/internal/dispatch"
)

type humanFormatter struct{}

// FormatPlan renders a plan as an indented stage-by-stage listing, adapted
// from the teacher's humanFormatter.FormatDiff/FormatMigration pairing
// (which delegated to a String() method on diff.SchemaDiff/migration.Migration);
// core.ExecutionPlan has no such String() method, so this builds the text
// directly from its Stages/DependencyGraph fields.
func (humanFormatter) FormatPlan(p *core.ExecutionPlan) (string, error) {
	if p == nil {
		return "no plan\n", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Execution plan: %s\n", p.SequencerName)
	fmt.Fprintf(&sb, "  total queries: %d across %d stage(s)\n\n", p.TotalQueries, len(p.Stages))

	for _, stage := range p.Stages {
		fmt.Fprintf(&sb, "Stage %d (%d operation(s)):\n", stage.Stage, len(stage.Operations))
		for _, op := range stage.Operations {
			fmt.Fprintf(&sb, "  - [%s] %s", op.Kind(), op.QualifiedName())
			if hint := op.EngineHint(); hint != core.EngineUnspecified {
				fmt.Fprintf(&sb, " (engine=%s)", hint)
			}
			sb.WriteByte('\n')
		}
	}

	if len(p.DependencyGraph) > 0 {
		sb.WriteString("\nDependency graph:\n")
		for node, deps := range p.DependencyGraph {
			if len(deps) == 0 {
				fmt.Fprintf(&sb, "  %s: (none)\n", node)
				continue
			}
			fmt.Fprintf(&sb, "  %s: %s\n", node, strings.Join(deps, ", "))
		}
	}
	return sb.String(), nil
}

// FormatResults renders dispatch results one line per operation, matching
// the teacher's line-oriented human output style (one table/change per
// line in FormatDiff/FormatMigration's bodies).
func (humanFormatter) FormatResults(results []*dispatch.OperationResult) (string, error) {
	if len(results) == 0 {
		return "no operations dispatched\n", nil
	}

	var sb strings.Builder
	for _, r := range results {
		status := "OK"
		if !r.Success {
			status = "FAILED"
		}
		fmt.Fprintf(&sb, "[%s] %s %s.%s (%s, %.3fs)",
			status, r.OperationType, r.Schema, r.Object, r.EngineUsed, r.DurationSeconds)
		if r.RowsAffected != nil {
			fmt.Fprintf(&sb, " rows=%d", *r.RowsAffected)
		}
		if !r.Success {
			fmt.Fprintf(&sb, " error=%s: %s", r.ErrorType, r.ErrorMessage)
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
