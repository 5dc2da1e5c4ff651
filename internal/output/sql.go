package output

import (
	"fmt"
	"strings"

	"medalc/internal/core"
	"medalc/internal/querybuilder"
)

// RenderPlanSQL renders every operation in a plan, stage by stage, through
// qb and returns the concatenated SQL text — the CLI's offline `plan
// --format sql` dry-run path mentioned in SPEC_FULL.md §4.2. This is the
// plan-shaped counterpart of the teacher's sqlFormatter (which rendered a
// migration's already-generated SQLStatements()/RollbackStatements()); here
// the SQL does not exist yet and must be rendered per operation via the
// QueryBuilder contract (§4.2), one build call per operation rather than a
// pre-built statement list.
func RenderPlanSQL(qb querybuilder.QueryBuilder, p *core.ExecutionPlan) (string, error) {
	if p == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, stage := range p.Stages {
		fmt.Fprintf(&sb, "-- stage %d\n", stage.Stage)
		for _, op := range stage.Operations {
			sql, err := querybuilder.Dispatch(qb, op)
			if err != nil {
				return "", fmt.Errorf("render %s.%s: %w", op.Schema(), op.Object(), err)
			}
			sql = strings.TrimSpace(sql)
			if !strings.HasSuffix(sql, ";") {
				sql += ";"
			}
			sb.WriteString(sql)
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
