package depanalyzer

import (
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"medalc/internal/core"
	"medalc/internal/planerr"
)

// Analyzer implements C3. It is stateless beyond the parser instance it
// wraps, matching internal/parser/mysql.Parser's shape (a thin struct
// around *parser.Parser).
type Analyzer struct {
	p *parser.Parser
}

// New constructs an Analyzer.
func New() *Analyzer {
	return &Analyzer{p: parser.New()}
}

// extractReads parses body as a standalone statement (typically a SELECT
// embedded in a CTAS/INSERT/MERGE's source) and returns the qualified table
// names it reads from, excluding any name shadowed by a CTE alias. An empty
// or whitespace-only body yields an empty set with no error, matching the
// common case of a DDL/DML operation with no SQL-bearing fields.
func (a *Analyzer) extractReads(body string) (map[string]struct{}, error) {
	if strings.TrimSpace(body) == "" {
		return map[string]struct{}{}, nil
	}
	stmtNodes, _, err := a.p.Parse(body, "", "")
	if err != nil {
		return nil, planerr.New(planerr.CodeExecutionQuery, "failed to parse SQL body for dependency analysis").
			WithDetail("body", truncate(body, 200)).
			WithCause(err)
	}
	if len(stmtNodes) == 0 {
		return map[string]struct{}{}, nil
	}
	reads := map[string]struct{}{}
	for _, stmt := range stmtNodes {
		for name := range collectReads(stmt) {
			reads[name] = struct{}{}
		}
	}
	return reads, nil
}

// AnalyzeOperation computes Dependencies for a single operation. It
// dispatches on concrete type because each variant carries its SQL-bearing
// field(s) under a different name; every write-capable variant's writes_to
// is the operation's own qualified name (known from the operation model,
// not re-derived from parsing; ExecuteSQL is the exception, see
// analyzeExecuteSQL), so only the reads side needs the parser.
func (a *Analyzer) AnalyzeOperation(op core.Operation) Dependencies {
	switch o := op.(type) {
	case *core.CreateTable:
		reads, err := a.extractReads(o.SelectQuery)
		if err != nil {
			return fallbackFor(op)
		}
		return Dependencies{ReadsFrom: reads, WritesTo: op.QualifiedName()}

	case *core.Insert:
		reads, err := a.extractReads(o.SourceQuery)
		if err != nil {
			return fallbackFor(op)
		}
		return Dependencies{ReadsFrom: reads, WritesTo: op.QualifiedName()}

	case *core.CreateOrAlterView:
		reads, err := a.extractReads(o.SelectQuery)
		if err != nil {
			return fallbackFor(op)
		}
		return Dependencies{ReadsFrom: reads, WritesTo: op.QualifiedName()}

	case *core.Merge:
		// MERGE's own grammar is T-SQL and not what the parser supports;
		// its source_query is a standalone SELECT and parses on its own.
		reads, err := a.extractReads(o.SourceQuery)
		if err != nil {
			return fallbackFor(op)
		}
		return Dependencies{ReadsFrom: reads, WritesTo: op.QualifiedName()}

	case *core.Update:
		return Dependencies{ReadsFrom: map[string]struct{}{}, WritesTo: op.QualifiedName()}

	case *core.Delete:
		return Dependencies{ReadsFrom: map[string]struct{}{}, WritesTo: op.QualifiedName()}

	case *core.Copy:
		return Dependencies{ReadsFrom: map[string]struct{}{}, WritesTo: op.QualifiedName()}

	case *core.Select:
		return Dependencies{ReadsFrom: map[string]struct{}{op.QualifiedName(): {}}}

	case *core.ExecuteSQL:
		return a.analyzeExecuteSQL(o)

	default:
		// DropTable, DropView, CreateSchema, DropSchema, CreateStatistics:
		// no SQL body to analyze, no edges to contribute.
		return NewDependencies()
	}
}

// analyzeExecuteSQL is the one case where writes_to is not known from the
// operation model (ExecuteSQL carries no schema/object): both reads and
// writes are derived from the SQL text itself, per §4.3 step 4.
func (a *Analyzer) analyzeExecuteSQL(op *core.ExecuteSQL) Dependencies {
	if strings.TrimSpace(op.SQL) == "" {
		return NewDependencies()
	}
	reads, err := a.extractReads(op.SQL)
	if err != nil {
		return NewDependencies()
	}
	deps := Dependencies{ReadsFrom: reads}
	if target, ok := writeTargetPattern.Extract(op.SQL); ok {
		deps.WritesTo = target
		delete(deps.ReadsFrom, target)
	}
	return deps
}

// AnalyzeAll is the batch entry point: it runs AnalyzeOperation over every
// operation and returns a parallel slice of Dependencies, index-aligned
// with ops (an Operation value isn't comparable/hashable in the general
// case, so the contract is a slice keyed by position rather than a map
// keyed by Operation).
func (a *Analyzer) AnalyzeAll(ops []core.Operation) []Dependencies {
	out := make([]Dependencies, len(ops))
	for i, op := range ops {
		out[i] = a.AnalyzeOperation(op)
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
