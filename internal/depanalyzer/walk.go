package depanalyzer

import (
	"strings"

	"github.com/pingcap/tidb/pkg/parser/ast"
)

// tableNameCollector walks an AST and records every ast.TableName node it
// encounters, in visitation order (duplicates included; the caller
// de-duplicates via set semantics).
type tableNameCollector struct {
	names []string
}

func (v *tableNameCollector) Enter(n ast.Node) (ast.Node, bool) {
	if tn, ok := n.(*ast.TableName); ok {
		parts := make([]string, 0, 2)
		if tn.Schema.O != "" {
			parts = append(parts, tn.Schema.O)
		}
		parts = append(parts, tn.Name.O)
		v.names = append(v.names, strings.Join(parts, "."))
	}
	return n, false
}

func (v *tableNameCollector) Leave(n ast.Node) (ast.Node, bool) {
	return n, true
}

// cteNameCollector walks an AST and records every CTE alias defined by a
// WITH clause, lower-cased for case-insensitive exclusion matching.
type cteNameCollector struct {
	names map[string]struct{}
}

func newCTENameCollector() *cteNameCollector {
	return &cteNameCollector{names: map[string]struct{}{}}
}

func (v *cteNameCollector) Enter(n ast.Node) (ast.Node, bool) {
	if wc, ok := n.(*ast.WithClause); ok {
		for _, cte := range wc.CTEs {
			v.names[strings.ToLower(cte.Name.O)] = struct{}{}
		}
	}
	return n, false
}

func (v *cteNameCollector) Leave(n ast.Node) (ast.Node, bool) {
	return n, true
}

// collectReads walks stmt and returns the set of qualified table names it
// references, excluding any name whose final (unqualified) component is a
// CTE alias defined somewhere in the same statement.
func collectReads(stmt ast.Node) map[string]struct{} {
	ctes := newCTENameCollector()
	stmt.Accept(ctes)

	tables := &tableNameCollector{}
	stmt.Accept(tables)

	reads := make(map[string]struct{}, len(tables.names))
	for _, name := range tables.names {
		local := name
		if idx := strings.LastIndex(local, "."); idx >= 0 {
			local = local[idx+1:]
		}
		if _, isCTE := ctes.names[strings.ToLower(local)]; isCTE {
			continue
		}
		reads[name] = struct{}{}
	}
	return reads
}

// writeTargetPattern matches the leading keyword of a DML statement whose
// target table is not otherwise known from the operation model (only
// ExecuteSQL needs this: every other write-capable variant carries its own
// schema/object, so its writes_to is derived directly from the operation,
// not from parsing). Kept intentionally simple: a keyword-prefix text
// match, not a regular expression or an AST walk.
var writeTargetPattern = newWriteTargetMatcher()

func newWriteTargetMatcher() *statementTargetMatcher {
	return &statementTargetMatcher{}
}

// statementTargetMatcher extracts the target table name from the leading
// keyword of a raw SQL string. It intentionally avoids depending on
// AST field names for DML targets (INSERT/UPDATE/DELETE/MERGE), which vary
// across parser versions, in favor of text matching on the statement's
// own leading clause — equally valid per the spec's text-level fallback
// allowance.
type statementTargetMatcher struct{}

func (statementTargetMatcher) Extract(sql string) (string, bool) {
	trimmed := strings.TrimSpace(sql)
	upper := strings.ToUpper(trimmed)
	for _, lead := range []string{"INSERT INTO ", "INSERT OVERWRITE INTO ", "UPDATE ", "DELETE FROM ", "MERGE INTO "} {
		if strings.HasPrefix(upper, lead) {
			rest := strings.TrimSpace(trimmed[len(lead):])
			end := strings.IndexAny(rest, " \t\n(")
			if end < 0 {
				end = len(rest)
			}
			name := strings.Trim(rest[:end], "`\"[]")
			if name != "" {
				return name, true
			}
		}
	}
	return "", false
}
