// Package depanalyzer implements C3, the SQL dependency analyzer: given an
// operation's rendered SQL body it reports the set of tables the body reads
// from and, for operations that write, the table it writes to. It is
// grounded on internal/parser/mysql's parse-then-walk idiom (itself built on
// github.com/pingcap/tidb/pkg/parser) and internal/apply's node-type-switch
// idiom for classifying a parsed statement.
package depanalyzer

import "medalc/internal/core"

// Dependencies is the per-operation output of the analyzer: the qualified
// table names an operation's SQL body reads from, and the table it writes
// to, if any. ReadsFrom uses set semantics (map keys); the zero value is a
// valid "no dependencies" record.
type Dependencies struct {
	ReadsFrom map[string]struct{}
	WritesTo  string

	// Fallback is true when the analyzer could not parse the operation's
	// SQL body and fell back to the minimal record the spec allows
	// (§4.3 step 5): empty reads, writes_to = the operation's own
	// qualified name.
	Fallback bool
}

// NewDependencies returns an empty Dependencies record.
func NewDependencies() Dependencies {
	return Dependencies{ReadsFrom: map[string]struct{}{}}
}

// ReadsSlice returns ReadsFrom's keys, primarily for deterministic test
// assertions and logging; iteration order is not meaningful otherwise.
func (d Dependencies) ReadsSlice() []string {
	out := make([]string, 0, len(d.ReadsFrom))
	for name := range d.ReadsFrom {
		out = append(out, name)
	}
	return out
}

// fallbackFor builds the minimal dependency record the spec calls for when
// an operation's SQL body fails to parse: no known reads, writes_to is the
// operation's own qualified name (its target is known from the operation
// model itself, independent of the SQL text).
func fallbackFor(op core.Operation) Dependencies {
	return Dependencies{ReadsFrom: map[string]struct{}{}, WritesTo: op.QualifiedName(), Fallback: true}
}
