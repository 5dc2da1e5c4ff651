// Package querybuilder defines the platform-agnostic contract for
// rendering an operation variant to a SQL string. It ships no production
// renderer (dialect-specific rendering is an implementer's concern, same as
// the teacher's internal/dialect split between Generator interface and
// concrete per-dialect packages) — only the interface, the shared
// pre-dispatch validations every implementation must run, and the helpers a
// concrete builder composes by embedding BaseBuilder.
package querybuilder

import "medalc/internal/core"

// QueryBuilder renders each operation variant to SQL text and supplies the
// shared identifier/value-formatting helpers every concrete renderer needs.
type QueryBuilder interface {
	Options() BuilderOptions

	QuoteIdentifier(name string) string
	QuoteString(value string) string
	FormatColumnList(columns []string) string
	FormatSetClause(set map[string]string) string
	FormatValueList(values []map[string]any) string
	FullyQualifiedName(schema, object string) string

	BuildCreateTable(*core.CreateTable) (string, error)
	BuildDropTable(*core.DropTable) (string, error)
	BuildInsert(*core.Insert) (string, error)
	BuildUpdate(*core.Update) (string, error)
	BuildDelete(*core.Delete) (string, error)
	BuildMerge(*core.Merge) (string, error)
	BuildSelect(*core.Select) (string, error)
	BuildCopy(*core.Copy) (string, error)
	BuildCreateOrAlterView(*core.CreateOrAlterView) (string, error)
	BuildDropView(*core.DropView) (string, error)
	BuildCreateStatistics(*core.CreateStatistics) (string, error)
	BuildCreateSchema(*core.CreateSchema) (string, error)
	BuildDropSchema(*core.DropSchema) (string, error)
	BuildExecuteSQL(*core.ExecuteSQL) (string, error)
}

// BuilderOptions configures the prefix/skip-prefix and quoting policy every
// concrete builder shares.
type BuilderOptions struct {
	// TablePrefix is applied to the object component of a qualified name
	// unless the schema is in SkipPrefixSchemas.
	TablePrefix string
	// SkipPrefixSchemas holds lowercased schema names exempt from TablePrefix.
	SkipPrefixSchemas map[string]struct{}
}

// DefaultOptions returns a BuilderOptions with no prefixing.
func DefaultOptions() BuilderOptions {
	return BuilderOptions{SkipPrefixSchemas: map[string]struct{}{}}
}
