package querybuilder

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"medalc/internal/core"
	"medalc/internal/planerr"
)

// BaseBuilder supplies the formatting helpers common to every concrete
// QueryBuilder (quoting, list/set formatting, fully-qualified-name
// prefixing). Concrete builders embed BaseBuilder and add their own
// Build* methods; this mirrors the Generator/Dialect split in the
// teacher's internal/dialect package.
type BaseBuilder struct {
	Opts        BuilderOptions
	QuoteChar   string // identifier quote character, e.g. "`" for MySQL, `"` for ANSI.
}

// NewBaseBuilder constructs a BaseBuilder with the given options and
// identifier quote character.
func NewBaseBuilder(opts BuilderOptions, quoteChar string) BaseBuilder {
	if opts.SkipPrefixSchemas == nil {
		opts.SkipPrefixSchemas = map[string]struct{}{}
	}
	return BaseBuilder{Opts: opts, QuoteChar: quoteChar}
}

func (b BaseBuilder) Options() BuilderOptions { return b.Opts }

// QuoteIdentifier wraps name in the configured quote character, doubling any
// embedded occurrence (injection-safe quoting).
func (b BaseBuilder) QuoteIdentifier(name string) string {
	if b.QuoteChar == "" {
		return name
	}
	escaped := strings.ReplaceAll(name, b.QuoteChar, b.QuoteChar+b.QuoteChar)
	return b.QuoteChar + escaped + b.QuoteChar
}

// QuoteString wraps value in single quotes, doubling embedded single quotes.
func (b BaseBuilder) QuoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// FormatColumnList renders a comma-separated, quoted column list, or "*"
// when columns is empty.
func (b BaseBuilder) FormatColumnList(columns []string) string {
	if len(columns) == 0 {
		return "*"
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = b.QuoteIdentifier(c)
	}
	return strings.Join(quoted, ", ")
}

// FormatSetClause renders "col = value, ..." for an UPDATE SET clause, with
// keys sorted for deterministic output.
func (b BaseBuilder) FormatSetClause(set map[string]string) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s = %s", b.QuoteIdentifier(k), set[k])
	}
	return strings.Join(parts, ", ")
}

// FormatValueList renders a VALUES (...), (...) clause from a slice of row
// maps, quoting string values and passing numeric/bool values through.
func (b BaseBuilder) FormatValueList(values []map[string]any) string {
	rows := make([]string, len(values))
	for i, row := range values {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		cells := make([]string, len(keys))
		for j, k := range keys {
			cells[j] = b.formatScalar(row[k])
		}
		rows[i] = "(" + strings.Join(cells, ", ") + ")"
	}
	return strings.Join(rows, ", ")
}

func (b BaseBuilder) formatScalar(v any) string {
	switch val := v.(type) {
	case string:
		return b.QuoteString(val)
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case nil:
		return "NULL"
	default:
		return b.QuoteString(fmt.Sprintf("%v", val))
	}
}

// FullyQualifiedName implements the prefix/skip-prefix policy: schemas whose
// lowercase name appears in SkipPrefixSchemas are rendered un-prefixed;
// others get TablePrefix applied to the object component.
func (b BaseBuilder) FullyQualifiedName(schema, object string) string {
	name := object
	if _, skip := b.Opts.SkipPrefixSchemas[strings.ToLower(schema)]; !skip && b.Opts.TablePrefix != "" {
		name = b.Opts.TablePrefix + object
	}
	return core.QualifiedName(schema, name)
}

// ValidatePreDispatch runs the validations every QueryBuilder must apply
// before rendering, regardless of concrete implementation: CreateStatistics
// single-column enforcement and ExecuteSQL's forbidden-token deny list.
func ValidatePreDispatch(op core.Operation) error {
	switch o := op.(type) {
	case *core.CreateStatistics:
		// auto_discover defers column selection to the engine/stats config,
		// so zero columns is valid there; otherwise exactly one is required.
		if o.AutoDiscover {
			if len(o.Columns) > 1 {
				return planerr.New(planerr.CodeValidation, fmt.Sprintf("CreateStatistics with auto_discover on %s accepts at most one column, got: %s", o.QualifiedName(), strings.Join(o.Columns, ", "))).
					WithDetail("object", o.QualifiedName()).
					WithDetail("columns", strings.Join(o.Columns, ", "))
			}
		} else if len(o.Columns) != 1 {
			return planerr.New(planerr.CodeValidation, fmt.Sprintf("CreateStatistics on %s requires exactly one column, got: %s", o.QualifiedName(), strings.Join(o.Columns, ", "))).
				WithDetail("object", o.QualifiedName()).
				WithDetail("columns", strings.Join(o.Columns, ", "))
		}
	case *core.ExecuteSQL:
		if token, found := core.ContainsForbiddenSQLToken(o.SQL); found {
			return planerr.New(planerr.CodeValidation, "ExecuteSQL body contains a forbidden token").
				WithDetail("token", token)
		}
	}
	return nil
}

// ResolveStatsName derives "stat_{object}_{column}" when op.StatsName is
// empty, the default the spec calls for when a CreateStatistics operation
// doesn't name its own statistics object.
func ResolveStatsName(op *core.CreateStatistics) string {
	if op.StatsName != "" {
		return op.StatsName
	}
	column := ""
	if len(op.Columns) > 0 {
		column = op.Columns[0]
	}
	return fmt.Sprintf("stat_%s_%s", op.Object(), column)
}

// Dispatch runs the universal pre-dispatch validations and then forwards
// op to the matching Build* method on qb, the one place an implementation
// needs to add a case when a new OperationKind is introduced.
func Dispatch(qb QueryBuilder, op core.Operation) (string, error) {
	if err := ValidatePreDispatch(op); err != nil {
		return "", err
	}
	switch o := op.(type) {
	case *core.CreateTable:
		return qb.BuildCreateTable(o)
	case *core.DropTable:
		return qb.BuildDropTable(o)
	case *core.Insert:
		return qb.BuildInsert(o)
	case *core.Update:
		return qb.BuildUpdate(o)
	case *core.Delete:
		return qb.BuildDelete(o)
	case *core.Merge:
		return qb.BuildMerge(o)
	case *core.Select:
		return qb.BuildSelect(o)
	case *core.Copy:
		return qb.BuildCopy(o)
	case *core.CreateOrAlterView:
		return qb.BuildCreateOrAlterView(o)
	case *core.DropView:
		return qb.BuildDropView(o)
	case *core.CreateStatistics:
		return qb.BuildCreateStatistics(o)
	case *core.CreateSchema:
		return qb.BuildCreateSchema(o)
	case *core.DropSchema:
		return qb.BuildDropSchema(o)
	case *core.ExecuteSQL:
		return qb.BuildExecuteSQL(o)
	default:
		return "", planerr.New(planerr.CodePlatformNotSupported, "unreachable: unsupported operation kind").
			WithDetail("kind", string(op.Kind()))
	}
}
