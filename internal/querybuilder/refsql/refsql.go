// Package refsql is a reference, MySQL-flavored QueryBuilder implementation.
// It exists to drive the §8 test matrix and the CLI's offline `plan`
// subcommand dry-run — it is not a production renderer (see §1's
// out-of-scope note on SQL emission). It is grounded on the teacher's
// internal/dialect/mysql quoting and formatting helpers, generalized from
// DDL-diff emission to operation-variant emission.
package refsql

import (
	"fmt"
	"strings"

	"medalc/internal/core"
	"medalc/internal/querybuilder"
)

// Builder renders operations as MySQL-flavored SQL text.
type Builder struct {
	querybuilder.BaseBuilder
}

// NewBuilder constructs a reference builder with backtick identifier
// quoting, matching internal/dialect/mysql's QuoteIdentifier convention.
func NewBuilder(opts querybuilder.BuilderOptions) *Builder {
	return &Builder{BaseBuilder: querybuilder.NewBaseBuilder(opts, "`")}
}

// Build is the single entry point: it runs the shared pre-dispatch
// validations and forwards to the matching Build* method.
func (b *Builder) Build(op core.Operation) (string, error) {
	return querybuilder.Dispatch(b, op)
}

func (b *Builder) fqn(op core.Operation) string {
	return b.FullyQualifiedName(op.Schema(), op.Object())
}

func (b *Builder) BuildCreateTable(op *core.CreateTable) (string, error) {
	name := b.fqn(op)
	var sb strings.Builder
	if op.Recreate {
		fmt.Fprintf(&sb, "DROP TABLE IF EXISTS %s; ", b.QuoteIdentifier(name))
	}
	if op.SelectQuery != "" {
		fmt.Fprintf(&sb, "CREATE TABLE %s AS %s", b.QuoteIdentifier(name), op.SelectQuery)
	} else {
		fmt.Fprintf(&sb, "CREATE TABLE %s (%s)", b.QuoteIdentifier(name), strings.Join(op.Columns, ", "))
	}
	if op.FileFormat != "" {
		fmt.Fprintf(&sb, " /* file_format=%s */", op.FileFormat)
	}
	return sb.String(), nil
}

func (b *Builder) BuildDropTable(op *core.DropTable) (string, error) {
	ifExists := ""
	if op.IfExists {
		ifExists = "IF EXISTS "
	}
	return fmt.Sprintf("DROP TABLE %s%s", ifExists, b.QuoteIdentifier(b.fqn(op))), nil
}

func (b *Builder) BuildInsert(op *core.Insert) (string, error) {
	name := b.fqn(op)
	cols := ""
	if len(op.Columns) > 0 {
		cols = " (" + b.FormatColumnList(op.Columns) + ")"
	}
	overwrite := ""
	if op.Mode == core.InsertOverwrite {
		overwrite = "OVERWRITE "
	}
	if op.SourceQuery != "" {
		return fmt.Sprintf("INSERT %sINTO %s%s %s", overwrite, b.QuoteIdentifier(name), cols, op.SourceQuery), nil
	}
	return fmt.Sprintf("INSERT %sINTO %s%s VALUES %s", overwrite, b.QuoteIdentifier(name), cols, b.FormatValueList(op.Values)), nil
}

func (b *Builder) BuildUpdate(op *core.Update) (string, error) {
	stmt := fmt.Sprintf("UPDATE %s SET %s", b.QuoteIdentifier(b.fqn(op)), b.FormatSetClause(op.SetColumns))
	if op.WhereClause != "" {
		stmt += " WHERE " + op.WhereClause
	}
	return stmt, nil
}

func (b *Builder) BuildDelete(op *core.Delete) (string, error) {
	stmt := fmt.Sprintf("DELETE FROM %s", b.QuoteIdentifier(b.fqn(op)))
	if op.WhereClause != "" {
		stmt += " WHERE " + op.WhereClause
	}
	return stmt, nil
}

func (b *Builder) BuildMerge(op *core.Merge) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "MERGE INTO %s USING (%s) AS src ON %s", b.QuoteIdentifier(b.fqn(op)), op.SourceQuery, op.MergeCondition)
	if op.WhenMatchedUpdate != "" {
		fmt.Fprintf(&sb, " WHEN MATCHED THEN UPDATE SET %s", op.WhenMatchedUpdate)
	}
	if op.WhenMatchedDelete {
		fmt.Fprint(&sb, " WHEN MATCHED THEN DELETE")
	}
	if op.WhenNotMatchedInsert != "" {
		fmt.Fprintf(&sb, " WHEN NOT MATCHED THEN INSERT %s", op.WhenNotMatchedInsert)
	}
	if op.WhenNotMatchedBySourceUpdate != "" {
		fmt.Fprintf(&sb, " WHEN NOT MATCHED BY SOURCE THEN UPDATE SET %s", op.WhenNotMatchedBySourceUpdate)
	}
	if op.WhenNotMatchedBySourceDelete {
		fmt.Fprint(&sb, " WHEN NOT MATCHED BY SOURCE THEN DELETE")
	}
	return sb.String(), nil
}

func (b *Builder) BuildSelect(op *core.Select) (string, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if op.Distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(b.FormatColumnList(op.Columns))
	fmt.Fprintf(&sb, " FROM %s", b.QuoteIdentifier(b.fqn(op)))
	if op.JoinClause != "" {
		sb.WriteString(" " + op.JoinClause)
	}
	if op.WhereClause != "" {
		sb.WriteString(" WHERE " + op.WhereClause)
	}
	if len(op.GroupBy) > 0 {
		sb.WriteString(" GROUP BY " + strings.Join(op.GroupBy, ", "))
	}
	if op.HavingClause != "" {
		sb.WriteString(" HAVING " + op.HavingClause)
	}
	if len(op.OrderBy) > 0 {
		sb.WriteString(" ORDER BY " + strings.Join(op.OrderBy, ", "))
	}
	if op.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", op.Limit)
		if op.Offset > 0 {
			fmt.Fprintf(&sb, " OFFSET %d", op.Offset)
		}
	}
	return sb.String(), nil
}

func (b *Builder) BuildCopy(op *core.Copy) (string, error) {
	return fmt.Sprintf("LOAD DATA INFILE %s INTO TABLE %s", b.QuoteString(op.SourceLocation), b.QuoteIdentifier(b.fqn(op))), nil
}

func (b *Builder) BuildCreateOrAlterView(op *core.CreateOrAlterView) (string, error) {
	schemabinding := ""
	if op.WithSchemaBinding {
		schemabinding = " WITH SCHEMABINDING"
	}
	return fmt.Sprintf("CREATE OR REPLACE VIEW %s%s AS %s", b.QuoteIdentifier(b.fqn(op)), schemabinding, op.SelectQuery), nil
}

func (b *Builder) BuildDropView(op *core.DropView) (string, error) {
	ifExists := ""
	if op.IfExists {
		ifExists = "IF EXISTS "
	}
	return fmt.Sprintf("DROP VIEW %s%s", ifExists, b.QuoteIdentifier(b.fqn(op))), nil
}

func (b *Builder) BuildCreateStatistics(op *core.CreateStatistics) (string, error) {
	name := querybuilder.ResolveStatsName(op)
	var stmt string
	if len(op.Columns) == 0 {
		// auto_discover with no explicit column: let the engine pick.
		stmt = fmt.Sprintf("CREATE STATISTICS %s ON %s", b.QuoteIdentifier(name), b.QuoteIdentifier(b.fqn(op)))
	} else {
		stmt = fmt.Sprintf("CREATE STATISTICS %s ON %s (%s)", b.QuoteIdentifier(name), b.QuoteIdentifier(b.fqn(op)), b.FormatColumnList(op.Columns))
	}
	if op.WithFullscan {
		stmt += " WITH FULLSCAN"
	} else if op.SamplePercent != nil {
		stmt += fmt.Sprintf(" WITH SAMPLE %.2f PERCENT", *op.SamplePercent)
	}
	return stmt, nil
}

func (b *Builder) BuildCreateSchema(op *core.CreateSchema) (string, error) {
	ifNotExists := ""
	if op.IfNotExists {
		ifNotExists = "IF NOT EXISTS "
	}
	stmt := fmt.Sprintf("CREATE SCHEMA %s%s", ifNotExists, b.QuoteIdentifier(op.Object()))
	if op.Authorization != "" {
		stmt += " AUTHORIZATION " + b.QuoteIdentifier(op.Authorization)
	}
	return stmt, nil
}

func (b *Builder) BuildDropSchema(op *core.DropSchema) (string, error) {
	ifExists := ""
	if op.IfExists {
		ifExists = "IF EXISTS "
	}
	behavior := "RESTRICT"
	if op.Cascade {
		behavior = "CASCADE"
	}
	return fmt.Sprintf("DROP SCHEMA %s%s %s", ifExists, b.QuoteIdentifier(op.Object()), behavior), nil
}

func (b *Builder) BuildExecuteSQL(op *core.ExecuteSQL) (string, error) {
	return op.SQL, nil
}
