// Package lakeprobe supplies a concrete, MySQL-backed implementation of
// sequencer.LakeDatabaseProbe (§4.6's "external lake database probe" bronze
// discovery depends on). It is grounded on the teacher's
// internal/introspect/mysql package: the same information_schema.tables /
// information_schema.columns queries and dialect-detection idiom, narrowed
// from "introspect a full core.Database (tables, columns, indexes,
// constraints) for schema diffing" down to "list the base tables and
// soft-delete column a bronze sequencer should ingest" — the one
// SPEC_FULL.md component (§4.6, bronze sequencer) a catalog probe has to
// serve in this domain. The teacher's per-table index/constraint
// introspection (internal/introspect/mysql/indexes.go) has no use here and
// was dropped rather than carried over unexercised (see DESIGN.md).
package lakeprobe

import (
	"context"
	"database/sql"
	"strings"

	"medalc/internal/sequencer"
)

// MySQLProbe lists base tables in SourceSchema as bronze ingestion
// candidates. A column in SoftDeleteColumns present on a table marks that
// table's rows as logically deletable (§4.6's bronze sequencer omits
// soft-deleted rows for ordinary data tables); MetadataTables exempts
// specific tables from that filtering, matching the teacher's
// landing_zone data-table/metadata-table distinction.
type MySQLProbe struct {
	DB                *sql.DB
	SourceSchema      string
	TargetSchema      string
	SoftDeleteColumns []string
	MetadataTables    map[string]struct{}
}

var _ sequencer.LakeDatabaseProbe = (*MySQLProbe)(nil)

// ListSourceTables implements sequencer.LakeDatabaseProbe: it enumerates
// every base table in SourceSchema, grounded directly on
// introspectTables' information_schema.tables query, then for each table
// looks for the first matching soft-delete column, grounded on
// introspectColumns' information_schema.columns query narrowed to just
// column_name.
func (p *MySQLProbe) ListSourceTables(ctx context.Context) ([]sequencer.SourceTable, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`, p.SourceSchema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	targetSchema := p.TargetSchema
	if targetSchema == "" {
		targetSchema = p.SourceSchema
	}

	tables := make([]sequencer.SourceTable, 0, len(names))
	for _, name := range names {
		softDelete, err := p.softDeleteColumn(ctx, name)
		if err != nil {
			return nil, err
		}
		_, isMeta := p.MetadataTables[strings.ToLower(name)]
		tables = append(tables, sequencer.SourceTable{
			SourceSchema:     p.SourceSchema,
			SourceName:       name,
			TargetSchema:     targetSchema,
			TargetName:       name,
			SoftDeleteColumn: softDelete,
			IsMetadataTable:  isMeta,
		})
	}
	return tables, nil
}

// softDeleteColumn returns the first of p.SoftDeleteColumns that exists as
// a real column on table, or "" if none match.
func (p *MySQLProbe) softDeleteColumn(ctx context.Context, table string) (string, error) {
	if len(p.SoftDeleteColumns) == 0 {
		return "", nil
	}

	rows, err := p.DB.QueryContext(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
	`, p.SourceSchema, table)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	present := map[string]struct{}{}
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return "", err
		}
		present[strings.ToLower(col)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	for _, candidate := range p.SoftDeleteColumns {
		if _, ok := present[strings.ToLower(candidate)]; ok {
			return candidate, nil
		}
	}
	return "", nil
}
