package sequencer

import (
	"context"
	"fmt"

	"medalc/internal/core"
)

// NewBronzeSequencer discovers one CreateTable per source table reported
// by probe: a full-select from the source, recreated every run, with
// metadata.create_stats set so the dispatcher chains a CreateStatistics
// companion after it succeeds (§4.6's bronze sequencer, §4.9 step 6). Rows
// marked deleted by SoftDeleteColumn are omitted for ordinary data tables;
// metadata tables are ingested in full.
func NewBronzeSequencer(ctx context.Context, name string, probe LakeDatabaseProbe) (Sequencer, error) {
	tables, err := probe.ListSourceTables(ctx)
	if err != nil {
		return nil, err
	}
	b := NewBuilder(name, core.LayerBronze)
	for _, t := range tables {
		t := t
		selectQuery := fmt.Sprintf("SELECT * FROM %s", core.QualifiedName(t.SourceSchema, t.SourceName))
		if t.SoftDeleteColumn != "" && !t.IsMetadataTable {
			selectQuery += fmt.Sprintf(" WHERE %s IS NULL", t.SoftDeleteColumn)
		}
		b.Register(core.KindCreateTable, t.TargetSchema, t.TargetName,
			core.QueryMetadata{CreateStats: true},
			map[string]any{"recreate": true},
			func() (string, error) { return selectQuery, nil },
		)
	}
	return b.Build()
}
