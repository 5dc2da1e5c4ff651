package sequencer

import "context"

// SourceTable describes one table a LakeDatabaseProbe reports as available
// for bronze ingestion.
type SourceTable struct {
	SourceSchema string
	SourceName   string
	TargetSchema string
	TargetName   string
	// SoftDeleteColumn, when non-empty, is excluded from the full-select
	// body with "WHERE <column> IS NULL" (bronze never materializes
	// soft-deleted rows for a non-metadata source table).
	SoftDeleteColumn string
	// IsMetadataTable exempts a table from soft-delete filtering even
	// when SoftDeleteColumn is set, matching the original's
	// landing_zone distinction between data tables and metadata tables.
	IsMetadataTable bool
}

// LakeDatabaseProbe discovers which source tables bronze should ingest. It
// is a direct Go analog of medallion/landing_zone/lake_database.py: the
// bronze sequencer calls it once, at discovery time, and never again.
type LakeDatabaseProbe interface {
	ListSourceTables(ctx context.Context) ([]SourceTable, error)
}

// StatsColumnDiscoverer optionally supplies the column list a
// CreateStatistics companion should target, when a sequencer or dispatcher
// wants more than the dispatcher's single-column default. It is an
// injected collaborator (§9): the planning/dispatch core never requires a
// real implementation to function.
type StatsColumnDiscoverer interface {
	DiscoverStatsColumns(ctx context.Context, schema, object string) ([]string, error)
}
