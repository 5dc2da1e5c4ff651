package refsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medalc/internal/core"
	"medalc/internal/querybuilder"
)

func build(t *testing.T, kind core.OperationKind, schema, object string, fields map[string]any) core.Operation {
	t.Helper()
	op, err := core.Build(kind, schema, object, core.EngineUnspecified, nil, nil, fields)
	require.NoError(t, err)
	return op
}

func TestBuildCreateTableCTAS(t *testing.T) {
	b := NewBuilder(querybuilder.DefaultOptions())
	op := build(t, core.KindCreateTable, "silver", "a", map[string]any{
		"select_query": "SELECT * FROM bronze.raw_a", "recreate": true,
	})
	sql, err := b.Build(op)
	require.NoError(t, err)
	assert.Contains(t, sql, "DROP TABLE IF EXISTS")
	assert.Contains(t, sql, "CREATE TABLE `silver.a` AS SELECT * FROM bronze.raw_a")
}

func TestBuildInsertOverwrite(t *testing.T) {
	b := NewBuilder(querybuilder.DefaultOptions())
	op := build(t, core.KindInsert, "silver", "b", map[string]any{
		"source_query": "SELECT * FROM silver.a", "mode": "overwrite",
	})
	sql, err := b.Build(op)
	require.NoError(t, err)
	assert.Equal(t, "INSERT OVERWRITE INTO `silver.b` SELECT * FROM silver.a", sql)
}

func TestBuildRejectsMultiColumnStatistics(t *testing.T) {
	b := NewBuilder(querybuilder.DefaultOptions())
	op := build(t, core.KindCreateStatistics, "silver", "p", map[string]any{
		"columns": []any{"a", "b"},
	})
	_, err := b.Build(op)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a, b")
}

func TestBuildCreateStatisticsDefaultName(t *testing.T) {
	b := NewBuilder(querybuilder.DefaultOptions())
	op := build(t, core.KindCreateStatistics, "silver", "p", map[string]any{
		"columns": []any{"amount"}, "with_fullscan": true,
	})
	sql, err := b.Build(op)
	require.NoError(t, err)
	assert.Contains(t, sql, "`stat_p_amount`")
	assert.Contains(t, sql, "WITH FULLSCAN")
}

func TestBuildCreateStatisticsAutoDiscoverOmitsColumnList(t *testing.T) {
	b := NewBuilder(querybuilder.DefaultOptions())
	op := build(t, core.KindCreateStatistics, "silver", "p", map[string]any{
		"stats_name": "stats_p_auto", "with_fullscan": true, "auto_discover": true,
	})
	sql, err := b.Build(op)
	require.NoError(t, err)
	assert.Equal(t, "CREATE STATISTICS `stats_p_auto` ON `silver.p` WITH FULLSCAN", sql)
}

func TestBuildExecuteSQLRejectsForbiddenToken(t *testing.T) {
	b := NewBuilder(querybuilder.DefaultOptions())
	op := build(t, core.KindExecuteSQL, "", "", map[string]any{"sql": "EXEC xp_cmdshell 'dir'"})
	_, err := b.Build(op)
	require.Error(t, err)
}

func TestBuildSelectWithLimitOffset(t *testing.T) {
	b := NewBuilder(querybuilder.DefaultOptions())
	op := build(t, core.KindSelect, "silver", "t", map[string]any{
		"columns": []any{"a"}, "limit": 10.0, "offset": 5.0,
	})
	sql, err := b.Build(op)
	require.NoError(t, err)
	assert.Contains(t, sql, "LIMIT 10 OFFSET 5")
}
