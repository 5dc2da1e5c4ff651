package depanalyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medalc/internal/core"
)

func build(t *testing.T, kind core.OperationKind, schema, object string, fields map[string]any) core.Operation {
	t.Helper()
	op, err := core.Build(kind, schema, object, core.EngineUnspecified, nil, nil, fields)
	require.NoError(t, err)
	return op
}

func TestAnalyzeCreateTableCTAS(t *testing.T) {
	a := New()
	op := build(t, core.KindCreateTable, "silver", "clean", map[string]any{
		"select_query": "SELECT * FROM bronze.raw_orders",
	})
	deps := a.AnalyzeOperation(op)
	assert.Equal(t, "silver.clean", deps.WritesTo)
	assert.Contains(t, deps.ReadsFrom, "bronze.raw_orders")
	assert.False(t, deps.Fallback)
}

func TestAnalyzeCreateTableDDLHasNoReads(t *testing.T) {
	a := New()
	op := build(t, core.KindCreateTable, "bronze", "raw_orders", map[string]any{
		"columns": []any{"id INT", "amount DECIMAL(10,2)"},
	})
	deps := a.AnalyzeOperation(op)
	assert.Equal(t, "bronze.raw_orders", deps.WritesTo)
	assert.Empty(t, deps.ReadsFrom)
}

func TestAnalyzeCTEIsNotADependency(t *testing.T) {
	a := New()
	op := build(t, core.KindInsert, "silver", "out", map[string]any{
		"source_query": "WITH t AS (SELECT * FROM bronze.src) SELECT * FROM t",
	})
	deps := a.AnalyzeOperation(op)
	assert.Equal(t, "silver.out", deps.WritesTo)
	assert.Equal(t, map[string]struct{}{"bronze.src": {}}, deps.ReadsFrom)
}

func TestAnalyzeInsertDedupesRepeatedFrom(t *testing.T) {
	a := New()
	op := build(t, core.KindInsert, "silver", "joined", map[string]any{
		"source_query": "SELECT a.id FROM bronze.src a JOIN bronze.src b ON a.id = b.ref_id",
	})
	deps := a.AnalyzeOperation(op)
	assert.Len(t, deps.ReadsFrom, 1)
	assert.Contains(t, deps.ReadsFrom, "bronze.src")
}

func TestAnalyzeMergeReadsFromSourceQuery(t *testing.T) {
	a := New()
	op := build(t, core.KindMerge, "gold", "customers", map[string]any{
		"source_query":        "SELECT * FROM silver.customer_updates",
		"merge_condition":     "target.id = source.id",
		"when_matched_update": "name = source.name",
	})
	deps := a.AnalyzeOperation(op)
	assert.Equal(t, "gold.customers", deps.WritesTo)
	assert.Contains(t, deps.ReadsFrom, "silver.customer_updates")
}

func TestAnalyzeInsertFallsBackOnUnparsableBody(t *testing.T) {
	a := New()
	op := build(t, core.KindInsert, "silver", "broken", map[string]any{
		"source_query": "SELEKT !!! not sql at all (((",
	})
	deps := a.AnalyzeOperation(op)
	assert.True(t, deps.Fallback)
	assert.Equal(t, "silver.broken", deps.WritesTo)
	assert.Empty(t, deps.ReadsFrom)
}

func TestAnalyzeSelectReadsFromItself(t *testing.T) {
	a := New()
	op := build(t, core.KindSelect, "silver", "clean", nil)
	deps := a.AnalyzeOperation(op)
	assert.Empty(t, deps.WritesTo)
	assert.Contains(t, deps.ReadsFrom, "silver.clean")
}

func TestAnalyzeExecuteSQLDerivesTargetAndReadsFromText(t *testing.T) {
	a := New()
	op := build(t, core.KindExecuteSQL, "", "", map[string]any{
		"sql": "INSERT INTO silver.manual_patch SELECT * FROM bronze.raw_adjustments",
	})
	deps := a.AnalyzeOperation(op)
	assert.Equal(t, "silver.manual_patch", deps.WritesTo)
	assert.Contains(t, deps.ReadsFrom, "bronze.raw_adjustments")
}

func TestAnalyzeDDLWithNoBodyHasNoEdges(t *testing.T) {
	a := New()
	op := build(t, core.KindDropTable, "bronze", "old", nil)
	deps := a.AnalyzeOperation(op)
	assert.Empty(t, deps.WritesTo)
	assert.Empty(t, deps.ReadsFrom)
}

func TestAnalyzeAllIsIndexAligned(t *testing.T) {
	a := New()
	ops := []core.Operation{
		build(t, core.KindCreateTable, "bronze", "a", map[string]any{"columns": []any{"id INT"}}),
		build(t, core.KindInsert, "silver", "b", map[string]any{"source_query": "SELECT * FROM bronze.a"}),
	}
	deps := a.AnalyzeAll(ops)
	require.Len(t, deps, 2)
	assert.Empty(t, deps[0].ReadsFrom)
	assert.Contains(t, deps[1].ReadsFrom, "bronze.a")
}
