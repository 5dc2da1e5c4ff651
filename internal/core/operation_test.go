package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCreateTableRequiresSelectOrColumns(t *testing.T) {
	_, err := Build(KindCreateTable, "silver", "a", EngineUnspecified, nil, nil, map[string]any{})
	require.Error(t, err)

	_, err = Build(KindCreateTable, "silver", "a", EngineUnspecified, nil, nil, map[string]any{
		"select_query": "SELECT 1", "columns": []any{"a"},
	})
	require.Error(t, err, "select_query and columns are mutually exclusive")

	op, err := Build(KindCreateTable, "silver", "a", EngineUnspecified, nil, nil, map[string]any{
		"select_query": "SELECT * FROM bronze.raw_a",
	})
	require.NoError(t, err)
	assert.Equal(t, KindCreateTable, op.Kind())
	assert.Equal(t, "silver.a", op.QualifiedName())
}

func TestBuildInsertRequiresSourceOrValues(t *testing.T) {
	_, err := Build(KindInsert, "silver", "b", EngineUnspecified, nil, nil, map[string]any{})
	require.Error(t, err)

	op, err := Build(KindInsert, "silver", "b", EngineUnspecified, nil, nil, map[string]any{
		"source_query": "SELECT * FROM silver.a",
	})
	require.NoError(t, err)
	assert.Equal(t, InsertAppend, op.(*Insert).Mode)
}

func TestBuildMergeRequiresAWhenClause(t *testing.T) {
	_, err := Build(KindMerge, "silver", "m", EngineUnspecified, nil, nil, map[string]any{
		"source_query": "SELECT 1", "merge_condition": "t.id = s.id",
	})
	require.Error(t, err)

	op, err := Build(KindMerge, "silver", "m", EngineUnspecified, nil, nil, map[string]any{
		"source_query": "SELECT 1", "merge_condition": "t.id = s.id", "when_matched_update": "x = 1",
	})
	require.NoError(t, err)
	assert.Equal(t, "x = 1", op.(*Merge).WhenMatchedUpdate)
}

func TestBuildSelectHavingRequiresGroupBy(t *testing.T) {
	_, err := Build(KindSelect, "silver", "s", EngineUnspecified, nil, nil, map[string]any{
		"having_clause": "COUNT(*) > 1",
	})
	require.Error(t, err)

	op, err := Build(KindSelect, "silver", "s", EngineUnspecified, nil, nil, map[string]any{
		"having_clause": "COUNT(*) > 1", "group_by": []any{"a"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, op.(*Select).GroupBy)
}

func TestBuildUnknownKindFallsBackToExecuteSQL(t *testing.T) {
	op, err := Build(OperationKind("BOGUS"), "", "", EngineUnspecified, nil, nil, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, KindExecuteSQL, op.Kind())
	assert.Equal(t, "", op.(*ExecuteSQL).SQL)
}

func TestIdentifierValidationRejectsDangerousTokens(t *testing.T) {
	cases := []string{
		"a;DROP TABLE x", "a--comment", "a/*c*/b", "a UNION SELECT 1", "a OR 1=1",
	}
	for _, bad := range cases {
		_, err := Build(KindDropTable, "silver", bad, EngineUnspecified, nil, nil, map[string]any{})
		assert.Error(t, err, "expected rejection for %q", bad)
	}
}

func TestIdentifierValidationAcceptsOrdinaryNames(t *testing.T) {
	_, err := Build(KindDropTable, "silver", "orders_clean$v2", EngineUnspecified, nil, nil, map[string]any{})
	require.NoError(t, err)
}

func TestAttachContextCopiesEngineHintAndLoggingContext(t *testing.T) {
	op, err := Build(KindDelete, "silver", "t", EngineSQL, map[string]string{"run": "nightly"}, nil, map[string]any{})
	require.NoError(t, err)

	ctx := NewExecutionRequestContext("alice", "corr-1")
	op.AttachContext(ctx)

	assert.Equal(t, "SQL", ctx.Attributes["engine_hint"])
	assert.Equal(t, "nightly", ctx.Attributes["run"])
	assert.Equal(t, ctx.RequestID, op.TelemetryFields()["operation.id"])
}

func TestCreateStatisticsMutualExclusion(t *testing.T) {
	sample := 10.0
	_, err := Build(KindCreateStatistics, "silver", "p", EngineUnspecified, nil, nil, map[string]any{
		"columns": []any{"a"}, "sample_percent": sample, "with_fullscan": true,
	})
	require.Error(t, err)
}
