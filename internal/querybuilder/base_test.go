package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medalc/internal/core"
)

func TestFullyQualifiedNamePrefixPolicy(t *testing.T) {
	b := NewBaseBuilder(BuilderOptions{
		TablePrefix:       "etl_",
		SkipPrefixSchemas: map[string]struct{}{"bronze": {}},
	}, "`")

	assert.Equal(t, "bronze.raw_a", b.FullyQualifiedName("bronze", "raw_a"), "skip-prefix schema stays bare")
	assert.Equal(t, "silver.etl_clean", b.FullyQualifiedName("silver", "clean"), "non-skip schema gets the prefix")
}

func TestValidatePreDispatchRejectsMultiColumnStatistics(t *testing.T) {
	op, err := core.Build(core.KindCreateStatistics, "silver", "p", core.EngineUnspecified, nil, nil, map[string]any{
		"columns": []any{"a", "b"},
	})
	require.NoError(t, err)

	err = ValidatePreDispatch(op)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "silver.p")
}

func TestValidatePreDispatchAllowsAutoDiscoverWithNoColumns(t *testing.T) {
	op, err := core.Build(core.KindCreateStatistics, "silver", "p", core.EngineUnspecified, nil, nil, map[string]any{
		"auto_discover": true,
	})
	require.NoError(t, err)

	assert.NoError(t, ValidatePreDispatch(op))
}

func TestValidatePreDispatchRejectsAutoDiscoverWithMultipleColumns(t *testing.T) {
	op, err := core.Build(core.KindCreateStatistics, "silver", "p", core.EngineUnspecified, nil, nil, map[string]any{
		"auto_discover": true,
		"columns":       []any{"a", "b"},
	})
	require.NoError(t, err)

	assert.Error(t, ValidatePreDispatch(op))
}

func TestValidatePreDispatchRejectsForbiddenExecuteSQLTokens(t *testing.T) {
	op, err := core.Build(core.KindExecuteSQL, "", "", core.EngineUnspecified, nil, nil, map[string]any{
		"sql": "EXEC sp_configure 'show advanced options', 1",
	})
	require.NoError(t, err)

	err = ValidatePreDispatch(op)
	require.Error(t, err)
}

func TestResolveStatsNameDefault(t *testing.T) {
	op, err := core.Build(core.KindCreateStatistics, "silver", "p", core.EngineUnspecified, nil, nil, map[string]any{
		"columns": []any{"amount"},
	})
	require.NoError(t, err)
	assert.Equal(t, "stat_p_amount", ResolveStatsName(op.(*core.CreateStatistics)))
}
