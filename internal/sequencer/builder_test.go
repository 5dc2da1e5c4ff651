package sequencer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medalc/internal/core"
)

func TestBuilderMaterializesRegisteredOperations(t *testing.T) {
	b := NewBuilder("CustomerSilver", core.LayerSilver)
	b.Insert("silver", "orders_clean", core.QueryMetadata{CreateStats: true}, func() (string, error) {
		return "SELECT * FROM bronze.orders WHERE deleted_at IS NULL", nil
	})

	seq, err := b.Build()
	require.NoError(t, err)

	ops, err := seq.GetQueries()
	require.NoError(t, err)
	require.Len(t, ops, 1)

	ins, ok := ops[0].(*core.Insert)
	require.True(t, ok)
	assert.Equal(t, "silver.orders_clean", ins.QualifiedName())
	assert.Contains(t, ins.SourceQuery, "bronze.orders")
	assert.True(t, ins.Metadata().CreateStats)
}

func TestBuilderSkipsEmptyDiscoveryResult(t *testing.T) {
	b := NewBuilder("CustomerSilver", core.LayerSilver)
	b.Insert("silver", "skip_me", core.QueryMetadata{}, func() (string, error) { return "", nil })

	seq, err := b.Build()
	require.NoError(t, err)
	ops, err := seq.GetQueries()
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestBuilderWrapsDiscoveryError(t *testing.T) {
	b := NewBuilder("CustomerSilver", core.LayerSilver)
	b.Insert("silver", "broken", core.QueryMetadata{}, func() (string, error) {
		return "", errors.New("boom")
	})

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CustomerSilver")
}

func TestBuilderWrapsDiscoveryPanic(t *testing.T) {
	b := NewBuilder("CustomerSilver", core.LayerSilver)
	b.Insert("silver", "panics", core.QueryMetadata{}, func() (string, error) {
		panic("nil map write")
	})

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestBuilderRunsEachDiscoveryMethodExactlyOnce(t *testing.T) {
	calls := 0
	b := NewBuilder("CustomerSilver", core.LayerSilver)
	b.Insert("silver", "counted", core.QueryMetadata{}, func() (string, error) {
		calls++
		return "SELECT 1", nil
	})

	seq, err := b.Build()
	require.NoError(t, err)
	_, _ = seq.GetQueries()
	_, _ = seq.GetQueries()
	assert.Equal(t, 1, calls)
}

type fakeProbe struct {
	tables []SourceTable
}

func (f fakeProbe) ListSourceTables(_ context.Context) ([]SourceTable, error) {
	return f.tables, nil
}

func TestBronzeSequencerEmitsRecreateWithSoftDeleteFilter(t *testing.T) {
	probe := fakeProbe{tables: []SourceTable{
		{SourceSchema: "src", SourceName: "orders", TargetSchema: "bronze", TargetName: "orders", SoftDeleteColumn: "deleted_at"},
		{SourceSchema: "src", SourceName: "meta_sync", TargetSchema: "bronze", TargetName: "meta_sync", SoftDeleteColumn: "deleted_at", IsMetadataTable: true},
	}}

	seq, err := NewBronzeSequencer(context.Background(), "LakeBronze", probe)
	require.NoError(t, err)

	ops, err := seq.GetQueries()
	require.NoError(t, err)
	require.Len(t, ops, 2)

	orders := ops[0].(*core.CreateTable)
	assert.True(t, orders.Recreate)
	assert.Contains(t, orders.SelectQuery, "WHERE deleted_at IS NULL")
	assert.True(t, orders.Metadata().CreateStats)

	metaSync := ops[1].(*core.CreateTable)
	assert.NotContains(t, metaSync.SelectQuery, "WHERE")
}

func TestGoldBuilderFilterRestrictsEmittedObjects(t *testing.T) {
	b := NewGoldBuilder("SalesGold")
	b.View("gold", "daily_sales", core.QueryMetadata{}, func() (string, error) { return "SELECT 1", nil })
	b.View("gold", "monthly_sales", core.QueryMetadata{}, func() (string, error) { return "SELECT 1", nil })
	b.Filter("daily_sales")

	seq, err := b.Build()
	require.NoError(t, err)
	ops, err := seq.GetQueries()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "gold.daily_sales", ops[0].QualifiedName())
}

func TestGoldBuilderWithoutFilterEmitsEverything(t *testing.T) {
	b := NewGoldBuilder("SalesGold")
	b.View("gold", "daily_sales", core.QueryMetadata{}, func() (string, error) { return "SELECT 1", nil })
	b.View("gold", "monthly_sales", core.QueryMetadata{}, func() (string, error) { return "SELECT 1", nil })

	seq, err := b.Build()
	require.NoError(t, err)
	ops, err := seq.GetQueries()
	require.NoError(t, err)
	assert.Len(t, ops, 2)
}
