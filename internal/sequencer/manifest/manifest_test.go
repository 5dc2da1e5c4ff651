package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medalc/internal/core"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadInlineSQL(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manifest.toml", `
name = "CustomerSilver"
layer = "silver"

[[operation]]
type = "INSERT"
schema = "silver"
object = "orders_clean"
sql = "SELECT * FROM bronze.orders WHERE deleted_at IS NULL"

  [operation.metadata]
  create_stats = true
`)
	seq, err := Load(path)
	require.NoError(t, err)

	ops, err := seq.GetQueries()
	require.NoError(t, err)
	require.Len(t, ops, 1)

	ins := ops[0].(*core.Insert)
	assert.Equal(t, "silver.orders_clean", ins.QualifiedName())
	assert.Contains(t, ins.SourceQuery, "bronze.orders")
	assert.True(t, ins.Metadata().CreateStats)
}

func TestLoadSQLFileRelativeToManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "query.sql", "SELECT * FROM bronze.raw_a")
	path := writeFile(t, dir, "manifest.toml", `
name = "CustomerSilver"

[[operation]]
type = "CREATE_TABLE"
schema = "silver"
object = "a"
sql_file = "query.sql"
`)
	seq, err := Load(path)
	require.NoError(t, err)

	ops, err := seq.GetQueries()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	ct := ops[0].(*core.CreateTable)
	assert.Equal(t, "SELECT * FROM bronze.raw_a", ct.SelectQuery)
}

func TestLoadRejectsBothSQLAndSQLFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manifest.toml", `
name = "Bad"

[[operation]]
type = "INSERT"
schema = "silver"
object = "x"
sql = "SELECT 1"
sql_file = "whatever.sql"
`)
	_, err := Load(path)
	require.Error(t, err)
}
