package dispatch

import (
	"context"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
)

func setupMySQLForDispatch(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := mysql.Run(ctx, "mysql:8.0",
		mysql.WithDatabase("testdb"),
		mysql.WithUsername("root"),
		mysql.WithPassword("testpass"),
	)
	require.NoError(t, err, "failed to start MySQL container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err, "failed to get connection string")
	return dsn
}

func TestMySQLEngineIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dsn := setupMySQLForDispatch(t)
	ctx := context.Background()

	engine, err := NewMySQLEngine(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })

	require.NoError(t, engine.TestConnection(ctx))

	_, err = engine.Execute(ctx, "CREATE TABLE widgets (id INT PRIMARY KEY, name VARCHAR(64))")
	require.NoError(t, err)

	rows, err := engine.Execute(ctx, "INSERT INTO widgets (id, name) VALUES (1, 'bolt'), (2, 'nut')")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows)

	data, err := engine.FetchAll(ctx, "SELECT id, name FROM widgets ORDER BY id")
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.Equal(t, "bolt", string(data[0]["name"].([]byte)))

	scalar, err := engine.FetchScalar(ctx, "SELECT COUNT(*) FROM widgets")
	require.NoError(t, err)
	require.NotNil(t, scalar)

	err = engine.ExecuteBatch(ctx, []string{
		"UPDATE widgets SET name = 'screw' WHERE id = 1",
		"DELETE FROM widgets WHERE id = 2",
	})
	require.NoError(t, err)

	remaining, err := engine.FetchAll(ctx, "SELECT id FROM widgets")
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestMySQLEngineInvalidDSNFails(t *testing.T) {
	_, err := NewMySQLEngine(context.Background(), "invalid:user@tcp(127.0.0.1:1)/nope")
	assert.Error(t, err)
}
