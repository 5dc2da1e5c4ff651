package dispatch

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"medalc/internal/planerr"
)

// MySQLEngine implements SQLEngine against a MySQL-compatible warehouse
// endpoint via database/sql, grounded on the teacher's
// apply.Applier.Connect/Close lifecycle and its ExecContext usage in
// applyWithTransaction/applyWithoutTransaction.
type MySQLEngine struct {
	db *sql.DB
}

// NewMySQLEngine opens dsn and verifies connectivity with PingContext,
// exactly as Applier.Connect does.
func NewMySQLEngine(ctx context.Context, dsn string) (*MySQLEngine, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, planerr.New(planerr.CodeConnection, "failed to open database connection").WithCause(err)
	}
	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, planerr.New(planerr.CodeConnection, "failed to ping database").WithCause(pingErr)
	}
	return &MySQLEngine{db: db}, nil
}

// Close releases the underlying connection pool.
func (e *MySQLEngine) Close() error {
	return e.db.Close()
}

func (e *MySQLEngine) Execute(ctx context.Context, query string) (int64, error) {
	res, err := e.db.ExecContext(ctx, query)
	if err != nil {
		return 0, planerr.New(planerr.CodeExecutionQuery, "statement execution failed").
			WithDetail("query", truncate(query, 200)).WithCause(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return rows, nil
}

func (e *MySQLEngine) FetchAll(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, planerr.New(planerr.CodeExecutionQuery, "query execution failed").
			WithDetail("query", truncate(query, 200)).WithCause(err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// FetchDataframe is an alias for FetchAll: this engine has no distinct
// dataframe representation, unlike a Spark engine's native one.
func (e *MySQLEngine) FetchDataframe(ctx context.Context, query string) ([]map[string]any, error) {
	return e.FetchAll(ctx, query)
}

func (e *MySQLEngine) FetchScalar(ctx context.Context, query string) (any, error) {
	rows, err := e.FetchAll(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	for _, v := range rows[0] {
		return v, nil
	}
	return nil, nil
}

// ExecuteBatch runs statements inside a single transaction, rolling back on
// the first failure, matching applyWithTransaction's idiom.
func (e *MySQLEngine) ExecuteBatch(ctx context.Context, statements []string) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return planerr.New(planerr.CodeConnection, "failed to begin transaction").WithCause(err)
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return planerr.New(planerr.CodeExecutionQuery, "batch statement failed, transaction rolled back").
				WithDetail("query", truncate(stmt, 200)).WithCause(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return planerr.New(planerr.CodeConnection, "failed to commit transaction").WithCause(err)
	}
	return nil
}

func (e *MySQLEngine) TestConnection(ctx context.Context) error {
	if err := e.db.PingContext(ctx); err != nil {
		return planerr.New(planerr.CodeConnection, "connection test failed").WithCause(err)
	}
	return nil
}

func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, planerr.New(planerr.CodeExecutionQuery, "failed to read result columns").WithCause(err)
	}
	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, planerr.New(planerr.CodeExecutionQuery, "failed to scan result row").WithCause(err)
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s...", s[:n])
}
