package dispatch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"medalc/internal/core"
	"medalc/internal/planerr"
	"medalc/internal/querybuilder"
)

// logger receives dispatch-level diagnostics (statistics-companion build
// and execution failures); defaults to a no-op.
var logger = zap.NewNop()

// SetLogger installs the logger used for dispatcher-level diagnostics.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

// pollInterval is how often Dispatch polls a submitted Spark job's status.
// A production deployment with a push-based Spark client can ignore this;
// it only matters for the poll-based SparkEngine implementations this
// package expects.
var pollInterval = 200 * time.Millisecond

// Dispatcher renders and executes a single operation against whichever
// engine its kind and hint resolve to (§4.9). It never returns an error
// from Dispatch itself: every failure, from rendering through execution,
// is captured into the returned OperationResult, matching the "per-op
// errors are captured, never raised" propagation policy in §7.
type Dispatcher struct {
	QueryBuilder querybuilder.QueryBuilder
	SQL          SQLEngine
	Spark        SparkEngine
	Storage      StorageClient
}

// NewDispatcher constructs a Dispatcher. sql is required; spark and storage
// may be nil when a deployment has no Spark engine or no object storage to
// manage.
func NewDispatcher(qb querybuilder.QueryBuilder, sql SQLEngine, spark SparkEngine, storage StorageClient) *Dispatcher {
	return &Dispatcher{QueryBuilder: qb, SQL: sql, Spark: spark, Storage: storage}
}

func (d *Dispatcher) sparkAvailable() bool {
	return d.Spark != nil && d.Spark.Available()
}

func failure(op core.Operation, engine core.EngineHint, err error, query string) *OperationResult {
	res := &OperationResult{
		Success:       false,
		OperationType: op.Kind(),
		Schema:        op.Schema(),
		Object:        op.Object(),
		EngineUsed:    engine,
		QueryExecuted: query,
		ErrorMessage:  errorMessage(err),
		ErrorType:     "generic",
	}
	if pe, ok := err.(*planerr.Error); ok {
		res.ErrorType = string(pe.Code)
	}
	return res
}

// errorMessage renders err for OperationResult.ErrorMessage, folding a
// planerr.Error's detail bag into the text since OperationResult has no
// separate structured field for it.
func errorMessage(err error) string {
	pe, ok := err.(*planerr.Error)
	if !ok || len(pe.Details) == 0 {
		return err.Error()
	}
	msg := err.Error()
	keys := make([]string, 0, len(pe.Details))
	for k := range pe.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		msg += fmt.Sprintf(" [%s=%s]", k, pe.Details[k])
	}
	return msg
}

// Dispatch executes op to completion: engine selection, the recreate+
// location storage side effect, SQL rendering, execution, and (for a
// successful CreateTable with metadata.create_stats) the statistics
// companion chain (S5).
func (d *Dispatcher) Dispatch(ctx context.Context, op core.Operation) *OperationResult {
	engine := selectEngine(op, d.sparkAvailable())

	if ct, ok := op.(*core.CreateTable); ok && ct.Recreate && ct.Location != "" && d.Storage != nil {
		if err := d.Storage.DeleteLocation(ctx, ct.Location); err != nil {
			wrapped := planerr.New(planerr.CodeOperationStorage, "failed to delete existing table location before recreate").
				WithDetail("object", op.QualifiedName()).
				WithDetail("location", ct.Location).
				WithCause(err)
			return failure(op, engine, wrapped, "")
		}
	}

	sql, err := querybuilder.Dispatch(d.QueryBuilder, op)
	if err != nil {
		return failure(op, engine, err, "")
	}

	var (
		start        = time.Now()
		rowsAffected int64
		data         []map[string]any
	)

	switch engine {
	case core.EngineSpark:
		rowsAffected, data, err = d.runSpark(ctx, op, sql)
	default:
		es, isExec := op.(*core.ExecuteSQL)
		switch {
		case !isExec || !es.ReturnsResults:
			rowsAffected, err = d.SQL.Execute(ctx, sql)
		case es.ResultFormat == core.ResultScalar:
			var v any
			v, err = d.SQL.FetchScalar(ctx, sql)
			data = []map[string]any{{"value": v}}
		case es.ResultFormat == core.ResultDictList:
			data, err = d.SQL.FetchAll(ctx, sql)
		default:
			data, err = d.SQL.FetchDataframe(ctx, sql)
		}
	}
	duration := time.Since(start).Seconds()

	if err != nil {
		res := failure(op, engine, err, sql)
		res.DurationSeconds = duration
		return res
	}

	res := &OperationResult{
		Success:         true,
		OperationType:   op.Kind(),
		Schema:          op.Schema(),
		Object:          op.Object(),
		DurationSeconds: duration,
		EngineUsed:      engine,
		RowsAffected:    &rowsAffected,
		Data:            data,
		QueryExecuted:   sql,
	}

	if ct, ok := op.(*core.CreateTable); ok && ct.Metadata() != nil && ct.Metadata().CreateStats {
		d.dispatchStatsCompanion(ctx, ct)
	}

	return res
}

// runSpark submits op to the Spark engine and polls until it reaches a
// terminal state, honoring ctx cancellation.
func (d *Dispatcher) runSpark(ctx context.Context, op core.Operation, sql string) (int64, []map[string]any, error) {
	jobID, err := d.Spark.Submit(ctx, op, sql)
	if err != nil {
		return 0, nil, planerr.New(planerr.CodeExecutionJobSubmit, "spark job submission failed").
			WithDetail("object", op.QualifiedName()).WithCause(err)
	}

	for {
		status, err := d.Spark.Status(ctx, jobID)
		if err != nil {
			return 0, nil, planerr.New(planerr.CodeExecutionJobStatus, "spark job status check failed").
				WithDetail("job_id", jobID).WithCause(err)
		}
		switch status {
		case JobSucceeded:
			return d.Spark.Result(ctx, jobID)
		case JobFailed, JobCancelled:
			return 0, nil, planerr.New(planerr.CodeExecutionTransformation, fmt.Sprintf("spark job ended in state %s", status)).
				WithDetail("job_id", jobID)
		}

		select {
		case <-ctx.Done():
			_ = d.Spark.Cancel(context.Background(), jobID)
			return 0, nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// dispatchStatsCompanion synthesizes and runs a CreateStatistics operation
// for a just-created table (S5). Failure is logged, never propagated: the
// parent CreateTable already succeeded.
func (d *Dispatcher) dispatchStatsCompanion(ctx context.Context, ct *core.CreateTable) {
	statsName := fmt.Sprintf("stats_%s_auto", ct.Object())
	fields := map[string]any{
		"stats_name":    statsName,
		"with_fullscan": true,
		"auto_discover": true,
	}
	statsOp, err := core.Build(core.KindCreateStatistics, ct.Schema(), ct.Object(), core.EngineUnspecified, nil, nil, fields)
	if err != nil {
		logger.Warn("failed to build statistics companion operation",
			zap.String("object", ct.QualifiedName()), zap.Error(err))
		return
	}
	if res := d.Dispatch(ctx, statsOp); !res.Success {
		logger.Warn("statistics companion failed; parent CreateTable result is unaffected",
			zap.String("object", ct.QualifiedName()), zap.String("error", res.ErrorMessage))
	}
}
