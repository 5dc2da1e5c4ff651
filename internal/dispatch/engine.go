package dispatch

import (
	"context"

	"medalc/internal/core"
)

// SQLEngine is the platform contract for executing rendered SQL text
// against a warehouse/lakehouse SQL endpoint (§6's SQL engine contract).
type SQLEngine interface {
	Execute(ctx context.Context, sql string) (rowsAffected int64, err error)
	FetchDataframe(ctx context.Context, sql string) ([]map[string]any, error)
	FetchScalar(ctx context.Context, sql string) (any, error)
	FetchAll(ctx context.Context, sql string) ([]map[string]any, error)
	ExecuteBatch(ctx context.Context, statements []string) error
	TestConnection(ctx context.Context) error
}

// SparkEngine is the platform contract for submitting a transformation to a
// Spark-family compute engine (§6's Spark engine contract). It is
// asynchronous: Submit returns a job handle, Status/Result poll it.
type SparkEngine interface {
	Submit(ctx context.Context, op core.Operation, sql string) (jobID string, err error)
	Status(ctx context.Context, jobID string) (JobStatus, error)
	Result(ctx context.Context, jobID string) (rowsAffected int64, data []map[string]any, err error)
	Cancel(ctx context.Context, jobID string) error
	Available() bool
}

// JobStatus is the lifecycle state of a submitted Spark job.
type JobStatus string

const (
	JobPending   JobStatus = "PENDING"
	JobRunning   JobStatus = "RUNNING"
	JobSucceeded JobStatus = "SUCCEEDED"
	JobFailed    JobStatus = "FAILED"
	JobCancelled JobStatus = "CANCELLED"
)
