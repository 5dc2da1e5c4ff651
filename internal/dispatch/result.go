// Package dispatch implements C9, the execution dispatcher: engine
// selection, pre-dispatch side effects, SQL rendering, execution, result
// wrapping, and the statistics-companion chain. It is grounded directly on
// compute/platforms/base.py's execute_operation pipeline and on the
// teacher's apply.Applier.Apply/applyWithTransaction idiom for
// context.Context-scoped database/sql execution and time.Since-based
// duration capture.
package dispatch

import "medalc/internal/core"

// OperationResult is the uniform per-operation outcome the dispatcher
// returns: it never lets an execution error escape as a Go error, wrapping
// success or failure into this value instead (§4.9 step 5, §7's
// "per-op errors are captured, never raised" propagation policy).
type OperationResult struct {
	Success         bool
	OperationType   core.OperationKind
	Schema          string
	Object          string
	DurationSeconds float64
	EngineUsed      core.EngineHint
	RowsAffected    *int64
	Data            []map[string]any
	ErrorMessage    string
	ErrorType       string
	QueryExecuted   string
}
