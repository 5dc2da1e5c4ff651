package dispatch

import "medalc/internal/core"

// sqlOnlyKinds never run on Spark regardless of hint or platform support:
// statistics collection, schema DDL, and view definition are SQL-catalog
// operations with no Spark-side equivalent.
var sqlOnlyKinds = map[core.OperationKind]struct{}{
	core.KindCreateStatistics:  {},
	core.KindCreateSchema:      {},
	core.KindDropSchema:        {},
	core.KindCreateOrAlterView: {},
	core.KindDropView:          {},
}

// sparkPreferredKinds run on Spark when the platform supports it, absent an
// overriding engine_hint: MERGE and COPY are the two variants the original
// system favors for Spark's native merge/bulk-load paths (§9 open
// question, resolved as a package-level policy table rather than a
// per-call parameter).
var sparkPreferredKinds = map[core.OperationKind]struct{}{
	core.KindMerge: {},
	core.KindCopy:  {},
}

// selectEngine resolves the engine an operation should run on, given
// whether the dispatcher was built with a usable SparkEngine: an explicit
// SQL hint wins, and so does a Spark hint when Spark is available and the
// kind is not SQL-only; otherwise SQL-only kinds pin to SQL; otherwise
// Spark-preferred kinds go to Spark when available; everything else
// defaults to SQL.
func selectEngine(op core.Operation, sparkAvailable bool) core.EngineHint {
	if hint := op.EngineHint(); hint == core.EngineSQL {
		return core.EngineSQL
	} else if hint == core.EngineSpark && sparkAvailable {
		if _, sqlOnly := sqlOnlyKinds[op.Kind()]; !sqlOnly {
			return core.EngineSpark
		}
	}

	if _, sqlOnly := sqlOnlyKinds[op.Kind()]; sqlOnly {
		return core.EngineSQL
	}
	if _, preferSpark := sparkPreferredKinds[op.Kind()]; preferSpark && sparkAvailable {
		return core.EngineSpark
	}
	return core.EngineSQL
}
