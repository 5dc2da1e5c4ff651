package dag

import "medalc/internal/planerr"

func newCircularDependencyError() *planerr.Error {
	return planerr.New(planerr.CodeExecutionCircularDependency, "dependency graph contains a cycle")
}
