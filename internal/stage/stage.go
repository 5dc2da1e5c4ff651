// Package stage is the thin, pure entry point the orchestrator calls for
// C5 (stage partitioning). The actual Kahn's-algorithm layering lives on
// internal/dag.DependencyDAG.GetExecutionStages, since the DAG owns both
// the in-degree bookkeeping and the dependents map the algorithm needs;
// this package exists so the planning pipeline's phases (depanalyzer →
// dag → stage → orchestrator) each have a named home, matching §5's
// listing of the pure, single-threaded planning packages.
package stage

import "medalc/internal/dag"

// Partition layers g into dependency-ordered stages. It is a direct
// forward to DependencyDAG.GetExecutionStages and carries no state of its
// own — a free function rather than a type, since stage partitioning takes
// no configuration.
func Partition(g *dag.DependencyDAG) ([][]string, error) {
	return g.GetExecutionStages()
}
