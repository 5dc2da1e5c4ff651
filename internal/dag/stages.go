package dag

// GetExecutionStages partitions the DAG into dependency-ordered stages via
// Kahn's algorithm (§4.5): stage 1 is every node with in-degree 0; after a
// stage is published, dependents whose in-degree reaches zero join the
// next stage. Ties within a stage are broken by insertion order. Returns
// CodeExecutionCircularDependency if the graph isn't acyclic (a round
// producing no nodes before every node is processed, which the prior
// HasCycles check should already have ruled out upstream).
func (g *DependencyDAG) GetExecutionStages() ([][]string, error) {
	if g.HasCycles() {
		return nil, newCircularDependencyError()
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, n := range g.nodes {
		inDegree[n] = len(g.deps[n])
	}

	remaining := len(g.nodes)
	processed := make(map[string]struct{}, len(g.nodes))
	var stages [][]string

	for remaining > 0 {
		var stage []string
		for _, n := range g.nodes {
			if _, done := processed[n]; done {
				continue
			}
			if inDegree[n] == 0 {
				stage = append(stage, n)
			}
		}
		if len(stage) == 0 {
			// Unreachable given the HasCycles guard above; kept as a
			// defensive fallback so a future change to the cycle check
			// can't silently infinite-loop here.
			return nil, newCircularDependencyError()
		}
		for _, n := range stage {
			processed[n] = struct{}{}
			remaining--
		}
		for _, n := range stage {
			for _, dependent := range g.dependents[n] {
				inDegree[dependent]--
			}
		}
		stages = append(stages, stage)
	}
	return stages, nil
}
