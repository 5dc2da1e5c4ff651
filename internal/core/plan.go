package core

import "encoding/json"

// ExecutionStage is a set of operations that may run in parallel: all
// dependencies of every operation in this stage live in an earlier stage.
type ExecutionStage struct {
	Stage      int
	Operations []Operation
	Context    *ExecutionRequestContext
}

// ExecutionPlan is the self-contained, serializable output of the
// orchestrator: stages in execution order, the dependency graph they were
// derived from, and plan-level metadata/lineage/context.
type ExecutionPlan struct {
	SequencerName   string
	Metadata        map[string]any
	Lineage         map[string]any
	TotalQueries    int
	Stages          []*ExecutionStage
	DependencyGraph map[string][]string
	Context         *ExecutionRequestContext
}

// GetAllOperations returns the plan's operations grouped by stage. When
// serialize is true each operation is encoded to its map form (with
// _cte_stage/_cte_position/_cte_request_context injected), suitable for a
// worker's work queue; when false, operation references are returned for
// in-process execution.
func (p *ExecutionPlan) GetAllOperations(serialize bool) [][]any {
	out := make([][]any, len(p.Stages))
	for i, stage := range p.Stages {
		group := make([]any, len(stage.Operations))
		for j, op := range stage.Operations {
			if serialize {
				group[j] = EncodeStaged(op, stage.Stage, j)
			} else {
				group[j] = op
			}
		}
		out[i] = group
	}
	return out
}

// MarshalJSON renders the stage per §6's plan encoding: stage index plus its
// encoded operations, with an optional context.
func (s *ExecutionStage) MarshalJSON() ([]byte, error) {
	ops := make([]map[string]any, len(s.Operations))
	for i, op := range s.Operations {
		ops[i] = EncodeStaged(op, s.Stage, i)
	}
	obj := map[string]any{"stage": s.Stage, "operations": ops}
	if s.Context != nil {
		obj["context"] = s.Context.ToMap()
	}
	return json.Marshal(obj)
}

// MarshalJSON renders the plan per §6's plan encoding.
func (p *ExecutionPlan) MarshalJSON() ([]byte, error) {
	obj := map[string]any{
		"sequencer_name":   p.SequencerName,
		"total_queries":    p.TotalQueries,
		"stages":           p.Stages,
		"dependency_graph": p.DependencyGraph,
	}
	if len(p.Metadata) > 0 {
		obj["metadata"] = p.Metadata
	}
	if len(p.Lineage) > 0 {
		obj["lineage"] = p.Lineage
	}
	if p.Context != nil {
		obj["context"] = p.Context.ToMap()
	}
	return json.Marshal(obj)
}

// DecodePlan reverses MarshalJSON: it rebuilds stages (decoding each
// operation via Decode) and the dependency graph, preserving ordering.
func DecodePlan(data []byte) (*ExecutionPlan, error) {
	var raw struct {
		SequencerName   string                      `json:"sequencer_name"`
		Metadata        map[string]any              `json:"metadata"`
		Lineage         map[string]any              `json:"lineage"`
		TotalQueries    int                         `json:"total_queries"`
		DependencyGraph map[string][]string         `json:"dependency_graph"`
		Context         map[string]any              `json:"context"`
		Stages          []struct {
			Stage      int                      `json:"stage"`
			Operations []map[string]any         `json:"operations"`
			Context    map[string]any           `json:"context"`
		} `json:"stages"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	plan := &ExecutionPlan{
		SequencerName:   raw.SequencerName,
		Metadata:        raw.Metadata,
		Lineage:         raw.Lineage,
		TotalQueries:    raw.TotalQueries,
		DependencyGraph: raw.DependencyGraph,
		Context:         contextFromMap(raw.Context),
	}
	for _, rs := range raw.Stages {
		stage := &ExecutionStage{Stage: rs.Stage, Context: contextFromMap(rs.Context)}
		for _, encodedOp := range rs.Operations {
			op, err := Decode(encodedOp)
			if err != nil {
				return nil, err
			}
			stage.Operations = append(stage.Operations, op)
		}
		plan.Stages = append(plan.Stages, stage)
	}
	return plan, nil
}
