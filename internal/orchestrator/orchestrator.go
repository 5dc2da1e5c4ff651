// Package orchestrator implements C7, the execution-plan orchestrator: it
// composes the dependency analyzer (C3), DAG builder (C4), and stage
// partitioner (C5) into a single CreateExecutionPlan call, then wraps the
// result in a serializable core.ExecutionPlan.
package orchestrator

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"medalc/internal/core"
	"medalc/internal/dag"
	"medalc/internal/depanalyzer"
	"medalc/internal/planerr"
	"medalc/internal/sequencer"
	"medalc/internal/stage"
)

// logger receives the last-writer-wins warning §4.4 calls for; defaults to
// a no-op so the package has no required collaborator.
var logger = zap.NewNop()

// SetLogger installs the logger used for orchestrator-level warnings.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

// nodeID assigns the stable per-operation id §4.4 specifies:
// "{schema}.{object}_{index}" when an object name exists, else
// "operation_{index}".
func nodeID(op core.Operation, index int) string {
	if op.Object() != "" {
		return fmt.Sprintf("%s_%d", op.QualifiedName(), index)
	}
	return fmt.Sprintf("operation_%d", index)
}

// CreateExecutionPlan runs the full planning pipeline over ops: dependency
// analysis, DAG construction (with cycle rejection), and stage
// partitioning, then assembles a core.ExecutionPlan carrying
// sequencerName, the merged classMetadata, and the DAG's adjacency list.
func CreateExecutionPlan(ops []core.Operation, classMetadata map[string]any, sequencerName string) (*core.ExecutionPlan, error) {
	if len(ops) == 0 {
		return nil, planerr.New(planerr.CodeValidation, "CreateExecutionPlan requires at least one operation").
			WithDetail("sequencer", sequencerName)
	}

	ids := make([]string, len(ops))
	for i, op := range ops {
		ids[i] = nodeID(op, i)
	}

	deps := depanalyzer.New().AnalyzeAll(ops)

	targetIndex := map[string]string{}
	for i, op := range ops {
		d := deps[i]
		if d.WritesTo == "" {
			continue
		}
		key := strings.ToLower(d.WritesTo)
		if existing, ok := targetIndex[key]; ok {
			logger.Warn("multiple operations write to the same target; last writer wins",
				zap.String("target", d.WritesTo), zap.String("previous_node", existing), zap.String("new_node", ids[i]))
		}
		targetIndex[key] = ids[i]
	}

	g := dag.New()
	for _, id := range ids {
		g.AddNode(id)
	}
	for i, d := range deps {
		current := ids[i]
		for read := range d.ReadsFrom {
			producer, ok := targetIndex[strings.ToLower(read)]
			if !ok || producer == current {
				continue
			}
			g.AddEdge(current, producer)
		}
	}

	stageIDs, err := stage.Partition(g)
	if err != nil {
		return nil, err
	}

	opByID := make(map[string]core.Operation, len(ops))
	for i, op := range ops {
		opByID[ids[i]] = op
	}

	stages := make([]*core.ExecutionStage, len(stageIDs))
	for i, idGroup := range stageIDs {
		stageOps := make([]core.Operation, len(idGroup))
		for j, id := range idGroup {
			stageOps[j] = opByID[id]
		}
		stages[i] = &core.ExecutionStage{Stage: i + 1, Operations: stageOps}
	}

	return &core.ExecutionPlan{
		SequencerName:   sequencerName,
		Metadata:        classMetadata,
		TotalQueries:    len(ops),
		Stages:          stages,
		DependencyGraph: g.GetAdjacencyList(),
	}, nil
}

// CreatePlanFromSequencers concatenates operations across sequencers (in
// the order given), records each sequencer's ClassMetadata under a
// sequencer_metadata key, and forwards to CreateExecutionPlan.
func CreatePlanFromSequencers(seqs []sequencer.Sequencer, planName string) (*core.ExecutionPlan, error) {
	var allOps []core.Operation
	sequencerMetadata := map[string]any{}
	for i, s := range seqs {
		ops, err := s.GetQueries()
		if err != nil {
			return nil, planerr.New(planerr.CodeConfig, "sequencer discovery failed").
				WithDetail("sequencer_index", fmt.Sprintf("%d", i)).
				WithCause(err)
		}
		allOps = append(allOps, ops...)
		key := fmt.Sprintf("sequencer_%d", i)
		if named, ok := s.(sequencer.Named); ok {
			key = named.Name()
		}
		sequencerMetadata[key] = s.ClassMetadata()
	}
	plan, err := CreateExecutionPlan(allOps, map[string]any{"sequencer_metadata": sequencerMetadata}, planName)
	return plan, err
}

// CreatePlanForBronzeLayer, CreatePlanForSilverLayer, and
// CreatePlanForGoldLayer are single-sequencer convenience wrappers.
func CreatePlanForBronzeLayer(s sequencer.Sequencer, planName string) (*core.ExecutionPlan, error) {
	return singleSequencerPlan(s, planName)
}

func CreatePlanForSilverLayer(s sequencer.Sequencer, planName string) (*core.ExecutionPlan, error) {
	return singleSequencerPlan(s, planName)
}

func CreatePlanForGoldLayer(s sequencer.Sequencer, planName string) (*core.ExecutionPlan, error) {
	return singleSequencerPlan(s, planName)
}

func singleSequencerPlan(s sequencer.Sequencer, planName string) (*core.ExecutionPlan, error) {
	ops, err := s.GetQueries()
	if err != nil {
		return nil, planerr.New(planerr.CodeConfig, "sequencer discovery failed").WithCause(err)
	}
	return CreateExecutionPlan(ops, s.ClassMetadata(), planName)
}
