package orchestrator

import "medalc/internal/core"

// PlanCache is an optional collaborator that can short-circuit
// CreateExecutionPlan for a previously-seen sequencer signature. The
// planning core does not require one to function (§9's "optional
// collaborator with a no-op default" design note).
type PlanCache interface {
	Get(key string) (*core.ExecutionPlan, bool)
	Put(key string, plan *core.ExecutionPlan)
}

// NoopPlanCache implements PlanCache with no storage: every Get misses,
// every Put is discarded. It is the default when a deployment wires no
// real cache.
type NoopPlanCache struct{}

func (NoopPlanCache) Get(_ string) (*core.ExecutionPlan, bool) { return nil, false }
func (NoopPlanCache) Put(_ string, _ *core.ExecutionPlan)      {}
