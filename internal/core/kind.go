// Package core defines the operation sum type, planner hints, execution
// context, and plan/stage data model at the heart of the execution-plan
// compiler: the types that flow from sequencer discovery through the DAG
// builder into a serialized ExecutionPlan.
package core

// OperationKind identifies which of the fourteen operation variants a given
// Operation value is. It is frozen per variant: once an Operation is built
// its Kind never changes.
type OperationKind string

const (
	KindCreateTable        OperationKind = "CREATE_TABLE"
	KindDropTable          OperationKind = "DROP_TABLE"
	KindInsert             OperationKind = "INSERT"
	KindUpdate             OperationKind = "UPDATE"
	KindDelete             OperationKind = "DELETE"
	KindMerge              OperationKind = "MERGE"
	KindSelect             OperationKind = "SELECT"
	KindCopy               OperationKind = "COPY"
	KindCreateOrAlterView  OperationKind = "CREATE_OR_ALTER_VIEW"
	KindDropView           OperationKind = "DROP_VIEW"
	KindCreateStatistics   OperationKind = "CREATE_STATISTICS"
	KindCreateSchema       OperationKind = "CREATE_SCHEMA"
	KindDropSchema         OperationKind = "DROP_SCHEMA"
	KindExecuteSQL         OperationKind = "EXECUTE_SQL"
)

// AllKinds lists every registered OperationKind, used by kind_coverage_test.go
// to assert the builder registry covers every variant.
var AllKinds = []OperationKind{
	KindCreateTable,
	KindDropTable,
	KindInsert,
	KindUpdate,
	KindDelete,
	KindMerge,
	KindSelect,
	KindCopy,
	KindCreateOrAlterView,
	KindDropView,
	KindCreateStatistics,
	KindCreateSchema,
	KindDropSchema,
	KindExecuteSQL,
}

// EngineHint is a per-operation preference for which engine family should
// execute it. AUTO delegates the choice to the dispatcher's policy.
type EngineHint string

const (
	EngineUnspecified EngineHint = ""
	EngineSQL         EngineHint = "SQL"
	EngineSpark       EngineHint = "SPARK"
	EngineAuto        EngineHint = "AUTO"
)

// InsertMode selects append vs overwrite semantics for an Insert operation.
type InsertMode string

const (
	InsertAppend    InsertMode = "append"
	InsertOverwrite InsertMode = "overwrite"
)

// ResultFormat selects how ExecuteSQL results are shaped when ReturnsResults
// is set.
type ResultFormat string

const (
	ResultDataframe ResultFormat = "DATAFRAME"
	ResultDictList  ResultFormat = "DICT_LIST"
	ResultScalar    ResultFormat = "SCALAR"
)

// Layer identifies which medallion layer a sequencer discovers operations
// for: Bronze (raw ingest), Silver (cleaned/conformed), Gold
// (analytics-ready), or Snapshot (point-in-time).
type Layer string

const (
	LayerBronze   Layer = "BRONZE"
	LayerSilver   Layer = "SILVER"
	LayerGold     Layer = "GOLD"
	LayerSnapshot Layer = "SNAPSHOT"
)
