package core

import (
	"fmt"

	"go.uber.org/zap"
)

// logger receives structured warnings for fallback/unknown-kind handling.
// Defaults to a no-op so core has no required collaborator; callers (the
// CLI, the orchestrator) call SetLogger to wire a real zap.Logger.
var logger = zap.NewNop()

// SetLogger installs the logger used for core-level warnings (e.g. an
// unrecognized operation_type falling back to ExecuteSQL).
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

type constructor func(commonFields, map[string]any) (Operation, error)

var registry = map[OperationKind]constructor{
	KindCreateTable:       func(c commonFields, f map[string]any) (Operation, error) { return newCreateTable(c, f) },
	KindDropTable:         func(c commonFields, f map[string]any) (Operation, error) { return newDropTable(c, f) },
	KindInsert:            func(c commonFields, f map[string]any) (Operation, error) { return newInsert(c, f) },
	KindUpdate:            func(c commonFields, f map[string]any) (Operation, error) { return newUpdate(c, f) },
	KindDelete:            func(c commonFields, f map[string]any) (Operation, error) { return newDelete(c, f) },
	KindMerge:             func(c commonFields, f map[string]any) (Operation, error) { return newMerge(c, f) },
	KindSelect:            func(c commonFields, f map[string]any) (Operation, error) { return newSelect(c, f) },
	KindCopy:              func(c commonFields, f map[string]any) (Operation, error) { return newCopy(c, f) },
	KindCreateOrAlterView: func(c commonFields, f map[string]any) (Operation, error) { return newCreateOrAlterView(c, f) },
	KindDropView:          func(c commonFields, f map[string]any) (Operation, error) { return newDropView(c, f) },
	KindCreateStatistics:  func(c commonFields, f map[string]any) (Operation, error) { return newCreateStatistics(c, f) },
	KindCreateSchema:      func(c commonFields, f map[string]any) (Operation, error) { return newCreateSchema(c, f) },
	KindDropSchema:        func(c commonFields, f map[string]any) (Operation, error) { return newDropSchema(c, f) },
	KindExecuteSQL:        func(c commonFields, f map[string]any) (Operation, error) { return newExecuteSQL(c, f) },
}

// Build constructs an operation from its discovery-time parts: the variant
// kind, schema/object identifiers, an engine hint, a logging context, planner
// metadata, and the variant-specific field bag. It is the factory used by
// sequencer discovery; Decode uses the same registry of variant
// constructors directly rather than calling Build.
func Build(kind OperationKind, schema, object string, engineHint EngineHint, loggingContext map[string]string, metadata *QueryMetadata, fields map[string]any) (Operation, error) {
	if schema != "" {
		if err := validateIdentifier("schema_name", schema); err != nil {
			return nil, err
		}
	}
	if object != "" {
		if err := validateIdentifier("object_name", object); err != nil {
			return nil, err
		}
	}
	common := commonFields{
		kind:           kind,
		schemaName:     schema,
		objectName:     object,
		engineHint:     engineHint,
		loggingContext: loggingContext,
		metadata:       metadata,
	}
	ctor, ok := registry[kind]
	if !ok {
		logger.Warn("unknown operation_type, falling back to ExecuteSQL",
			zap.String("operation_type", string(kind)), zap.String("schema", schema), zap.String("object", object))
		common.kind = KindExecuteSQL
		return newExecuteSQL(common, map[string]any{})
	}
	return ctor(common, fields)
}

// Decode reverses Encode/ToMap: it reads operation_type from raw, dispatches
// to the matching variant constructor, validates, and reattaches a context
// carried in the staging keys (_cte_request_context) if present. Unknown
// operation_type values fall back to an empty ExecuteSQL, matching Build.
func Decode(raw map[string]any) (Operation, error) {
	common := decodeCommon(raw)
	ctor, ok := registry[common.kind]
	if !ok {
		logger.Warn("unknown operation_type on decode, falling back to ExecuteSQL",
			zap.String("operation_type", string(common.kind)))
		common.kind = KindExecuteSQL
		op, err := newExecuteSQL(common, map[string]any{})
		if err != nil {
			return nil, err
		}
		attachStaged(op, raw)
		return op, nil
	}
	op, err := ctor(common, raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", common.kind, err)
	}
	attachStaged(op, raw)
	return op, nil
}

// attachStaged consumes _cte_request_context (if present) and reattaches it
// to op, mirroring what the orchestrator did at emission time.
func attachStaged(op Operation, raw map[string]any) {
	if raw == nil {
		return
	}
	if ctxMap := getMap(raw, "_cte_request_context"); ctxMap != nil {
		op.AttachContext(contextFromMap(ctxMap))
	}
}

// StagePosition reads the _cte_stage/_cte_position staging keys, if present.
func StagePosition(raw map[string]any) (stage, position int, ok bool) {
	if raw == nil {
		return 0, 0, false
	}
	_, hasStage := raw["_cte_stage"]
	_, hasPosition := raw["_cte_position"]
	if !hasStage || !hasPosition {
		return 0, 0, false
	}
	return getInt(raw, "_cte_stage"), getInt(raw, "_cte_position"), true
}

// Encode produces the map representation of op, ready for json.Marshal.
func Encode(op Operation) map[string]any {
	return op.ToMap()
}

// EncodeStaged produces Encode(op) with the stage index, in-stage position,
// and (if attached) request context injected as the _cte_* keys.
func EncodeStaged(op Operation, stage, position int) map[string]any {
	m := op.ToMap()
	m["_cte_stage"] = stage
	m["_cte_position"] = position
	if ctx := op.Context(); ctx != nil {
		m["_cte_request_context"] = ctx.ToMap()
	}
	return m
}
