package core

// Operation is the common interface every operation variant implements. It
// is a closed set by convention (OperationKind enumerates every
// implementer); querybuilder.Dispatch switches over every variant type with
// a default branch that reports an unreachable, unsupported kind, to catch a
// missing variant at review time.
type Operation interface {
	Kind() OperationKind
	Schema() string
	Object() string
	EngineHint() EngineHint
	Metadata() *QueryMetadata
	LoggingContext() map[string]string
	Context() *ExecutionRequestContext
	AttachContext(ctx *ExecutionRequestContext)
	TelemetryFields() map[string]string

	// QualifiedName renders schema.object (or just object when schema is
	// empty), the canonical key used by the DAG builder's target index.
	QualifiedName() string

	// ToMap encodes the operation to the map representation described in
	// §6: operation_type plus every variant-specific field, nulls omitted.
	ToMap() map[string]any
}

// base holds the fields common to every operation variant. Concrete variants
// embed base and add their own fields; base supplies the shared Operation
// methods so each variant only implements ToMap (and Kind implicitly via an
// explicit field, since base itself has no fixed kind).
type base struct {
	kind           OperationKind
	schemaName     string
	objectName     string
	engineHint     EngineHint
	metadata       *QueryMetadata
	loggingContext map[string]string
	ctx            *ExecutionRequestContext
}

func (b *base) Kind() OperationKind               { return b.kind }
func (b *base) Schema() string                    { return b.schemaName }
func (b *base) Object() string                    { return b.objectName }
func (b *base) EngineHint() EngineHint             { return b.engineHint }
func (b *base) Metadata() *QueryMetadata           { return b.metadata }
func (b *base) LoggingContext() map[string]string { return b.loggingContext }
func (b *base) Context() *ExecutionRequestContext  { return b.ctx }

func (b *base) QualifiedName() string {
	return QualifiedName(b.schemaName, b.objectName)
}

// QualifiedName joins schema and object with a dot, matching bare (the
// schema component is omitted when empty). Matching downstream is
// case-insensitive on identifier components (see internal/orchestrator), but the
// canonical string preserves case as written.
func QualifiedName(schema, object string) string {
	if schema == "" {
		return object
	}
	return schema + "." + object
}

// AttachContext is the sole post-construction mutation an operation permits:
// it records ctx and copies EngineHint/LoggingContext into the context's
// attribute bag so later telemetry reads a unified view.
func (b *base) AttachContext(ctx *ExecutionRequestContext) {
	b.ctx = ctx
	if ctx == nil {
		return
	}
	if ctx.Attributes == nil {
		ctx.Attributes = map[string]string{}
	}
	if b.engineHint != EngineUnspecified {
		ctx.Attributes["engine_hint"] = string(b.engineHint)
	}
	for k, v := range b.loggingContext {
		ctx.Attributes[k] = v
	}
}

// TelemetryFields produces the flat string map used for log enrichment:
// operation.type/schema/object/engine_hint plus ctx.* entries once a context
// is attached.
func (b *base) TelemetryFields() map[string]string {
	fields := map[string]string{
		"operation.type":   string(b.kind),
		"operation.schema": b.schemaName,
		"operation.object": b.objectName,
	}
	if b.engineHint != EngineUnspecified {
		fields["operation.engine_hint"] = string(b.engineHint)
	}
	if b.ctx != nil {
		fields["operation.id"] = b.ctx.RequestID
		for k, v := range b.ctx.TelemetryFields() {
			fields["operation."+k] = v
		}
	}
	return fields
}

// baseToMap produces the common-field portion of ToMap: operation_type plus
// schema/object/engine_hint/logging_context/metadata, nulls omitted.
func (b *base) baseToMap() map[string]any {
	out := map[string]any{
		"operation_type": string(b.kind),
		"schema_name":    b.schemaName,
		"object_name":    b.objectName,
	}
	if b.engineHint != EngineUnspecified {
		out["engine_hint"] = string(b.engineHint)
	}
	if len(b.loggingContext) > 0 {
		out["logging_context"] = b.loggingContext
	}
	if m := b.metadata.ToMap(); len(m) > 0 {
		out["metadata"] = m
	}
	return out
}

// commonFields is the decoded counterpart of baseToMap, used by every
// variant decoder before it reads its own fields.
type commonFields struct {
	kind           OperationKind
	schemaName     string
	objectName     string
	engineHint     EngineHint
	loggingContext map[string]string
	metadata       *QueryMetadata
}

func decodeCommon(raw map[string]any) commonFields {
	return commonFields{
		kind:           OperationKind(getString(raw, "operation_type")),
		schemaName:     getString(raw, "schema_name"),
		objectName:     getString(raw, "object_name"),
		engineHint:     EngineHint(getString(raw, "engine_hint")),
		loggingContext: getStringMap(raw, "logging_context"),
		metadata:       metadataFromMap(getMap(raw, "metadata")),
	}
}

func (c commonFields) newBase(kind OperationKind) base {
	return base{
		kind:           kind,
		schemaName:     c.schemaName,
		objectName:     c.objectName,
		engineHint:     c.engineHint,
		metadata:       c.metadata,
		loggingContext: c.loggingContext,
	}
}
