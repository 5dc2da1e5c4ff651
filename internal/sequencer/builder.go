package sequencer

import (
	"fmt"

	"medalc/internal/core"
	"medalc/internal/planerr"
)

// sqlFieldKey names the fields map key that carries a registration's
// discovered SQL string, per operation kind. Only kinds a sequencer author
// plausibly discovers via a single SQL-producing method are supported;
// anything else (DropTable, CreateStatistics, ...) is built by the
// dispatcher or orchestrator directly, not discovered.
func sqlFieldKey(kind core.OperationKind) (string, error) {
	switch kind {
	case core.KindCreateTable:
		return "select_query", nil
	case core.KindInsert:
		return "source_query", nil
	case core.KindCreateOrAlterView:
		return "select_query", nil
	default:
		return "", fmt.Errorf("sequencer: kind %s has no single discoverable SQL field", kind)
	}
}

// registration is one call to SequencerBuilder.Register: a declared
// operation awaiting discovery.
type registration struct {
	kind        core.OperationKind
	schema      string
	object      string
	metadata    core.QueryMetadata
	extraFields map[string]any
	fn          func() (string, error)
}

// SequencerBuilder is the explicit-registration discovery mechanism (§9's
// resolved option (a)): sequencer authors call Register (or one of its
// per-kind convenience wrappers) once per declared operation from a
// constructor, then call Build to run every registered fn exactly once and
// materialize the resulting operations.
type SequencerBuilder struct {
	name          string
	layer         core.Layer
	registrations []registration
}

// NewBuilder starts a SequencerBuilder for the given sequencer name and
// medallion layer.
func NewBuilder(name string, layer core.Layer) *SequencerBuilder {
	return &SequencerBuilder{name: name, layer: layer}
}

// Register declares one operation: kind/schema/object identify it,
// metadata carries planner hints, extraFields supplies any fields beyond
// the discovered SQL body (e.g. CreateTable's recreate flag), and fn is
// run exactly once at Build time to produce the SQL body (or "" to skip
// this registration entirely).
func (b *SequencerBuilder) Register(kind core.OperationKind, schema, object string, metadata core.QueryMetadata, extraFields map[string]any, fn func() (string, error)) *SequencerBuilder {
	b.registrations = append(b.registrations, registration{
		kind: kind, schema: schema, object: object, metadata: metadata, extraFields: extraFields, fn: fn,
	})
	return b
}

// CreateTable registers a CTAS discovery method, the shape Bronze and Gold
// sequencers use to materialize a full-table or view-backed snapshot.
func (b *SequencerBuilder) CreateTable(schema, object string, metadata core.QueryMetadata, fn func() (string, error)) *SequencerBuilder {
	return b.Register(core.KindCreateTable, schema, object, metadata, nil, fn)
}

// Insert registers an INSERT-from-query discovery method, the shape
// Silver sequencers most commonly use.
func (b *SequencerBuilder) Insert(schema, object string, metadata core.QueryMetadata, fn func() (string, error)) *SequencerBuilder {
	return b.Register(core.KindInsert, schema, object, metadata, nil, fn)
}

// View registers a CREATE OR ALTER VIEW discovery method, the shape Gold
// sequencers use for view-backed derivations.
func (b *SequencerBuilder) View(schema, object string, metadata core.QueryMetadata, fn func() (string, error)) *SequencerBuilder {
	return b.Register(core.KindCreateOrAlterView, schema, object, metadata, nil, fn)
}

// builtSequencer is the Sequencer produced by Build: operations already
// materialized, discovery already run exactly once.
type builtSequencer struct {
	name  string
	layer core.Layer
	ops   []core.Operation
}

func (s *builtSequencer) GetQueries() ([]core.Operation, error) { return s.ops, nil }

func (s *builtSequencer) ClassMetadata() map[string]any {
	return map[string]any{"sequencer_name": s.name, "layer": string(s.layer)}
}

func (s *builtSequencer) Name() string { return s.name }

// Build runs every registered fn exactly once, in registration order, and
// constructs the resulting operations. A registration whose fn returns ""
// is skipped (no error). A registration whose fn panics or returns an
// error produces a discovery error naming the sequencer, the registered
// object, and the root cause — mirroring the three distinct discovery
// failure messages (bad signature, missing attribute, generic exception)
// the original's _discover_methods raises, collapsed here into a single
// structured planerr.Error since Go has no reflection-time signature check
// to distinguish the first two from the third.
func (b *SequencerBuilder) Build() (Sequencer, error) {
	ops := make([]core.Operation, 0, len(b.registrations))
	for _, reg := range b.registrations {
		sql, err := b.runDiscovery(reg)
		if err != nil {
			return nil, err
		}
		if sql == "" {
			continue
		}
		key, err := sqlFieldKey(reg.kind)
		if err != nil {
			return nil, planerr.New(planerr.CodeConfig, "sequencer registration has an unsupported kind").
				WithDetail("sequencer", b.name).
				WithDetail("object", core.QualifiedName(reg.schema, reg.object)).
				WithCause(err)
		}
		fields := map[string]any{key: sql}
		for k, v := range reg.extraFields {
			fields[k] = v
		}
		metadata := reg.metadata
		op, err := core.Build(reg.kind, reg.schema, reg.object, metadata.PreferredEngine, nil, &metadata, fields)
		if err != nil {
			return nil, planerr.New(planerr.CodeConfig, "discovered operation failed validation").
				WithDetail("sequencer", b.name).
				WithDetail("object", core.QualifiedName(reg.schema, reg.object)).
				WithCause(err)
		}
		ops = append(ops, op)
	}
	return &builtSequencer{name: b.name, layer: b.layer, ops: ops}, nil
}

// runDiscovery invokes reg.fn exactly once, converting a panic into a
// structured discovery error instead of letting it escape Build.
func (b *SequencerBuilder) runDiscovery(reg registration) (sql string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = planerr.New(planerr.CodeConfig, fmt.Sprintf("sequencer %s: discovery method for %s panicked", b.name, core.QualifiedName(reg.schema, reg.object))).
				WithDetail("sequencer", b.name).
				WithDetail("object", core.QualifiedName(reg.schema, reg.object)).
				WithDetail("panic", fmt.Sprintf("%v", r))
		}
	}()
	sql, discErr := reg.fn()
	if discErr != nil {
		return "", planerr.New(planerr.CodeConfig, fmt.Sprintf("sequencer %s: discovery method for %s returned an error", b.name, core.QualifiedName(reg.schema, reg.object))).
			WithDetail("sequencer", b.name).
			WithDetail("object", core.QualifiedName(reg.schema, reg.object)).
			WithCause(discErr)
	}
	return sql, nil
}
