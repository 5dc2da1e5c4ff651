// Package sequencer implements C6, operation discovery: the Sequencer
// contract plus the Bronze/Silver/Gold variants and the explicit
// registration API (SequencerBuilder) that stands in for Python's
// decorator-and-reflection discovery mechanism (§4.6.1).
package sequencer

import "medalc/internal/core"

// Sequencer is any discovery source: it produces a fixed set of operations
// (computed once, at construction/Build time — discovery never executes
// SQL or makes network calls) plus optional class-level metadata merged
// into the emitted plan.
type Sequencer interface {
	GetQueries() ([]core.Operation, error)
	ClassMetadata() map[string]any
}

// Name reports a sequencer's declared name when it implements the optional
// Named interface; sequencers built via SequencerBuilder always do.
type Named interface {
	Name() string
}
