package sequencer

import "medalc/internal/core"

// NewSilverBuilder starts a SequencerBuilder for a silver (cleaned/
// conformed) sequencer. Silver discovery is exactly SequencerBuilder's
// general contract — a named, SQL-producing method per declared operation,
// run once at Build time — so this is a thin, documenting constructor
// rather than a distinct implementation (§4.6's silver sequencer
// description).
func NewSilverBuilder(name string) *SequencerBuilder {
	return NewBuilder(name, core.LayerSilver)
}
