package sequencer

import "medalc/internal/core"

// GoldBuilder is a SequencerBuilder specialized for gold (analytics-ready)
// view/table derivations, adding the optional target-object filter §4.6
// describes: when Only is non-empty, Build emits just the registrations
// whose object name appears in it.
type GoldBuilder struct {
	*SequencerBuilder
	only map[string]struct{}
}

// NewGoldBuilder starts a GoldBuilder for name. Call Filter before Build to
// restrict discovery to a subset of registered objects.
func NewGoldBuilder(name string) *GoldBuilder {
	return &GoldBuilder{SequencerBuilder: NewBuilder(name, core.LayerGold)}
}

// Filter restricts Build to only the named target objects; an empty or nil
// call leaves every registration in scope (the default).
func (g *GoldBuilder) Filter(objects ...string) *GoldBuilder {
	g.only = make(map[string]struct{}, len(objects))
	for _, o := range objects {
		g.only[o] = struct{}{}
	}
	return g
}

// Build runs discovery exactly like SequencerBuilder.Build, then drops any
// registration not named by a prior Filter call.
func (g *GoldBuilder) Build() (Sequencer, error) {
	if len(g.only) == 0 {
		return g.SequencerBuilder.Build()
	}
	filtered := g.SequencerBuilder.registrations[:0:0]
	for _, reg := range g.SequencerBuilder.registrations {
		if _, ok := g.only[reg.object]; ok {
			filtered = append(filtered, reg)
		}
	}
	g.SequencerBuilder.registrations = filtered
	return g.SequencerBuilder.Build()
}
