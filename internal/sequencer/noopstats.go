package sequencer

import "context"

// NoopStatsColumnDiscoverer implements StatsColumnDiscoverer by reporting
// no columns, the default collaborator when a deployment has no external
// stats-column source wired in (§9's "optional collaborator with a no-op
// default" design note).
type NoopStatsColumnDiscoverer struct{}

func (NoopStatsColumnDiscoverer) DiscoverStatsColumns(_ context.Context, _, _ string) ([]string, error) {
	return nil, nil
}
