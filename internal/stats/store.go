package stats

import "context"

// Store persists Stats between requests of one session. Implementations live
// in internal/store; failures are logged by SessionStats and never surfaced.
type Store interface {
	LoadStats(ctx context.Context, key string) (Stats, bool, error)
	SaveStats(ctx context.Context, key string, s Stats) error
}

type nopStore struct{}

func (nopStore) LoadStats(context.Context, string) (Stats, bool, error) { return Stats{}, false, nil }
func (nopStore) SaveStats(context.Context, string, Stats) error         { return nil }
