package domain

import "context"

// Database is the lifecycle surface of the backing store: schema setup
// at startup, connection teardown at shutdown. Repositories are handed
// out by the concrete store, not through this interface.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}
