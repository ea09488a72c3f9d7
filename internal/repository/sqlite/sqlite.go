package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/reelmate/reelmate/internal/repository/sqlite/migrations"
)

// DB wraps the SQLite connection and hands out the repositories bound
// to it.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for
// use. It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Enable foreign key enforcement.
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// Single writer; modernc sqlite serializes writes anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies all pending schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Apply(ctx, d.SqlDB)
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.SqlDB.Close()
}

// Users returns the user repository bound to this database.
func (d *DB) Users() *UserRepository {
	return NewUserRepository(d)
}

// Watches returns the watch entry repository bound to this database.
func (d *DB) Watches() *WatchEntryRepository {
	return NewWatchEntryRepository(d)
}

// Follows returns the follow graph repository bound to this database.
func (d *DB) Follows() *FollowRepository {
	return NewFollowRepository(d)
}

// Movies returns the movie cache repository bound to this database.
func (d *DB) Movies() *MovieRepository {
	return NewMovieRepository(d)
}
