package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// isBusyError reports whether the error is a SQLite concurrency error
// (SQLITE_BUSY or "database is locked"). These occur when another connection
// holds the write lock and typically warrant a retry.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

const (
	busyRetries = 3
	busyBackoff = 50 * time.Millisecond
)

// execRetry runs a write statement, retrying on transient lock contention.
// WAL mode plus the busy timeout make this rare, but webhook redeliveries can
// still race a worker on the same row.
func (s *SQLiteStore) execRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var result sql.Result
	var err error
	for attempt := 0; attempt <= busyRetries; attempt++ {
		result, err = s.db.ExecContext(ctx, query, args...)
		if !isBusyError(err) {
			return result, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(busyBackoff * time.Duration(attempt+1)):
		}
	}
	return result, err
}
