package ledger

import (
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// SQLiteLedger persists checkpoints to a single SQLite table. It keeps an
// in-memory copy of the done set so IsDone never touches the database on
// the hot path; SQLite's synchronous commit gives MarkDone its durability.
type SQLiteLedger struct {
	db *sql.DB

	mu    sync.Mutex
	done  map[string]struct{}
	idMap map[string]string
}

const ledgerSchema = `
	CREATE TABLE IF NOT EXISTS migrated (
		source_id TEXT PRIMARY KEY,
		dest_id TEXT,
		migrated_at DATETIME NOT NULL
	);
`

// OpenSQLiteLedger initializes the ledger table and loads prior state from
// the given database connection. Row scan failures are skipped rather than
// fatal, mirroring the lenient file ledger load.
func OpenSQLiteLedger(db *sql.DB) (*SQLiteLedger, error) {
	if _, err := db.Exec(ledgerSchema); err != nil {
		return nil, fmt.Errorf("failed to create ledger table: %w", err)
	}

	l := &SQLiteLedger{
		db:    db,
		done:  make(map[string]struct{}),
		idMap: make(map[string]string),
	}

	rows, err := db.Query(`SELECT source_id, dest_id FROM migrated`)
	if err != nil {
		return l, nil
	}
	defer rows.Close()

	for rows.Next() {
		var src string
		var dst sql.NullString
		if err := rows.Scan(&src, &dst); err != nil {
			continue
		}
		l.done[src] = struct{}{}
		if dst.Valid && dst.String != "" {
			l.idMap[src] = dst.String
		}
	}

	return l, nil
}

// IsDone reports whether the source task has already been migrated.
func (l *SQLiteLedger) IsDone(sourceID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.done[sourceID]
	return ok
}

// DestID returns the destination id recorded for a migrated source task.
func (l *SQLiteLedger) DestID(sourceID string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	dst, ok := l.idMap[sourceID]
	return dst, ok
}

// Size returns the number of completed migrations.
func (l *SQLiteLedger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.done)
}

// MarkDone records a completed migration. The insert commits before the
// in-memory state is updated, so a failed write never marks a record done.
func (l *SQLiteLedger) MarkDone(sourceID, destID string) error {
	var dst any = destID
	if destID == "" {
		dst = nil
	}

	_, err := l.db.Exec(
		`INSERT OR REPLACE INTO migrated (source_id, dest_id, migrated_at) VALUES (?, ?, ?)`,
		sourceID, dst, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to persist checkpoint: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.done[sourceID] = struct{}{}
	if destID != "" {
		l.idMap[sourceID] = destID
	}

	return nil
}

// Close closes the underlying database connection.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}
