// Package ledger persists the migration checkpoint state: the set of source
// task ids that have completed migration and the source-to-destination id
// map. The ledger is what makes a re-run of the whole migration a no-op for
// already-migrated records.
//
// Two implementations exist: [FileLedger] over a pair of JSON files (the
// default) and [SQLiteLedger] over a single table. Both load leniently at
// startup, treating an absent or unreadable store as empty state, and both
// persist durably inside MarkDone so a crash loses at most the record that
// was in flight.
package ledger

// Ledger tracks which source tasks have completed migration.
//
// MarkDone must persist durably before returning; losing that write is what
// causes duplicate re-migration after a restart. Implementations are safe
// for use from a single migration run; overlapping runs must be serialized
// by the caller.
type Ledger interface {
	// IsDone reports whether the source task has already been migrated.
	IsDone(sourceID string) bool

	// MarkDone records a completed migration and persists it durably.
	MarkDone(sourceID, destID string) error

	// DestID returns the destination id recorded for a migrated source
	// task. The second return is false for ids migrated by the legacy
	// variant, which tracked completion without destination ids.
	DestID(sourceID string) (string, bool)

	// Size returns the number of completed migrations.
	Size() int

	// Close releases any underlying store resources.
	Close() error
}
