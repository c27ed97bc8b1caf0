package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FileLedger persists checkpoints to two JSON files: a flat array of
// completed source ids and an object mapping source id to destination id.
// Both files are rewritten wholesale after every completed record.
type FileLedger struct {
	donePath string
	mapPath  string

	mu    sync.Mutex
	done  map[string]struct{}
	idMap map[string]string
}

// OpenFileLedger loads the ledger files at the given paths. A missing or
// unparseable file yields empty state rather than an error; prior progress
// is only ever additive.
func OpenFileLedger(donePath, mapPath string) *FileLedger {
	l := &FileLedger{
		donePath: donePath,
		mapPath:  mapPath,
		done:     make(map[string]struct{}),
		idMap:    make(map[string]string),
	}

	if data, err := os.ReadFile(donePath); err == nil {
		var ids []string
		if err := json.Unmarshal(data, &ids); err == nil {
			for _, id := range ids {
				l.done[id] = struct{}{}
			}
		}
	}

	if data, err := os.ReadFile(mapPath); err == nil {
		var m map[string]string
		if err := json.Unmarshal(data, &m); err == nil {
			// The map invariant: only ids in the done set carry a
			// destination id.
			for src, dst := range m {
				if _, ok := l.done[src]; ok {
					l.idMap[src] = dst
				}
			}
		}
	}

	return l
}

// IsDone reports whether the source task has already been migrated.
func (l *FileLedger) IsDone(sourceID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.done[sourceID]
	return ok
}

// DestID returns the destination id recorded for a migrated source task.
func (l *FileLedger) DestID(sourceID string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	dst, ok := l.idMap[sourceID]
	return dst, ok
}

// Size returns the number of completed migrations.
func (l *FileLedger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.done)
}

// MarkDone records a completed migration and flushes both files before
// returning. The done set is written first so a crash between the two
// writes can only leave a done id without a mapping, never the reverse.
// In-memory state is only updated once both writes land, so a failed
// checkpoint leaves IsDone reporting the record as not migrated.
func (l *FileLedger) MarkDone(sourceID, destID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]string, 0, len(l.done)+1)
	for id := range l.done {
		ids = append(ids, id)
	}
	if _, ok := l.done[sourceID]; !ok {
		ids = append(ids, sourceID)
	}

	next := make(map[string]string, len(l.idMap)+1)
	for src, dst := range l.idMap {
		next[src] = dst
	}
	if destID != "" {
		next[sourceID] = destID
	}

	if err := writeFileSync(l.donePath, ids, false); err != nil {
		return fmt.Errorf("failed to persist done set: %w", err)
	}
	if err := writeFileSync(l.mapPath, next, true); err != nil {
		return fmt.Errorf("failed to persist id map: %w", err)
	}

	l.done[sourceID] = struct{}{}
	if destID != "" {
		l.idMap[sourceID] = destID
	}

	return nil
}

// Close implements [Ledger]; the file ledger holds no open resources.
func (l *FileLedger) Close() error { return nil }

// writeFileSync writes v as JSON to a temp file, fsyncs, and renames it
// over path. The rename is atomic, so a crash mid-checkpoint leaves the
// previous file intact rather than a truncated one.
func writeFileSync(path string, v any, pretty bool) error {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
}
