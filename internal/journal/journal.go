// Package journal owns the run's shared result collection and its
// durable, crash-safe representation on disk. The journal file is a
// JSON array of completed VideoRecords at a fixed path inside the
// scan root, rewritten in full after every completed extraction so an
// interrupted run never loses finished work.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hbomb79/ClipSheet/internal/media"
)

const Filename = "clipsheet.journal.json"

// Store is the ordered collection of completed records for one run.
// Append is the only mutation during the concurrent phase, and the
// store performs no locking of its own: the extraction coordinator
// exclusively owns the store and serialises access under its lock.
type Store struct {
	records []*media.VideoRecord
	paths   map[string]struct{}
}

func NewStore() *Store {
	return &Store{
		records: make([]*media.VideoRecord, 0, 128),
		paths:   make(map[string]struct{}),
	}
}

// Append adds a completed record. Records arrive in completion order,
// not submission order; consumers needing stable output sort by path.
func (store *Store) Append(record *media.VideoRecord) {
	store.records = append(store.records, record)
	store.paths[record.Path] = struct{}{}
}

// Seed preloads records recovered from a previous run's journal.
func (store *Store) Seed(records []*media.VideoRecord) {
	for _, record := range records {
		store.Append(record)
	}
}

// Has reports whether a completed record for the given path exists.
func (store *Store) Has(path string) bool {
	_, ok := store.paths[path]
	return ok
}

func (store *Store) Len() int {
	return len(store.records)
}

// Records returns a copy of the record list; the records themselves
// are immutable once appended.
func (store *Store) Records() []*media.VideoRecord {
	out := make([]*media.VideoRecord, len(store.records))
	copy(out, store.records)
	return out
}

// Journal persists a record set to its fixed path under the scan
// root. Each Write lands on a run-unique temp file first and is then
// renamed over the journal, so a crash mid-write can never leave a
// truncated journal behind - readers see the previous complete state
// or the new one, nothing in between.
type Journal struct {
	path  string
	runID uuid.UUID
}

func New(rootDir string) *Journal {
	return &Journal{
		path:  filepath.Join(rootDir, Filename),
		runID: uuid.New(),
	}
}

func (journal *Journal) Path() string { return journal.path }

func (journal *Journal) Write(records []*media.VideoRecord) error {
	content, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialise journal: %w", err)
	}

	tempPath := fmt.Sprintf("%s.%s.tmp", journal.path, journal.runID)
	if err := os.WriteFile(tempPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write journal temp file: %w", err)
	}

	if err := os.Rename(tempPath, journal.path); err != nil {
		return fmt.Errorf("failed to commit journal: %w", err)
	}

	return nil
}

// Load reads the journal back. A missing journal is not an error; it
// simply yields no records.
func (journal *Journal) Load() ([]*media.VideoRecord, error) {
	content, err := os.ReadFile(journal.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	var records []*media.VideoRecord
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("journal at '%s' is malformed: %w", journal.path, err)
	}

	return records, nil
}

// Remove deletes the journal file. Removing a journal that was never
// written is fine.
func (journal *Journal) Remove() error {
	if err := os.Remove(journal.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}

// ThumbnailDirs collects the distinct directories holding the
// thumbnails referenced by the given records, for the cleanup
// command. Empty entries (failed captures) are skipped.
func ThumbnailDirs(records []*media.VideoRecord) []string {
	seen := make(map[string]struct{})
	dirs := make([]string, 0)
	for _, record := range records {
		for _, thumbnail := range record.ThumbnailPaths {
			if thumbnail == "" {
				continue
			}

			dir := filepath.Dir(thumbnail)
			if _, ok := seen[dir]; !ok {
				seen[dir] = struct{}{}
				dirs = append(dirs, dir)
			}
		}
	}

	return dirs
}
