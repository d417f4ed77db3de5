// Package filestore persists the expense collection as a single JSON
// snapshot file. Every operation re-reads the snapshot, applies its change
// and rewrites the whole file while holding the store lock.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"expensetracker/internal/models"
	"expensetracker/internal/storage"
)

// seqSuffix names the sidecar file holding the id counter.
const seqSuffix = ".seq"

// Store is a flat-file storage.Repository.
type Store struct {
	mu      sync.Mutex
	path    string
	seqPath string
}

var _ storage.Repository = (*Store)(nil)

type sequence struct {
	LastID int64 `json:"last_id"`
}

// New returns a store backed by the JSON file at path. The file does not
// need to exist yet; a missing file reads as an empty collection.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("filestore: empty data file path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{path: path, seqPath: path + seqSuffix}, nil
}

// Path returns the location of the data file.
func (s *Store) Path() string { return s.path }

// List implements storage.Repository.
func (s *Store) List(ctx context.Context) ([]models.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Append implements storage.Repository. The new ID is one past the larger of
// the persisted counter and the highest ID in the collection, so IDs are never
// reused after deletions.
func (s *Store) Append(ctx context.Context, e models.Expense) (models.Expense, error) {
	if err := ctx.Err(); err != nil {
		return models.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.load()
	if err != nil {
		return models.Expense{}, err
	}
	last, err := s.lastID()
	if err != nil {
		return models.Expense{}, err
	}
	for _, existing := range expenses {
		if existing.ID > last {
			last = existing.ID
		}
	}

	// The counter is advanced first: a failed ledger write then costs an
	// unused ID, never a stored record reported as an error.
	e.ID = last + 1
	if err := writeJSON(s.seqPath, sequence{LastID: e.ID}); err != nil {
		return models.Expense{}, err
	}
	expenses = append(expenses, e)
	if err := s.save(expenses); err != nil {
		return models.Expense{}, err
	}
	return e, nil
}

// Update implements storage.Repository. Only the first record with the ID is
// patched. The collection is rewritten even when nothing matched.
func (s *Store) Update(ctx context.Context, id int64, patch models.ExpensePatch) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.load()
	if err != nil {
		return false, err
	}

	found := false
	for i := range expenses {
		if expenses[i].ID == id {
			patch.Apply(&expenses[i])
			found = true
			break
		}
	}

	if err := s.save(expenses); err != nil {
		return false, err
	}
	return found, nil
}

// Delete implements storage.Repository. Every record with the ID is removed.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.load()
	if err != nil {
		return false, err
	}

	kept := expenses[:0]
	for _, e := range expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	found := len(kept) != len(expenses)

	if err := s.save(kept); err != nil {
		return false, err
	}
	return found, nil
}

// Close implements storage.Repository.
func (s *Store) Close() error { return nil }

func (s *Store) load() ([]models.Expense, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Expense{}, nil
	}
	if err != nil {
		return nil, unavailable("read "+s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Expense{}, nil
	}

	var expenses []models.Expense
	if err := json.Unmarshal(data, &expenses); err != nil {
		return nil, unavailable("decode "+s.path, err)
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}

func (s *Store) save(expenses []models.Expense) error {
	return writeJSON(s.path, expenses)
}

func (s *Store) lastID() (int64, error) {
	data, err := os.ReadFile(s.seqPath)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable("read "+s.seqPath, err)
	}

	var seq sequence
	if err := json.Unmarshal(data, &seq); err != nil {
		return 0, unavailable("decode "+s.seqPath, err)
	}
	return seq.LastID, nil
}

// writeJSON replaces path atomically: the document goes to a temp file in the
// same directory which is then renamed over the target.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return unavailable("encode "+path, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return unavailable("write "+path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return unavailable("write "+path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return unavailable("sync "+path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return unavailable("write "+path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return unavailable("chmod "+path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return unavailable("rename "+path, err)
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", storage.ErrStorageUnavailable, op, err)
}
