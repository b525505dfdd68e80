package catalog

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/phototag/internal/models"
	"github.com/desertthunder/phototag/internal/shared"
)

// HistoryStore is the registry of every image record ever seen.
//
// Records are identified by (name, path). Historicize hands out the stored pointer, so the rename
// engine mutates the registry's own record and [HistoryStore.OnRename] only has to write it back.
type HistoryStore struct {
	mu      sync.Mutex
	records []*models.ImageRecord
	coll    models.Collection[*models.ImageRecord]
	logger  *log.Logger
}

// NewHistoryStore loads every persisted record from coll.
func NewHistoryStore(coll models.Collection[*models.ImageRecord], logger *log.Logger) (*HistoryStore, error) {
	items, err := coll.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: history store: %w: %w", shared.ErrConstruction, shared.ErrPersistence, err)
	}

	records := make([]*models.ImageRecord, 0, len(items))
	for _, r := range items {
		if r == nil {
			continue
		}
		if r.Tags == nil {
			r.Tags = models.TagSet{}
		}
		if len(r.NameHistory) == 0 {
			r.NameHistory = []string{r.Name}
		}
		if r.ID == "" {
			r.ID = shared.GenerateID()
		}
		records = append(records, r)
	}

	logger.Debug("loaded history store", "count", len(records))
	return &HistoryStore{records: records, coll: coll, logger: logger}, nil
}

// Historicize returns the stored record equal to candidate. Unknown candidates are inserted and
// persisted first.
//
// The returned record is always usable; the error only reports a failed persist.
func (s *HistoryStore) Historicize(candidate *models.ImageRecord) (*models.ImageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.Equal(candidate) {
			return r, nil
		}
	}

	s.records = append(s.records, candidate)
	s.logger.Debug("historicized image", "name", candidate.Name, "path", candidate.Path)
	return candidate, s.persist()
}

// Lookup returns the stored record whose current path is path.
func (s *HistoryStore) Lookup(path string) (*models.ImageRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.Path == path {
			return r, true
		}
	}
	return nil, false
}

// Records returns the stored records in insertion order. The slice is a copy; the records are not.
func (s *HistoryStore) Records() []*models.ImageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.ImageRecord(nil), s.records...)
}

// Len reports the number of stored records.
func (s *HistoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Persist writes the whole registry back to its collection.
func (s *HistoryStore) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist()
}

// OnRename persists the registry after a rename.
func (s *HistoryStore) OnRename(event models.RenameEvent) error {
	s.logger.Debug("persisting history after rename", "old", event.OldName, "new", event.NewName())
	return s.Persist()
}

func (s *HistoryStore) persist() error {
	if err := s.coll.Save(append([]*models.ImageRecord(nil), s.records...)); err != nil {
		s.logger.Error("failed to persist history store", "error", err)
		return fmt.Errorf("%w: history store: %w", shared.ErrPersistence, err)
	}
	return nil
}
