package catalog

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/phototag/internal/models"
	"github.com/desertthunder/phototag/internal/shared"
)

// TagStore is the ordered, case-insensitively unique set of known tags.
type TagStore struct {
	mu     sync.Mutex
	tags   models.TagSet
	coll   models.Collection[models.Tag]
	logger *log.Logger
}

// NewTagStore loads every persisted tag from coll.
func NewTagStore(coll models.Collection[models.Tag], logger *log.Logger) (*TagStore, error) {
	items, err := coll.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: tag store: %w: %w", shared.ErrConstruction, shared.ErrPersistence, err)
	}

	tags := models.TagSet{}
	for _, t := range items {
		tags.Add(t)
	}

	logger.Debug("loaded tag store", "count", len(tags))
	return &TagStore{tags: tags, coll: coll, logger: logger}, nil
}

// Add appends tag unless an equal one is known, then persists.
//
// When persisting fails the tag stays in memory.
func (s *TagStore) Add(tag models.Tag) error {
	if err := tag.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tags.Add(tag) {
		return nil
	}
	s.logger.Debug("tag added", "tag", tag.Name)
	return s.persist()
}

// Remove deletes the first tag equal to tag, then persists. Absent tags are a no-op.
func (s *TagStore) Remove(tag models.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tags.Remove(tag) {
		return nil
	}
	s.logger.Debug("tag removed", "tag", tag.Name)
	return s.persist()
}

// Tags returns a copy of the known tags in insertion order.
func (s *TagStore) Tags() models.TagSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tags.Clone()
}

// Find returns the stored tag equal to name.
func (s *TagStore) Find(name string) (models.Tag, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.tags.Index(models.NewTag(name)); i >= 0 {
		return s.tags[i], true
	}
	return models.Tag{}, false
}

func (s *TagStore) persist() error {
	if err := s.coll.Save(s.tags.Clone()); err != nil {
		s.logger.Error("failed to persist tag store", "error", err)
		return fmt.Errorf("%w: tag store: %w", shared.ErrPersistence, err)
	}
	return nil
}
