package models

// Collection is a whole-collection store: every Save replaces what was previously persisted and
// Load returns the items in the order they were last saved.
type Collection[T any] interface {
	Load() ([]T, error)   // Load returns the persisted items, or none when nothing has been saved
	Save(items []T) error // Save atomically replaces the persisted items
	Close() error         // Close releases backend resources
}
