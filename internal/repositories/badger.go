package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerDB is a badger database shared by several [BadgerCollection]s.
type BadgerDB struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a badger database in dir.
func OpenBadger(dir string) (*BadgerDB, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerDB{db: db}, nil
}

// Close closes the underlying database.
func (b *BadgerDB) Close() error {
	return b.db.Close()
}

// BadgerCollection stores a whole collection as one JSON value under key.
type BadgerCollection[T any] struct {
	db  *badger.DB
	key []byte
}

// NewBadgerCollection creates a collection stored under "collection:<name>".
func NewBadgerCollection[T any](b *BadgerDB, name string) *BadgerCollection[T] {
	return &BadgerCollection[T]{db: b.db, key: []byte("collection:" + name)}
}

// Load returns the stored snapshot, or nothing when the key has never been written.
func (c *BadgerCollection[T]) Load() ([]T, error) {
	var items []T
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(c.key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &items)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}
	return items, nil
}

// Save replaces the snapshot in a single transaction.
func (c *BadgerCollection[T]) Save(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(c.key, data)
	})
}

// Close is a no-op; the owning [BadgerDB] is closed by whoever opened it.
func (c *BadgerCollection[T]) Close() error { return nil }
