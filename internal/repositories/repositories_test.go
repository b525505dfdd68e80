package repositories

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/phototag/internal/models"
	"github.com/desertthunder/phototag/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := OpenSQLite(shared.DatabaseConfig{Path: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type collections struct {
	tags    models.Collection[models.Tag]
	history models.Collection[*models.ImageRecord]
}

// backends returns one freshly opened instance of every storage backend.
func backends(t *testing.T) map[string]func(t *testing.T) collections {
	t.Helper()
	return map[string]func(t *testing.T) collections{
		"file": func(t *testing.T) collections {
			dir := t.TempDir()
			return collections{
				tags:    NewJSONFile[models.Tag](filepath.Join(dir, "tags.json")),
				history: NewJSONFile[*models.ImageRecord](filepath.Join(dir, "history.json")),
			}
		},
		"sqlite": func(t *testing.T) collections {
			db := setupTestDB(t)
			return collections{tags: NewTagRepository(db), history: NewImageRepository(db)}
		},
		"badger": func(t *testing.T) collections {
			bdb, err := OpenBadger(t.TempDir())
			if err != nil {
				t.Fatalf("failed to open badger: %v", err)
			}
			t.Cleanup(func() { bdb.Close() })
			return collections{
				tags:    NewBadgerCollection[models.Tag](bdb, "tags"),
				history: NewBadgerCollection[*models.ImageRecord](bdb, "history"),
			}
		},
	}
}

func TestCollections(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("Empty Load", func(t *testing.T) {
				c := open(t)
				tags, err := c.tags.Load()
				if err != nil {
					t.Fatalf("failed to load empty tags: %v", err)
				}
				if len(tags) != 0 {
					t.Errorf("expected no tags, got %v", tags)
				}

				records, err := c.history.Load()
				if err != nil {
					t.Fatalf("failed to load empty history: %v", err)
				}
				if len(records) != 0 {
					t.Errorf("expected no records, got %v", records)
				}
			})

			t.Run("Tags Round Trip", func(t *testing.T) {
				c := open(t)
				want := []models.Tag{{Name: "cat"}, {Name: "dog"}, {Name: "Bird"}}

				if err := c.tags.Save(want); err != nil {
					t.Fatalf("failed to save tags: %v", err)
				}

				got, err := c.tags.Load()
				if err != nil {
					t.Fatalf("failed to load tags: %v", err)
				}
				if len(got) != len(want) {
					t.Fatalf("expected %d tags, got %d", len(want), len(got))
				}
				for i := range want {
					if got[i].Name != want[i].Name {
						t.Errorf("tag %d: expected %s, got %s", i, want[i].Name, got[i].Name)
					}
				}
			})

			t.Run("Save Replaces", func(t *testing.T) {
				c := open(t)
				if err := c.tags.Save([]models.Tag{{Name: "a"}, {Name: "b"}}); err != nil {
					t.Fatalf("failed to save tags: %v", err)
				}
				if err := c.tags.Save([]models.Tag{{Name: "c"}}); err != nil {
					t.Fatalf("failed to save tags: %v", err)
				}

				got, err := c.tags.Load()
				if err != nil {
					t.Fatalf("failed to load tags: %v", err)
				}
				if len(got) != 1 || got[0].Name != "c" {
					t.Errorf("expected [c], got %v", got)
				}
			})

			t.Run("History Round Trip", func(t *testing.T) {
				c := open(t)
				first := models.NewImageRecord("/photos/cat @red.jpg")
				first.Tags = models.NewTags("red")
				first.NameHistory = []string{"cat.jpg", "cat @red.jpg"}
				second := models.NewImageRecord("/photos/sub/dog.png")

				if err := c.history.Save([]*models.ImageRecord{first, second}); err != nil {
					t.Fatalf("failed to save history: %v", err)
				}

				got, err := c.history.Load()
				if err != nil {
					t.Fatalf("failed to load history: %v", err)
				}
				if len(got) != 2 {
					t.Fatalf("expected 2 records, got %d", len(got))
				}

				if !got[0].Equal(first) || got[0].ID != first.ID {
					t.Errorf("expected first record %v, got %v", first, got[0])
				}
				if got[0].Tags.String() != "red" {
					t.Errorf("expected tags [red], got %v", got[0].Tags)
				}
				if len(got[0].NameHistory) != 2 || got[0].NameHistory[0] != "cat.jpg" {
					t.Errorf("expected ordered history, got %v", got[0].NameHistory)
				}
				if !got[1].Equal(second) {
					t.Errorf("expected second record %v, got %v", second, got[1])
				}
				if len(got[1].NameHistory) != 1 {
					t.Errorf("expected history of length 1, got %v", got[1].NameHistory)
				}
			})
		})
	}
}

func TestCollectionErrors(t *testing.T) {
	t.Run("Corrupt JSON File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tags.json")
		if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		if _, err := NewJSONFile[models.Tag](path).Load(); err == nil {
			t.Fatal("expected decode error for corrupt file")
		}
	})

	t.Run("Unwritable JSON File", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		if err := os.WriteFile(blocker, nil, 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		f := NewJSONFile[models.Tag](filepath.Join(blocker, "tags.json"))
		if err := f.Save([]models.Tag{{Name: "x"}}); err == nil {
			t.Fatal("expected error when parent is a regular file")
		}
	})

	t.Run("JSON Save Leaves No Temp Files", func(t *testing.T) {
		dir := t.TempDir()
		f := NewJSONFile[models.Tag](filepath.Join(dir, "tags.json"))
		if err := f.Save([]models.Tag{{Name: "x"}}); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("failed to read dir: %v", err)
		}
		if len(entries) != 1 || entries[0].Name() != "tags.json" {
			t.Errorf("expected only tags.json, got %v", entries)
		}
	})

	t.Run("SQLite Rejects Invalid Record", func(t *testing.T) {
		repo := NewImageRepository(setupTestDB(t))
		bad := models.NewImageRecord("/photos/cat.jpg")
		bad.Name = ""

		if err := repo.Save([]*models.ImageRecord{bad}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("SQLite Duplicate Tag", func(t *testing.T) {
		repo := NewTagRepository(setupTestDB(t))
		if err := repo.Save([]models.Tag{{Name: "cat"}, {Name: "CAT"}}); err == nil {
			t.Fatal("expected unique constraint violation for case-insensitive duplicate")
		}

		got, err := repo.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("failed save should roll back, got %v", got)
		}
	})
}

func TestOpen(t *testing.T) {
	t.Run("File", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Storage.DataDir = t.TempDir()

		backend, err := Open(config)
		if err != nil {
			t.Fatalf("failed to open file backend: %v", err)
		}
		defer backend.Close()

		if backend.Driver != shared.DriverFile {
			t.Errorf("expected file driver, got %s", backend.Driver)
		}
		if err := backend.Tags.Save([]models.Tag{{Name: "x"}}); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		if _, err := os.Stat(config.TagsPath()); err != nil {
			t.Errorf("expected tags file at %s: %v", config.TagsPath(), err)
		}
	})

	t.Run("SQLite", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Storage.Driver = shared.DriverSQLite
		config.Database.Path = filepath.Join(t.TempDir(), "phototag.db")

		backend, err := Open(config)
		if err != nil {
			t.Fatalf("failed to open sqlite backend: %v", err)
		}
		if err := backend.Tags.Save([]models.Tag{{Name: "x"}}); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		if err := backend.Close(); err != nil {
			t.Fatalf("failed to close: %v", err)
		}

		reopened, err := Open(config)
		if err != nil {
			t.Fatalf("failed to reopen sqlite backend: %v", err)
		}
		defer reopened.Close()

		tags, err := reopened.Tags.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if len(tags) != 1 || tags[0].Name != "x" {
			t.Errorf("expected persisted [x], got %v", tags)
		}
	})

	t.Run("Badger", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Storage.Driver = shared.DriverBadger
		config.Storage.DataDir = t.TempDir()

		backend, err := Open(config)
		if err != nil {
			t.Fatalf("failed to open badger backend: %v", err)
		}
		defer backend.Close()

		if backend.Driver != shared.DriverBadger {
			t.Errorf("expected badger driver, got %s", backend.Driver)
		}
	})

	t.Run("Unknown Driver", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Storage.Driver = "postgres"

		if _, err := Open(config); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
