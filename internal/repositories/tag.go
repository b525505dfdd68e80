package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/phototag/internal/models"
)

// TagRepository implements [models.Collection] for [models.Tag] on the tags table.
type TagRepository struct {
	db *sql.DB
}

// NewTagRepository creates a new [TagRepository] with the given database connection
func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{db: db}
}

// Load returns every tag ordered by insertion position
func (r *TagRepository) Load() ([]models.Tag, error) {
	rows, err := r.db.Query(`SELECT name FROM tags ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, models.Tag{Name: name})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tags, nil
}

// Save replaces the table contents with tags inside one transaction
func (r *TagRepository) Save(tags []models.Tag) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tags`); err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO tags (position, name) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare tag insert: %w", err)
	}
	defer stmt.Close()

	for i, tag := range tags {
		if _, err := stmt.Exec(i, tag.Name); err != nil {
			return fmt.Errorf("failed to insert tag %q: %w", tag.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tags: %w", err)
	}
	return nil
}

// Close is a no-op; the database handle is owned by the caller.
func (r *TagRepository) Close() error { return nil }
