package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/phototag/internal/models"
)

// ImageRepository implements [models.Collection] for [models.ImageRecord] persistence.
//
// Tags and name history live in child tables ordered by position; sequence keeps record order.
type ImageRepository struct {
	db *sql.DB
}

// NewImageRepository creates a new [ImageRepository] with the given database connection
func NewImageRepository(db *sql.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// Load retrieves every image record with its tags and name history
func (r *ImageRepository) Load() ([]*models.ImageRecord, error) {
	rows, err := r.db.Query(`SELECT id, name, path FROM images ORDER BY sequence ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	var records []*models.ImageRecord
	byID := make(map[string]*models.ImageRecord)
	for rows.Next() {
		record := &models.ImageRecord{Tags: models.TagSet{}}
		if err := rows.Scan(&record.ID, &record.Name, &record.Path); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		records = append(records, record)
		byID[record.ID] = record
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	err = r.eachChild(`SELECT image_id, name FROM image_tags ORDER BY image_id, position`, func(rec *models.ImageRecord, name string) {
		rec.Tags = append(rec.Tags, models.Tag{Name: name})
	}, byID)
	if err != nil {
		return nil, fmt.Errorf("failed to load image tags: %w", err)
	}

	err = r.eachChild(`SELECT image_id, name FROM image_names ORDER BY image_id, position`, func(rec *models.ImageRecord, name string) {
		rec.NameHistory = append(rec.NameHistory, name)
	}, byID)
	if err != nil {
		return nil, fmt.Errorf("failed to load image names: %w", err)
	}

	return records, nil
}

func (r *ImageRepository) eachChild(query string, fn func(*models.ImageRecord, string), byID map[string]*models.ImageRecord) error {
	rows, err := r.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var imageID, name string
		if err := rows.Scan(&imageID, &name); err != nil {
			return err
		}
		if rec, ok := byID[imageID]; ok {
			fn(rec, name)
		}
	}
	return rows.Err()
}

// Save rewrites the images, image_tags and image_names tables inside one transaction
func (r *ImageRepository) Save(records []*models.ImageRecord) error {
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"image_names", "image_tags", "images"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for seq, rec := range records {
		_, err := tx.Exec(`INSERT INTO images (id, sequence, name, path) VALUES (?, ?, ?, ?)`, rec.ID, seq, rec.Name, rec.Path)
		if err != nil {
			return fmt.Errorf("failed to insert image %s: %w", rec.Name, err)
		}

		for i, tag := range rec.Tags {
			if _, err := tx.Exec(`INSERT INTO image_tags (image_id, position, name) VALUES (?, ?, ?)`, rec.ID, i, tag.Name); err != nil {
				return fmt.Errorf("failed to insert tag for %s: %w", rec.Name, err)
			}
		}

		for i, name := range rec.NameHistory {
			if _, err := tx.Exec(`INSERT INTO image_names (image_id, position, name) VALUES (?, ?, ?)`, rec.ID, i, name); err != nil {
				return fmt.Errorf("failed to insert name history for %s: %w", rec.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit images: %w", err)
	}
	return nil
}

// Close is a no-op; the database handle is owned by the caller.
func (r *ImageRepository) Close() error { return nil }
