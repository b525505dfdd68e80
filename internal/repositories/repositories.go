package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/phototag/internal/models"
	"github.com/desertthunder/phototag/internal/shared"
)

// Backend bundles the tag and history collections of one storage driver.
type Backend struct {
	Driver  string
	Tags    models.Collection[models.Tag]
	History models.Collection[*models.ImageRecord]
	closers []func() error
}

// Close releases every resource opened for the backend.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open builds the backend selected by config.Storage.Driver.
func Open(config *shared.Config) (*Backend, error) {
	switch config.Storage.Driver {
	case shared.DriverFile, "":
		return &Backend{
			Driver:  shared.DriverFile,
			Tags:    NewJSONFile[models.Tag](config.TagsPath()),
			History: NewJSONFile[*models.ImageRecord](config.HistoryPath()),
		}, nil

	case shared.DriverSQLite:
		db, err := OpenSQLite(config.Database)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver:  shared.DriverSQLite,
			Tags:    NewTagRepository(db),
			History: NewImageRepository(db),
			closers: []func() error{db.Close},
		}, nil

	case shared.DriverBadger:
		bdb, err := OpenBadger(config.BadgerPath())
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver:  shared.DriverBadger,
			Tags:    NewBadgerCollection[models.Tag](bdb, "tags"),
			History: NewBadgerCollection[*models.ImageRecord](bdb, "history"),
			closers: []func() error{bdb.Close},
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", shared.ErrInvalidConfig, config.Storage.Driver)
	}
}

// OpenSQLite opens the configured database and applies pending migrations.
func OpenSQLite(cfg shared.DatabaseConfig) (*sql.DB, error) {
	db, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}
