package tasks

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/phototag/internal/models"
	"github.com/desertthunder/phototag/internal/shared"
)

// DefaultExtensions is the image allow-list used when none is configured.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// Historian recalls previously seen images.
type Historian interface {
	Historicize(candidate *models.ImageRecord) (*models.ImageRecord, error)
}

// Scanner collects image records below a directory.
type Scanner struct {
	history    Historian
	extensions []string
	logger     *log.Logger
}

// NewScanner creates a scanner. An empty extensions list means [DefaultExtensions].
func NewScanner(history Historian, extensions []string, logger *log.Logger) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &Scanner{history: history, extensions: extensions, logger: logger}
}

// Scan walks root recursively and returns one record per image file, sorted by path.
//
// Each file is passed through the history so known images come back with their tags and name
// history. Persist failures are logged; the records are still returned.
func (s *Scanner) Scan(ctx context.Context, root string, progress chan<- ProgressUpdate) ([]*models.ImageRecord, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	paths, err := s.walk(ctx, root, progress)
	if err != nil {
		return nil, err
	}

	records := make([]*models.ImageRecord, 0, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		record, err := s.history.Historicize(models.NewImageRecord(path))
		if err != nil {
			s.logger.Warn("failed to persist history", "path", path, "error", err)
		}
		records = append(records, record)
		sendProgress(progress, historicizeUpdate(i+1, len(paths), record))
	}

	s.logger.Debug("scan complete", "root", root, "images", len(records))
	return records, nil
}

func (s *Scanner) walk(ctx context.Context, root string, progress chan<- ProgressUpdate) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrNotFound, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", shared.ErrInvalidArgument, root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			s.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !shared.IsImageFile(d.Name(), s.extensions) {
			return nil
		}

		paths = append(paths, path)
		sendProgress(progress, walkUpdate(len(paths), path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	slices.Sort(paths)
	return paths, nil
}
