package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/desertthunder/phototag/internal/imaging"
	"github.com/desertthunder/phototag/internal/models"
)

// ThumbnailOpts configures a bulk thumbnail run.
type ThumbnailOpts struct {
	OutputDir  string // Destination directory (required)
	Root       string // Scan root mirrored below OutputDir (default: one directory per record ID)
	Width      uint   // Bounding box width (default: imaging.DefaultWidth)
	Height     uint   // Bounding box height (default: imaging.DefaultHeight)
	NumWorkers int    // Concurrent workers (default: 4, max: 8)
}

// ThumbnailResult is the outcome for one image.
type ThumbnailResult struct {
	Record *models.ImageRecord
	Output string
	Error  error
}

// BulkThumbnailResult summarizes a bulk thumbnail run.
type BulkThumbnailResult struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []ThumbnailResult
}

// Thumbnails renders previews for records concurrently.
//
// Individual failures are recorded in the result and do not stop the run. Results arrive in
// completion order.
func Thumbnails(ctx context.Context, records []*models.ImageRecord, opts ThumbnailOpts, prog chan<- ProgressUpdate) (*BulkThumbnailResult, error) {
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("thumbnail output directory is required")
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkThumbnailResult{
		Total:   len(records),
		Results: make([]ThumbnailResult, 0, len(records)),
	}

	jobs := make(chan *models.ImageRecord, len(records))
	results := make(chan ThumbnailResult, len(records))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go thumbnailWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for _, rec := range records {
			select {
			case <-ctx.Done():
				return
			case jobs <- rec:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		result.Results = append(result.Results, res)
		if res.Error == nil {
			result.Succeeded++
		} else {
			result.Failed++
		}
		sendProgress(prog, thumbnailUpdate(len(result.Results), result.Total, res.Record.Name, res.Error))
	}

	return result, ctx.Err()
}

func thumbnailWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan *models.ImageRecord,
	results chan<- ThumbnailResult,
	opts ThumbnailOpts,
) {
	defer wg.Done()

	for rec := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		out := thumbnailOutput(opts, rec)
		err := imaging.Thumbnail(rec.Path, out, opts.Width, opts.Height)
		results <- ThumbnailResult{Record: rec, Output: out, Error: err}
	}
}

// thumbnailOutput places the thumbnail of rec at the same relative location below OutputDir as
// the image has below Root. Records outside Root, or any record when Root is unset, go to a
// directory named after their ID.
func thumbnailOutput(opts ThumbnailOpts, rec *models.ImageRecord) string {
	if opts.Root != "" {
		rel, err := filepath.Rel(opts.Root, rec.Dir())
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return imaging.ThumbnailPath(filepath.Join(opts.OutputDir, rel), rec.Name)
		}
	}
	return imaging.ThumbnailPath(filepath.Join(opts.OutputDir, rec.ID), rec.Name)
}
