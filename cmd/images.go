package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/phototag/internal/formatter"
	"github.com/desertthunder/phototag/internal/imaging"
	"github.com/desertthunder/phototag/internal/models"
	"github.com/desertthunder/phototag/internal/shared"
	"github.com/desertthunder/phototag/internal/tasks"
	"github.com/urfave/cli/v3"
)

// record resolves path to its historicized [models.ImageRecord].
func (r *Runner) record(path string) (*models.ImageRecord, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("%w: image path", shared.ErrMissingArgument)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotFound, path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", shared.ErrInvalidArgument, path)
	}
	if !shared.IsImageFile(info.Name(), r.config.Scan.Extensions) {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotAnImage, path)
	}

	rec, err := r.history.Historicize(models.NewImageRecord(abs))
	if err != nil {
		r.logger.Warn("failed to persist history", "image", rec.Name, "error", err)
	}
	return rec, nil
}

// scan walks dir and returns its historicized images.
func (r *Runner) scan(ctx context.Context, dir string) (string, []*models.ImageRecord, error) {
	if err := r.ready(); err != nil {
		return "", nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	records, err := r.scanner.Scan(ctx, abs, nil)
	return abs, records, err
}

// Scan lists the images below a directory.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	root, records, err := r.scan(ctx, cmd.StringArg("dir"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, true)
	}

	r.writePlainHeader(fmt.Sprintf("Images in %s", root))
	for _, rec := range records {
		rel, err := filepath.Rel(root, rec.Path)
		if err != nil {
			rel = rec.Path
		}
		if len(rec.Tags) > 0 {
			r.writePlain("%s  [%s]\n", rel, rec.Tags)
		} else {
			r.writePlain("%s\n", rel)
		}
	}
	r.writePlainln("%d images", len(records))
	return nil
}

// Show prints the record of a single image with its EXIF data.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	rec, err := r.record(cmd.StringArg("image"))
	if err != nil {
		return err
	}

	meta, ok, err := imaging.ReadMetadata(rec.Path)
	if err != nil {
		r.logger.Warn("failed to read EXIF", "image", rec.Name, "error", err)
	}

	if cmd.Bool("json") {
		out := struct {
			*models.ImageRecord
			EXIF *imaging.Metadata `json:"exif,omitempty"`
		}{ImageRecord: rec}
		if ok {
			out.EXIF = &meta
		}
		return r.writeJSON(out, true)
	}

	r.writePlainHeader(rec.Name)
	r.writePlain("Location: %s\n", rec.Dir())
	r.writePlain("Tags:     %s\n", tagsOrNone(rec.Tags))
	r.writePlain("Renames:  %d\n", len(rec.NameHistory)-1)
	if ok {
		if meta.HasTakenAt() {
			r.writePlain("Taken:    %s\n", meta.TakenAt.Format(time.DateTime))
		}
		if camera := meta.Camera(); camera != "" {
			r.writePlain("Camera:   %s\n", camera)
		}
	}
	return nil
}

// Apply adds tags to an image and registers them in the tag store.
func (r *Runner) Apply(ctx context.Context, cmd *cli.Command) error {
	rec, err := r.record(cmd.StringArg("image"))
	if err != nil {
		return err
	}

	tags, err := r.registerTags(cmd.StringArgs("tags"))
	if err != nil {
		return err
	}

	res, err := r.engine.Apply(rec, tags)
	return r.reportRename(rec, res, err)
}

// Delete removes tags from an image.
func (r *Runner) Delete(ctx context.Context, cmd *cli.Command) error {
	rec, err := r.record(cmd.StringArg("image"))
	if err != nil {
		return err
	}

	names := cmd.StringArgs("tags")
	if len(names) == 0 {
		return fmt.Errorf("%w: at least one tag", shared.ErrMissingArgument)
	}

	res, err := r.engine.Delete(rec, models.NewTags(names...))
	return r.reportRename(rec, res, err)
}

// Retag applies the given tags and deletes every other known tag.
func (r *Runner) Retag(ctx context.Context, cmd *cli.Command) error {
	rec, err := r.record(cmd.StringArg("image"))
	if err != nil {
		return err
	}

	selected, err := r.registerTags(cmd.StringArgs("tags"))
	if err != nil {
		return err
	}

	res, err := r.engine.Retag(rec, selected, r.tags.Tags())
	return r.reportRename(rec, res, err)
}

// Revert renames an image back to one of its past names.
func (r *Runner) Revert(ctx context.Context, cmd *cli.Command) error {
	rec, err := r.record(cmd.StringArg("image"))
	if err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: historical name", shared.ErrMissingArgument)
	}
	if !rec.HasName(name) {
		return fmt.Errorf("%w: %q is not in the history of %s", shared.ErrInvalidArgument, name, rec.Name)
	}

	res, err := r.engine.RevertTo(rec, name)
	return r.reportRename(rec, res, err)
}

// History lists the past names of an image, oldest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	rec, err := r.record(cmd.StringArg("image"))
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("History of %s", rec.Name))
	for i, name := range rec.NameHistory {
		marker := " "
		if name == rec.Name {
			marker = "*"
		}
		r.writePlain("%s %d. %s\n", marker, i+1, name)
	}
	return nil
}

// Log prints the tail of the rename log.
func (r *Runner) Log(ctx context.Context, cmd *cli.Command) error {
	lines, err := tasks.Tail(r.config.Log.RenamePath, cmd.Int("lines"))
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		r.writePlain("No renames logged in %s\n", r.config.Log.RenamePath)
		return nil
	}
	for _, line := range lines {
		r.writePlain("%s\n", line)
	}
	return nil
}

// Open opens the directory containing an image in the system file browser.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	rec, err := r.record(cmd.StringArg("image"))
	if err != nil {
		return err
	}
	if err := r.open(rec.Dir()); err != nil {
		return fmt.Errorf("failed to open file location: %w", err)
	}
	r.logger.Info("opened file location", "path", rec.Dir())
	return nil
}

// Thumb writes a preview thumbnail of one image.
func (r *Runner) Thumb(ctx context.Context, cmd *cli.Command) error {
	rec, err := r.record(cmd.StringArg("image"))
	if err != nil {
		return err
	}

	dst := cmd.String("output")
	if dst == "" {
		dst = imaging.ThumbnailPath(r.thumbsDir(), rec.Name)
	}
	if err := imaging.Thumbnail(rec.Path, dst, r.config.Preview.Width, r.config.Preview.Height); err != nil {
		return err
	}
	r.writePlain("✓ Thumbnail written to %s\n", dst)
	return nil
}

// Thumbs writes preview thumbnails for every image below a directory.
func (r *Runner) Thumbs(ctx context.Context, cmd *cli.Command) error {
	root, records, err := r.scan(ctx, cmd.StringArg("dir"))
	if err != nil {
		return err
	}

	outDir := cmd.String("output")
	if outDir == "" {
		outDir = r.thumbsDir()
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := tasks.Thumbnails(ctx, records, tasks.ThumbnailOpts{
		OutputDir:  outDir,
		Root:       root,
		Width:      r.config.Preview.Width,
		Height:     r.config.Preview.Height,
		NumWorkers: cmd.Int("workers"),
	}, progressCh)
	close(progressCh)
	<-done
	if err != nil {
		return err
	}

	r.writePlainln("✓ %d thumbnails written to %s (%d failed)", result.Succeeded, outDir, result.Failed)
	for _, res := range result.Results {
		if res.Error != nil {
			r.logger.Warn("thumbnail failed", "image", res.Record.Name, "error", res.Error)
		}
	}
	return nil
}

// Export writes a report of the images below a directory.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	if _, err := formatter.Export(&formatter.Library{}, format); err != nil {
		return err
	}

	root, records, err := r.scan(ctx, cmd.StringArg("dir"))
	if err != nil {
		return err
	}

	lib := &formatter.Library{Root: root, GeneratedAt: time.Now(), Records: records}
	path, err := formatter.WriteExport(lib, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("export complete", "format", format, "images", len(records))
	r.writePlain("✓ Exported %d images to %s\n", len(records), path)
	return nil
}

// registerTags adds names to the tag store and returns them as tags.
//
// A failed persist is logged; the tag is still usable for this run.
func (r *Runner) registerTags(names []string) (models.TagSet, error) {
	tags := models.NewTags(names...)
	for _, t := range tags {
		if err := r.tags.Add(t); err != nil {
			if !errors.Is(err, shared.ErrPersistence) {
				return nil, err
			}
			r.logger.Warn("failed to persist tag store", "tag", t.Name, "error", err)
		}
	}
	return tags, nil
}

// reportRename prints the outcome of a rename and persists tag-only changes.
func (r *Runner) reportRename(rec *models.ImageRecord, res tasks.Result, err error) error {
	if err != nil {
		return err
	}

	if !res.Renamed {
		if err := r.history.Persist(); err != nil {
			r.logger.Warn("failed to persist history", "error", err)
		}
		r.writePlain("Name unchanged: %s\n", rec.Name)
		return nil
	}

	r.writePlain("%s >>> %s\n", res.OldName, res.NewName)
	r.writePlain("Tags: %s\n", tagsOrNone(rec.Tags))
	return nil
}

func (r *Runner) thumbsDir() string {
	return filepath.Join(r.config.Storage.DataDir, "thumbs")
}

func tagsOrNone(tags models.TagSet) string {
	if len(tags) == 0 {
		return "none"
	}
	return strings.Join(tags.Names(), ", ")
}
