package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/phototag/internal/models"
	"github.com/desertthunder/phototag/internal/shared"
	"github.com/urfave/cli/v3"
)

// TagList prints the known tags in insertion order.
func (r *Runner) TagList(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	tags := r.tags.Tags()
	if cmd.Bool("json") {
		return r.writeJSON(tags, true)
	}

	if len(tags) == 0 {
		r.writePlain("No tags yet. Add one with 'phototag tag add <name>'\n")
		return nil
	}
	for _, t := range tags {
		r.writePlain("%s\n", t.Name)
	}
	return nil
}

// TagAdd registers tags in the store.
func (r *Runner) TagAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	names := cmd.StringArgs("names")
	if len(names) == 0 {
		return fmt.Errorf("%w: at least one tag", shared.ErrMissingArgument)
	}

	for _, t := range models.NewTags(names...) {
		if _, ok := r.tags.Find(t.Name); ok {
			r.writePlain("  %s already known\n", t.Name)
			continue
		}
		if err := r.tags.Add(t); err != nil {
			return fmt.Errorf("failed to add tag %s: %w", t.Name, err)
		}
		r.writePlain("✓ Added %s\n", t.Name)
	}
	return nil
}

// TagRemove drops tags from the store. Image names are left untouched.
func (r *Runner) TagRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	names := cmd.StringArgs("names")
	if len(names) == 0 {
		return fmt.Errorf("%w: at least one tag", shared.ErrMissingArgument)
	}

	var errs []error
	for _, name := range names {
		t, ok := r.tags.Find(name)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: tag %s", shared.ErrNotFound, name))
			continue
		}
		if err := r.tags.Remove(t); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove tag %s: %w", name, err))
			continue
		}
		r.writePlain("✓ Removed %s\n", t.Name)
	}
	return errors.Join(errs...)
}
