package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/phototag/internal/catalog"
	"github.com/desertthunder/phototag/internal/shared"
	"github.com/desertthunder/phototag/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	tags       *catalog.TagStore
	history    *catalog.HistoryStore
	engine     *tasks.RenameEngine
	scanner    *tasks.Scanner
	logger     *log.Logger
	output     io.Writer
	open       func(path string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Tags       *catalog.TagStore
	History    *catalog.HistoryStore
	Engine     *tasks.RenameEngine
	Logger     *log.Logger
	Output     io.Writer
	Open       func(path string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Open == nil {
		opts.Open = shared.OpenPath
	}
	if opts.Engine == nil {
		opts.Engine = tasks.NewRenameEngine(tasks.RenameOpts{Logger: opts.Logger})
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		tags:       opts.Tags,
		history:    opts.History,
		engine:     opts.Engine,
		logger:     opts.Logger,
		output:     opts.Output,
		open:       opts.Open,
	}
	if r.history != nil {
		r.scanner = tasks.NewScanner(r.history, r.config.Scan.Extensions, r.logger)
	}
	return r
}

// SetLogger replaces the runner logger, e.g. to keep log output away from the TUI.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, scanCommand, showCommand, tagCommand,
		applyCommand, deleteCommand, retagCommand, revertCommand, historyCommand,
		logCommand, openCommand, thumbCommand, thumbsCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) ready() error {
	if r.tags == nil || r.history == nil {
		return fmt.Errorf("%w: stores not initialized", shared.ErrConstruction)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
