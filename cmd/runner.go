package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/mus/internal/formatter"
	"github.com/desertthunder/mus/internal/models"
	"github.com/desertthunder/mus/internal/repositories"
	"github.com/desertthunder/mus/internal/scan"
	"github.com/desertthunder/mus/internal/shared"
	"github.com/desertthunder/mus/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	logger    *log.Logger
	output    io.Writer
	extractor scan.Extractor
}

// RunnerConfig contains configuration options for creating a Runner.
type RunnerConfig struct {
	Config    *shared.Config
	Logger    *log.Logger
	Output    io.Writer
	Extractor scan.Extractor
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerConfig) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Extractor == nil {
		opts.Extractor = scan.TagLibExtractor{}
	}

	return &Runner{
		config:    opts.Config,
		logger:    opts.Logger,
		output:    opts.Output,
		extractor: opts.Extractor,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, libraryCommand, scanCommand, tracksCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// open resolves configuration and opens the catalog database.
func (r *Runner) open(cmd *cli.Command) (*sql.DB, error) {
	config := r.config
	if path := cmd.String("config"); path != "" {
		if loaded, err := shared.LoadConfig(path); err == nil {
			config = loaded
			r.config = loaded
		}
	}

	dbPath, err := shared.DataPath(config)
	if err != nil {
		return nil, err
	}

	db, err := shared.NewDatabase(dbPath)
	if err != nil {
		return nil, err
	}

	if config.Database.MaxOpenConns > 0 {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	}

	return db, nil
}

// Setup initializes the catalog database, runs migrations, and creates the
// sentinel ungrouped library.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	db, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	libraries := repositories.NewLibraryRepository(db)
	if _, err := libraries.EnsureUngrouped(); err != nil {
		return fmt.Errorf("failed to create ungrouped library: %w", err)
	}

	r.logger.Info("catalog initialized")
	fmt.Fprintln(r.output, "catalog initialized")

	return nil
}

// LibraryAdd registers a new library rooted at a directory. Creation is
// idempotent: re-adding the same name and path returns the existing library.
func (r *Runner) LibraryAdd(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	root := cmd.String("path")
	if name == "" || root == "" {
		return fmt.Errorf("%w: --name and --path are required", shared.ErrMissingArgument)
	}

	db, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	libraries := repositories.NewLibraryRepository(db)
	library, err := libraries.Create(name, &root)
	if err != nil {
		return fmt.Errorf("failed to add library: %w", err)
	}

	fmt.Fprintf(r.output, "library %q at %s (%s)\n", library.Name(), root, library.ID())

	return nil
}

// LibraryList prints all libraries.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	libraries, err := repositories.NewLibraryRepository(db).List()
	if err != nil {
		return fmt.Errorf("failed to list libraries: %w", err)
	}

	if cmd.Bool("json") {
		out := make([]libraryJSON, 0, len(libraries))
		for _, library := range libraries {
			out = append(out, newLibraryJSON(library))
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	for _, library := range libraries {
		if root := library.RootPath(); root != nil {
			fmt.Fprintf(r.output, "%s\t%s\n", library.Name(), *root)
		} else {
			fmt.Fprintf(r.output, "%s\t(ungrouped)\n", library.Name())
		}
	}

	return nil
}

// Scan reconciles one library's catalog with its filesystem root.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("library")
	if name == "" {
		return fmt.Errorf("%w: --library is required", shared.ErrMissingArgument)
	}

	db, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	library, err := repositories.NewLibraryRepository(db).GetByName(name)
	if err != nil {
		return err
	}

	engine := scan.NewEngine(repositories.NewTrackRepository(db), r.extractor, scan.Options{
		Workers:  r.config.Scan.Workers,
		Throttle: r.config.Scan.Throttle,
		Logger:   r.logger,
	})

	mode := scan.ModeIncremental
	if cmd.Bool("full") {
		mode = scan.ModeFull
	}

	removed, err := engine.Scan(ctx, library, mode)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	for _, path := range removed {
		fmt.Fprintf(r.output, "removed %s\n", path)
	}
	fmt.Fprintf(r.output, "%d paths removed\n", len(removed))

	return nil
}

// Tracks dumps the catalog, optionally filtered to one library.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	db, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	tracks, err := r.loadTracks(db, cmd.String("library"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out := make([]trackJSON, 0, len(tracks))
		for _, track := range tracks {
			out = append(out, newTrackJSON(track))
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	if _, err := r.output.Write(formatter.ExportToText(tracks)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

// Export writes the catalog to a file in the chosen format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	db, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	tracks, err := r.loadTracks(db, cmd.String("library"))
	if err != nil {
		return err
	}

	var data []byte
	switch format := cmd.String("format"); format {
	case "csv":
		data, err = formatter.ExportToCSV(tracks)
		if err != nil {
			return err
		}
	case "md", "markdown":
		data = formatter.ExportToMarkdown("Catalog", tracks)
	case "txt", "text":
		data = formatter.ExportToText(tracks)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Fprintf(r.output, "wrote %d tracks to %s\n", len(tracks), path)
		return nil
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

// Tui launches the interactive catalog browser.
func (r *Runner) Tui(ctx context.Context, cmd *cli.Command) error {
	db, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	model := ui.New(repositories.NewLibraryRepository(db), repositories.NewTrackRepository(db))

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

func (r *Runner) loadTracks(db *sql.DB, libraryName string) ([]*models.Track, error) {
	tracks := repositories.NewTrackRepository(db)

	if libraryName == "" {
		return tracks.DumpAll()
	}

	library, err := repositories.NewLibraryRepository(db).GetByName(libraryName)
	if err != nil {
		return nil, err
	}
	return tracks.ListByLibrary(library.ID())
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
