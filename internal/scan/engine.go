package scan

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mus/internal/models"
	"github.com/desertthunder/mus/internal/repositories"
	"github.com/desertthunder/mus/internal/shared"
	"golang.org/x/time/rate"
)

// Mode selects how a scan reconciles the catalog with the filesystem.
type Mode int

const (
	// ModeIncremental diffs the walked path set against the stored path set,
	// touching only additions and removals. Paths present in both are left
	// untouched: in-place file edits are not detected.
	ModeIncremental Mode = iota
	// ModeFull wipes the library's tracks and repopulates from the walk.
	// Stronger consistency, but user edits such as ratings are lost.
	ModeFull
)

func (m Mode) String() string {
	if m == ModeFull {
		return "full"
	}
	return "incremental"
}

// Options configures an [Engine].
type Options struct {
	// Workers bounds concurrent metadata extractions. Zero means one per CPU.
	Workers int
	// Throttle caps extractions per second. Zero disables the cap.
	Throttle float64
	Logger   *log.Logger
}

// Engine orchestrates library scans: it walks a library root, diffs the
// resulting path set against the stored track set, extracts metadata for new
// paths, and commits the whole delta in one transaction.
//
// Scans of the same library are serialized; a second scan of a busy library
// fails immediately with [shared.ErrScanInProgress]. Scans of different
// libraries proceed independently.
type Engine struct {
	tracks    *repositories.TrackRepository
	extractor Extractor
	logger    *log.Logger
	limiter   *rate.Limiter
	workers   int

	mu     sync.Mutex
	active map[string]struct{}
}

// NewEngine creates an Engine over the given track repository and extractor
func NewEngine(tracks *repositories.TrackRepository, extractor Extractor, opts Options) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if opts.Throttle > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.Throttle), 1)
	}

	return &Engine{
		tracks:    tracks,
		extractor: extractor,
		logger:    logger,
		limiter:   limiter,
		workers:   workers,
		active:    make(map[string]struct{}),
	}
}

// Scan reconciles one library's tracks with its filesystem root and returns
// the paths removed from the catalog, sorted.
//
// The sentinel ungrouped library is never scanned. A filesystem error on the
// root fails the scan with nothing committed; unreadable or non-media files
// are skipped individually. The deletion and insertion halves of the delta
// commit as a single transaction, so an interrupted scan leaves the catalog
// in the pre-scan state.
func (e *Engine) Scan(ctx context.Context, library *models.Library, mode Mode) ([]string, error) {
	root := library.RootPath()
	if root == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrUngroupedLibrary, library.Name())
	}

	if !e.acquire(library.ID()) {
		return nil, fmt.Errorf("%w: %s", shared.ErrScanInProgress, library.Name())
	}
	defer e.release(library.ID())

	logger := shared.WithLogger(e.logger, "library", library.Name(), "mode", mode.String())
	logger.Info("starting scan", "root", *root)

	walked, err := WalkRoot(*root)
	if err != nil {
		return nil, err
	}

	stored, err := e.tracks.PathsOf(library.ID())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	// removed is reported for both modes: the stored paths that no longer
	// exist on disk. In full mode every stored row is wiped regardless, but
	// paths the walk still sees are re-added, so they were never "removed"
	// from the caller's point of view.
	removed := make([]string, 0)
	for path := range stored {
		if _, ok := walked[path]; !ok {
			removed = append(removed, path)
		}
	}

	var candidates []string
	if mode == ModeFull {
		candidates = make([]string, 0, len(walked))
		for path := range walked {
			candidates = append(candidates, path)
		}
	} else {
		for path := range walked {
			if _, ok := stored[path]; !ok {
				candidates = append(candidates, path)
			}
		}
	}
	sort.Strings(candidates)
	sort.Strings(removed)

	records, err := e.extractAll(ctx, logger, library.ID(), candidates)
	if err != nil {
		return nil, err
	}

	if err := e.tracks.Reconcile(library.ID(), removed, mode == ModeFull, records); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	logger.Info("scan complete", "added", len(records), "removed", len(removed))

	return removed, nil
}

// extractAll runs metadata extraction for the candidate paths across a
// bounded worker pool. Non-media and unreadable files are dropped; results
// are returned in path order so insertion is deterministic.
func (e *Engine) extractAll(ctx context.Context, logger *log.Logger, libraryID string, paths []string) ([]*models.Track, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	pathc := make(chan string)
	recc := make(chan *models.Track)

	var wg sync.WaitGroup
	for range e.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range pathc {
				if e.limiter != nil {
					if err := e.limiter.Wait(ctx); err != nil {
						return
					}
				}

				result, err := e.extractor.Extract(path)
				switch {
				case errors.Is(err, shared.ErrNotMedia):
					logger.Debug("skipping non-media file", "path", path)
				case err != nil:
					logger.Warn("skipping unreadable file", "path", path, "err", err)
				default:
					recc <- models.NewTrack(libraryID, path, result.Metadata,
						result.Length, result.Bitrate, result.Samplerate)
				}
			}
		}()
	}

	go func() {
		defer close(pathc)
		for _, path := range paths {
			select {
			case pathc <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(recc)
	}()

	var records []*models.Track
	for record := range recc {
		records = append(records, record)
	}

	// Cancellation is honored between path-level units of work, never
	// mid-transaction: nothing has been committed yet at this point.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path() < records[j].Path() })

	return records, nil
}

func (e *Engine) acquire(libraryID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.active[libraryID]; busy {
		return false
	}
	e.active[libraryID] = struct{}{}
	return true
}

func (e *Engine) release(libraryID string) {
	e.mu.Lock()
	delete(e.active, libraryID)
	e.mu.Unlock()
}
