package scan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/mus/internal/models"
	"github.com/desertthunder/mus/internal/repositories"
	"github.com/desertthunder/mus/internal/shared"
	tu "github.com/desertthunder/mus/internal/testing"
)

// stubExtractor derives metadata from the filename so engine tests need no
// real audio fixtures. Files without a media extension report ErrNotMedia.
type stubExtractor struct{}

func (stubExtractor) Extract(path string) (*Extraction, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrExtraction, path)
	}

	ext := filepath.Ext(path)
	if ext != ".flac" && ext != ".mp3" && ext != ".ogg" {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotMedia, path)
	}

	title := strings.TrimSuffix(filepath.Base(path), ext)
	return &Extraction{
		Metadata:   models.TrackMetadata{Title: title, Artist: "Stub"},
		Length:     120,
		Bitrate:    256,
		Samplerate: 44100,
	}, nil
}

// blockingExtractor parks its first extraction until released, holding the
// scan that issued it open.
type blockingExtractor struct {
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func newBlockingExtractor() *blockingExtractor {
	return &blockingExtractor{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (b *blockingExtractor) Extract(path string) (*Extraction, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return stubExtractor{}.Extract(path)
}

func setupEngine(t *testing.T) (*Engine, *sql.DB, *models.Library, string) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	root := t.TempDir()
	library, err := repositories.NewLibraryRepository(db).Create("Music", &root)
	if err != nil {
		t.Fatalf("failed to create library: %v", err)
	}

	engine := NewEngine(repositories.NewTrackRepository(db), stubExtractor{}, Options{Workers: 2})

	return engine, db, library, root
}

func mustScan(t *testing.T, engine *Engine, library *models.Library, mode Mode) []string {
	t.Helper()

	removed, err := engine.Scan(context.Background(), library, mode)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	return removed
}

func TestEngineScan(t *testing.T) {
	t.Run("initial scan catalogs media and skips the rest", func(t *testing.T) {
		engine, db, library, root := setupEngine(t)
		tu.MustWriteFile(t, filepath.Join(root, "a.flac"), "x")
		tu.MustWriteFile(t, filepath.Join(root, "b.mp3"), "x")
		tu.MustWriteFile(t, filepath.Join(root, "cover.jpg"), "x")

		removed := mustScan(t, engine, library, ModeIncremental)
		if len(removed) != 0 {
			t.Errorf("expected no removals on first scan, got %v", removed)
		}

		tracks, err := repositories.NewTrackRepository(db).ListByLibrary(library.ID())
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}
		if tracks[0].Title() != "a" || tracks[1].Title() != "b" {
			t.Errorf("unexpected titles: %s, %s", tracks[0].Title(), tracks[1].Title())
		}
	})

	t.Run("rescan of an unchanged root is a no-op", func(t *testing.T) {
		engine, db, library, root := setupEngine(t)
		tu.MustWriteFile(t, filepath.Join(root, "a.flac"), "x")

		mustScan(t, engine, library, ModeIncremental)

		repo := repositories.NewTrackRepository(db)
		before, err := repo.ListByLibrary(library.ID())
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}

		removed := mustScan(t, engine, library, ModeIncremental)
		if len(removed) != 0 {
			t.Errorf("expected no removals, got %v", removed)
		}

		after, err := repo.ListByLibrary(library.ID())
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}

		if len(after) != len(before) {
			t.Fatalf("expected %d tracks, got %d", len(before), len(after))
		}
		if after[0].ID() != before[0].ID() {
			t.Error("untouched tracks should keep their identity across rescans")
		}
	})

	t.Run("rescan picks up additions and removals", func(t *testing.T) {
		engine, db, library, root := setupEngine(t)
		tu.MustWriteFile(t, filepath.Join(root, "old.flac"), "x")
		tu.MustWriteFile(t, filepath.Join(root, "stable.flac"), "x")

		mustScan(t, engine, library, ModeIncremental)

		repo := repositories.NewTrackRepository(db)
		stable, err := repo.GetByPath(library.ID(), tu.MustCanonical(t, filepath.Join(root, "stable.flac")))
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}

		if err := os.Remove(filepath.Join(root, "old.flac")); err != nil {
			t.Fatalf("failed to remove file: %v", err)
		}
		tu.MustWriteFile(t, filepath.Join(root, "new.flac"), "x")

		removed := mustScan(t, engine, library, ModeIncremental)

		if len(removed) != 1 || filepath.Base(removed[0]) != "old.flac" {
			t.Errorf("expected old.flac removed, got %v", removed)
		}

		tracks, err := repo.ListByLibrary(library.ID())
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}

		survivor, err := repo.GetByPath(library.ID(), stable.Path())
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}
		if survivor.ID() != stable.ID() {
			t.Error("untouched track should keep its identity")
		}

		titles := []string{tracks[0].Title(), tracks[1].Title()}
		for _, want := range []string{"new", "stable"} {
			found := false
			for _, title := range titles {
				if title == want {
					found = true
				}
			}
			if !found {
				t.Errorf("expected track %q after rescan, got %v", want, titles)
			}
		}
	})

	t.Run("removal cascades playlist memberships", func(t *testing.T) {
		engine, db, library, root := setupEngine(t)
		tu.MustWriteFile(t, filepath.Join(root, "kept.flac"), "x")
		tu.MustWriteFile(t, filepath.Join(root, "doomed.flac"), "x")

		mustScan(t, engine, library, ModeIncremental)

		tracks := repositories.NewTrackRepository(db)
		playlists := repositories.NewPlaylistRepository(db)

		all, err := tracks.ListByLibrary(library.ID())
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}

		playlist := models.NewPlaylist(0, "Favorites")
		if err := playlists.Create(playlist); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}
		for i, track := range all {
			if err := playlists.AddTrack(playlist.ID(), track.ID(), i); err != nil {
				t.Fatalf("failed to add track: %v", err)
			}
		}

		if err := os.Remove(filepath.Join(root, "doomed.flac")); err != nil {
			t.Fatalf("failed to remove file: %v", err)
		}
		mustScan(t, engine, library, ModeIncremental)

		ids, err := playlists.TrackIDs(playlist.ID())
		if err != nil {
			t.Fatalf("failed to list playlist tracks: %v", err)
		}
		if len(ids) != 1 {
			t.Fatalf("expected 1 surviving membership, got %d", len(ids))
		}

		survivor, err := tracks.Get(ids[0])
		if err != nil {
			t.Fatalf("surviving membership should reference a live track: %v", err)
		}
		if survivor.Title() != "kept" {
			t.Errorf("expected kept to survive, got %s", survivor.Title())
		}
	})

	t.Run("full rescan replaces rows and reports only missing paths", func(t *testing.T) {
		engine, db, library, root := setupEngine(t)
		tu.MustWriteFile(t, filepath.Join(root, "a.flac"), "x")
		tu.MustWriteFile(t, filepath.Join(root, "b.flac"), "x")

		mustScan(t, engine, library, ModeIncremental)

		repo := repositories.NewTrackRepository(db)
		before, err := repo.ListByLibrary(library.ID())
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}

		if err := os.Remove(filepath.Join(root, "b.flac")); err != nil {
			t.Fatalf("failed to remove file: %v", err)
		}

		removed := mustScan(t, engine, library, ModeFull)
		if len(removed) != 1 || filepath.Base(removed[0]) != "b.flac" {
			t.Errorf("expected only b.flac reported removed, got %v", removed)
		}

		after, err := repo.ListByLibrary(library.ID())
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(after) != 1 {
			t.Fatalf("expected 1 track, got %d", len(after))
		}
		if after[0].ID() == before[0].ID() {
			t.Error("full rescan should re-create rows with fresh identity")
		}
	})

	t.Run("ungrouped library is refused", func(t *testing.T) {
		engine, db, _, _ := setupEngine(t)

		ungrouped, err := repositories.NewLibraryRepository(db).EnsureUngrouped()
		if err != nil {
			t.Fatalf("failed to ensure ungrouped library: %v", err)
		}

		_, err = engine.Scan(context.Background(), ungrouped, ModeIncremental)
		if !errors.Is(err, shared.ErrUngroupedLibrary) {
			t.Errorf("expected ErrUngroupedLibrary, got %v", err)
		}
	})

	t.Run("missing root fails with nothing committed", func(t *testing.T) {
		engine, db, library, root := setupEngine(t)
		tu.MustWriteFile(t, filepath.Join(root, "a.flac"), "x")
		mustScan(t, engine, library, ModeIncremental)

		if err := os.RemoveAll(root); err != nil {
			t.Fatalf("failed to remove root: %v", err)
		}

		_, err := engine.Scan(context.Background(), library, ModeIncremental)
		if !errors.Is(err, shared.ErrFilesystem) {
			t.Errorf("expected ErrFilesystem, got %v", err)
		}

		tracks, err := repositories.NewTrackRepository(db).ListByLibrary(library.ID())
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(tracks) != 1 {
			t.Errorf("catalog should be untouched after a failed scan, got %d tracks", len(tracks))
		}
	})

	t.Run("concurrent scans of one library are serialized", func(t *testing.T) {
		_, db, library, root := setupEngine(t)
		tu.MustWriteFile(t, filepath.Join(root, "a.flac"), "x")

		otherRoot := t.TempDir()
		other, err := repositories.NewLibraryRepository(db).Create("Other", &otherRoot)
		if err != nil {
			t.Fatalf("failed to create library: %v", err)
		}

		blocker := newBlockingExtractor()
		engine := NewEngine(repositories.NewTrackRepository(db), blocker, Options{Workers: 1})

		errc := make(chan error, 1)
		go func() {
			_, err := engine.Scan(context.Background(), library, ModeIncremental)
			errc <- err
		}()
		<-blocker.started

		_, err = engine.Scan(context.Background(), library, ModeIncremental)
		if !errors.Is(err, shared.ErrScanInProgress) {
			t.Errorf("expected ErrScanInProgress for the busy library, got %v", err)
		}

		// A different library is unaffected by the held lock.
		if _, err := engine.Scan(context.Background(), other, ModeIncremental); err != nil {
			t.Errorf("scan of an idle library should proceed: %v", err)
		}

		close(blocker.release)
		if err := <-errc; err != nil {
			t.Fatalf("first scan failed: %v", err)
		}

		// The lock is released once the scan finishes.
		if _, err := engine.Scan(context.Background(), library, ModeIncremental); err != nil {
			t.Errorf("rescan after completion should proceed: %v", err)
		}
	})

	t.Run("cancelled context aborts before commit", func(t *testing.T) {
		engine, db, library, root := setupEngine(t)
		tu.MustWriteFile(t, filepath.Join(root, "a.flac"), "x")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := engine.Scan(ctx, library, ModeIncremental)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}

		tracks, err := repositories.NewTrackRepository(db).ListByLibrary(library.ID())
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(tracks) != 0 {
			t.Errorf("nothing should be committed after cancellation, got %d tracks", len(tracks))
		}
	})
}

func TestModeString(t *testing.T) {
	if ModeIncremental.String() != "incremental" {
		t.Errorf("unexpected string: %s", ModeIncremental.String())
	}
	if ModeFull.String() != "full" {
		t.Errorf("unexpected string: %s", ModeFull.String())
	}
}
