package repositories

import (
	"strings"
	"testing"

	"github.com/desertthunder/mus/internal/models"
)

func TestTrackRepositoryErrors(t *testing.T) {
	t.Run("Reconcile rolls back deletions when an insert fails", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		library := makeLibrary(t, db, "Music", "/music")
		repo := NewTrackRepository(db)

		if err := repo.InsertBatch([]*models.Track{
			makeTrack(library.ID(), "/music/old.flac", "Old"),
			makeTrack(library.ID(), "/music/stable.flac", "Stable"),
		}); err != nil {
			t.Fatalf("failed to insert tracks: %v", err)
		}

		// Two records sharing a path violate UNIQUE (library_id, path) on the
		// second insert, after the deletion half has already run.
		records := []*models.Track{
			makeTrack(library.ID(), "/music/new.flac", "New"),
			makeTrack(library.ID(), "/music/new.flac", "Dup"),
		}

		err := repo.Reconcile(library.ID(), []string{"/music/old.flac"}, false, records)
		if err == nil {
			t.Fatal("expected constraint violation to fail the reconciliation")
		}

		paths, err := repo.PathsOf(library.ID())
		if err != nil {
			t.Fatalf("failed to load paths: %v", err)
		}

		if len(paths) != 2 {
			t.Fatalf("expected pre-scan catalog intact, got %d paths", len(paths))
		}
		for _, path := range []string{"/music/old.flac", "/music/stable.flac"} {
			if _, ok := paths[path]; !ok {
				t.Errorf("expected %s to survive the rollback", path)
			}
		}
	})

	t.Run("Reconcile with wipe rolls back when an insert fails", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		library := makeLibrary(t, db, "Music", "/music")
		repo := NewTrackRepository(db)

		if err := repo.InsertBatch([]*models.Track{
			makeTrack(library.ID(), "/music/a.flac", "Alpha"),
		}); err != nil {
			t.Fatalf("failed to insert tracks: %v", err)
		}

		records := []*models.Track{
			makeTrack(library.ID(), "/music/b.flac", "Beta"),
			makeTrack(library.ID(), "/music/b.flac", "Dup"),
		}

		if err := repo.Reconcile(library.ID(), nil, true, records); err == nil {
			t.Fatal("expected constraint violation to fail the reconciliation")
		}

		paths, err := repo.PathsOf(library.ID())
		if err != nil {
			t.Fatalf("failed to load paths: %v", err)
		}
		if _, ok := paths["/music/a.flac"]; !ok || len(paths) != 1 {
			t.Errorf("expected the wiped rows restored by rollback, got %v", paths)
		}
	})

	t.Run("InsertBatch surfaces the offending path and rolls back siblings", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		library := makeLibrary(t, db, "Music", "/music")
		repo := NewTrackRepository(db)

		if err := repo.InsertBatch([]*models.Track{
			makeTrack(library.ID(), "/music/a.flac", "Alpha"),
		}); err != nil {
			t.Fatalf("failed to insert tracks: %v", err)
		}

		err := repo.InsertBatch([]*models.Track{
			makeTrack(library.ID(), "/music/b.flac", "Beta"),
			makeTrack(library.ID(), "/music/a.flac", "Dup"),
		})
		if err == nil {
			t.Fatal("expected duplicate path to fail the batch")
		}
		if !strings.Contains(err.Error(), "/music/a.flac") {
			t.Errorf("expected offending path in error, got %v", err)
		}

		paths, err := repo.PathsOf(library.ID())
		if err != nil {
			t.Fatalf("failed to load paths: %v", err)
		}
		if _, ok := paths["/music/b.flac"]; ok {
			t.Error("siblings of a failed record should be rolled back")
		}
	})

	t.Run("InsertBatch rejects invalid records before writing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		library := makeLibrary(t, db, "Music", "/music")
		repo := NewTrackRepository(db)

		invalid := models.NewTrack(library.ID(), "/music/broken.flac", models.TrackMetadata{}, 0, 0, 44100)

		err := repo.InsertBatch([]*models.Track{invalid})
		if err == nil {
			t.Fatal("expected validation failure")
		}
		if !strings.Contains(err.Error(), "/music/broken.flac") {
			t.Errorf("expected offending path in error, got %v", err)
		}

		paths, err := repo.PathsOf(library.ID())
		if err != nil {
			t.Fatalf("failed to load paths: %v", err)
		}
		if len(paths) != 0 {
			t.Errorf("expected nothing persisted, got %v", paths)
		}
	})
}
