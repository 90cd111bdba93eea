package scan

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/mus/internal/shared"
	tu "github.com/desertthunder/mus/internal/testing"
)

func TestTagLibExtractor(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := TagLibExtractor{}.Extract(filepath.Join(t.TempDir(), "nope.flac"))
		if !errors.Is(err, shared.ErrExtraction) {
			t.Errorf("expected ErrExtraction, got %v", err)
		}
	})

	t.Run("non-media file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		tu.MustWriteFile(t, path, "not audio")

		_, err := TagLibExtractor{}.Extract(path)
		if !errors.Is(err, shared.ErrNotMedia) {
			t.Errorf("expected ErrNotMedia, got %v", err)
		}
	})
}

func TestFirstTagValue(t *testing.T) {
	tags := map[string][]string{
		"TITLE":  {"First", "Second"},
		"ARTIST": {},
	}

	if got := firstTagValue(tags, "TITLE"); got != "First" {
		t.Errorf("expected First, got %q", got)
	}
	if got := firstTagValue(tags, "ARTIST"); got != "" {
		t.Errorf("expected empty string for empty values, got %q", got)
	}
	if got := firstTagValue(tags, "ALBUM", "TITLE"); got != "First" {
		t.Errorf("expected fallback key to apply, got %q", got)
	}
	if got := firstTagValue(tags, "GENRE"); got != "" {
		t.Errorf("expected empty string for missing key, got %q", got)
	}
}

func TestLeadingInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"1999", 1999},
		{"1999-04-01", 1999},
		{"7/12", 7},
		{"07", 7},
		{"", 0},
		{"abc", 0},
	}

	for _, tc := range cases {
		if got := leadingInt(tc.in); got != tc.want {
			t.Errorf("leadingInt(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
