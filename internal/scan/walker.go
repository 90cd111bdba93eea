package scan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/mus/internal/shared"
)

// WalkRoot recursively enumerates the regular files under root, following
// symlinks, and returns their canonical (symlink-resolved, absolute) paths as
// a set. Multiple link paths resolving to the same file yield one entry.
//
// A single entry that cannot be resolved (broken link, permission problem) is
// skipped. Only the root itself failing (missing, not a directory, or
// unreadable) fails the walk, with an error wrapping [shared.ErrFilesystem].
func WalkRoot(root string) (map[string]struct{}, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot resolve root %s: %v", shared.ErrFilesystem, root, err)
	}

	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot resolve root %s: %v", shared.ErrFilesystem, root, err)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot stat root %s: %v", shared.ErrFilesystem, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: root is not a directory: %s", shared.ErrFilesystem, root)
	}

	entries, err := os.ReadDir(canonical)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read root %s: %v", shared.ErrFilesystem, root, err)
	}

	paths := make(map[string]struct{})
	// visited holds canonical directories, guarding against symlink cycles.
	visited := map[string]struct{}{canonical: {}}

	visit(canonical, entries, paths, visited)

	return paths, nil
}

// visit walks one directory's entries, recursing into unseen directories and
// collecting canonical paths of regular files. Per-entry failures are skipped.
func visit(dir string, entries []os.DirEntry, paths, visited map[string]struct{}) {
	for _, entry := range entries {
		canonical, err := filepath.EvalSymlinks(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}

		info, err := os.Stat(canonical)
		if err != nil {
			continue
		}

		switch {
		case info.IsDir():
			if _, seen := visited[canonical]; seen {
				continue
			}
			visited[canonical] = struct{}{}

			children, err := os.ReadDir(canonical)
			if err != nil {
				continue
			}
			visit(canonical, children, paths, visited)
		case info.Mode().IsRegular():
			paths[canonical] = struct{}{}
		}
	}
}
