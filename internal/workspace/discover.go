// Package workspace finds the documents of a project, lints them concurrently
// and watches them for changes.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"bennypowers.dev/gqlint/internal/collections"
	"github.com/bmatcuk/doublestar/v4"
)

// skippedDirs are never descended into
var skippedDirs = collections.NewSet("node_modules", "bower_components", "vendor")

// Discover returns the documents to lint, sorted. With no paths, root is
// searched for files matching patterns. An explicit file path is always
// included; an explicit directory is searched like root, with patterns still
// relative to root.
func Discover(root string, patterns, paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{root}
	}

	found := collections.NewSet[string]()
	for _, p := range paths {
		if !filepath.IsAbs(p) && root != "" && p != root {
			p = filepath.Join(root, p)
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		if !info.IsDir() {
			found.Add(filepath.Clean(p))
			continue
		}
		if err := walk(root, p, patterns, found); err != nil {
			return nil, err
		}
	}
	return collections.Sorted(found), nil
}

// walk searches dir, matching patterns against paths relative to root. A dir
// outside root is matched relative to itself.
func walk(root, dir string, patterns []string, found collections.Set[string]) error {
	base := dir
	if root != "" {
		if rel, err := filepath.Rel(root, dir); err == nil && !escapes(rel) {
			base = root
		}
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if path != dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		if Matches(patterns, rel) {
			found.Add(path)
		}
		return nil
	})
}

// Matches reports whether the root-relative path matches any pattern
func Matches(patterns []string, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || skippedDirs.Has(name)
}
