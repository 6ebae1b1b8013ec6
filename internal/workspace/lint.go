package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"bennypowers.dev/gqlint/internal/lint"
	"bennypowers.dev/gqlint/internal/log"
	"golang.org/x/sync/errgroup"
)

// LintFiles lints files concurrently, bounded by GOMAXPROCS. Diagnostics carry
// paths relative to root and are sorted. Unreadable files abort the run; internal
// lint failures are collected and returned with the diagnostics.
func LintFiles(ctx context.Context, linter *lint.Linter, root string, files []string) ([]lint.Diagnostic, error) {
	var (
		mu       sync.Mutex
		diags    []lint.Diagnostic
		failures []error
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			src, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}

			found, err := linter.LintSource(DisplayPath(root, file), string(src))

			mu.Lock()
			defer mu.Unlock()
			diags = append(diags, found...)
			if err != nil {
				log.Error("Internal failure linting %s: %v", file, err)
				failures = append(failures, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	lint.Sort(diags)
	log.Debug("Linted %d file(s), %d diagnostic(s)", len(files), len(diags))
	return diags, errors.Join(failures...)
}

// DisplayPath renders file relative to root when it lies inside it
func DisplayPath(root, file string) string {
	if root == "" {
		return file
	}
	rel, err := filepath.Rel(root, file)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return file
	}
	return rel
}
