package report

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ErrRootNotFound indicates the configured report root does not exist or is
// not a directory. This is a configuration error: the job aborts before any
// database access.
var ErrRootNotFound = errors.New("report root is not a directory")

// Scanner enumerates candidate report files under a root directory.
// Enumeration order carries no meaning; every later stage is
// order-independent up to the planner's final oldest-first sort.
type Scanner struct {
	root     string
	patterns []string
	logger   *slog.Logger
}

// NewScanner creates a Scanner for the given root and filename patterns
// (filepath.Match syntax, applied to base names). A missing root is fatal.
func NewScanner(root string, patterns []string, logger *slog.Logger) (*Scanner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	return &Scanner{
		root:     root,
		patterns: patterns,
		logger:   logger,
	}, nil
}

// Root returns the scan root.
func (s *Scanner) Root() string { return s.root }

// ScanNewerThan walks the tree and returns the paths (relative to the root)
// of matching files strictly newer than the cutoff by filesystem
// modification time. Unreadable subdirectories are skipped with a warning;
// the scan continues.
func (s *Scanner) ScanNewerThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	var found []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil {
			s.logger.Warn("skipping unreadable path", slog.String("path", path), slog.Any("error", err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !s.matches(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.logger.Warn("skipping unstattable file", slog.String("path", path), slog.Any("error", err))
			return nil
		}
		if !info.ModTime().After(cutoff) {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}
		found = append(found, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.root, err)
	}

	return found, nil
}

func (s *Scanner) matches(name string) bool {
	for _, pattern := range s.patterns {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
