package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Watermark persists a job's "last successful sync" as the modification
// time of a marker file. The cutoff is read at job start and advanced only
// when a run commits; a failed or cancelled run leaves the marker alone so
// the next run reconsiders the same files.
type Watermark struct {
	path string
}

// NewWatermark creates a watermark marker named after the job, e.g.
// {dir}/cable-tests.touch.
func NewWatermark(dir, job string) Watermark {
	return Watermark{path: filepath.Join(dir, job+".touch")}
}

// Path returns the marker file path.
func (w Watermark) Path() string { return w.path }

// Cutoff returns the marker's modification time. A missing marker means
// nothing has been ingested yet; the zero time is returned and every file
// in the tree is a candidate.
func (w Watermark) Cutoff() (time.Time, error) {
	info, err := os.Stat(w.path)
	if os.IsNotExist(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("stat watermark %s: %w", w.path, err)
	}
	return info.ModTime(), nil
}

// Advance moves the marker to now, creating it if absent (touch semantics).
func (w Watermark) Advance(now time.Time) error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("touch watermark %s: %w", w.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("touch watermark %s: %w", w.path, err)
	}
	if err := os.Chtimes(w.path, now, now); err != nil {
		return fmt.Errorf("advance watermark %s: %w", w.path, err)
	}
	return nil
}
