// Package report turns test-station report trees into structured records:
// path grammar parsers, the directory scanner, and the watermark tracker.
// Parsing is pure; nothing in this package touches the database.
package report

import "fmt"

// RejectionError reports a path or file that does not conform to its
// report grammar. Malformed input is routine — stations misname files all
// the time — so rejections are logged and skipped, never fatal.
type RejectionError struct {
	// Path is the offending input, relative to the scan root.
	Path string
	// Reason says what did not match.
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("reject %s: %s", e.Path, e.Reason)
}

func reject(path, format string, args ...any) error {
	return &RejectionError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
