package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Decider is the confirmation gate between planning and applying. It is
// injected so unattended runs and tests can supply a deterministic answer.
type Decider interface {
	// Confirm shows the prompt and reports whether the operator approved.
	Confirm(prompt string) (bool, error)
}

// AutoApprove proceeds without asking. Used by the --silent flag.
type AutoApprove struct{}

// Confirm always approves.
func (AutoApprove) Confirm(string) (bool, error) { return true, nil }

// PromptDecider asks the operator on the terminal. An empty answer declines:
// a batch job must not write to the database unless someone said yes.
type PromptDecider struct {
	In  io.Reader
	Out io.Writer
}

// Confirm writes the prompt and reads one line. Only "yes" or "y"
// (case-insensitive) approve.
func (d PromptDecider) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(d.Out, "%s (yes/no) [no]: ", prompt)

	line, err := bufio.NewReader(d.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "yes", "y":
		return true, nil
	default:
		return false, nil
	}
}
