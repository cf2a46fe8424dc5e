package codecheck

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// externalResult is the outcome of one external syntax-check invocation.
type externalResult struct {
	// ran indicates the checker executed to completion.
	ran bool
	// passed indicates the checker accepted the code. Meaningless when
	// ran is false.
	passed bool
	// diagnostics holds stderr lines when the checker rejected the code.
	diagnostics []string
	// unavailableReason explains why the checker did not run.
	unavailableReason string
}

// runExternalCheck feeds code to an external checker over stdin under a
// bounded timeout. Checker absence, failure to start, and timeout all
// degrade to ran=false; they are never fatal.
func runExternalCheck(ctx context.Context, timeout time.Duration, code string, binary string, args ...string) externalResult {
	if binary == "" {
		return externalResult{unavailableReason: "no checker binary configured"}
	}
	if _, err := exec.LookPath(binary); err != nil {
		return externalResult{unavailableReason: binary + " not found in PATH"}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = strings.NewReader(code)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return externalResult{unavailableReason: binary + " timed out"}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Non-zero exit means the checker rejected the code.
			return externalResult{
				ran:         true,
				passed:      false,
				diagnostics: diagnosticLines(stderr.String()),
			}
		}
		return externalResult{unavailableReason: "failed to run " + binary + ": " + err.Error()}
	}

	return externalResult{ran: true, passed: true}
}

// diagnosticLines extracts the meaningful lines from checker stderr.
func diagnosticLines(stderr string) []string {
	var out []string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		out = []string{"syntax check failed"}
	}
	return out
}
