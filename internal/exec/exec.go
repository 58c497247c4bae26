// Package exec runs local child processes for cloudlift.
// Commands are executed argv-style (no shell) so that user-supplied paths
// and remote names are never interpreted by a shell.
package exec

import (
	"context"
	"io"
	"os"
	osexec "os/exec"

	"github.com/cloudlift/cloudlift/internal/errors"
)

// Runner executes an external binary. The three variants differ only in
// where the child's stdio goes; all of them block until the child exits
// and report the exit code separately from execution errors.
type Runner interface {
	// Run streams stdout/stderr to the provided writers.
	Run(ctx context.Context, bin string, args []string, stdout, stderr io.Writer) (exitCode int, err error)

	// RunCapture collects combined stdout+stderr and returns it.
	RunCapture(ctx context.Context, bin string, args []string) (output string, exitCode int, err error)

	// RunInteractive attaches the child to the current process stdio.
	// Used for flows that prompt the user directly (rclone config).
	RunInteractive(ctx context.Context, bin string, args []string) (exitCode int, err error)
}

// Local runs commands on the local machine.
type Local struct{}

// NewLocal creates a local runner.
func NewLocal() *Local {
	return &Local{}
}

// Run executes bin with args, streaming output to the provided writers.
func (l *Local) Run(ctx context.Context, bin string, args []string, stdout, stderr io.Writer) (int, error) {
	cmd := osexec.CommandContext(ctx, bin, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return wait(cmd.Run())
}

// RunCapture executes bin with args and returns combined stdout+stderr.
// rclone reports authorization failures on stderr, so probe classification
// needs both streams in one buffer.
func (l *Local) RunCapture(ctx context.Context, bin string, args []string) (string, int, error) {
	cmd := osexec.CommandContext(ctx, bin, args...)
	out, runErr := cmd.CombinedOutput()
	code, err := wait(runErr)
	return string(out), code, err
}

// RunInteractive executes bin with args attached to the current terminal.
func (l *Local) RunInteractive(ctx context.Context, bin string, args []string) (int, error) {
	cmd := osexec.CommandContext(ctx, bin, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return wait(cmd.Run())
}

// wait converts a Run/Wait error into (exitCode, err). A non-zero exit is
// not an execution error; callers decide what the exit code means.
func wait(runErr error) (int, error) {
	if runErr == nil {
		return 0, nil
	}
	if exitErr, ok := runErr.(*osexec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return -1, errors.WrapWithCode(runErr, errors.ErrExec,
		"Couldn't run the command",
		"Make sure the binary exists and is executable.")
}
