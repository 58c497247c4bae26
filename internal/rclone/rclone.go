// Package rclone provisions the rclone binary and wraps the handful of
// subcommands cloudlift drives: listremotes, config create, config
// reconnect, lsd, and copy. rclone is a black box; everything cloudlift
// knows about it comes from exit codes and output text.
package rclone

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudlift/cloudlift/internal/errors"
	"github.com/cloudlift/cloudlift/internal/exec"
	"github.com/cloudlift/cloudlift/internal/logger"
)

// ProviderDrive is the rclone storage backend used for profile creation.
const ProviderDrive = "drive"

// Tool drives a specific rclone binary against a specific config file.
type Tool struct {
	bin        string
	configPath string
	runner     exec.Runner
	log        logger.Logger
}

// New creates a Tool. configPath may point at a file that does not exist
// yet; rclone creates it on first profile creation.
func New(bin, configPath string, runner exec.Runner, log logger.Logger) *Tool {
	if runner == nil {
		runner = exec.NewLocal()
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Tool{bin: bin, configPath: configPath, runner: runner, log: log}
}

// BinaryPath returns the rclone binary this tool drives.
func (t *Tool) BinaryPath() string {
	return t.bin
}

// ConfigPath returns the config file this tool operates on.
func (t *Tool) ConfigPath() string {
	return t.configPath
}

// args prepends the --config flag to subcommand arguments.
func (t *Tool) args(sub ...string) []string {
	out := make([]string, 0, len(sub)+2)
	if t.configPath != "" {
		out = append(out, "--config", t.configPath)
	}
	return append(out, sub...)
}

// Version returns the first line of `rclone version`.
func (t *Tool) Version(ctx context.Context) (string, error) {
	out, code, err := t.runner.RunCapture(ctx, t.bin, t.args("version"))
	if err != nil {
		return "", err
	}
	if code != 0 {
		return "", errors.New(errors.ErrExec,
			"rclone version check failed",
			"Run 'rclone version' manually to check the installation.")
	}

	lines := strings.Split(out, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return "", errors.New(errors.ErrExec,
			"Couldn't parse the rclone version output",
			"Run 'rclone version' manually to check the installation.")
	}
	return strings.TrimSpace(lines[0]), nil
}

// ListRemotes returns the configured remote profile names.
// `rclone listremotes` prints one "name:" per line.
func (t *Tool) ListRemotes(ctx context.Context) ([]string, error) {
	out, code, err := t.runner.RunCapture(ctx, t.bin, t.args("listremotes"))
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, errors.New(errors.ErrAuth,
			"Couldn't list rclone remotes",
			"The config file may be corrupt: "+t.configPath)
	}

	var remotes []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if name, ok := strings.CutSuffix(line, ":"); ok && name != "" {
			remotes = append(remotes, name)
		}
	}
	return remotes, nil
}

// HasRemote reports whether a profile with the given name exists.
func (t *Tool) HasRemote(ctx context.Context, name string) (bool, error) {
	remotes, err := t.ListRemotes(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range remotes {
		if r == name {
			return true, nil
		}
	}
	return false, nil
}

// CreateRemote runs rclone's interactive profile-creation flow for the
// given provider, attached to the user's terminal. On a desktop session
// this opens a browser for OAuth.
func (t *Tool) CreateRemote(ctx context.Context, name, provider string) error {
	t.log.Debug("creating remote %q (%s)", name, provider)

	code, err := t.runner.RunInteractive(ctx, t.bin,
		t.args("config", "create", name, provider, "scope", "drive"))
	if err != nil {
		return err
	}
	if code != 0 {
		return errors.New(errors.ErrAuth,
			fmt.Sprintf("rclone couldn't create the %q remote", name),
			"Re-run and complete the authorization flow, or create the remote with 'rclone config'.")
	}
	return nil
}

// Reconnect refreshes the OAuth token for a profile. With headless set,
// automatic browser-based config is disabled (config_is_local=false) so
// rclone prints a URL to authorize on another machine instead.
func (t *Tool) Reconnect(ctx context.Context, name string, headless bool) error {
	sub := []string{"config", "reconnect", name + ":"}
	if headless {
		sub = append(sub, "config_is_local=false")
	}

	t.log.Debug("reconnecting remote %q (headless=%v)", name, headless)

	code, err := t.runner.RunInteractive(ctx, t.bin, t.args(sub...))
	if err != nil {
		return err
	}
	if code != 0 {
		return errors.New(errors.ErrAuth,
			fmt.Sprintf("rclone couldn't reconnect the %q remote", name),
			"Complete the authorization flow when prompted.")
	}
	return nil
}

// ListDir probes the destination root by listing it. The combined output
// is returned verbatim for failure-signature classification; a non-zero
// exit is not an error here because the probe exists to be classified.
func (t *Tool) ListDir(ctx context.Context, name string) (output string, exitCode int, err error) {
	return t.runner.RunCapture(ctx, t.bin, t.args("lsd", name+":"))
}

// Copy transfers payload to <remote>:<folder>/, streaming rclone's progress
// output to the given writer. A non-zero exit is a fatal transfer failure.
func (t *Tool) Copy(ctx context.Context, payload, remote, folder string, progress io.Writer) error {
	dest := fmt.Sprintf("%s:%s", remote, folder)

	code, err := t.runner.Run(ctx, t.bin,
		t.args("copy", "--progress", payload, dest), progress, progress)
	if err != nil {
		return err
	}
	if code != 0 {
		return errors.New(errors.ErrTransfer,
			fmt.Sprintf("rclone copy to %s failed with exit code %d", dest, code),
			"The rclone output above has the underlying cause.")
	}
	return nil
}
