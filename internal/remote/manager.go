// Package remote manages rclone remote-profile authorization. It walks a
// small state machine: create the profile if missing, probe it by listing
// the destination root, and run a bounded sequence of reconnect attempts
// when the probe output matches a known failure signature.
package remote

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudlift/cloudlift/internal/logger"
	"github.com/cloudlift/cloudlift/internal/rclone"
)

// DefaultReconnectAttempts bounds the token-refresh sequence.
const DefaultReconnectAttempts = 3

// ProfileTool is the slice of the rclone surface the manager needs.
// *rclone.Tool satisfies it; tests substitute a scripted fake.
type ProfileTool interface {
	HasRemote(ctx context.Context, name string) (bool, error)
	CreateRemote(ctx context.Context, name, provider string) error
	Reconnect(ctx context.Context, name string, headless bool) error
	ListDir(ctx context.Context, name string) (output string, exitCode int, err error)
}

// Manager ensures a named remote profile exists and its token is usable.
type Manager struct {
	tool ProfileTool
	log  logger.Logger
	out  io.Writer

	// MaxAttempts is the total number of reconnect attempts. The first
	// uses rclone's default auto-config; later ones disable browser-based
	// config for headless sessions.
	MaxAttempts int

	// remoteSession is resolved once at construction so tests can force it.
	remoteSession bool
}

// NewManager creates a Manager writing user-facing hints to out.
func NewManager(tool ProfileTool, log logger.Logger, out io.Writer) *Manager {
	if log == nil {
		log = logger.Noop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Manager{
		tool:          tool,
		log:           log,
		out:           out,
		MaxAttempts:   DefaultReconnectAttempts,
		remoteSession: IsRemoteSession(),
	}
}

// SetRemoteSession overrides SSH-session detection. Exported for tests.
func (m *Manager) SetRemoteSession(v bool) {
	m.remoteSession = v
}

// Ensure walks the authorization state machine for the named profile.
//
// A profile that still probes invalid after every reconnect attempt does
// NOT fail the run: the copy operation reports the real error. This
// mirrors the original tool's behavior and is a documented soft spot.
func (m *Manager) Ensure(ctx context.Context, name string) error {
	exists, err := m.tool.HasRemote(ctx, name)
	if err != nil {
		return err
	}

	if !exists {
		m.log.Info("remote %q not configured yet", name)
		if m.remoteSession {
			fmt.Fprintln(m.out, PortForwardHint)
		}
		if err := m.tool.CreateRemote(ctx, name, rclone.ProviderDrive); err != nil {
			return err
		}
	}

	if m.probe(ctx, name) == VerdictValid {
		return nil
	}

	for attempt := 1; attempt <= m.MaxAttempts; attempt++ {
		// First attempt keeps rclone's automatic browser config; later
		// attempts disable it so headless sessions get a plain URL.
		headless := attempt > 1

		m.log.Info("token invalid, reconnecting %q (attempt %d/%d)", name, attempt, m.MaxAttempts)
		if m.remoteSession && attempt == 1 {
			fmt.Fprintln(m.out, PortForwardHint)
		}

		if err := m.tool.Reconnect(ctx, name, headless); err != nil {
			m.log.Warn("reconnect attempt %d failed: %v", attempt, err)
			continue
		}

		if m.probe(ctx, name) == VerdictValid {
			return nil
		}
	}

	m.log.Warn("remote %q still unverified after %d reconnect attempts; proceeding and letting the transfer report the error", name, m.MaxAttempts)
	return nil
}

// probe lists the destination root and classifies the output.
func (m *Manager) probe(ctx context.Context, name string) Verdict {
	out, code, err := m.tool.ListDir(ctx, name)
	if err != nil {
		m.log.Warn("probe for %q could not run: %v", name, err)
		return VerdictInvalidToken
	}

	verdict := Classify(out)
	m.log.Debug("probe for %q: exit=%d verdict=%s", name, code, verdict)
	return verdict
}
