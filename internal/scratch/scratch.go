// Package scratch manages the per-run ephemeral working directory.
// A Dir holds everything a single run may create on disk: the archive,
// a freshly downloaded rclone binary, and a transient rclone.conf.
// Release removes it recursively and is safe to call from multiple exit
// paths; it runs at most once.
package scratch

import (
	"os"
	"sync"

	"github.com/cloudlift/cloudlift/internal/errors"
	"github.com/cloudlift/cloudlift/internal/logger"
)

// Dir is a uniquely named ephemeral directory owned by one run.
type Dir struct {
	path   string
	retain bool
	once   sync.Once
	log    logger.Logger
}

// New creates a fresh scratch directory under the system temp dir.
func New(log logger.Logger) (*Dir, error) {
	if log == nil {
		log = logger.Noop()
	}

	path, err := os.MkdirTemp("", "cloudlift-")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrInput,
			"Couldn't create a scratch directory",
			"Check that the system temp directory is writable.")
	}

	log.Debug("scratch directory created at %s", path)

	return &Dir{path: path, log: log}, nil
}

// Path returns the scratch directory location.
func (d *Dir) Path() string {
	return d.path
}

// Retain disables removal. The directory and its contents survive the run.
func (d *Dir) Retain() {
	d.retain = true
}

// Retained reports whether Retain was called.
func (d *Dir) Retained() bool {
	return d.retain
}

// Release removes the scratch directory recursively. Subsequent calls are
// no-ops, so it can be deferred at the top of the run and also invoked
// explicitly on failure paths.
func (d *Dir) Release() error {
	var err error

	d.once.Do(func() {
		if d.retain {
			d.log.Info("keeping scratch directory at %s", d.path)
			return
		}
		err = os.RemoveAll(d.path)
		if err == nil {
			d.log.Debug("scratch directory removed")
		}
	})

	return err
}
