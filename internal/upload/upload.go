// Package upload drives the final transfer of the prepared payload to the
// remote destination.
package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cloudlift/cloudlift/internal/errors"
	"github.com/cloudlift/cloudlift/internal/logger"
	"github.com/dustin/go-humanize"
)

// Copier is the slice of the rclone surface the uploader needs.
// *rclone.Tool satisfies it.
type Copier interface {
	Copy(ctx context.Context, payload, remote, folder string, progress io.Writer) error
}

// Options configures a transfer.
type Options struct {
	Tool         Copier
	RemoteName   string
	RemoteFolder string
	// Progress receives rclone's streaming output. Nil discards it.
	Progress io.Writer
	Log      logger.Logger
}

// Run copies payload to <remote>:<folder>/<base(payload)> and returns the
// final remote location. Any non-zero exit from the copy is fatal.
func Run(ctx context.Context, payload string, opts Options) (string, error) {
	log := opts.Log
	if log == nil {
		log = logger.Noop()
	}

	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}

	info, err := os.Stat(payload)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrInput,
			"The upload payload disappeared before the transfer",
			"Check that nothing removed "+payload)
	}

	log.Info("uploading %s (%s) to %s:%s",
		payload, humanize.Bytes(uint64(info.Size())), opts.RemoteName, opts.RemoteFolder)

	if err := opts.Tool.Copy(ctx, payload, opts.RemoteName, opts.RemoteFolder, progress); err != nil {
		return "", err
	}

	location := fmt.Sprintf("%s:%s/%s", opts.RemoteName, opts.RemoteFolder, filepath.Base(payload))
	return location, nil
}

// Size returns the payload size formatted for humans.
func Size(payload string) string {
	info, err := os.Stat(payload)
	if err != nil {
		return "unknown size"
	}
	return humanize.Bytes(uint64(info.Size()))
}
