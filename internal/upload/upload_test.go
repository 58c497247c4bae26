package upload

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cloudlift/cloudlift/internal/errors"
	"github.com/cloudlift/cloudlift/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCopier struct {
	err error

	payload string
	remote  string
	folder  string
	wrote   string
}

func (f *fakeCopier) Copy(_ context.Context, payload, remote, folder string, progress io.Writer) error {
	f.payload = payload
	f.remote = remote
	f.folder = folder
	if f.err == nil {
		_, _ = progress.Write([]byte("Transferred: 100%\n"))
		f.wrote = "yes"
	}
	return f.err
}

func writePayload(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photos.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("payload bytes"), 0o644))
	return path
}

func TestRunReturnsRemoteLocation(t *testing.T) {
	payload := writePayload(t)
	copier := &fakeCopier{}
	var progress bytes.Buffer

	location, err := Run(context.Background(), payload, Options{
		Tool:         copier,
		RemoteName:   "gdrive",
		RemoteFolder: "transfer",
		Progress:     &progress,
		Log:          logger.Noop(),
	})

	require.NoError(t, err)
	assert.Equal(t, "gdrive:transfer/photos.tar.gz", location)
	assert.Equal(t, payload, copier.payload)
	assert.Equal(t, "gdrive", copier.remote)
	assert.Equal(t, "transfer", copier.folder)
	assert.Contains(t, progress.String(), "Transferred")
}

func TestRunMissingPayload(t *testing.T) {
	copier := &fakeCopier{}

	_, err := Run(context.Background(), filepath.Join(t.TempDir(), "gone.tar.gz"), Options{
		Tool:       copier,
		RemoteName: "gdrive",
	})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInput))
	assert.Empty(t, copier.payload, "copy should never start")
}

func TestRunPropagatesCopyFailure(t *testing.T) {
	payload := writePayload(t)
	wantErr := errors.New(errors.ErrTransfer, "upload failed", "")

	_, err := Run(context.Background(), payload, Options{
		Tool:       &fakeCopier{err: wantErr},
		RemoteName: "gdrive",
	})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTransfer))
}

func TestRunDefaultsAreSafe(t *testing.T) {
	payload := writePayload(t)

	// Nil progress and nil logger must not panic.
	_, err := Run(context.Background(), payload, Options{
		Tool:         &fakeCopier{},
		RemoteName:   "gdrive",
		RemoteFolder: "transfer",
	})
	require.NoError(t, err)
}

func TestSize(t *testing.T) {
	payload := writePayload(t)

	assert.NotEqual(t, "unknown size", Size(payload))
	assert.Equal(t, "unknown size", Size(filepath.Join(t.TempDir(), "missing")))
}
