package request

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cloudlift/cloudlift/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(file, []byte("data"), 0o644))

	req, err := Resolve(Options{File: file})
	require.NoError(t, err)

	assert.Equal(t, File, req.Kind)
	assert.True(t, filepath.IsAbs(req.SourcePath))
	assert.Equal(t, "report.pdf", filepath.Base(req.SourcePath))
	assert.Equal(t, DefaultRemoteFolder, req.RemoteFolder)
	assert.Equal(t, DefaultRemoteName, req.RemoteName)
}

func TestResolveDirectory(t *testing.T) {
	dir := t.TempDir()

	req, err := Resolve(Options{Dir: dir, RemoteFolder: "backups", RemoteName: "mydrive"})
	require.NoError(t, err)

	assert.Equal(t, Directory, req.Kind)
	assert.True(t, filepath.IsAbs(req.SourcePath))
	assert.Equal(t, "backups", req.RemoteFolder)
	assert.Equal(t, "mydrive", req.RemoteName)
}

func TestResolveRelativePathIsCanonicalized(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	req, err := Resolve(Options{File: "notes.txt"})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(req.SourcePath))
}

func TestResolveErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name     string
		opts     Options
		wantCode string
	}{
		{
			name:     "both file and dir",
			opts:     Options{File: file, Dir: dir},
			wantCode: errors.ErrUsage,
		},
		{
			name:     "neither in non-interactive context",
			opts:     Options{Interactive: false},
			wantCode: errors.ErrInput,
		},
		{
			name:     "file does not exist",
			opts:     Options{File: filepath.Join(dir, "missing.txt")},
			wantCode: errors.ErrInput,
		},
		{
			name:     "file flag points at a directory",
			opts:     Options{File: dir},
			wantCode: errors.ErrInput,
		},
		{
			name:     "dir flag points at a file",
			opts:     Options{Dir: file},
			wantCode: errors.ErrInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Resolve(tt.opts)

			require.Error(t, err)
			assert.Nil(t, req)
			assert.True(t, errors.IsCode(err, tt.wantCode),
				"expected code %s, got: %v", tt.wantCode, err)
		})
	}
}

func TestResolveSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.Symlink(target, link))

	req, err := Resolve(Options{File: link})
	require.NoError(t, err)

	// Canonicalization resolves the symlink to its target.
	resolved, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, resolved, req.SourcePath)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "file", File.String())
	assert.Equal(t, "directory", Directory.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, filepath.Join(home, "docs"), expandHome("~/docs"))
	assert.Equal(t, "/tmp/x", expandHome("/tmp/x"))
}
