package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree creates a small directory tree to archive.
func buildTree(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "photos")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vacation"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.txt"), []byte("index"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "vacation", "beach.jpg"), []byte("jpegdata"), 0o644))

	return root
}

// readArchive extracts entry names and file contents from a tar.gz.
func readArchive(t *testing.T, path string) (names []string, contents map[string]string) {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	gzr, err := gzip.NewReader(f)
	require.NoError(t, err)

	tr := tar.NewReader(gzr)
	contents = make(map[string]string)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		names = append(names, hdr.Name)
		if hdr.Typeflag == tar.TypeReg {
			data, err := io.ReadAll(tr)
			require.NoError(t, err)
			contents[hdr.Name] = string(data)
		}
	}

	return names, contents
}

func TestCreateNamesArchiveAfterDirectory(t *testing.T) {
	root := buildTree(t)
	dest := t.TempDir()

	path, err := Create(context.Background(), root, dest)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dest, "photos.tar.gz"), path)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestCreateRootsEntriesAtBaseName(t *testing.T) {
	root := buildTree(t)
	dest := t.TempDir()

	path, err := Create(context.Background(), root, dest)
	require.NoError(t, err)

	names, contents := readArchive(t, path)

	// Every entry lives under the original folder name, so extraction
	// reproduces it.
	for _, name := range names {
		assert.Truef(t, strings.HasPrefix(name, "photos/"),
			"entry %q should be rooted at photos/", name)
	}

	assert.Contains(t, names, "photos/")
	assert.Contains(t, names, "photos/vacation/")
	assert.Equal(t, "index", contents["photos/index.txt"])
	assert.Equal(t, "jpegdata", contents["photos/vacation/beach.jpg"])
}

func TestCreatePreservesSymlinks(t *testing.T) {
	root := buildTree(t)
	require.NoError(t, os.Symlink("index.txt", filepath.Join(root, "latest")))
	dest := t.TempDir()

	path, err := Create(context.Background(), root, dest)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	gzr, err := gzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(gzr)

	found := false
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if hdr.Name == "photos/latest" {
			found = true
			assert.Equal(t, byte(tar.TypeSymlink), hdr.Typeflag)
			assert.Equal(t, "index.txt", hdr.Linkname)
		}
	}
	assert.True(t, found, "symlink entry should be present")
}

func TestCreateFailsOnMissingDirectory(t *testing.T) {
	dest := t.TempDir()

	_, err := Create(context.Background(), filepath.Join(dest, "nope"), dest)
	assert.Error(t, err)
}

func TestCreateRespectsCancellation(t *testing.T) {
	root := buildTree(t)
	dest := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Create(ctx, root, dest)
	assert.Error(t, err)
}
