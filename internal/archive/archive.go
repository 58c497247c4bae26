// Package archive creates gzip-compressed tar archives of directories.
// Archives are rooted at the directory's base name so extraction reproduces
// the original folder. File timestamps are embedded; identical contents do
// not guarantee identical archives.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cloudlift/cloudlift/internal/errors"
)

// Create archives the directory at dir into <destDir>/<base(dir)>.tar.gz
// and returns the archive path. Entries are named <base(dir)>/<relative>.
// Any unreadable file aborts the archive.
func Create(ctx context.Context, dir, destDir string) (string, error) {
	base := filepath.Base(dir)
	archivePath := filepath.Join(destDir, base+".tar.gz")

	out, err := os.Create(archivePath)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrInput,
			"Couldn't create the archive file",
			"Check that the scratch directory is writable.")
	}
	defer func() { _ = out.Close() }()

	gzw := gzip.NewWriter(out)
	tw := tar.NewWriter(gzw)

	walkErr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		var link string
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}

		// Root every entry at the directory's base name.
		if rel == "." {
			hdr.Name = base + "/"
		} else {
			hdr.Name = filepath.ToSlash(filepath.Join(base, rel))
			if info.IsDir() {
				hdr.Name += "/"
			}
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		_, err = io.Copy(tw, f)
		return err
	})

	if walkErr != nil {
		_ = tw.Close()
		_ = gzw.Close()
		return "", errors.WrapWithCode(walkErr, errors.ErrInput,
			"Couldn't archive "+dir,
			"Check that every file in the directory is readable.")
	}

	if err := tw.Close(); err != nil {
		return "", errors.Wrap(err, "Couldn't finalize the archive")
	}
	if err := gzw.Close(); err != nil {
		return "", errors.Wrap(err, "Couldn't finalize the archive")
	}
	if err := out.Close(); err != nil {
		return "", errors.Wrap(err, "Couldn't finalize the archive")
	}

	return archivePath, nil
}
