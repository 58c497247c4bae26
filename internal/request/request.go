// Package request resolves what the user wants to upload. Flags come
// first; with neither --file nor --dir on an interactive terminal, the
// user is prompted for a path that gets classified by a filesystem probe.
package request

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cloudlift/cloudlift/internal/errors"
)

// Defaults for the destination when not supplied.
const (
	DefaultRemoteFolder = "transfer"
	DefaultRemoteName   = "gdrive"
)

// Kind classifies the upload source.
type Kind int

const (
	// File uploads the path as-is.
	File Kind = iota + 1
	// Directory archives the path before upload.
	Directory
)

// String returns a readable kind name.
func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Directory:
		return "directory"
	default:
		return "unknown"
	}
}

// UploadRequest is the validated, immutable description of one upload.
type UploadRequest struct {
	// SourcePath is absolute and symlink-resolved.
	SourcePath   string
	Kind         Kind
	RemoteFolder string
	RemoteName   string
}

// Options carries the raw CLI inputs into Resolve.
type Options struct {
	File         string
	Dir          string
	RemoteFolder string
	RemoteName   string
	// Interactive permits prompting when neither path flag was given.
	Interactive bool
}

// Resolve validates the inputs and produces an UploadRequest.
func Resolve(opts Options) (*UploadRequest, error) {
	if opts.File != "" && opts.Dir != "" {
		return nil, errors.New(errors.ErrUsage,
			"--file and --dir cannot be used together",
			"Pick the one that matches what you want to upload.")
	}

	req := &UploadRequest{
		RemoteFolder: opts.RemoteFolder,
		RemoteName:   opts.RemoteName,
	}
	if req.RemoteFolder == "" {
		req.RemoteFolder = DefaultRemoteFolder
	}
	if req.RemoteName == "" {
		req.RemoteName = DefaultRemoteName
	}

	switch {
	case opts.File != "":
		path, info, err := canonicalize(opts.File)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, errors.New(errors.ErrInput,
				opts.File+" is a directory",
				"Use --dir to upload a directory.")
		}
		req.SourcePath = path
		req.Kind = File

	case opts.Dir != "":
		path, info, err := canonicalize(opts.Dir)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, errors.New(errors.ErrInput,
				opts.Dir+" is not a directory",
				"Use --file to upload a single file.")
		}
		req.SourcePath = path
		req.Kind = Directory

	default:
		if !opts.Interactive {
			return nil, errors.New(errors.ErrInput,
				"Nothing to upload",
				"Pass --file or --dir, or run from an interactive terminal.")
		}

		answers, err := promptForSource(req.RemoteFolder)
		if err != nil {
			return nil, err
		}

		path, info, err := canonicalize(answers.Path)
		if err != nil {
			return nil, err
		}
		req.SourcePath = path
		if info.IsDir() {
			req.Kind = Directory
		} else {
			req.Kind = File
		}
		if answers.RemoteFolder != "" {
			req.RemoteFolder = answers.RemoteFolder
		}
	}

	return req, nil
}

// canonicalize resolves a path to its absolute, symlink-free form and
// stats it.
func canonicalize(path string) (string, os.FileInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, errors.WrapWithCode(err, errors.ErrInput,
			"Couldn't resolve "+path,
			"Check the path and try again.")
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, errors.New(errors.ErrInput,
				fmt.Sprintf("%s doesn't exist", path),
				"Check the path and try again.")
		}
		return "", nil, errors.WrapWithCode(err, errors.ErrInput,
			"Couldn't resolve "+path,
			"Check the path and try again.")
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", nil, errors.WrapWithCode(err, errors.ErrInput,
			"Couldn't read "+resolved,
			"Check file permissions.")
	}

	return resolved, info, nil
}
