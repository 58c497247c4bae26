package rclone

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cloudlift/cloudlift/internal/errors"
	"github.com/cloudlift/cloudlift/internal/logger"
)

// downloadURLTemplate is rclone's "current release" package for a platform.
const downloadURLTemplate = "https://downloads.rclone.org/rclone-current-%s-%s.zip"

// BinaryName is the rclone executable name inside the release package.
const BinaryName = "rclone"

// Installation describes a usable rclone binary and the config file it
// should operate on.
type Installation struct {
	BinaryPath string
	ConfigPath string
	// Persistent is true when the binary lives in the data dir rather than
	// the scratch area.
	Persistent bool
}

// ReleasePlatform maps a GOOS/GOARCH pair onto rclone's release naming
// scheme. Only amd64, arm64, and arm are published for the platforms we
// support; anything else is a fatal provisioning error.
func ReleasePlatform(goos, goarch string) (osName, arch string, err error) {
	switch goarch {
	case "amd64", "arm64", "arm":
		arch = goarch
	default:
		return "", "", errors.New(errors.ErrProvision,
			fmt.Sprintf("Unsupported architecture: %s", goarch),
			"rclone packages are available for amd64, arm64, and arm only.")
	}

	switch goos {
	case "linux":
		osName = "linux"
	case "darwin":
		osName = "osx"
	default:
		return "", "", errors.New(errors.ErrProvision,
			fmt.Sprintf("Unsupported operating system: %s", goos),
			"cloudlift can provision rclone on Linux and macOS only.")
	}

	return osName, arch, nil
}

// Locate checks the persistent data directory for an existing installation.
// Returns the binary path and true when a usable binary is already cached.
func Locate(dataDir string) (string, bool) {
	bin := filepath.Join(dataDir, "rclone", BinaryName)

	info, err := os.Stat(bin)
	if err != nil || info.IsDir() {
		return "", false
	}

	if info.Mode().Perm()&0o111 == 0 {
		// Cached but lost its exec bit somewhere; restore it.
		if err := os.Chmod(bin, info.Mode().Perm()|0o755); err != nil {
			return "", false
		}
	}

	return bin, true
}

// Install downloads the platform-appropriate rclone release and extracts
// the binary into <targetDir>/rclone/rclone. The architecture check runs
// before any network I/O, so an unsupported platform never leaves a
// partial download behind.
func Install(ctx context.Context, client *http.Client, targetDir string, log logger.Logger) (string, error) {
	if log == nil {
		log = logger.Noop()
	}
	if client == nil {
		client = http.DefaultClient
	}

	osName, arch, err := ReleasePlatform(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf(downloadURLTemplate, osName, arch)
	log.Info("downloading rclone from %s", url)

	zipPath, err := download(ctx, client, url)
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(zipPath) }()

	binDir := filepath.Join(targetDir, "rclone")
	bin, err := extractBinary(zipPath, binDir)
	if err != nil {
		return "", err
	}

	log.Info("rclone installed at %s", bin)

	return bin, nil
}

// download fetches url into a temp file and returns its path.
func download(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrProvision,
			"Couldn't build the download request",
			"This shouldn't happen - please report this bug!")
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrProvision,
			"Couldn't download rclone",
			"Check your network connection and try again.")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", errors.New(errors.ErrProvision,
			fmt.Sprintf("rclone download failed with status %d", resp.StatusCode),
			"Check https://downloads.rclone.org is reachable from this machine.")
	}

	tmp, err := os.CreateTemp("", "cloudlift-rclone-*.zip")
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrProvision,
			"Couldn't create a temporary file for the download",
			"Check that the system temp directory is writable.")
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", errors.WrapWithCode(err, errors.ErrProvision,
			"rclone download was interrupted",
			"Check your network connection and try again.")
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", errors.Wrap(err, "Couldn't finish writing the download")
	}

	return tmp.Name(), nil
}

// extractBinary pulls the rclone executable out of the release zip and
// writes it to <binDir>/rclone with the exec bit set.
func extractBinary(zipPath, binDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrProvision,
			"Couldn't open the rclone release package",
			"The download may be corrupt; remove it and retry.")
	}
	defer func() { _ = r.Close() }()

	var member *zip.File
	for _, f := range r.File {
		if f.Mode().IsRegular() && filepath.Base(f.Name) == BinaryName &&
			!strings.HasSuffix(f.Name, "/") {
			member = f
			break
		}
	}
	if member == nil {
		return "", errors.New(errors.ErrProvision,
			"The rclone release package has no rclone binary inside",
			"The release layout may have changed; please report this bug!")
	}

	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrProvision,
			"Couldn't create the rclone install directory",
			"Check permissions on "+filepath.Dir(binDir))
	}

	src, err := member.Open()
	if err != nil {
		return "", errors.Wrap(err, "Couldn't read the rclone binary from the package")
	}
	defer func() { _ = src.Close() }()

	bin := filepath.Join(binDir, BinaryName)
	dst, err := os.OpenFile(bin, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrProvision,
			"Couldn't write the rclone binary",
			"Check permissions on "+binDir)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(bin)
		return "", errors.Wrap(err, "Couldn't extract the rclone binary")
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(bin)
		return "", errors.Wrap(err, "Couldn't extract the rclone binary")
	}

	return bin, nil
}

// Provision returns a usable installation: the cached binary when present,
// otherwise a fresh download into the data dir (persist) or the scratch
// area. The config file follows the binary's persistence so credentials
// never land in the cache unless requested.
func Provision(ctx context.Context, client *http.Client, dataDir, scratchDir string, persist bool, log logger.Logger) (Installation, error) {
	if bin, ok := Locate(dataDir); ok {
		return Installation{
			BinaryPath: bin,
			ConfigPath: filepath.Join(dataDir, "rclone.conf"),
			Persistent: true,
		}, nil
	}

	target := scratchDir
	if persist {
		target = dataDir
	}

	bin, err := Install(ctx, client, target, log)
	if err != nil {
		return Installation{}, err
	}

	return Installation{
		BinaryPath: bin,
		ConfigPath: filepath.Join(target, "rclone.conf"),
		Persistent: persist,
	}, nil
}

// Remove deletes a persistent installation directory. Missing directories
// are not an error so `cloudlift clean` stays idempotent.
func Remove(dataDir string) error {
	if err := os.RemoveAll(dataDir); err != nil {
		return errors.WrapWithCode(err, errors.ErrProvision,
			"Couldn't remove "+dataDir,
			"Check permissions and remove it manually if needed.")
	}
	return nil
}
