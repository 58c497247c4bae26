package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cloudlift/cloudlift/internal/archive"
	"github.com/cloudlift/cloudlift/internal/config"
	"github.com/cloudlift/cloudlift/internal/exec"
	"github.com/cloudlift/cloudlift/internal/logger"
	"github.com/cloudlift/cloudlift/internal/rclone"
	"github.com/cloudlift/cloudlift/internal/remote"
	"github.com/cloudlift/cloudlift/internal/request"
	"github.com/cloudlift/cloudlift/internal/scratch"
	"github.com/cloudlift/cloudlift/internal/ui"
	"github.com/cloudlift/cloudlift/internal/upload"
)

// uploadOptions carries the root command's flags into the workflow.
type uploadOptions struct {
	File       string
	Dir        string
	RemoteDir  string
	RemoteName string
	KeepRclone bool
	NoCleanup  bool
	ConfigPath string
}

// runUpload is the whole run: resolve input, archive if needed, provision
// rclone, verify credentials, transfer. The scratch directory is acquired
// up front and its release is deferred so every exit path cleans up.
func runUpload(ctx context.Context, opts uploadOptions) error {
	log := logger.Default()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	// Flags win over the config file, which wins over built-in defaults.
	remoteName := opts.RemoteName
	if remoteName == "" {
		remoteName = cfg.RemoteName
	}
	remoteDir := opts.RemoteDir
	if remoteDir == "" {
		remoteDir = cfg.RemoteDir
	}
	keep := opts.KeepRclone || cfg.KeepRclone
	retain := opts.NoCleanup || cfg.NoCleanup

	req, err := request.Resolve(request.Options{
		File:         opts.File,
		Dir:          opts.Dir,
		RemoteFolder: remoteDir,
		RemoteName:   remoteName,
		Interactive:  request.IsInteractive(),
	})
	if err != nil {
		return err
	}

	sc, err := scratch.New(log)
	if err != nil {
		return err
	}
	if retain {
		sc.Retain()
	}
	defer func() { _ = sc.Release() }()

	phases := ui.NewPhaseDisplay(os.Stdout)

	// Phase 1: archive (directories only)
	payload := req.SourcePath
	if req.Kind == request.Directory {
		name := filepath.Base(req.SourcePath)
		spinner := ui.NewSpinner("Archiving " + name)
		spinner.Start()
		start := time.Now()

		payload, err = archive.Create(ctx, req.SourcePath, sc.Path())
		if err != nil {
			spinner.Fail()
			return err
		}

		spinner.Stop()
		phases.RenderSuccess(
			fmt.Sprintf("Archived %s (%s)", filepath.Base(payload), upload.Size(payload)),
			time.Since(start))
	} else {
		phases.RenderSkipped("Archive", "single file")
	}

	// Phase 2: provision rclone
	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}

	inst, err := provisionTool(ctx, dataDir, sc.Path(), keep, phases, log)
	if err != nil {
		return err
	}

	tool := rclone.New(inst.BinaryPath, inst.ConfigPath, exec.NewLocal(), log)

	// Phase 3: credentials
	mgr := remote.NewManager(tool, log, os.Stdout)
	mgr.MaxAttempts = cfg.ReconnectAttempts
	if err := mgr.Ensure(ctx, req.RemoteName); err != nil {
		return err
	}

	// Phase 4: transfer
	label := "Uploading " + filepath.Base(payload)
	var display *ui.TransferDisplay
	var progress io.Writer = os.Stdout

	if request.IsInteractive() && ui.ColorEnabled() {
		display = ui.NewTransferDisplay(label)
		display.Start()
		progress = display.Writer()
	} else {
		phases.Divider()
	}

	start := time.Now()
	location, err := upload.Run(ctx, payload, upload.Options{
		Tool:         tool,
		RemoteName:   req.RemoteName,
		RemoteFolder: req.RemoteFolder,
		Progress:     progress,
		Log:          log,
	})
	if display != nil {
		display.Finish()
	}
	if err != nil {
		phases.RenderFailed("Upload failed", time.Since(start))
		return err
	}

	phases.RenderSuccess("Uploaded to "+location, time.Since(start))
	return nil
}

// provisionTool returns a usable rclone installation, preferring the
// persistent cache over a fresh download.
func provisionTool(ctx context.Context, dataDir, scratchDir string, keep bool, phases *ui.PhaseDisplay, log logger.Logger) (rclone.Installation, error) {
	if bin, ok := rclone.Locate(dataDir); ok {
		phases.RenderSkipped("Download rclone", "cached")
		return rclone.Installation{
			BinaryPath: bin,
			ConfigPath: filepath.Join(dataDir, "rclone.conf"),
			Persistent: true,
		}, nil
	}

	spinner := ui.NewSpinner("Downloading rclone")
	spinner.Start()
	start := time.Now()

	inst, err := rclone.Provision(ctx, nil, dataDir, scratchDir, keep, log)
	if err != nil {
		spinner.Fail()
		return rclone.Installation{}, err
	}

	spinner.Stop()
	phases.RenderSuccess("Downloaded rclone", time.Since(start))
	return inst, nil
}
