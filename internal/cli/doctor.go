package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/cloudlift/cloudlift/internal/config"
	"github.com/cloudlift/cloudlift/internal/exec"
	"github.com/cloudlift/cloudlift/internal/logger"
	"github.com/cloudlift/cloudlift/internal/rclone"
	"github.com/cloudlift/cloudlift/internal/remote"
	"github.com/cloudlift/cloudlift/internal/ui"
	"github.com/spf13/cobra"
)

// doctorCmd diagnoses provisioning and authorization issues.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose rclone and profile issues",
	Long: `Run diagnostic checks without uploading anything.

Checks:
  - platform support for rclone downloads
  - cached rclone binary and its version
  - persisted config and remote profile
  - a live probe of the destination root

Examples:
  cloudlift doctor`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd)
	},
}

func doctorCommand(cmd *cobra.Command) error {
	okStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	warnStyle := lipgloss.NewStyle().Foreground(ui.ColorWarning)
	failStyle := lipgloss.NewStyle().Foreground(ui.ColorError)

	report := func(style lipgloss.Style, symbol, text string) {
		fmt.Printf("%s %s\n", style.Render(symbol), text)
	}

	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}

	// Platform
	if _, _, platErr := rclone.ReleasePlatform(runtime.GOOS, runtime.GOARCH); platErr != nil {
		report(failStyle, ui.SymbolFail, "platform: "+platErr.Error())
		return platErr
	}
	report(okStyle, ui.SymbolSuccess, "platform: rclone downloads available")

	// Cached binary
	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}

	bin, cached := rclone.Locate(dataDir)
	if !cached {
		report(warnStyle, ui.SymbolPending, "rclone: not cached (downloaded fresh on each run; use --keep-rclone to persist)")
		return nil
	}
	report(okStyle, ui.SymbolSuccess, "rclone: cached at "+bin)

	tool := rclone.New(bin, dataDir+"/rclone.conf", exec.NewLocal(), logger.Default())

	version, err := tool.Version(cmd.Context())
	if err != nil {
		report(failStyle, ui.SymbolFail, "rclone: version check failed")
		return err
	}
	report(okStyle, ui.SymbolSuccess, "rclone: "+version)

	// Persisted config + profile
	if _, statErr := os.Stat(tool.ConfigPath()); statErr != nil {
		report(warnStyle, ui.SymbolPending, "config: no persisted rclone.conf (profiles are created on first upload)")
		return nil
	}

	has, err := tool.HasRemote(cmd.Context(), cfg.RemoteName)
	if err != nil {
		return err
	}
	if !has {
		report(warnStyle, ui.SymbolPending, fmt.Sprintf("profile: %q not configured yet", cfg.RemoteName))
		return nil
	}
	report(okStyle, ui.SymbolSuccess, fmt.Sprintf("profile: %q present", cfg.RemoteName))

	// Live probe
	out, _, err := tool.ListDir(cmd.Context(), cfg.RemoteName)
	if err != nil {
		return err
	}
	if verdict := remote.Classify(out); verdict != remote.VerdictValid {
		report(failStyle, ui.SymbolFail, fmt.Sprintf("probe: token %s (re-run an upload to reconnect)", verdict))
		return nil
	}
	report(okStyle, ui.SymbolSuccess, "probe: destination reachable")

	return nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
