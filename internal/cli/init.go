package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/cloudlift/cloudlift/internal/config"
	"github.com/cloudlift/cloudlift/internal/errors"
	"github.com/spf13/cobra"
)

var initForce bool

// initCmd creates the defaults file interactively.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the cloudlift config file",
	Long: `Create ~/.config/cloudlift/config.yaml with your preferred defaults.

Examples:
  cloudlift init
  cloudlift init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce)
	},
}

func initCommand(force bool) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(path); statErr == nil && !force {
		var overwrite bool

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't read your input",
				"Re-run with --force to overwrite.")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Remote profile name").
				Description("rclone remote name used for uploads").
				Placeholder(cfg.RemoteName).
				Value(&cfg.RemoteName).
				Validate(func(s string) error {
					if strings.ContainsAny(s, " \t\n:") {
						return fmt.Errorf("remote names cannot contain whitespace or ':'")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Remote folder").
				Description("Default destination folder on the remote").
				Placeholder(cfg.RemoteDir).
				Value(&cfg.RemoteDir),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Keep rclone between runs?").
				Description("Persists the binary and credentials under ~/.local/share/cloudlift").
				Value(&cfg.KeepRclone),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't read your input",
			"Try again from an interactive terminal.")
	}

	if err := config.Write(cfg, path); err != nil {
		return err
	}

	fmt.Println("Wrote " + path)
	return nil
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	rootCmd.AddCommand(initCmd)
}
