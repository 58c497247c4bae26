// Package cli wires cloudlift's commands. The root command runs the upload
// workflow; subcommands cover config bootstrapping, diagnostics, cache
// removal, and shell completion.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// Root command flags
var (
	fileFlag         string
	dirFlag          string
	remoteDirFlag    string
	remoteNameFlag   string
	configFlag       string
	keepRcloneFlag   bool
	removeRcloneFlag bool
	noCleanupFlag    bool
)

// rootCmd uploads a file or directory to cloud storage.
var rootCmd = &cobra.Command{
	Use:   "cloudlift",
	Short: "Upload files and directories to cloud storage via rclone",
	Long: `Upload a local file or directory to a cloud storage destination.

Directories are archived to .tar.gz on the fly. rclone is located in the
local cache or downloaded for this run; authorization is verified before
the transfer and refreshed when the token has expired.

Examples:
  cloudlift --file ~/report.pdf
  cloudlift --dir ~/projects/demo --remote-dir backups
  cloudlift --dir ~/projects/demo --keep-rclone`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if removeRcloneFlag {
			return removeInstallation()
		}

		return runUpload(cmd.Context(), uploadOptions{
			File:       fileFlag,
			Dir:        dirFlag,
			RemoteDir:  remoteDirFlag,
			RemoteName: remoteNameFlag,
			KeepRclone: keepRcloneFlag,
			NoCleanup:  noCleanupFlag,
			ConfigPath: configFlag,
		})
	},
}

// Execute runs the CLI. Any error has already been rendered by cobra;
// the process exits 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&fileFlag, "file", "", "file to upload")
	rootCmd.Flags().StringVar(&dirFlag, "dir", "", "directory to archive and upload")
	rootCmd.Flags().StringVar(&remoteDirFlag, "remote-dir", "", "destination folder on the remote (default \"transfer\")")
	rootCmd.Flags().StringVar(&remoteNameFlag, "remote-name", "", "rclone remote profile name (default \"gdrive\")")
	rootCmd.Flags().BoolVar(&keepRcloneFlag, "keep-rclone", false, "persist the rclone installation and its config")
	rootCmd.Flags().BoolVar(&removeRcloneFlag, "remove-rclone", false, "delete the persisted rclone installation and exit")
	rootCmd.Flags().BoolVar(&noCleanupFlag, "no-cleanup", false, "keep the scratch directory after the run")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to a cloudlift config file")

	rootCmd.MarkFlagsMutuallyExclusive("file", "dir")
}
