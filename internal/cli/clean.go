package cli

import (
	"fmt"
	"os"

	"github.com/cloudlift/cloudlift/internal/config"
	"github.com/cloudlift/cloudlift/internal/rclone"
	"github.com/spf13/cobra"
)

// cleanCmd removes the persisted rclone installation and credentials.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the persisted rclone installation",
	Long: `Delete the persistent cache directory holding the rclone binary and any
persisted credentials. Equivalent to --remove-rclone.

Examples:
  cloudlift clean`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return removeInstallation()
	},
}

// removeInstallation deletes the persistent cache. Succeeds whether or not
// the cache exists; nothing else runs afterward.
func removeInstallation() error {
	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(dataDir); os.IsNotExist(statErr) {
		fmt.Println("Nothing to remove.")
		return nil
	}

	if err := rclone.Remove(dataDir); err != nil {
		return err
	}

	fmt.Println("Removed " + dataDir)
	return nil
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
