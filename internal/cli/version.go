package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version info, set via SetVersionInfo from main.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// versionCmd prints build information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cloudlift %s (commit %s, built %s)\n", version, commit, date)
	},
}

// SetVersionInfo sets the version information (called from main).
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
