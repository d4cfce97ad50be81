package cli

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("tablesite version %s\n", version)
		if verbose {
			cmd.Printf("  commit: %s\n  built:  %s\n", commit, date)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
