package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/termdeck/internal/cli/styles"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Run: func(cmd *cobra.Command, _ []string) {
		theme := styles.NewTheme(styles.DefaultPalette())
		fmt.Fprintln(cmd.OutOrStdout(), styles.NewVersionRenderer(theme).Render(buildInfo))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
