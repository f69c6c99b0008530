package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/tidymark/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of tidymark",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tidymark %s\n", version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
