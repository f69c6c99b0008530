package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tidymark",
	Short: "Bookmark organizer backed by a generative model",
	Long: `tidymark categorizes and tags bookmarks, suggests pages to read next and
serves the browser extension API. Without a subcommand it runs the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ tidymark: %v\n", err)
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
