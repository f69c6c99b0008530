package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/tidymark/internal/app"
	"github.com/MrSnakeDoc/tidymark/internal/config"
	"github.com/MrSnakeDoc/tidymark/internal/logger"
	"github.com/MrSnakeDoc/tidymark/internal/organizer"
	"github.com/MrSnakeDoc/tidymark/internal/scheduler"
	"github.com/MrSnakeDoc/tidymark/internal/store/memory"
)

var importCmd = &cobra.Command{
	Use:   "import <bookmarks.yaml>",
	Short: "Categorize a Homepage bookmarks file and print the result as JSON",
	Long: `Reads a Homepage-style bookmarks.yaml, categorizes every entry (the group
name is kept when the model cannot categorize it) and prints the bookmarks.
Nothing is stored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		log := logger.New(cfg.LogLevel, cfg.PrettyLog)
		defer func() { _ = log.Sync() }()

		p, _ := app.NewPipeline(cfg, log)
		org := organizer.New(memory.New(), p, log, organizer.WithConcurrency(cfg.CategorizeConcurrency))

		n, err := scheduler.NewImporter(args[0], org, log, 0, nil).Import(cmd.Context())
		if err != nil {
			return fmt.Errorf("import %s: %w", args[0], err)
		}
		log.Info("categorized bookmarks", logger.Int("count", n))

		out, err := org.List(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
