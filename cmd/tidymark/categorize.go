package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/tidymark/internal/app"
	"github.com/MrSnakeDoc/tidymark/internal/config"
	"github.com/MrSnakeDoc/tidymark/internal/domain"
	"github.com/MrSnakeDoc/tidymark/internal/logger"
)

var (
	catTitle   string
	catURL     string
	catContent string
)

var categorizeCmd = &cobra.Command{
	Use:     "categorize",
	Short:   "Categorize one bookmark and print it as JSON",
	Example: `  tidymark categorize --title "Effective Go" --url https://go.dev/doc/effective_go`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if catTitle == "" || catURL == "" {
			return errors.New("--title and --url are required")
		}

		cfg := config.Load()
		log := logger.New(cfg.LogLevel, cfg.PrettyLog)
		defer func() { _ = log.Sync() }()

		p, _ := app.NewPipeline(cfg, log)
		out := p.Categorize(cmd.Context(), domain.Bookmark{Title: catTitle, URL: catURL, Content: catContent})
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(categorizeCmd)
	categorizeCmd.Flags().StringVar(&catTitle, "title", "", "bookmark title")
	categorizeCmd.Flags().StringVar(&catURL, "url", "", "bookmark URL")
	categorizeCmd.Flags().StringVar(&catContent, "content", "", "page text (optional)")
}
