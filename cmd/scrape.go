package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"shop-automation/adapters"
	"shop-automation/extractor"
	"shop-automation/internal/config"
	"shop-automation/internal/records"
)

func newScrapeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape product options for names read from stdin, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bindFlags(cmd.Flags(), map[string]string{
				"db-path": config.KeyDBPath,
				"visible": config.KeyVisible,
			}); err != nil {
				return err
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			names, err := extractor.ReadNames(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				return errors.New("no products provided, pass product names via stdin, one per line")
			}
			a.logger.Infof("Starting to scrape %d products", len(names))
			a.logger.Infof("Database path: %s", cfg.DBPath)

			client, err := a.launch(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			scraper := extractor.NewScraper(cfg, a.logger, client, records.NewStore(cfg.DBPath, adapters.SiteKey))
			results := scraper.ScrapeAll(cmd.Context(), names)
			extractor.RenderReport(os.Stdout, results)
			return cmd.Context().Err()
		},
	}

	cmd.Flags().String("db-path", "../config/db", "Directory holding the product database")
	cmd.Flags().Bool("visible", false, "Show the browser window")
	return cmd
}
