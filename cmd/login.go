package main

import (
	"time"

	"github.com/spf13/cobra"
	"shop-automation/adapters"
	"shop-automation/internal/config"
	"shop-automation/internal/prompt"
	"shop-automation/session"
	"shop-automation/utils"
)

func newLoginCmd(a *app) *cobra.Command {
	var manual bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to SuperValu and save the session cookies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bindFlags(cmd.Flags(), map[string]string{"visible": config.KeyVisible}); err != nil {
				return err
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			mode := session.ModeForceLogin
			if manual {
				// A human cannot log in to a headless browser
				cfg.Headless = false
				mode = session.ModeManual
			}

			client, err := a.launch(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := cmd.Context()
			store := session.NewStore(cfg.DataDir, adapters.SiteKey)
			manager := session.NewManager(cfg, a.logger, client, store, config.Credentials(a.v), prompt.NewTTY())
			if err := manager.Establish(ctx, mode); err != nil {
				return err
			}
			a.logger.Info("You can now use the 'shop' command without logging in each time")

			if !cfg.Headless && !manual {
				a.logger.Info("Browser will close in 5 seconds...")
				return utils.Sleep(ctx, 5*time.Second)
			}
			return nil
		},
	}

	cmd.Flags().Bool("visible", false, "Show the browser window")
	cmd.Flags().BoolVar(&manual, "manual", false, "Log in by hand in a visible browser window")
	return cmd
}
