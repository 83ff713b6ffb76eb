package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"shop-automation/adapters"
	"shop-automation/internal/config"
	"shop-automation/internal/prompt"
	"shop-automation/internal/types"
	"shop-automation/session"
	"shop-automation/shopper"
)

func newShopCmd(a *app) *cobra.Command {
	var forceLogin bool

	cmd := &cobra.Command{
		Use:   "shop <shopping-list.yml|->",
		Short: "Add the items of a YAML shopping list to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bindFlags(cmd.Flags(), map[string]string{"visible": config.KeyVisible}); err != nil {
				return err
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			items, err := readList(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			a.logger.Infof("Starting shopping automation with %d items", len(items))

			client, err := a.launch(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			tty := prompt.NewTTY()
			store := session.NewStore(cfg.DataDir, adapters.SiteKey)
			manager := session.NewManager(cfg, a.logger, client, store, config.Credentials(a.v), tty)
			shop := shopper.NewShopper(cfg, a.logger, client, manager, tty)

			summary, err := shop.Run(cmd.Context(), items, shopper.SessionOptions{
				ForceLogin:  forceLogin,
				Interactive: !cfg.Headless,
			})
			if summary != nil {
				summary.Render(os.Stdout)
			}
			return err
		},
	}

	cmd.Flags().Bool("visible", false, "Show the browser window and pause for delivery slot and checkout")
	cmd.Flags().BoolVar(&forceLogin, "force-login", false, "Log in even if saved cookies exist")
	return cmd
}

// readList parses the shopping list at path, or stdin when path is "-"
func readList(stdin io.Reader, path string) ([]types.ShoppingListItem, error) {
	var in io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read shopping list from %s: %w", path, err)
		}
		defer f.Close()
		in = f
	}
	return shopper.ParseList(in)
}
