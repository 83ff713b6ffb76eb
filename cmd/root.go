package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"shop-automation/internal/config"
	"shop-automation/internal/types"
	"shop-automation/utils"
)

// app carries the state shared by every subcommand
type app struct {
	configFile string
	verbose    bool

	v      *viper.Viper
	logger *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: logrus.New()}

	root := &cobra.Command{
		Use:          "shop-automation",
		Short:        "Scrape SuperValu products and fill the cart from a shopping list",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present
			config.LoadDotEnv()

			v, err := config.New(a.configFile)
			if err != nil {
				return err
			}
			a.v = v
			a.setupLogging()
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file (default is ./shop.yaml)")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable verbose logging")

	root.AddCommand(newScrapeCmd(a), newLoginCmd(a), newShopCmd(a))
	return root
}

func (a *app) setupLogging() {
	a.logger.SetOutput(os.Stderr)
	// Set timestamp format with milliseconds
	a.logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	// Set log level from LOG_LEVEL env if present
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			a.logger.SetLevel(level)
			return
		}
	}
	if a.verbose {
		a.logger.SetLevel(logrus.DebugLevel)
	} else {
		a.logger.SetLevel(logrus.InfoLevel)
	}
}

// bindFlags makes the named flags of cmd override the matching config keys
func (a *app) bindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", flag, err)
		}
	}
	return nil
}

func (a *app) loadConfig() (*types.Config, error) {
	cfg, err := config.Load(a.v)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// launch starts the browser every command works with
func (a *app) launch(cfg *types.Config) (*utils.BrowserClient, error) {
	mode := "headless"
	if !cfg.Headless {
		mode = "visible"
	}
	a.logger.Infof("Launching %s browser...", mode)
	return utils.NewBrowserClient(cfg, a.logger)
}
