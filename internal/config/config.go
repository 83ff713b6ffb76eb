// Package config builds the runtime configuration from defaults, an optional
// shop.yaml, SHOP_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"shop-automation/internal/types"
	"shop-automation/utils"
)

// EnvPrefix prefixes every environment override, e.g. SHOP_DB_PATH
const EnvPrefix = "SHOP"

// Configuration keys. Flags are bound to the same names.
const (
	KeyBaseURL      = "base_url"
	KeyVisible      = "visible"
	KeyUserAgent    = "user_agent"
	KeyDBPath       = "db_path"
	KeyDataDir      = "data_dir"
	KeyMaxResults   = "max_results"
	KeySettle       = "delays.settle"
	KeyConsent      = "delays.consent"
	KeyLoginSettle  = "delays.login"
	KeyAdded        = "delays.added"
	KeyItem         = "delays.item"
	KeyInspect      = "delays.inspect"
	KeyProductWait  = "delays.product_wait"
	keyEmail        = "credentials.email"
	keyPassword     = "credentials.password"
	envEmail        = "SUPERVALU_EMAIL"
	envPassword     = "SUPERVALU_PASSWORD"
	defaultFileName = "shop"
)

// LoadDotEnv loads a .env file from the working directory if there is one
func LoadDotEnv() {
	_ = godotenv.Load()
}

// New returns a viper instance with defaults, environment bindings and the
// config file (configFile, or ./shop.yaml when empty) read in.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(defaultFileName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Credentials keep their unprefixed names
	_ = v.BindEnv(keyEmail, envEmail)
	_ = v.BindEnv(keyPassword, envPassword)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault(KeyBaseURL, d.BaseURL)
	v.SetDefault(KeyVisible, !d.Headless)
	v.SetDefault(KeyUserAgent, d.UserAgent)
	v.SetDefault(KeyDBPath, d.DBPath)
	v.SetDefault(KeyDataDir, "")
	v.SetDefault(KeyMaxResults, d.MaxResults)
	v.SetDefault(KeySettle, d.SettleDelay)
	v.SetDefault(KeyConsent, d.ConsentDelay)
	v.SetDefault(KeyLoginSettle, d.LoginSettleDelay)
	v.SetDefault(KeyAdded, d.AddedDelay)
	v.SetDefault(KeyItem, d.ItemDelay)
	v.SetDefault(KeyInspect, d.InspectDelay)
	v.SetDefault(KeyProductWait, d.ProductWait)
}

// Load resolves the configuration held by v
func Load(v *viper.Viper) (*types.Config, error) {
	config := types.DefaultConfig()
	config.BaseURL = strings.TrimRight(v.GetString(KeyBaseURL), "/")
	config.Headless = !v.GetBool(KeyVisible)
	config.UserAgent = v.GetString(KeyUserAgent)
	config.MaxResults = v.GetInt(KeyMaxResults)
	config.SettleDelay = v.GetDuration(KeySettle)
	config.ConsentDelay = v.GetDuration(KeyConsent)
	config.LoginSettleDelay = v.GetDuration(KeyLoginSettle)
	config.AddedDelay = v.GetDuration(KeyAdded)
	config.ItemDelay = v.GetDuration(KeyItem)
	config.InspectDelay = v.GetDuration(KeyInspect)
	config.ProductWait = v.GetDuration(KeyProductWait)

	if config.BaseURL == "" {
		return nil, errors.New("base_url must not be empty")
	}
	if config.MaxResults < 1 || config.MaxResults > types.MaxSearchResults {
		return nil, fmt.Errorf("max_results must be between 1 and %d, got %d", types.MaxSearchResults, config.MaxResults)
	}

	dbPath, err := utils.ExpandPath(v.GetString(KeyDBPath))
	if err != nil {
		return nil, fmt.Errorf("failed to expand db path: %w", err)
	}
	config.DBPath = dbPath

	dataDir := v.GetString(KeyDataDir)
	if dataDir == "" {
		dataDir, err = utils.DataLocalDir()
	} else {
		dataDir, err = utils.ExpandPath(dataDir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}
	config.DataDir = dataDir

	return config, nil
}

// Credentials returns the login details from SUPERVALU_EMAIL and
// SUPERVALU_PASSWORD (or the credentials section of the config file).
func Credentials(v *viper.Viper) types.Credentials {
	return types.Credentials{
		Email:    strings.TrimSpace(v.GetString(keyEmail)),
		Password: v.GetString(keyPassword),
	}
}
