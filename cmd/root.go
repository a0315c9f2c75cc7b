package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/property-alerts/internal/filtering"
	"github.com/spigell/property-alerts/internal/listings"
)

const (
	app = "property-alerts"

	tokenFileEnv = "PROPERTY_ALERTS_TOKEN_FILE"
	tokenEnv     = "PROPERTY_ALERTS_TOKEN"
	geminiKeyEnv = "GEMINI_API_KEY"
)

type Config struct {
	API          *APIConfig             `mapstructure:"api"`
	Search       *listings.SearchParams `mapstructure:"search"`
	View         filtering.SavedView    `mapstructure:"view"`
	NotifiedFile string                 `mapstructure:"notified-file"`
	Cache        *CacheConfig           `mapstructure:"cache"`
	AI           *AIConfig              `mapstructure:"ai"`
}

type APIConfig struct {
	URL       string `mapstructure:"url"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"token-file"`
	UserAgent string `mapstructure:"user-agent"`
}

type CacheConfig struct {
	Enabled bool                 `mapstructure:"enabled"`
	Redis   listings.RedisConfig `mapstructure:"redis"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "property-alerts matches CRM listings against saved property alerts",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("api.token-file", tokenFileEnv); err != nil {
		log.Fatalf("binding %s environment variable: %v", tokenFileEnv, err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is property-alerts.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Version does not need a config.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
