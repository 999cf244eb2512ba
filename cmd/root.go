package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/cupid-matcher/internal/api"
	"github.com/spigell/cupid-matcher/internal/images"
	"github.com/spigell/cupid-matcher/internal/matching"
	"github.com/spigell/cupid-matcher/internal/store"
)

const (
	app = "cupid-matcher"
)

type Config struct {
	Store    store.Config     `mapstructure:"store"`
	Matching *MatchingConfig  `mapstructure:"matching"`
	AI       *AIConfig        `mapstructure:"ai"`
	Images   *images.Catalog  `mapstructure:"images"`
	Server   api.ServerConfig `mapstructure:"server"`

	// Exclude lists profile ids hidden from every search.
	Exclude []string `mapstructure:"exclude"`
}

type MatchingConfig struct {
	Threshold   float64       `mapstructure:"threshold"`
	Limit       int           `mapstructure:"limit"`
	Concurrency int           `mapstructure:"concurrency"`
	CacheTTL    time.Duration `mapstructure:"cache-ttl"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
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
		Short: "cupid-matcher scores relationship compatibility between stored profiles",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("store.path", "CUPID_STORE_PATH"); err != nil {
		log.Fatalf("binding CUPID_STORE_PATH environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	viper.SetDefault("store.type", store.TypeFile)
	viper.SetDefault("matching.threshold", matching.DefaultThreshold)
	viper.SetDefault("matching.limit", matching.DefaultLimit)
	viper.SetDefault("matching.concurrency", matching.DefaultConcurrency)
	viper.SetDefault("matching.cache-ttl", matching.DefaultCacheTTL)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("server.addr", ":8080")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cupid-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Version needs no configuration.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// The default config file is optional, an explicit one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
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
