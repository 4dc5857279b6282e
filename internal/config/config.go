package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metadata  MetadataConfig  `mapstructure:"metadata"`
	Search    SearchConfig    `mapstructure:"search"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Providers ProvidersConfig `mapstructure:"providers"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// MetadataConfig holds title resolution configuration.
type MetadataConfig struct {
	CinemetaURL string        `mapstructure:"cinemeta_url"`
	IMDbURL     string        `mapstructure:"imdb_url"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// SearchConfig holds provider search configuration.
type SearchConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// FetchConfig holds subtitle retrieval configuration.
type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// ProvidersConfig holds per-provider settings.
type ProvidersConfig struct {
	Subsunacs ProviderConfig `mapstructure:"subsunacs"`
	SabBz     ProviderConfig `mapstructure:"sabbz"`
	Yavka     ProviderConfig `mapstructure:"yavka"`
}

// ProviderConfig holds one provider's settings.
type ProviderConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.subflow")
	}

	v.SetEnvPrefix("SUBFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file not found is fine, defaults + env vars apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "")

	v.SetDefault("metadata.cinemeta_url", "https://v3-cinemeta.strem.io")
	v.SetDefault("metadata.imdb_url", "https://www.imdb.com")
	v.SetDefault("metadata.cache_ttl", 24*time.Hour)

	v.SetDefault("search.cache_ttl", time.Hour)

	v.SetDefault("fetch.timeout", 25*time.Second)

	v.SetDefault("providers.subsunacs.enabled", true)
	v.SetDefault("providers.subsunacs.base_url", "https://subsunacs.net")
	v.SetDefault("providers.sabbz.enabled", true)
	v.SetDefault("providers.sabbz.base_url", "http://subs.sab.bz")
	v.SetDefault("providers.yavka.enabled", true)
	v.SetDefault("providers.yavka.base_url", "https://yavka.net")
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
