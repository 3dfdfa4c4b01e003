package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"shopadmin/pkg/log"
)

const (
	// EnvPrefix prefixes every environment override, e.g. SHOPADMIN_API_BASE_URL
	EnvPrefix = "SHOPADMIN"
	// EnvName selects the config.<env>.yaml overlay
	EnvName = EnvPrefix + "_ENV"
)

var (
	// GlobalConfig holds the global configuration instance
	GlobalConfig *Config

	mu      sync.Mutex
	current *viper.Viper
)

// envKeys are bound explicitly so overrides work without a config file
var envKeys = []string{
	"server.host", "server.port", "server.mode",
	"api.base_url", "api.timeout", "api.auth_header", "api.auth_scheme",
	"api.rate_limit.enabled", "api.rate_limit.rps", "api.rate_limit.burst",
	"api.circuit_break.enabled",
	"session.driver", "session.file", "session.key_prefix",
	"redis.host", "redis.port", "redis.password", "redis.db",
	"routes.file",
	"log.level", "log.format", "log.output", "log.filename",
	"metrics.enabled", "tracing.enabled", "tracing.endpoint",
}

// LoadConfig loads configuration from a .env file, the config file and
// environment variables, in increasing precedence.
func LoadConfig(configPath string) (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("$HOME/.shopadmin")
		v.AddConfigPath("/etc/shopadmin")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Debug("Config file not found, using defaults and environment variables")
	} else {
		log.WithField("file", v.ConfigFileUsed()).Debug("Using config file")
		if err := mergeEnvOverlay(v); err != nil {
			return nil, err
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.SetDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	mu.Lock()
	GlobalConfig = config
	current = v
	mu.Unlock()

	return config, nil
}

// mergeEnvOverlay merges config.<env>.yaml next to the main file over it
func mergeEnvOverlay(v *viper.Viper) error {
	base := v.ConfigFileUsed()
	env := GetEnv(EnvName, "dev")
	overlay := filepath.Join(filepath.Dir(base), fmt.Sprintf("config.%s.yaml", env))
	if _, err := os.Stat(overlay); err != nil {
		return nil
	}

	v.SetConfigFile(overlay)
	err := v.MergeInConfig()
	// keep watching the main file
	v.SetConfigFile(base)
	if err != nil {
		return fmt.Errorf("failed to merge env config %s: %w", overlay, err)
	}
	log.WithField("file", overlay).Debug("Loaded environment config")
	return nil
}

// MustLoadConfig loads configuration and panics on error
func MustLoadConfig(configPath string) *Config {
	config, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	return config
}

// GetConfig returns the global configuration instance
func GetConfig() *Config {
	mu.Lock()
	defer mu.Unlock()
	if GlobalConfig == nil {
		panic("Config not loaded. Call LoadConfig first.")
	}
	return GlobalConfig
}

// WatchConfig reloads the configuration when the loaded file changes and
// hands the new value to callback. Invalid edits are logged and ignored.
func WatchConfig(callback func(*Config)) {
	mu.Lock()
	v := current
	mu.Unlock()
	if v == nil || v.ConfigFileUsed() == "" {
		return
	}

	path := v.ConfigFileUsed()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.WithField("file", e.Name).Info("Config file changed")
		cfg, err := LoadConfig(path)
		if err != nil {
			log.WithError(err).Warn("Failed to reload config")
			return
		}
		if callback != nil {
			callback(cfg)
		}
	})
	v.WatchConfig()
}

// GetEnv returns environment variable value with fallback
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
