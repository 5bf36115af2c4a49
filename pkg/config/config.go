package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/clockstore/pkg/storage"
)

// Config represents the clockstore application configuration
type Config struct {
	Storage Storage `yaml:"storage"`
	Store   Store   `yaml:"store"`
	Debug   Debug   `yaml:"debug"`
	Logging Logging `yaml:"logging"`
	Server  Server  `yaml:"server"`
}

// Storage selects the volume the records live on
type Storage struct {
	Backend string `yaml:"backend"`
	DataDir string `yaml:"data_dir"`
}

// Store contains record paths and decode policy
type Store struct {
	ConfigPath   string `yaml:"config_path"`
	StatsPath    string `yaml:"stats_path"`
	StrictDecode bool   `yaml:"strict_decode"`
}

// Debug controls the store's trace output
type Debug struct {
	Enabled bool `yaml:"enabled"`
	Async   bool `yaml:"async"`
	Buffer  int  `yaml:"buffer"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Server contains the diagnostics server configuration
type Server struct {
	Port   int    `yaml:"port"`
	Bind   string `yaml:"bind"`
	APIKey string `yaml:"api_key"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Storage: Storage{
			Backend: string(storage.KindDir),
			DataDir: "./data",
		},
		Store: Store{
			ConfigPath: "/config.json",
			StatsPath:  "/stats.json",
		},
		Debug: Debug{
			Async:  true,
			Buffer: 64,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Server: Server{
			Port:   9300,
			Bind:   "127.0.0.1",
			APIKey: "auto",
		},
	}
}

// envOverlay holds the environment variables that override the file. Unset
// variables leave their pointer nil.
type envOverlay struct {
	Backend  *string `env:"CLOCKSTORE_BACKEND"`
	DataDir  *string `env:"CLOCKSTORE_DATA_DIR"`
	Debug    *bool   `env:"CLOCKSTORE_DEBUG"`
	LogLevel *string `env:"CLOCKSTORE_LOG_LEVEL"`
	APIKey   *string `env:"CLOCKSTORE_API_KEY"`
	Port     *int    `env:"CLOCKSTORE_PORT"`
}

// ApplyEnv overrides fields with any CLOCKSTORE_* variables that are set
func (c *Config) ApplyEnv() error {
	var overlay envOverlay
	if err := env.Parse(&overlay); err != nil {
		return errors.Wrap(err, "parse environment")
	}

	if overlay.Backend != nil {
		c.Storage.Backend = *overlay.Backend
	}
	if overlay.DataDir != nil {
		c.Storage.DataDir = *overlay.DataDir
	}
	if overlay.Debug != nil {
		c.Debug.Enabled = *overlay.Debug
	}
	if overlay.LogLevel != nil {
		c.Logging.Level = *overlay.LogLevel
	}
	if overlay.APIKey != nil {
		c.Server.APIKey = *overlay.APIKey
	}
	if overlay.Port != nil {
		c.Server.Port = *overlay.Port
	}
	return nil
}

// Validate checks the fields the CLI cannot run without
func (c *Config) Validate() error {
	switch storage.Kind(c.Storage.Backend) {
	case storage.KindDir, storage.KindPebble, storage.KindSQLite, storage.KindMemory:
	default:
		return errors.Newf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.DataDir == "" && storage.Kind(c.Storage.Backend) != storage.KindMemory {
		return errors.New("storage data_dir is required")
	}
	if c.Debug.Buffer < 0 {
		return errors.Newf("debug buffer must not be negative, got %d", c.Debug.Buffer)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Newf("server port out of range: %d", c.Server.Port)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return errors.Newf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.Newf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, errors.Wrap(err, "invalid config path")
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	// The file carries the API key
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", errors.Wrap(err, "failed to generate secure key")
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig creates a new configuration with a generated API key and
// saves it
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.Storage.DataDir = dataDir
	}

	apiKey, err := GenerateSecureKey(32) // 256 bits
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate API key")
	}
	config.Server.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, errors.Wrap(err, "failed to save bootstrap config")
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./clockstore.yaml"
	}

	// ~/.config/clockstore/config.yaml on Linux and macOS
	return filepath.Join(homeDir, ".config", "clockstore", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
