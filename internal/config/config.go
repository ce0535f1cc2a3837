package config

import (
	"fmt"
	"os"

	"bitpanda_tracker/internal/entity"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Bitpanda BitpandaConfig `yaml:"bitpanda"`
	Tracker  TrackerConfig  `yaml:"tracker"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds the server-specific configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// BitpandaConfig holds the configuration for the Bitpanda API client.
type BitpandaConfig struct {
	BaseURL              string `yaml:"baseURL"`
	APIKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	RateLimit            int    `yaml:"rateLimit"`
	BurstLimit           int    `yaml:"burstLimit"`
}

// TrackerConfig holds what the operator chose to expose: the display
// currency, the tracked asset symbols and the tracked wallet keys, plus the
// two refresh cadences.
type TrackerConfig struct {
	Currency            string   `yaml:"currency"`
	TrackedAssets       []string `yaml:"trackedAssets"`
	TrackedWallets      []string `yaml:"trackedWallets"`
	PriceUpdateSeconds  int      `yaml:"priceUpdateSeconds"`
	WalletUpdateMinutes int      `yaml:"walletUpdateMinutes"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)

	// API key from the environment wins over the file so the file can be
	// committed without secrets.
	if envKey := os.Getenv("BITPANDA_API_KEY"); envKey != "" {
		cfg.Bitpanda.APIKey = envKey
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Bitpanda.BaseURL == "" {
		cfg.Bitpanda.BaseURL = "https://api.bitpanda.com/v1"
		logrus.Infof("Bitpanda.BaseURL not set, defaulting to %s", cfg.Bitpanda.BaseURL)
	}
	if cfg.Bitpanda.RequestTimeoutMillis == 0 {
		cfg.Bitpanda.RequestTimeoutMillis = 10000 // Default to 10 seconds
		logrus.Infof("Bitpanda.RequestTimeoutMillis not set, defaulting to %d ms", cfg.Bitpanda.RequestTimeoutMillis)
	}
	if cfg.Bitpanda.RateLimit == 0 {
		cfg.Bitpanda.RateLimit = 5
	}
	if cfg.Bitpanda.BurstLimit == 0 {
		cfg.Bitpanda.BurstLimit = 10
	}
	if cfg.Tracker.Currency == "" {
		cfg.Tracker.Currency = "EUR"
		logrus.Infof("Tracker.Currency not set, defaulting to %s", cfg.Tracker.Currency)
	}
	if cfg.Tracker.PriceUpdateSeconds == 0 {
		cfg.Tracker.PriceUpdateSeconds = 60
		logrus.Infof("Tracker.PriceUpdateSeconds not set, defaulting to %d", cfg.Tracker.PriceUpdateSeconds)
	}
	if cfg.Tracker.WalletUpdateMinutes == 0 {
		cfg.Tracker.WalletUpdateMinutes = 5
		logrus.Infof("Tracker.WalletUpdateMinutes not set, defaulting to %d", cfg.Tracker.WalletUpdateMinutes)
	}
}

func validate(cfg *Config) error {
	if cfg.Bitpanda.APIKey == "" {
		return fmt.Errorf("bitpanda.apiKey is required (set it in the config file or via BITPANDA_API_KEY)")
	}
	for _, raw := range cfg.Tracker.TrackedWallets {
		if _, err := entity.ParseWalletKey(raw); err != nil {
			return fmt.Errorf("tracker.trackedWallets contains an invalid key: %w", err)
		}
	}
	if len(cfg.Tracker.TrackedAssets) == 0 && len(cfg.Tracker.TrackedWallets) == 0 {
		logrus.Warn("No tracked assets or wallets configured; the API will serve empty lists.")
	}
	return nil
}
