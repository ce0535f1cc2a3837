package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
bitpanda:
  apiKey: "secret"
tracker:
  trackedAssets: ["BTC"]
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "https://api.bitpanda.com/v1", cfg.Bitpanda.BaseURL)
	require.Equal(t, int64(10000), cfg.Bitpanda.RequestTimeoutMillis)
	require.Equal(t, "EUR", cfg.Tracker.Currency)
	require.Equal(t, 60, cfg.Tracker.PriceUpdateSeconds)
	require.Equal(t, 5, cfg.Tracker.WalletUpdateMinutes)
	require.Equal(t, ":8080", cfg.Server.Port)
}

func TestLoadConfig_MissingAPIKey(t *testing.T) {
	path := writeConfigFile(t, `
tracker:
  trackedAssets: ["BTC"]
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "apiKey")
}

func TestLoadConfig_APIKeyFromEnv(t *testing.T) {
	t.Setenv("BITPANDA_API_KEY", "env-secret")
	path := writeConfigFile(t, `
bitpanda:
  apiKey: "file-secret"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "env-secret", cfg.Bitpanda.APIKey)
}

func TestLoadConfig_InvalidWalletKey(t *testing.T) {
	path := writeConfigFile(t, `
bitpanda:
  apiKey: "secret"
tracker:
  trackedWallets: ["notakey"]
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid wallet key")
}

func TestLoadConfig_ValidWalletKeys(t *testing.T) {
	path := writeConfigFile(t, `
bitpanda:
  apiKey: "secret"
tracker:
  currency: "USD"
  trackedWallets:
    - "fiat_EUR"
    - "cryptocoin_BTC"
    - "commodity_metal_XAU"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "USD", cfg.Tracker.Currency)
	require.Len(t, cfg.Tracker.TrackedWallets, 3)
}
