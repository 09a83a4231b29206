// Package config loads process configuration from the environment. Secrets
// are injected at deploy time; a .env file is honored for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultPort            = 5050
	DefaultCacheMaxWallets = 10000
	DefaultPublicRPC       = "https://api.mainnet-beta.solana.com"
)

// Config holds the proxy's runtime configuration.
type Config struct {
	Port             int
	HeliusAPIKey     string
	RPCEndpoint      string
	TelegramBotToken string
	TelegramChatID   string
	CacheMaxWallets  int
}

// Load reads the environment, after loading a .env file when one is present
// (silently ignored if missing).
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             envInt("PORT", DefaultPort),
		HeliusAPIKey:     os.Getenv("HELIUS_API_KEY"),
		RPCEndpoint:      os.Getenv("SOLANA_RPC_ENDPOINT"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
		CacheMaxWallets:  envInt("CACHE_MAX_WALLETS", DefaultCacheMaxWallets),
	}

	if cfg.RPCEndpoint == "" {
		if cfg.HeliusAPIKey != "" {
			cfg.RPCEndpoint = fmt.Sprintf("https://mainnet.helius-rpc.com/?api-key=%s", cfg.HeliusAPIKey)
		} else {
			cfg.RPCEndpoint = DefaultPublicRPC
		}
	}

	return cfg
}

// HasCredential reports whether the history provider API key is set. A
// missing key is not fatal at startup: requests that need it answer 400 and
// the health endpoint reports the gap.
func (c *Config) HasCredential() bool {
	return c.HeliusAPIKey != ""
}

// HasNotifier reports whether the messaging channel is fully configured.
func (c *Config) HasNotifier() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// envInt reads an integer variable, falling back on absent or unparsable
// values.
func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
