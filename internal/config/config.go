package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// GatewayURL is the DAO function gateway serving the birdeye proxy and
	// AI operations.
	GatewayURL string `toml:"gateway_url"`
	// RPCURL is the Solana JSON-RPC endpoint used for native balance lookups.
	RPCURL string `toml:"rpc_url"`
	// FeedURL is the websocket endpoint for streaming price updates.
	FeedURL string `toml:"feed_url"`
	// APIKey authenticates against the market-data feed.
	APIKey string `toml:"api_key"`
	// WalletAddress is the base58 public key the terminal acts for.
	WalletAddress string `toml:"wallet_address"`
	DBPath        string `toml:"db_path"`
	LogPath       string `toml:"log_path"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		GatewayURL: "https://gateway.cheshdao.io/functions/v1",
		RPCURL:     "https://api.mainnet-beta.solana.com",
		FeedURL:    "wss://public-api.birdeye.so/socket/solana",
		DBPath:     filepath.Join(home, ".config", "grin", "grin.db"),
		LogPath:    filepath.Join(home, ".config", "grin", "grin.log"),
	}

	cfgPath := Path(home)
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.LogPath = expandHome(cfg.LogPath, home)

	return cfg, nil
}

// Path returns the config file location under the given home directory.
func Path(home string) string {
	return filepath.Join(home, ".config", "grin", "config.toml")
}

// Save writes the config back to its default location. Used by the setkey
// command to persist API credentials.
func (c *Config) Save() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	cfgPath := Path(home)
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.Create(cfgPath)
	if err != nil {
		return fmt.Errorf("write config %s: %w", cfgPath, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
