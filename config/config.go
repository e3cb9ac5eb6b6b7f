package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"sidecar/jsonrpc"
)

// Config is the sidecar's on-disk configuration.
type Config struct {
	Node            NodeConfig     `toml:"node"`
	RPC             RPCConfig      `toml:"rpc"`
	SpeculativeExec SpecExecConfig `toml:"speculative_execution"`
}

// NodeConfig locates the node's internal query endpoint.
type NodeConfig struct {
	Address               string `toml:"Address"`
	RequestTimeoutSeconds int    `toml:"RequestTimeoutSeconds"`
}

// RPCConfig drives the standard serving variant.
type RPCConfig struct {
	Enabled      bool    `toml:"Enabled"`
	Address      string  `toml:"Address"`
	QPSLimit     float64 `toml:"QPSLimit"`
	MaxBodyBytes int64   `toml:"MaxBodyBytes"`
	// CorsOrigin is "" (disabled), "*" (any origin) or one specific origin.
	CorsOrigin string `toml:"CorsOrigin"`
	// Limits holds optional per-method admission policies.
	Limits map[string]jsonrpc.ConfigLimit `toml:"limits"`
}

// SpecExecConfig drives the speculative-execution serving variant, where
// admission control is per-method rather than one global ceiling.
type SpecExecConfig struct {
	Enabled      bool                           `toml:"Enabled"`
	Address      string                         `toml:"Address"`
	MaxBodyBytes int64                          `toml:"MaxBodyBytes"`
	CorsOrigin   string                         `toml:"CorsOrigin"`
	Limits       map[string]jsonrpc.ConfigLimit `toml:"limits"`
}

const (
	defaultNodeAddress     = "http://127.0.0.1:7777"
	defaultNodeTimeoutSecs = 10
	defaultRPCAddress      = ":7778"
	defaultSpecAddress     = ":7779"
	defaultQPSLimit        = 100
	defaultMaxBodyBytes    = 1 << 20 // 1 MiB
)

// Load reads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Node.Address == "" {
		cfg.Node.Address = defaultNodeAddress
	}
	if cfg.Node.RequestTimeoutSeconds <= 0 {
		cfg.Node.RequestTimeoutSeconds = defaultNodeTimeoutSecs
	}
	if cfg.RPC.Address == "" {
		cfg.RPC.Address = defaultRPCAddress
	}
	if cfg.RPC.MaxBodyBytes <= 0 {
		cfg.RPC.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.SpeculativeExec.Address == "" {
		cfg.SpeculativeExec.Address = defaultSpecAddress
	}
	if cfg.SpeculativeExec.MaxBodyBytes <= 0 {
		cfg.SpeculativeExec.MaxBodyBytes = defaultMaxBodyBytes
	}
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		Node: NodeConfig{
			Address:               defaultNodeAddress,
			RequestTimeoutSeconds: defaultNodeTimeoutSecs,
		},
		RPC: RPCConfig{
			Enabled:      true,
			Address:      defaultRPCAddress,
			QPSLimit:     defaultQPSLimit,
			MaxBodyBytes: defaultMaxBodyBytes,
		},
		SpeculativeExec: SpecExecConfig{
			Enabled:      false,
			Address:      defaultSpecAddress,
			MaxBodyBytes: defaultMaxBodyBytes,
			Limits: map[string]jsonrpc.ConfigLimit{
				"speculative_exec":     {Rate: 1, Burst: 1},
				"speculative_exec_txn": {Rate: 1, Burst: 1},
			},
		},
	}
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config %s: %w", path, err)
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("encode config %s: %w", path, err)
	}
	return nil
}
