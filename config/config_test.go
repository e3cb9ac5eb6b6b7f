package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"sidecar/jsonrpc"
)

func TestLoadCreatesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sidecar.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.FileExists(t, path)

	require.Equal(t, defaultNodeAddress, cfg.Node.Address)
	require.True(t, cfg.RPC.Enabled)
	require.Equal(t, defaultRPCAddress, cfg.RPC.Address)
	require.Equal(t, float64(defaultQPSLimit), cfg.RPC.QPSLimit)
	require.Equal(t, int64(defaultMaxBodyBytes), cfg.RPC.MaxBodyBytes)
	require.False(t, cfg.SpeculativeExec.Enabled)
	require.Equal(t, jsonrpc.ConfigLimit{Rate: 1, Burst: 1}, cfg.SpeculativeExec.Limits["speculative_exec"])
	require.Equal(t, jsonrpc.ConfigLimit{Rate: 1, Burst: 1}, cfg.SpeculativeExec.Limits["speculative_exec_txn"])

	// The written file must load back unchanged.
	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, reloaded)
}

func TestLoadParsesLimitsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sidecar.toml")
	raw := `
[node]
Address = "http://node.internal:7777"
RequestTimeoutSeconds = 5

[rpc]
Enabled = true
Address = ":9090"
QPSLimit = 250.0
CorsOrigin = "*"

[rpc.limits.chain_get_block]
Rate = 10.0
Burst = 20

[speculative_execution]
Enabled = true
Address = ":9091"

[speculative_execution.limits.speculative_exec]
Rate = 0.5
Burst = 2
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "http://node.internal:7777", cfg.Node.Address)
	require.Equal(t, 5, cfg.Node.RequestTimeoutSeconds)
	require.Equal(t, ":9090", cfg.RPC.Address)
	require.Equal(t, 250.0, cfg.RPC.QPSLimit)
	require.Equal(t, "*", cfg.RPC.CorsOrigin)
	require.Equal(t, jsonrpc.ConfigLimit{Rate: 10, Burst: 20}, cfg.RPC.Limits["chain_get_block"])
	require.Equal(t, jsonrpc.ConfigLimit{Rate: 0.5, Burst: 2}, cfg.SpeculativeExec.Limits["speculative_exec"])

	// Unset fields pick up defaults.
	require.Equal(t, int64(defaultMaxBodyBytes), cfg.RPC.MaxBodyBytes)
	require.Equal(t, int64(defaultMaxBodyBytes), cfg.SpeculativeExec.MaxBodyBytes)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sidecar.toml")
	require.NoError(t, os.WriteFile(path, []byte("[rpc\nEnabled = true"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.RPC.Enabled = true
		return cfg
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.Node.Address = "  "
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.RPC.Address = ""
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.RPC.QPSLimit = -1
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.RPC.Limits = map[string]jsonrpc.ConfigLimit{"chain_get_block": {Rate: -1}}
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.SpeculativeExec.Enabled = true
	cfg.SpeculativeExec.Address = ""
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.SpeculativeExec.Enabled = true
	cfg.SpeculativeExec.Limits = map[string]jsonrpc.ConfigLimit{"speculative_exec": {Burst: -1}}
	require.Error(t, cfg.Validate())

	// A disabled variant is not validated beyond its limits table.
	cfg = base()
	cfg.RPC.Enabled = false
	cfg.RPC.Address = ""
	require.NoError(t, cfg.Validate())
}
