package config

import (
	"fmt"
	"strings"
)

// Validate rejects configurations the servers cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Node.Address) == "" {
		return fmt.Errorf("node address is required")
	}
	if c.RPC.Enabled {
		if strings.TrimSpace(c.RPC.Address) == "" {
			return fmt.Errorf("rpc address is required when the rpc server is enabled")
		}
		if c.RPC.QPSLimit < 0 {
			return fmt.Errorf("rpc qps limit must not be negative")
		}
		if c.RPC.MaxBodyBytes <= 0 {
			return fmt.Errorf("rpc max body bytes must be positive")
		}
	}
	if c.SpeculativeExec.Enabled {
		if strings.TrimSpace(c.SpeculativeExec.Address) == "" {
			return fmt.Errorf("speculative execution address is required when enabled")
		}
		if c.SpeculativeExec.MaxBodyBytes <= 0 {
			return fmt.Errorf("speculative execution max body bytes must be positive")
		}
	}
	for method, limit := range c.RPC.Limits {
		if limit.Rate < 0 {
			return fmt.Errorf("rpc limit for %s: rate must not be negative", method)
		}
		if limit.Burst < 0 {
			return fmt.Errorf("rpc limit for %s: burst must not be negative", method)
		}
	}
	for method, limit := range c.SpeculativeExec.Limits {
		if limit.Rate < 0 {
			return fmt.Errorf("speculative execution limit for %s: rate must not be negative", method)
		}
		if limit.Burst < 0 {
			return fmt.Errorf("speculative execution limit for %s: burst must not be negative", method)
		}
	}
	return nil
}
