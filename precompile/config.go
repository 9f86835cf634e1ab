// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package precompile

import (
	"encoding/json"
	"fmt"

	"github.com/luxfi/geth/common"
)

// ConfigKey is the key used in json config files to specify this precompile config.
const ConfigKey = "pairPoolConfig"

// Config implements the pair pool precompile configuration
type Config struct {
	AssetA   common.Address `json:"assetA"`
	AssetB   common.Address `json:"assetB"`
	Operator common.Address `json:"operator"`
	Disabled bool           `json:"disabled,omitempty"`
}

func (c *Config) Key() string {
	return ConfigKey
}

func (c *Config) IsDisabled() bool {
	return c.Disabled
}

func (c *Config) Equal(other *Config) bool {
	if other == nil {
		return false
	}
	return c.AssetA == other.AssetA &&
		c.AssetB == other.AssetB &&
		c.Operator == other.Operator &&
		c.Disabled == other.Disabled
}

func (c *Config) Verify() error {
	if c.AssetA == (common.Address{}) || c.AssetB == (common.Address{}) {
		return fmt.Errorf("%w: asset address cannot be zero", ErrInvalidConfig)
	}
	if c.AssetA == c.AssetB {
		return fmt.Errorf("%w: assetA and assetB are both %s", ErrInvalidConfig, c.AssetA)
	}
	if c.Operator == (common.Address{}) {
		return fmt.Errorf("%w: operator cannot be zero", ErrInvalidConfig)
	}
	return nil
}

// ParseConfig decodes a json config and verifies it
func ParseConfig(data []byte) (*Config, error) {
	cfg := new(Config)
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	return cfg, nil
}
