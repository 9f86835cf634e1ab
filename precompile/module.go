// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package precompile

import (
	"github.com/luxfi/pairpool/modules"
)

// NewModule wraps c as a module at ContractAddress
func NewModule(c *PoolContract) modules.Module {
	return modules.Module{
		ConfigKey: ConfigKey,
		Address:   ContractAddress,
		Contract:  c,
	}
}

// Register adds the module for c to registry
func Register(registry *modules.Registry, c *PoolContract) error {
	return registry.RegisterModule(NewModule(c))
}
