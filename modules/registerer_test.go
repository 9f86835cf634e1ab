// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package modules

import (
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/precompile/contract"
	"github.com/stretchr/testify/require"
)

type stubContract struct{}

func (stubContract) Run(contract.AccessibleState, common.Address, common.Address, []byte, uint64, bool) ([]byte, uint64, error) {
	return nil, 0, nil
}

func TestReservedAddress(t *testing.T) {
	tests := []struct {
		addr     string
		reserved bool
	}{
		{"0x0000000000000000000000000000000000009000", true},
		{"0x0000000000000000000000000000000000009016", true},
		{"0x0000000000000000000000000000000000009fff", true},
		{"0x000000000000000000000000000000000000a000", false},
		{"0x0400000000000000000000000000000000000000", true},
		{"0x0401000000000000000000000000000000000000", false},
		{"0x1111111111111111111111111111111111111111", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			require.Equal(t, tt.reserved, ReservedAddress(common.HexToAddress(tt.addr)))
		})
	}
}

func TestRegistry_RegisterModule(t *testing.T) {
	r := NewRegistry()
	second := Module{ConfigKey: "second", Address: common.HexToAddress("0x9020"), Contract: stubContract{}}
	first := Module{ConfigKey: "first", Address: common.HexToAddress("0x9010"), Contract: stubContract{}}

	require.NoError(t, r.RegisterModule(second))
	require.NoError(t, r.RegisterModule(first))

	// Ordered by address, not registration order
	registered := r.RegisteredModules()
	require.Len(t, registered, 2)
	require.Equal(t, "first", registered[0].ConfigKey)
	require.Equal(t, "second", registered[1].ConfigKey)

	m, ok := r.GetPrecompileModule("second")
	require.True(t, ok)
	require.Equal(t, second.Address, m.Address)
	m, ok = r.GetPrecompileModuleByAddress(first.Address)
	require.True(t, ok)
	require.Equal(t, "first", m.ConfigKey)
	_, ok = r.GetPrecompileModule("missing")
	require.False(t, ok)
}

func TestRegistry_RejectsInvalidModules(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterModule(Module{ConfigKey: "pool", Address: common.HexToAddress("0x9016"), Contract: stubContract{}}))

	tests := []struct {
		name string
		mod  Module
	}{
		{"duplicate key", Module{ConfigKey: "pool", Address: common.HexToAddress("0x9017"), Contract: stubContract{}}},
		{"duplicate address", Module{ConfigKey: "other", Address: common.HexToAddress("0x9016"), Contract: stubContract{}}},
		{"outside reserved ranges", Module{ConfigKey: "far", Address: common.HexToAddress("0x1234"), Contract: stubContract{}}},
		{"blackhole", Module{ConfigKey: "hole", Address: BlackholeAddr, Contract: stubContract{}}},
		{"no contract", Module{ConfigKey: "empty", Address: common.HexToAddress("0x9018")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, r.RegisterModule(tt.mod))
		})
	}
	require.Len(t, r.RegisteredModules(), 1)
}
