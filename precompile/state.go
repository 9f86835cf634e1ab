// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package precompile

import (
	"github.com/luxfi/geth/common"
	ethtypes "github.com/luxfi/geth/core/types"
	"github.com/luxfi/precompile/contract"
)

// evmState is the part of contract.StateDB the pair pool uses
type evmState interface {
	GetState(addr common.Address, key common.Hash) common.Hash
	SetState(addr common.Address, key common.Hash, value common.Hash)
	AddLog(log *ethtypes.Log)
	Snapshot() int
	RevertToSnapshot(int)
}

// stateAdapter adapts contract.StateDB to evmState
type stateAdapter struct {
	stateDB contract.StateDB
}

func (a *stateAdapter) GetState(addr common.Address, key common.Hash) common.Hash {
	return a.stateDB.GetState(addr, key)
}

func (a *stateAdapter) SetState(addr common.Address, key common.Hash, value common.Hash) {
	a.stateDB.SetState(addr, key, value)
}

func (a *stateAdapter) AddLog(log *ethtypes.Log) { a.stateDB.AddLog(log) }

func (a *stateAdapter) Snapshot() int { return a.stateDB.Snapshot() }

func (a *stateAdapter) RevertToSnapshot(id int) { a.stateDB.RevertToSnapshot(id) }

// boundState forwards to the state of the call in progress. The ledgers,
// the reserve and operator slots and the log emitter are built once and see
// whichever state Run bound.
type boundState struct {
	db evmState
}

func (b *boundState) bind(db evmState) func() {
	b.db = db
	return func() { b.db = nil }
}

func (b *boundState) GetState(addr common.Address, key common.Hash) common.Hash {
	return b.db.GetState(addr, key)
}

func (b *boundState) SetState(addr common.Address, key common.Hash, value common.Hash) {
	b.db.SetState(addr, key, value)
}

func (b *boundState) AddLog(log *ethtypes.Log) {
	if b.db != nil {
		b.db.AddLog(log)
	}
}
