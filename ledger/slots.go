// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

var (
	reservePrefix  = []byte("rsv")
	operatorPrefix = []byte("opr")
)

// Reserves keeps the two reserve counters of a pair pool in a Store, one
// slot per asset. It satisfies pool.ReserveStore.
type Reserves struct {
	store Store
	keys  [2]common.Hash
}

// NewReserves returns reserve slots for the pair (assetA, assetB) in store
func NewReserves(store Store, assetA, assetB common.Address) *Reserves {
	return &Reserves{
		store: store,
		keys: [2]common.Hash{
			makeStorageKey(reservePrefix, assetA.Bytes(), assetB.Bytes(), assetA.Bytes()),
			makeStorageKey(reservePrefix, assetA.Bytes(), assetB.Bytes(), assetB.Bytes()),
		},
	}
}

func (r *Reserves) LoadReserves() (*uint256.Int, *uint256.Int, error) {
	a, err := r.store.Get(r.keys[0])
	if err != nil {
		return nil, nil, err
	}
	b, err := r.store.Get(r.keys[1])
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func (r *Reserves) StoreReserves(reserveA, reserveB *uint256.Int) error {
	return r.store.Commit([]Write{
		{Key: r.keys[0], Value: reserveA.Clone()},
		{Key: r.keys[1], Value: reserveB.Clone()},
	})
}

// OperatorSlot keeps the operator of a pair pool in a Store. It satisfies
// auth.Store.
type OperatorSlot struct {
	store Store
	key   common.Hash
}

// NewOperatorSlot returns the operator slot for the pair (assetA, assetB)
func NewOperatorSlot(store Store, assetA, assetB common.Address) *OperatorSlot {
	return &OperatorSlot{store: store, key: makeStorageKey(operatorPrefix, assetA.Bytes(), assetB.Bytes())}
}

func (s *OperatorSlot) LoadOperator() (common.Address, error) {
	v, err := s.store.Get(s.key)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(v.Bytes()), nil
}

func (s *OperatorSlot) SaveOperator(operator common.Address) error {
	return s.store.Commit([]Write{{Key: s.key, Value: new(uint256.Int).SetBytes(operator.Bytes())}})
}
