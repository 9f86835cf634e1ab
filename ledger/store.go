// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/database"
	"github.com/luxfi/geth/common"
	"github.com/zeebo/blake3"
)

// Storage key prefixes for ledger state
var (
	balancePrefix   = []byte("bal")
	allowancePrefix = []byte("alw")
	supplyPrefix    = []byte("sup")
)

// makeStorageKey creates a storage key from prefix and identifiers
func makeStorageKey(prefix []byte, ids ...[]byte) common.Hash {
	h := blake3.New()
	h.Write(prefix)
	for _, id := range ids {
		h.Write(id)
	}
	var key common.Hash
	h.Digest().Read(key[:])
	return key
}

// Write is a single slot update
type Write struct {
	Key   common.Hash
	Value *uint256.Int
}

// Store persists ledger slots. Commit applies all writes or none.
type Store interface {
	Get(key common.Hash) (*uint256.Int, error)
	Commit(writes []Write) error
}

// StateDB is the subset of EVM state a StateStore needs
type StateDB interface {
	GetState(addr common.Address, key common.Hash) common.Hash
	SetState(addr common.Address, key common.Hash, value common.Hash)
}

// StateStore keeps ledger slots in the storage of account addr
type StateStore struct {
	state StateDB
	addr  common.Address
}

// NewStateStore returns a store writing to addr's storage in state
func NewStateStore(state StateDB, addr common.Address) *StateStore {
	return &StateStore{state: state, addr: addr}
}

func (s *StateStore) Get(key common.Hash) (*uint256.Int, error) {
	val := s.state.GetState(s.addr, key)
	return new(uint256.Int).SetBytes32(val[:]), nil
}

// Commit writes every slot. StateDB writes cannot fail, so the batch is
// applied as a whole; reverting is left to the caller's state snapshot.
func (s *StateStore) Commit(writes []Write) error {
	for _, w := range writes {
		s.state.SetState(s.addr, w.Key, common.Hash(w.Value.Bytes32()))
	}
	return nil
}

// DBStore keeps ledger slots in a key-value database. Commit goes through a
// single batch.
type DBStore struct {
	db database.Database
}

// NewDBStore returns a store backed by db
func NewDBStore(db database.Database) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Get(key common.Hash) (*uint256.Int, error) {
	val, err := s.db.Get(key[:])
	if errors.Is(err, database.ErrNotFound) {
		return new(uint256.Int), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", key.Hex(), err)
	}
	return new(uint256.Int).SetBytes(val), nil
}

func (s *DBStore) Commit(writes []Write) error {
	batch := s.db.NewBatch()
	for _, w := range writes {
		if w.Value.IsZero() {
			if err := batch.Delete(w.Key[:]); err != nil {
				return err
			}
			continue
		}
		if err := batch.Put(w.Key[:], w.Value.Bytes()); err != nil {
			return err
		}
	}
	return batch.Write()
}
