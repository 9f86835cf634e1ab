// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger implements a fungible asset ledger with balances and
// allowances. A Ledger can serve as the asset collaborator of a pair pool:
// TransferIn pulls an approved amount into the custodian account and
// TransferOut pays out of it.
package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// Errors
var (
	ErrInvalidAddress        = errors.New("invalid address: cannot be zero")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrBalanceOverflow       = errors.New("balance overflow")
)

// Ledger tracks one fungible asset
type Ledger struct {
	mu        sync.Mutex
	asset     common.Address
	custodian common.Address
	store     Store
}

// New creates a ledger for asset whose pool-facing transfers settle against
// the custodian account.
func New(asset, custodian common.Address, store Store) (*Ledger, error) {
	if asset == (common.Address{}) || custodian == (common.Address{}) {
		return nil, ErrInvalidAddress
	}
	if store == nil {
		return nil, errors.New("nil ledger store")
	}
	return &Ledger{asset: asset, custodian: custodian, store: store}, nil
}

// Asset returns the asset identity
func (l *Ledger) Asset() common.Address { return l.asset }

// Custodian returns the account holding pool custody
func (l *Ledger) Custodian() common.Address { return l.custodian }

func (l *Ledger) balanceKey(holder common.Address) common.Hash {
	return makeStorageKey(balancePrefix, l.asset.Bytes(), holder.Bytes())
}

func (l *Ledger) allowanceKey(owner, spender common.Address) common.Hash {
	return makeStorageKey(allowancePrefix, l.asset.Bytes(), owner.Bytes(), spender.Bytes())
}

func (l *Ledger) supplyKey() common.Hash {
	return makeStorageKey(supplyPrefix, l.asset.Bytes())
}

// BalanceOf returns holder's balance
func (l *Ledger) BalanceOf(holder common.Address) (*uint256.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Get(l.balanceKey(holder))
}

// Allowance returns how much spender may move out of owner's balance
func (l *Ledger) Allowance(owner, spender common.Address) (*uint256.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Get(l.allowanceKey(owner, spender))
}

// TotalSupply returns the sum of all minted units
func (l *Ledger) TotalSupply() (*uint256.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Get(l.supplyKey())
}

// Approve sets spender's allowance over owner's balance
func (l *Ledger) Approve(owner, spender common.Address, amount *uint256.Int) error {
	if owner == (common.Address{}) || spender == (common.Address{}) {
		return ErrInvalidAddress
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Commit([]Write{{Key: l.allowanceKey(owner, spender), Value: amount.Clone()}})
}

// Mint credits amount new units to to
func (l *Ledger) Mint(to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return ErrInvalidAddress
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	supply, err := l.store.Get(l.supplyKey())
	if err != nil {
		return err
	}
	bal, err := l.store.Get(l.balanceKey(to))
	if err != nil {
		return err
	}
	newSupply, overflow := new(uint256.Int).AddOverflow(supply, amount)
	if overflow {
		return ErrBalanceOverflow
	}
	// bal <= supply, so this cannot overflow once the supply sum did not
	newBal := new(uint256.Int).Add(bal, amount)

	return l.store.Commit([]Write{
		{Key: l.supplyKey(), Value: newSupply},
		{Key: l.balanceKey(to), Value: newBal},
	})
}

// Transfer moves amount from from to to
func (l *Ledger) Transfer(from, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return ErrInvalidAddress
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transfer(from, to, amount, nil)
}

// TransferFrom moves amount from from to to, spending spender's allowance
func (l *Ledger) TransferFrom(spender, from, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return ErrInvalidAddress
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transfer(from, to, amount, &spender)
}

// TransferIn moves amount from from into custody. from must have approved
// the custodian for at least amount.
func (l *Ledger) TransferIn(from common.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transfer(from, l.custodian, amount, &l.custodian)
}

// TransferOut pays amount out of custody to to
func (l *Ledger) TransferOut(to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return ErrInvalidAddress
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transfer(l.custodian, to, amount, nil)
}

// Reclaim moves amount from from back into custody without touching an
// allowance. It reverses a TransferOut to from that the pool has to undo.
func (l *Ledger) Reclaim(from common.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transfer(from, l.custodian, amount, nil)
}

// transfer computes every slot update first and commits them in one call,
// so a failed check leaves the store untouched. Callers hold l.mu.
func (l *Ledger) transfer(from, to common.Address, amount *uint256.Int, spender *common.Address) error {
	if amount == nil {
		return fmt.Errorf("%w: nil amount", ErrInsufficientBalance)
	}

	var writes []Write
	if spender != nil && *spender != from {
		key := l.allowanceKey(from, *spender)
		allowed, err := l.store.Get(key)
		if err != nil {
			return err
		}
		if allowed.Lt(amount) {
			return fmt.Errorf("%w: %s approved %s, need %s", ErrInsufficientAllowance, from.Hex(), allowed.Dec(), amount.Dec())
		}
		writes = append(writes, Write{Key: key, Value: new(uint256.Int).Sub(allowed, amount)})
	}

	fromBal, err := l.store.Get(l.balanceKey(from))
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return fmt.Errorf("%w: %s holds %s, need %s", ErrInsufficientBalance, from.Hex(), fromBal.Dec(), amount.Dec())
	}
	if from == to {
		return l.store.Commit(writes)
	}

	toBal, err := l.store.Get(l.balanceKey(to))
	if err != nil {
		return err
	}
	newTo, overflow := new(uint256.Int).AddOverflow(toBal, amount)
	if overflow {
		return ErrBalanceOverflow
	}
	writes = append(writes,
		Write{Key: l.balanceKey(from), Value: new(uint256.Int).Sub(fromBal, amount)},
		Write{Key: l.balanceKey(to), Value: newTo},
	)
	return l.store.Commit(writes)
}
