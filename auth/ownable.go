// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package auth holds the single privileged identity of a pair pool.
package auth

import (
	"errors"
	"sync"

	"github.com/luxfi/geth/common"
)

// Errors
var (
	ErrUnauthorized   = errors.New("unauthorized: caller is not operator")
	ErrInvalidAddress = errors.New("invalid address: cannot be zero")
)

// Store persists the operator. LoadOperator returns the zero address when
// nothing has been saved.
type Store interface {
	LoadOperator() (common.Address, error)
	SaveOperator(common.Address) error
}

type memoryStore struct {
	operator common.Address
}

func (m *memoryStore) LoadOperator() (common.Address, error) { return m.operator, nil }

func (m *memoryStore) SaveOperator(operator common.Address) error {
	m.operator = operator
	return nil
}

// Ownable records the current operator and lets it hand the role over
type Ownable struct {
	mu      sync.RWMutex
	store   Store
	initial common.Address
}

// NewOwnable returns an in-memory Ownable with operator as the initial
// operator
func NewOwnable(operator common.Address) (*Ownable, error) {
	return NewStoredOwnable(&memoryStore{}, operator)
}

// NewStoredOwnable returns an Ownable kept in store. initial is the operator
// until the first hand-over is saved.
func NewStoredOwnable(store Store, initial common.Address) (*Ownable, error) {
	if initial == (common.Address{}) {
		return nil, ErrInvalidAddress
	}
	if store == nil {
		return nil, errors.New("nil operator store")
	}
	return &Ownable{store: store, initial: initial}, nil
}

// Operator returns the current operator, or the zero address when the store
// cannot be read.
func (o *Ownable) Operator() common.Address {
	o.mu.RLock()
	defer o.mu.RUnlock()
	op, err := o.load()
	if err != nil {
		return common.Address{}
	}
	return op
}

// IsOperator reports whether caller is the current operator
func (o *Ownable) IsOperator(caller common.Address) bool {
	op := o.Operator()
	return op != (common.Address{}) && caller == op
}

// TransferOwnership makes next the operator. Only the current operator may
// call it.
func (o *Ownable) TransferOwnership(caller, next common.Address) error {
	if next == (common.Address{}) {
		return ErrInvalidAddress
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	op, err := o.load()
	if err != nil {
		return err
	}
	if caller != op {
		return ErrUnauthorized
	}
	return o.store.SaveOperator(next)
}

// load must be called with o.mu held
func (o *Ownable) load() (common.Address, error) {
	op, err := o.store.LoadOperator()
	if err != nil {
		return common.Address{}, err
	}
	if op == (common.Address{}) {
		return o.initial, nil
	}
	return op, nil
}
