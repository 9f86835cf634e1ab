// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pool implements the reserve accounting and swap pricing engine of a
// two-asset liquidity pool. The pool custodies two fungible assets through
// external ledgers, lets a single operator add and remove paired liquidity and
// lets anyone swap one asset for the other against the current reserves.
package pool

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

const priceScale uint64 = 1_000_000_000_000_000_000

// PriceScale returns the fixed-point scale of GetPrice results (10^18).
func PriceScale() *uint256.Int { return uint256.NewInt(priceScale) }

// AssetLedger moves units of one fungible asset in and out of pool custody.
// Both transfers either move the full amount or nothing.
type AssetLedger interface {
	// Asset returns the identity of the asset this ledger tracks.
	Asset() common.Address
	// TransferIn moves amount units from from's balance into pool custody.
	TransferIn(from common.Address, amount *uint256.Int) error
	// TransferOut moves amount units from pool custody to to.
	TransferOut(to common.Address, amount *uint256.Int) error
	// Reclaim moves amount units from from back into pool custody without
	// spending an allowance. The pool only calls it to reverse a TransferOut
	// of the same operation.
	Reclaim(from common.Address, amount *uint256.Int) error
}

// ReserveStore persists the two reserve counters. StoreReserves writes both
// or neither.
type ReserveStore interface {
	LoadReserves() (reserveA, reserveB *uint256.Int, err error)
	StoreReserves(reserveA, reserveB *uint256.Int) error
}

// memoryReserves keeps the counters in process memory
type memoryReserves struct {
	reserves [2]*uint256.Int
}

func newMemoryReserves() *memoryReserves {
	return &memoryReserves{reserves: [2]*uint256.Int{new(uint256.Int), new(uint256.Int)}}
}

func (m *memoryReserves) LoadReserves() (*uint256.Int, *uint256.Int, error) {
	return m.reserves[0].Clone(), m.reserves[1].Clone(), nil
}

func (m *memoryReserves) StoreReserves(reserveA, reserveB *uint256.Int) error {
	m.reserves = [2]*uint256.Int{reserveA.Clone(), reserveB.Clone()}
	return nil
}

// Authorizer names the single identity allowed to add and remove liquidity.
type Authorizer interface {
	Operator() common.Address
	IsOperator(caller common.Address) bool
}

// EventKind identifies an observable pool event
type EventKind uint8

const (
	LiquidityAdded EventKind = iota + 1
	LiquidityRemoved
	TokensSwapped
)

func (k EventKind) String() string {
	switch k {
	case LiquidityAdded:
		return "LiquidityAdded"
	case LiquidityRemoved:
		return "LiquidityRemoved"
	case TokensSwapped:
		return "TokensSwapped"
	default:
		return "Unknown"
	}
}

// Event is emitted after a mutating operation succeeds.
//
// For liquidity events Amount0 and Amount1 are the asset A and asset B
// amounts. For swaps Amount0 is the input amount of AssetIn and Amount1 is
// the output amount of AssetOut.
type Event struct {
	Kind     EventKind
	Actor    common.Address
	AssetIn  common.Address // zero for liquidity events
	AssetOut common.Address // zero for liquidity events
	Amount0  *uint256.Int
	Amount1  *uint256.Int
}

// EventSink receives pool events
type EventSink interface {
	Emit(Event)
}

// MultiSink delivers every event to each of its sinks in order
type MultiSink []EventSink

func (m MultiSink) Emit(ev Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(ev)
		}
	}
}

type nopSink struct{}

func (nopSink) Emit(Event) {}

// Errors
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrEmptyReserves        = errors.New("empty reserves")
	ErrOutputTooSmall       = errors.New("output amount too small")
	ErrReservesExceeded     = errors.New("output exceeds reserves")
	ErrInsufficientReserves = errors.New("insufficient reserves")
	ErrUnknownAsset         = errors.New("unknown asset")
	ErrTransferFailed       = errors.New("transfer failed")
	ErrUnauthorized         = errors.New("unauthorized: caller is not operator")
	ErrReentrancy           = errors.New("reentrancy detected")
	ErrOverflow             = errors.New("uint256 overflow")
)
