// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	log "github.com/luxfi/log"
)

// side indexes the two assets of the pool
type side uint8

const (
	sideA side = 0
	sideB side = 1
)

func (s side) other() side { return 1 - s }

func (s side) String() string {
	if s == sideA {
		return "A"
	}
	return "B"
}

// Config holds the collaborators a Pool is built from
type Config struct {
	LedgerA AssetLedger
	LedgerB AssetLedger
	Auth    Authorizer

	// Reserves persists the reserve counters. Optional; the pool keeps them
	// in memory when nil.
	Reserves ReserveStore

	// Events receives LiquidityAdded, LiquidityRemoved and TokensSwapped.
	// Optional.
	Events EventSink

	// Log is optional
	Log log.Logger
}

// Pool is a two-asset liquidity pool.
//
// Reserve counters change only inside AddLiquidity, RemoveLiquidity,
// SwapAForB and SwapBForA, and only stay changed when every external
// transfer of the operation succeeded. A failed operation leaves the pool
// exactly as it was before the call.
type Pool struct {
	ledgers [2]AssetLedger
	auth    Authorizer
	events  EventSink
	log     log.Logger

	// guard prevents reentrancy into mutating operations
	guard guard

	// mu serializes access to reserves
	mu       sync.RWMutex
	reserves ReserveStore
}

// New creates a pool. Reserves start at whatever cfg.Reserves holds, zero for
// a fresh store.
func New(cfg Config) (*Pool, error) {
	if cfg.LedgerA == nil || cfg.LedgerB == nil {
		return nil, fmt.Errorf("%w: nil asset ledger", ErrInvalidConfiguration)
	}
	assetA, assetB := cfg.LedgerA.Asset(), cfg.LedgerB.Asset()
	if assetA == (common.Address{}) || assetB == (common.Address{}) {
		return nil, fmt.Errorf("%w: zero asset identity", ErrInvalidConfiguration)
	}
	if assetA == assetB {
		return nil, fmt.Errorf("%w: assets are identical (%s)", ErrInvalidConfiguration, assetA.Hex())
	}
	if cfg.Auth == nil || cfg.Auth.Operator() == (common.Address{}) {
		return nil, fmt.Errorf("%w: missing operator", ErrInvalidConfiguration)
	}

	events := cfg.Events
	if events == nil {
		events = nopSink{}
	}
	reserves := cfg.Reserves
	if reserves == nil {
		reserves = newMemoryReserves()
	}
	logger := cfg.Log
	if logger == nil {
		logger = log.NewNoOpLogger()
	}

	return &Pool{
		ledgers:  [2]AssetLedger{cfg.LedgerA, cfg.LedgerB},
		auth:     cfg.Auth,
		events:   events,
		log:      logger,
		reserves: reserves,
	}, nil
}

// AssetA returns the identity of asset A
func (p *Pool) AssetA() common.Address { return p.ledgers[sideA].Asset() }

// AssetB returns the identity of asset B
func (p *Pool) AssetB() common.Address { return p.ledgers[sideB].Asset() }

// Operator returns the identity currently allowed to manage liquidity
func (p *Pool) Operator() common.Address { return p.auth.Operator() }

// Reserves returns copies of the current reserve counters
func (p *Pool) Reserves() (reserveA, reserveB *uint256.Int, err error) {
	r, err := p.snapshot()
	if err != nil {
		return nil, nil, err
	}
	return r[sideA], r[sideB], nil
}

// Locked reports whether a mutating operation is in flight
func (p *Pool) Locked() bool { return p.guard.held() }

func (p *Pool) snapshot() ([2]*uint256.Int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	a, b, err := p.reserves.LoadReserves()
	if err != nil {
		return [2]*uint256.Int{}, fmt.Errorf("loading reserves: %w", err)
	}
	return [2]*uint256.Int{a, b}, nil
}

func (p *Pool) store(r [2]*uint256.Int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.reserves.StoreReserves(r[sideA], r[sideB]); err != nil {
		return fmt.Errorf("storing reserves: %w", err)
	}
	return nil
}

// restore puts prev back after a failed settlement
func (p *Pool) restore(prev [2]*uint256.Int, failure error) error {
	if err := p.store(prev); err != nil {
		p.log.Error("restoring reserves failed",
			"reserveA", prev[sideA].Dec(),
			"reserveB", prev[sideB].Dec(),
			"error", err,
		)
		return errors.Join(failure, err)
	}
	return failure
}

func (p *Pool) sideOf(asset common.Address) (side, error) {
	switch asset {
	case p.ledgers[sideA].Asset():
		return sideA, nil
	case p.ledgers[sideB].Asset():
		return sideB, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownAsset, asset.Hex())
	}
}

// =========================================================================
// Liquidity
// =========================================================================

// AddLiquidity deposits amountA of asset A and amountB of asset B from the
// operator into the pool.
func (p *Pool) AddLiquidity(caller common.Address, amountA, amountB *uint256.Int) error {
	release, err := p.guard.acquire()
	if err != nil {
		return err
	}
	defer release()

	if !p.auth.IsOperator(caller) {
		return ErrUnauthorized
	}
	if isZero(amountA) || isZero(amountB) {
		return ErrInvalidAmount
	}
	amountA, amountB = amountA.Clone(), amountB.Clone()

	prev, err := p.snapshot()
	if err != nil {
		return err
	}
	next := prev
	var overflowA, overflowB bool
	next[sideA], overflowA = new(uint256.Int).AddOverflow(prev[sideA], amountA)
	next[sideB], overflowB = new(uint256.Int).AddOverflow(prev[sideB], amountB)
	if overflowA || overflowB {
		return fmt.Errorf("%w: reserve sum", ErrOverflow)
	}

	// Effects before interactions
	if err := p.store(next); err != nil {
		return err
	}

	if err := p.settle(
		leg{ledger: p.ledgers[sideA], dir: inbound, party: caller, amount: amountA},
		leg{ledger: p.ledgers[sideB], dir: inbound, party: caller, amount: amountB},
	); err != nil {
		err = p.restore(prev, err)
		p.log.Warn("add liquidity rolled back", "provider", caller, "error", err)
		return err
	}

	p.log.Debug("liquidity added",
		"provider", caller,
		"amountA", amountA.Dec(),
		"amountB", amountB.Dec(),
	)
	p.events.Emit(Event{
		Kind:    LiquidityAdded,
		Actor:   caller,
		Amount0: amountA,
		Amount1: amountB,
	})
	return nil
}

// RemoveLiquidity withdraws amountA of asset A and amountB of asset B from
// the pool to the operator.
func (p *Pool) RemoveLiquidity(caller common.Address, amountA, amountB *uint256.Int) error {
	release, err := p.guard.acquire()
	if err != nil {
		return err
	}
	defer release()

	if !p.auth.IsOperator(caller) {
		return ErrUnauthorized
	}
	if isZero(amountA) || isZero(amountB) {
		return ErrInvalidAmount
	}
	amountA, amountB = amountA.Clone(), amountB.Clone()

	prev, err := p.snapshot()
	if err != nil {
		return err
	}
	if amountA.Gt(prev[sideA]) || amountB.Gt(prev[sideB]) {
		return fmt.Errorf("%w: requested (%s, %s), reserves (%s, %s)",
			ErrInsufficientReserves, amountA.Dec(), amountB.Dec(), prev[sideA].Dec(), prev[sideB].Dec())
	}

	next := [2]*uint256.Int{
		new(uint256.Int).Sub(prev[sideA], amountA),
		new(uint256.Int).Sub(prev[sideB], amountB),
	}
	if err := p.store(next); err != nil {
		return err
	}

	if err := p.settle(
		leg{ledger: p.ledgers[sideA], dir: outbound, party: caller, amount: amountA},
		leg{ledger: p.ledgers[sideB], dir: outbound, party: caller, amount: amountB},
	); err != nil {
		err = p.restore(prev, err)
		p.log.Warn("remove liquidity rolled back", "provider", caller, "error", err)
		return err
	}

	p.log.Debug("liquidity removed",
		"provider", caller,
		"amountA", amountA.Dec(),
		"amountB", amountB.Dec(),
	)
	p.events.Emit(Event{
		Kind:    LiquidityRemoved,
		Actor:   caller,
		Amount0: amountA,
		Amount1: amountB,
	})
	return nil
}

// =========================================================================
// Swaps
// =========================================================================

// SwapAForB sells amountIn of asset A to the pool and returns the amount of
// asset B sent to the caller.
func (p *Pool) SwapAForB(caller common.Address, amountIn *uint256.Int) (*uint256.Int, error) {
	return p.swap(caller, sideA, amountIn)
}

// SwapBForA sells amountIn of asset B to the pool and returns the amount of
// asset A sent to the caller.
func (p *Pool) SwapBForA(caller common.Address, amountIn *uint256.Int) (*uint256.Int, error) {
	return p.swap(caller, sideB, amountIn)
}

func (p *Pool) swap(caller common.Address, in side, amountIn *uint256.Int) (*uint256.Int, error) {
	release, err := p.guard.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	if isZero(amountIn) {
		return nil, ErrInvalidAmount
	}
	amountIn = amountIn.Clone()
	out := in.other()

	prev, err := p.snapshot()
	if err != nil {
		return nil, err
	}
	amountOut, err := GetAmountOut(amountIn, prev[in], prev[out])
	if err != nil {
		return nil, err
	}

	// GetAmountOut already rejected reserveIn+amountIn overflow and
	// guarantees amountOut < reserveOut.
	next := prev
	next[in] = new(uint256.Int).Add(prev[in], amountIn)
	next[out] = new(uint256.Int).Sub(prev[out], amountOut)
	if err := p.store(next); err != nil {
		return nil, err
	}

	if err := p.settle(
		leg{ledger: p.ledgers[in], dir: inbound, party: caller, amount: amountIn},
		leg{ledger: p.ledgers[out], dir: outbound, party: caller, amount: amountOut},
	); err != nil {
		err = p.restore(prev, err)
		p.log.Warn("swap rolled back", "sender", caller, "in", in, "error", err)
		return nil, err
	}

	p.log.Debug("tokens swapped",
		"sender", caller,
		"in", in,
		"amountIn", amountIn.Dec(),
		"amountOut", amountOut.Dec(),
	)
	p.events.Emit(Event{
		Kind:     TokensSwapped,
		Actor:    caller,
		AssetIn:  p.ledgers[in].Asset(),
		AssetOut: p.ledgers[out].Asset(),
		Amount0:  amountIn,
		Amount1:  amountOut.Clone(),
	})
	return amountOut, nil
}

// Quote returns what a swap of amountIn of assetIn would pay out against the
// current reserves, applying every check the swap itself applies.
func (p *Pool) Quote(assetIn common.Address, amountIn *uint256.Int) (*uint256.Int, error) {
	in, err := p.sideOf(assetIn)
	if err != nil {
		return nil, err
	}
	r, err := p.snapshot()
	if err != nil {
		return nil, err
	}
	return GetAmountOut(amountIn, r[in], r[in.other()])
}

// =========================================================================
// Price
// =========================================================================

// GetPrice returns the price of asset in units of the other asset, scaled
// by PriceScale(). Each direction is computed from the reserves directly.
func (p *Pool) GetPrice(asset common.Address) (*uint256.Int, error) {
	base, err := p.sideOf(asset)
	if err != nil {
		return nil, err
	}
	r, err := p.snapshot()
	if err != nil {
		return nil, err
	}
	return SpotPrice(r[base], r[base.other()])
}

// =========================================================================
// Settlement
// =========================================================================

type direction uint8

const (
	inbound direction = iota
	outbound
)

func (d direction) String() string {
	if d == inbound {
		return "transferIn"
	}
	return "transferOut"
}

// leg is one external transfer of a pool operation
type leg struct {
	ledger AssetLedger
	dir    direction
	party  common.Address
	amount *uint256.Int
}

func (l leg) run() error {
	if l.dir == inbound {
		return l.ledger.TransferIn(l.party, l.amount)
	}
	return l.ledger.TransferOut(l.party, l.amount)
}

// undo applies the inverse transfer of a leg that already settled
func (l leg) undo() error {
	if l.dir == inbound {
		return l.ledger.TransferOut(l.party, l.amount)
	}
	return l.ledger.Reclaim(l.party, l.amount)
}

// settle runs the legs in order. When a leg fails, the legs that already
// settled are reversed newest first so custody matches the restored reserves.
func (p *Pool) settle(legs ...leg) error {
	for i, l := range legs {
		err := l.run()
		if err == nil {
			continue
		}
		failure := fmt.Errorf("%w: %s of %s units of %s: %w",
			ErrTransferFailed, l.dir, l.amount.Dec(), l.ledger.Asset().Hex(), err)

		for j := i - 1; j >= 0; j-- {
			done := legs[j]
			if uerr := done.undo(); uerr != nil {
				p.log.Error("compensating transfer failed",
					"asset", done.ledger.Asset(),
					"party", done.party,
					"amount", done.amount.Dec(),
					"error", uerr,
				)
				failure = errors.Join(failure, fmt.Errorf("reverting %s of %s: %w", done.dir, done.ledger.Asset().Hex(), uerr))
			}
		}
		return failure
	}
	return nil
}

func isZero(x *uint256.Int) bool {
	return x == nil || x.IsZero()
}
