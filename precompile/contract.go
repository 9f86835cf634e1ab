// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package precompile exposes a pair pool as a stateful precompiled contract.
// Both assets are ledgers kept in contract storage at the asset address; the
// contract address itself holds pool custody, the reserve counters and the
// operator.
package precompile

import (
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	log "github.com/luxfi/log"
	"github.com/luxfi/precompile/contract"

	"github.com/luxfi/pairpool/auth"
	"github.com/luxfi/pairpool/ledger"
	"github.com/luxfi/pairpool/pool"
)

var _ contract.StatefulPrecompiledContract = (*PoolContract)(nil)

// ContractAddress is where the pair pool precompile lives
var ContractAddress = common.HexToAddress("0x0000000000000000000000000000000000009016")

// Gas costs
const (
	GasAddLiquidity      uint64 = 20_000
	GasRemoveLiquidity   uint64 = 20_000
	GasSwap              uint64 = 10_000
	GasTransferOwnership uint64 = 5_000
	GasLedgerWrite       uint64 = 5_000
	GasPoolLookup        uint64 = 100
)

// Errors
var (
	ErrInvalidConfig   = errors.New("invalid pair pool config")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInsufficientGas = contract.ErrOutOfGas
	ErrWriteProtection = errors.New("write protection: state change in read-only call")
	ErrUnknownSelector = errors.New("unknown function selector")
	ErrDisabled        = errors.New("pair pool precompile is disabled")
	ErrNoState         = errors.New("no state database available")
)

// PoolContract routes ABI-encoded calls to a pool
type PoolContract struct {
	mu      sync.Mutex
	cfg     Config
	state   *boundState
	ledgers map[common.Address]*ledger.Ledger
	pool    *pool.Pool
	owner   *auth.Ownable
	emitter *logEmitter
	log     log.Logger
}

// NewPoolContract builds the pool, its ledgers and its operator from cfg.
// Everything the pool keeps lives in the state database of the call, so a
// contract built over existing state picks up where the last one left off.
// Events go to the EVM log and to every extra sink.
func NewPoolContract(cfg *Config, logger log.Logger, sinks ...pool.EventSink) (*PoolContract, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNoOpLogger()
	}

	state := &boundState{}
	ledgerA, err := ledger.New(cfg.AssetA, ContractAddress, ledger.NewStateStore(state, cfg.AssetA))
	if err != nil {
		return nil, fmt.Errorf("ledger A: %w", err)
	}
	ledgerB, err := ledger.New(cfg.AssetB, ContractAddress, ledger.NewStateStore(state, cfg.AssetB))
	if err != nil {
		return nil, fmt.Errorf("ledger B: %w", err)
	}
	self := ledger.NewStateStore(state, ContractAddress)
	owner, err := auth.NewStoredOwnable(ledger.NewOperatorSlot(self, cfg.AssetA, cfg.AssetB), cfg.Operator)
	if err != nil {
		return nil, fmt.Errorf("operator: %w", err)
	}

	emitter := &logEmitter{state: state, address: ContractAddress}
	events := pool.MultiSink{emitter}
	events = append(events, sinks...)
	p, err := pool.New(pool.Config{
		LedgerA:  ledgerA,
		LedgerB:  ledgerB,
		Auth:     owner,
		Reserves: ledger.NewReserves(self, cfg.AssetA, cfg.AssetB),
		Events:   events,
		Log:      logger,
	})
	if err != nil {
		return nil, err
	}

	return &PoolContract{
		cfg:     *cfg,
		state:   state,
		ledgers: map[common.Address]*ledger.Ledger{cfg.AssetA: ledgerA, cfg.AssetB: ledgerB},
		pool:    p,
		owner:   owner,
		emitter: emitter,
		log:     logger,
	}, nil
}

// RequiredGas returns the gas charged for input, zero for an unknown selector
func (c *PoolContract) RequiredGas(input []byte) uint64 {
	if len(input) < 4 {
		return 0
	}
	gas, _, _ := gasFor([4]byte(input[:4]))
	return gas
}

// Run executes the pair pool precompile
func (c *PoolContract) Run(
	accessibleState contract.AccessibleState,
	caller common.Address,
	addr common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if c.cfg.Disabled {
		return nil, suppliedGas, ErrDisabled
	}
	if len(input) < 4 {
		return nil, suppliedGas, ErrInvalidInput
	}

	var sel [4]byte
	copy(sel[:], input[:4])
	args := input[4:]

	gas, mutating, ok := gasFor(sel)
	if !ok {
		return nil, suppliedGas, fmt.Errorf("%w: %x", ErrUnknownSelector, sel)
	}
	if suppliedGas < gas {
		return nil, 0, fmt.Errorf("%w: need %d, have %d", ErrInsufficientGas, gas, suppliedGas)
	}
	remainingGas := suppliedGas - gas
	if mutating && readOnly {
		return nil, remainingGas, ErrWriteProtection
	}
	if accessibleState == nil || accessibleState.GetStateDB() == nil {
		return nil, remainingGas, ErrNoState
	}
	stateDB := &stateAdapter{accessibleState.GetStateDB()}

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.state.bind(stateDB)()

	if !mutating {
		ret, err := c.view(sel, args)
		return ret, remainingGas, err
	}

	snapshot := stateDB.Snapshot()
	ret, err := c.mutate(sel, caller, args)
	if err != nil {
		stateDB.RevertToSnapshot(snapshot)
		c.log.Debug("pair pool call reverted",
			"caller", caller,
			"selector", fmt.Sprintf("%x", sel),
			"error", err,
		)
		return nil, remainingGas, err
	}
	return ret, remainingGas, nil
}

func gasFor(sel [4]byte) (gas uint64, mutating bool, ok bool) {
	switch sel {
	case SelectorAddLiquidity:
		return GasAddLiquidity, true, true
	case SelectorRemoveLiquidity:
		return GasRemoveLiquidity, true, true
	case SelectorSwapAForB, SelectorSwapBForA:
		return GasSwap, true, true
	case SelectorTransferOwnership:
		return GasTransferOwnership, true, true
	case SelectorMint, SelectorApprove, SelectorTransfer, SelectorTransferFrom:
		return GasLedgerWrite, true, true
	case SelectorGetPrice, SelectorGetReserves, SelectorQuote, SelectorOperator,
		SelectorBalanceOf, SelectorAllowance, SelectorTotalSupply:
		return GasPoolLookup, false, true
	}
	return 0, false, false
}

func (c *PoolContract) mutate(sel [4]byte, caller common.Address, args []byte) ([]byte, error) {
	switch sel {
	case SelectorAddLiquidity, SelectorRemoveLiquidity:
		w, err := words(args, 2)
		if err != nil {
			return nil, err
		}
		amountA, amountB := decodeUint(w[0]), decodeUint(w[1])
		if sel == SelectorAddLiquidity {
			err = c.pool.AddLiquidity(caller, amountA, amountB)
		} else {
			err = c.pool.RemoveLiquidity(caller, amountA, amountB)
		}
		return nil, err

	case SelectorSwapAForB, SelectorSwapBForA:
		w, err := words(args, 1)
		if err != nil {
			return nil, err
		}
		var out *uint256.Int
		if sel == SelectorSwapAForB {
			out, err = c.pool.SwapAForB(caller, decodeUint(w[0]))
		} else {
			out, err = c.pool.SwapBForA(caller, decodeUint(w[0]))
		}
		if err != nil {
			return nil, err
		}
		return encodeUint(out), nil

	case SelectorTransferOwnership:
		w, err := words(args, 1)
		if err != nil {
			return nil, err
		}
		next, err := decodeAddress(w[0])
		if err != nil {
			return nil, err
		}
		return nil, c.owner.TransferOwnership(caller, next)

	case SelectorMint, SelectorApprove, SelectorTransfer, SelectorTransferFrom:
		return c.ledgerWrite(sel, caller, args)
	}
	return nil, ErrUnknownSelector
}

func (c *PoolContract) view(sel [4]byte, args []byte) ([]byte, error) {
	switch sel {
	case SelectorGetPrice:
		w, err := words(args, 1)
		if err != nil {
			return nil, err
		}
		asset, err := decodeAddress(w[0])
		if err != nil {
			return nil, err
		}
		price, err := c.pool.GetPrice(asset)
		if err != nil {
			return nil, err
		}
		return encodeUint(price), nil

	case SelectorGetReserves:
		if len(args) != 0 {
			return nil, ErrInvalidInput
		}
		reserveA, reserveB, err := c.pool.Reserves()
		if err != nil {
			return nil, err
		}
		return encodeUint(reserveA, reserveB), nil

	case SelectorQuote:
		w, err := words(args, 2)
		if err != nil {
			return nil, err
		}
		asset, err := decodeAddress(w[0])
		if err != nil {
			return nil, err
		}
		out, err := c.pool.Quote(asset, decodeUint(w[1]))
		if err != nil {
			return nil, err
		}
		return encodeUint(out), nil

	case SelectorOperator:
		if len(args) != 0 {
			return nil, ErrInvalidInput
		}
		return encodeAddress(c.owner.Operator()), nil

	case SelectorBalanceOf, SelectorAllowance, SelectorTotalSupply:
		return c.ledgerView(sel, args)
	}
	return nil, ErrUnknownSelector
}
