// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"errors"
	"sync"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

var (
	testAssetA   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testAssetB   = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testOperator = common.HexToAddress("0x3333333333333333333333333333333333333333")
	testTrader   = common.HexToAddress("0x4444444444444444444444444444444444444444")

	errInjected = errors.New("injected ledger failure")
	errNoFunds  = errors.New("insufficient balance")
)

// mockLedger is an in-memory AssetLedger with failure injection and a hook
// invoked from inside every transfer request.
type mockLedger struct {
	mu       sync.Mutex
	asset    common.Address
	balances map[common.Address]*uint256.Int
	custody  *uint256.Int

	failIn  bool
	failOut bool

	// onTransfer runs before the transfer is applied. A non-nil return
	// fails the transfer.
	onTransfer func() error

	calls    int
	reclaims int
}

func newMockLedger(asset common.Address) *mockLedger {
	return &mockLedger{
		asset:    asset,
		balances: make(map[common.Address]*uint256.Int),
		custody:  new(uint256.Int),
	}
}

func (m *mockLedger) fund(holder common.Address, amount uint64) {
	m.fundInt(holder, uint256.NewInt(amount))
}

func (m *mockLedger) fundInt(holder common.Address, amount *uint256.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[holder] = new(uint256.Int).Add(m.balanceLocked(holder), amount)
}

func (m *mockLedger) balanceOf(holder common.Address) *uint256.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balanceLocked(holder).Clone()
}

func (m *mockLedger) held() *uint256.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.custody.Clone()
}

func (m *mockLedger) balanceLocked(holder common.Address) *uint256.Int {
	if b, ok := m.balances[holder]; ok {
		return b
	}
	return new(uint256.Int)
}

func (m *mockLedger) Asset() common.Address { return m.asset }

func (m *mockLedger) TransferIn(from common.Address, amount *uint256.Int) error {
	return m.pull(from, amount)
}

// Reclaim shares the TransferIn path, so failIn also freezes compensation.
func (m *mockLedger) Reclaim(from common.Address, amount *uint256.Int) error {
	m.mu.Lock()
	m.reclaims++
	m.mu.Unlock()
	return m.pull(from, amount)
}

func (m *mockLedger) pull(from common.Address, amount *uint256.Int) error {
	if err := m.before(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failIn {
		return errInjected
	}
	bal := m.balanceLocked(from)
	if bal.Lt(amount) {
		return errNoFunds
	}
	m.balances[from] = new(uint256.Int).Sub(bal, amount)
	m.custody = new(uint256.Int).Add(m.custody, amount)
	return nil
}

func (m *mockLedger) TransferOut(to common.Address, amount *uint256.Int) error {
	if err := m.before(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failOut {
		return errInjected
	}
	if m.custody.Lt(amount) {
		return errNoFunds
	}
	m.custody = new(uint256.Int).Sub(m.custody, amount)
	m.balances[to] = new(uint256.Int).Add(m.balanceLocked(to), amount)
	return nil
}

func (m *mockLedger) before() error {
	m.mu.Lock()
	hook := m.onTransfer
	m.mu.Unlock()
	if hook != nil {
		return hook()
	}
	return nil
}

// flakyReserves is a ReserveStore whose writes can be made to fail
type flakyReserves struct {
	memoryReserves
	failStore bool
	failLoad  bool
}

func (f *flakyReserves) LoadReserves() (*uint256.Int, *uint256.Int, error) {
	if f.failLoad {
		return nil, nil, errInjected
	}
	return f.memoryReserves.LoadReserves()
}

func (f *flakyReserves) StoreReserves(reserveA, reserveB *uint256.Int) error {
	if f.failStore {
		return errInjected
	}
	return f.memoryReserves.StoreReserves(reserveA, reserveB)
}

type staticOperator common.Address

func (o staticOperator) Operator() common.Address { return common.Address(o) }

func (o staticOperator) IsOperator(caller common.Address) bool {
	return caller == common.Address(o)
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) Emit(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recordingSink) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

type fixture struct {
	pool    *Pool
	ledgerA *mockLedger
	ledgerB *mockLedger
	events  *recordingSink
}

func newFixture() (*fixture, error) {
	f := &fixture{
		ledgerA: newMockLedger(testAssetA),
		ledgerB: newMockLedger(testAssetB),
		events:  &recordingSink{},
	}
	p, err := New(Config{
		LedgerA: f.ledgerA,
		LedgerB: f.ledgerB,
		Auth:    staticOperator(testOperator),
		Events:  f.events,
	})
	if err != nil {
		return nil, err
	}
	f.pool = p
	return f, nil
}

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }
