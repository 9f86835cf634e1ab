// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package precompile

import (
	"fmt"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/pairpool/auth"
	"github.com/luxfi/pairpool/ledger"
	"github.com/luxfi/pairpool/pool"
)

func (c *PoolContract) ledgerFor(asset common.Address) (*ledger.Ledger, error) {
	l, ok := c.ledgers[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", pool.ErrUnknownAsset, asset.Hex())
	}
	return l, nil
}

// ledgerWrite handles mint, approve, transfer and transferFrom. The caller
// is the owner of the moved or approved balance; mint is reserved for the
// operator.
func (c *PoolContract) ledgerWrite(sel [4]byte, caller common.Address, args []byte) ([]byte, error) {
	n := 3
	if sel == SelectorTransferFrom {
		n = 4
	}
	w, err := words(args, n)
	if err != nil {
		return nil, err
	}
	addrs, err := decodeAddresses(w, n-1)
	if err != nil {
		return nil, err
	}
	l, err := c.ledgerFor(addrs[0])
	if err != nil {
		return nil, err
	}
	amount := decodeUint(w[n-1])
	asset := addrs[0]

	switch sel {
	case SelectorMint:
		if !c.owner.IsOperator(caller) {
			return nil, auth.ErrUnauthorized
		}
		if err := l.Mint(addrs[1], amount); err != nil {
			return nil, err
		}
		c.emitter.ledgerLog(TopicTransfer, asset, common.Address{}, addrs[1], amount)

	case SelectorApprove:
		if err := l.Approve(caller, addrs[1], amount); err != nil {
			return nil, err
		}
		c.emitter.ledgerLog(TopicApproval, asset, caller, addrs[1], amount)

	case SelectorTransfer:
		if err := l.Transfer(caller, addrs[1], amount); err != nil {
			return nil, err
		}
		c.emitter.ledgerLog(TopicTransfer, asset, caller, addrs[1], amount)

	case SelectorTransferFrom:
		if err := l.TransferFrom(caller, addrs[1], addrs[2], amount); err != nil {
			return nil, err
		}
		c.emitter.ledgerLog(TopicTransfer, asset, addrs[1], addrs[2], amount)
	}
	return encodeBool(true), nil
}

// ledgerView handles balanceOf, allowance and totalSupply
func (c *PoolContract) ledgerView(sel [4]byte, args []byte) ([]byte, error) {
	n := 1
	switch sel {
	case SelectorBalanceOf:
		n = 2
	case SelectorAllowance:
		n = 3
	}
	w, err := words(args, n)
	if err != nil {
		return nil, err
	}
	addrs, err := decodeAddresses(w, n)
	if err != nil {
		return nil, err
	}
	l, err := c.ledgerFor(addrs[0])
	if err != nil {
		return nil, err
	}

	switch sel {
	case SelectorBalanceOf:
		bal, err := l.BalanceOf(addrs[1])
		if err != nil {
			return nil, err
		}
		return encodeUint(bal), nil
	case SelectorAllowance:
		allowed, err := l.Allowance(addrs[1], addrs[2])
		if err != nil {
			return nil, err
		}
		return encodeUint(allowed), nil
	default:
		supply, err := l.TotalSupply()
		if err != nil {
			return nil, err
		}
		return encodeUint(supply), nil
	}
}
