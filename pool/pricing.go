// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"fmt"

	"github.com/holiman/uint256"
)

// GetAmountOut returns the output of swapping amountIn against the given
// reserves using the fee-less constant product formula
//
//	amountOut = floor(amountIn * reserveOut / (reserveIn + amountIn))
//
// The product is carried in 512 bits so it never overflows. The result must
// leave at least one unit of reserveOut behind.
func GetAmountOut(amountIn, reserveIn, reserveOut *uint256.Int) (*uint256.Int, error) {
	if amountIn == nil || amountIn.IsZero() {
		return nil, ErrInvalidAmount
	}
	if reserveIn == nil || reserveOut == nil || reserveIn.IsZero() || reserveOut.IsZero() {
		return nil, ErrEmptyReserves
	}

	denominator, overflow := new(uint256.Int).AddOverflow(reserveIn, amountIn)
	if overflow {
		return nil, fmt.Errorf("%w: reserveIn=%s amountIn=%s", ErrOverflow, reserveIn, amountIn)
	}

	amountOut, overflow := new(uint256.Int).MulDivOverflow(amountIn, reserveOut, denominator)
	if overflow {
		return nil, fmt.Errorf("%w: amountOut", ErrOverflow)
	}

	if amountOut.IsZero() {
		return nil, ErrOutputTooSmall
	}
	if !amountOut.Lt(reserveOut) {
		return nil, fmt.Errorf("%w: amountOut=%s reserveOut=%s", ErrReservesExceeded, amountOut, reserveOut)
	}
	return amountOut, nil
}

// SpotPrice returns the price of the base asset in units of the quote asset,
// scaled by PriceScale: floor(reserveQuote * 10^18 / reserveBase).
func SpotPrice(reserveBase, reserveQuote *uint256.Int) (*uint256.Int, error) {
	if reserveBase == nil || reserveQuote == nil || reserveBase.IsZero() || reserveQuote.IsZero() {
		return nil, ErrEmptyReserves
	}
	price, overflow := new(uint256.Int).MulDivOverflow(reserveQuote, PriceScale(), reserveBase)
	if overflow {
		return nil, fmt.Errorf("%w: price of reserves %s/%s", ErrOverflow, reserveQuote, reserveBase)
	}
	return price, nil
}
