// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package precompile

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/crypto"
)

const wordSize = 32

// Function selectors (first 4 bytes of keccak256 of function signature)
var (
	// Mutating functions
	SelectorAddLiquidity      = selector("addLiquidity(uint256,uint256)")
	SelectorRemoveLiquidity   = selector("removeLiquidity(uint256,uint256)")
	SelectorSwapAForB         = selector("swapAforB(uint256)")
	SelectorSwapBForA         = selector("swapBforA(uint256)")
	SelectorTransferOwnership = selector("transferOwnership(address)")

	// Asset ledger functions. The first argument names the asset.
	SelectorMint         = selector("mint(address,address,uint256)")
	SelectorApprove      = selector("approve(address,address,uint256)")
	SelectorTransfer     = selector("transfer(address,address,uint256)")
	SelectorTransferFrom = selector("transferFrom(address,address,address,uint256)")

	// View functions
	SelectorGetPrice    = selector("getPrice(address)")
	SelectorGetReserves = selector("getReserves()")
	SelectorQuote       = selector("quote(address,uint256)")
	SelectorOperator    = selector("operator()")
	SelectorBalanceOf   = selector("balanceOf(address,address)")
	SelectorAllowance   = selector("allowance(address,address,address)")
	SelectorTotalSupply = selector("totalSupply(address)")
)

// Event topics
var (
	TopicLiquidityAdded   = crypto.Keccak256Hash([]byte("LiquidityAdded(address,uint256,uint256)"))
	TopicLiquidityRemoved = crypto.Keccak256Hash([]byte("LiquidityRemoved(address,uint256,uint256)"))
	TopicTokensSwapped    = crypto.Keccak256Hash([]byte("TokensSwapped(address,address,uint256,uint256)"))
	TopicTransfer         = crypto.Keccak256Hash([]byte("Transfer(address,address,address,uint256)"))
	TopicApproval         = crypto.Keccak256Hash([]byte("Approval(address,address,address,uint256)"))
)

func selector(signature string) [4]byte {
	var s [4]byte
	copy(s[:], crypto.Keccak256([]byte(signature))[:4])
	return s
}

// words splits args into exactly n 32-byte words
func words(args []byte, n int) ([][]byte, error) {
	if len(args) != n*wordSize {
		return nil, ErrInvalidInput
	}
	out := make([][]byte, n)
	for i := range out {
		out[i] = args[i*wordSize : (i+1)*wordSize]
	}
	return out, nil
}

func decodeUint(word []byte) *uint256.Int {
	return new(uint256.Int).SetBytes(word)
}

// decodeAddress rejects words with non-zero high bytes
func decodeAddress(word []byte) (common.Address, error) {
	for _, b := range word[:wordSize-common.AddressLength] {
		if b != 0 {
			return common.Address{}, ErrInvalidInput
		}
	}
	return common.BytesToAddress(word), nil
}

// decodeAddresses decodes the first n words of w as addresses
func decodeAddresses(w [][]byte, n int) ([]common.Address, error) {
	out := make([]common.Address, n)
	for i := range out {
		addr, err := decodeAddress(w[i])
		if err != nil {
			return nil, err
		}
		out[i] = addr
	}
	return out, nil
}

func encodeBool(v bool) []byte {
	out := make([]byte, wordSize)
	if v {
		out[wordSize-1] = 1
	}
	return out
}

func encodeUint(values ...*uint256.Int) []byte {
	out := make([]byte, 0, len(values)*wordSize)
	for _, v := range values {
		b := v.Bytes32()
		out = append(out, b[:]...)
	}
	return out
}

func encodeAddress(addr common.Address) []byte {
	return common.LeftPadBytes(addr.Bytes(), wordSize)
}
