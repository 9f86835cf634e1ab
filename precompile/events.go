// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package precompile

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	ethtypes "github.com/luxfi/geth/core/types"

	"github.com/luxfi/pairpool/pool"
)

// logEmitter turns pool events into EVM logs at the contract address
type logEmitter struct {
	state   *boundState
	address common.Address
}

var _ pool.EventSink = (*logEmitter)(nil)

func (e *logEmitter) Emit(ev pool.Event) {
	topics := []common.Hash{{}, common.BytesToHash(ev.Actor.Bytes())}
	switch ev.Kind {
	case pool.LiquidityAdded:
		topics[0] = TopicLiquidityAdded
	case pool.LiquidityRemoved:
		topics[0] = TopicLiquidityRemoved
	case pool.TokensSwapped:
		topics[0] = TopicTokensSwapped
		topics = append(topics, common.BytesToHash(ev.AssetIn.Bytes()))
	default:
		return
	}
	e.state.AddLog(&ethtypes.Log{
		Address: e.address,
		Topics:  topics,
		Data:    encodeUint(ev.Amount0, ev.Amount1),
	})
}

// ledgerLog records a Transfer or Approval of one of the pool assets. The
// asset and both parties are indexed.
func (e *logEmitter) ledgerLog(topic common.Hash, asset, from, to common.Address, amount *uint256.Int) {
	e.state.AddLog(&ethtypes.Log{
		Address: e.address,
		Topics: []common.Hash{
			topic,
			common.BytesToHash(asset.Bytes()),
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		Data: encodeUint(amount),
	})
}
