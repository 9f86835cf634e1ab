// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics counts pair pool events with Prometheus.
package metrics

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/pairpool/pool"
)

const namespace = "pairpool"

// Volume directions, seen from the pool
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

var _ pool.EventSink = (*Sink)(nil)

// Sink records every pool event it receives
type Sink struct {
	assetA common.Address
	assetB common.Address

	events *prometheus.CounterVec
	volume *prometheus.CounterVec
}

// NewSink registers the pool collectors on reg
func NewSink(reg prometheus.Registerer, assetA, assetB common.Address) (*Sink, error) {
	if reg == nil {
		return nil, errors.New("metrics: registerer cannot be nil")
	}
	s := &Sink{
		assetA: assetA,
		assetB: assetB,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Number of pool events by kind.",
		}, []string{"kind"}),
		volume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "volume_units_total",
			Help:      "Asset units moved into or out of the pool.",
		}, []string{"asset", "direction"}),
	}
	for _, c := range []prometheus.Collector{s.events, s.volume} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
	}
	return s, nil
}

// Emit implements pool.EventSink
func (s *Sink) Emit(ev pool.Event) {
	s.events.WithLabelValues(ev.Kind.String()).Inc()

	switch ev.Kind {
	case pool.LiquidityAdded:
		s.add(s.assetA, DirectionIn, ev.Amount0)
		s.add(s.assetB, DirectionIn, ev.Amount1)
	case pool.LiquidityRemoved:
		s.add(s.assetA, DirectionOut, ev.Amount0)
		s.add(s.assetB, DirectionOut, ev.Amount1)
	case pool.TokensSwapped:
		s.add(ev.AssetIn, DirectionIn, ev.Amount0)
		s.add(ev.AssetOut, DirectionOut, ev.Amount1)
	}
}

// Float64 loses precision above 2^53 units; counters are approximate there.
func (s *Sink) add(asset common.Address, direction string, amount *uint256.Int) {
	if amount == nil || amount.IsZero() {
		return
	}
	s.volume.WithLabelValues(asset.Hex(), direction).Add(amount.Float64())
}
