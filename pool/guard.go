// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import "sync"

// guard rejects any mutating operation that starts while another one is
// still in flight, including re-entry from an external transfer callback.
type guard struct {
	mu     sync.Mutex
	locked bool
}

// acquire takes the lock or fails with ErrReentrancy. The returned release
// func must be deferred by the caller.
func (g *guard) acquire() (func(), error) {
	g.mu.Lock()
	if g.locked {
		g.mu.Unlock()
		return nil, ErrReentrancy
	}
	g.locked = true
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		g.locked = false
		g.mu.Unlock()
	}, nil
}

func (g *guard) held() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.locked
}
