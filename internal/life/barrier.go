package life

import "sync"

// Barrier is a reusable rendezvous for a fixed number of parties. Each call
// to Wait blocks until every party has arrived, then all are released
// together and the barrier resets for the next phase.
type Barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	waiting int
	phase   uint64
	broken  bool
}

// NewBarrier returns a barrier for the given number of parties.
func NewBarrier(parties int) *Barrier {
	if parties < 1 {
		panic("life: barrier needs at least one party")
	}
	b := &Barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Parties returns the number of participants the barrier waits for.
func (b *Barrier) Parties() int { return b.parties }

// Wait blocks until all parties have called Wait for the current phase. It
// returns ErrBarrierBroken if the barrier was broken before or while waiting.
func (b *Barrier) Wait() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.broken {
		return ErrBarrierBroken
	}
	phase := b.phase
	b.waiting++
	if b.waiting == b.parties {
		b.waiting = 0
		b.phase++
		b.cond.Broadcast()
		return nil
	}
	for phase == b.phase && !b.broken {
		b.cond.Wait()
	}
	if phase == b.phase {
		return ErrBarrierBroken
	}
	return nil
}

// Break releases every waiter with ErrBarrierBroken. The barrier stays
// broken; later calls to Wait fail immediately.
func (b *Barrier) Break() {
	b.mu.Lock()
	b.broken = true
	b.waiting = 0
	b.cond.Broadcast()
	b.mu.Unlock()
}

// Broken reports whether Break has been called.
func (b *Barrier) Broken() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.broken
}
