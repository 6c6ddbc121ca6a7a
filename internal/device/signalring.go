package device

import (
	"sync/atomic"

	"github.com/lsds/nvreduce/internal/config"
)

// SignalRing is the per-device fixed-size counter table backing the
// release/acquire handshake: signals[2][B][W], B = MaxAllReduceBlocks,
// W = MaxDevices. Two parallel phase tables let two-shot sequence its
// two barriers without resetting state between them.
//
// Column col holds the counter a peer at rank col increments when it
// releases to this device; only the owning device ever reads its own
// ring. Grounded on KungFu's srcs/go/monitor/counters.go
// atomic-accumulator pattern, generalized from a byte counter to a
// release/acquire semaphore.
type SignalRing struct {
	signals [2][config.MaxAllReduceBlocks][config.MaxDevices]atomic.Int32
}

// NewSignalRing allocates and zeroes one SignalRing.
func NewSignalRing() *SignalRing {
	return &SignalRing{}
}

// release performs the system-scope atomic increment on this ring's
// (phase, block, fromRank) counter, executed on the peer's ring by the
// producer.
func (r *SignalRing) release(phase, block, fromRank int) {
	r.signals[phase][block][fromRank].Add(1)
}

// acquire spins on this ring's (phase, block, fromRank) counter until
// it is positive, then decrements it with a compare-and-swap. In a
// balanced phase this returns the counter to zero.
func (r *SignalRing) acquire(phase, block, fromRank int) {
	c := &r.signals[phase][block][fromRank]
	for {
		v := c.Load()
		if v > 0 && c.CompareAndSwap(v, v-1) {
			return
		}
	}
}

// Idle reports whether every counter in the ring is zero, the steady
// state a ring must return to after any completed collective.
func (r *SignalRing) Idle() bool {
	for _, phase := range r.signals {
		for _, block := range phase {
			for _, c := range block {
				if c.Load() != 0 {
					return false
				}
			}
		}
	}
	return true
}
