// Package device implements the cross-device memory-consistency
// handshake: a coarse block-level barrier standing in for per-thread
// acquire/release fences. Generalized from KungFu's
// srcs/go/ordergroup/ordergroup.go, which rendezvous-es goroutines
// within one process via a channel per rank; here the rendezvous
// crosses simulated devices via the system-scope atomics on each
// device's SignalRing instead of a channel, because a channel has no
// analogue once "rank" means "a distinct device's address space".
//
// Every kernel goroutine here already executes its block's whole body
// sequentially — there is no second thread within the same block
// goroutine to synchronize with — so an intra-block barrier is
// satisfied for free by Go's program order and needs no separate call
// in this API; only the cross-device half needs code.
package device

// BlockBarrier performs the release/acquire pair for one grid block
// and phase, among the given rings (indexed by rank) restricted to
// participants. myRank must appear in participants. On return, this
// device has both signaled and been signaled by every other
// participant for (phase, block).
func BlockBarrier(rings []*SignalRing, myRank, block, phase int, participants []int) {
	for _, peer := range participants {
		if peer == myRank {
			continue
		}
		rings[peer].release(phase, block, myRank)
	}
	mine := rings[myRank]
	for _, peer := range participants {
		if peer == myRank {
			continue
		}
		mine.acquire(phase, block, peer)
	}
}
