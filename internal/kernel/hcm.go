package kernel

import (
	"github.com/gomlx/gopjrt/dtypes/bfloat16"

	"github.com/lsds/nvreduce/internal/bf16pack"
	"github.com/lsds/nvreduce/internal/device"
)

// HCM reduces within a rank's local triangle of direct neighbors, then
// exchanges the partial sum with its antipodal relay to complete the
// reduction across the whole hybrid cube mesh. row must be this rank's
// role-table entry (topology.RoleTable[rank]): row[0..2] are the three
// direct neighbors, row[3] is the relay.
func HCM(rank, worldSize int, row [4]int, plan device.GridPlan, peerStates []*device.SignalRing, peerBuffers []*device.PeerBuffer, out []bfloat16.BFloat16, numel int) {
	neighbors := []int{rank, row[0], row[1], row[2]}
	relay := row[3]

	runBlocks(plan.Blocks, func(block int) {
		device.BlockBarrier(peerStates, rank, block, 0, neighbors)

		span := plan.BlockStrides[block]
		for i := span.Begin; i < span.End; i++ {
			sum := bf16pack.StreamLoad(peerBuffers[rank].Data, i)
			for _, n := range row[:3] {
				sum = bf16pack.Add(sum, bf16pack.StreamLoad(peerBuffers[n].Data, i))
			}
			bf16pack.Store(peerBuffers[rank].RelayScratch(), i, sum)
		}

		// Single-thread release/acquire with the relay, reusing the
		// phase-0 table: relay's rank is never one of row[0..2], so its
		// signal column cannot collide with the barrier above.
		device.BlockBarrier(peerStates, rank, block, 0, []int{rank, relay})

		for i := span.Begin; i < span.End; i++ {
			local := bf16pack.Load(peerBuffers[rank].RelayScratch(), i)
			remote := bf16pack.StreamLoad(peerBuffers[relay].RelayScratch(), i)
			storeTail(out, i, numel, bf16pack.Add(local, remote))
		}
	})
}
