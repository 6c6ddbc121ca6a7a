package kernel

import (
	"github.com/gomlx/gopjrt/dtypes/bfloat16"

	"github.com/lsds/nvreduce/internal/bf16pack"
	"github.com/lsds/nvreduce/internal/device"
)

// OneShot has every device read every peer's staged input, sum locally
// in rank-rotated order, and store the result to out. The caller's
// input must already be staged at peerBuffers[rank].Data. numel is the
// caller's original (pre-alignment) element count.
func OneShot(rank, worldSize int, plan device.GridPlan, peerStates []*device.SignalRing, peerBuffers []*device.PeerBuffer, out []bfloat16.BFloat16, numel int) {
	participants := allRanks(worldSize)
	runBlocks(plan.Blocks, func(block int) {
		device.BlockBarrier(peerStates, rank, block, 0, participants)

		span := plan.BlockStrides[block]
		for i := span.Begin; i < span.End; i++ {
			sum := bf16pack.StreamLoad(peerBuffers[rank].Data, i)
			for k := 1; k < worldSize; k++ {
				peer := (rank + k) % worldSize
				sum = bf16pack.Add(sum, bf16pack.StreamLoad(peerBuffers[peer].Data, i))
			}
			storeTail(out, i, numel, sum)
		}
	})
}
