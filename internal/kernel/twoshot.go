package kernel

import (
	"github.com/gomlx/gopjrt/dtypes/bfloat16"

	"github.com/lsds/nvreduce/internal/assert"
	"github.com/lsds/nvreduce/internal/bf16pack"
	"github.com/lsds/nvreduce/internal/device"
)

// TwoShot runs a reduce-scatter followed by an all-gather.
// plan.StridePositions must be a multiple of worldSize (device.Plan's
// twoShot alignment). out is the scratch buffer sized to
// plan.NumelAligned elements — the dispatcher copies the
// original-length prefix back into the caller's buffer afterward, so
// no lane guard runs here.
func TwoShot(rank, worldSize int, plan device.GridPlan, peerStates []*device.SignalRing, peerBuffers []*device.PeerBuffer, out []bfloat16.BFloat16) {
	participants := allRanks(worldSize)
	strideSpan := plan.StridePositions
	assert.Truef(strideSpan%worldSize == 0, "kernel: TwoShot stride span %d not divisible by world size %d", strideSpan, worldSize)
	perRank := strideSpan / worldSize

	shardOf := func(i int) int { return i / perRank }

	runBlocks(plan.Blocks, func(block int) {
		device.BlockBarrier(peerStates, rank, block, 0, participants)

		span := plan.BlockStrides[block]
		myShardBegin, myShardEnd := rank*perRank, (rank+1)*perRank
		for i := max(span.Begin, myShardBegin); i < min(span.End, myShardEnd); i++ {
			sum := bf16pack.StreamLoad(peerBuffers[0].Data, i)
			for p := 1; p < worldSize; p++ {
				sum = bf16pack.Add(sum, bf16pack.StreamLoad(peerBuffers[p].Data, i))
			}
			// Every rank owns exactly the shard whose index matches its
			// own rank; the reduce-scatter write target here is always
			// this rank's own buffer, never literal rank 0.
			assert.True(rank == shardOf(i))
			bf16pack.Store(peerBuffers[rank].Data, i, sum)
			bf16pack.Store(out, i, sum)
		}
	})

	runBlocks(plan.Blocks, func(block int) {
		device.BlockBarrier(peerStates, rank, block, 1, participants)

		span := plan.BlockStrides[block]
		for i := span.Begin; i < span.End; i++ {
			shard := shardOf(i)
			if shard == rank {
				continue
			}
			bf16pack.Store(out, i, bf16pack.StreamLoad(peerBuffers[shard].Data, i))
		}
	})
}
