package kernel_test

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes/bfloat16"

	"github.com/lsds/nvreduce/internal/device"
	"github.com/lsds/nvreduce/internal/kernel"
)

func TestTwoShotUniformFill(t *testing.T) {
	const worldSize, numel = 4, 4096 // multiple of worldSize*warpSize*elementsPerThread
	plan := device.Plan(numel, worldSize, true)
	peerBuffers, peerStates := newGroup(worldSize)
	outs := make([][]bfloat16.BFloat16, worldSize)
	for r := 0; r < worldSize; r++ {
		copy(peerBuffers[r].Data, filledBF16(numel, float32(r)))
		outs[r] = make([]bfloat16.BFloat16, plan.NumelAligned)
	}

	runAllRanks(t, worldSize, func(rank int) {
		kernel.TwoShot(rank, worldSize, plan, peerStates, peerBuffers, outs[rank])
	})

	assertAllEqual(t, worldSize, numel, outs, 6) // 0+1+2+3
}

// TestTwoShotLargePayloadManyShards exercises many blocks and shards
// at once: eight ranks, uniform fill by rank value, large enough to
// span the full grid.
func TestTwoShotLargePayloadManyShards(t *testing.T) {
	const worldSize, numel = 8, 5<<20/2 // 5 MiB of bf16 elements
	plan := device.Plan(numel, worldSize, true)
	peerBuffers, peerStates := newGroup(worldSize)
	outs := make([][]bfloat16.BFloat16, worldSize)
	for r := 0; r < worldSize; r++ {
		copy(peerBuffers[r].Data, filledBF16(numel, float32(r)))
		outs[r] = make([]bfloat16.BFloat16, plan.NumelAligned)
	}

	runAllRanks(t, worldSize, func(rank int) {
		kernel.TwoShot(rank, worldSize, plan, peerStates, peerBuffers, outs[rank])
	})

	assertAllEqual(t, worldSize, numel, outs, 28) // 0+1+...+7
}
