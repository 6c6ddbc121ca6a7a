package kernel_test

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes/bfloat16"

	"github.com/lsds/nvreduce/internal/device"
	"github.com/lsds/nvreduce/internal/kernel"
)

func TestOneShotSumsAllPeers(t *testing.T) {
	const worldSize, numel = 2, 8
	inputs := [][]bfloat16.BFloat16{
		toBF16([]float32{1, 2, 3, 4, 5, 6, 7, 8}),
		toBF16([]float32{8, 7, 6, 5, 4, 3, 2, 1}),
	}
	plan := device.Plan(numel, worldSize, false)
	peerBuffers, peerStates := newGroup(worldSize)
	outs := make([][]bfloat16.BFloat16, worldSize)
	for r := 0; r < worldSize; r++ {
		copy(peerBuffers[r].Data, inputs[r])
		outs[r] = make([]bfloat16.BFloat16, numel)
	}

	runAllRanks(t, worldSize, func(rank int) {
		kernel.OneShot(rank, worldSize, plan, peerStates, peerBuffers, outs[rank], numel)
	})

	assertAllEqual(t, worldSize, numel, outs, 9)
}

func TestOneShotManyBlocksUniformFill(t *testing.T) {
	const worldSize, numel = 4, 65536
	plan := device.Plan(numel, worldSize, false)
	peerBuffers, peerStates := newGroup(worldSize)
	outs := make([][]bfloat16.BFloat16, worldSize)
	for r := 0; r < worldSize; r++ {
		copy(peerBuffers[r].Data, filledBF16(numel, float32(r)))
		outs[r] = make([]bfloat16.BFloat16, numel)
	}

	runAllRanks(t, worldSize, func(rank int) {
		kernel.OneShot(rank, worldSize, plan, peerStates, peerBuffers, outs[rank], numel)
	})

	assertAllEqual(t, worldSize, numel, outs, 6) // 0+1+2+3
}

// TestOneShotUnalignedTail checks that a numel not divisible by the
// lane width is still fully and correctly reduced, with every output
// element overwriting the sentinel fill.
func TestOneShotUnalignedTail(t *testing.T) {
	const worldSize, numel = 3, 7
	vals := [][]float32{
		{1, 2, 3, 4, 5, 6, 7},
		{10, 20, 30, 40, 50, 60, 70},
		{100, 200, 300, 400, 500, 600, 700},
	}
	plan := device.Plan(numel, worldSize, false)
	peerBuffers, peerStates := newGroup(worldSize)
	outs := make([][]bfloat16.BFloat16, worldSize)
	for r := 0; r < worldSize; r++ {
		copy(peerBuffers[r].Data, toBF16(vals[r]))
		outs[r] = make([]bfloat16.BFloat16, numel)
		for i := range outs[r] {
			outs[r][i] = bfloat16.FromFloat32(-1) // sentinel, must be fully overwritten
		}
	}

	runAllRanks(t, worldSize, func(rank int) {
		kernel.OneShot(rank, worldSize, plan, peerStates, peerBuffers, outs[rank], numel)
	})

	for r := 0; r < worldSize; r++ {
		for i := 0; i < numel; i++ {
			want := float32(111 * (i + 1))
			if got := outs[r][i].Float32(); got != want {
				t.Fatalf("rank %d lane %d: got %v, want %v", r, i, got, want)
			}
		}
	}
}
