package kernel_test

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes/bfloat16"

	"github.com/lsds/nvreduce/internal/device"
	"github.com/lsds/nvreduce/internal/kernel"
	"github.com/lsds/nvreduce/internal/topology"
)

func cubeMesh() topology.AdjacencyMatrix {
	var m topology.AdjacencyMatrix
	for i := 0; i < 8; i++ {
		for bit := 0; bit < 3; bit++ {
			j := i ^ (1 << uint(bit))
			m[i][j] = 1
		}
		m[i][i^3] = 1
	}
	return m
}

func TestHCMAllOnes(t *testing.T) {
	const worldSize, numel = 8, 256
	topo, table := topology.Classify(cubeMesh(), worldSize)
	if topo != topology.HybridCubeMesh {
		t.Fatalf("expected HybridCubeMesh, got %v", topo)
	}

	plan := device.Plan(numel, worldSize, false)
	peerBuffers, peerStates := newGroup(worldSize)
	outs := make([][]bfloat16.BFloat16, worldSize)
	for r := 0; r < worldSize; r++ {
		copy(peerBuffers[r].Data, filledBF16(numel, 1))
		outs[r] = make([]bfloat16.BFloat16, numel)
	}

	runAllRanks(t, worldSize, func(rank int) {
		kernel.HCM(rank, worldSize, table[rank], plan, peerStates, peerBuffers, outs[rank], numel)
	})

	assertAllEqual(t, worldSize, numel, outs, 8)
}
