package kernel_test

import (
	"sync"
	"testing"

	"github.com/gomlx/gopjrt/dtypes/bfloat16"

	"github.com/lsds/nvreduce/internal/device"
)

func toBF16(fs []float32) []bfloat16.BFloat16 {
	out := make([]bfloat16.BFloat16, len(fs))
	for i, f := range fs {
		out[i] = bfloat16.FromFloat32(f)
	}
	return out
}

func filledBF16(numel int, v float32) []bfloat16.BFloat16 {
	fs := make([]float32, numel)
	for i := range fs {
		fs[i] = v
	}
	return toBF16(fs)
}

func newGroup(worldSize int) ([]*device.PeerBuffer, []*device.SignalRing) {
	peerBuffers := make([]*device.PeerBuffer, worldSize)
	peerStates := make([]*device.SignalRing, worldSize)
	for r := range peerBuffers {
		peerBuffers[r] = device.NewPeerBuffer()
		peerStates[r] = device.NewSignalRing()
	}
	return peerBuffers, peerStates
}

func runAllRanks(t *testing.T, worldSize int, body func(rank int)) {
	t.Helper()
	var wg sync.WaitGroup
	wg.Add(worldSize)
	for r := 0; r < worldSize; r++ {
		r := r
		go func() {
			defer wg.Done()
			body(r)
		}()
	}
	wg.Wait()
}

func assertAllEqual(t *testing.T, worldSize, numel int, outs [][]bfloat16.BFloat16, want float32) {
	t.Helper()
	for r := 0; r < worldSize; r++ {
		for i := 0; i < numel; i++ {
			if got := outs[r][i].Float32(); got != want {
				t.Fatalf("rank %d lane %d: got %v, want %v", r, i, got, want)
			}
		}
	}
}
