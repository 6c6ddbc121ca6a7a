// Package kernel implements the three reduction kernels: OneShot,
// TwoShot, and HCM. Each kernel spawns one goroutine per grid block
// (device.GridPlan.Blocks), standing in for a CUDA thread block; the
// goroutine body loops over its assigned stride positions the way a
// block's warps would in lock-step, which is observably equivalent as
// long as the summation order stays fixed and non-reordered.
//
// Grounded on unixpickle-dist-sys's allreduce/naive.go and tree.go for
// the send-everything-to-everyone and reduce-scatter/all-gather shapes,
// and on KungFu's kungfubase.Workspace slicing idiom for dividing
// a flat buffer into per-block/per-shard ranges.
package kernel

import (
	"sync"

	"github.com/gomlx/gopjrt/dtypes/bfloat16"

	"github.com/lsds/nvreduce/internal/bf16pack"
)

func allRanks(worldSize int) []int {
	r := make([]int, worldSize)
	for i := range r {
		r[i] = i
	}
	return r
}

// storeTail writes p at stride position i into out, guarding the final
// fragment lane-by-lane when the stride crosses the caller's original
// element count numel. Shared by OneShot and HCM, whose output goes
// straight to the caller's buffer instead of an aligned scratch copy.
func storeTail(out []bfloat16.BFloat16, i, numel int, p bf16pack.Packed) {
	base := i * bf16pack.ElementsPerLane
	if base+bf16pack.ElementsPerLane <= numel {
		bf16pack.Store(out, i, p)
		return
	}
	for lane := 0; lane < bf16pack.ElementsPerLane; lane++ {
		if idx := base + lane; idx < numel {
			out[idx] = p[lane]
		}
	}
}

// runBlocks spawns one goroutine per block in plan and waits for all
// of them, the stand-in for a grid launch's implicit host-side join.
func runBlocks(blocks int, body func(block int)) {
	var wg sync.WaitGroup
	wg.Add(blocks)
	for b := 0; b < blocks; b++ {
		b := b
		go func() {
			defer wg.Done()
			body(b)
		}()
	}
	wg.Wait()
}
