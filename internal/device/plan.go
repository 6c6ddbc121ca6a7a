package device

import (
	"github.com/lsds/nvreduce/internal/bf16pack"
	"github.com/lsds/nvreduce/internal/config"
)

// Interval represents the half-open range of integers [Begin, End).
// Adapted from KungFu's srcs/go/plan/interval.go.
type Interval struct {
	Begin, End int
}

func (i Interval) Len() int { return i.End - i.Begin }

// EvenPartition splits r into k parts whose lengths differ by at most
// one, in the same left-loaded order KungFu's plan.EvenPartition uses
// to shard a Workspace across ranks — here it shards a kernel's stride
// positions across grid blocks instead.
func EvenPartition(r Interval, k int) []Interval {
	quo, rem := r.Len()/k, r.Len()%k
	parts := make([]Interval, 0, k)
	offset := r.Begin
	for i := 0; i < k; i++ {
		n := quo
		if i < rem {
			n++
		}
		parts = append(parts, Interval{Begin: offset, End: offset + n})
		offset += n
	}
	return parts
}

// AlignUp rounds n up to the next multiple of m.
func AlignUp(n, m int) int {
	if r := n % m; r != 0 {
		return n + (m - r)
	}
	return n
}

// GridPlan is the grid geometry Plan derives from a payload size:
// block/thread counts and each block's assigned range of stride
// positions (one stride position = one bf16pack.Packed, a 128-bit
// unit of memory traffic).
type GridPlan struct {
	Blocks         int
	Threads        int
	NumelAligned   int // element count after alignment
	StridePositions int // NumelAligned / bf16pack.ElementsPerLane
	BlockStrides   []Interval
}

// Plan computes grid geometry for numel elements. twoShot additionally
// aligns to a multiple of worldSize, since TwoShot needs the stride
// space to divide evenly into one shard per rank.
func Plan(numel, worldSize int, twoShot bool) GridPlan {
	unit := config.WarpSize * bf16pack.ElementsPerLane
	aligned := AlignUp(numel, unit)
	if twoShot {
		shardUnit := unit * worldSize
		aligned = AlignUp(numel, shardUnit)
	}
	stridePositions := aligned / bf16pack.ElementsPerLane
	threadsNeeded := stridePositions
	if threadsNeeded == 0 {
		threadsNeeded = 1
	}

	blocks := (threadsNeeded + config.ThreadsPerBlock - 1) / config.ThreadsPerBlock
	if blocks > config.MaxAllReduceBlocks {
		blocks = config.MaxAllReduceBlocks
	}
	if blocks < 1 {
		blocks = 1
	}

	warpsNeeded := (threadsNeeded + config.WarpSize - 1) / config.WarpSize
	threads := ((warpsNeeded + blocks - 1) / blocks) * config.WarpSize
	if threads > config.ThreadsPerBlock {
		threads = config.ThreadsPerBlock
	}
	if threads < config.WarpSize {
		threads = config.WarpSize
	}

	return GridPlan{
		Blocks:          blocks,
		Threads:         threads,
		NumelAligned:    aligned,
		StridePositions: stridePositions,
		BlockStrides:    EvenPartition(Interval{0, stridePositions}, blocks),
	}
}
