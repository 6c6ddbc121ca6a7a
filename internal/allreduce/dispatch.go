package allreduce

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/google/uuid"

	"github.com/lsds/nvreduce/internal/assert"
	"github.com/lsds/nvreduce/internal/config"
	"github.com/lsds/nvreduce/internal/corelog"
	"github.com/lsds/nvreduce/internal/device"
	"github.com/lsds/nvreduce/internal/errs"
	"github.com/lsds/nvreduce/internal/kernel"
	"github.com/lsds/nvreduce/internal/topology"
)

const bytesPerElement = 2

// IsSupported reports whether this process can run the collective
// kernels. The software model runs on every architecture Go itself
// targets, so this is always true; a real device backend would gate
// it on the packed-bf16-add and system-scope-atomic encodings the
// hardware needs to provide.
func IsSupported() bool { return true }

// InitP2PState allocates and zeroes one SignalRing for a rank.
func InitP2PState() *device.SignalRing { return device.NewSignalRing() }

// InitTopoInfo computes the HCM role table from mesh and returns this
// rank's row, or nil if topo is not HybridCubeMesh.
func InitTopoInfo(topo topology.Topology, mesh topology.AdjacencyMatrix, rank int) *topology.HCMRow {
	if topo != topology.HybridCubeMesh {
		return nil
	}
	classified, table := topology.Classify(mesh, config.MaxDevices)
	assert.Truef(classified == topology.HybridCubeMesh,
		"allreduce: InitTopoInfo called with topo=HybridCubeMesh but mesh reclassifies as %v", classified)
	row := table[rank]
	return &row
}

// AllReduce validates the call, computes grid geometry, stages the
// caller's input into its peer buffer slot, launches the selected
// kernel, and restores the result into in. It reduces in in place
// across the group.
func AllReduce(ctx context.Context, in []bfloat16.BFloat16, peerStates []*device.SignalRing, peerBuffers []*device.PeerBuffer, topoInfo *topology.HCMRow, rank, worldSize int, algo AllReduceAlgo) error {
	callID := uuid.New().String()

	if err := validate(in, peerStates, peerBuffers, topoInfo, rank, worldSize, algo); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errs.Launch(err, "call %s: context already done before launch", callID)
	}

	numel := len(in)
	plan := device.Plan(numel, worldSize, algo == TwoShot)
	corelog.Debugf("call %s: algo=%s numel=%d aligned=%d blocks=%d threads=%d",
		callID, algo, numel, plan.NumelAligned, plan.Blocks, plan.Threads)

	copy(peerBuffers[rank].Data, in)

	stop := device.WatchStall(callID, rank, peerStates[rank])
	defer stop()

	switch algo {
	case OneShot:
		kernel.OneShot(rank, worldSize, plan, peerStates, peerBuffers, in, numel)
	case HCM:
		kernel.HCM(rank, worldSize, *topoInfo, plan, peerStates, peerBuffers, in, numel)
	case TwoShot:
		// Two-shot pads into an aligned scratch buffer rather than
		// guarding the tail lane-by-lane inside the kernel; only the
		// original-length prefix is copied back.
		scratch := make([]bfloat16.BFloat16, plan.NumelAligned)
		kernel.TwoShot(rank, worldSize, plan, peerStates, peerBuffers, scratch)
		copy(in, scratch[:numel])
	case None:
		return errs.Configuration("call %s: AllReduce invoked with algo=None; caller must fall back externally", callID)
	default:
		return errs.Launch(nil, "call %s: unknown algorithm %d", callID, algo)
	}
	return nil
}

func validate(in []bfloat16.BFloat16, peerStates []*device.SignalRing, peerBuffers []*device.PeerBuffer, topoInfo *topology.HCMRow, rank, worldSize int, algo AllReduceAlgo) error {
	if worldSize < config.MinWorldSize || worldSize > config.MaxWorldSize {
		return errs.Configuration("world size %d out of range [%d,%d]", worldSize, config.MinWorldSize, config.MaxWorldSize)
	}
	if rank < 0 || rank >= worldSize {
		return errs.Configuration("rank %d out of range [0,%d)", rank, worldSize)
	}
	if len(peerStates) != worldSize || len(peerBuffers) != worldSize {
		return errs.Configuration("expected %d peer states and peer buffers, got %d and %d", worldSize, len(peerStates), len(peerBuffers))
	}
	byteSize := len(in) * bytesPerElement
	if byteSize > config.MaxIntraNodeSize {
		return errs.Configuration("payload %s exceeds intra-node cap %s",
			humanize.IBytes(uint64(byteSize)), humanize.IBytes(uint64(config.MaxIntraNodeSize)))
	}
	if algo == HCM && (worldSize != 8 || topoInfo == nil) {
		return errs.Configuration("HCM algorithm requires worldSize=8 and a non-nil topology row, got worldSize=%d topoInfo=%v", worldSize, topoInfo)
	}
	return nil
}
