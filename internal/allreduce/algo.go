// Package allreduce is the dispatcher: IsSupported, InitP2PState,
// InitTopoInfo, SelectAllReduceAlgo, and AllReduce pick and launch one
// of the three reduction kernels for a given payload and topology.
//
// Grounded on KungFu's srcs/go/kungfu/session/allreduce.go (the
// per-call validate/stage/launch sequence) and
// srcs/go/kungfu/base/workspace.go (the Workspace/Split/Forward
// idiom this generalizes into device.Plan-driven staging).
package allreduce

import "github.com/lsds/nvreduce/internal/topology"

// AllReduceAlgo names which reduction kernel a call should run.
type AllReduceAlgo int

const (
	None AllReduceAlgo = iota
	OneShot
	TwoShot
	HCM
)

func (a AllReduceAlgo) String() string {
	switch a {
	case OneShot:
		return "OneShot"
	case TwoShot:
		return "TwoShot"
	case HCM:
		return "HCM"
	default:
		return "None"
	}
}

// SelectAllReduceAlgo picks a kernel by payload size and topology:
// HCM below its threshold on a hybrid cube mesh, then OneShot and
// TwoShot at increasing size thresholds on a fully connected mesh,
// falling back to None once nothing fits. bytes is the payload size
// after alignment. It is idempotent: called twice with the same
// arguments it returns the same result, since it consults only its
// arguments and the config package's thresholds.
func SelectAllReduceAlgo(bytes int, topo topology.Topology, worldSize int) AllReduceAlgo {
	if algo, ok := forcedAlgo(); ok {
		return algo
	}
	switch {
	case topo == topology.HybridCubeMesh && worldSize == 8 && bytes <= hcmThreshBytes():
		return HCM
	case topo == topology.FullyConnected && bytes <= oneShotThreshBytes():
		return OneShot
	case topo == topology.FullyConnected && bytes <= twoShotThreshBytes():
		return TwoShot
	default:
		return None
	}
}
