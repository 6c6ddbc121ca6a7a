// Command allreduce-bench builds an in-process Group of simulated
// devices and sweeps a range of payload sizes through the dispatcher,
// reporting achieved bandwidth per algorithm. Generalized from
// KungFu's tests/go/cmd/kungfu-bench-allreduce tool, which benchmarked
// the same operation against a real multi-host KungFu session instead
// of an in-process software model.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"k8s.io/klog/v2"

	"github.com/lsds/nvreduce/internal/allreduce"
	"github.com/lsds/nvreduce/internal/device"
	"github.com/lsds/nvreduce/internal/devicepool"
	"github.com/lsds/nvreduce/internal/monitor"
	"github.com/lsds/nvreduce/internal/topology"
)

var sweepSizes = []int{4 << 10, 64 << 10, 256 << 10, 1 << 20, 5 << 20}

func main() {
	worldSize := flag.Int("world-size", 8, "number of simulated devices (2-8)")
	useHCM := flag.Bool("hcm", false, "use the hybrid cube mesh topology instead of fully connected (requires world-size=8)")
	metricsPort := flag.Int("metrics-port", 0, "serve cumulative byte counters on this port; 0 disables the metrics server")
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	if *worldSize < 2 || *worldSize > 8 {
		klog.Fatalf("world-size must be in [2,8], got %d", *worldSize)
	}
	if *useHCM && *worldSize != 8 {
		klog.Fatalf("-hcm requires world-size=8")
	}

	pool := devicepool.New(*worldSize)
	for i := 0; i < *worldSize; i++ {
		if _, ok := pool.Acquire(); !ok {
			klog.Fatalf("devicepool exhausted after %d acquisitions", i)
		}
	}

	mesh, topo := buildTopology(*worldSize, *useHCM)
	states := make([]*device.SignalRing, *worldSize)
	buffers := make([]*device.PeerBuffer, *worldSize)
	topoRows := make([]*topology.HCMRow, *worldSize)
	for r := 0; r < *worldSize; r++ {
		states[r] = allreduce.InitP2PState()
		buffers[r] = device.NewPeerBuffer()
		topoRows[r] = allreduce.InitTopoInfo(topo, mesh, r)
	}

	counters := monitor.NewCounters()
	if *metricsPort != 0 {
		monitor.StartServer(*metricsPort, counters)
		defer monitor.StopServer()
		klog.Infof("serving byte counters on :%d", *metricsPort)
	}

	for _, bytes := range sweepSizes {
		runOne(*worldSize, bytes, topo, states, buffers, topoRows, counters)
	}
}

func buildTopology(worldSize int, useHCM bool) (topology.AdjacencyMatrix, topology.Topology) {
	if useHCM {
		var mesh topology.AdjacencyMatrix
		for i := 0; i < 8; i++ {
			for bit := 0; bit < 3; bit++ {
				j := i ^ (1 << uint(bit))
				mesh[i][j] = 1
			}
			mesh[i][i^3] = 1
		}
		classified, _ := topology.Classify(mesh, worldSize)
		if classified != topology.HybridCubeMesh {
			klog.Fatalf("constructed cube mesh did not classify as HybridCubeMesh")
		}
		return mesh, classified
	}

	var mesh topology.AdjacencyMatrix
	for i := 0; i < worldSize; i++ {
		for j := 0; j < worldSize; j++ {
			if i != j {
				mesh[i][j] = 1
			}
		}
	}
	classified, _ := topology.Classify(mesh, worldSize)
	return mesh, classified
}

func runOne(worldSize, bytes int, topo topology.Topology, states []*device.SignalRing, buffers []*device.PeerBuffer, topoRows []*topology.HCMRow, counters *monitor.Counters) {
	algo := allreduce.SelectAllReduceAlgo(bytes, topo, worldSize)
	if algo == allreduce.None {
		klog.Infof("size=%-10s topology=%-14s selector returned None, skipping", humanize.IBytes(uint64(bytes)), topo)
		return
	}

	numel := bytes / 2
	inputs := make([][]bfloat16.BFloat16, worldSize)
	for r := range inputs {
		fs := make([]float32, numel)
		for i := range fs {
			fs[i] = float32(r)
		}
		inputs[r] = make([]bfloat16.BFloat16, numel)
		for i, f := range fs {
			inputs[r][i] = bfloat16.FromFloat32(f)
		}
	}

	start := time.Now()
	errCh := make(chan error, worldSize)
	for r := 0; r < worldSize; r++ {
		r := r
		go func() {
			errCh <- allreduce.AllReduce(context.Background(), inputs[r], states, buffers, topoRows[r], r, worldSize, algo)
		}()
	}
	for range inputs {
		if err := <-errCh; err != nil {
			klog.Fatalf("all-reduce failed: %v", err)
		}
	}
	elapsed := time.Since(start)
	totalBytes := bytes * worldSize
	counters.Add(algo, totalBytes)

	throughput := uint64(float64(totalBytes) / elapsed.Seconds())
	klog.Infof("size=%-10s algo=%-8s elapsed=%-12s throughput=%s/s",
		humanize.IBytes(uint64(bytes)), algo, elapsed, humanize.IBytes(throughput))
}
