// Package monitor generalizes KungFu's srcs/go/monitor package
// (counters.go, metrics.go, server.go) from tracking a multi-host
// training job's gradient traffic to tracking one intra-node Group's
// collective traffic: per-algorithm byte counters served over a plain
// net/http handler (KungFu never pulls in a Prometheus client
// library, and neither does this package).
package monitor

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/lsds/nvreduce/internal/allreduce"
)

// Counters accumulates bytes moved per AllReduceAlgo across every call
// made against one Group. Safe for concurrent use by every rank.
type Counters struct {
	bytes [4]atomic.Uint64
}

func NewCounters() *Counters { return &Counters{} }

// Add records that one call moved bytes total traffic under algo.
func (c *Counters) Add(algo allreduce.AllReduceAlgo, bytes int) {
	c.bytes[algo].Add(uint64(bytes))
}

func (c *Counters) Snapshot() map[allreduce.AllReduceAlgo]uint64 {
	return map[allreduce.AllReduceAlgo]uint64{
		allreduce.None:    c.bytes[allreduce.None].Load(),
		allreduce.OneShot: c.bytes[allreduce.OneShot].Load(),
		allreduce.TwoShot: c.bytes[allreduce.TwoShot].Load(),
		allreduce.HCM:     c.bytes[allreduce.HCM].Load(),
	}
}

// Handler serves the counters in a Prometheus-text-exposition-style
// format, matching the plain-text shape srcs/go/monitor/server.go
// served without adopting any metrics client library.
func (c *Counters) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		for algo, n := range c.Snapshot() {
			fmt.Fprintf(w, "nvreduce_bytes_total{algo=%q} %d\n", algo, n)
		}
	})
}
