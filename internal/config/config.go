// Package config holds nvreduce's compile-time constants and a small
// set of env-var-driven tunables, generalized from KungFu's
// srcs/go/kungfuconfig package: parsed once in init(), overridable only
// for tests and benchmarks.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Compile-time constants: grid geometry caps and the per-algorithm
// payload-size thresholds the selector consults.
const (
	MaxDevices          = 8
	MaxAllReduceBlocks  = 24
	ThreadsPerBlock     = 1024
	WarpSize            = 32
	BytesPerThread      = 16
	ElementsPerThread   = 8 // one packedBF16 lane group per thread per stride
	MaxIntraNodeSize    = 10<<20*2 + 1<<20 // 21 MiB: >= 10 MiB * 2 bytes, plus 1 MiB
	HCMThreshBytes      = 256 << 10
	OneShotThreshBytes  = 256 << 10
	TwoShotThreshBytes  = 10 << 20
	MinWorldSize        = 2
	MaxWorldSize        = MaxDevices
)

const (
	LogLevelEnvKey       = `NVREDUCE_LOG_LEVEL`
	ForceAlgoEnvKey      = `NVREDUCE_FORCE_ALGO`
	StallWarnPeriodEnvKey = `NVREDUCE_STALL_WARN_PERIOD_MS`
)

var (
	LogLevel = `INFO`

	// ForceAlgo overrides selectAllReduceAlgo's decision when non-empty;
	// test- and benchmark-only, never consulted by the dispatcher unless set.
	ForceAlgo string

	// StallWarnPeriodMS is how long device.WatchStall waits before
	// logging that a collective has not progressed. 0 disables it.
	StallWarnPeriodMS = 3000
)

func init() {
	if v := os.Getenv(LogLevelEnvKey); v != "" {
		LogLevel = strings.ToUpper(v)
	}
	if v := os.Getenv(ForceAlgoEnvKey); v != "" {
		ForceAlgo = strings.ToUpper(v)
	}
	if v := os.Getenv(StallWarnPeriodEnvKey); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			StallWarnPeriodMS = n
		}
	}
}
