package allreduce

import "github.com/lsds/nvreduce/internal/config"

// hcmThreshBytes, oneShotThreshBytes, twoShotThreshBytes wrap the
// config constants and always return the compiled-in values; no env
// var overrides them (NVREDUCE_FORCE_ALGO bypasses the table instead).
func hcmThreshBytes() int     { return config.HCMThreshBytes }
func oneShotThreshBytes() int { return config.OneShotThreshBytes }
func twoShotThreshBytes() int { return config.TwoShotThreshBytes }

// forcedAlgo lets tests and the benchmark CLI pin the selector's
// decision via NVREDUCE_FORCE_ALGO, bypassing the threshold table.
func forcedAlgo() (AllReduceAlgo, bool) {
	switch config.ForceAlgo {
	case "ONESHOT":
		return OneShot, true
	case "TWOSHOT":
		return TwoShot, true
	case "HCM":
		return HCM, true
	case "NONE":
		return None, true
	default:
		return None, false
	}
}
