package device

import (
	"time"

	"github.com/lsds/nvreduce/internal/config"
	"github.com/lsds/nvreduce/internal/corelog"
)

// WatchStall arranges a one-shot warning if ring has not returned to
// its idle steady state within config.StallWarnPeriodMS. It never
// touches the acquire spin itself, and it never cancels a collective
// in progress — it only observes and logs. Call the returned stop func
// once the collective completes to cancel the pending check.
func WatchStall(callID string, rank int, ring *SignalRing) (stop func()) {
	if config.StallWarnPeriodMS <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	timer := time.NewTimer(time.Duration(config.StallWarnPeriodMS) * time.Millisecond)
	go func() {
		select {
		case <-done:
			timer.Stop()
		case <-timer.C:
			if !ring.Idle() {
				corelog.Warnf("call %s: rank %d has not reached steady state after %dms", callID, rank, config.StallWarnPeriodMS)
			}
		}
	}()
	return func() { close(done) }
}
