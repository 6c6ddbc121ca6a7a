package monitor_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lsds/nvreduce/internal/allreduce"
	"github.com/lsds/nvreduce/internal/monitor"
)

func TestCountersAddAccumulates(t *testing.T) {
	c := monitor.NewCounters()
	c.Add(allreduce.OneShot, 100)
	c.Add(allreduce.OneShot, 50)
	c.Add(allreduce.TwoShot, 7)

	snap := c.Snapshot()
	if snap[allreduce.OneShot] != 150 {
		t.Fatalf("OneShot = %d, want 150", snap[allreduce.OneShot])
	}
	if snap[allreduce.TwoShot] != 7 {
		t.Fatalf("TwoShot = %d, want 7", snap[allreduce.TwoShot])
	}
	if snap[allreduce.HCM] != 0 {
		t.Fatalf("HCM = %d, want 0", snap[allreduce.HCM])
	}
}

func TestCountersHandlerServesAllAlgos(t *testing.T) {
	c := monitor.NewCounters()
	c.Add(allreduce.HCM, 1024)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `algo="HCM"} 1024`) {
		t.Fatalf("response missing HCM counter: %q", body)
	}
	for _, want := range []string{`algo="None"`, `algo="OneShot"`, `algo="TwoShot"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("response missing %s: %q", want, body)
		}
	}
}
