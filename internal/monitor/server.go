package monitor

import (
	"net"
	"net/http"
	"strconv"

	"github.com/lsds/nvreduce/internal/corelog"
)

var monitoringServer *http.Server

// StartServer serves c's Handler on port in the background. Call
// StopServer to shut it down.
func StartServer(port int, c *Counters) {
	addr := net.JoinHostPort("0.0.0.0", strconv.Itoa(port))
	monitoringServer = &http.Server{
		Handler: c.Handler(),
		Addr:    addr,
	}
	go func() {
		if err := monitoringServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			corelog.Errorf("metrics server on %s stopped: %v", addr, err)
		}
	}()
}

func StopServer() {
	if monitoringServer != nil {
		monitoringServer.Close()
	}
}
