// Package debug serves runtime profiles of long running suite sessions.
package debug

import (
	"context"
	"net"
	"net/http"
	"net/http/pprof"

	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
)

// StartProfiling serves the pprof endpoints on addr until ctx is done.
// It returns the address the listener is bound to
func StartProfiling(ctx context.Context, addr string) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", trace.ConvertSystemError(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	server := &http.Server{Handler: mux}

	bound := listener.Addr().String()
	log.Infof("[PROFILING] http %v", bound)
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Warnf("Profiling endpoint stopped: %v.", err)
		}
	}()
	go func() {
		<-ctx.Done()
		server.Close()
	}()
	return bound, nil
}
