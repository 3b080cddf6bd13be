package debug

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartProfiling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	addr, err := StartProfiling(ctx, "127.0.0.1:0")
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr + "/debug/pprof/cmdline")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/debug/pprof/cmdline")
		if err == nil {
			resp.Body.Close()
		}
		return err != nil
	}, defaultEventually, pollEventually)
}

const (
	defaultEventually = 5 * time.Second
	pollEventually    = 50 * time.Millisecond
)
