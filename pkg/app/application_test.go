package app

import (
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"rentcar/pkg/client"
	"rentcar/pkg/config"
	"rentcar/pkg/logger"
	"rentcar/pkg/middleware"
)

// A request completing during shutdown must finish before the registered
// hooks tear down the workers and the event producer it still depends on.
func TestGracefulShutdownDrainsBeforeHooks(t *testing.T) {
	cfg := &config.Config{
		ShutdownTimeout: 2 * time.Second,
		Log:             logger.New(logger.Config{Output: io.Discard}),
		Client:          client.NewClient(),
	}

	var requestDone atomic.Bool
	started := make(chan struct{})
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		requestDone.Store(true)
	})}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	go srv.Serve(ln)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err == nil {
			resp.Body.Close()
		}
	}()

	a := &Application{
		cfg:         cfg,
		server:      srv,
		rateLimiter: middleware.NewAuthRateLimiter(1, time.Minute, middleware.ClientIP, cfg.Log),
	}

	var drainedBeforeHook bool
	a.OnShutdown(func() { drainedBeforeHook = requestDone.Load() })

	<-started
	a.gracefulShutdown()

	if !drainedBeforeHook {
		t.Error("shutdown hook ran before in-flight requests drained")
	}
}
