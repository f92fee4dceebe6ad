package observability

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stegangeorgiev/fitness-app/internal/errors"
)

const defaultTimeout = 2 * time.Second

// logAddrKey carries the listen address in log records.
const logAddrKey = "addr"

// Handler serves the metrics gathered by g on /metrics and a liveness probe on /healthy.
func Handler(g prometheus.Gatherer, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{
		ErrorLog:      slog.NewLogLogger(logger.Handler(), slog.LevelError),
		ErrorHandling: promhttp.ContinueOnError,
	}))
	mux.HandleFunc("GET /healthy", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}

// Server is a running metrics server.
type Server struct {
	addr string
	done chan struct{}
}

// Addr is the address the server listens on, useful with a ":0" port.
func (s *Server) Addr() string {
	return s.addr
}

// Done is closed once the server has shut down.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Serve listens on addr until ctx is cancelled. A listen error is returned right away, serving happens in
// the background.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "metrics listen", slog.String("addr", addr))
	}
	server := &Server{addr: listener.Addr().String(), done: make(chan struct{})}

	srv := &http.Server{
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		Handler:           handler,
		IdleTimeout:       time.Minute,
		ReadTimeout:       defaultTimeout,
		WriteTimeout:      defaultTimeout,
		ReadHeaderTimeout: time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultTimeout)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "shut down metrics server",
				errors.SlogError(fmt.Errorf("shutdown: %w", shutdownErr)))
		}
	}()
	go func() {
		defer close(server.done)
		logger.LogAttrs(ctx, slog.LevelInfo, "starting metrics server", slog.String(logAddrKey, server.addr))
		if serveErr := srv.Serve(listener); !errors.Is(serveErr, http.ErrServerClosed) {
			logger.LogAttrs(ctx, slog.LevelError, "metrics server stopped", errors.SlogError(serveErr))
		}
	}()
	return server, nil
}
