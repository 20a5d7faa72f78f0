// Package web serves the service dashboard: one HTML table of the current
// snapshot plus form-driven stop, restart and launch controls.
package web

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"portdash/internal/control"
	"portdash/internal/scan"
)

// SnapshotFunc produces the records the dashboard renders.
type SnapshotFunc func(ctx context.Context) ([]scan.ServiceRecord, error)

// Controller is the slice of process control the handlers use.
type Controller interface {
	Stop(pid int32) error
	StopAndWait(ctx context.Context, pid int32, timeout time.Duration) error
}

// Config assembles a Server.
type Config struct {
	Snapshot SnapshotFunc
	Control  Controller
	// Launch starts a shell command; defaults to control.Launch.
	Launch func(cmdline string) error
	// External is the base URL external service links point at; empty
	// hides the column.
	External string
	// ReadOnly disables the stop/restart/add routes entirely.
	ReadOnly bool
	// StopWait bounds how long a restart waits for the old process.
	StopWait time.Duration
	Logger   *log.Logger
}

// Server renders snapshots and drives the control surface.
type Server struct {
	snapshot SnapshotFunc
	control  Controller
	launch   func(cmdline string) error
	external string
	readOnly bool
	stopWait time.Duration
	logger   *log.Logger
}

// New returns a Server for the given configuration.
func New(cfg Config) *Server {
	if cfg.Launch == nil {
		cfg.Launch = control.Launch
	}
	if cfg.StopWait <= 0 {
		cfg.StopWait = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Server{
		snapshot: cfg.Snapshot,
		control:  cfg.Control,
		launch:   cfg.Launch,
		external: cfg.External,
		readOnly: cfg.ReadOnly,
		stopWait: cfg.StopWait,
		logger:   cfg.Logger,
	}
}

// Handler returns the routing table. Control routes exist only when the
// server is not read-only.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	if !s.readOnly {
		mux.HandleFunc("POST /stop/{pid}", s.handleStop)
		mux.HandleFunc("POST /restart/{pid}", s.handleRestart)
		mux.HandleFunc("POST /add", s.handleAdd)
	}
	return s.logRequests(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully. Production
// mode hardens the listener with timeouts; the default mode matches a
// development server.
func (s *Server) Run(ctx context.Context, addr string, production bool) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	if production {
		srv.ReadHeaderTimeout = 5 * time.Second
		srv.ReadTimeout = 15 * time.Second
		// Snapshots block on sequential-per-service probe deadlines, so
		// the write timeout stays generous.
		srv.WriteTimeout = 2 * time.Minute
		srv.IdleTimeout = 2 * time.Minute
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("dashboard listening", "addr", addr, "production", production, "read_only", s.readOnly)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

// requestHost strips the port from the Host header so service links point
// at the host the client already reached us on.
func requestHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.Host)
	if err != nil {
		return r.Host
	}
	return host
}
