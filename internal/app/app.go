package app

import (
	"context"
	"fmt"

	"diagcoord/internal/config"
	"diagcoord/internal/diag"
	"diagcoord/internal/server"
	"diagcoord/internal/transport"
)

// App is the process-level dependency graph: one Coordinator, one
// ProjectRegistry, one HTTP server. Grounded on the teacher's
// internal/gateway/app.App.
type App struct {
	server   *server.Server
	trace    *diag.RingTrace
	registry *transport.StaticRegistry
}

// New builds the full dependency graph from Config. host is the
// analyzer host to coordinate against; pass nil with cfg.Dev set to
// use the in-process FakeHostAdapter instead.
func New(cfg *config.Config, host diag.HostAdapter, perf diag.PerfTracker) (*App, error) {
	if host == nil {
		if !cfg.Dev {
			return nil, fmt.Errorf("no host adapter configured and -dev not set")
		}
		host = &diag.FakeHostAdapter{}
	}

	var trace *diag.RingTrace
	var sink diag.TraceSink
	if cfg.TraceCapacity > 0 {
		trace = diag.NewRingTrace(cfg.TraceCapacity)
		sink = trace
	}

	coordinator := diag.NewCoordinator(host, perf, cfg.BuildMemoSize, sink)
	registry := transport.NewStaticRegistry()

	unary := transport.NewUnaryHandler(coordinator, registry)
	ws := transport.NewWSHandler(coordinator, registry)
	debug := transport.NewDebugHandler(trace)

	mux := transport.NewMux(unary, ws, debug)
	srv := server.New(cfg.Port, mux)

	return &App{server: srv, trace: trace, registry: registry}, nil
}

// Registry exposes the project registry so a caller (or -dev bootstrap
// code) can register project handles before serving traffic.
func (a *App) Registry() *transport.StaticRegistry { return a.registry }

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	defer func() {
		if a.trace != nil {
			a.trace.Close()
		}
	}()
	return a.server.Shutdown(ctx)
}
