package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"diagcoord/internal/app"
	"diagcoord/internal/config"
	"diagcoord/internal/diag"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	a, err := app.New(cfg, nil, nil)
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}

	if cfg.Dev {
		seedDevProjects(a)
	}

	go func() {
		if err := a.Start(); err != nil {
			log.Printf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	grace := time.Duration(cfg.ShutdownGraceSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := a.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exiting")
}

// seedDevProjects registers a couple of deterministic fake projects so
// -dev mode is immediately useful without a real host.
func seedDevProjects(a *app.App) {
	style := diag.NewFakeAnalyzerReference("style-analyzers",
		diag.NewFakeAnalyzer("unused-import"),
		diag.NewFakeAnalyzer("naming-convention"),
	)
	correctness := diag.NewFakeAnalyzerReference("correctness-analyzers",
		diag.NewFakeAnalyzer("null-deref"),
		diag.NewFakeAnalyzer("unreachable-code"),
	)

	demo := diag.NewFakeProjectHandle("demo-project", "go", []diag.AnalyzerReference{style, correctness}).
		WithDocument("main.go", "package main\n\nfunc main() {}\n")

	a.Registry().Register("demo-project", demo)
}
