package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpadapter "github.com/cmgfi/tellcmg-api/internal/adapters/mcp"
	"github.com/cmgfi/tellcmg-api/internal/bootstrap"
	"github.com/cmgfi/tellcmg-api/internal/config"
	"github.com/cmgfi/tellcmg-api/internal/observability/logging"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	// Stdout carries the MCP protocol; logs go to stderr.
	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "tellcmg-mcp", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	srv := mcpadapter.NewServer(app.StructureUC, app.SubmitUC, app.Catalog)
	if err := srv.Serve(version); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
