// cmd/pokemon-server/main.go
package main

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/config"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/logger"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; this is the one place a bare print is allowed.
		os.Stderr.WriteString("config load failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting MCP Pokémon server",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
	)

	// Metrics live on their own listener; stdout is reserved for the
	// MCP stream.
	if cfg.Server.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			zapLog.Info("metrics endpoint listening", zap.String("addr", cfg.Server.MetricsAddr))
			if err := http.ListenAndServe(cfg.Server.MetricsAddr, mux); err != nil {
				zapLog.Warn("metrics endpoint stopped", zap.Error(err))
			}
		}()
	}

	srv := server.New(cfg, log)
	if err := srv.ServeStdio(); err != nil {
		zapLog.Fatal("server stopped", zap.Error(err))
	}

	zapLog.Info("shutdown complete")
}
