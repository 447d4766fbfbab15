package main

import (
	"os"

	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"

	"github.com/kdesch5000/observium-mcp/internal/config"
	"github.com/kdesch5000/observium-mcp/internal/database"
	"github.com/kdesch5000/observium-mcp/internal/inventory"
	"github.com/kdesch5000/observium-mcp/internal/logger"
	"github.com/kdesch5000/observium-mcp/internal/mcpserver"
	"github.com/kdesch5000/observium-mcp/internal/rrd"
	"github.com/kdesch5000/observium-mcp/internal/tools"
)

// The MCP server speaks the protocol on stdout, so all logging goes to
// stderr (the logger package enforces this).
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	db, err := database.New(cfg)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := inventory.NewStore(db.DB, log)
	archive := rrd.NewService(cfg, log)
	svc := tools.New(store, archive, log)

	server := mcp.NewServer(stdio.NewStdioServerTransport())
	if err := mcpserver.New(svc, log).RegisterTools(server); err != nil {
		log.Error("failed to register tools", "error", err)
		os.Exit(1)
	}

	log.Info("mcp server ready",
		"rrd_path", cfg.RRDPath,
		"local_archive", cfg.RRDLocalEnabled,
		"remote_archive", cfg.RemoteConfigured(),
	)

	if err := server.Serve(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}

	// Serve returns once the transport is up; block until stdin closes.
	select {}
}
