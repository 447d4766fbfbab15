package main

import (
	"fmt"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kdesch5000/observium-mcp/internal/config"
	"github.com/kdesch5000/observium-mcp/internal/database"
	"github.com/kdesch5000/observium-mcp/internal/handlers"
	"github.com/kdesch5000/observium-mcp/internal/health"
	"github.com/kdesch5000/observium-mcp/internal/inventory"
	"github.com/kdesch5000/observium-mcp/internal/logger"
	"github.com/kdesch5000/observium-mcp/internal/rrd"
	"github.com/kdesch5000/observium-mcp/internal/tools"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	gin.SetMode(cfg.GinMode)

	db, err := database.New(cfg)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := inventory.NewStore(db.DB, log)
	archive := rrd.NewService(cfg, log)
	svc := tools.New(store, archive, log)
	handler := handlers.New(svc, log)

	router := gin.Default()
	router.Use(handlers.RequestID())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:80"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	router.GET("/health", health.Handler(db, archive, version))

	api := router.Group("/api")
	handler.RegisterRoutes(api)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	log.Info("starting api server", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
