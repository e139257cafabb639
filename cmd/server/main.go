package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sysneld1/dialogue-generator/internal/api/middleware"
	"github.com/sysneld1/dialogue-generator/internal/archive"
	"github.com/sysneld1/dialogue-generator/internal/config"
	"github.com/sysneld1/dialogue-generator/internal/dialog"
	"github.com/sysneld1/dialogue-generator/internal/gpu"
	"github.com/sysneld1/dialogue-generator/internal/llm"
	"github.com/sysneld1/dialogue-generator/internal/logger"
	"github.com/sysneld1/dialogue-generator/internal/websocket"
	"github.com/sysneld1/dialogue-generator/internal/wire"
)

func main() {
	// Load configuration
	cfg, err := config.Load(config.Overrides{})
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}

	if cfg.Debug {
		logger.SetLevel(logger.LevelDebug)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Probe the local inference server once at startup. A dead model is not
	// fatal: the server still runs, and dialog starts report it as
	// unavailable.
	logger.Infof("Probing inference server at %s...", cfg.LLMBaseURL)
	client := llm.NewClient(cfg.LLMBaseURL)
	probeCtx, cancelProbe := context.WithTimeout(context.Background(), 10*time.Second)
	ready := true
	if err := client.Ping(probeCtx); err != nil {
		logger.Errorf("Inference server unavailable: %v", err)
		ready = false
	}
	cancelProbe()
	adapter := llm.NewAdapter(client, ready)

	store := dialog.NewStore()
	archiver := archive.NewWriter(cfg.LogsDir)
	sampler := gpu.NewSMISampler()

	// Initialize the realtime surface
	logger.Infof("Initializing Socket.IO server...")
	socketIOServer := websocket.NewSocketIOServer(store, adapter, archiver, sampler)
	defer socketIOServer.Close()
	statusServer := websocket.NewStatusServer(sampler)

	// Background GPU monitor, one per process, for the process lifetime.
	monitor := gpu.NewMonitor(sampler, func(status gpu.Status) {
		payload := wire.GpuStatusPayload{Status: string(status), Message: status.Message()}
		socketIOServer.Broadcast("gpu_status", payload)
		statusServer.Broadcast(status)
	})
	go monitor.Run(context.Background())

	// Create Gin router
	router := gin.New()
	router.Use(middleware.Logging(), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"*"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	// Client UI
	router.StaticFile("/", "./web/index.html")

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	// Socket.IO endpoint
	router.Any("/socket.io", socketIOServer.HandleSocketIO())
	router.Any("/socket.io/*any", socketIOServer.HandleSocketIO())

	// Plain WebSocket status feed
	router.GET("/ws/status", statusServer.Handle)

	logger.Infof("Transcript archive directory: %s", cfg.LogsDir)

	// Serve HTTPS when certificate material is present, else fall back to
	// plain HTTP on the configured port.
	if cfg.TLS != nil {
		logger.Infof("Dialogue Generator starting on https://localhost%s", cfg.TLSAddr)
		if err := router.RunTLS(cfg.TLSAddr, cfg.TLS.CertFile, cfg.TLS.KeyFile); err != nil {
			logger.Errorf("Failed to start server: %v", err)
			os.Exit(1)
		}
		return
	}

	logger.Infof("TLS certificates not found; starting on http://localhost%s", cfg.Addr)
	logger.Infof("For HTTPS create certificates with: openssl req -x509 -newkey rsa:4096 -nodes -out cert.pem -keyout key.pem -days 365")
	if err := router.Run(cfg.Addr); err != nil {
		logger.Errorf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
