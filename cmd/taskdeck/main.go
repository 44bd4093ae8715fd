package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authapi "github.com/taskdeck/taskdeck/internal/auth/api"
	authservice "github.com/taskdeck/taskdeck/internal/auth/service"
	"github.com/taskdeck/taskdeck/internal/auth/token"
	"github.com/taskdeck/taskdeck/internal/common/config"
	"github.com/taskdeck/taskdeck/internal/common/httpmw"
	"github.com/taskdeck/taskdeck/internal/common/logger"
	"github.com/taskdeck/taskdeck/internal/events"
	gatewayws "github.com/taskdeck/taskdeck/internal/gateway/websocket"
	taskapi "github.com/taskdeck/taskdeck/internal/task/api"
	"github.com/taskdeck/taskdeck/internal/task/repository"
	taskservice "github.com/taskdeck/taskdeck/internal/task/service"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize logger
	log, err := logger.NewLogger(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetDefault(log)

	log.Info("Starting Taskdeck server...")

	// 3. Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Initialize repository (Postgres or SQLite per config)
	repo, err := repository.Provide(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	// 5. Initialize event bus (NATS or in-memory per config)
	eventBus, busCleanup, err := events.Provide(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize event bus", zap.Error(err))
	}
	defer busCleanup()

	// 6. Initialize services
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDurationTime())
	authSvc := authservice.NewService(repo, tokens, cfg.Auth.BcryptCost, log)
	taskSvc := taskservice.NewService(repo, eventBus, log)

	// 7. Start WebSocket hub and bridge it to the event bus
	hub := gatewayws.NewHub(log)
	go hub.Run(ctx)

	wsSub, err := gatewayws.AttachEventBus(eventBus, hub)
	if err != nil {
		log.Fatal("Failed to attach event bus to WebSocket hub", zap.Error(err))
	}
	defer wsSub.Unsubscribe()

	// 8. Setup HTTP server with Gin
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(httpmw.Recovery(log))
	router.Use(httpmw.RequestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 9. Register API routes
	public := router.Group("/api")
	authapi.NewHandler(authSvc, log).RegisterRoutes(public)

	protected := router.Group("/api", httpmw.RequireAuth(tokens, log))
	taskapi.NewHandler(taskSvc, log).RegisterRoutes(protected)

	wsHandler := gatewayws.NewHandler(hub, tokens, log)
	router.GET("/api/ws", wsHandler.HandleConnection)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"event_bus":  eventBus.IsConnected(),
			"ws_clients": hub.ClientCount(),
		})
	})

	// 10. Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// 11. Start server in goroutine
	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// 12. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down Taskdeck server...")

	// 13. Graceful shutdown
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	log.Info("Taskdeck server stopped")
}
