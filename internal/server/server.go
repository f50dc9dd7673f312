package server

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/filescope/filescope/internal/config"
	filehttp "github.com/filescope/filescope/internal/http"
	"github.com/filescope/filescope/internal/infrastructure/monitoring"
	"github.com/filescope/filescope/internal/logging"
	"github.com/filescope/filescope/internal/middleware"
	"github.com/filescope/filescope/internal/providers/analyzer"
	"github.com/filescope/filescope/internal/providers/clipboard"
	"github.com/filescope/filescope/internal/providers/navigation"
	"github.com/filescope/filescope/internal/providers/scanner"
	"github.com/filescope/filescope/internal/providers/settings"
	"github.com/filescope/filescope/internal/providers/transfer"
	"github.com/filescope/filescope/internal/providers/volumes"
	"github.com/filescope/filescope/internal/service"
	"github.com/filescope/filescope/internal/shell"
	"github.com/filescope/filescope/internal/ws"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	registry *service.Registry
	hub      *ws.Hub
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize logger
	level := cfg.Logging.Level
	if cfg.Logging.Development && level == "" {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{
		Level:       level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	logger.Info("Initializing FileScope Server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()

	// Settings store backs both the settings service and navigation
	// folder overrides.
	settingsPath := cfg.Settings.Path
	if settingsPath == "" {
		settingsPath = defaultSettingsPath()
	}
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}
	store, err := settings.NewStore(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}
	logger.Info("Settings store ready", zap.String("path", settingsPath))

	// Progress events fan out to WebSocket subscribers.
	hub := ws.NewHub()

	// Transfer engine: external rclone backend when present, direct
	// filesystem backend otherwise.
	transferLog := logger.Named("transfer")
	engine := transfer.NewEngine(
		transfer.NewRcloneBackend(cfg.Transfer.RcloneBinary, transferLog),
		transfer.NewDirectBackend(cfg.Transfer.BusyRetries, cfg.Transfer.BusyBackoff),
		hub,
		transferLog,
	).WithRecorder(metrics)

	// Register service providers
	serviceRegistry := service.NewRegistry()
	providers := []service.Provider{
		scanner.NewProvider(scanner.Options{
			BatchSize:  cfg.Scanner.BatchSize,
			CacheTTL:   cfg.Cache.ListingTTL,
			CacheSize:  cfg.Cache.MaxSize,
			MaxResults: cfg.Scanner.MaxItems,
			Observer:   metrics,
		}, logger.Named("fs")),
		analyzer.NewProvider(analyzer.Options{
			MaxDepth:  cfg.Analyzer.MaxDepth,
			CacheTTL:  cfg.Cache.MetadataTTL,
			CacheSize: cfg.Cache.MaxSize,
			Observer:  metrics,
		}, logger.Named("folder")),
		volumes.NewProvider(volumes.NewEnumerator(volumes.Options{
			TTL:          cfg.Cache.VolumeTTL,
			QueryTimeout: cfg.Volumes.QueryTimeout,
			Logger:       logger.Named("volumes"),
			Observer:     metrics,
		})),
		transfer.NewProvider(engine),
		clipboard.NewProvider(clipboard.NewCoordinator(engine)),
		navigation.NewProvider(navigation.NewGuard(store)),
		settings.NewProvider(store),
	}
	for _, p := range providers {
		if err := serviceRegistry.Register(p); err != nil {
			logger.Warn("Failed to register provider",
				zap.String("service", p.Definition().ID),
				zap.Error(err),
			)
		}
	}
	logger.Info("Service providers registered", zap.Int("count", len(providers)))

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	// Create handlers
	handlers := filehttp.NewHandlers(serviceRegistry, shell.NewOpener(logger.Named("shell")), metrics, logger)
	wsHandler := ws.NewHandler(hub, logger.Named("ws")).WithMetrics(metrics)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Service management
	router.GET("/services", handlers.ListServices)
	router.POST("/services/execute", handlers.ExecuteService)

	// Desktop integration actions (open, reveal)
	router.POST("/actions", handlers.Action)

	// WebSocket
	router.GET("/stream", wsHandler.HandleConnection)

	// Metrics endpoints
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/metrics/json", handlers.MetricsJSON)

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		registry: serviceRegistry,
		hub:      hub,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Router exposes the gin engine, primarily for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")
	s.logger.Sync()
	return nil
}

// defaultSettingsPath places the settings file under the user config
// directory, falling back to the working directory when that cannot be
// resolved.
func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "filescope-settings.json"
	}
	return filepath.Join(dir, "filescope", "settings.json")
}
