package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"brandscope/internal/config"
	"brandscope/internal/middleware"
	"brandscope/internal/models"
	"brandscope/internal/monitoring"
)

const (
	analyzeTimeoutFactor  = 3
	deepScanTimeoutFactor = 6
)

// BrandService is the application surface the handlers depend on
type BrandService interface {
	AnalyzeBrand(ctx context.Context, brandName string) (*models.BrandReport, error)
	DeepScan(ctx context.Context, brandName string) (*models.DeepScanReport, error)
	Analytics(ctx context.Context) (*models.AnalyticsReport, error)
}

// Server represents the HTTP server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	service    BrandService
	gatherer   prometheus.Gatherer
	logger     *slog.Logger
	config     *config.Config
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, service BrandService, metrics *monitoring.Metrics, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	// Set Gin mode
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add recovery middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics(metrics))

	// Add CORS middleware
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	s := &Server{
		router: router,
		httpServer: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		service:  service,
		gatherer: gatherer,
		logger:   logger,
		config:   cfg,
	}

	// Register routes
	s.registerRoutes()

	return s
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// registerRoutes sets up all the routes for the server
func (s *Server) registerRoutes() {
	s.router.GET("/health", s.healthHandler)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	s.router.GET("/analyze-brand", s.analyzeBrandHandler)
	s.router.POST("/deep-scan", s.deepScanHandler)

	// Internal usage report
	s.router.GET("/analytics", s.analyticsHandler)
}

// healthHandler handles health check requests
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// requestContext bounds a handler's work to factor request timeouts
func (s *Server) requestContext(c *gin.Context, factor int) (context.Context, context.CancelFunc) {
	timeout := s.config.Analyzer.RequestTimeout
	if timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), time.Duration(factor)*timeout)
}
