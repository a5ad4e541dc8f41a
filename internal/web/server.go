// Package web serves the REST endpoints, the MCP mount and metrics.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/example/callsched/internal/calls"
	"github.com/example/callsched/internal/monitor"
	"github.com/example/callsched/internal/vapi"
)

const serviceName = "callsched"

// CallService is what the REST handlers need from the orchestrator.
type CallService interface {
	PlaceCall(ctx context.Context, in calls.Input) (calls.Result, error)
	CallStatus(ctx context.Context, id string) (vapi.CallRecord, error)
}

// ActiveLister lists calls currently being monitored.
type ActiveLister interface {
	Active() []monitor.Entry
}

// Credentials records which credentials are configured, never their values.
type Credentials struct {
	VapiKey       bool
	VapiPhone     bool
	VapiAssistant bool
	PokeKey       bool
}

type Config struct {
	Version     string
	Credentials Credentials

	// RateLimit is requests per second per client IP on call-placing
	// routes; RateBurst is the bucket size.
	RateLimit float64
	RateBurst int

	Logger *zap.Logger
}

type Server struct {
	echo     *echo.Echo
	calls    CallService
	monitors ActiveLister
	mcp      http.Handler
	cfg      Config
	logger   *zap.Logger
}

// NewServer builds the echo instance. mcpHandler and monitors may be nil.
func NewServer(cfg Config, svc CallService, monitors ActiveLister, mcpHandler http.Handler) (*Server, error) {
	if svc == nil {
		return nil, errors.New("call service is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 1
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 5
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(cfg.Logger))

	s := &Server{
		echo:     e,
		calls:    svc,
		monitors: monitors,
		mcp:      mcpHandler,
		cfg:      cfg,
		logger:   cfg.Logger,
	}
	s.registerRoutes()
	return s, nil
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		}
	}
}

func (s *Server) rateLimiter() echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(s.cfg.RateLimit),
		Burst:     s.cfg.RateBurst,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/debug", s.handleDebug)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/call-status/:callId", s.handleCallStatus)

	limit := s.rateLimiter()

	v1 := s.echo.Group("/api/v1")
	v1.POST("/requests", s.handleRequest, limit)

	if s.mcp != nil {
		h := echo.WrapHandler(s.mcp)
		s.echo.Any("/mcp", h, limit)
	}
}

// Routes returns the root handler.
func (s *Server) Routes() http.Handler { return s.echo }

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down http server")
		_ = s.echo.Shutdown(shutdownCtx)
	}()
	s.logger.Info("starting http server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
