package inspect

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/lockstep/logger"
	"github.com/kbukum/lockstep/registry"
	"github.com/kbukum/lockstep/runner"
)

// Server is the inspect HTTP server backed by Gin, served over HTTP/1.1 and
// HTTP/2 cleartext on one port.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger
	addr       string
}

// New creates a Server with its middleware and routes installed. The config
// must already have defaults applied.
func New(cfg Config, serviceName string, reg *registry.Registry, run *runner.Runner, log *logger.Logger) (*Server, error) {
	maxBody, err := cfg.MaxBodyBytes()
	if err != nil {
		return nil, fmt.Errorf("inspect.max_body_size: %w", err)
	}

	// Set Gin mode based on global zerolog level.
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log = log.WithComponent("inspect")
	engine := gin.New()
	engine.Use(Recovery(log), RequestID(), BodySizeLimit(maxBody), RequestLogger(log))

	h := &handlers{
		serviceName:    serviceName,
		registry:       reg,
		runner:         run,
		requestTimeout: seconds(cfg.RequestTimeout),
	}
	engine.GET("/health", h.health)
	engine.GET("/version", h.version)
	engine.GET("/types", h.listTypes)
	engine.GET("/types/:name", h.getType)
	engine.GET("/functions", h.listFunctions)
	limiter := cfg.evalLimiter(func(name string) {
		log.Warn("Rate limit reached", logger.Fields("limiter", name))
	})
	engine.POST("/eval", RateLimit(limiter), h.eval)

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          seconds(cfg.IdleTimeout),
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      h2c.NewHandler(engine, h2s),
			ReadTimeout:  seconds(cfg.ReadTimeout),
			WriteTimeout: seconds(cfg.WriteTimeout),
			IdleTimeout:  seconds(cfg.IdleTimeout),
		},
		engine: engine,
		config: cfg,
		log:    log,
		addr:   cfg.Addr(),
	}, nil
}

// Handler returns the root handler, including h2c support.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start binds the port and begins serving. It returns once the listener is
// bound so the caller knows the port is ready; serving continues in a goroutine.
func (s *Server) Start(_ context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("inspect server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.addr = listener.Addr().String()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("Inspect server started", logger.Fields("addr", s.addr))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down inspect server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", logger.Fields(logger.FieldError, err.Error()))
		return fmt.Errorf("inspect server shutdown error: %w", err)
	}

	s.log.Info("Inspect server shut down")
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	return s.addr
}
