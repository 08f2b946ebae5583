package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/chat-transcript/internal/config"
	"github.com/nguyentantai21042004/chat-transcript/internal/logger"
	"github.com/nguyentantai21042004/chat-transcript/internal/processor"
)

// Server exposes the processor over HTTP and websocket.
type Server struct {
	cfg    config.ServerConfig
	proc   processor.Processor
	logger logger.Logger
	engine *gin.Engine
}

func New(cfg config.ServerConfig, proc processor.Processor, log logger.Logger) *Server {
	s := &Server{cfg: cfg, proc: proc, logger: log}
	s.engine = s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.MaxMultipartMemory = int64(s.maxUploadBytes())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/transcripts", s.handleTranscripts)
		api.POST("/reports", s.handleReport)
	}

	r.GET("/ws/analyze", s.handleAnalyzeWebSocket)
	return r
}

// ListenAndServe blocks until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "HTTP server listening on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info(ctx, "Shutting down HTTP server...")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) maxUploadBytes() int {
	mb := s.cfg.MaxUploadMB
	if mb <= 0 {
		mb = 32
	}
	return mb << 20
}

func (s *Server) maxImages() int {
	if s.cfg.MaxImageCount <= 0 {
		return 20
	}
	return s.cfg.MaxImageCount
}
