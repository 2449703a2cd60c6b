package ui

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"pricecompare/internal"
	"pricecompare/internal/dashboard"
	"pricecompare/internal/session"
	"pricecompare/ports"

	"github.com/gin-gonic/gin"
)

// Config holds dashboard server settings
type Config struct {
	MaxUploadBytes int64
	CookieName     string
	SessionTTL     time.Duration
}

// Server represents the dashboard web server
type Server struct {
	router    *gin.Engine
	templates *template.Template
	pipeline  *dashboard.Pipeline
	renderer  ports.ChartRenderer
	sessions  *session.Store
	config    Config
	logger    *internal.Logger
}

// NewServer creates a dashboard server. templatesFS must hold the *.html
// templates at its root.
func NewServer(config Config, templatesFS fs.FS, pipeline *dashboard.Pipeline, renderer ports.ChartRenderer, sessions *session.Store, logger *internal.Logger) (*Server, error) {
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = 10 * 1024 * 1024
	}
	if config.CookieName == "" {
		config.CookieName = "pricecompare_session"
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	s := &Server{
		router:   gin.Default(),
		pipeline: pipeline,
		renderer: renderer,
		sessions: sessions,
		config:   config,
		logger:   logger.For("UI"),
	}

	if err := s.parseTemplates(templatesFS); err != nil {
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) parseTemplates(templatesFS fs.FS) error {
	files, err := fs.Glob(templatesFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to glob templates: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no templates found")
	}

	s.templates = template.New("").Funcs(templateFuncs())
	for _, file := range files {
		content, err := fs.ReadFile(templatesFS, file)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", file, err)
		}
		if _, err := s.templates.New(file).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", file, err)
		}
	}
	s.logger.Debug("parsed %d templates: %v", len(files), files)
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	s.router.POST("/upload", s.handleFileUpload)
	s.router.POST("/run", s.handleRun)
	s.router.POST("/reset", s.handleReset)

	s.router.GET("/charts/:file", s.handleChart)
	s.router.GET("/report", s.handleReport)
	s.router.GET("/report.md", s.handleReportMarkdown)
	s.router.GET("/export.xlsx", s.handleExport)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting price comparison dashboard on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
