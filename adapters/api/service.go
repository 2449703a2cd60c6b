package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"pricecompare/domain/pricing"
	"pricecompare/internal"
	"pricecompare/internal/chart"
	"pricecompare/internal/dashboard"
	"pricecompare/internal/errors"
	"pricecompare/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the stateless JSON API: every request carries its own file
type Server struct {
	router   *chi.Mux
	pipeline *dashboard.Pipeline
	renderer ports.ChartRenderer
	config   Config
	logger   *internal.Logger
}

// NewServer creates the API server
func NewServer(config Config, pipeline *dashboard.Pipeline, renderer ports.ChartRenderer, logger *internal.Logger) *Server {
	defaults := DefaultConfig()
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if config.MaxQuantitiesBytes <= 0 {
		config.MaxQuantitiesBytes = defaults.MaxQuantitiesBytes
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	s := &Server{
		router:   chi.NewRouter(),
		pipeline: pipeline,
		renderer: renderer,
		config:   config,
		logger:   logger.For("API"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", s.handleHealth)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/charts/{file}", s.handleChart)
	})
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
		log.Printf("Starting price comparison API on http://%s", addr)
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

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze runs the whole pipeline on a multipart upload
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	view, err := s.runRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewAnalyzeResponse(view))
}

// handleChart renders {static|dynamic}.{png|svg} for a multipart upload
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	dot := strings.LastIndex(file, ".")
	if dot < 0 {
		s.writeError(w, errors.NotFound("chart "+file))
		return
	}
	kind := chart.Kind(file[:dot])
	if kind != chart.KindStatic && kind != chart.KindDynamic {
		s.writeError(w, errors.NotFound("chart "+file))
		return
	}
	format, err := chart.ParseFormat(file[dot+1:])
	if err != nil {
		s.writeError(w, errors.InvalidInput(err.Error()))
		return
	}

	view, err := s.runRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	spec := view.StaticChart
	if kind == chart.KindDynamic {
		spec = view.DynamicChart
	}
	if spec == nil {
		if view.Err == nil {
			s.writeError(w, errors.NotFound("chart "+file))
			return
		}
		s.writeError(w, view.Err)
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(*spec, format, &buf); err != nil {
		s.writeError(w, errors.Wrap(err, "chart rendering failed"))
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// runRequest parses the multipart form and runs the pipeline. A rejected
// table is returned as an error; a selection problem is not.
func (s *Server) runRequest(w http.ResponseWriter, r *http.Request) (*dashboard.View, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		return nil, errors.InvalidInput("expected a multipart form with a file field")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errors.InvalidInput("file field is required")
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, s.config.MaxUploadBytes+1))
	if err != nil {
		return nil, errors.InvalidInput("failed to read file")
	}
	if int64(len(content)) > s.config.MaxUploadBytes {
		return nil, errors.InvalidInput("file exceeds the upload limit")
	}

	quantities, err := s.parseQuantities(r.FormValue("quantities"))
	if err != nil {
		return nil, err
	}

	dealers, dealersSet := r.MultipartForm.Value["dealers"]
	view := s.pipeline.Run(dashboard.RunInput{
		Filename:   header.Filename,
		Content:    content,
		Dealers:    dealers,
		DealersSet: dealersSet,
		Quantities: quantities,
	})
	if view.Stage == dashboard.StageRejected {
		return nil, errors.Wrap(view.Err, view.Error)
	}
	if view.Table == nil && view.Err != nil {
		return nil, view.Err
	}
	s.logger.Debug("analyzed %s: stage=%s", header.Filename, view.Stage)
	return view, nil
}

func (s *Server) parseQuantities(raw string) (pricing.Quantities, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	if len(raw) > s.config.MaxQuantitiesBytes {
		return nil, errors.InvalidInput("quantities field is too large")
	}
	var quantities pricing.Quantities
	if err := json.Unmarshal([]byte(raw), &quantities); err != nil {
		return nil, errors.InvalidInput("quantities must be a JSON object of product name to integer")
	}
	return quantities, nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	message := err.Error()
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	writeJSON(w, status, ErrorResponse{Code: errors.GetCode(err), Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] failed to encode response: %v", err)
	}
}
