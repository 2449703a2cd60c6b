package ui

import (
	"net/http"
	"time"

	"pricecompare/internal/dashboard"
	"pricecompare/internal/session"
	"pricecompare/ui/middleware"

	"github.com/gin-gonic/gin"
)

// page is the data handed to the index and results templates
type page struct {
	View           *dashboard.View
	UploadError    string
	Version        int64
	MaxUploadMB    int64
	ProductColumn  string
	QuantityColumn string
}

// state loads the caller's session, or a fresh one
func (s *Server) state(c *gin.Context) *session.State {
	id := middleware.SessionID(c)
	if st, ok := s.sessions.Get(id); ok {
		return st
	}
	return &session.State{ID: id}
}

func (s *Server) run(st *session.State) *dashboard.View {
	return s.pipeline.Run(dashboard.RunInput{
		Filename:   st.Filename,
		Content:    st.Content,
		Dealers:    st.Dealers,
		DealersSet: st.DealersSet,
		Quantities: st.Quantities,
	})
}

func (s *Server) page(st *session.State, view *dashboard.View) page {
	cfg := s.pipeline.Config()
	return page{
		View:           view,
		Version:        st.UpdatedAt.UnixNano(),
		MaxUploadMB:    s.config.MaxUploadBytes / (1024 * 1024),
		ProductColumn:  cfg.ProductColumn,
		QuantityColumn: cfg.QuantityColumn,
	}
}

// handleIndex serves the dashboard for the current session
func (s *Server) handleIndex(c *gin.Context) {
	st := s.state(c)
	s.renderTemplate(c, http.StatusOK, templateIndex, s.page(st, s.run(st)))
}

// handleRun re-executes the pipeline with the submitted widget state and
// returns the results fragment
func (s *Server) handleRun(c *gin.Context) {
	st := s.state(c)
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}

	form := c.Request.PostForm
	if dealers, ok := parseDealers(form); ok {
		st.Dealers = dealers
		st.DealersSet = true
	}
	st.Quantities = parseQuantities(form, st.Products)

	if st.HasUpload() {
		s.sessions.Save(st)
		// Save stamps UpdatedAt on its own copy; reload so chart URLs change.
		if saved, ok := s.sessions.Get(st.ID); ok {
			st = saved
		}
	}

	view := s.run(st)
	s.logger.Debug("run %s: stage=%s", st.ID, view.Stage)

	name := templateResults
	if !isHTMX(c) {
		name = templateIndex
	}
	s.renderTemplate(c, http.StatusOK, name, s.page(st, view))
}

// handleReset forgets the uploaded file
func (s *Server) handleReset(c *gin.Context) {
	s.sessions.Delete(middleware.SessionID(c))
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": s.sessions.Len(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}
