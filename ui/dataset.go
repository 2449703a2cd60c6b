package ui

import (
	"fmt"
	"io"
	"net/http"

	"pricecompare/adapters/excel"
	"pricecompare/internal/dashboard"
	"pricecompare/internal/session"

	"github.com/gin-gonic/gin"
)

// handleFileUpload stores an uploaded price sheet in the session and
// renders the dashboard for it
func (s *Server) handleFileUpload(c *gin.Context) {
	st := s.state(c)
	// Leave headroom for the multipart envelope.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxUploadBytes+1024*1024)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		s.logger.Warn("upload without file: %v", err)
		s.uploadError(c, st, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size > s.config.MaxUploadBytes {
		s.logger.Warn("upload too large: %d bytes", header.Size)
		s.uploadError(c, st, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File size (%.1f MB) exceeds the %d MB limit", float64(header.Size)/(1024*1024), s.config.MaxUploadBytes/(1024*1024)))
		return
	}

	if excel.FileType(header.Filename) == "" {
		s.logger.Warn("invalid file extension: %s", header.Filename)
		s.uploadError(c, st, http.StatusBadRequest, "Only Excel (.xlsx) and CSV (.csv) files are allowed")
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, s.config.MaxUploadBytes+1))
	if err != nil {
		s.logger.Error("reading upload %s: %v", header.Filename, err)
		s.uploadError(c, st, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	// A new file resets the widget state.
	next := &session.State{ID: st.ID, Filename: header.Filename, Content: content}
	view := s.run(next)
	if view.Table != nil {
		next.Products = view.Table.Products()
	}
	s.sessions.Save(next)
	s.logger.Info("session %s uploaded %s (%d bytes): %s", st.ID, header.Filename, len(content), view.Stage)

	if saved, ok := s.sessions.Get(next.ID); ok {
		next = saved
	}
	s.renderTemplate(c, http.StatusOK, templateIndex, s.page(next, view))
}

func (s *Server) uploadError(c *gin.Context, st *session.State, status int, message string) {
	p := s.page(st, &dashboard.View{Stage: dashboard.StageIdle})
	if st.HasUpload() {
		p.View = s.run(st)
	}
	p.UploadError = message
	s.renderTemplate(c, status, templateIndex, p)
}
