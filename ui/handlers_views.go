package ui

import (
	"bytes"
	"net/http"
	"strings"

	"pricecompare/internal/chart"
	"pricecompare/internal/report"

	"github.com/gin-gonic/gin"
)

// handleChart renders /charts/{static|dynamic}.{png|svg} for the session
func (s *Server) handleChart(c *gin.Context) {
	name := c.Param("file")
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		c.String(http.StatusNotFound, "unknown chart")
		return
	}
	format, err := chart.ParseFormat(name[dot+1:])
	if err != nil {
		c.String(http.StatusNotFound, "unknown chart format")
		return
	}

	view := s.run(s.state(c))
	var spec *chart.Spec
	switch chart.Kind(name[:dot]) {
	case chart.KindStatic:
		spec = view.StaticChart
	case chart.KindDynamic:
		spec = view.DynamicChart
	default:
		c.String(http.StatusNotFound, "unknown chart")
		return
	}
	if spec == nil {
		c.String(http.StatusNotFound, "chart not available")
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(*spec, format, &buf); err != nil {
		s.logger.Error("rendering %s: %v", name, err)
		c.String(http.StatusInternalServerError, "chart rendering failed")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// handleReport serves the run summary as HTML
func (s *Server) handleReport(c *gin.Context) {
	view := s.run(s.state(c))
	s.renderTemplate(c, http.StatusOK, templateReport, gin.H{
		"Body": report.HTML(view),
	})
}

// handleReportMarkdown serves the run summary as markdown
func (s *Server) handleReportMarkdown(c *gin.Context) {
	view := s.run(s.state(c))
	c.Header("Content-Disposition", `attachment; filename="price-comparison.md"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.Markdown(view)))
}
