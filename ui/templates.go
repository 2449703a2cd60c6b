package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"pricecompare/domain/pricing"
	"pricecompare/internal/chart"

	"github.com/gin-gonic/gin"
)

const (
	templateIndex   = "index.html"
	templateResults = "results.html"
	templateReport  = "report.html"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
		"cell": func(raw []string, i int) string {
			if i < len(raw) {
				return raw[i]
			}
			return ""
		},
		"signed": func(v float64) string {
			return chart.FormatSigned(v, true)
		},
		"num": func(v float64) string {
			if pricing.IsMissing(v) {
				return "n/a"
			}
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
		"sliderName": func(i int) string {
			return fmt.Sprintf("qty.%d", i)
		},
		"unsafeHTML": func(b []byte) template.HTML {
			return template.HTML(b)
		},
	}
}

// renderTemplate executes a template into a buffer first so a failing
// template never leaves a half-written response
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("template error for %s: %v", templateName, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed"})
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}
