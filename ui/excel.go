package ui

import (
	"net/http"

	"pricecompare/adapters/excel"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExport downloads the validated table with the current differences
func (s *Server) handleExport(c *gin.Context) {
	view := s.run(s.state(c))
	if view.Table == nil {
		c.String(http.StatusNotFound, "no valid spreadsheet uploaded")
		return
	}

	data, err := excel.ExportResults(view.Table, view.Results)
	if err != nil {
		s.logger.Error("export failed: %v", err)
		c.String(http.StatusInternalServerError, "export failed")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="price-comparison.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
