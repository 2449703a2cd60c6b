package ui

import (
	"pricecompare/ui/middleware"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.MaxMultipartMemory = s.config.MaxUploadBytes
	s.router.Use(middleware.EnsureSession(s.config.CookieName, s.config.SessionTTL))
}
