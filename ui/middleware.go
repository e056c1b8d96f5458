package ui

import (
	"chartdesk/ui/middleware"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware shared by every route
func (s *Server) setupMiddleware() {
	s.router.Use(gin.LoggerWithWriter(s.logger.Writer(), "/healthz"))
	s.router.Use(gin.Recovery())
	s.router.MaxMultipartMemory = 8 << 20
}

func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return middleware.EnsureSession(s.store, s.catalog, s.config.View.DefaultLang, s.logger)
}
