package ui

import (
	"net/http"

	"chartdesk/internal/errors"

	"github.com/gin-gonic/gin"
)

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	// Render to a buffer first so a template error never produces half a page
	buf, err := s.renderer.Render(templateName, data)
	if err != nil {
		s.logger.WithField("template", templateName).Error("template error: %v", err)
		s.abortWithError(c, http.StatusInternalServerError, errors.Wrap(err, "template rendering failed"))
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Error("error writing template response: %v", err)
	}
}

// abortWithError answers with the JSON error shape used by every endpoint
func (s *Server) abortWithError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

// HTMX helpers
func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}
