package ui

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"path/filepath"

	"chartdesk/adapters/excel"
	"chartdesk/internal/errors"
	"chartdesk/internal/session"
	"chartdesk/ui/middleware"
	"chartdesk/ui/services"

	"github.com/gin-gonic/gin"
)

// uploadField is the multipart field carrying the data file
const uploadField = "dataset"

// currentSession loads the session attached by the middleware. A session
// that expired in between is replaced by an empty one in the same locale.
func (s *Server) currentSession(c *gin.Context) session.Session {
	if sess, ok := s.store.Get(middleware.SessionID(c)); ok {
		return sess
	}
	lang := s.catalog.Match(c.Query("lang"), c.GetHeader("Accept-Language"), s.config.View.DefaultLang)
	return session.Session{Lang: lang}
}

// buildView runs the render pass for the current request
func (s *Server) buildView(c *gin.Context) (*services.View, bool) {
	sess := s.currentSession(c)
	view, err := s.views.Build(sess, services.ParseViewQuery(c.Request.URL.Query()))
	if err != nil {
		s.logger.WithField("session", sess.ID).Error("render pass failed: %v", err)
		s.abortWithError(c, http.StatusInternalServerError, errors.Wrapf(err, "failed to build view for %s", c.Request.URL.Path))
		return nil, false
	}
	return view, true
}

// handleIndex renders the page, or only the results fragment for HTMX requests
func (s *Server) handleIndex(c *gin.Context) {
	view, ok := s.buildView(c)
	if !ok {
		return
	}
	if isHTMX(c) {
		s.renderTemplate(c, services.ResultsFragment, view)
		return
	}
	s.renderTemplate(c, services.PageTemplate, view)
}

// handleAPIView returns the render pass as JSON
func (s *Server) handleAPIView(c *gin.Context) {
	view, ok := s.buildView(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

// handleUpload replaces the session table with the uploaded file. A failed
// upload clears the previous table so stale results are never shown next to
// the error.
func (s *Server) handleUpload(c *gin.Context) {
	id := middleware.SessionID(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.Upload.MaxBytes)

	fileHeader, err := c.FormFile(uploadField)
	if err != nil {
		status := http.StatusBadRequest
		appErr := errors.InvalidInput(fmt.Sprintf("missing upload field %q", uploadField))
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
			appErr = errors.InvalidInput(fmt.Sprintf("file exceeds %d MB", s.config.Upload.MaxBytes>>20))
		}
		s.failUpload(c, id, "", status, appErr)
		return
	}

	name := filepath.Base(fileHeader.Filename)
	reader, err := excel.NewDataReader(name, s.excel)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errors.CodeUnsupportedFormat) {
			status = http.StatusUnsupportedMediaType
		}
		s.failUpload(c, id, name, status, err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		s.failUpload(c, id, name, http.StatusInternalServerError, errors.ParseFailed(name, err))
		return
	}
	defer file.Close()

	table, err := reader.Read(file)
	if err != nil {
		s.failUpload(c, id, name, http.StatusBadRequest, err)
		return
	}

	s.store.Update(id, func(sess *session.Session) {
		sess.FileName = name
		sess.Table = table
		sess.Error = ""
	})
	s.logger.WithFields(map[string]interface{}{
		"session": id,
		"file":    name,
		"format":  reader.Format(),
		"rows":    table.RowCount(),
		"columns": table.ColumnCount(),
	}).Info("dataset loaded")

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"file": name, "rows": table.RowCount(), "columns": table.ColumnCount()})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) failUpload(c *gin.Context, id, name string, status int, err error) {
	s.store.Update(id, func(sess *session.Session) {
		sess.FileName = name
		sess.Table = nil
		sess.Error = err.Error()
	})
	s.logger.WithFields(map[string]interface{}{
		"session": id,
		"file":    name,
		"code":    errors.GetCode(err),
	}).Warn("upload failed: %v", err)

	if wantsJSON(c) {
		s.abortWithError(c, status, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// handleNotFound answers unknown routes with the JSON error shape
func (s *Server) handleNotFound(c *gin.Context) {
	s.abortWithError(c, http.StatusNotFound, errors.NotFound(fmt.Sprintf("route %s %s", c.Request.Method, c.Request.URL.Path)))
}

// handleReset drops the session with its table and starts a fresh one in
// the same locale
func (s *Server) handleReset(c *gin.Context) {
	old := s.currentSession(c)
	s.store.Delete(middleware.SessionID(c))
	fresh := s.store.Create(old.Lang)
	middleware.SetSession(c, fresh.ID)
	s.logger.WithFields(map[string]interface{}{
		"session":  fresh.ID,
		"previous": old.ID,
	}).Debug("session reset")
	c.Redirect(http.StatusSeeOther, "/")
}
