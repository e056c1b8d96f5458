package middleware

import (
	"net/http"

	"chartdesk/internal"
	"chartdesk/internal/i18n"
	"chartdesk/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionIDKey = "session_id"

// EnsureSession is middleware that attaches a session to every page request.
// A new session picks its locale from ?lang=, then Accept-Language, then
// defaultLang; an existing one only switches locale on an explicit ?lang=.
func EnsureSession(store *session.Store, catalog *i18n.Catalog, defaultLang string, logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			sess  session.Session
			found bool
		)
		if id, err := c.Cookie(session.CookieName); err == nil && id != "" {
			sess, found = store.Get(id)
		}

		if !found {
			lang := catalog.Match(c.Query("lang"), c.GetHeader("Accept-Language"), defaultLang)
			sess = store.Create(lang)
			logger.WithFields(map[string]interface{}{
				"session":  sess.ID,
				"lang":     lang,
				"sessions": store.Len(),
			}).Debug("created session")
		} else if lang := catalog.Match(c.Query("lang"), "", sess.Lang); lang != sess.Lang {
			sess, _ = store.Update(sess.ID, func(s *session.Session) { s.Lang = lang })
		}

		SetSession(c, sess.ID)
		c.Next()
	}
}

// SetSession attaches the session id to the request and its cookie
func SetSession(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, id, 0, "/", "", false, true)
	c.Set(sessionIDKey, id)
}

// SessionID returns the id EnsureSession attached to the request
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
