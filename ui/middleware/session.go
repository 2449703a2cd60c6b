package middleware

import (
	"net/http"
	"time"

	"pricecompare/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key holding the session id
const SessionKey = "session_id"

// EnsureSession makes sure every request carries a session cookie and
// exposes its id under SessionKey
func EnsureSession(cookieName string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || !session.ValidID(id) {
			id = session.NewID()
		}

		// Refresh on every request so the cookie outlives activity, not creation.
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, id, int(ttl.Seconds()), "/", "", false, true)
		c.Set(SessionKey, id)
		c.Next()
	}
}

// SessionID returns the id set by EnsureSession
func SessionID(c *gin.Context) string {
	return c.GetString(SessionKey)
}
