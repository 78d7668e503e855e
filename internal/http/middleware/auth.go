package middleware

import (
	"net/http"

	"marocbus/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionUserKey = "session_user"

// RequireUser authenticates the session cookie and stores the user in the
// gin context. Unauthenticated requests are rejected with 401.
func RequireUser(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "connexion requise"})
			return
		}
		user, err := m.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session invalide ou expirée"})
			return
		}
		c.Set(sessionUserKey, user)
		c.Next()
	}
}

// RequireClient restricts a group to client sessions.
func RequireClient(m *session.Manager) gin.HandlerFunc {
	return requireType(m, session.TypeClient)
}

// RequireAdmin restricts a group to admin sessions.
func RequireAdmin(m *session.Manager) gin.HandlerFunc {
	return requireType(m, session.TypeAdmin)
}

func requireType(m *session.Manager, userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "connexion requise"})
			return
		}
		user, err := m.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session invalide ou expirée"})
			return
		}
		if user.UserType != userType {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "accès refusé"})
			return
		}
		c.Set(sessionUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireUser.
func CurrentUser(c *gin.Context) (session.User, bool) {
	v, ok := c.Get(sessionUserKey)
	if !ok {
		return session.User{}, false
	}
	u, ok := v.(session.User)
	return u, ok
}
