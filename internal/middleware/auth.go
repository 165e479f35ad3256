package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"anoa.com/threadboard/pkg/session"
	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	sessions *session.Manager
}

func NewAuthMiddleware(sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// ExtractToken reads the access token from the Authorization header, the session
// cookie, or the "token" query parameter (websocket clients), in that order.
func ExtractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	if cookie, err := c.Cookie(session.CookieName); err == nil && cookie != "" {
		return cookie
	}

	return c.Query("token")
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		claims, err := m.sessions.Verify(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, session.ErrInvalidToken) || errors.Is(err, session.ErrRevoked) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			} else {
				log.Printf("[Auth Error]: %v", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
			}
			c.Abort()
			return
		}

		c.Set("user_id", claims.Subject)
		c.Next()
	}
}
