package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fixhub/repair-shop-api/models"
)

// SessionCookieName is the cookie that carries the opaque session token.
const SessionCookieName = "session_token"

const (
	contextUserKey    = "current_user"
	contextSessionKey = "current_session"
)

// SessionAuth is a middleware that resolves the caller's session token to a
// live session and attaches the owning user to the request context. Requests
// without a valid, unexpired session are rejected with 401.
func SessionAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			c.Abort()
			return
		}

		var session models.Session
		if err := db.Preload("User").Where("token = ?", token).First(&session).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_SESSION",
					"message": "Session is invalid or expired",
				},
			})
			c.Abort()
			return
		}

		if session.Expired() {
			// Expired sessions are gone for good; remove the row so the
			// token cannot be replayed after a clock adjustment.
			db.Delete(&session)
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_SESSION",
					"message": "Session is invalid or expired",
				},
			})
			c.Abort()
			return
		}

		c.Set(contextUserKey, session.User)
		c.Set(contextSessionKey, session)

		c.Next()
	}
}

// RequireRole is a middleware that rejects callers whose role differs from
// the required one. It must run after SessionAuth.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := CurrentUser(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			c.Abort()
			return
		}

		allowed := false
		switch user.Role {
		case models.RoleAdmin:
			allowed = role == models.RoleAdmin
		case models.RoleCustomer:
			allowed = role == models.RoleCustomer
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient permissions to access this resource",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser extracts the authenticated user from the Gin context
func CurrentUser(c *gin.Context) (models.User, error) {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return models.User{}, &AuthError{Code: "MISSING_USER", Message: "User not found in context"}
	}

	user, ok := value.(models.User)
	if !ok {
		return models.User{}, &AuthError{Code: "INVALID_USER", Message: "User is not in the expected format"}
	}

	return user, nil
}

// CurrentSession extracts the authenticated session from the Gin context
func CurrentSession(c *gin.Context) (models.Session, error) {
	value, exists := c.Get(contextSessionKey)
	if !exists {
		return models.Session{}, &AuthError{Code: "MISSING_SESSION", Message: "Session not found in context"}
	}

	session, ok := value.(models.Session)
	if !ok {
		return models.Session{}, &AuthError{Code: "INVALID_SESSION", Message: "Session is not in the expected format"}
	}

	return session, nil
}

// SetAuthContext attaches a user and session to the Gin context the same way
// SessionAuth does (primarily for testing handlers in isolation)
func SetAuthContext(c *gin.Context, user models.User, session models.Session) {
	c.Set(contextUserKey, user)
	c.Set(contextSessionKey, session)
}

// extractToken reads the session token from the cookie, falling back to an
// Authorization: Bearer header for non-browser clients
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}

	return ""
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
