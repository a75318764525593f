package middleware

import (
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase"
	"cargo_quotes/pkg"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

var (
	errMissingAuth = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Authorization is missing", http.StatusUnauthorized)
	errBadAuth     = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Invalid or expired token", http.StatusUnauthorized)
	errForbidden   = pkg.NewDomainErrorSimple("FORBIDDEN", "Access denied: insufficient permissions", http.StatusForbidden)
)

// RequireAuth validates the bearer token and stores the caller's Session in the
// gin context. An empty roles list admits any authenticated user.
func RequireAuth(auth usecase.IAuthUseCase, roles ...entities.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(errMissingAuth.HTTPStatus, errMissingAuth.ToHTTPError())
			return
		}
		sess, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, usecase.ErrUnauthorized) {
				c.AbortWithStatusJSON(errBadAuth.HTTPStatus, errBadAuth.ToHTTPError())
				return
			}
			appErr := pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		if !roleAllowed(sess.Role, roles) {
			c.AbortWithStatusJSON(errForbidden.HTTPStatus, errForbidden.ToHTTPError())
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// SessionFrom returns the session stored by RequireAuth.
func SessionFrom(c *gin.Context) (entities.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return entities.Session{}, false
	}
	sess, ok := v.(entities.Session)
	return sess, ok
}

// WithSession stores sess in the gin context. Handler tests use it in place of RequireAuth.
func WithSession(sess entities.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func roleAllowed(role entities.Role, allowed []entities.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
