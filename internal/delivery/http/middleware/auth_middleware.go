package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"jobspace-backend/internal/delivery/http/response"
	"jobspace-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

const sessionKey = "Session"

// AuthMiddleware attaches the session of a valid bearer token to the
// request. Requests without a token pass through anonymously; a token that
// does not verify is rejected.
func AuthMiddleware(authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "En-tête Authorization invalide")
			c.Abort()
			return
		}

		user, err := authUC.Verify(c.Request.Context(), tokenString)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Session invalide ou expirée")
			c.Abort()
			return
		}

		c.Set(sessionKey, user)
		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyUserEmail), user.Email)
		c.Set(string(domain.KeyUserRole), string(user.Role))

		ctx := context.WithValue(c.Request.Context(), domain.KeyUserID, user.ID)
		ctx = context.WithValue(ctx, domain.KeyUserEmail, user.Email)
		ctx = context.WithValue(ctx, domain.KeyUserRole, string(user.Role))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// SessionUser returns the user attached by AuthMiddleware, if any.
func SessionUser(c *gin.Context) (*domain.SessionUser, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.SessionUser)
	return user, ok
}

// RequireRole rejects requests whose session role is not listed. With no
// roles any authenticated user passes. When enforce is false the guard is
// inert, which keeps the historical open API working.
func RequireRole(enforce bool, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enforce {
			c.Next()
			return
		}
		user, ok := SessionUser(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Authentification requise")
			c.Abort()
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, user.Role) {
			response.Error(c, http.StatusForbidden, "Accès refusé")
			c.Abort()
			return
		}
		c.Next()
	}
}
