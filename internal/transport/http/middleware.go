package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	authapp "github.com/avetrov/go-shop-api/internal/domains/auth/application"
	userdomain "github.com/avetrov/go-shop-api/internal/domains/users/domain"
	"github.com/avetrov/go-shop-api/internal/shared/problem"
)

const (
	ctxClaimsKey = "auth.claims"
	ctxTokenKey  = "auth.token"
)

// requireAuth validates the bearer token and stores claims on the request
// context for downstream handlers.
func requireAuth(auth *authapp.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			problem.Respond(c, problem.Unauthorized.WithDetail("missing bearer token"))
			c.Abort()
			return
		}
		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(ctxClaimsKey, claims)
		c.Set(ctxTokenKey, token)
		c.Next()
	}
}

// requireRole gates a route to the listed roles. It must run after
// requireAuth.
func requireRole(roles ...userdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentClaims(c)
		if claims == nil {
			problem.Respond(c, problem.Unauthorized.WithDetail("missing bearer token"))
			c.Abort()
			return
		}
		for _, role := range roles {
			if claims.Role == string(role) {
				c.Next()
				return
			}
		}
		problem.Respond(c, problem.Forbidden.WithDetail("insufficient role"))
		c.Abort()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func currentClaims(c *gin.Context) *authapp.Claims {
	value, ok := c.Get(ctxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*authapp.Claims)
	return claims
}

func currentToken(c *gin.Context) string {
	value, ok := c.Get(ctxTokenKey)
	if !ok {
		return ""
	}
	token, _ := value.(string)
	return token
}

// isSelfOrAdmin allows account owners and admins through for per-user routes.
func isSelfOrAdmin(c *gin.Context, userID string) bool {
	claims := currentClaims(c)
	if claims == nil {
		return false
	}
	return claims.Subject == userID || claims.Role == string(userdomain.RoleAdmin)
}
