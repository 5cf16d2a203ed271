package middleware

import (
	"net/http"
	"strings"

	"metro/models"
	"metro/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const actorKey = "actor"

// JWTAuthMiddleware resolves the bearer token to the calling actor.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "Missing or invalid Authorization header")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		sub, role, err := utils.ExtractActorFromToken(tokenString)
		if err != nil {
			zap.L().Debug("token rejected", zap.Error(err))
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "Invalid token")
			return
		}

		actor := models.Actor{ID: sub, Role: models.Role(role)}
		switch actor.Role {
		case models.RoleCustomer, models.RolePartner, models.RoleAdmin:
		default:
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "Unknown role in token")
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRole aborts unless the authenticated actor has one of the roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		utils.JSONError(c, http.StatusForbidden, "Forbidden", "Insufficient role for this resource")
	}
}

// ActorFrom returns the actor set by JWTAuthMiddleware.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}
