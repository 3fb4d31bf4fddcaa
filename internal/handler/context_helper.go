package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ehs-honor/honor-site-api/internal/middleware"
	"github.com/ehs-honor/honor-site-api/internal/models"
	"github.com/ehs-honor/honor-site-api/internal/service"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func actorFromContext(c *gin.Context, claims *models.JWTClaims) service.Actor {
	return service.Actor{
		ID:        claims.UserID,
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}
