package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/receitas/backend/internal/middleware"
	"github.com/pageza/receitas/backend/internal/model"
	"github.com/pageza/receitas/backend/internal/service"
)

// Dependencies are the services the HTTP API is built from
type Dependencies struct {
	Auth      service.IAuthService
	Recipes   service.IRecipeService
	Favorites service.IFavoriteService

	// Optional; requests are not limited when nil.
	CreationLimiter     *middleware.RateLimiter
	ModificationLimiter *middleware.RateLimiter

	// Health reports whether the store is reachable
	Health func(ctx context.Context) error
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", healthCheck(deps.Health))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.ErrorHandler(classifyError))
	v1.GET("/health", healthCheck(deps.Health))
	v1.GET("/tags", ListTags)

	NewAuthHandler(deps.Auth).RegisterRoutes(v1)
	NewRecipeHandler(deps.Recipes, deps.Auth, deps.CreationLimiter, deps.ModificationLimiter).RegisterRoutes(v1)
	NewFavoriteHandler(deps.Favorites, deps.Auth).RegisterRoutes(v1)
}

// healthCheck returns the health status of the API
func healthCheck(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unhealthy",
					"error":  err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Receitas API is running",
		})
	}
}

// ListTags returns the tag vocabulary
func ListTags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tags": model.Tags})
}

// limit returns the limiter's middleware, or a pass-through when rl is nil
func limit(rl *middleware.RateLimiter, perRecipe bool) gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if perRecipe {
		return rl.PerRecipeRateLimitMiddleware()
	}
	return rl.RateLimitMiddleware()
}

// session returns the authenticated caller; AuthMiddleware guarantees it on
// protected routes.
func session(c *gin.Context) (string, bool) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	return s.UserID, true
}
