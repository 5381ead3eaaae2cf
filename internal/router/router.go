package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/receitas/backend/internal/api"
	"github.com/pageza/receitas/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(corsOrigins []string, deps api.Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// CORS middleware
	router.Use(middleware.CORS(corsOrigins))

	api.RegisterRoutes(router, deps)

	return router
}
