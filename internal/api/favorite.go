package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/receitas/backend/internal/middleware"
	"github.com/pageza/receitas/backend/internal/model"
	"github.com/pageza/receitas/backend/internal/service"
	"github.com/pageza/receitas/backend/internal/types"
)

type FavoriteHandler struct {
	favoriteService service.IFavoriteService
	authService     middleware.TokenValidator
}

func NewFavoriteHandler(favoriteService service.IFavoriteService, authService middleware.TokenValidator) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService, authService: authService}
}

func (h *FavoriteHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)

	router.PUT("/recipes/:id/favorite", auth, h.FavoriteRecipe)
	router.DELETE("/recipes/:id/favorite", auth, h.UnfavoriteRecipe)
	router.POST("/recipes/:id/favorite/toggle", auth, h.ToggleFavorite)

	favorites := router.Group("/favorites", auth)
	{
		favorites.GET("", h.ListFavorites)
		favorites.GET("/stream", h.StreamFavorites)
	}
}

func (h *FavoriteHandler) setFavorite(c *gin.Context, favorite bool) {
	userID, ok := session(c)
	if !ok {
		return
	}

	recipeID := c.Param("id")
	if err := h.favoriteService.SetFavorite(c.Request.Context(), userID, recipeID, favorite); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.FavoriteResponse{RecipeID: recipeID, Favorite: favorite})
}

func (h *FavoriteHandler) FavoriteRecipe(c *gin.Context) {
	h.setFavorite(c, true)
}

func (h *FavoriteHandler) UnfavoriteRecipe(c *gin.Context) {
	h.setFavorite(c, false)
}

// ToggleFavorite flips the favorite. When the body carries the state the
// client last saw, that state is flipped; otherwise the stored one is.
func (h *FavoriteHandler) ToggleFavorite(c *gin.Context) {
	userID, ok := session(c)
	if !ok {
		return
	}

	var req struct {
		CurrentlyFavorite *bool `json:"currentlyFavorite"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	recipeID := c.Param("id")
	var (
		state bool
		err   error
	)
	if req.CurrentlyFavorite != nil {
		state, err = h.favoriteService.ToggleFavorite(c.Request.Context(), userID, recipeID, *req.CurrentlyFavorite)
	} else {
		state, err = h.favoriteService.Toggle(c.Request.Context(), userID, recipeID)
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.FavoriteResponse{RecipeID: recipeID, Favorite: state})
}

func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	userID, ok := session(c)
	if !ok {
		return
	}

	set, recipes, err := h.favoriteService.ListFavoriteRecipes(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.FavoritesResponse{RecipeIDs: set.IDs(), Recipes: recipes})
}

// StreamFavorites pushes the joined favorites view as server-sent
// "favorites" events.
func (h *FavoriteHandler) StreamFavorites(c *gin.Context) {
	userID, ok := session(c)
	if !ok {
		return
	}

	updates := newLatest[types.FavoritesResponse]()
	sub, err := h.favoriteService.SubscribeFavoriteRecipes(c.Request.Context(), userID, func(set model.FavoriteSet, recipes []model.Recipe) {
		updates.put(types.FavoritesResponse{RecipeIDs: set.IDs(), Recipes: recipes})
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer sub.Cancel()

	streamEvents(c, "favorites", updates.c, sub.Done())
}
