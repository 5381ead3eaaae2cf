package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/receitas/backend/internal/middleware"
	"github.com/pageza/receitas/backend/internal/model"
	"github.com/pageza/receitas/backend/internal/service"
	"github.com/pageza/receitas/backend/internal/types"
)

const maxImageSize = 10 << 20

type RecipeHandler struct {
	recipeService       service.IRecipeService
	authService         middleware.TokenValidator
	creationLimiter     *middleware.RateLimiter
	modificationLimiter *middleware.RateLimiter
}

func NewRecipeHandler(recipeService service.IRecipeService, authService middleware.TokenValidator, creationLimiter, modificationLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		authService:         authService,
		creationLimiter:     creationLimiter,
		modificationLimiter: modificationLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/stream", h.StreamRecipes)
		recipes.GET("/mine", auth, h.ListMyRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", auth, limit(h.creationLimiter, false), h.CreateRecipe)
		recipes.PUT("/:id", auth, limit(h.modificationLimiter, true), h.UpdateRecipe)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.POST("/:id/image", auth, limit(h.modificationLimiter, true), h.AttachImage)
	}
	router.POST("/images", auth, limit(h.creationLimiter, false), h.UploadImage)
}

// listOptions reads tags, q and mode from the query string
func listOptions(c *gin.Context) (service.ListOptions, error) {
	mode, err := service.ParseTagMode(c.Query("mode"))
	if err != nil {
		return service.ListOptions{}, err
	}
	var tags []string
	for _, raw := range c.QueryArray("tags") {
		tags = append(tags, strings.Split(raw, ",")...)
	}
	return service.ListOptions{Tags: tags, Query: c.Query("q"), Mode: mode}, nil
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), opts)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) ListMyRecipes(c *gin.Context) {
	userID, ok := session(c)
	if !ok {
		return
	}

	recipes, err := h.recipeService.ListUserRecipes(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), s, req.Fields())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := session(c)
	if !ok {
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), userID, c.Param("id"), req.Fields())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := session(c)
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), userID, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// readImage loads the multipart "image" field
func readImage(c *gin.Context) ([]byte, string, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return nil, "", false
	}
	if file.Size > maxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 10MB"})
		return nil, "", false
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return nil, "", false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return nil, "", false
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is not an image"})
		return nil, "", false
	}
	return data, contentType, true
}

// UploadImage stores an image before the recipe that will use it exists
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	userID, ok := session(c)
	if !ok {
		return
	}
	data, contentType, ok := readImage(c)
	if !ok {
		return
	}

	url, path, err := h.recipeService.UploadImage(c.Request.Context(), userID, data, contentType)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.ImageUploadResponse{ImageURL: url, ImagePath: path})
}

// AttachImage uploads an image and points the recipe at it
func (h *RecipeHandler) AttachImage(c *gin.Context) {
	userID, ok := session(c)
	if !ok {
		return
	}
	data, contentType, ok := readImage(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.AttachImage(c.Request.Context(), userID, c.Param("id"), data, contentType)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// StreamRecipes pushes the shaped listing as server-sent "recipes" events
// until the client disconnects.
func (h *RecipeHandler) StreamRecipes(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	updates := newLatest[[]model.Recipe]()
	sub, err := h.recipeService.SubscribeRecipes(c.Request.Context(), opts, updates.put)
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer sub.Cancel()

	streamEvents(c, "recipes", updates.c, sub.Done())
}
