package service

import (
	"context"

	"github.com/pageza/receitas/backend/internal/model"
	"github.com/pageza/receitas/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, session types.Session, fields model.RecipeFields) (*model.Recipe, error)
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, userID, id string, fields model.RecipeFields) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, userID, id string) error
	ListRecipes(ctx context.Context, opts ListOptions) ([]model.Recipe, error)
	ListUserRecipes(ctx context.Context, userID string) ([]model.Recipe, error)
	SubscribeRecipes(ctx context.Context, opts ListOptions, onChange func([]model.Recipe)) (Subscription, error)
	UploadImage(ctx context.Context, userID string, data []byte, contentType string) (string, string, error)
	AttachImage(ctx context.Context, userID, id string, data []byte, contentType string) (*model.Recipe, error)
}

// IFavoriteService defines the interface for favorite operations
type IFavoriteService interface {
	CurrentFavorites(ctx context.Context, userID string) (model.FavoriteSet, error)
	ToggleFavorite(ctx context.Context, userID, recipeID string, currentlyFavorite bool) (bool, error)
	Toggle(ctx context.Context, userID, recipeID string) (bool, error)
	SetFavorite(ctx context.Context, userID, recipeID string, favorite bool) error
	ListFavoriteRecipes(ctx context.Context, userID string) (model.FavoriteSet, []model.Recipe, error)
	SubscribeFavorites(ctx context.Context, userID string, onChange func(model.FavoriteSet)) (Subscription, error)
	SubscribeFavoriteRecipes(ctx context.Context, userID string, onChange func(model.FavoriteSet, []model.Recipe)) (Subscription, error)
}

var (
	_ IAuthService     = (*AuthService)(nil)
	_ IRecipeService   = (*RecipeService)(nil)
	_ IFavoriteService = (*FavoriteService)(nil)
	_ ImageStore       = (*S3ImageStore)(nil)
)
