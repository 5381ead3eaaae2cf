// Package repository adapts the document store to typed recipe, favorite and
// user records, including live subscriptions over the receitas and favorites
// collections.
package repository

import (
	"context"

	"github.com/pageza/receitas/backend/internal/model"
)

// Collection names shared by every backend.
const (
	RecipesCollection   = "receitas"
	FavoritesCollection = "favorites"
	UsersCollection     = "users"
)

// RecipeRepository defines storage operations for recipes
type RecipeRepository interface {
	Create(ctx context.Context, recipe *model.Recipe) (string, error)
	Get(ctx context.Context, id string) (*model.Recipe, error)
	Update(ctx context.Context, id string, fields model.RecipeFields) (*model.Recipe, error)
	// Delete removes the recipe and every favorite that references it.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.Recipe, error)
	ListByUser(ctx context.Context, userID string) ([]model.Recipe, error)
	// Subscribe delivers the full recipe set now and after every change.
	Subscribe(ctx context.Context, onChange func([]model.Recipe)) (*Subscription, error)
}

// FavoriteRepository defines storage operations for favorites
type FavoriteRepository interface {
	Put(ctx context.Context, userID, recipeID string) error
	Remove(ctx context.Context, userID, recipeID string) error
	Exists(ctx context.Context, userID, recipeID string) (bool, error)
	ListRecipeIDs(ctx context.Context, userID string) (model.FavoriteSet, error)
	// Subscribe delivers the user's favorite set now and after every change.
	Subscribe(ctx context.Context, userID string, onChange func(model.FavoriteSet)) (*Subscription, error)
}

// UserRepository defines storage operations for user profiles
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// Store groups the repositories of one backend.
type Store struct {
	Recipes   RecipeRepository
	Favorites FavoriteRepository
	Users     UserRepository
	closer    func() error
}

// Close releases the backend's resources
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
