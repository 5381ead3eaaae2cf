package mocks

import (
	"context"

	"github.com/pageza/receitas/backend/internal/model"
	"github.com/pageza/receitas/backend/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockFavoriteService is a mock implementation of the favorite service
type MockFavoriteService struct {
	mock.Mock
}

func (m *MockFavoriteService) CurrentFavorites(ctx context.Context, userID string) (model.FavoriteSet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.FavoriteSet), args.Error(1)
}

func (m *MockFavoriteService) ToggleFavorite(ctx context.Context, userID, recipeID string, currentlyFavorite bool) (bool, error) {
	args := m.Called(ctx, userID, recipeID, currentlyFavorite)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteService) Toggle(ctx context.Context, userID, recipeID string) (bool, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteService) SetFavorite(ctx context.Context, userID, recipeID string, favorite bool) error {
	args := m.Called(ctx, userID, recipeID, favorite)
	return args.Error(0)
}

func (m *MockFavoriteService) ListFavoriteRecipes(ctx context.Context, userID string) (model.FavoriteSet, []model.Recipe, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(model.FavoriteSet), args.Get(1).([]model.Recipe), args.Error(2)
}

func (m *MockFavoriteService) SubscribeFavorites(ctx context.Context, userID string, onChange func(model.FavoriteSet)) (service.Subscription, error) {
	args := m.Called(ctx, userID, onChange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(service.Subscription), args.Error(1)
}

func (m *MockFavoriteService) SubscribeFavoriteRecipes(ctx context.Context, userID string, onChange func(model.FavoriteSet, []model.Recipe)) (service.Subscription, error) {
	args := m.Called(ctx, userID, onChange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(service.Subscription), args.Error(1)
}
