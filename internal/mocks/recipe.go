package mocks

import (
	"context"

	"github.com/pageza/receitas/backend/internal/model"
	"github.com/pageza/receitas/backend/internal/service"
	"github.com/pageza/receitas/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

// CreateRecipe mocks the CreateRecipe method
func (m *MockRecipeService) CreateRecipe(ctx context.Context, session types.Session, fields model.RecipeFields) (*model.Recipe, error) {
	args := m.Called(ctx, session, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// GetRecipe mocks the GetRecipe method
func (m *MockRecipeService) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// UpdateRecipe mocks the UpdateRecipe method
func (m *MockRecipeService) UpdateRecipe(ctx context.Context, userID, id string, fields model.RecipeFields) (*model.Recipe, error) {
	args := m.Called(ctx, userID, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// DeleteRecipe mocks the DeleteRecipe method
func (m *MockRecipeService) DeleteRecipe(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// ListRecipes mocks the ListRecipes method
func (m *MockRecipeService) ListRecipes(ctx context.Context, opts service.ListOptions) ([]model.Recipe, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

// ListUserRecipes mocks the ListUserRecipes method
func (m *MockRecipeService) ListUserRecipes(ctx context.Context, userID string) ([]model.Recipe, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

// SubscribeRecipes mocks the SubscribeRecipes method
func (m *MockRecipeService) SubscribeRecipes(ctx context.Context, opts service.ListOptions, onChange func([]model.Recipe)) (service.Subscription, error) {
	args := m.Called(ctx, opts, onChange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(service.Subscription), args.Error(1)
}

// UploadImage mocks the UploadImage method
func (m *MockRecipeService) UploadImage(ctx context.Context, userID string, data []byte, contentType string) (string, string, error) {
	args := m.Called(ctx, userID, data, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

// AttachImage mocks the AttachImage method
func (m *MockRecipeService) AttachImage(ctx context.Context, userID, id string, data []byte, contentType string) (*model.Recipe, error) {
	args := m.Called(ctx, userID, id, data, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}
