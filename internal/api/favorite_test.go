package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/receitas/backend/internal/model"
	"github.com/pageza/receitas/backend/internal/service"
	"github.com/pageza/receitas/backend/internal/types"
)

func TestSetFavorite(t *testing.T) {
	a := setupTestAPI(t)
	a.favorites.On("SetFavorite", mock.Anything, "u1", "r1", true).Return(nil)
	a.favorites.On("SetFavorite", mock.Anything, "u1", "r1", false).Return(nil)
	a.favorites.On("SetFavorite", mock.Anything, "u1", "gone", true).Return(service.ErrNotFound)

	w := a.do(t, http.MethodPut, "/api/v1/recipes/r1/favorite", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"recipeId":"r1","favorite":true}`, w.Body.String())

	w = a.do(t, http.MethodDelete, "/api/v1/recipes/r1/favorite", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"recipeId":"r1","favorite":false}`, w.Body.String())

	w = a.do(t, http.MethodPut, "/api/v1/recipes/gone/favorite", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleFavorite(t *testing.T) {
	a := setupTestAPI(t)
	a.favorites.On("ToggleFavorite", mock.Anything, "u1", "r1", true).Return(false, nil)
	a.favorites.On("Toggle", mock.Anything, "u1", "r2").Return(true, nil)

	w := a.do(t, http.MethodPost, "/api/v1/recipes/r1/favorite/toggle", map[string]bool{"currentlyFavorite": true}, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"recipeId":"r1","favorite":false}`, w.Body.String())

	w = a.do(t, http.MethodPost, "/api/v1/recipes/r2/favorite/toggle", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"recipeId":"r2","favorite":true}`, w.Body.String())
}

func TestListFavorites(t *testing.T) {
	a := setupTestAPI(t)
	a.favorites.On("ListFavoriteRecipes", mock.Anything, "u1").
		Return(model.NewFavoriteSet("r2", "r1", "missing"), []model.Recipe{{ID: "r1"}, {ID: "r2"}}, nil)

	w := a.do(t, http.MethodGet, "/api/v1/favorites", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[types.FavoritesResponse](t, w)
	assert.Equal(t, []string{"missing", "r1", "r2"}, resp.RecipeIDs)
	assert.Len(t, resp.Recipes, 2)
}

func TestFavoritesRequireAuth(t *testing.T) {
	a := setupTestAPI(t)
	w := a.do(t, http.MethodGet, "/api/v1/favorites", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
