package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/receitas/backend/internal/api"
	"github.com/pageza/receitas/backend/internal/feed"
	"github.com/pageza/receitas/backend/internal/model"
	"github.com/pageza/receitas/backend/internal/repository"
	"github.com/pageza/receitas/backend/internal/router"
	"github.com/pageza/receitas/backend/internal/service"
	"github.com/pageza/receitas/backend/internal/testhelpers"
	"github.com/pageza/receitas/backend/internal/types"
)

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := repository.NewSQLStore(testhelpers.SetupTestDB(t), feed.NewMemoryNotifier())
	return router.SetupRouter(nil, api.Dependencies{
		Auth:      service.NewAuthService(store.Users, "integration-secret", time.Hour),
		Recipes:   service.NewRecipeService(store.Recipes, store.Users, nil),
		Favorites: service.NewFavoriteService(store.Favorites, store.Recipes),
	})
}

func call(t *testing.T, r *gin.Engine, method, path, token string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil && w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("failed to decode %s %s response: %v", method, path, err)
		}
	}
	return w.Code
}

func signUp(t *testing.T, r *gin.Engine, name, email string) string {
	t.Helper()
	reg := types.RegisterRequest{Name: name, Email: email, Password: "password123"}
	if code := call(t, r, http.MethodPost, "/api/v1/auth/register", "", reg, nil); code != http.StatusCreated {
		t.Fatalf("register %s failed: %d", email, code)
	}
	var login types.LoginResponse
	body := types.LoginRequest{Email: email, Password: "password123"}
	if code := call(t, r, http.MethodPost, "/api/v1/auth/login", "", body, &login); code != http.StatusOK {
		t.Fatalf("login %s failed: %d", email, code)
	}
	if login.Token == "" {
		t.Fatalf("no token from login")
	}
	return login.Token
}

func TestIntegrationRecipeLifecycle(t *testing.T) {
	r := setupRouter(t)
	author := signUp(t, r, "Ana", "ana@example.com")
	reader := signUp(t, r, "Bia", "bia@example.com")

	var recipe model.Recipe
	create := map[string]any{
		"name":         "Pão de Queijo",
		"ingredients":  "polvilho, queijo, ovos",
		"instructions": "Misture e asse.",
		"tags":         []string{"Salgado", "Sem Glúten"},
	}
	if code := call(t, r, http.MethodPost, "/api/v1/recipes", author, create, &recipe); code != http.StatusCreated {
		t.Fatalf("create recipe failed: %d", code)
	}
	if recipe.ID == "" || recipe.CreatedBy != "Ana" {
		t.Fatalf("unexpected recipe: %+v", recipe)
	}
	if len(recipe.Ingredients) != 3 || recipe.Ingredients[1] != "queijo" {
		t.Fatalf("ingredients not normalized: %v", recipe.Ingredients)
	}

	var listed struct{ Recipes []model.Recipe }
	if code := call(t, r, http.MethodGet, "/api/v1/recipes?q=QUEIJO&tags=Salgado", "", nil, &listed); code != http.StatusOK {
		t.Fatalf("list failed: %d", code)
	}
	if len(listed.Recipes) != 1 || listed.Recipes[0].ID != recipe.ID {
		t.Fatalf("search did not find recipe: %+v", listed.Recipes)
	}

	path := "/api/v1/recipes/" + recipe.ID
	if code := call(t, r, http.MethodPut, path+"/favorite", reader, nil, nil); code != http.StatusOK {
		t.Fatalf("favorite failed: %d", code)
	}
	var favs types.FavoritesResponse
	call(t, r, http.MethodGet, "/api/v1/favorites", reader, nil, &favs)
	if len(favs.Recipes) != 1 || favs.Recipes[0].ID != recipe.ID {
		t.Fatalf("favorite not listed: %+v", favs)
	}

	if code := call(t, r, http.MethodDelete, path, reader, nil, nil); code != http.StatusForbidden {
		t.Fatalf("non-owner delete: expected 403, got %d", code)
	}
	if code := call(t, r, http.MethodDelete, path, author, nil, nil); code != http.StatusNoContent {
		t.Fatalf("owner delete failed: %d", code)
	}
	if code := call(t, r, http.MethodGet, path, "", nil, nil); code != http.StatusNotFound {
		t.Fatalf("deleted recipe still readable: %d", code)
	}

	favs = types.FavoritesResponse{}
	call(t, r, http.MethodGet, "/api/v1/favorites", reader, nil, &favs)
	if len(favs.RecipeIDs) != 0 || len(favs.Recipes) != 0 {
		t.Fatalf("favorites not removed with recipe: %+v", favs)
	}
}

func TestIntegrationDuplicateRegistration(t *testing.T) {
	r := setupRouter(t)
	signUp(t, r, "Ana", "ana@example.com")

	reg := types.RegisterRequest{Name: "Outra", Email: "ana@example.com", Password: "password123"}
	if code := call(t, r, http.MethodPost, "/api/v1/auth/register", "", reg, nil); code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
}
