package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/pageza/receitas/backend/internal/mocks"
	"github.com/pageza/receitas/backend/internal/types"
)

const testToken = "test-token"

var testSession = types.Session{UserID: "u1", Name: "Ana"}

type testAPI struct {
	router    *gin.Engine
	auth      *mocks.MockAuthService
	recipes   *mocks.MockRecipeService
	favorites *mocks.MockFavoriteService
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	a := &testAPI{
		router:    gin.New(),
		auth:      &mocks.MockAuthService{},
		recipes:   &mocks.MockRecipeService{},
		favorites: &mocks.MockFavoriteService{},
	}
	a.auth.On("ValidateToken", testToken).
		Return(&types.TokenClaims{UserID: testSession.UserID, Name: testSession.Name}, nil).Maybe()

	RegisterRoutes(a.router, Dependencies{
		Auth:      a.auth,
		Recipes:   a.recipes,
		Favorites: a.favorites,
	})

	t.Cleanup(func() {
		a.recipes.AssertExpectations(t)
		a.favorites.AssertExpectations(t)
	})
	return a
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) upload(t *testing.T, path string, data []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="image"; filename="foto.jpg"`}
	header["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
