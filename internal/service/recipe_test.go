package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pageza/receitas/backend/internal/mocks"
	"github.com/pageza/receitas/backend/internal/model"
	"github.com/pageza/receitas/backend/internal/service"
	"github.com/pageza/receitas/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var author = types.Session{UserID: "author", Name: "Dona Benta"}

func TestCreateRecipeNormalizesInput(t *testing.T) {
	store := setupStore(t)
	svc := service.NewRecipeService(store.Recipes, store.Users, nil)

	recipe, err := svc.CreateRecipe(context.Background(), author, model.RecipeFields{
		Name:         "  Bolo de fubá ",
		Ingredients:  []string{"fubá", " leite ", "", "ovos", "ovos"},
		Instructions: "Misture e asse",
		Tags:         []string{"Doce", " Doce", "", "Sem Lactose"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, recipe.ID)
	assert.Equal(t, "Bolo de fubá", recipe.Name)
	assert.Equal(t, model.StringArray{"fubá", "leite", "ovos", "ovos"}, recipe.Ingredients)
	assert.Equal(t, model.StringArray{"Doce", "Sem Lactose"}, recipe.Tags)
	assert.Equal(t, "author", recipe.UserID)
	assert.Equal(t, "Dona Benta", recipe.CreatedBy)
	assert.False(t, recipe.CreatedAt.IsZero())

	stored, err := svc.GetRecipe(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.Tags, stored.Tags)
}

func TestCreateRecipeResolvesAuthorFromProfile(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	user := &model.User{Name: "Ana Maria", Email: "ana@example.com", PasswordHash: "x"}
	require.NoError(t, store.Users.Create(ctx, user))

	svc := service.NewRecipeService(store.Recipes, store.Users, nil)
	recipe, err := svc.CreateRecipe(ctx, types.Session{UserID: user.ID}, model.RecipeFields{Name: "Cuscuz"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", recipe.CreatedBy)
}

func TestCreateRecipeValidation(t *testing.T) {
	store := setupStore(t)
	svc := service.NewRecipeService(store.Recipes, store.Users, nil)

	tests := []struct {
		name   string
		fields model.RecipeFields
		field  string
	}{
		{name: "empty name", fields: model.RecipeFields{Name: "   "}, field: "name"},
		{name: "unknown tag", fields: model.RecipeFields{Name: "Pizza", Tags: []string{"Italiana"}}, field: "tags"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRecipe(context.Background(), author, tt.fields)
			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestUpdateRecipeOwnership(t *testing.T) {
	store := setupStore(t)
	svc := service.NewRecipeService(store.Recipes, store.Users, nil)
	ctx := context.Background()

	recipe, err := svc.CreateRecipe(ctx, author, model.RecipeFields{Name: "Canjica", Tags: []string{"Doce"}})
	require.NoError(t, err)

	_, err = svc.UpdateRecipe(ctx, "intruder", recipe.ID, model.RecipeFields{Name: "Hacked"})
	assert.ErrorIs(t, err, service.ErrForbidden)

	updated, err := svc.UpdateRecipe(ctx, author.UserID, recipe.ID, model.RecipeFields{
		Name:        "Canjica cremosa",
		Ingredients: []string{"milho", "leite"},
		Tags:        []string{"Doce", "Vegetariano"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Canjica cremosa", updated.Name)
	assert.Equal(t, "author", updated.UserID)
	assert.Equal(t, "Dona Benta", updated.CreatedBy)

	_, err = svc.UpdateRecipe(ctx, author.UserID, "missing", model.RecipeFields{Name: "x"})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

// uploadAs stores an image ahead of its recipe on behalf of userID and
// returns the URL and blob key the service handed out.
func uploadAs(t *testing.T, svc *service.RecipeService, images *mocks.MockImageStore, userID, url string) (string, string) {
	t.Helper()
	images.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "image/jpeg").Return(url, nil).Once()
	gotURL, key, err := svc.UploadImage(context.Background(), userID, []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, url, gotURL)
	return gotURL, key
}

func TestDeleteRecipeCascades(t *testing.T) {
	store := setupStore(t)
	images := &mocks.MockImageStore{}
	svc := service.NewRecipeService(store.Recipes, store.Users, images)
	favorites := service.NewFavoriteService(store.Favorites, store.Recipes)
	ctx := context.Background()

	url, path := uploadAs(t, svc, images, author.UserID, "https://receitas-images.s3.amazonaws.com/images/123")
	recipe, err := svc.CreateRecipe(ctx, author, model.RecipeFields{Name: "Paçoca", ImageURL: &url})
	require.NoError(t, err)
	assert.Equal(t, path, recipe.ImagePath)
	require.NoError(t, favorites.SetFavorite(ctx, "fan", recipe.ID, true))

	assert.ErrorIs(t, svc.DeleteRecipe(ctx, "intruder", recipe.ID), service.ErrForbidden)

	images.On("Delete", mock.Anything, path).Return(nil).Once()
	require.NoError(t, svc.DeleteRecipe(ctx, author.UserID, recipe.ID))

	_, err = svc.GetRecipe(ctx, recipe.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	set, err := favorites.CurrentFavorites(ctx, "fan")
	require.NoError(t, err)
	assert.Empty(t, set)
	images.AssertExpectations(t)
}

func TestDeleteRecipeSurvivesBlobFailure(t *testing.T) {
	store := setupStore(t)
	images := &mocks.MockImageStore{}
	svc := service.NewRecipeService(store.Recipes, store.Users, images)
	ctx := context.Background()

	url, path := uploadAs(t, svc, images, author.UserID, "https://receitas-images.s3.amazonaws.com/images/456")
	recipe, err := svc.CreateRecipe(ctx, author, model.RecipeFields{Name: "Curau", ImageURL: &url})
	require.NoError(t, err)

	images.On("Delete", mock.Anything, path).Return(errors.New("s3 down"))
	require.NoError(t, svc.DeleteRecipe(ctx, author.UserID, recipe.ID))

	_, err = svc.GetRecipe(ctx, recipe.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRecipeCannotTakeOverAnotherUsersImage(t *testing.T) {
	store := setupStore(t)
	images := &mocks.MockImageStore{}
	svc := service.NewRecipeService(store.Recipes, store.Users, images)
	ctx := context.Background()
	intruder := types.Session{UserID: "intruder", Name: "Zé"}

	owned, err := svc.CreateRecipe(ctx, author, model.RecipeFields{Name: "Quindim"})
	require.NoError(t, err)
	images.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "image/jpeg").
		Return("https://receitas-images.s3.amazonaws.com/quindim", nil).Once()
	owned, err = svc.AttachImage(ctx, author.UserID, owned.ID, []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	ownedURL, ownedKey := owned.ImageURL, owned.ImagePath

	// A blob key in the body is never trusted.
	trap, err := svc.CreateRecipe(ctx, intruder, model.RecipeFields{Name: "Trap", ImagePath: &ownedKey})
	require.NoError(t, err)
	assert.Empty(t, trap.ImagePath)

	// Neither is someone else's image URL, on create or on update.
	_, err = svc.CreateRecipe(ctx, intruder, model.RecipeFields{Name: "Trap 2", ImageURL: &ownedURL})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "imageUrl", verr.Field)

	_, err = svc.UpdateRecipe(ctx, intruder.UserID, trap.ID, model.RecipeFields{Name: "Trap", ImageURL: &ownedURL, ImagePath: &ownedKey})
	require.ErrorAs(t, err, &verr)

	require.NoError(t, svc.DeleteRecipe(ctx, intruder.UserID, trap.ID))
	images.AssertNotCalled(t, "Delete", mock.Anything, ownedKey)

	stored, err := svc.GetRecipe(ctx, owned.ID)
	require.NoError(t, err)
	assert.Equal(t, ownedKey, stored.ImagePath)
	assert.Equal(t, ownedURL, stored.ImageURL)
}

func TestUploadedImageBelongsToUploader(t *testing.T) {
	store := setupStore(t)
	images := &mocks.MockImageStore{}
	svc := service.NewRecipeService(store.Recipes, store.Users, images)
	ctx := context.Background()

	url, key := uploadAs(t, svc, images, author.UserID, "https://receitas-images.s3.amazonaws.com/images/789")
	assert.True(t, strings.HasPrefix(key, "images/"))

	_, err := svc.CreateRecipe(ctx, types.Session{UserID: "intruder"}, model.RecipeFields{Name: "Roubo", ImageURL: &url})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)

	recipe, err := svc.CreateRecipe(ctx, author, model.RecipeFields{Name: "Cocada", ImageURL: &url})
	require.NoError(t, err)
	assert.Equal(t, key, recipe.ImagePath)
	assert.Equal(t, url, recipe.ImageURL)

	// One upload backs one recipe.
	_, err = svc.CreateRecipe(ctx, author, model.RecipeFields{Name: "Cocada 2", ImageURL: &url})
	require.ErrorAs(t, err, &verr)
}

func TestUpdateRecipeImage(t *testing.T) {
	store := setupStore(t)
	images := &mocks.MockImageStore{}
	svc := service.NewRecipeService(store.Recipes, store.Users, images)
	ctx := context.Background()

	firstURL, firstKey := uploadAs(t, svc, images, author.UserID, "https://receitas-images.s3.amazonaws.com/a")
	recipe, err := svc.CreateRecipe(ctx, author, model.RecipeFields{Name: "Mungunzá", ImageURL: &firstURL})
	require.NoError(t, err)

	// Sending the current URL back keeps the image.
	updated, err := svc.UpdateRecipe(ctx, author.UserID, recipe.ID, model.RecipeFields{Name: "Mungunzá doce", ImageURL: &firstURL})
	require.NoError(t, err)
	assert.Equal(t, firstKey, updated.ImagePath)

	secondURL, secondKey := uploadAs(t, svc, images, author.UserID, "https://receitas-images.s3.amazonaws.com/b")
	images.On("Delete", mock.Anything, firstKey).Return(nil).Once()
	updated, err = svc.UpdateRecipe(ctx, author.UserID, recipe.ID, model.RecipeFields{Name: "Mungunzá doce", ImageURL: &secondURL})
	require.NoError(t, err)
	assert.Equal(t, secondKey, updated.ImagePath)
	assert.Equal(t, secondURL, updated.ImageURL)

	empty := ""
	images.On("Delete", mock.Anything, secondKey).Return(nil).Once()
	updated, err = svc.UpdateRecipe(ctx, author.UserID, recipe.ID, model.RecipeFields{Name: "Mungunzá doce", ImageURL: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.ImagePath)
	assert.Empty(t, updated.ImageURL)
	images.AssertExpectations(t)
}

func TestAttachImage(t *testing.T) {
	store := setupStore(t)
	images := &mocks.MockImageStore{}
	svc := service.NewRecipeService(store.Recipes, store.Users, images)
	ctx := context.Background()

	recipe, err := svc.CreateRecipe(ctx, author, model.RecipeFields{Name: "Tapioca", Tags: []string{"Sem Glúten"}})
	require.NoError(t, err)

	data := []byte("jpeg-bytes")
	keyPrefix := "images/" + recipe.ID + "/"
	images.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, keyPrefix)
	}), data, "image/jpeg").Return("https://bucket.s3.amazonaws.com/img", nil).Once()

	updated, err := svc.AttachImage(ctx, author.UserID, recipe.ID, data, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/img", updated.ImageURL)
	assert.True(t, strings.HasPrefix(updated.ImagePath, keyPrefix))
	assert.Equal(t, model.StringArray{"Sem Glúten"}, updated.Tags)

	_, err = svc.AttachImage(ctx, "intruder", recipe.ID, data, "image/jpeg")
	assert.ErrorIs(t, err, service.ErrForbidden)
	images.AssertExpectations(t)
}

func TestUploadImageFailureIsWriteError(t *testing.T) {
	store := setupStore(t)
	images := &mocks.MockImageStore{}
	svc := service.NewRecipeService(store.Recipes, store.Users, images)

	images.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "image/png").
		Return("", errors.New("access denied"))

	_, _, err := svc.UploadImage(context.Background(), author.UserID, []byte("png"), "image/png")
	var werr *service.WriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "upload image", werr.Op)
}

func TestUploadImageWithoutStorage(t *testing.T) {
	store := setupStore(t)
	svc := service.NewRecipeService(store.Recipes, store.Users, nil)

	_, _, err := svc.UploadImage(context.Background(), author.UserID, []byte("png"), "image/png")
	var werr *service.WriteError
	assert.ErrorAs(t, err, &werr)
}

func TestListUserRecipes(t *testing.T) {
	store := setupStore(t)
	svc := service.NewRecipeService(store.Recipes, store.Users, nil)
	ctx := context.Background()

	mine, err := svc.CreateRecipe(ctx, author, model.RecipeFields{Name: "Minha"})
	require.NoError(t, err)
	_, err = svc.CreateRecipe(ctx, types.Session{UserID: "other", Name: "Outro"}, model.RecipeFields{Name: "Outra"})
	require.NoError(t, err)

	recipes, err := svc.ListUserRecipes(ctx, author.UserID)
	require.NoError(t, err)
	assert.Equal(t, []string{mine.ID}, ids(recipes))
}

func TestSubscribeRecipesAppliesPipeline(t *testing.T) {
	store := setupStore(t)
	svc := service.NewRecipeService(store.Recipes, store.Users, nil)
	ctx := context.Background()

	_, err := svc.CreateRecipe(ctx, author, model.RecipeFields{Name: "Suco verde", Tags: []string{"Bebida"}})
	require.NoError(t, err)

	updates := make(chan []model.Recipe, 16)
	sub, err := svc.SubscribeRecipes(ctx, service.ListOptions{Tags: []string{"Doce"}}, func(recipes []model.Recipe) {
		updates <- recipes
	})
	require.NoError(t, err)
	defer sub.Cancel()

	assert.Empty(t, waitFor(t, updates))

	sweet, err := svc.CreateRecipe(ctx, author, model.RecipeFields{Name: "Pudim", Tags: []string{"Doce"}})
	require.NoError(t, err)
	eventually(t, updates, func(recipes []model.Recipe) bool {
		return len(recipes) == 1 && recipes[0].ID == sweet.ID
	})

	sub.Cancel()
	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not stop")
	}
}
