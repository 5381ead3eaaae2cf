package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pageza/receitas/backend/internal/model"
	"github.com/pageza/receitas/backend/internal/repository"
	"github.com/pageza/receitas/backend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	recipes repository.RecipeRepository
	users   repository.UserRepository
	images  ImageStore
	uploads *uploads
	now     func() time.Time
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(recipes repository.RecipeRepository, users repository.UserRepository, images ImageStore) *RecipeService {
	return &RecipeService{
		recipes: recipes,
		users:   users,
		images:  images,
		uploads: newUploads(),
		now:     time.Now,
	}
}

// normalizeFields trims the input and checks name and tags
func normalizeFields(fields model.RecipeFields) (model.RecipeFields, error) {
	fields.Name = strings.TrimSpace(fields.Name)
	if fields.Name == "" {
		return fields, &ValidationError{Field: "name", Message: "is required"}
	}
	fields.Instructions = strings.TrimSpace(fields.Instructions)
	fields.Ingredients = model.TrimList(fields.Ingredients)
	fields.Tags = model.NormalizeList(fields.Tags)
	for _, t := range fields.Tags {
		if !model.IsKnownTag(t) {
			return fields, &ValidationError{Field: "tags", Message: fmt.Sprintf("unknown tag %q", t)}
		}
	}
	return fields, nil
}

// resolveImage turns the image URL a client sent into server-known image
// fields. Only the recipe's current URL or an upload made by userID is
// accepted, and the blob key always comes from the server. An empty URL
// clears the image. restore is non-nil when a pending upload was consumed.
func (s *RecipeService) resolveImage(userID string, existing *model.Recipe, fields model.RecipeFields) (model.RecipeFields, func(), error) {
	fields.ImagePath = nil
	if fields.ImageURL == nil {
		return fields, nil, nil
	}

	url := strings.TrimSpace(*fields.ImageURL)
	switch {
	case url == "":
		empty := ""
		fields.ImageURL, fields.ImagePath = &empty, &empty
		return fields, nil, nil
	case existing != nil && url == existing.ImageURL:
		fields.ImageURL = nil
		return fields, nil, nil
	}

	key, restore, ok := s.uploads.take(url, userID, s.now())
	if !ok {
		return fields, nil, &ValidationError{Field: "imageUrl", Message: "must reference an image you uploaded"}
	}
	fields.ImageURL, fields.ImagePath = &url, &key
	return fields, restore, nil
}

// authorName resolves the display name stored with a new recipe
func (s *RecipeService) authorName(ctx context.Context, session types.Session) string {
	if session.Name != "" {
		return session.Name
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		log.Printf("[RecipeService] could not resolve author %s: %v", session.UserID, err)
		return ""
	}
	return user.Name
}

// CreateRecipe stores a new recipe owned by the caller
func (s *RecipeService) CreateRecipe(ctx context.Context, session types.Session, fields model.RecipeFields) (*model.Recipe, error) {
	fields, err := normalizeFields(fields)
	if err != nil {
		return nil, err
	}
	fields, restore, err := s.resolveImage(session.UserID, nil, fields)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		UserID:       session.UserID,
		Name:         fields.Name,
		Ingredients:  model.StringArray(fields.Ingredients),
		Instructions: fields.Instructions,
		Tags:         model.StringArray(fields.Tags),
		CreatedBy:    s.authorName(ctx, session),
		CreatedAt:    s.now().UTC(),
	}
	if fields.ImageURL != nil {
		recipe.ImageURL = *fields.ImageURL
	}
	if fields.ImagePath != nil {
		recipe.ImagePath = *fields.ImagePath
	}

	if _, err := s.recipes.Create(ctx, recipe); err != nil {
		if restore != nil {
			restore()
		}
		return nil, writeError("create recipe", err)
	}
	log.Printf("[RecipeService] created recipe %s for user %s", recipe.ID, session.UserID)
	return recipe, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	return s.recipes.Get(ctx, id)
}

// owned loads the recipe and checks that userID is its author
func (s *RecipeService) owned(ctx context.Context, userID, id string) (*model.Recipe, error) {
	recipe, err := s.recipes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, ErrForbidden
	}
	return recipe, nil
}

// UpdateRecipe replaces the mutable fields of a recipe the caller owns
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, id string, fields model.RecipeFields) (*model.Recipe, error) {
	fields, err := normalizeFields(fields)
	if err != nil {
		return nil, err
	}
	existing, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	fields, restore, err := s.resolveImage(userID, existing, fields)
	if err != nil {
		return nil, err
	}

	updated, err := s.recipes.Update(ctx, id, fields)
	if err != nil {
		if restore != nil {
			restore()
		}
		return nil, writeError("update recipe", err)
	}
	if fields.ImagePath != nil && existing.ImagePath != "" && existing.ImagePath != *fields.ImagePath {
		s.removeImage(ctx, existing.ImagePath)
	}
	return updated, nil
}

// DeleteRecipe removes a recipe the caller owns together with its favorites,
// then its stored image.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, id string) error {
	existing, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, id); err != nil {
		return writeError("delete recipe", err)
	}
	if existing.ImagePath != "" {
		s.removeImage(ctx, existing.ImagePath)
	}
	log.Printf("[RecipeService] deleted recipe %s", id)
	return nil
}

// removeImage deletes a blob that no recipe references any more. A failure
// leaves an orphaned object and is only logged.
func (s *RecipeService) removeImage(ctx context.Context, key string) {
	if s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		log.Printf("[RecipeService] failed to remove image %s: %v", key, err)
	}
}

// ListRecipes returns every recipe shaped by opts
func (s *RecipeService) ListRecipes(ctx context.Context, opts ListOptions) ([]model.Recipe, error) {
	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterRecipes(recipes, opts), nil
}

// ListUserRecipes returns the recipes authored by userID, newest first
func (s *RecipeService) ListUserRecipes(ctx context.Context, userID string) ([]model.Recipe, error) {
	return s.recipes.ListByUser(ctx, userID)
}

// SubscribeRecipes delivers the listing shaped by opts now and after every
// change to the recipe collection.
func (s *RecipeService) SubscribeRecipes(ctx context.Context, opts ListOptions, onChange func([]model.Recipe)) (Subscription, error) {
	sub, err := s.recipes.Subscribe(ctx, func(recipes []model.Recipe) {
		onChange(FilterRecipes(recipes, opts))
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// UploadImage stores an image before its recipe exists and returns its URL
// and blob key. Only userID can later reference the URL from a recipe.
func (s *RecipeService) UploadImage(ctx context.Context, userID string, data []byte, contentType string) (string, string, error) {
	if s.images == nil {
		return "", "", &WriteError{Op: "upload image", Err: errors.New("image storage is not configured")}
	}
	key := s.uploads.nextKey("", s.now())
	url, err := s.images.Upload(ctx, key, data, contentType)
	if err != nil {
		return "", "", writeError("upload image", err)
	}
	s.uploads.add(url, key, userID, s.now())
	return url, key, nil
}

// AttachImage uploads an image for a recipe the caller owns and points the
// recipe at it. The previous image, if any, is removed.
func (s *RecipeService) AttachImage(ctx context.Context, userID, id string, data []byte, contentType string) (*model.Recipe, error) {
	if s.images == nil {
		return nil, &WriteError{Op: "upload image", Err: errors.New("image storage is not configured")}
	}
	existing, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	key := s.uploads.nextKey(id, s.now())
	url, err := s.images.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, writeError("upload image", err)
	}

	fields := model.RecipeFields{
		Name:         existing.Name,
		Ingredients:  existing.Ingredients,
		Instructions: existing.Instructions,
		Tags:         existing.Tags,
		ImageURL:     &url,
		ImagePath:    &key,
	}
	updated, err := s.recipes.Update(ctx, id, fields)
	if err != nil {
		s.removeImage(ctx, key)
		return nil, writeError("update recipe", err)
	}
	if existing.ImagePath != "" && existing.ImagePath != key {
		s.removeImage(ctx, existing.ImagePath)
	}
	return updated, nil
}
