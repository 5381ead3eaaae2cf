package types

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pageza/receitas/backend/internal/model"
)

// ListField accepts either a JSON array of strings or a single
// comma-separated string, as typed into the mobile form.
type ListField []string

// UnmarshalJSON implements json.Unmarshaler
func (l *ListField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = strings.Split(s, ",")
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for signing in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// RecipeRequest represents the request body for creating or updating a recipe
type RecipeRequest struct {
	Name         string    `json:"name"`
	Ingredients  ListField `json:"ingredients"`
	Instructions string    `json:"instructions"`
	Tags         ListField `json:"tags"`
	// ImageURL references the recipe's current image or one returned by the
	// image upload endpoint; an empty string removes the image.
	ImageURL     *string   `json:"imageUrl"`
}

// Fields converts the request into the mutable recipe fields
func (r *RecipeRequest) Fields() model.RecipeFields {
	return model.RecipeFields{
		Name:         r.Name,
		Ingredients:  []string(r.Ingredients),
		Instructions: r.Instructions,
		Tags:         []string(r.Tags),
		ImageURL:     r.ImageURL,
	}
}

// ImageUploadResponse describes a stored image
type ImageUploadResponse struct {
	ImageURL  string `json:"imageUrl"`
	ImagePath string `json:"imagePath"`
}

// FavoriteResponse reports the favorite state of one recipe
type FavoriteResponse struct {
	RecipeID string `json:"recipeId"`
	Favorite bool   `json:"favorite"`
}

// FavoritesResponse is the joined favorites view of a user
type FavoritesResponse struct {
	RecipeIDs []string       `json:"recipeIds"`
	Recipes   []model.Recipe `json:"recipes"`
}
