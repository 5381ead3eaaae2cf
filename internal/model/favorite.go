package model

import (
	"sort"
	"time"
)

// Favorite marks that a user bookmarked a recipe. The key is derived from the
// pair so a user can hold at most one favorite per recipe.
type Favorite struct {
	ID        string    `gorm:"type:varchar(300);primaryKey" json:"id" firestore:"-"`
	UserID    string    `gorm:"type:varchar(128);not null;index" json:"userId" firestore:"userId"`
	RecipeID  string    `gorm:"type:varchar(36);not null;index" json:"recipeId" firestore:"recipeId"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// FavoriteKey returns the composite key "{userId}_{recipeId}".
func FavoriteKey(userID, recipeID string) string {
	return userID + "_" + recipeID
}

// NewFavorite builds the favorite record for a (user, recipe) pair.
func NewFavorite(userID, recipeID string) Favorite {
	return Favorite{
		ID:        FavoriteKey(userID, recipeID),
		UserID:    userID,
		RecipeID:  recipeID,
		CreatedAt: time.Now().UTC(),
	}
}

// FavoriteSet is the set of recipe ids a user has favorited.
type FavoriteSet map[string]struct{}

// NewFavoriteSet builds a set from recipe ids.
func NewFavoriteSet(recipeIDs ...string) FavoriteSet {
	s := make(FavoriteSet, len(recipeIDs))
	for _, id := range recipeIDs {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s FavoriteSet) Has(recipeID string) bool {
	_, ok := s[recipeID]
	return ok
}

// IDs returns the members in lexical order.
func (s FavoriteSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
