package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/receitas/backend/internal/feed"
	"github.com/pageza/receitas/backend/internal/model"
)

// NewSQLStore builds the gorm-backed repositories. Writes are announced on
// notifier so live subscriptions reload.
func NewSQLStore(db *gorm.DB, notifier feed.Notifier) *Store {
	return &Store{
		Recipes:   NewRecipeRepository(db, notifier),
		Favorites: NewFavoriteRepository(db, notifier),
		Users:     NewUserRepository(db),
		closer: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// announce publishes a change after a committed write. A failed publish
// leaves subscribers stale until the next change; the write itself stands.
func announce(ctx context.Context, notifier feed.Notifier, topics ...string) {
	for _, topic := range topics {
		if err := notifier.Publish(ctx, topic); err != nil {
			log.Printf("[Repository] failed to announce change on %s: %v", topic, err)
		}
	}
}

type recipeRepository struct {
	db       *gorm.DB
	notifier feed.Notifier
}

// NewRecipeRepository creates a gorm RecipeRepository
func NewRecipeRepository(db *gorm.DB, notifier feed.Notifier) RecipeRepository {
	return &recipeRepository{db: db, notifier: notifier}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *model.Recipe) (string, error) {
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return "", err
	}
	announce(ctx, r.notifier, feed.RecipesTopic)
	return recipe.ID, nil
}

func (r *recipeRepository) Get(ctx context.Context, id string) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) Update(ctx context.Context, id string, fields model.RecipeFields) (*model.Recipe, error) {
	updates := map[string]interface{}{
		"name":         fields.Name,
		"ingredients":  model.StringArray(fields.Ingredients),
		"instructions": fields.Instructions,
		"tags":         model.StringArray(fields.Tags),
		"updated_at":   time.Now().UTC(),
	}
	if fields.ImageURL != nil {
		updates["image_url"] = *fields.ImageURL
	}
	if fields.ImagePath != nil {
		updates["image_path"] = *fields.ImagePath
	}

	res := r.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	announce(ctx, r.notifier, feed.RecipesTopic)

	return r.Get(ctx, id)
}

func (r *recipeRepository) Delete(ctx context.Context, id string) error {
	var affectedUsers []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Favorite{}).Where("recipe_id = ?", id).Pluck("user_id", &affectedUsers).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Recipe{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	topics := []string{feed.RecipesTopic}
	for _, userID := range affectedUsers {
		topics = append(topics, feed.FavoritesTopic(userID))
	}
	announce(ctx, r.notifier, topics...)
	return nil
}

func (r *recipeRepository) List(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) ListByUser(ctx context.Context, userID string) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) Subscribe(ctx context.Context, onChange func([]model.Recipe)) (*Subscription, error) {
	l, err := r.notifier.Subscribe(ctx, feed.RecipesTopic)
	if err != nil {
		return nil, fmt.Errorf("failed to open recipe feed: %w", err)
	}
	return watch(ctx, feed.RecipesTopic, l, r.List, onChange), nil
}

type favoriteRepository struct {
	db       *gorm.DB
	notifier feed.Notifier
}

// NewFavoriteRepository creates a gorm FavoriteRepository
func NewFavoriteRepository(db *gorm.DB, notifier feed.Notifier) FavoriteRepository {
	return &favoriteRepository{db: db, notifier: notifier}
}

// Put inserts the favorite; an existing record with the same key is kept.
// Where the schema references receitas, a missing recipe is ErrNotFound.
func (r *favoriteRepository) Put(ctx context.Context, userID, recipeID string) error {
	fav := model.NewFavorite(userID, recipeID)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrNotFound
		}
		return err
	}
	announce(ctx, r.notifier, feed.FavoritesTopic(userID))
	return nil
}

// Remove deletes the favorite if present.
func (r *favoriteRepository) Remove(ctx context.Context, userID, recipeID string) error {
	if err := r.db.WithContext(ctx).Delete(&model.Favorite{}, "id = ?", model.FavoriteKey(userID, recipeID)).Error; err != nil {
		return err
	}
	announce(ctx, r.notifier, feed.FavoritesTopic(userID))
	return nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("id = ?", model.FavoriteKey(userID, recipeID)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *favoriteRepository) ListRecipeIDs(ctx context.Context, userID string) (model.FavoriteSet, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ?", userID).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	return model.NewFavoriteSet(ids...), nil
}

func (r *favoriteRepository) Subscribe(ctx context.Context, userID string, onChange func(model.FavoriteSet)) (*Subscription, error) {
	topic := feed.FavoritesTopic(userID)
	l, err := r.notifier.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to open favorites feed: %w", err)
	}
	load := func(ctx context.Context) (model.FavoriteSet, error) {
		return r.ListRecipeIDs(ctx, userID)
	}
	return watch(ctx, topic, l, load, onChange), nil
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a gorm UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
