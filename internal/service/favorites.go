package service

import (
	"context"
	"log"
	"sync"

	"github.com/pageza/receitas/backend/internal/model"
	"github.com/pageza/receitas/backend/internal/repository"
)

// IsFavorite reports whether recipeID is in the user's favorite set
func IsFavorite(recipeID string, favorites model.FavoriteSet) bool {
	return favorites.Has(recipeID)
}

// FavoriteRecipes keeps the recipes whose id is in favorites, in their input
// order. Favorite ids without a loaded recipe are skipped.
func FavoriteRecipes(recipes []model.Recipe, favorites model.FavoriteSet) []model.Recipe {
	out := make([]model.Recipe, 0, len(favorites))
	for _, r := range recipes {
		if favorites.Has(r.ID) {
			out = append(out, r)
		}
	}
	return out
}

// Subscription is a cancellable live view
type Subscription interface {
	Cancel()
	Done() <-chan struct{}
}

// FavoriteService manages the favorites relationship between users and recipes
type FavoriteService struct {
	favorites repository.FavoriteRepository
	recipes   repository.RecipeRepository
}

// NewFavoriteService creates a new FavoriteService instance
func NewFavoriteService(favorites repository.FavoriteRepository, recipes repository.RecipeRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites, recipes: recipes}
}

// CurrentFavorites returns the ids of the recipes the user has favorited
func (s *FavoriteService) CurrentFavorites(ctx context.Context, userID string) (model.FavoriteSet, error) {
	return s.favorites.ListRecipeIDs(ctx, userID)
}

// ToggleFavorite flips the stored state given the state the caller last saw
// and returns the new state. Repeating a call with the same
// currentlyFavorite value leaves the store as the first call did.
func (s *FavoriteService) ToggleFavorite(ctx context.Context, userID, recipeID string, currentlyFavorite bool) (bool, error) {
	if err := s.SetFavorite(ctx, userID, recipeID, !currentlyFavorite); err != nil {
		return currentlyFavorite, err
	}
	return !currentlyFavorite, nil
}

// Toggle reads the stored state and flips it
func (s *FavoriteService) Toggle(ctx context.Context, userID, recipeID string) (bool, error) {
	exists, err := s.favorites.Exists(ctx, userID, recipeID)
	if err != nil {
		return false, err
	}
	return s.ToggleFavorite(ctx, userID, recipeID, exists)
}

// SetFavorite stores the wanted state. Marking requires the recipe to exist;
// unmarking does not, so stale favorites can always be cleared.
func (s *FavoriteService) SetFavorite(ctx context.Context, userID, recipeID string, favorite bool) error {
	if !favorite {
		return writeError("remove favorite", s.favorites.Remove(ctx, userID, recipeID))
	}
	if _, err := s.recipes.Get(ctx, recipeID); err != nil {
		return err
	}
	return writeError("add favorite", s.favorites.Put(ctx, userID, recipeID))
}

// ListFavoriteRecipes loads the user's favorite set and the recipes it names
func (s *FavoriteService) ListFavoriteRecipes(ctx context.Context, userID string) (model.FavoriteSet, []model.Recipe, error) {
	favorites, err := s.favorites.ListRecipeIDs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return favorites, FavoriteRecipes(recipes, favorites), nil
}

// SubscribeFavorites delivers the user's favorite set now and on every change
func (s *FavoriteService) SubscribeFavorites(ctx context.Context, userID string, onChange func(model.FavoriteSet)) (Subscription, error) {
	sub, err := s.favorites.Subscribe(ctx, userID, onChange)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// SubscribeFavoriteRecipes joins the user's favorite feed with the recipe
// feed and delivers the joined view whenever either side changes. The first
// delivery waits until both feeds have reported once.
func (s *FavoriteService) SubscribeFavoriteRecipes(ctx context.Context, userID string, onChange func(model.FavoriteSet, []model.Recipe)) (Subscription, error) {
	j := &joinedView{onChange: onChange}

	favSub, err := s.favorites.Subscribe(ctx, userID, j.setFavorites)
	if err != nil {
		return nil, err
	}
	recipeSub, err := s.recipes.Subscribe(ctx, j.setRecipes)
	if err != nil {
		favSub.Cancel()
		return nil, err
	}

	log.Printf("[FavoriteService] joined favorites view opened for user %s", userID)
	return newJoinedSubscription(favSub, recipeSub), nil
}

// joinedView holds the last state of both feeds. Deliveries happen under mu
// so onChange never runs concurrently with itself.
type joinedView struct {
	mu        sync.Mutex
	favorites model.FavoriteSet
	recipes   []model.Recipe
	haveFavs  bool
	haveAll   bool
	onChange  func(model.FavoriteSet, []model.Recipe)
}

func (j *joinedView) setFavorites(favorites model.FavoriteSet) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.favorites, j.haveFavs = favorites, true
	j.emit()
}

func (j *joinedView) setRecipes(recipes []model.Recipe) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.recipes, j.haveAll = recipes, true
	j.emit()
}

func (j *joinedView) emit() {
	if !j.haveFavs || !j.haveAll {
		return
	}
	j.onChange(j.favorites, FavoriteRecipes(j.recipes, j.favorites))
}

type joinedSubscription struct {
	subs []*repository.Subscription
	done chan struct{}
}

func newJoinedSubscription(subs ...*repository.Subscription) *joinedSubscription {
	j := &joinedSubscription{subs: subs, done: make(chan struct{})}
	go func() {
		for _, s := range subs {
			<-s.Done()
		}
		close(j.done)
	}()
	return j
}

func (j *joinedSubscription) Cancel() {
	for _, s := range j.subs {
		s.Cancel()
	}
}

func (j *joinedSubscription) Done() <-chan struct{} {
	return j.done
}
