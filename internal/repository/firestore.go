package repository

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pageza/receitas/backend/internal/model"
)

// NewFirestoreStore builds repositories over Cloud Firestore. Live
// subscriptions use Firestore query snapshots directly.
func NewFirestoreStore(client *firestore.Client) *Store {
	return &Store{
		Recipes:   &firestoreRecipes{client: client},
		Favorites: &firestoreFavorites{client: client},
		Users:     &firestoreUsers{client: client},
		closer:    client.Close,
	}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func decodeRecipe(doc *firestore.DocumentSnapshot) (model.Recipe, error) {
	var r model.Recipe
	if err := doc.DataTo(&r); err != nil {
		return model.Recipe{}, err
	}
	r.ID = doc.Ref.ID
	return r, nil
}

func decodeRecipes(docs []*firestore.DocumentSnapshot) ([]model.Recipe, error) {
	recipes := make([]model.Recipe, 0, len(docs))
	for _, doc := range docs {
		r, err := decodeRecipe(doc)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	sort.SliceStable(recipes, func(i, j int) bool {
		return recipes[i].CreatedAt.After(recipes[j].CreatedAt)
	})
	return recipes, nil
}

func decodeFavoriteSet(docs []*firestore.DocumentSnapshot) (model.FavoriteSet, error) {
	set := make(model.FavoriteSet, len(docs))
	for _, doc := range docs {
		var fav model.Favorite
		if err := doc.DataTo(&fav); err != nil {
			return nil, err
		}
		set[fav.RecipeID] = struct{}{}
	}
	return set, nil
}

// snapshotWatch delivers decode(results) for every snapshot of q. The
// snapshot stream ends on cancel or on the first error; there is no
// reconnect.
func snapshotWatch[T any](ctx context.Context, topic string, q firestore.Query, decode func([]*firestore.DocumentSnapshot) (T, error), onChange func(T)) *Subscription {
	sub, ctx := newSubscription(ctx)
	it := q.Snapshots(ctx)

	go func() {
		defer close(sub.done)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() == nil && !errors.Is(err, iterator.Done) && status.Code(err) != codes.Canceled {
					log.Printf("[Subscription] %v", &SubscriptionError{Topic: topic, Err: err})
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err == nil {
				var v T
				if v, err = decode(docs); err == nil {
					if ctx.Err() != nil {
						return
					}
					onChange(v)
					continue
				}
			}
			log.Printf("[Subscription] %v", &SubscriptionError{Topic: topic, Err: err})
		}
	}()

	return sub
}

type firestoreRecipes struct {
	client *firestore.Client
}

func (r *firestoreRecipes) col() *firestore.CollectionRef {
	return r.client.Collection(RecipesCollection)
}

func (r *firestoreRecipes) Create(ctx context.Context, recipe *model.Recipe) (string, error) {
	now := time.Now().UTC()
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = now
	}
	recipe.UpdatedAt = now

	ref, _, err := r.col().Add(ctx, recipe)
	if err != nil {
		return "", err
	}
	recipe.ID = ref.ID
	return ref.ID, nil
}

func (r *firestoreRecipes) Get(ctx context.Context, id string) (*model.Recipe, error) {
	doc, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	recipe, err := decodeRecipe(doc)
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *firestoreRecipes) Update(ctx context.Context, id string, fields model.RecipeFields) (*model.Recipe, error) {
	updates := []firestore.Update{
		{Path: "name", Value: fields.Name},
		{Path: "ingredients", Value: fields.Ingredients},
		{Path: "instructions", Value: fields.Instructions},
		{Path: "tags", Value: fields.Tags},
		{Path: "updatedAt", Value: time.Now().UTC()},
	}
	if fields.ImageURL != nil {
		updates = append(updates, firestore.Update{Path: "imageUrl", Value: *fields.ImageURL})
	}
	if fields.ImagePath != nil {
		updates = append(updates, firestore.Update{Path: "imagePath", Value: *fields.ImagePath})
	}

	if _, err := r.col().Doc(id).Update(ctx, updates); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *firestoreRecipes) Delete(ctx context.Context, id string) error {
	ref := r.col().Doc(id)
	favorites := r.client.Collection(FavoritesCollection).Where("recipeId", "==", id)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		favs, err := tx.Documents(favorites).GetAll()
		if err != nil {
			return err
		}
		for _, fav := range favs {
			if err := tx.Delete(fav.Ref); err != nil {
				return err
			}
		}
		return tx.Delete(ref)
	})
}

func (r *firestoreRecipes) List(ctx context.Context) ([]model.Recipe, error) {
	docs, err := r.col().Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return decodeRecipes(docs)
}

func (r *firestoreRecipes) ListByUser(ctx context.Context, userID string) ([]model.Recipe, error) {
	docs, err := r.col().Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return decodeRecipes(docs)
}

func (r *firestoreRecipes) Subscribe(ctx context.Context, onChange func([]model.Recipe)) (*Subscription, error) {
	return snapshotWatch(ctx, RecipesCollection, r.col().Query, decodeRecipes, onChange), nil
}

type firestoreFavorites struct {
	client *firestore.Client
}

func (r *firestoreFavorites) col() *firestore.CollectionRef {
	return r.client.Collection(FavoritesCollection)
}

// Put writes the favorite under its composite key; Set overwrites, so
// repeated calls leave a single document. The recipe is read in the same
// transaction, which serializes Put against the cascading Delete.
func (r *firestoreFavorites) Put(ctx context.Context, userID, recipeID string) error {
	fav := model.NewFavorite(userID, recipeID)
	recipe := r.client.Collection(RecipesCollection).Doc(recipeID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(recipe); err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		return tx.Set(r.col().Doc(fav.ID), fav)
	})
}

func (r *firestoreFavorites) Remove(ctx context.Context, userID, recipeID string) error {
	_, err := r.col().Doc(model.FavoriteKey(userID, recipeID)).Delete(ctx)
	return err
}

func (r *firestoreFavorites) Exists(ctx context.Context, userID, recipeID string) (bool, error) {
	_, err := r.col().Doc(model.FavoriteKey(userID, recipeID)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *firestoreFavorites) ListRecipeIDs(ctx context.Context, userID string) (model.FavoriteSet, error) {
	docs, err := r.col().Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return decodeFavoriteSet(docs)
}

func (r *firestoreFavorites) Subscribe(ctx context.Context, userID string, onChange func(model.FavoriteSet)) (*Subscription, error) {
	q := r.col().Where("userId", "==", userID)
	return snapshotWatch(ctx, FavoritesCollection+":"+userID, q, decodeFavoriteSet, onChange), nil
}

type firestoreUsers struct {
	client *firestore.Client
}

func (r *firestoreUsers) col() *firestore.CollectionRef {
	return r.client.Collection(UsersCollection)
}

// Create stores the profile. Email uniqueness is checked by query before the
// write, which is not atomic across concurrent registrations.
func (r *firestoreUsers) Create(ctx context.Context, user *model.User) error {
	if _, err := r.GetByEmail(ctx, user.Email); err == nil {
		return ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	if _, err := r.col().Doc(user.ID).Create(ctx, user); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *firestoreUsers) GetByID(ctx context.Context, id string) (*model.User, error) {
	doc, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var user model.User
	if err := doc.DataTo(&user); err != nil {
		return nil, err
	}
	user.ID = doc.Ref.ID
	return &user, nil
}

func (r *firestoreUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	docs, err := r.col().Where("email", "==", strings.TrimSpace(email)).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	var user model.User
	if err := docs[0].DataTo(&user); err != nil {
		return nil, err
	}
	user.ID = docs[0].Ref.ID
	return &user, nil
}
