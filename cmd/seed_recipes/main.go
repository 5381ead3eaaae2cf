package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"slices"

	"github.com/jaswdr/faker"

	"github.com/pageza/receitas/backend/config"
	"github.com/pageza/receitas/backend/internal/database"
	"github.com/pageza/receitas/backend/internal/feed"
	"github.com/pageza/receitas/backend/internal/model"
	"github.com/pageza/receitas/backend/internal/repository"
	"github.com/pageza/receitas/backend/internal/service"
	"github.com/pageza/receitas/backend/internal/types"
)

const testPassword = "testpassword123"

var (
	dishes  = []string{"Bolo", "Torta", "Pudim", "Sopa", "Salada", "Suco", "Pão", "Risoto", "Moqueca", "Farofa"}
	pantry  = []string{"farinha", "ovos", "leite", "açúcar", "manteiga", "arroz", "feijão", "cebola", "alho", "tomate", "azeite", "sal"}
	flavors = []string{"banana", "coco", "milho", "abóbora", "laranja", "maracujá", "mandioca", "frango", "palmito", "chocolate"}
)

func main() {
	numUsers := flag.Int("users", 3, "Number of users to create")
	numRecipes := flag.Int("recipes", 25, "Number of recipes to create")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.StoreBackend == config.BackendFirestore {
		log.Fatal("Seeding supports the SQL backends only")
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	store := repository.NewSQLStore(db, feed.NewMemoryNotifier())
	defer store.Close()

	ctx := context.Background()
	auth := service.NewAuthService(store.Users, cfg.JWTSecret, cfg.TokenTTL)
	recipes := service.NewRecipeService(store.Recipes, store.Users, nil)
	favorites := service.NewFavoriteService(store.Favorites, store.Recipes)
	fake := faker.New()

	users := make([]*model.User, 0, *numUsers)
	for i := 0; i < *numUsers; i++ {
		req := types.RegisterRequest{
			Name:     fake.Person().Name(),
			Email:    fmt.Sprintf("test%d@receitas.dev", i+1),
			Password: testPassword,
		}
		user, err := auth.Register(ctx, req)
		var authErr *service.AuthError
		if errors.As(err, &authErr) && authErr.Reason == service.ReasonEmailInUse {
			log.Printf("User %s already exists, skipping", req.Email)
			continue
		}
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", req.Email, err)
		}
		log.Printf("Created user %s (%s)", user.Email, user.Name)
		users = append(users, user)
	}
	if len(users) == 0 {
		log.Println("No new users; nothing to seed")
		return
	}

	for i := 0; i < *numRecipes; i++ {
		author := users[i%len(users)]
		fields := model.RecipeFields{
			Name:         fmt.Sprintf("%s de %s", fake.RandomStringElement(dishes), fake.RandomStringElement(flavors)),
			Ingredients:  ingredients(fake),
			Instructions: fake.Lorem().Paragraph(2),
			Tags:         tags(fake),
		}
		recipe, err := recipes.CreateRecipe(ctx, types.Session{UserID: author.ID, Name: author.Name}, fields)
		if err != nil {
			log.Printf("Failed to create recipe %q: %v", fields.Name, err)
			continue
		}

		// Every other user favorites roughly a third of the recipes.
		for _, u := range users {
			if u.ID != author.ID && fake.IntBetween(0, 2) == 0 {
				if err := favorites.SetFavorite(ctx, u.ID, recipe.ID, true); err != nil {
					log.Printf("Failed to favorite %s for %s: %v", recipe.ID, u.Email, err)
				}
			}
		}
	}

	log.Printf("Seeded %d users and %d recipes (password %q)", len(users), *numRecipes, testPassword)
}

func ingredients(fake faker.Faker) []string {
	n := fake.IntBetween(3, 7)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf("%d %s", fake.IntBetween(1, 4), fake.RandomStringElement(pantry)))
	}
	return out
}

func tags(fake faker.Faker) []string {
	n := fake.IntBetween(0, 3)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tag := fake.RandomStringElement(model.Tags)
		if !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}
