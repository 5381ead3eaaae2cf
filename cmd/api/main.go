package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/firestore"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/iterator"

	"github.com/pageza/receitas/backend/config"
	"github.com/pageza/receitas/backend/internal/api"
	"github.com/pageza/receitas/backend/internal/database"
	"github.com/pageza/receitas/backend/internal/feed"
	"github.com/pageza/receitas/backend/internal/middleware"
	"github.com/pageza/receitas/backend/internal/repository"
	"github.com/pageza/receitas/backend/internal/server"
	"github.com/pageza/receitas/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		log.Println("Redis not configured; live feeds are in-process and rate limiting is disabled")
	}

	store, health, err := openStore(ctx, cfg, redisClient)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	var images service.ImageStore
	if cfg.S3Bucket != "" {
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		images = service.NewS3ImageStore(s3Config)
	}

	deps := api.Dependencies{
		Auth:      service.NewAuthService(store.Users, cfg.JWTSecret, cfg.TokenTTL),
		Recipes:   service.NewRecipeService(store.Recipes, store.Users, images),
		Favorites: service.NewFavoriteService(store.Favorites, store.Recipes),
		Health:    health,
	}
	if redisClient != nil {
		deps.CreationLimiter = middleware.NewRecipeCreationRateLimiter(redisClient)
		deps.ModificationLimiter = middleware.NewRecipeModificationRateLimiter(redisClient)
	}

	srv := server.New(cfg, deps)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

// openStore connects the configured backend and returns its health check
func openStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (*repository.Store, func(context.Context) error, error) {
	if cfg.StoreBackend == config.BackendFirestore {
		client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("firestore: %w", err)
		}
		health := func(ctx context.Context) error {
			_, err := client.Collections(ctx).Next()
			if err != nil && !errors.Is(err, iterator.Done) {
				return err
			}
			return nil
		}
		return repository.NewFirestoreStore(client), health, nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}

	var notifier feed.Notifier = feed.NewMemoryNotifier()
	if redisClient != nil {
		notifier = feed.NewRedisNotifier(redisClient, "receitas")
	}
	health := func(ctx context.Context) error { return database.HealthCheck(ctx, db) }
	return repository.NewSQLStore(db, notifier), health, nil
}
