package main

import (
	"database/sql"
	"flag"
	"log"
	"os"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pageza/receitas/backend/config"
	"github.com/pageza/receitas/backend/internal/database"
)

func main() {
	dir := flag.String("dir", "", "Migrations directory (defaults to MIGRATIONS_DIR)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dir == "" {
		*dir = cfg.MigrationsDir
	}

	db, err := open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, *dir); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("All migrations applied successfully.")
}

// open connects with DATABASE_URL when set, otherwise with the configured
// backend. Firestore has no schema to migrate.
func open(cfg *config.Config) (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		switch cfg.StoreBackend {
		case config.BackendSQLite:
			return database.Open(cfg)
		case config.BackendFirestore:
			log.Fatal("Firestore backend has no migrations")
		}
		dsn = cfg.DSN()
	}

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{TranslateError: true})
}
