package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/receitas/backend/config"
	"github.com/pageza/receitas/backend/internal/model"
)

func sqliteConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env:          config.Test,
		StoreBackend: config.BackendSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "receitas.db"),
	}
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open(sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	require.NoError(t, RunMigrations(db, "does-not-matter"))
	for _, table := range []string{"users", "receitas", "favorites"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}

	recipe := model.Recipe{Name: "Cuscuz", UserID: "u1", Tags: model.StringArray{"Salgado"}}
	require.NoError(t, db.Create(&recipe).Error)

	var loaded model.Recipe
	require.NoError(t, db.First(&loaded, "id = ?", recipe.ID).Error)
	assert.Equal(t, model.StringArray{"Salgado"}, loaded.Tags)

	assert.NoError(t, HealthCheck(context.Background(), db))
}

func TestOpenRejectsFirestore(t *testing.T) {
	_, err := Open(&config.Config{StoreBackend: config.BackendFirestore})
	assert.Error(t, err)
}

func TestNewRedisClientErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewRedisClient(ctx, &config.Config{RedisURL: "not-a-url://"})
	assert.ErrorContains(t, err, "invalid redis url")

	_, err = NewRedisClient(ctx, &config.Config{RedisHost: "127.0.0.1", RedisPort: "1"})
	assert.ErrorContains(t, err, "unreachable")
}
