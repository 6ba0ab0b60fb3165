package book

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-library/pkg/pagination"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping PostgreSQL test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithInitScripts(filepath.Join("../../migrations", "library_db.sql")),
		postgres.WithDatabase("library_db"),
		postgres.WithUsername("library"),
		postgres.WithPassword("pwd"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestPostgresBookRepository(t *testing.T) {
	pool := setupTestDatabase(t)
	repo := NewPostgresBookRepository(pool)
	ctx := context.Background()

	dune, err := repo.Create(ctx, Book{Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, dune.ID)
	assert.Empty(t, dune.Synopsis)
	assert.False(t, dune.CreatedAt.IsZero())

	for _, title := range []string{"Anathem", "Bleak House"} {
		_, err := repo.Create(ctx, Book{Title: title, Author: "Someone"})
		require.NoError(t, err)
	}

	books, total, err := repo.FindAll(ctx, pagination.PageRequest{Index: 0, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, books, 2)
	assert.Equal(t, "Anathem", books[0].Title)

	rest, _, err := repo.FindAll(ctx, pagination.PageRequest{Index: 1, Size: 2})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, dune.ID, rest[0].ID)

	dune.Synopsis = "Spice and sandworms."
	updated, err := repo.Update(ctx, dune)
	require.NoError(t, err)
	assert.Equal(t, "Spice and sandworms.", updated.Synopsis)

	_, err = repo.Update(ctx, Book{ID: uuid.New(), Title: "x", Author: "y"})
	assert.ErrorIs(t, err, ErrBookNotFound)

	require.NoError(t, repo.Delete(ctx, dune.ID))
	assert.ErrorIs(t, repo.Delete(ctx, dune.ID), ErrBookNotFound)
	_, err = repo.FindByID(ctx, dune.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}
