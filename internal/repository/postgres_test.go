package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-dev/portfolio-server-go/internal/database"
	"github.com/atelier-dev/portfolio-server-go/internal/model"
)

func TestContactRepository_Postgres(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewContactRepository(db.DB)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		c, err := repo.Create(ctx, model.CreateContactParams{
			Name:    fmt.Sprintf("Sender %02d", i),
			Email:   fmt.Sprintf("sender%02d@example.com", i),
			Subject: "Hello",
			Message: "Just saying hi",
		})
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, `UPDATE contacts SET created_at = $2 WHERE id = $1`, c.ID, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	t.Run("third page holds the five oldest records newest first", func(t *testing.T) {
		items, total, err := repo.List(ctx, model.ContactQuery{Page: 3, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 25, total)
		require.Len(t, items, 5)
		for i, c := range items {
			assert.Equal(t, ids[4-i], c.ID)
		}
	})

	t.Run("search matches email case-insensitively", func(t *testing.T) {
		bob, err := repo.Create(ctx, model.CreateContactParams{
			Name: "Robert", Email: "bob@example.com", Subject: "Quote", Message: "Please call",
		})
		require.NoError(t, err)

		items, total, err := repo.List(ctx, model.ContactQuery{Search: "BOB", Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, bob.ID, items[0].ID)
	})

	t.Run("wildcards in the term are literal", func(t *testing.T) {
		_, total, err := repo.List(ctx, model.ContactQuery{Search: "%", Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 0, total)
	})

	t.Run("delete reports not found", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, uuid.NewString()), ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "65f1c2a4e4b0a1b2c3d4e5f6"), ErrNotFound)
		require.NoError(t, repo.Delete(ctx, ids[0]))
		assert.ErrorIs(t, repo.Delete(ctx, ids[0]), ErrNotFound)
	})
}

func TestProjectRepository_Postgres(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewProjectRepository(db.DB)
	ctx := context.Background()

	t.Run("defaults unset fields on read", func(t *testing.T) {
		p, err := repo.Create(ctx, model.CreateProjectParams{ImageURL: "/static/uploads/x.png"})
		require.NoError(t, err)
		assert.Equal(t, model.DefaultProjectTitle, p.Title)
		assert.Equal(t, model.DefaultProjectCategory, p.Category)

		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "/static/uploads/x.png", found.ImageURL)
		assert.Equal(t, model.DefaultProjectLink, found.Link)
	})

	t.Run("update and delete distinguish missing rows", func(t *testing.T) {
		p, err := repo.Create(ctx, model.CreateProjectParams{Title: "Bridge"})
		require.NoError(t, err)

		require.NoError(t, repo.Update(ctx, p.ID, model.UpdateProjectParams{Title: "Tunnel", Link: "https://x"}))
		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tunnel", found.Title)

		assert.ErrorIs(t, repo.Update(ctx, uuid.NewString(), model.UpdateProjectParams{}), ErrNotFound)
		require.NoError(t, repo.Delete(ctx, p.ID))
		assert.ErrorIs(t, repo.Delete(ctx, p.ID), ErrNotFound)
	})
}

func TestAdminRepository_Postgres(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewAdminRepository(db.DB)
	ctx := context.Background()

	admin, err := repo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Nil(t, admin)

	_, err = repo.Create(ctx, model.CreateAdminParams{Username: "admin", PasswordHash: "h"})
	require.NoError(t, err)

	admin, err = repo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, "h", admin.PasswordHash)
}

// setupTestDB connects to TEST_DATABASE_URL, migrates, and empties every
// table. Tests are skipped when the variable is unset.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.Connect(url)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))

	_, err = db.Exec(`TRUNCATE admins, contacts, projects`)
	require.NoError(t, err)
	return db
}
