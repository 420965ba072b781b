package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-admin-console/errs"
	"github.com/rpupo63/blog-admin-console/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) (*BlogPostRepo, Database) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.BlogPost{}))

	d := New(db)
	t.Cleanup(func() { _ = d.Close() })
	return d.BlogPostRepo(), d
}

func TestBlogPostRepo_AddAssignsIDAndOrdersNewestFirst(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	older, err := repo.Add(ctx, &models.BlogPost{
		Image: "https://cdn/old.png", Title: "Old", Content: "old body", UserID: "user-1",
		CreatedAt: base,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, older.ID)

	newer, err := repo.Add(ctx, &models.BlogPost{
		Image: "https://cdn/new.png", Title: "New", Content: "new body", UserID: "user-1",
		CreatedAt: base.Add(time.Minute),
	})
	require.NoError(t, err)

	posts, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, older.ID, posts[1].ID)
	assert.Equal(t, "user-1", posts[0].UserID)
}

func TestBlogPostRepo_AddSetsCreatedAt(t *testing.T) {
	repo, _ := newTestRepo(t)

	post, err := repo.Add(context.Background(), &models.BlogPost{
		Image: "i", Title: "t", Content: "c", UserID: "u",
	})
	require.NoError(t, err)
	assert.False(t, post.CreatedAt.IsZero())
}

func TestBlogPostRepo_UpdateKeepsOwnerAndID(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Add(ctx, &models.BlogPost{
		Image: "i", Title: "t", Content: "c", UserID: "owner",
	})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, &models.BlogPost{
		ID: created.ID, Image: "i2", Title: "t2", Content: "c2", UserID: "someone-else",
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "owner", updated.UserID)
	assert.Equal(t, "t2", updated.Title)
	assert.Equal(t, "c2", updated.Content)
	assert.Equal(t, "i2", updated.Image)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
}

func TestBlogPostRepo_UpdateMissingRow(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Update(context.Background(), &models.BlogPost{
		ID: uuid.New(), Image: "i", Title: "t", Content: "c",
	})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	assert.True(t, errs.IsService(err))
}

func TestBlogPostRepo_Delete(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Add(ctx, &models.BlogPost{Image: "i", Title: "t", Content: "c", UserID: "u"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.NoError(t, repo.Delete(ctx, created.ID), "deleting twice is not an error")

	posts, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	_, err = repo.FindByID(ctx, created.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestBlogPostRepo_CancelledContext(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindAll(ctx)
	require.Error(t, err)
	assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))
}
