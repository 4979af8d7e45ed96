// File: internal/repository/thread/thread_repository_test.go
package thread

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Nattapat2550/chat/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Thread{}))
	return db
}

func TestCreate_DefaultsName(t *testing.T) {
	db := newTestDB(t)
	repo := NewThreadRepository(db)

	created, err := repo.Create(context.Background(), &domain.Thread{})
	require.NoError(t, err)
	require.Equal(t, domain.DefaultThreadName, created.Name)
	require.NotZero(t, created.ID)
}

func TestCreate_KeepsGivenName(t *testing.T) {
	db := newTestDB(t)
	repo := NewThreadRepository(db)

	created, err := repo.Create(context.Background(), &domain.Thread{Name: "Trip planning"})
	require.NoError(t, err)
	require.Equal(t, "Trip planning", created.Name)
}

func TestFindAll_MostRecentActivityFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewThreadRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, &domain.Thread{Name: "first"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &domain.Thread{Name: "second"})
	require.NoError(t, err)

	// Activity on the older thread moves it back to the front.
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.TouchUpdatedAt(ctx, first.ID))

	threads, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	require.Equal(t, first.ID, threads[0].ID)
	require.Equal(t, second.ID, threads[1].ID)
}

func TestRename(t *testing.T) {
	db := newTestDB(t)
	repo := NewThreadRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Thread{})
	require.NoError(t, err)

	renamed, err := repo.Rename(ctx, created.ID, "Renamed")
	require.NoError(t, err)
	require.Equal(t, "Renamed", renamed.Name)

	_, err = repo.Rename(ctx, created.ID+100, "Ghost")
	require.ErrorIs(t, err, ErrThreadNotFound)
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewThreadRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Thread{})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.ErrorIs(t, repo.Delete(ctx, created.ID), ErrThreadNotFound)

	exists, err := repo.ExistsByID(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestExistsByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewThreadRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Thread{})
	require.NoError(t, err)

	exists, err := repo.ExistsByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsByID(ctx, created.ID+1)
	require.NoError(t, err)
	require.False(t, exists)

	_, err = repo.ExistsByID(ctx, 0)
	require.Error(t, err)
}
