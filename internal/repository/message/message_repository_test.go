// File: internal/repository/message/message_repository_test.go
package message

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Nattapat2550/chat/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Thread{}, &domain.Message{}))
	return db
}

func newThread(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	th := &domain.Thread{Name: domain.DefaultThreadName}
	require.NoError(t, db.Create(th).Error)
	return th.ID
}

func TestCreatePair_CommitsBothRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	threadID := newThread(t, db)
	ctx := context.Background()

	userMsg := &domain.Message{ThreadID: threadID, Role: domain.RoleUser, Text: "hello"}
	placeholder := &domain.Message{ThreadID: threadID, Role: domain.RoleAssistant, Text: domain.PlaceholderText, Pending: true}

	require.NoError(t, repo.CreatePair(ctx, userMsg, placeholder))
	require.NotZero(t, userMsg.ID)
	require.NotZero(t, placeholder.ID)

	messages, err := repo.FindByThreadID(ctx, threadID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, domain.RoleUser, messages[0].Role)
	require.Equal(t, domain.RoleAssistant, messages[1].Role)
	require.True(t, messages[1].Pending)
	require.Equal(t, domain.PlaceholderText, messages[1].Text)
}

func TestCreatePair_RejectsInvalidPlaceholder(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	threadID := newThread(t, db)
	ctx := context.Background()

	userMsg := &domain.Message{ThreadID: threadID, Role: domain.RoleUser, Text: "hello"}
	notPending := &domain.Message{ThreadID: threadID, Role: domain.RoleAssistant, Text: "done"}

	require.Error(t, repo.CreatePair(ctx, userMsg, notPending))

	count, err := repo.CountByThreadID(ctx, threadID)
	require.NoError(t, err)
	require.Zero(t, count, "a rejected pair must leave no rows behind")
}

func TestCreatePair_DifferentThreadsRejected(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	t1 := newThread(t, db)
	t2 := newThread(t, db)

	userMsg := &domain.Message{ThreadID: t1, Role: domain.RoleUser, Text: "hello"}
	placeholder := &domain.Message{ThreadID: t2, Role: domain.RoleAssistant, Text: domain.PlaceholderText, Pending: true}

	require.Error(t, repo.CreatePair(context.Background(), userMsg, placeholder))
}

func TestResolve_TargetsExactRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	threadID := newThread(t, db)
	ctx := context.Background()

	// Two in-flight placeholders on the same thread.
	first := &domain.Message{ThreadID: threadID, Role: domain.RoleAssistant, Text: domain.PlaceholderText, Pending: true}
	second := &domain.Message{ThreadID: threadID, Role: domain.RoleAssistant, Text: domain.PlaceholderText, Pending: true}
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)
	_, err = repo.Create(ctx, second)
	require.NoError(t, err)

	// Resolve the second before the first.
	require.NoError(t, repo.Resolve(ctx, second.ID, "second reply"))

	got, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, got.Pending, "the other placeholder must stay pending")

	got, err = repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	require.False(t, got.Pending)
	require.Equal(t, "second reply", got.Text)
}

func TestResolve_NeverRewritesTerminalRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	threadID := newThread(t, db)
	ctx := context.Background()

	msg := &domain.Message{ThreadID: threadID, Role: domain.RoleAssistant, Text: domain.PlaceholderText, Pending: true}
	_, err := repo.Create(ctx, msg)
	require.NoError(t, err)

	require.NoError(t, repo.Resolve(ctx, msg.ID, "final"))

	err = repo.Resolve(ctx, msg.ID, "overwritten")
	require.ErrorIs(t, err, ErrAlreadyResolved)

	got, err := repo.FindByID(ctx, msg.ID)
	require.NoError(t, err)
	require.Equal(t, "final", got.Text)
}

func TestResolve_MissingRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)

	err := repo.Resolve(context.Background(), 12345, "text")
	require.ErrorIs(t, err, ErrMessageNotFound)
}

func TestFindByThreadID_CreationOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	threadID := newThread(t, db)
	other := newThread(t, db)
	ctx := context.Background()

	texts := []string{"one", "two", "three", "four"}
	for _, txt := range texts {
		_, err := repo.Create(ctx, &domain.Message{ThreadID: threadID, Role: domain.RoleUser, Text: txt})
		require.NoError(t, err)
	}
	// Noise in another thread must not leak in.
	_, err := repo.Create(ctx, &domain.Message{ThreadID: other, Role: domain.RoleUser, Text: "elsewhere"})
	require.NoError(t, err)

	messages, err := repo.FindByThreadID(ctx, threadID)
	require.NoError(t, err)
	require.Len(t, messages, len(texts))
	for i, m := range messages {
		require.Equal(t, texts[i], m.Text)
		require.Equal(t, threadID, m.ThreadID)
		if i > 0 {
			require.False(t, m.CreatedAt.Before(messages[i-1].CreatedAt),
				"messages must be in non-decreasing creation-time order")
		}
	}
}

func TestDeleteByThreadID_NoStrays(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	threadID := newThread(t, db)
	keep := newThread(t, db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &domain.Message{ThreadID: threadID, Role: domain.RoleUser, Text: "doomed"})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &domain.Message{ThreadID: keep, Role: domain.RoleUser, Text: "survivor"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByThreadID(ctx, threadID))

	count, err := repo.CountByThreadID(ctx, threadID)
	require.NoError(t, err)
	require.Zero(t, count)

	count, err = repo.CountByThreadID(ctx, keep)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestCreate_Validation(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	threadID := newThread(t, db)
	ctx := context.Background()

	cases := []struct {
		name string
		msg  *domain.Message
	}{
		{"nil message", nil},
		{"missing thread", &domain.Message{Role: domain.RoleUser, Text: "x"}},
		{"bad role", &domain.Message{ThreadID: threadID, Role: "system", Text: "x"}},
		{"empty content", &domain.Message{ThreadID: threadID, Role: domain.RoleUser}},
		{"assistant with attachment", &domain.Message{ThreadID: threadID, Role: domain.RoleAssistant, Text: "x", AttachmentRef: "/uploads/a.jpg"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.Create(ctx, tc.msg)
			require.Error(t, err)
		})
	}

	// Attachment-only user message is valid.
	_, err := repo.Create(ctx, &domain.Message{ThreadID: threadID, Role: domain.RoleUser, AttachmentRef: "/uploads/a.jpg"})
	require.NoError(t, err)
}
