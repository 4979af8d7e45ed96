// File: internal/services/thread_service.go
package services

import (
	"context"
	"errors"

	"github.com/Nattapat2550/chat/internal/domain"
	"github.com/Nattapat2550/chat/internal/repository/message"
	"github.com/Nattapat2550/chat/internal/repository/thread"
)

// ThreadService is the thread directory: list, create, rename, delete.
// Deleting a thread cascades to its messages and their attachments.
type ThreadService struct {
	threadRepo  thread.ThreadRepository
	messageRepo message.MessageRepository
	attachments AttachmentStore
	logger      Logger
}

func NewThreadService(
	threadRepo thread.ThreadRepository,
	messageRepo message.MessageRepository,
	attachments AttachmentStore,
	logger Logger,
) (*ThreadService, error) {
	if threadRepo == nil {
		return nil, NewValidationError("constructor", "thread repository is required")
	}
	if messageRepo == nil {
		return nil, NewValidationError("constructor", "message repository is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	return &ThreadService{
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		attachments: attachments,
		logger:      logger,
	}, nil
}

func (s *ThreadService) ListThreads(ctx context.Context) ([]domain.Thread, error) {
	threads, err := s.threadRepo.FindAll(ctx)
	if err != nil {
		return nil, NewStorageError("list_threads", "could not list threads", err)
	}
	return threads, nil
}

func (s *ThreadService) CreateThread(ctx context.Context, name string) (*domain.Thread, error) {
	created, err := s.threadRepo.Create(ctx, &domain.Thread{Name: name})
	if err != nil {
		return nil, NewStorageError("create_thread", "could not create thread", err)
	}
	return created, nil
}

func (s *ThreadService) RenameThread(ctx context.Context, threadID uint, name string) (*domain.Thread, error) {
	renamed, err := s.threadRepo.Rename(ctx, threadID, name)
	if err != nil {
		if errors.Is(err, thread.ErrThreadNotFound) {
			return nil, NewNotFoundError("rename_thread", threadID)
		}
		return nil, NewStorageError("rename_thread", "could not rename thread", err)
	}
	return renamed, nil
}

// DeleteThread removes the thread, all its messages, and best-effort
// their attachment blobs. The record deletions must succeed; blob
// cleanup failures are logged and swallowed.
func (s *ThreadService) DeleteThread(ctx context.Context, threadID uint) error {
	// Collect attachment refs before the rows disappear.
	messages, err := s.messageRepo.FindByThreadID(ctx, threadID)
	if err != nil {
		return NewStorageError("delete_thread", "could not fetch thread messages", err)
	}

	if err := s.messageRepo.DeleteByThreadID(ctx, threadID); err != nil {
		return NewStorageError("delete_thread", "could not delete thread messages", err)
	}

	if err := s.threadRepo.Delete(ctx, threadID); err != nil {
		if errors.Is(err, thread.ErrThreadNotFound) {
			return NewNotFoundError("delete_thread", threadID)
		}
		return NewStorageError("delete_thread", "could not delete thread", err)
	}

	if s.attachments != nil {
		for _, m := range messages {
			if m.AttachmentRef == "" {
				continue
			}
			if err := s.attachments.Delete(m.AttachmentRef); err != nil {
				s.logger.Warn("attachment cleanup failed",
					"threadID", threadID,
					"ref", m.AttachmentRef,
					"error", err,
				)
			}
		}
	}

	s.logger.Info("thread deleted", "threadID", threadID, "messages", len(messages))
	return nil
}
