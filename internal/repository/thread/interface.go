// File: internal/repository/thread/interface.go
package thread

import (
	"context"

	"github.com/Nattapat2550/chat/internal/domain"
)

// ThreadRepository handles thread directory operations.
type ThreadRepository interface {
	Create(ctx context.Context, thread *domain.Thread) (*domain.Thread, error)
	FindByID(ctx context.Context, threadID uint) (*domain.Thread, error)
	FindAll(ctx context.Context) ([]domain.Thread, error)
	Rename(ctx context.Context, threadID uint, name string) (*domain.Thread, error)
	Delete(ctx context.Context, threadID uint) error
	TouchUpdatedAt(ctx context.Context, threadID uint) error
	ExistsByID(ctx context.Context, threadID uint) (bool, error)
}
