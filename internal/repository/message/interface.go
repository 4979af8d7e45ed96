// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/Nattapat2550/chat/internal/domain"
)

// MessageRepository handles message persistence.
//
// Messages are append-only except for Resolve, which is the single
// in-place mutation the model allows: flipping a pending assistant
// placeholder to its terminal text.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	// CreatePair inserts a user message and its paired assistant
	// placeholder in one transaction. Either both rows commit or neither.
	CreatePair(ctx context.Context, userMsg, placeholder *domain.Message) error
	FindByID(ctx context.Context, messageID uint) (*domain.Message, error)
	FindByThreadID(ctx context.Context, threadID uint) ([]domain.Message, error)
	// Resolve sets the final text on the pending message with the given
	// ID and clears its pending flag. It targets the row by identity and
	// only touches rows that are still pending, so a resolution can
	// never overwrite another submission's reply or re-resolve a
	// terminal message.
	Resolve(ctx context.Context, messageID uint, text string) error
	DeleteByThreadID(ctx context.Context, threadID uint) error
	CountByThreadID(ctx context.Context, threadID uint) (int64, error)
}
