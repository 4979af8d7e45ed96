// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Nattapat2550/chat/internal/domain"
	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

// ErrAlreadyResolved is returned when Resolve targets a message whose
// pending flag was already cleared. Under correct orchestrator use this
// signals a logic error, not a storage fault.
var ErrAlreadyResolved = errors.New("message already resolved")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// Create appends a single message record.
func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		log.Printf("[MessageRepository] Database error during message creation for thread ID %d: %v", message.ThreadID, err)
		return nil, errors.New("database error creating message")
	}

	log.Printf("[MessageRepository] Message created successfully with ID: %d for thread: %d", message.ID, message.ThreadID)
	return message, nil
}

// CreatePair inserts the user message and its assistant placeholder
// back-to-back inside one transaction. Inserting both in a single
// transaction keeps the pair adjacent in creation order and guarantees
// no orphaned user message is left behind on a storage fault.
func (r *gormMessageRepository) CreatePair(ctx context.Context, userMsg, placeholder *domain.Message) error {
	if err := r.validateMessageInput(userMsg); err != nil {
		return fmt.Errorf("validation failed for user message: %w", err)
	}
	if err := r.validateMessageInput(placeholder); err != nil {
		return fmt.Errorf("validation failed for placeholder: %w", err)
	}
	if userMsg.ThreadID != placeholder.ThreadID {
		return errors.New("pair must belong to the same thread")
	}
	if placeholder.Role != domain.RoleAssistant || !placeholder.Pending {
		return errors.New("placeholder must be a pending assistant message")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userMsg).Error; err != nil {
			return err
		}
		return tx.Create(placeholder).Error
	})
	if err != nil {
		log.Printf("[MessageRepository] Database error creating message pair for thread ID %d: %v", userMsg.ThreadID, err)
		return errors.New("database error creating message pair")
	}

	log.Printf("[MessageRepository] Message pair created: user %d, placeholder %d for thread %d",
		userMsg.ID, placeholder.ID, userMsg.ThreadID)
	return nil
}

func (r *gormMessageRepository) FindByID(ctx context.Context, messageID uint) (*domain.Message, error) {
	if messageID == 0 {
		return nil, errors.New("invalid message ID")
	}

	var message domain.Message
	err := r.db.WithContext(ctx).First(&message, messageID).Error
	return r.handleFindError(err, &message, "FindByID")
}

// FindByThreadID returns all messages for a thread in creation order.
func (r *gormMessageRepository) FindByThreadID(ctx context.Context, threadID uint) ([]domain.Message, error) {
	if threadID == 0 {
		return nil, errors.New("invalid thread ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error

	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for thread ID %d: %v", threadID, err)
		return nil, errors.New("database error fetching messages")
	}

	return messages, nil
}

// Resolve flips the identified pending message to its terminal state.
// The pending flag is part of the WHERE clause: a terminal row is never
// rewritten, and concurrent resolutions of different placeholders never
// contend because each targets its own ID.
func (r *gormMessageRepository) Resolve(ctx context.Context, messageID uint, text string) error {
	if messageID == 0 {
		return errors.New("invalid message ID")
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("resolution text cannot be empty")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ? AND pending = ?", messageID, true).
		Updates(map[string]interface{}{"text": text, "pending": false})

	if result.Error != nil {
		log.Printf("[MessageRepository] Database error resolving message ID %d: %v", messageID, result.Error)
		return errors.New("database error resolving message")
	}

	if result.RowsAffected == 0 {
		// Distinguish a missing row from one that is already terminal.
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("id = ?", messageID).Count(&count).Error; err != nil {
			log.Printf("[MessageRepository] Database error checking message existence for ID %d: %v", messageID, err)
			return errors.New("database error resolving message")
		}
		if count == 0 {
			return ErrMessageNotFound
		}
		return ErrAlreadyResolved
	}

	log.Printf("[MessageRepository] Message resolved successfully: ID %d", messageID)
	return nil
}

// DeleteByThreadID performs a bulk deletion of all messages associated
// with a given thread.
func (r *gormMessageRepository) DeleteByThreadID(ctx context.Context, threadID uint) error {
	if threadID == 0 {
		return errors.New("invalid thread ID")
	}

	result := r.db.WithContext(ctx).Where("thread_id = ?", threadID).Delete(&domain.Message{})
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error deleting messages for thread ID %d: %v", threadID, result.Error)
		return errors.New("database error deleting messages by thread ID")
	}

	log.Printf("[MessageRepository] Deleted %d messages for thread %d", result.RowsAffected, threadID)
	return nil
}

func (r *gormMessageRepository) CountByThreadID(ctx context.Context, threadID uint) (int64, error) {
	if threadID == 0 {
		return 0, errors.New("invalid thread ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("thread_id = ?", threadID).Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for thread ID %d: %v", threadID, err)
		return 0, errors.New("database error counting thread messages")
	}

	return count, nil
}

// ===== VALIDATION HELPERS =====

func (r *gormMessageRepository) validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.ThreadID == 0 {
		return errors.New("thread ID is required")
	}
	if message.Role != domain.RoleUser && message.Role != domain.RoleAssistant {
		return errors.New("invalid message role")
	}
	if message.Role == domain.RoleAssistant && message.AttachmentRef != "" {
		return errors.New("assistant messages cannot carry attachments")
	}
	if strings.TrimSpace(message.Text) == "" && message.AttachmentRef == "" {
		return errors.New("message must have text or an attachment")
	}
	if len(message.Text) > 100000 {
		return errors.New("message text too long")
	}
	return nil
}

// ===== ERROR HANDLING HELPERS =====

func (r *gormMessageRepository) handleFindError(err error, message *domain.Message, operation string) (*domain.Message, error) {
	if err == nil {
		return message, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}

	log.Printf("[MessageRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
