// File: internal/repository/thread/thread_repository.go
package thread

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Nattapat2550/chat/internal/domain"
	"gorm.io/gorm"
)

var ErrThreadNotFound = errors.New("thread not found")

type gormThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &gormThreadRepository{db: db}
}

// Create inserts a new thread, applying the default name when none is given.
func (r *gormThreadRepository) Create(ctx context.Context, thread *domain.Thread) (*domain.Thread, error) {
	if err := r.validateThreadInput(thread); err != nil {
		log.Printf("[ThreadRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if strings.TrimSpace(thread.Name) == "" {
		thread.Name = domain.DefaultThreadName
	}

	if err := r.db.WithContext(ctx).Create(thread).Error; err != nil {
		log.Printf("[ThreadRepository] Database error during thread creation: %v", err)
		return nil, errors.New("database error creating thread")
	}

	log.Printf("[ThreadRepository] Thread created successfully with ID: %d", thread.ID)
	return thread, nil
}

func (r *gormThreadRepository) FindByID(ctx context.Context, threadID uint) (*domain.Thread, error) {
	if threadID == 0 {
		return nil, errors.New("invalid thread ID")
	}

	var thread domain.Thread
	err := r.db.WithContext(ctx).First(&thread, threadID).Error
	return r.handleFindError(err, &thread, "FindByID")
}

// FindAll returns every thread ordered by most recent activity first.
func (r *gormThreadRepository) FindAll(ctx context.Context) ([]domain.Thread, error) {
	var threads []domain.Thread
	err := r.db.WithContext(ctx).
		Order("updated_at DESC, id DESC").
		Find(&threads).Error

	if err != nil {
		log.Printf("[ThreadRepository] Database error listing threads: %v", err)
		return nil, errors.New("database error fetching threads")
	}

	return threads, nil
}

func (r *gormThreadRepository) Rename(ctx context.Context, threadID uint, name string) (*domain.Thread, error) {
	if threadID == 0 {
		return nil, errors.New("invalid thread ID")
	}
	if err := r.validateThreadName(name); err != nil {
		return nil, fmt.Errorf("name validation: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Thread{}).
		Where("id = ?", threadID).
		Update("name", name)

	if result.Error != nil {
		log.Printf("[ThreadRepository] Database error renaming thread ID %d: %v", threadID, result.Error)
		return nil, errors.New("database error renaming thread")
	}
	if result.RowsAffected == 0 {
		return nil, ErrThreadNotFound
	}

	return r.FindByID(ctx, threadID)
}

func (r *gormThreadRepository) Delete(ctx context.Context, threadID uint) error {
	if threadID == 0 {
		return errors.New("invalid thread ID")
	}

	result := r.db.WithContext(ctx).Delete(&domain.Thread{}, threadID)
	if result.Error != nil {
		log.Printf("[ThreadRepository] Database error deleting thread ID %d: %v", threadID, result.Error)
		return errors.New("database error deleting thread")
	}
	if result.RowsAffected == 0 {
		return ErrThreadNotFound
	}

	log.Printf("[ThreadRepository] Thread deleted successfully: ID %d", threadID)
	return nil
}

// TouchUpdatedAt bumps a thread's activity timestamp so it sorts first.
func (r *gormThreadRepository) TouchUpdatedAt(ctx context.Context, threadID uint) error {
	if threadID == 0 {
		return errors.New("invalid thread ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Thread{}).
		Where("id = ?", threadID).
		Update("updated_at", time.Now())

	if result.Error != nil {
		log.Printf("[ThreadRepository] Database error updating timestamp for thread ID %d: %v", threadID, result.Error)
		return errors.New("database error updating thread timestamp")
	}
	if result.RowsAffected == 0 {
		return ErrThreadNotFound
	}

	return nil
}

// ExistsByID checks existence without loading the row.
func (r *gormThreadRepository) ExistsByID(ctx context.Context, threadID uint) (bool, error) {
	if threadID == 0 {
		return false, errors.New("invalid thread ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Thread{}).Where("id = ?", threadID).Count(&count).Error
	if err != nil {
		log.Printf("[ThreadRepository] Database error checking thread existence for ID %d: %v", threadID, err)
		return false, errors.New("database error checking thread existence")
	}

	return count > 0, nil
}

// ===== VALIDATION HELPERS =====

func (r *gormThreadRepository) validateThreadInput(thread *domain.Thread) error {
	if thread == nil {
		return errors.New("thread cannot be nil")
	}
	return r.validateThreadName(thread.Name)
}

func (r *gormThreadRepository) validateThreadName(name string) error {
	if len(name) > 200 {
		return errors.New("name must be 200 characters or less")
	}
	return nil
}

// ===== ERROR HANDLING HELPERS =====

// handleFindError maps gorm lookup errors without leaking driver details.
func (r *gormThreadRepository) handleFindError(err error, thread *domain.Thread, operation string) (*domain.Thread, error) {
	if err == nil {
		return thread, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrThreadNotFound
	}

	log.Printf("[ThreadRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
