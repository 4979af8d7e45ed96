// File: internal/domain/thread.go
package domain

import "time"

const DefaultThreadName = "New Thread"

// Thread represents a single named conversation.
type Thread struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
