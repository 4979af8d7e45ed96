// File: internal/domain/message.go
package domain

import "time"

// Message roles. A message's role is fixed at creation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// PlaceholderText is the text an assistant message carries while its
// reply is still being generated.
const PlaceholderText = "Thinking..."

// Message represents a single turn within a thread.
//
// An assistant message is created as a pending placeholder and resolved
// exactly once: Pending flips true->false together with the final Text,
// and never flips back. ThreadID and Role never change after creation.
type Message struct {
	ID            uint      `json:"id" gorm:"primarykey"`
	ThreadID      uint      `json:"threadId" gorm:"not null;index"`
	Role          string    `json:"role" gorm:"not null"`
	Text          string    `json:"text"`
	AttachmentRef string    `json:"attachmentRef,omitempty"`
	Pending       bool      `json:"pending" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"createdAt"`
}

// IsResolved reports whether the message is in a terminal state.
func (m *Message) IsResolved() bool {
	return !m.Pending
}
