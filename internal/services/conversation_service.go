// File: internal/services/conversation_service.go
package services

import (
	"context"
	"strings"
	"sync"

	"github.com/Nattapat2550/chat/internal/domain"
	"github.com/Nattapat2550/chat/internal/repository/message"
	"github.com/Nattapat2550/chat/internal/repository/thread"
	"github.com/Nattapat2550/chat/internal/services/ai"
)

const noResponseText = "(no response)"

// SubmitResult is the immediate acknowledgment of a submission. The
// generated reply is not part of it; clients observe it by polling.
type SubmitResult struct {
	UserMessageID      uint `json:"userMessageId"`
	AssistantMessageID uint `json:"assistantMessageId"`
}

// MessageView is a message as served by the read endpoint, with
// assistant markdown pre-rendered to HTML.
type MessageView struct {
	domain.Message
	HTML string `json:"html,omitempty"`
}

// ConversationService orchestrates the message lifecycle: it creates
// the user/placeholder pair synchronously, then resolves the
// placeholder from a detached generation task.
type ConversationService struct {
	threadRepo  thread.ThreadRepository
	messageRepo message.MessageRepository
	generator   ai.CompletionProvider
	renderer    *MarkdownRenderer
	logger      Logger

	// inflight tracks detached generation tasks so tests and shutdown
	// can wait for them.
	inflight sync.WaitGroup
}

func NewConversationService(
	threadRepo thread.ThreadRepository,
	messageRepo message.MessageRepository,
	generator ai.CompletionProvider,
	logger Logger,
) (*ConversationService, error) {
	if threadRepo == nil {
		return nil, NewValidationError("constructor", "thread repository is required")
	}
	if messageRepo == nil {
		return nil, NewValidationError("constructor", "message repository is required")
	}
	if generator == nil {
		return nil, NewValidationError("constructor", "completion provider is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	return &ConversationService{
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		generator:   generator,
		renderer:    NewMarkdownRenderer(),
		logger:      logger,
	}, nil
}

// Submit creates the user message and its pending assistant placeholder,
// dispatches the reply generation, and returns without waiting for it.
// Both records are committed before Submit returns, so any read issued
// after the acknowledgment sees at least the pending pair.
func (s *ConversationService) Submit(ctx context.Context, threadID uint, text, attachmentRef string) (*SubmitResult, error) {
	text = strings.TrimSpace(text)
	if text == "" && attachmentRef == "" {
		return nil, NewValidationError("submit", "submission must include text or an attachment")
	}

	exists, err := s.threadRepo.ExistsByID(ctx, threadID)
	if err != nil {
		return nil, NewStorageError("submit", "could not verify thread", err)
	}
	if !exists {
		return nil, NewNotFoundError("submit", threadID)
	}

	userMsg := &domain.Message{
		ThreadID:      threadID,
		Role:          domain.RoleUser,
		Text:          text,
		AttachmentRef: attachmentRef,
	}
	placeholder := &domain.Message{
		ThreadID: threadID,
		Role:     domain.RoleAssistant,
		Text:     domain.PlaceholderText,
		Pending:  true,
	}

	if err := s.messageRepo.CreatePair(ctx, userMsg, placeholder); err != nil {
		return nil, NewStorageError("submit", "could not create message pair", err)
	}

	if err := s.threadRepo.TouchUpdatedAt(ctx, threadID); err != nil {
		// Ordering metadata only; the submission itself succeeded.
		s.logger.Warn("could not touch thread timestamp", "threadID", threadID, "error", err)
	}

	// The generation task carries only the placeholder's identity, never
	// a handle to the row, so resolution works regardless of which
	// process performs it.
	s.inflight.Add(1)
	go s.generateReply(placeholder.ID, threadID, text)

	s.logger.Info("submission accepted",
		"threadID", threadID,
		"userMessageID", userMsg.ID,
		"assistantMessageID", placeholder.ID,
	)

	return &SubmitResult{
		UserMessageID:      userMsg.ID,
		AssistantMessageID: placeholder.ID,
	}, nil
}

// generateReply runs detached from the request that spawned it. Its sole
// side effect is one targeted update of the placeholder it was given.
func (s *ConversationService) generateReply(messageID, threadID uint, prompt string) {
	defer s.inflight.Done()

	// Detached on purpose: cancelling the HTTP request must not cancel
	// the generation. The provider bounds the call with its own timeout.
	ctx := context.Background()

	var text string
	var err error
	if strings.TrimSpace(prompt) == "" {
		// Attachment-only submission; the provider takes text prompts.
		text = noResponseText
	} else {
		text, err = s.generator.GetCompletion(ctx, prompt)
	}
	if err != nil {
		s.logger.Warn("reply generation failed",
			"threadID", threadID,
			"assistantMessageID", messageID,
			"error", err,
		)
		text = failureNotice(err)
	} else if strings.TrimSpace(text) == "" {
		text = noResponseText
	}

	if err := s.messageRepo.Resolve(ctx, messageID, text); err != nil {
		// The placeholder stays pending; re-submission is the recovery
		// path. Not data corruption.
		s.logger.Error("could not resolve placeholder",
			"threadID", threadID,
			"assistantMessageID", messageID,
			"error", err,
		)
		return
	}

	s.logger.Info("placeholder resolved",
		"threadID", threadID,
		"assistantMessageID", messageID,
	)
}

// ListMessages returns the full ordered message list for a thread, with
// assistant messages carrying rendered HTML. It is the read side of the
// polling protocol and is safe to call concurrently with resolutions.
func (s *ConversationService) ListMessages(ctx context.Context, threadID uint) ([]MessageView, error) {
	exists, err := s.threadRepo.ExistsByID(ctx, threadID)
	if err != nil {
		return nil, NewStorageError("list_messages", "could not verify thread", err)
	}
	if !exists {
		return nil, NewNotFoundError("list_messages", threadID)
	}

	messages, err := s.messageRepo.FindByThreadID(ctx, threadID)
	if err != nil {
		return nil, NewStorageError("list_messages", "could not fetch messages", err)
	}

	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		view := MessageView{Message: m}
		if m.Role == domain.RoleAssistant && !m.Pending {
			view.HTML = s.renderer.Render(m.Text)
		}
		views = append(views, view)
	}
	return views, nil
}

// WaitIdle blocks until every dispatched generation has completed.
func (s *ConversationService) WaitIdle() {
	s.inflight.Wait()
}

// failureNotice converts a generation failure into the terminal,
// user-visible text of the assistant message.
func failureNotice(err error) string {
	return "The assistant could not reply: " + ai.Reason(err) + ". Please try again later."
}
