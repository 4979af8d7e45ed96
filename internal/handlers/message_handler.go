// File: internal/handlers/message_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/Nattapat2550/chat/internal/services"
)

type MessageHandler struct {
	ConversationService *services.ConversationService
	Attachments         services.AttachmentStore
	maxUploadBytes      int64
}

func NewMessageHandler(cs *services.ConversationService, attachments services.AttachmentStore, maxUploadMB int) *MessageHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &MessageHandler{
		ConversationService: cs,
		Attachments:         attachments,
		maxUploadBytes:      int64(maxUploadMB) * 1024 * 1024,
	}
}

// GetMessages is the read endpoint of the polling protocol: the full
// ordered message list for one thread.
func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	threadID, err := strconv.ParseUint(vars["threadId"], 10, 32)
	if err != nil || threadID == 0 {
		writeError(w, "Invalid thread ID", http.StatusBadRequest)
		return
	}

	messages, err := h.ConversationService.ListMessages(r.Context(), uint(threadID))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// SubmitMessage accepts a submission and acknowledges it immediately;
// the assistant reply arrives later via polling. Accepts multipart form
// data (fields threadId, text, optional file image) or a JSON body
// {threadId, text, attachmentRef}.
func (h *MessageHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	var (
		threadID      uint
		text          string
		attachmentRef string
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			ThreadID      uint   `json:"threadId"`
			Text          string `json:"text"`
			AttachmentRef string `json:"attachmentRef"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, "Bad Request", http.StatusBadRequest)
			return
		}
		threadID, text, attachmentRef = req.ThreadID, req.Text, req.AttachmentRef
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1024*1024)
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			writeError(w, "Upload too large or malformed", http.StatusBadRequest)
			return
		}

		id, err := strconv.ParseUint(r.FormValue("threadId"), 10, 32)
		if err != nil {
			writeError(w, "Invalid thread ID", http.StatusBadRequest)
			return
		}
		threadID = uint(id)
		text = r.FormValue("text")

		file, header, err := r.FormFile("image")
		if err == nil {
			defer file.Close()
			ref, saveErr := h.Attachments.Save(header.Filename, file)
			if saveErr != nil {
				if errors.Is(saveErr, services.ErrAttachmentTooLarge) {
					writeError(w, "Image exceeds the upload size limit", http.StatusBadRequest)
					return
				}
				writeError(w, "Could not store image", http.StatusInternalServerError)
				return
			}
			attachmentRef = ref
		}
	}

	result, err := h.ConversationService.Submit(r.Context(), threadID, text, attachmentRef)
	if err != nil {
		// The pair is all-or-nothing, but a stored blob without a
		// message is an orphan; remove it.
		if attachmentRef != "" && h.Attachments != nil {
			_ = h.Attachments.Delete(attachmentRef)
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"ok":                 true,
		"userMessageId":      result.UserMessageID,
		"assistantMessageId": result.AssistantMessageID,
	})
}

// DeleteImage removes a stored attachment blob, best-effort.
func (h *MessageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImagePath string `json:"imagePath"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImagePath == "" {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}

	if err := h.Attachments.Delete(req.ImagePath); err != nil {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
