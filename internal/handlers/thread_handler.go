// File: internal/handlers/thread_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/Nattapat2550/chat/internal/services"
)

type ThreadHandler struct {
	ThreadService *services.ThreadService
}

func NewThreadHandler(ts *services.ThreadService) *ThreadHandler {
	return &ThreadHandler{ThreadService: ts}
}

// ListThreads returns every thread, most recently active first.
func (h *ThreadHandler) ListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.ThreadService.ListThreads(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, threads)
}

// CreateThread creates a thread, defaulting the name when omitted.
func (h *ThreadHandler) CreateThread(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	// An empty body is fine; the default name applies.
	_ = json.NewDecoder(r.Body).Decode(&req)

	created, err := h.ThreadService.CreateThread(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// RenameThread updates a thread's display name.
func (h *ThreadHandler) RenameThread(w http.ResponseWriter, r *http.Request) {
	threadID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	renamed, err := h.ThreadService.RenameThread(r.Context(), threadID, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renamed)
}

// DeleteThread removes a thread with its messages and attachments.
func (h *ThreadHandler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	threadID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.ThreadService.DeleteThread(r.Context(), threadID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// pathID extracts the {id} path variable.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil || id == 0 {
		writeError(w, "Invalid thread ID", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}
