package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"personachat/internal/config"
	"personachat/internal/core"
	"personachat/internal/store"
)

// ChatResponse is a full chat document: metadata plus messages.
type ChatResponse struct {
	*store.Chat
	Messages []store.Message `json:"messages"`
}

// uploadFromRequest parses the multipart form and reads the optional
// attachment fully into memory. The transient form file is consumed
// once; only metadata outlives this request. Returns ok=false after
// writing an error response.
func (h *APIHandler) uploadFromRequest(w http.ResponseWriter, r *http.Request) (*core.FileData, bool) {
	maxBytes := config.AppConfig.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+512*1024) // form overhead headroom

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or oversized form data")
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		writeError(w, http.StatusBadRequest, "Error processing file")
		return nil, false
	}
	defer file.Close()

	if header.Size > maxBytes {
		writeError(w, http.StatusBadRequest, "File exceeds the upload size limit")
		return nil, false
	}

	mimeType := header.Header.Get("Content-Type")
	if !core.AllowedFileType(header.Filename, mimeType) {
		writeError(w, http.StatusBadRequest, "Invalid file type. Only text-based files and images are allowed.")
		return nil, false
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Error processing file")
		return nil, false
	}

	return &core.FileData{
		Filename: header.Filename,
		MimeType: mimeType,
		Size:     header.Size,
		Content:  content,
	}, true
}

func (h *APIHandler) CreateChatHandler(w http.ResponseWriter, r *http.Request) {
	file, ok := h.uploadFromRequest(w, r)
	if !ok {
		return
	}

	mode := r.FormValue("mode")
	message := r.FormValue("message")
	if mode == "" || message == "" {
		writeError(w, http.StatusBadRequest, "Mode and message are required")
		return
	}

	chat, messages, err := h.chats.StartChat(r.Context(), requestUserID(r), mode, message, file)
	if err != nil {
		if errors.Is(err, core.ErrUnknownMode) {
			writeError(w, http.StatusBadRequest, "Unknown mode")
			return
		}
		h.serverError(w, err, "Failed to create chat")
		return
	}

	writeJSON(w, http.StatusCreated, ChatResponse{Chat: chat, Messages: messages})
}

func (h *APIHandler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	filter := store.ChatFilter{
		Mode:    r.URL.Query().Get("mode"),
		Keyword: r.URL.Query().Get("keyword"),
	}

	if v := r.URL.Query().Get("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid startDate")
			return
		}
		filter.StartDate = &t
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid endDate")
			return
		}
		filter.EndDate = &t
	}

	chats, err := h.chats.ListChats(requestUserID(r), filter)
	if err != nil {
		h.serverError(w, err, "Failed to list chats")
		return
	}
	if chats == nil {
		chats = []store.Chat{}
	}
	writeJSON(w, http.StatusOK, chats)
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (h *APIHandler) GetChatHandler(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	chat, messages, err := h.chats.GetChat(requestUserID(r), chatID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found")
			return
		}
		h.serverError(w, err, "Failed to get chat")
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Chat: chat, Messages: messages})
}

func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	file, ok := h.uploadFromRequest(w, r)
	if !ok {
		return
	}

	message := r.FormValue("message")
	if message == "" {
		writeError(w, http.StatusBadRequest, "Message content cannot be empty")
		return
	}

	chatID := chi.URLParam(r, "chatID")
	messages, err := h.chats.ContinueChat(r.Context(), requestUserID(r), chatID, message, file)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found")
			return
		}
		h.serverError(w, err, "Failed to post message")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chatId":   chatID,
		"messages": messages,
	})
}

type UpdateChatRequest struct {
	Title    *string `json:"title"`
	IsPinned *bool   `json:"isPinned"`
}

func (h *APIHandler) UpdateChatHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	chat, err := h.chats.UpdateChat(requestUserID(r), chi.URLParam(r, "chatID"), req.Title, req.IsPinned)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found")
			return
		}
		h.serverError(w, err, "Failed to update chat")
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

func (h *APIHandler) DeleteChatHandler(w http.ResponseWriter, r *http.Request) {
	err := h.chats.DeleteChat(requestUserID(r), chi.URLParam(r, "chatID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found")
			return
		}
		h.serverError(w, err, "Failed to delete chat")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat deleted successfully"})
}

func (h *APIHandler) DeleteAllChatsHandler(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.chats.DeleteAllChats(requestUserID(r))
	if err != nil {
		h.serverError(w, err, "Failed to delete chats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "All chats deleted",
		"deleted": deleted,
	})
}
