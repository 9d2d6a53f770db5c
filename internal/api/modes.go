package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"personachat/internal/store"
)

func (h *APIHandler) ListModesHandler(w http.ResponseWriter, r *http.Request) {
	modes, err := h.chats.ListModes()
	if err != nil {
		h.serverError(w, err, "Failed to list modes")
		return
	}
	writeJSON(w, http.StatusOK, modes)
}

func (h *APIHandler) GetModeHandler(w http.ResponseWriter, r *http.Request) {
	mode, err := h.chats.GetMode(chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Mode not found")
			return
		}
		h.serverError(w, err, "Failed to get mode")
		return
	}
	writeJSON(w, http.StatusOK, mode)
}
