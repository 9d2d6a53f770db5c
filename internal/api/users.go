package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"personachat/internal/core"
	"personachat/internal/store"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := h.users.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.serverError(w, err, "Failed to register user")
		return
	}

	// No token here: registration leaves the user in a registered,
	// unauthenticated state and login is a separate step.
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Registration successful! Please login with your credentials.",
		"user": map[string]string{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, user, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		h.serverError(w, err, "Failed to log in user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *APIHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetProfile(requestUserID(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.serverError(w, err, "Failed to fetch profile")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type UpdateProfileRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	ProfilePicture *string `json:"profilePicture"`
}

func (h *APIHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.UpdateProfile(requestUserID(r), req.Name, req.Email, req.ProfilePicture)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, store.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "Email already in use")
		default:
			h.serverError(w, err, "Failed to update profile")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (h *APIHandler) GetPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetProfile(requestUserID(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.serverError(w, err, "Failed to fetch preferences")
		return
	}
	writeJSON(w, http.StatusOK, user.Preferences)
}

func (h *APIHandler) UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	var patch core.PreferencesPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	prefs, err := h.users.UpdatePreferences(requestUserID(r), patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, core.ErrUnknownMode):
			writeError(w, http.StatusBadRequest, "Unknown mode")
		default:
			h.serverError(w, err, "Failed to update preferences")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Preferences updated",
		"preferences": prefs,
	})
}

func (h *APIHandler) GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetProfile(requestUserID(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.serverError(w, err, "Failed to fetch stats")
		return
	}
	writeJSON(w, http.StatusOK, user.Stats)
}
