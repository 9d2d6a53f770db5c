package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"personachat/internal/auth"
	"personachat/internal/core"
	"personachat/internal/store"
)

type ctxKey int

const userIDKey ctxKey = 0

type APIHandler struct {
	users *core.UserService
	chats *core.ChatService
	log   *logrus.Logger
}

func NewAPIHandler(users *core.UserService, chats *core.ChatService, log *logrus.Logger) *APIHandler {
	return &APIHandler{users: users, chats: chats, log: log}
}

// JWTAuthMiddleware resolves the bearer credential to a user id and
// rejects the request before it reaches any operation.
func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := auth.ValidateJWT(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		// The token may outlive the account; re-check identity.
		if _, err := h.users.GetProfile(userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "User not found")
				return
			}
			h.serverError(w, err, "Failed to resolve user identity")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestUserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// serverError hides the failure detail from the client and logs it
// server-side.
func (h *APIHandler) serverError(w http.ResponseWriter, err error, msg string) {
	h.log.WithError(err).Error(msg)
	writeError(w, http.StatusInternalServerError, "Server error")
}
