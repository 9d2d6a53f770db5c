package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personachat/internal/store"
)

func newChatEnv(t *testing.T) (*ChatService, *store.SQLiteStore, *store.User) {
	t.Helper()
	s, log := newTestEnv(t)

	users := NewUserService(s, log)
	user, err := users.Register("Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	llm := newUnconfiguredLLM(t)
	return NewChatService(s, llm, log), s, user
}

func TestStartChat(t *testing.T) {
	svc, s, user := newChatEnv(t)
	ctx := context.Background()

	chat, messages, err := svc.StartChat(ctx, user.ID, "developer", "Explain recursion", nil)
	require.NoError(t, err)

	// Exactly two messages, user then assistant, and a non-empty title.
	require.Len(t, messages, 2)
	assert.Equal(t, store.RoleUser, messages[0].Role)
	assert.Equal(t, "Explain recursion", messages[0].Content)
	assert.Equal(t, store.RoleAssistant, messages[1].Role)
	assert.NotEmpty(t, chat.Title)
	assert.LessOrEqual(t, len(chat.Title), 50)
	assert.Equal(t, "developer", chat.Mode)

	stored, err := s.GetMessages(chat.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	// The gateway is unconfigured, so the assistant turn is the
	// placeholder embedding the user's text.
	assert.Contains(t, messages[1].Content, "Explain recursion")

	got, err := s.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stats.TotalChats)
}

func TestStartChat_UnknownMode(t *testing.T) {
	svc, s, user := newChatEnv(t)

	_, _, err := svc.StartChat(context.Background(), user.ID, "pirate", "Arr", nil)
	require.ErrorIs(t, err, ErrUnknownMode)

	// No partial chat was written.
	chats, err := s.ListChats(user.ID, store.ChatFilter{})
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestStartChat_AttachmentMetadataPersisted(t *testing.T) {
	svc, s, user := newChatEnv(t)

	file := &FileData{Filename: "main.go", MimeType: "text/plain", Size: 12, Content: []byte("package main")}
	chat, _, err := svc.StartChat(context.Background(), user.ID, "developer", "Review this", file)
	require.NoError(t, err)

	stored, err := s.GetMessages(chat.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	require.Len(t, stored[0].Attachments, 1)
	assert.Equal(t, "main.go", stored[0].Attachments[0].Filename)
	assert.Equal(t, "text/plain", stored[0].Attachments[0].MimeType)
	assert.EqualValues(t, 12, stored[0].Attachments[0].Size)
	// Content itself is never persisted, only metadata.
	assert.NotContains(t, stored[0].Content, "package main")
}

func TestContinueChat(t *testing.T) {
	svc, s, user := newChatEnv(t)
	ctx := context.Background()

	chat, _, err := svc.StartChat(ctx, user.ID, "developer", "Explain recursion", nil)
	require.NoError(t, err)

	messages, err := svc.ContinueChat(ctx, user.ID, chat.ID, "Give an example", nil)
	require.NoError(t, err)

	// Exactly the two new messages come back.
	require.Len(t, messages, 2)
	assert.Equal(t, store.RoleUser, messages[0].Role)
	assert.Equal(t, "Give an example", messages[0].Content)
	assert.Equal(t, store.RoleAssistant, messages[1].Role)

	// Stored count grew by exactly two.
	stored, err := s.GetMessages(chat.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 4)
}

func TestContinueChat_NotFoundAndNotOwned(t *testing.T) {
	svc, s, user := newChatEnv(t)
	ctx := context.Background()

	_, err := svc.ContinueChat(ctx, user.ID, "missing-chat", "hello", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)

	chat, _, err := svc.StartChat(ctx, user.ID, "developer", "hi", nil)
	require.NoError(t, err)

	stranger := &store.User{Name: "Bob", Email: "bob@x.com", PasswordHash: "h"}
	require.NoError(t, s.CreateUser(stranger))

	_, err = svc.ContinueChat(ctx, stranger.ID, chat.ID, "let me in", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
