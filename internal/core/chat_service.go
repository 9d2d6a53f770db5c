package core

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"personachat/internal/modes"
	"personachat/internal/store"
)

// ChatService orchestrates a chat turn: append the user message, compose
// the prompt, call the model gateway, append the assistant message,
// persist.
type ChatService struct {
	store *store.SQLiteStore
	llm   *LLMService
	log   *logrus.Logger
}

func NewChatService(db *store.SQLiteStore, llm *LLMService, log *logrus.Logger) *ChatService {
	return &ChatService{store: db, llm: llm, log: log}
}

// StartChat creates a chat from the first user message. The assistant
// reply and the title are computed before anything is written, then the
// chat persists as one transaction, so no partial chat can be left
// behind.
func (s *ChatService) StartChat(ctx context.Context, userID, modeName, text string, file *FileData) (*store.Chat, []store.Message, error) {
	mode, err := s.store.GetMode(modeName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrUnknownMode
		}
		return nil, nil, err
	}

	prompt := ComposePrompt(mode.SystemPrompt, nil, text, file)
	reply := s.llm.Generate(ctx, prompt, text)
	title := s.llm.GenerateTitle(ctx, text)

	now := time.Now()
	userMsg := store.Message{
		Role:        store.RoleUser,
		Content:     text,
		Attachments: file.Meta(),
		Timestamp:   now,
	}
	assistantMsg := store.Message{
		Role:      store.RoleAssistant,
		Content:   reply,
		Timestamp: now.Add(time.Millisecond),
	}

	chat := &store.Chat{
		UserID: userID,
		Mode:   modeName,
		Title:  title,
	}
	messages, err := s.store.CreateChat(chat, []store.Message{userMsg, assistantMsg})
	if err != nil {
		return nil, nil, err
	}

	s.log.WithFields(logrus.Fields{"chat_id": chat.ID, "mode": modeName}).Info("Chat created")
	return chat, messages, nil
}

// ContinueChat appends one turn to an existing chat. The prompt is
// composed from the last stored messages; the new text travels as the
// explicit user message, not as part of the history. Returns exactly the
// two new messages.
func (s *ChatService) ContinueChat(ctx context.Context, userID, chatID, text string, file *FileData) ([]store.Message, error) {
	chat, err := s.store.GetChat(userID, chatID)
	if err != nil {
		return nil, err
	}

	systemPrompt := modes.DefaultSystemPrompt
	if mode, err := s.store.GetMode(chat.Mode); err == nil {
		systemPrompt = mode.SystemPrompt
	} else {
		s.log.WithField("mode", chat.Mode).Warn("Chat references unknown mode, using default prompt")
	}

	history, err := s.store.GetLastMessages(chatID, historyLimit)
	if err != nil {
		return nil, err
	}

	prompt := ComposePrompt(systemPrompt, history, text, file)
	reply := s.llm.Generate(ctx, prompt, text)

	userMsg := store.Message{
		Role:        store.RoleUser,
		Content:     text,
		Attachments: file.Meta(),
	}
	assistantMsg := store.Message{
		Role:    store.RoleAssistant,
		Content: reply,
	}
	if err := s.store.AppendTurn(userID, chatID, &userMsg, &assistantMsg); err != nil {
		return nil, err
	}

	return []store.Message{userMsg, assistantMsg}, nil
}

// ListChats returns metadata-only chat rows matching the filter.
func (s *ChatService) ListChats(userID string, filter store.ChatFilter) ([]store.Chat, error) {
	return s.store.ListChats(userID, filter)
}

// GetChat returns the chat with all its messages.
func (s *ChatService) GetChat(userID, chatID string) (*store.Chat, []store.Message, error) {
	chat, err := s.store.GetChat(userID, chatID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.store.GetMessages(chatID)
	if err != nil {
		return nil, nil, err
	}
	return chat, messages, nil
}

func (s *ChatService) UpdateChat(userID, chatID string, title *string, isPinned *bool) (*store.Chat, error) {
	return s.store.UpdateChat(userID, chatID, title, isPinned)
}

func (s *ChatService) DeleteChat(userID, chatID string) error {
	return s.store.DeleteChat(userID, chatID)
}

func (s *ChatService) DeleteAllChats(userID string) (int64, error) {
	return s.store.DeleteAllChats(userID)
}

func (s *ChatService) ListModes() ([]store.Mode, error) {
	return s.store.ListModes()
}

func (s *ChatService) GetMode(name string) (*store.Mode, error) {
	return s.store.GetMode(name)
}
