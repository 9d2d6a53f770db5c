package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestUser(t *testing.T, s *SQLiteStore, email string) *User {
	t.Helper()
	user := &User{
		Name:         "Ana",
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Preferences: Preferences{
			DefaultMode: "developer",
			Themes:      map[string]string{"developer": "neural-blue", "learner": "aurora-teal"},
			DarkMode:    true,
		},
		Stats: Stats{FavoriteMode: "developer", LastActive: time.Now()},
	}
	require.NoError(t, s.CreateUser(user))
	return user
}

func twoMessages(content string) []Message {
	now := time.Now()
	return []Message{
		{Role: RoleUser, Content: content, Timestamp: now},
		{Role: RoleAssistant, Content: "reply to: " + content, Timestamp: now.Add(time.Millisecond)},
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	newTestUser(t, s, "ana@x.com")

	dup := &User{Name: "Other", Email: "ana@x.com", PasswordHash: "h"}
	err := s.CreateUser(dup)
	require.ErrorIs(t, err, ErrEmailTaken)

	// The original record is untouched.
	got, err := s.GetUserByEmail("ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
}

func TestUserRoundTrip(t *testing.T) {
	s := newTestStore(t)
	user := newTestUser(t, s, "ana@x.com")

	got, err := s.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "developer", got.Preferences.DefaultMode)
	assert.Equal(t, "neural-blue", got.Preferences.Themes["developer"])
	assert.True(t, got.Preferences.DarkMode)
	assert.Equal(t, 0, got.Stats.TotalChats)

	_, err = s.GetUserByID("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateChat_PersistsMessagesAndBumpsStats(t *testing.T) {
	s := newTestStore(t)
	user := newTestUser(t, s, "ana@x.com")

	chat := &Chat{UserID: user.ID, Mode: "developer", Title: "Recursion basics"}
	inserted, err := s.CreateChat(chat, twoMessages("Explain recursion"))
	require.NoError(t, err)
	require.Len(t, inserted, 2)
	assert.NotEmpty(t, chat.ID)
	assert.NotEmpty(t, inserted[0].ID)
	assert.Equal(t, chat.ID, inserted[0].ChatID)

	messages, err := s.GetMessages(chat.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, RoleUser, messages[0].Role)
	assert.Equal(t, RoleAssistant, messages[1].Role)

	got, err := s.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stats.TotalChats)
}

func TestListChats_FiltersAndOrdering(t *testing.T) {
	s := newTestStore(t)
	user := newTestUser(t, s, "ana@x.com")

	mkChat := func(mode, title string) *Chat {
		chat := &Chat{UserID: user.ID, Mode: mode, Title: title}
		_, err := s.CreateChat(chat, twoMessages(title))
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond) // distinct updated_at
		return chat
	}

	devBug := mkChat("developer", "Fix BUG in parser")
	mkChat("developer", "Refactor config")
	learnerBug := mkChat("learner", "debugging lesson")

	// Mode AND keyword combine.
	chats, err := s.ListChats(user.ID, ChatFilter{Mode: "developer", Keyword: "bug"})
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, devBug.ID, chats[0].ID)

	// Keyword is a case-insensitive substring match.
	chats, err = s.ListChats(user.ID, ChatFilter{Keyword: "BUG"})
	require.NoError(t, err)
	assert.Len(t, chats, 2)

	// Pinned chats come first, then most recently updated.
	pinned := true
	_, err = s.UpdateChat(user.ID, devBug.ID, nil, &pinned)
	require.NoError(t, err)

	chats, err = s.ListChats(user.ID, ChatFilter{})
	require.NoError(t, err)
	require.Len(t, chats, 3)
	assert.Equal(t, devBug.ID, chats[0].ID)
	assert.Equal(t, learnerBug.ID, chats[1].ID)

	// Date range.
	yesterday := time.Now().Add(-24 * time.Hour)
	chats, err = s.ListChats(user.ID, ChatFilter{StartDate: &yesterday})
	require.NoError(t, err)
	assert.Len(t, chats, 3)

	chats, err = s.ListChats(user.ID, ChatFilter{EndDate: &yesterday})
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestGetChat_OwnershipScoped(t *testing.T) {
	s := newTestStore(t)
	owner := newTestUser(t, s, "owner@x.com")
	stranger := newTestUser(t, s, "stranger@x.com")

	chat := &Chat{UserID: owner.ID, Mode: "developer", Title: "private"}
	_, err := s.CreateChat(chat, twoMessages("hello"))
	require.NoError(t, err)

	_, err = s.GetChat(owner.ID, chat.ID)
	require.NoError(t, err)

	// A foreign chat looks exactly like a missing one.
	_, err = s.GetChat(stranger.ID, chat.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendTurn(t *testing.T) {
	s := newTestStore(t)
	user := newTestUser(t, s, "ana@x.com")

	chat := &Chat{UserID: user.ID, Mode: "developer", Title: "t"}
	_, err := s.CreateChat(chat, twoMessages("first"))
	require.NoError(t, err)

	userMsg := Message{Role: RoleUser, Content: "Give an example"}
	assistantMsg := Message{Role: RoleAssistant, Content: "Here is one."}
	require.NoError(t, s.AppendTurn(user.ID, chat.ID, &userMsg, &assistantMsg))

	messages, err := s.GetMessages(chat.ID)
	require.NoError(t, err)
	require.Len(t, messages, 4)
	assert.Equal(t, "Give an example", messages[2].Content)
	assert.Equal(t, RoleAssistant, messages[3].Role)

	// Ownership-scoped like everything else.
	err = s.AppendTurn("someone-else", chat.ID, &Message{Role: RoleUser, Content: "x"}, &Message{Role: RoleAssistant, Content: "y"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetLastMessages(t *testing.T) {
	s := newTestStore(t)
	user := newTestUser(t, s, "ana@x.com")

	chat := &Chat{UserID: user.ID, Mode: "developer", Title: "t"}
	_, err := s.CreateChat(chat, twoMessages("turn-0"))
	require.NoError(t, err)
	for i := 1; i < 8; i++ {
		u := Message{Role: RoleUser, Content: "question"}
		a := Message{Role: RoleAssistant, Content: "answer"}
		require.NoError(t, s.AppendTurn(user.ID, chat.ID, &u, &a))
	}

	messages, err := s.GetLastMessages(chat.ID, 10)
	require.NoError(t, err)
	require.Len(t, messages, 10)
	// Chronological order, newest block of the conversation.
	assert.Equal(t, RoleAssistant, messages[len(messages)-1].Role)
}

func TestUpdateChat_PartialUpdate(t *testing.T) {
	s := newTestStore(t)
	user := newTestUser(t, s, "ana@x.com")

	chat := &Chat{UserID: user.ID, Mode: "developer", Title: "old title"}
	_, err := s.CreateChat(chat, twoMessages("hello"))
	require.NoError(t, err)

	pinned := true
	got, err := s.UpdateChat(user.ID, chat.ID, nil, &pinned)
	require.NoError(t, err)
	assert.Equal(t, "old title", got.Title)
	assert.True(t, got.IsPinned)

	title := "new title"
	got, err = s.UpdateChat(user.ID, chat.ID, &title, nil)
	require.NoError(t, err)
	assert.Equal(t, "new title", got.Title)
	assert.True(t, got.IsPinned)
}

func TestDeleteChat(t *testing.T) {
	s := newTestStore(t)
	user := newTestUser(t, s, "ana@x.com")

	chat := &Chat{UserID: user.ID, Mode: "developer", Title: "t"}
	_, err := s.CreateChat(chat, twoMessages("hello"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteChat(user.ID, chat.ID))
	_, err = s.GetChat(user.ID, chat.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	messages, err := s.GetMessages(chat.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	assert.ErrorIs(t, s.DeleteChat(user.ID, chat.ID), ErrNotFound)
}

func TestDeleteAllChats_ScopedToUser(t *testing.T) {
	s := newTestStore(t)
	ana := newTestUser(t, s, "ana@x.com")
	bob := newTestUser(t, s, "bob@x.com")

	for i := 0; i < 3; i++ {
		chat := &Chat{UserID: ana.ID, Mode: "developer", Title: "ana chat"}
		_, err := s.CreateChat(chat, twoMessages("hi"))
		require.NoError(t, err)
	}
	bobChat := &Chat{UserID: bob.ID, Mode: "learner", Title: "bob chat"}
	_, err := s.CreateChat(bobChat, twoMessages("hi"))
	require.NoError(t, err)

	deleted, err := s.DeleteAllChats(ana.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	chats, err := s.ListChats(ana.ID, ChatFilter{})
	require.NoError(t, err)
	assert.Empty(t, chats)

	chats, err = s.ListChats(bob.ID, ChatFilter{})
	require.NoError(t, err)
	assert.Len(t, chats, 1)
}

func TestReplaceAllModes(t *testing.T) {
	s := newTestStore(t)

	catalog := []Mode{
		{Name: "developer", DisplayName: "Developer", Icon: "d", Description: "dev", SystemPrompt: "p1", Greeting: "hi {name}", Themes: []Theme{{Name: "neural-blue", DisplayName: "Neural Blue", Colors: ThemeColors{Primary: "#1E88E5", BackgroundGradient: []string{"#a", "#b", "#c"}}}}},
		{Name: "learner", DisplayName: "Learner", Icon: "l", Description: "learn", SystemPrompt: "p2", Greeting: "yo {name}"},
	}
	require.NoError(t, s.ReplaceAllModes(catalog))

	// Idempotent: a second run replaces wholesale.
	require.NoError(t, s.ReplaceAllModes(catalog))

	count, err := s.CountModes()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	modes, err := s.ListModes()
	require.NoError(t, err)
	require.Len(t, modes, 2)
	assert.Equal(t, "developer", modes[0].Name) // stored order preserved

	mode, err := s.GetMode("developer")
	require.NoError(t, err)
	require.Len(t, mode.Themes, 1)
	assert.Equal(t, []string{"#a", "#b", "#c"}, mode.Themes[0].Colors.BackgroundGradient)

	_, err = s.GetMode("pirate")
	assert.ErrorIs(t, err, ErrNotFound)
}
