package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY, -- UUID
        name TEXT NOT NULL,
        email TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        profile_picture TEXT NOT NULL DEFAULT '',
        preferences_json TEXT NOT NULL,
        stats_json TEXT NOT NULL,
        integrations_json TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS chats (
        id TEXT PRIMARY KEY, -- UUID
        user_id TEXT NOT NULL,
        mode TEXT NOT NULL,
        title TEXT NOT NULL DEFAULT '',
        is_pinned BOOLEAN NOT NULL DEFAULT FALSE,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS messages (
        id TEXT PRIMARY KEY, -- UUID
        chat_id TEXT NOT NULL,
        role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
        content TEXT NOT NULL,
        attachments_json TEXT NOT NULL DEFAULT '[]',
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (chat_id) REFERENCES chats (id)
    );

    CREATE TABLE IF NOT EXISTS modes (
        name TEXT PRIMARY KEY,
        display_name TEXT NOT NULL,
        icon TEXT NOT NULL,
        description TEXT NOT NULL,
        system_prompt TEXT NOT NULL,
        greeting TEXT NOT NULL,
        themes_json TEXT NOT NULL,
        position INTEGER NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_chats_user ON chats (user_id, is_pinned, updated_at);
    CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages (chat_id, timestamp);
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods

func (s *SQLiteStore) CreateUser(user *User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()

	prefs, err := json.Marshal(user.Preferences)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	stats, err := json.Marshal(user.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	integrations, err := json.Marshal(user.Integrations)
	if err != nil {
		return fmt.Errorf("failed to marshal integrations: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO users (id, name, email, password_hash, profile_picture, preferences_json, stats_json, integrations_json, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.ProfilePicture,
		string(prefs), string(stats), string(integrations), user.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetUserByEmail(email string) (*User, error) {
	return s.queryUser("SELECT id, name, email, password_hash, profile_picture, preferences_json, stats_json, integrations_json, created_at FROM users WHERE email = ?", email)
}

func (s *SQLiteStore) GetUserByID(id string) (*User, error) {
	return s.queryUser("SELECT id, name, email, password_hash, profile_picture, preferences_json, stats_json, integrations_json, created_at FROM users WHERE id = ?", id)
}

func (s *SQLiteStore) queryUser(query string, arg interface{}) (*User, error) {
	var user User
	var prefs, stats, integrations string
	err := s.db.QueryRow(query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.ProfilePicture,
		&prefs, &stats, &integrations, &user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if err := json.Unmarshal([]byte(prefs), &user.Preferences); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	if err := json.Unmarshal([]byte(stats), &user.Stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	if err := json.Unmarshal([]byte(integrations), &user.Integrations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal integrations: %w", err)
	}
	return &user, nil
}

// UpdateUser persists the mutable user fields. Callers load the user,
// mutate the copy, and hand it back.
func (s *SQLiteStore) UpdateUser(user *User) error {
	prefs, err := json.Marshal(user.Preferences)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	stats, err := json.Marshal(user.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	integrations, err := json.Marshal(user.Integrations)
	if err != nil {
		return fmt.Errorf("failed to marshal integrations: %w", err)
	}

	res, err := s.db.Exec(
		`UPDATE users SET name = ?, email = ?, profile_picture = ?, preferences_json = ?, stats_json = ?, integrations_json = ? WHERE id = ?`,
		user.Name, user.Email, user.ProfilePicture, string(prefs), string(stats), string(integrations), user.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Chat methods

// CreateChat persists a new chat together with its initial messages and
// the owner's totalChats increment in a single transaction, so a failure
// never leaves a partial chat behind.
func (s *SQLiteStore) CreateChat(chat *Chat, messages []Message) ([]Message, error) {
	chat.ID = uuid.NewString()
	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO chats (id, user_id, mode, title, is_pinned, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		chat.ID, chat.UserID, chat.Mode, chat.Title, chat.IsPinned, chat.CreatedAt, chat.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert chat: %w", err)
	}

	inserted := make([]Message, 0, len(messages))
	for _, msg := range messages {
		msg.ChatID = chat.ID
		if err := insertMessage(tx, &msg); err != nil {
			return nil, err
		}
		inserted = append(inserted, msg)
	}

	if err := bumpTotalChats(tx, chat.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit chat creation: %w", err)
	}
	return inserted, nil
}

func insertMessage(tx *sql.Tx, msg *Message) error {
	msg.ID = uuid.NewString()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	attachments := "[]"
	if len(msg.Attachments) > 0 {
		b, err := json.Marshal(msg.Attachments)
		if err != nil {
			return fmt.Errorf("failed to marshal attachments: %w", err)
		}
		attachments = string(b)
	}
	_, err := tx.Exec(
		`INSERT INTO messages (id, chat_id, role, content, attachments_json, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ChatID, msg.Role, msg.Content, attachments, msg.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func bumpTotalChats(tx *sql.Tx, userID string) error {
	var statsJSON string
	if err := tx.QueryRow("SELECT stats_json FROM users WHERE id = ?", userID).Scan(&statsJSON); err != nil {
		return fmt.Errorf("failed to load user stats: %w", err)
	}
	var stats Stats
	if err := json.Unmarshal([]byte(statsJSON), &stats); err != nil {
		return fmt.Errorf("failed to unmarshal user stats: %w", err)
	}
	stats.TotalChats++
	updated, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal user stats: %w", err)
	}
	if _, err := tx.Exec("UPDATE users SET stats_json = ? WHERE id = ?", string(updated), userID); err != nil {
		return fmt.Errorf("failed to update user stats: %w", err)
	}
	return nil
}

// ListChats returns metadata-only rows (no message bodies), pinned chats
// first, then most recently updated.
func (s *SQLiteStore) ListChats(userID string, filter ChatFilter) ([]Chat, error) {
	query := "SELECT id, user_id, mode, title, is_pinned, created_at, updated_at FROM chats WHERE user_id = ?"
	args := []interface{}{userID}

	if filter.Mode != "" {
		query += " AND mode = ?"
		args = append(args, filter.Mode)
	}
	if filter.StartDate != nil {
		query += " AND created_at >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND created_at <= ?"
		args = append(args, *filter.EndDate)
	}
	if filter.Keyword != "" {
		query += " AND LOWER(title) LIKE ?"
		args = append(args, "%"+strings.ToLower(filter.Keyword)+"%")
	}
	query += " ORDER BY is_pinned DESC, updated_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var chat Chat
		if err := rows.Scan(&chat.ID, &chat.UserID, &chat.Mode, &chat.Title, &chat.IsPinned, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

// GetChat scopes the lookup by owner, so a foreign chat is
// indistinguishable from a missing one.
func (s *SQLiteStore) GetChat(userID, chatID string) (*Chat, error) {
	var chat Chat
	err := s.db.QueryRow(
		"SELECT id, user_id, mode, title, is_pinned, created_at, updated_at FROM chats WHERE id = ? AND user_id = ?",
		chatID, userID,
	).Scan(&chat.ID, &chat.UserID, &chat.Mode, &chat.Title, &chat.IsPinned, &chat.CreatedAt, &chat.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return &chat, nil
}

func (s *SQLiteStore) GetMessages(chatID string) ([]Message, error) {
	rows, err := s.db.Query(
		"SELECT id, chat_id, role, content, attachments_json, timestamp FROM messages WHERE chat_id = ? ORDER BY timestamp ASC, id ASC",
		chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		var attachments string
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.Role, &msg.Content, &attachments, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		if attachments != "" && attachments != "[]" {
			if err := json.Unmarshal([]byte(attachments), &msg.Attachments); err != nil {
				return nil, fmt.Errorf("failed to unmarshal attachments: %w", err)
			}
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// GetLastMessages returns up to n most recent messages in chronological
// order, for prompt-history composition.
func (s *SQLiteStore) GetLastMessages(chatID string, n int) ([]Message, error) {
	rows, err := s.db.Query(
		`SELECT id, chat_id, role, content, attachments_json, timestamp FROM
           (SELECT * FROM messages WHERE chat_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?)
         ORDER BY timestamp ASC, id ASC`,
		chatID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		var attachments string
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.Role, &msg.Content, &attachments, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		if attachments != "" && attachments != "[]" {
			if err := json.Unmarshal([]byte(attachments), &msg.Attachments); err != nil {
				return nil, fmt.Errorf("failed to unmarshal attachments: %w", err)
			}
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// AppendTurn stores one user/assistant message pair and bumps the chat's
// updated_at in a single transaction.
func (s *SQLiteStore) AppendTurn(userID, chatID string, userMsg, assistantMsg *Message) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.Exec("UPDATE chats SET updated_at = ? WHERE id = ? AND user_id = ?", now, chatID, userID)
	if err != nil {
		return fmt.Errorf("failed to touch chat: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}

	userMsg.ChatID = chatID
	assistantMsg.ChatID = chatID
	if err := insertMessage(tx, userMsg); err != nil {
		return err
	}
	// Force distinct timestamps so chronological ordering is stable.
	assistantMsg.Timestamp = userMsg.Timestamp.Add(time.Millisecond)
	if err := insertMessage(tx, assistantMsg); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit turn: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateChat(userID, chatID string, title *string, isPinned *bool) (*Chat, error) {
	chat, err := s.GetChat(userID, chatID)
	if err != nil {
		return nil, err
	}
	if title != nil {
		chat.Title = *title
	}
	if isPinned != nil {
		chat.IsPinned = *isPinned
	}
	chat.UpdatedAt = time.Now()

	_, err = s.db.Exec(
		"UPDATE chats SET title = ?, is_pinned = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		chat.Title, chat.IsPinned, chat.UpdatedAt, chatID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update chat: %w", err)
	}
	return chat, nil
}

func (s *SQLiteStore) DeleteChat(userID, chatID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM chats WHERE id = ? AND user_id = ?", chatID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec("DELETE FROM messages WHERE chat_id = ?", chatID); err != nil {
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}
	return tx.Commit()
}

// DeleteAllChats removes every chat the user owns in one transaction, so
// a failure cannot leave a partially deleted history.
func (s *SQLiteStore) DeleteAllChats(userID string) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE chat_id IN (SELECT id FROM chats WHERE user_id = ?)", userID); err != nil {
		return 0, fmt.Errorf("failed to delete messages: %w", err)
	}
	res, err := tx.Exec("DELETE FROM chats WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete chats: %w", err)
	}
	deleted, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit bulk delete: %w", err)
	}
	return deleted, nil
}

// Mode methods

// ReplaceAllModes swaps the persona catalog wholesale. Idempotent; run
// from the -seed flag or on first boot against an empty table.
func (s *SQLiteStore) ReplaceAllModes(modes []Mode) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM modes"); err != nil {
		return fmt.Errorf("failed to clear modes: %w", err)
	}
	for i, mode := range modes {
		themes, err := json.Marshal(mode.Themes)
		if err != nil {
			return fmt.Errorf("failed to marshal themes for mode %s: %w", mode.Name, err)
		}
		_, err = tx.Exec(
			`INSERT INTO modes (name, display_name, icon, description, system_prompt, greeting, themes_json, position) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			mode.Name, mode.DisplayName, mode.Icon, mode.Description, mode.SystemPrompt, mode.Greeting, string(themes), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert mode %s: %w", mode.Name, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListModes() ([]Mode, error) {
	rows, err := s.db.Query("SELECT name, display_name, icon, description, system_prompt, greeting, themes_json FROM modes ORDER BY position ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query modes: %w", err)
	}
	defer rows.Close()

	var modes []Mode
	for rows.Next() {
		var mode Mode
		var themes string
		if err := rows.Scan(&mode.Name, &mode.DisplayName, &mode.Icon, &mode.Description, &mode.SystemPrompt, &mode.Greeting, &themes); err != nil {
			return nil, fmt.Errorf("failed to scan mode row: %w", err)
		}
		if err := json.Unmarshal([]byte(themes), &mode.Themes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal themes for mode %s: %w", mode.Name, err)
		}
		modes = append(modes, mode)
	}
	return modes, rows.Err()
}

func (s *SQLiteStore) GetMode(name string) (*Mode, error) {
	var mode Mode
	var themes string
	err := s.db.QueryRow(
		"SELECT name, display_name, icon, description, system_prompt, greeting, themes_json FROM modes WHERE name = ?",
		name,
	).Scan(&mode.Name, &mode.DisplayName, &mode.Icon, &mode.Description, &mode.SystemPrompt, &mode.Greeting, &themes)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get mode: %w", err)
	}
	if err := json.Unmarshal([]byte(themes), &mode.Themes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal themes for mode %s: %w", mode.Name, err)
	}
	return &mode, nil
}

func (s *SQLiteStore) CountModes() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM modes").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count modes: %w", err)
	}
	return count, nil
}
