package store

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Preferences struct {
	DefaultMode       string            `json:"defaultMode"`
	Themes            map[string]string `json:"themes"`
	DarkMode          bool              `json:"darkMode"`
	AnimationsEnabled bool              `json:"animationsEnabled"`
	XPVisible         bool              `json:"xpVisible"`
}

type Stats struct {
	TotalChats   int       `json:"totalChats"`
	FavoriteMode string    `json:"favoriteMode"`
	LearningXP   int       `json:"learningXP"`
	StreakDays   int       `json:"streakDays"`
	LastActive   time.Time `json:"lastActive"`
}

type GitHubIntegration struct {
	Connected bool   `json:"connected"`
	Username  string `json:"username,omitempty"`
}

type SlackIntegration struct {
	Connected   bool   `json:"connected"`
	WorkspaceID string `json:"workspaceId,omitempty"`
}

type Integrations struct {
	GitHub GitHubIntegration `json:"github"`
	Slack  SlackIntegration  `json:"slack"`
}

type User struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	PasswordHash   string       `json:"-"` // Never exposed in JSON responses
	ProfilePicture string       `json:"profilePicture"`
	Preferences    Preferences  `json:"preferences"`
	Stats          Stats        `json:"stats"`
	Integrations   Integrations `json:"integrations"`
	CreatedAt      time.Time    `json:"createdAt"`
}

type Chat struct {
	ID        string    `json:"id"` // UUID
	UserID    string    `json:"userId"`
	Mode      string    `json:"mode"`
	Title     string    `json:"title"`
	IsPinned  bool      `json:"isPinned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Attachment is metadata only; file content is consumed at prompt time
// and never persisted.
type Attachment struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimetype"`
	Size     int64  `json:"size"`
}

type Message struct {
	ID          string       `json:"id"` // UUID
	ChatID      string       `json:"chatId"`
	Role        string       `json:"role"` // "user" or "assistant"
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

// ChatFilter narrows ListChats results. Zero values mean "no filter";
// set filters combine with logical AND.
type ChatFilter struct {
	Mode      string
	StartDate *time.Time
	EndDate   *time.Time
	Keyword   string
}

type ThemeColors struct {
	Primary            string   `json:"primary"`
	Secondary          string   `json:"secondary"`
	Accent             string   `json:"accent"`
	Background         string   `json:"background"`
	BackgroundGradient []string `json:"backgroundGradient"`
	Text               string   `json:"text"`
	TextSecondary      string   `json:"textSecondary"`
	UserBubble         string   `json:"userBubble"`
	AIBubble           string   `json:"aiBubble"`
	Border             string   `json:"border"`
}

type Theme struct {
	Name        string      `json:"name"`
	DisplayName string      `json:"displayName"`
	Colors      ThemeColors `json:"colors"`
}

// Mode is administrator-controlled reference data, read-only at runtime.
type Mode struct {
	Name         string  `json:"name"`
	DisplayName  string  `json:"displayName"`
	Icon         string  `json:"icon"`
	Description  string  `json:"description"`
	SystemPrompt string  `json:"systemPrompt"`
	Greeting     string  `json:"greeting"` // contains a {name} placeholder
	Themes       []Theme `json:"themes"`
}
