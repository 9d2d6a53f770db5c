package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"personachat/internal/auth"
	"personachat/internal/modes"
	"personachat/internal/store"
)

// UserService implements registration, login and profile management.
type UserService struct {
	store *store.SQLiteStore
	log   *logrus.Logger
}

func NewUserService(db *store.SQLiteStore, log *logrus.Logger) *UserService {
	return &UserService{store: db, log: log}
}

// PreferencesPatch is a partial preferences update. Nil fields are left
// unchanged; the themes map is merged per key, so a patch touching one
// persona's theme cannot drop another's saved choice.
type PreferencesPatch struct {
	DefaultMode       *string           `json:"defaultMode"`
	Themes            map[string]string `json:"themes"`
	DarkMode          *bool             `json:"darkMode"`
	AnimationsEnabled *bool             `json:"animationsEnabled"`
	XPVisible         *bool             `json:"xpVisible"`
}

// Register creates the user with default preferences and stats. It does
// not issue a token: a fresh registration is an explicit
// "registered, unauthenticated" state and requires a separate login.
func (s *UserService) Register(name, email, password string) (*store.User, error) {
	email = normalizeEmail(email)

	if _, err := s.store.GetUserByEmail(email); err == nil {
		return nil, store.ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &store.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Preferences: store.Preferences{
			DefaultMode:       modes.DefaultMode,
			Themes:            modes.DefaultThemes(),
			DarkMode:          true,
			AnimationsEnabled: true,
			XPVisible:         true,
		},
		Stats: store.Stats{
			FavoriteMode: modes.DefaultMode,
			LastActive:   time.Now(),
		},
	}

	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}
	s.log.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Login verifies credentials, bumps lastActive and issues a bearer
// token. Unknown email and wrong password both fail with
// ErrInvalidCredentials.
func (s *UserService) Login(email, password string) (string, *store.User, error) {
	user, err := s.store.GetUserByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	user.Stats.LastActive = time.Now()
	if err := s.store.UpdateUser(user); err != nil {
		return "", nil, err
	}

	token, err := auth.GenerateJWT(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}

func (s *UserService) GetProfile(userID string) (*store.User, error) {
	return s.store.GetUserByID(userID)
}

// UpdateProfile applies a partial update; nil fields are unchanged.
func (s *UserService) UpdateProfile(userID string, name, email, profilePicture *string) (*store.User, error) {
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if name != nil && *name != "" {
		user.Name = strings.TrimSpace(*name)
	}
	if email != nil && *email != "" {
		user.Email = normalizeEmail(*email)
	}
	if profilePicture != nil {
		user.ProfilePicture = *profilePicture
	}

	if err := s.store.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePreferences merges the patch into the stored preferences and
// returns the merged result.
func (s *UserService) UpdatePreferences(userID string, patch PreferencesPatch) (store.Preferences, error) {
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return store.Preferences{}, err
	}

	if patch.DefaultMode != nil {
		if _, err := s.store.GetMode(*patch.DefaultMode); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return store.Preferences{}, ErrUnknownMode
			}
			return store.Preferences{}, err
		}
		user.Preferences.DefaultMode = *patch.DefaultMode
	}
	if len(patch.Themes) > 0 {
		if user.Preferences.Themes == nil {
			user.Preferences.Themes = make(map[string]string, len(patch.Themes))
		}
		for mode, theme := range patch.Themes {
			user.Preferences.Themes[mode] = theme
		}
	}
	if patch.DarkMode != nil {
		user.Preferences.DarkMode = *patch.DarkMode
	}
	if patch.AnimationsEnabled != nil {
		user.Preferences.AnimationsEnabled = *patch.AnimationsEnabled
	}
	if patch.XPVisible != nil {
		user.Preferences.XPVisible = *patch.XPVisible
	}

	if err := s.store.UpdateUser(user); err != nil {
		return store.Preferences{}, err
	}
	return user.Preferences, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
