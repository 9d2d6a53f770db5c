package core

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personachat/internal/config"
	"personachat/internal/modes"
	"personachat/internal/store"
)

func newTestEnv(t *testing.T) (*store.SQLiteStore, *logrus.Logger) {
	t.Helper()
	config.AppConfig.JWTSecret = "test-secret"

	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.ReplaceAllModes(modes.Catalog()))

	log := logrus.New()
	log.SetOutput(io.Discard)
	return s, log
}

func TestRegister_DefaultsAndConflict(t *testing.T) {
	s, log := newTestEnv(t)
	svc := NewUserService(s, log)

	user, err := svc.Register("Ana", "Ana@X.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", user.Email) // normalized
	assert.Equal(t, "developer", user.Preferences.DefaultMode)
	assert.Equal(t, "neural-blue", user.Preferences.Themes["developer"])
	assert.Equal(t, "aurora-teal", user.Preferences.Themes["learner"])
	assert.Equal(t, "solar-amber", user.Preferences.Themes["hr"])
	assert.True(t, user.Preferences.DarkMode)
	assert.Equal(t, 0, user.Stats.TotalChats)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	// Same email, any casing: conflict, and no second record.
	_, err = svc.Register("Impostor", "ANA@x.com", "other")
	require.ErrorIs(t, err, store.ErrEmailTaken)

	got, err := s.GetUserByEmail("ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
}

func TestLogin(t *testing.T) {
	s, log := newTestEnv(t)
	svc := NewUserService(s, log)

	registered, err := svc.Register("Ana", "ana@x.com", "secret1")
	require.NoError(t, err)
	before := registered.Stats.LastActive

	token, user, err := svc.Login("ana@x.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, registered.ID, user.ID)
	assert.False(t, user.Stats.LastActive.Before(before))

	// Wrong password and unknown email fail identically.
	_, _, errWrongPass := svc.Login("ana@x.com", "nope")
	_, _, errNoUser := svc.Login("ghost@x.com", "secret1")
	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, ErrInvalidCredentials)
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error())
}

func TestUpdateProfile_Partial(t *testing.T) {
	s, log := newTestEnv(t)
	svc := NewUserService(s, log)

	user, err := svc.Register("Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	name := "Ana Maria"
	updated, err := svc.UpdateProfile(user.ID, &name, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, "ana@x.com", updated.Email) // untouched

	pic := "https://example.com/me.png"
	updated, err = svc.UpdateProfile(user.ID, nil, nil, &pic)
	require.NoError(t, err)
	assert.Equal(t, pic, updated.ProfilePicture)
	assert.Equal(t, "Ana Maria", updated.Name)
}

func TestUpdatePreferences_MergeIsNonDestructive(t *testing.T) {
	s, log := newTestEnv(t)
	svc := NewUserService(s, log)

	user, err := svc.Register("Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	// Touch only animationsEnabled.
	off := false
	prefs, err := svc.UpdatePreferences(user.ID, PreferencesPatch{AnimationsEnabled: &off})
	require.NoError(t, err)
	assert.False(t, prefs.AnimationsEnabled)
	assert.Equal(t, "developer", prefs.DefaultMode)
	assert.Equal(t, "neural-blue", prefs.Themes["developer"])
	assert.Equal(t, "aurora-teal", prefs.Themes["learner"])

	// A themes patch for one persona keeps the others' choices.
	prefs, err = svc.UpdatePreferences(user.ID, PreferencesPatch{Themes: map[string]string{"developer": "midnight-cyan"}})
	require.NoError(t, err)
	assert.Equal(t, "midnight-cyan", prefs.Themes["developer"])
	assert.Equal(t, "aurora-teal", prefs.Themes["learner"])
	assert.Equal(t, "solar-amber", prefs.Themes["hr"])

	// Merged result is persisted.
	got, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "midnight-cyan", got.Preferences.Themes["developer"])
	assert.False(t, got.Preferences.AnimationsEnabled)

	// defaultMode must name a registry persona.
	bogus := "pirate"
	_, err = svc.UpdatePreferences(user.ID, PreferencesPatch{DefaultMode: &bogus})
	assert.ErrorIs(t, err, ErrUnknownMode)

	learner := "learner"
	prefs, err = svc.UpdatePreferences(user.ID, PreferencesPatch{DefaultMode: &learner})
	require.NoError(t, err)
	assert.Equal(t, "learner", prefs.DefaultMode)
}
