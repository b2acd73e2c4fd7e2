package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.ServerEnabled())
	assert.Equal(t, uint16(DefaultPort), cfg.ServerPort())
	assert.False(t, cfg.AuthRequired())
	assert.True(t, cfg.AlertsEnabled())
	assert.NotEmpty(t, cfg.SessionChallenge())
}

func TestGenerateSecretDeterministic(t *testing.T) {
	a := GenerateSecret("hunter2", "salt")
	b := GenerateSecret("hunter2", "salt")
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, GenerateSecret("hunter2", "other-salt"))
	assert.NotEqual(t, a, GenerateSecret("hunter3", "salt"))
}

func TestGenerateSaltUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		salt, err := GenerateSalt()
		require.NoError(t, err)
		require.NotEmpty(t, salt)
		_, dup := seen[salt]
		require.False(t, dup, "salt repeated after %d draws", i)
		seen[salt] = struct{}{}
	}
}

func TestSetPasswordEnablesAuth(t *testing.T) {
	cfg := Default()
	require.False(t, cfg.AuthRequired())

	require.NoError(t, cfg.SetPassword("hunter2"))

	assert.True(t, cfg.AuthRequired())
	assert.NotEmpty(t, cfg.Salt())
}

func TestSetPasswordRegeneratesSalt(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.SetPassword("hunter2"))
	firstSalt := cfg.Salt()

	require.NoError(t, cfg.SetPassword("hunter2"))
	assert.NotEqual(t, firstSalt, cfg.Salt())
}

func authResponse(cfg *Config, password string) string {
	secret := GenerateSecret(password, cfg.Salt())
	return GenerateSecret(secret, cfg.SessionChallenge())
}

func TestCheckAuthAcceptsCorrectResponse(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.SetPassword("hunter2"))

	assert.True(t, cfg.CheckAuth(authResponse(cfg, "hunter2")))
}

func TestCheckAuthRejectsWrongPassword(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.SetPassword("hunter2"))

	assert.False(t, cfg.CheckAuth(authResponse(cfg, "wrong")))
}

func TestCheckAuthConsumesChallenge(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.SetPassword("hunter2"))

	challenge := cfg.SessionChallenge()
	response := authResponse(cfg, "hunter2")

	require.True(t, cfg.CheckAuth(response))
	assert.NotEqual(t, challenge, cfg.SessionChallenge())

	// a replayed response must fail against the rotated challenge
	assert.False(t, cfg.CheckAuth(response))

	// a fresh handshake still works
	assert.True(t, cfg.CheckAuth(authResponse(cfg, "hunter2")))
}

func TestCheckAuthRotatesOnFailureToo(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.SetPassword("hunter2"))

	challenge := cfg.SessionChallenge()
	require.False(t, cfg.CheckAuth("garbage"))
	assert.NotEqual(t, challenge, cfg.SessionChallenge())
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.ServerEnabled())
	assert.Equal(t, uint16(DefaultPort), cfg.ServerPort())
}

func TestLoadMalformedFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0o600))

	cfg, err := Load(path)
	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, uint16(DefaultPort), cfg.ServerPort())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "castbridge.yml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.SetPassword("hunter2"))
	cfg.SetDebugEnabled(true)
	require.NoError(t, cfg.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, reloaded.AuthRequired())
	assert.True(t, reloaded.DebugEnabled())
	assert.Equal(t, cfg.Salt(), reloaded.Salt())

	// the reloaded instance accepts the same password
	assert.True(t, reloaded.CheckAuth(authResponse(reloaded, "hunter2")))
}

func TestSaveWithoutPathFails(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Save())
}
