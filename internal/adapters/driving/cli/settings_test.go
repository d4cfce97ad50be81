package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsShow_Defaults(t *testing.T) {
	newTestEnv(t)

	out, _, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Restaurant]")
	assert.Contains(t, out, "ID: default")
	assert.Contains(t, out, "URL: http://localhost:4000")
	assert.Contains(t, out, "Timeout: 10s")
	assert.Contains(t, out, "Rate limit: 5 req/s")
	assert.Contains(t, out, "Driver: SQLite (local file)")
	assert.Contains(t, out, "Path: (default)")
	assert.Contains(t, out, "Address: :4000")
	assert.Contains(t, out, "✓ Configuration is valid")
}

func TestSettingsShow_IsDefaultSubcommand(t *testing.T) {
	newTestEnv(t)

	out, _, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
}

func TestSettingsShow_RedactsDSN(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.config.Set("storage.driver", "postgres"))
	require.NoError(t, env.config.Set("storage.dsn", "postgres://app:secret@db:5432/tablesite"))

	out, _, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Driver: PostgreSQL")
	assert.Contains(t, out, "postgres://app:xxxxx@db:5432/tablesite")
	assert.NotContains(t, out, "secret")
}

func TestSettingsShow_Unlimited(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.config.Set("backend.rate_limit", 0.0))

	out, _, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Rate limit: unlimited")
}

func TestSettingsSet(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := execute(t, "settings", "set", "backend.timeout", "30s")

	require.NoError(t, err)
	assert.Contains(t, out, "backend.timeout updated")
	assert.Equal(t, "30s", env.config.GetString("backend.timeout"))
}

func TestSettingsSet_Invalid(t *testing.T) {
	env := newTestEnv(t)

	_, errOut, err := execute(t, "settings", "set", "storage.driver", "mongo")

	require.Error(t, err)
	assert.Contains(t, errOut, "Could not update setting")
	_, exists := env.config.Get("storage.driver")
	assert.False(t, exists)
}

func TestSettingsSet_NeedsTwoArgs(t *testing.T) {
	newTestEnv(t)

	_, _, err := execute(t, "settings", "set", "backend.url")

	assert.Error(t, err)
}

func TestSettingsReset(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.config.Set("server.addr", ":9000"))

	out, _, err := execute(t, "settings", "reset", "server.addr")

	require.NoError(t, err)
	assert.Contains(t, out, "server.addr reset to default")
	_, exists := env.config.Get("server.addr")
	assert.False(t, exists)
}

func TestSettingsReset_UnknownKey(t *testing.T) {
	newTestEnv(t)

	_, errOut, err := execute(t, "settings", "reset", "search.mode")

	require.Error(t, err)
	assert.Contains(t, errOut, "Could not reset setting")
}

func TestSettingsWizard(t *testing.T) {
	env := newTestEnv(t)
	// restaurant, url, timeout, rate, driver, path, cache driver, cache dir,
	// server addr. The dsn and redis prompts are skipped for sqlite.
	input := strings.Join([]string{"spice-route", "", "soon", "", "", "", "", "", ":9000"}, "\n") + "\n"

	out, _, err := executeWithInput(t, input, "settings", "wizard")

	require.NoError(t, err)
	assert.Contains(t, out, "restaurant.id [default]: ")
	assert.NotContains(t, out, "storage.dsn")
	assert.Contains(t, out, "kept 10s")
	assert.Contains(t, out, "Settings saved")

	assert.Equal(t, "spice-route", env.config.GetString("restaurant.id"))
	assert.Equal(t, ":9000", env.config.GetString("server.addr"))
	_, exists := env.config.Get("backend.timeout")
	assert.False(t, exists)
}

func TestRedactDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"", "(not set)"},
		{"postgres://u:p@h/db", "postgres://u:xxxxx@h/db"},
		{"postgres://h/db", "postgres://h/db"},
		{"host=db password=p", "(set)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, redactDSN(tt.dsn))
		})
	}
}
