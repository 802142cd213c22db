package config

import (
	"os"
	"path/filepath"
	"testing"

	"braidzworld/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  admin_email: admin@example.com
  admin_password: secret
storage:
  backend: memory
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "braidzworld-admin", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, models.DefaultPageSize, cfg.Dashboard.PageSize)
	assert.Equal(t, models.DefaultSearchDebounceMS, cfg.Dashboard.SearchDebounceMS)
	assert.Equal(t, models.DefaultSearchLatencyMS, cfg.Dashboard.SearchLatencyMS)
	assert.Equal(t, models.DayStart, cfg.Calendar.DayStart)
	assert.Equal(t, models.DayEnd, cfg.Calendar.DayEnd)
	assert.Equal(t, models.SlotMinutes, cfg.Calendar.SlotMinutes)
	assert.Equal(t, models.DefaultGeneratedBookings, cfg.Generator.Count)
	assert.Equal(t, models.GeneratorDaysAhead, cfg.Generator.DaysAhead)
	assert.Equal(t, models.DefaultSessionTTLHours, cfg.Auth.SessionTTLHours)
	assert.Equal(t, "exports", cfg.Exports.Path)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_ADMIN_EMAIL", "owner@example.com")
	path := writeConfig(t, `
auth:
  admin_email: ${TEST_ADMIN_EMAIL}
  admin_password: secret
storage:
  backend: memory
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", cfg.Auth.AdminEmail)
}

func TestValidateRejectsMissingCredentials(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: memory
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateBackends(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			"unknown backend",
			"auth:\n  admin_email: a@b.c\n  admin_password: p\nstorage:\n  backend: dynamo\n",
			true,
		},
		{
			"redis without address",
			"auth:\n  admin_email: a@b.c\n  admin_password: p\nstorage:\n  backend: redis\n",
			true,
		},
		{
			"redis with address",
			"auth:\n  admin_email: a@b.c\n  admin_password: p\nstorage:\n  backend: redis\n  redis:\n    address: localhost:6379\n",
			false,
		},
		{
			"sqlite gets default path",
			"auth:\n  admin_email: a@b.c\n  admin_password: p\nstorage:\n  backend: sqlite\n",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateIntegrations(t *testing.T) {
	path := writeConfig(t, `
auth:
  admin_email: a@b.c
  admin_password: p
storage:
  backend: memory
telegram:
  enabled: true
`)

	_, err := Load(path)
	assert.Error(t, err, "telegram enabled without a bot token")
}
