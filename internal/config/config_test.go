package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfigFile(t, "")

	loader, err := NewConfigLoader(path)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "mnemo.db", cfg.Storage.DatabaseFile)
	assert.Equal(t, 10, cfg.Study.NewCardLimit)
	assert.Equal(t, 14, cfg.Stats.DailyWindowDays)
	assert.Equal(t, 7, cfg.Stats.ForecastWindowDays)
	assert.Equal(t, "exports", cfg.Outputs.ExportDirectory)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
storage:
  database_file: /tmp/cards.db
study:
  new_card_limit: 5
stats:
  daily_window_days: 30
  forecast_window_days: 14
`)

	loader, err := NewConfigLoader(path)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/cards.db", cfg.Storage.DatabaseFile)
	assert.Equal(t, 5, cfg.Study.NewCardLimit)
	assert.Equal(t, 30, cfg.Stats.DailyWindowDays)
	assert.Equal(t, 14, cfg.Stats.ForecastWindowDays)
}

func TestLoad_FromEnvironment(t *testing.T) {
	path := writeConfigFile(t, "")
	t.Setenv("MNEMO_DB", "/var/lib/mnemo/cards.db")

	loader, err := NewConfigLoader(path)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/mnemo/cards.db", cfg.Storage.DatabaseFile)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name            string
		content         string
		expectedMessage string
	}{
		{
			name: "new card limit below one",
			content: `
study:
  new_card_limit: 0
`,
			expectedMessage: "new_card_limit",
		},
		{
			name: "daily window too large",
			content: `
stats:
  daily_window_days: 400
`,
			expectedMessage: "daily_window_days",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, err := NewConfigLoader(writeConfigFile(t, tt.content))
			require.NoError(t, err)

			_, err = loader.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedMessage)
		})
	}
}
