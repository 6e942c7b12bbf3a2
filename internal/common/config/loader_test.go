// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: "test-server"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test-server", cfg.App.Name)
	assert.Equal(t, "https://pokeapi.co/api/v2", cfg.PokeAPI.BaseURL)
	assert.Equal(t, 30000, cfg.PokeAPI.Timeout)
	assert.Equal(t, 3, cfg.Team.Size)
	assert.Equal(t, 20, cfg.Suggest.CandidateLimit)
	assert.Equal(t, 300, cfg.Suggest.MinTotalStats)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_ExplicitValuesWin(t *testing.T) {
	path := writeConfigFile(t, `
pokeapi:
  base_url: "http://localhost:9999"
  timeout: 1500
team:
  size: 6
suggest:
  candidate_limit: 10
  min_total_stats: 400
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.PokeAPI.BaseURL)
	assert.Equal(t, 1500, cfg.PokeAPI.Timeout)
	assert.Equal(t, 6, cfg.Team.Size)
	assert.Equal(t, 10, cfg.Suggest.CandidateLimit)
	assert.Equal(t, 400, cfg.Suggest.MinTotalStats)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"team too large",
			"team:\n  size: 7\n",
			"team.size",
		},
		{
			"candidate limit above page limit",
			"pokeapi:\n  page_limit: 50\nsuggest:\n  candidate_limit: 80\n",
			"candidate_limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			_, err := LoadFromFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
