package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/closepro/closepro/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, cfg Config) (path string) {
	t.Helper()

	path = filepath.Join(t.TempDir(), "config.json")
	data, err := json.MarshalIndent(cfg, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	historyDir := t.TempDir()

	path := writeConfig(t, Config{
		AnthropicAPIKey: "test-key",
		Models:          ModelsConfig{Grading: "grader-x"},
		Defaults:        DefaultConfig{HistoryDir: historyDir},
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.AnthropicAPIKey)
	assert.Equal(t, historyDir, cfg.Defaults.HistoryDir)
	assert.Equal(t, "grader-x", cfg.GetGradingModel())
	assert.Equal(t, llm.DefaultRoleplayModel, cfg.GetRoleplayModel())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "from-env")

	path := writeConfig(t, Config{})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AnthropicAPIKey)
	assert.NotEmpty(t, cfg.Defaults.HistoryDir, "history dir defaults under the config directory")
}

func TestLoadNonexistent(t *testing.T) {
	_, err := Load("/nonexistent/path/config.json")
	assert.ErrorContains(t, err, "closepro init")
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestValidate(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "prospects.json")
	require.NoError(t, os.WriteFile(existing, []byte("{}"), 0600))

	tests := []struct {
		name      string
		config    Config
		wantError bool
	}{
		{
			name:   "minimal config",
			config: Config{AnthropicAPIKey: "test-key"},
		},
		{
			name: "existing prospects file",
			config: Config{
				AnthropicAPIKey: "test-key",
				Defaults:        DefaultConfig{ProspectsFile: existing},
			},
		},
		{
			name:      "missing API key",
			config:    Config{},
			wantError: true,
		},
		{
			name: "nonexistent prospects file",
			config: Config{
				AnthropicAPIKey: "test-key",
				Defaults:        DefaultConfig{ProspectsFile: "/nonexistent/prospects.json"},
			},
			wantError: true,
		},
		{
			name: "nonexistent pandoc template",
			config: Config{
				AnthropicAPIKey: "test-key",
				Pandoc:          PandocConfig{TemplatePath: "/nonexistent/report.latex"},
			},
			wantError: true,
		},
		{
			name: "negative history window",
			config: Config{
				AnthropicAPIKey: "test-key",
				Defaults:        DefaultConfig{HistoryWindow: -1},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.NotEmpty(t, tt.config.Defaults.HistoryDir)
		})
	}
}

func TestInitConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.json")

	path, err := InitConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, configPath, path)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)

	var cfg Config
	require.NoError(t, json.Unmarshal(data, &cfg))
	assert.NotEmpty(t, cfg.Defaults.HistoryDir)
	assert.Equal(t, llm.DefaultGradingModel, cfg.Models.Grading)
	assert.Equal(t, 10, cfg.Defaults.HistoryWindow)
}

func TestInitConfigAlreadyExists(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte("{}"), 0600))

	_, err := InitConfig(configPath)
	assert.ErrorContains(t, err, "already exists")
}
