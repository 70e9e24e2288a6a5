package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/closepro/closepro/pkg/llm"
	"github.com/pkg/errors"
)

// DirName is the per-user configuration directory under $HOME.
const DirName = ".closepro"

// Config represents the application configuration.
type Config struct {
	AnthropicAPIKey string        `json:"anthropic_api_key"`
	Models          ModelsConfig  `json:"models,omitempty"`
	Pandoc          PandocConfig  `json:"pandoc"`
	Defaults        DefaultConfig `json:"defaults"`
}

// ModelsConfig holds model selection for grading and roleplay.
type ModelsConfig struct {
	Grading  string `json:"grading,omitempty"`
	Roleplay string `json:"roleplay,omitempty"`
}

// PandocConfig holds pandoc-related configuration. Both paths are optional.
type PandocConfig struct {
	TemplatePath string `json:"template_path,omitempty"`
	ClassFile    string `json:"class_file,omitempty"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	HistoryDir    string `json:"history_dir"`
	ProspectsFile string `json:"prospects_file,omitempty"`
	HistoryWindow int    `json:"history_window,omitempty"`
}

// GetGradingModel returns the grading model or default if not specified.
func (c *Config) GetGradingModel() (model string) {
	if c.Models.Grading != "" {
		model = c.Models.Grading
		return model
	}
	model = llm.DefaultGradingModel
	return model
}

// GetRoleplayModel returns the roleplay model or default if not specified.
func (c *Config) GetRoleplayModel() (model string) {
	if c.Models.Roleplay != "" {
		model = c.Models.Roleplay
		return model
	}
	model = llm.DefaultRoleplayModel
	return model
}

// DefaultPath returns $HOME/.closepro/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, DirName, "config.json")
	return path, err
}

// Load reads configuration from file with environment variable overrides.
func Load(configPath string) (cfg Config, err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Errorf("config file not found: %s (run 'closepro init' to create)", path)
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	err = json.Unmarshal(data, &cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		cfg.AnthropicAPIKey = apiKey
	}

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// Validate checks required fields and fills in defaults.
func (c *Config) Validate() (err error) {
	if c.AnthropicAPIKey == "" {
		err = errors.New("anthropic_api_key is required (set in config or ANTHROPIC_API_KEY env var)")
		return err
	}

	if c.Defaults.ProspectsFile != "" {
		_, err = os.Stat(c.Defaults.ProspectsFile)
		if os.IsNotExist(err) {
			err = errors.Errorf("prospects file not found: %s", c.Defaults.ProspectsFile)
			return err
		}
	}

	if c.Pandoc.TemplatePath != "" {
		_, err = os.Stat(c.Pandoc.TemplatePath)
		if os.IsNotExist(err) {
			err = errors.Errorf("pandoc template not found: %s", c.Pandoc.TemplatePath)
			return err
		}
	}

	if c.Defaults.HistoryWindow < 0 {
		err = errors.Errorf("defaults.history_window must not be negative, got %d", c.Defaults.HistoryWindow)
		return err
	}

	if c.Defaults.HistoryDir == "" {
		var homeDir string
		homeDir, err = os.UserHomeDir()
		if err != nil {
			err = errors.Wrap(err, "failed to get user home directory")
			return err
		}
		c.Defaults.HistoryDir = filepath.Join(homeDir, DirName, "history")
	}

	err = nil
	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}

	path = configPath
	if path == "" {
		path = filepath.Join(homeDir, DirName, "config.json")
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return path, err
	}

	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return path, err
	}

	defaultConfig := Config{
		AnthropicAPIKey: "sk-ant-api03-...",
		Models: ModelsConfig{
			Grading:  llm.DefaultGradingModel,
			Roleplay: llm.DefaultRoleplayModel,
		},
		Defaults: DefaultConfig{
			HistoryDir:    filepath.Join(homeDir, DirName, "history"),
			HistoryWindow: 10,
		},
	}

	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return path, err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return path, err
	}

	return path, err
}
