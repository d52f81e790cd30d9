package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tabscope/tabscope/clean"
	"github.com/tabscope/tabscope/pkg/errors"
	"github.com/tabscope/tabscope/profile"
)

// ConfigFileName is the project marker file; its presence defines the
// project root.
const ConfigFileName = ".tabscope.yml"

// Config is the tool configuration
type Config struct {
	Log     LogConfig          `yaml:"log"`
	Profile profile.Thresholds `yaml:"profile"`
	Clean   clean.Options      `yaml:"clean"`
	Output  OutputConfig       `yaml:"output"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level    string `yaml:"level"`
	FilePath string `yaml:"file_path"` // Path to log file
	Console  bool   `yaml:"console"`   // Whether to log to stderr instead
}

// OutputConfig holds the directories analysis artifacts are written to
type OutputConfig struct {
	ProcessedDir string `yaml:"processed_dir"`
	ReportsDir   string `yaml:"reports_dir"`
}

// LoadDefaultConfig returns a default configuration
func LoadDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:    "info",
			FilePath: "tabscope.log",
		},
		Profile: profile.DefaultThresholds(),
		Clean:   clean.DefaultOptions(),
		Output: OutputConfig{
			ProcessedDir: "data/processed",
			ReportsDir:   "reports",
		},
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.New(ErrFileReadFailed, "failed to read config file", err)
	}

	config := LoadDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.New(ErrFileParseFailed, "failed to parse config file", err)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.New(ErrValidationFailed, "configuration validation failed", err)
	}

	return config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.New(ErrFileWriteFailed, "failed to marshal config", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.New(ErrFileWriteFailed, "failed to write config file", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if err := c.Profile.Validate(); err != nil {
		return err
	}
	if err := c.Clean.Validate(); err != nil {
		return err
	}
	if c.Output.ProcessedDir == "" {
		return errors.Newf(ErrValidationFailed, "output.processed_dir is required")
	}
	if c.Output.ReportsDir == "" {
		return errors.Newf(ErrValidationFailed, "output.reports_dir is required")
	}
	return nil
}
