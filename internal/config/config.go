// internal/config/config.go
//
// This package handles configuration and the ~/.xdsec-recruit directory.
// Every user of the client gets a home directory with a config file, the
// local state (token, cached user, theme) and a session log.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// HomeDirName is the directory created under the user's home.
	HomeDirName = ".xdsec-recruit"

	defaultAPIBase = "http://localhost:8080/api/v2"
)

const defaultConfigYAML = `# xdsec-recruit client configuration
version: 1

# Base URL of the recruitment backend.
api_base_url: http://localhost:8080/api/v2

# Where exported candidate tables are written.
export_dir: exports
`

// FileConfig models config.yaml.
type FileConfig struct {
	Version    int    `yaml:"version"`
	APIBaseURL string `yaml:"api_base_url"`
	ExportDir  string `yaml:"export_dir"`
}

// Config holds the runtime configuration for the client.
type Config struct {
	// HomeDir is ~/.xdsec-recruit (or XDSEC_RECRUIT_HOME).
	HomeDir string

	File FileConfig
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		Version:    1,
		APIBaseURL: defaultAPIBase,
		ExportDir:  "exports",
	}
}

// InitHomeDir creates the client home directory structure and a default
// config file when none exists. Called once at startup.
//
// Structure created:
// ~/.xdsec-recruit/
// ├── config.yaml  <- base URL and export settings
// ├── state.json   <- token, cached user, theme, accent
// ├── logs/        <- session log
// └── exports/     <- downloaded candidate tables
func InitHomeDir(homeDir string) error {
	dirs := []string{
		filepath.Join(homeDir, "logs"),
		filepath.Join(homeDir, "exports"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	return ensureConfigFile(filepath.Join(homeDir, "config.yaml"))
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("config: write default config: %w", err)
	}
	return nil
}

// ResolveHomeDir picks the client home directory: XDSEC_RECRUIT_HOME when
// set, otherwise ~/.xdsec-recruit.
func ResolveHomeDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("XDSEC_RECRUIT_HOME")); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home dir: %w", err)
	}
	return filepath.Join(home, HomeDirName), nil
}

// New loads the configuration for the given home directory. The config file
// is optional; env vars override file values (XDSEC_API_BASE wins over
// api_base_url).
func New(homeDir string) (*Config, error) {
	cfg := &Config{
		HomeDir: homeDir,
		File:    defaultFileConfig(),
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if base := strings.TrimSpace(os.Getenv("XDSEC_API_BASE")); base != "" {
		cfg.File.APIBaseURL = base
	}
	return cfg, nil
}

func (c *Config) loadFile() error {
	raw, err := os.ReadFile(c.ConfigPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: read config file: %w", err)
	}
	parsed := defaultFileConfig()
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("config: parse config file: %w", err)
	}
	if strings.TrimSpace(parsed.APIBaseURL) == "" {
		parsed.APIBaseURL = defaultAPIBase
	}
	if strings.TrimSpace(parsed.ExportDir) == "" {
		parsed.ExportDir = "exports"
	}
	c.File = parsed
	return nil
}

// APIBaseURL returns the backend base URL.
func (c *Config) APIBaseURL() string {
	return strings.TrimRight(c.File.APIBaseURL, "/")
}

// StatePath returns the on-disk location of the local state file.
func (c *Config) StatePath() string {
	return filepath.Join(c.HomeDir, "state.json")
}

// LogPath returns the session log location.
func (c *Config) LogPath() string {
	return filepath.Join(c.HomeDir, "logs", "session.log")
}

// ConfigPath returns the on-disk location of config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.HomeDir, "config.yaml")
}

// ExportDir returns the directory for downloaded exports. Relative values
// are anchored at the home directory.
func (c *Config) ExportDir() string {
	if filepath.IsAbs(c.File.ExportDir) {
		return c.File.ExportDir
	}
	return filepath.Join(c.HomeDir, c.File.ExportDir)
}
