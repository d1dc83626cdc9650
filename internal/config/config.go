package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. EMPLACE_REPO_BRANCH.
	EnvPrefix = "EMPLACE"

	// FileName is the name of the configuration file in the user config dir.
	FileName = "emplace.toml"

	DefaultBranch = "master"
	DefaultFile   = ".emplace"
)

// Config represents the application configuration
type Config struct {
	RepoDirectory string        `mapstructure:"repo_directory"`
	Repo          RepoConfig    `mapstructure:"repo"`
	Symlinks      []Symlink     `mapstructure:"symlink"`
	Paths         PathsConfig   `mapstructure:"paths"`
	Logging       LoggingConfig `mapstructure:"logging"`

	path  string
	found bool
}

// RepoConfig describes the git repository the mirror file lives in
type RepoConfig struct {
	URL    string `mapstructure:"url"`
	Branch string `mapstructure:"branch"`
	File   string `mapstructure:"file"`
}

// Symlink is a file kept in the repository and linked into place by install.
type Symlink struct {
	// Source is relative to the repository directory.
	Source string `mapstructure:"source"`
	// Destination is the path on disk; it may start with ~.
	Destination string `mapstructure:"destination"`
}

// PathsConfig contains path-related configuration
type PathsConfig struct {
	LogFile     string `mapstructure:"log_file"`
	JournalFile string `mapstructure:"journal_file"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Color string `mapstructure:"color"`
}

// DefaultPath returns the default location of the configuration file.
func DefaultPath() string {
	if env := os.Getenv(EnvPrefix + "_CONFIG"); env != "" {
		return ExpandPath(env)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(homeDir(), ".config")
	}
	return filepath.Join(dir, FileName)
}

// Load loads configuration from the default file and environment
func Load() (*Config, error) {
	return LoadFile(DefaultPath())
}

// LoadFile loads configuration from path and environment. A missing file is
// not an error; Found reports whether it existed.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			found = false
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.path = path
	cfg.found = found
	cfg.RepoDirectory = ExpandPath(cfg.RepoDirectory)
	cfg.Paths.LogFile = ExpandPath(cfg.Paths.LogFile)
	cfg.Paths.JournalFile = ExpandPath(cfg.Paths.JournalFile)

	return &cfg, nil
}

// Found reports whether the configuration was read from a file.
func (c *Config) Found() bool {
	return c.found
}

// Path returns the file the configuration was loaded from or will be saved to.
func (c *Config) Path() string {
	return c.path
}

// FullFilePath returns the location of the mirror file inside the repository.
func (c *Config) FullFilePath() string {
	return filepath.Join(c.RepoDirectory, c.Repo.File)
}

// AddSymlink records a symlink, replacing an entry with the same destination.
func (c *Config) AddSymlink(s Symlink) {
	for i, existing := range c.Symlinks {
		if existing.Destination == s.Destination {
			c.Symlinks[i] = s
			return
		}
	}
	c.Symlinks = append(c.Symlinks, s)
}

// RemoveSymlink drops the entry with the given destination.
func (c *Config) RemoveSymlink(destination string) {
	kept := c.Symlinks[:0]
	for _, s := range c.Symlinks {
		if s.Destination != destination {
			kept = append(kept, s)
		}
	}
	c.Symlinks = kept
}

// Save writes the configuration to its file, creating the directory.
func (c *Config) Save() error {
	return c.SaveAs(c.path)
}

// SaveAs writes the configuration to path and makes it the config's path.
func (c *Config) SaveAs(path string) error {
	if path == "" {
		return fmt.Errorf("save config: no path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("repo_directory", c.RepoDirectory)
	v.Set("repo.url", c.Repo.URL)
	v.Set("repo.branch", c.Repo.Branch)
	v.Set("repo.file", c.Repo.File)

	links := make([]map[string]any, 0, len(c.Symlinks))
	for _, s := range c.Symlinks {
		links = append(links, map[string]any{
			"source":      s.Source,
			"destination": s.Destination,
		})
	}
	v.Set("symlink", links)

	if c.Logging.Level != "" {
		v.Set("logging.level", c.Logging.Level)
	}
	if c.Logging.Color != "" {
		v.Set("logging.color", c.Logging.Color)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	c.path = path
	c.found = true
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	dataDir := defaultDataDir()

	v.SetDefault("repo_directory", dataDir)
	v.SetDefault("repo.url", "")
	v.SetDefault("repo.branch", DefaultBranch)
	v.SetDefault("repo.file", DefaultFile)
	v.SetDefault("symlink", []map[string]any{})

	// Kept out of the repository so a fresh clone finds an empty directory.
	stateDir := defaultStateDir()
	v.SetDefault("paths.log_file", filepath.Join(stateDir, "emplace.log"))
	v.SetDefault("paths.journal_file", filepath.Join(stateDir, "journal.db"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.color", "auto")
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "emplace")
	}
	return filepath.Join(homeDir(), ".local", "share", "emplace")
}

func defaultStateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "emplace")
	}
	return filepath.Join(homeDir(), ".local", "state", "emplace")
}

func homeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		homeDir = "."
	}
	return homeDir
}

// ExpandPath expands ~ and environment variables in paths
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir(), path[1:])
	}

	return os.ExpandEnv(path)
}
