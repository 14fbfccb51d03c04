package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/rail44/userlist/internal/users"
)

// FileName is the config file searched for upward from the working directory
const FileName = "userlist.toml"

// ErrNotFound is returned by findConfigFile when no config file exists up to the root
var ErrNotFound = errors.New(FileName + " not found")

// Config represents the complete configuration for userlist
type Config struct {
	Endpoint  string `toml:"endpoint"`
	StorePath string `toml:"store_path"`
	LogLevel  string `toml:"log_level"`
	LogFile   string `toml:"log_file"`

	// CLI-only settings, never read from the file
	Ephemeral bool `toml:"-"`
	Verbose   bool `toml:"-"`
	Plain     bool `toml:"-"`

	// Path of the file the values came from, empty when defaults were used
	Source string `toml:"-"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Endpoint: users.DefaultEndpoint,
		LogLevel: "info",
	}
}

// Load reads userlist.toml from startPath or the nearest parent directory.
// A missing file yields the defaults.
func Load(startPath string) (*Config, error) {
	configPath, err := findConfigFile(startPath)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return LoadFile(configPath)
}

// LoadFile reads an explicit config file
func LoadFile(configPath string) (*Config, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if _, err := toml.Decode(string(configData), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Source = configPath

	cfg.Endpoint = expandEnvVars(cfg.Endpoint)
	if cfg.StorePath != "" {
		cfg.StorePath = normalizePath(expandEnvVars(cfg.StorePath), filepath.Dir(configPath))
	}
	if cfg.LogFile != "" {
		cfg.LogFile = normalizePath(expandEnvVars(cfg.LogFile), filepath.Dir(configPath))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile searches for userlist.toml starting from the given path
func findConfigFile(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err == nil && !info.IsDir() {
		absPath = filepath.Dir(absPath)
	}

	currentDir := absPath
	for {
		configPath := filepath.Join(currentDir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", ErrNotFound
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR_NAME} environment variables in the string
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		value := os.Getenv(match[2 : len(match)-1])
		if value == "" {
			// Left as-is so Validate can name the missing variable
			return match
		}
		return value
	})
}

// Validate checks the endpoint and log level
func (c *Config) Validate() error {
	var problems []string

	if m := envVarPattern.FindStringSubmatch(c.Endpoint); len(m) > 1 {
		return fmt.Errorf("environment variable %s is not set (required by endpoint in %s)", m[1], FileName)
	}

	if c.Endpoint == "" {
		problems = append(problems, "endpoint is required")
	} else if u, err := url.Parse(c.Endpoint); err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("endpoint must be an absolute http(s) URL: %q", c.Endpoint))
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "error", "warn", "info", "debug":
	default:
		problems = append(problems, fmt.Sprintf("invalid log_level: %s", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}
	return nil
}

// normalizePath converts relative paths to absolute paths based on config file location
func normalizePath(path, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(configDir, path)
}
