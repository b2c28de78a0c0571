package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/pstuifzand/tui-listbind/internal/driver"
	"github.com/pstuifzand/tui-listbind/internal/table"
)

const (
	appDir       = "tui-listbind"
	defaultTheme = "tokyo-night"
)

// Config holds application configuration
type Config struct {
	Theme             string            `toml:"theme"`
	AnimationsEnabled bool              `toml:"animations_enabled"`
	Reentrancy        string            `toml:"reentrancy"`
	AnimationMS       int               `toml:"animation_ms"`
	Animations        map[string]string `toml:"animations"`
	Settings          map[string]string `toml:"settings"`

	// Session settings (not persisted to TOML, overrides persisted settings)
	sessionSettings map[string]string
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil // Return default if can't find config path
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file
func LoadFromFile(filePath string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Keys missing from the file keep their defaults
	config := defaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Theme == "" {
		config.Theme = defaultTheme
	}
	if config.Settings == nil {
		config.Settings = make(map[string]string)
	}
	if _, err := table.ParsePolicy(config.Reentrancy); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := config.AnimationStyles(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Theme:             defaultTheme,
		AnimationsEnabled: true,
		Reentrancy:        "queue",
		AnimationMS:       150,
		Settings:          make(map[string]string),
		sessionSettings:   make(map[string]string),
	}
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appDir), nil
}

// Policy returns the re-entrancy policy. A "reentrancy" setting overrides the file.
func (c *Config) Policy() (table.Policy, error) {
	if v := c.Get("reentrancy"); v != "" {
		return table.ParsePolicy(v)
	}
	return table.ParsePolicy(c.Reentrancy)
}

// AnimationStyles builds the animation styles from the [animations] table.
// An "animations" setting of "on" or "off" overrides animations_enabled.
func (c *Config) AnimationStyles() (driver.Animations, error) {
	anim := driver.DefaultAnimations()
	anim.Enabled = c.AnimationsEnabled
	switch c.Get("animations") {
	case "on":
		anim.Enabled = true
	case "off":
		anim.Enabled = false
	}

	for name, style := range c.Animations {
		if name == "default" {
			anim.Default = driver.Animation(style)
			continue
		}
		kind, err := driver.ParseKind(name)
		if err != nil {
			return anim, err
		}
		anim = anim.With(kind, driver.Animation(style))
	}
	return anim, nil
}

// AnimationDuration returns how long the surface highlights changed rows
func (c *Config) AnimationDuration() time.Duration {
	if c.AnimationMS <= 0 {
		return 0
	}
	return time.Duration(c.AnimationMS) * time.Millisecond
}

// Set sets a session configuration value
func (c *Config) Set(key, value string) {
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
	c.sessionSettings[key] = value
}

// Get retrieves a configuration value, checking session settings first (which override persisted settings)
// Returns empty string if not found in either source
func (c *Config) Get(key string) string {
	if val, ok := c.sessionSettings[key]; ok {
		return val
	}
	if val, ok := c.Settings[key]; ok {
		return val
	}
	return ""
}

// GetAll returns all configuration values (both persisted and session)
// Session settings override persisted settings with the same key
func (c *Config) GetAll() map[string]string {
	result := make(map[string]string, len(c.Settings)+len(c.sessionSettings))
	for k, v := range c.Settings {
		result[k] = v
	}
	for k, v := range c.sessionSettings {
		result[k] = v
	}
	return result
}

// Save persists the configuration to the TOML file
// Note: session settings are not persisted
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return c.SaveTo(configPath)
}

// SaveTo writes the configuration to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
