package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"
)

// ThemeConfig represents the raw TOML theme configuration. Colors are keyed
// by snake_case names such as row_text or plan_insert.
type ThemeConfig struct {
	Name   string            `toml:"name"`
	Colors map[string]string `toml:"colors"`
}

// getThemePaths returns the search paths for theme files
func getThemePaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "tui-listbind", "themes"),
			filepath.Join(home, ".local", "share", "tui-listbind", "themes"),
		)
	}
	return paths
}

// findThemeFile searches for a theme file in standard locations
func findThemeFile(themeName string) (string, error) {
	filename := themeName + ".toml"

	for _, dir := range getThemePaths() {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("theme file not found: %s", filename)
}

// LoadThemeFromFile loads a theme from a TOML file
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var config ThemeConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return configToTheme(config)
}

// LoadTheme loads a theme by name, searching standard theme directories
func LoadTheme(themeName string) (*Theme, error) {
	filePath, err := findThemeFile(themeName)
	if err != nil {
		return nil, err
	}
	return LoadThemeFromFile(filePath)
}

func (c *Colors) fields() map[string]*tcell.Color {
	return map[string]*tcell.Color{
		"row_text":        &c.RowText,
		"row_selected":    &c.RowSelected,
		"row_cursor":      &c.RowCursor,
		"row_inserted":    &c.RowInserted,
		"row_reloaded":    &c.RowReloaded,
		"header_title":    &c.HeaderTitle,
		"footer_text":     &c.FooterText,
		"section_spacer":  &c.SectionSpacer,
		"background":      &c.Background,
		"filter_label":    &c.FilterLabel,
		"filter_text":     &c.FilterText,
		"plan_header":     &c.PlanHeader,
		"plan_insert":     &c.PlanInsert,
		"plan_delete":     &c.PlanDelete,
		"plan_move":       &c.PlanMove,
		"plan_replace":    &c.PlanReplace,
		"help_background": &c.HelpBackground,
		"help_border":     &c.HelpBorder,
		"help_title":      &c.HelpTitle,
		"help_content":    &c.HelpContent,
		"status_mode":     &c.StatusMode,
		"status_message":  &c.StatusMessage,
		"status_error":    &c.StatusError,
	}
}

// configToTheme converts a ThemeConfig to a Theme, with fallback to Tokyo Night for missing colors
func configToTheme(config ThemeConfig) (*Theme, error) {
	theme := TokyoNight()
	fields := theme.Colors.fields()

	for name, value := range config.Colors {
		field, ok := fields[name]
		if !ok {
			return nil, fmt.Errorf("unknown theme color %q", name)
		}
		if value != "" {
			*field = ParseColorString(value)
		}
	}

	if config.Name != "" {
		theme.Name = config.Name
	}
	return theme, nil
}

// LoadThemeOrDefault loads a theme by name, or returns Tokyo Night if not found
func LoadThemeOrDefault(themeName string) *Theme {
	switch themeName {
	case "default":
		return Default()
	case "", "tokyo-night":
		return TokyoNight()
	}

	theme, err := LoadTheme(themeName)
	if err != nil {
		return TokyoNight()
	}
	return theme
}
