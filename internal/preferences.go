package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const themeKey = "theme"

// Theme is the light/dark display preference
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme validates a theme name
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	default:
		return "", fmt.Errorf("%w: %q (want dark or light)", ErrInvalidTheme, s)
	}
}

// Theme reads the stored preference, defaulting to dark
func (s *Storage) Theme(ctx context.Context) (Theme, error) {
	value, found, err := GetKV(ctx, s.db, themeKey)
	if err != nil {
		return ThemeDark, &StoreError{Op: "get", Key: themeKey, Err: err}
	}
	if !found {
		return ThemeDark, nil
	}
	theme, err := ParseTheme(value)
	if err != nil {
		LogDebug("Ignoring stored theme %q", value)
		return ThemeDark, nil
	}
	return theme, nil
}

// SetTheme stores the preference
func (s *Storage) SetTheme(ctx context.Context, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}
	if err := PutKV(ctx, s.db, themeKey, string(theme)); err != nil {
		return &StoreError{Op: "put", Key: themeKey, Err: err}
	}
	return nil
}

// Palette holds the terminal colors for a theme
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Surface   lipgloss.Color
	Border    lipgloss.Color
	Accent    lipgloss.Color
	Error     lipgloss.Color
}

// Palette maps the theme onto terminal colors
func (t Theme) Palette() Palette {
	if t == ThemeLight {
		return Palette{
			Primary:   lipgloss.Color("#0F0F0F"),
			Secondary: lipgloss.Color("#606060"),
			Surface:   lipgloss.Color("#F1F1F1"),
			Border:    lipgloss.Color("#E5E5E5"),
			Accent:    lipgloss.Color("#3EA6FF"),
			Error:     lipgloss.Color("#FF0000"),
		}
	}
	return Palette{
		Primary:   lipgloss.Color("#FFFFFF"),
		Secondary: lipgloss.Color("#AAAAAA"),
		Surface:   lipgloss.Color("#181818"),
		Border:    lipgloss.Color("#272727"),
		Accent:    lipgloss.Color("#3EA6FF"),
		Error:     lipgloss.Color("#FF0000"),
	}
}

// GlamourStyle names the glamour style matching the theme
func (t Theme) GlamourStyle() string {
	if t == ThemeLight {
		return "light"
	}
	return "dark"
}
