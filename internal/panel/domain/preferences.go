package domain

import "fmt"

// Theme is the panel colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark:
		return t, nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// UIPreferences outlive sessions: logging out keeps them.
type UIPreferences struct {
	SidebarOpen bool  `json:"sidebarOpen"`
	Theme       Theme `json:"theme"`
}

// DefaultPreferences is what a fresh install starts with.
func DefaultPreferences() UIPreferences {
	return UIPreferences{SidebarOpen: true, Theme: ThemeLight}
}
