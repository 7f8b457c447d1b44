// Package ui provides the JigSnap application UI components.
//
// This file defines the application theme.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// JigSnapTheme wraps the default Fyne theme with a fixed or system-chosen
// light/dark variant and slightly larger headings for the stage banner.
type JigSnapTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	system  bool
}

// NewJigSnapTheme creates a theme that follows the system variant.
func NewJigSnapTheme() *JigSnapTheme {
	return &JigSnapTheme{base: theme.DefaultTheme(), system: true}
}

// NewJigSnapThemeWithVariant creates a theme locked to a light or dark variant.
func NewJigSnapThemeWithVariant(variant fyne.ThemeVariant) *JigSnapTheme {
	return &JigSnapTheme{base: theme.DefaultTheme(), variant: variant}
}

// ThemeFor maps a config theme name ("light", "dark", "system") to a theme.
func ThemeFor(name string) *JigSnapTheme {
	switch name {
	case "light":
		return NewJigSnapThemeWithVariant(theme.VariantLight)
	case "dark":
		return NewJigSnapThemeWithVariant(theme.VariantDark)
	default:
		return NewJigSnapTheme()
	}
}

// Color delegates to the base theme with the stored variant unless the
// theme follows the system.
func (t *JigSnapTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.system {
		return t.base.Color(name, variant)
	}
	return t.base.Color(name, t.variant)
}

// Font delegates to the base theme.
func (t *JigSnapTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *JigSnapTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns sizing overrides for the status bar and stage banner.
func (t *JigSnapTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameHeadingText:
		return 22
	case theme.SizeNameSubHeadingText:
		return 16
	case theme.SizeNamePadding:
		return 3
	default:
		return t.base.Size(name)
	}
}
