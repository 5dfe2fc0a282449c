// Package styles provides the shared palette and styles for the healthchat UI.
package styles

import (
	"charm.land/lipgloss/v2"
)

// Color palette - ANSI 256 colors used throughout the application
var (
	// Primary accent color (leaf green)
	ColorAccent = lipgloss.Color("71")

	// Text colors
	ColorText       = lipgloss.Color("252") // Primary text
	ColorTextMuted  = lipgloss.Color("245") // Secondary/muted text
	ColorTextBright = lipgloss.Color("15")  // Bright/highlighted text

	// Semantic colors
	ColorError   = lipgloss.Color("196")
	ColorWarning = lipgloss.Color("214")
	ColorSuccess = lipgloss.Color("42")

	// Speaker colors
	ColorUser  = lipgloss.Color("39")
	ColorModel = lipgloss.Color("114")

	ColorLink        = lipgloss.Color("81")
	ColorPlaceholder = lipgloss.Color("240")

	// Border colors
	ColorBorder      = lipgloss.Color("71")
	ColorBorderMuted = lipgloss.Color("239")
)

// Panel/Box styles
var (
	// BoxStyle is the default rounded box for forms and panels
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	// PanelStyle frames the active tab body
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderMuted).
			Padding(0, 1)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	TextMutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	TextBoldStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	LinkStyle = lipgloss.NewStyle().
			Foreground(ColorLink).
			Underline(true)
)

// Conversation styles
var (
	UserPrefixStyle = lipgloss.NewStyle().
			Foreground(ColorUser).
			Bold(true)

	ModelPrefixStyle = lipgloss.NewStyle().
				Foreground(ColorModel).
				Bold(true)

	ThinkingStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Italic(true)
)

// Selection and tabs
var (
	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorTextBright).
			Background(ColorAccent).
			Bold(true)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorTextBright).
			Background(ColorAccent).
			Bold(true).
			Padding(0, 1)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Padding(0, 1)
)

// Input and form styles
var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Width(16)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	EditStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorPlaceholder).
				Italic(true)
)

// Feedback styles
var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Banner styles for the home page
var (
	BannerBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("65"))

	BannerTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("156")).
				Bold(true)

	BannerVersionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))
)
