// Package statusbar renders the one-line bar at the bottom of the screen.
package statusbar

import (
	"fmt"
	"strings"

	"healthchat/pkg/ui/styles"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// KeySource describes where the active API key came from.
type KeySource int

const (
	KeyMissing KeySource = iota
	KeySession
	KeyRemembered
	KeyEnvironment
)

func (k KeySource) label() string {
	switch k {
	case KeySession:
		return "金鑰：僅本次"
	case KeyRemembered:
		return "金鑰：已記住"
	case KeyEnvironment:
		return "金鑰：環境變數"
	default:
		return "金鑰：未設定"
	}
}

// StatusBarView handles the status bar rendering with Lipgloss
type StatusBarView struct {
	message string
	model   string
	key     KeySource
	hint    string
	width   int
}

// NewStatusBarView creates a new status bar view
func NewStatusBarView() *StatusBarView {
	return &StatusBarView{width: 80}
}

// SetMessage sets a temporary message that replaces the key hints.
func (s *StatusBarView) SetMessage(msg string) {
	s.message = msg
}

// SetModel updates the active model displayed.
func (s *StatusBarView) SetModel(model string) {
	s.model = strings.TrimSpace(model)
}

// SetKeySource updates the credential indicator.
func (s *StatusBarView) SetKeySource(k KeySource) {
	s.key = k
}

// SetHint sets the key help shown when there is no message.
func (s *StatusBarView) SetHint(hint string) {
	s.hint = hint
}

// SetWidth updates the width for rendering
func (s *StatusBarView) SetWidth(width int) {
	s.width = width
}

// Render returns the styled status bar string
func (s *StatusBarView) Render() string {
	modelLabel := s.model
	if modelLabel == "" {
		modelLabel = "unknown"
	}

	right := s.hint
	if s.message != "" {
		right = s.message
	}
	content := fmt.Sprintf("[healthchat] %s | %s", modelLabel, s.key.label())
	if right != "" {
		content += " | " + right
	}

	maxWidth := s.width - 2
	if maxWidth < 10 {
		maxWidth = 10
	}
	if ansi.StringWidth(content) > maxWidth {
		content = ansi.Truncate(content, maxWidth, "...")
	}

	styled := statusStyle.Render(content)
	if w := lipgloss.Width(styled); w < s.width {
		styled += strings.Repeat(" ", s.width-w)
	}
	return styled
}

var statusStyle = lipgloss.NewStyle().
	Foreground(styles.ColorTextBright).
	Background(styles.ColorAccent).
	Padding(0, 1).
	Bold(true)
