// Package home is the start page: model name, API key and the
// "remember on this machine" choice.
package home

import (
	"fmt"
	"strings"

	"healthchat/pkg/ui/components/field"
	"healthchat/pkg/ui/components/utils"
	"healthchat/pkg/ui/styles"
	"healthchat/pkg/version"

	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"
)

const (
	focusModel = iota
	focusKey
	focusRemember
	focusStart
	focusCount
)

// StartMsg is sent when the user starts chatting with a non-empty key.
type StartMsg struct {
	Model    string
	APIKey   string
	Remember bool
}

// Form is the home page.
type Form struct {
	model    *field.Field
	apiKey   *field.Field
	remember bool
	focus    int

	providerName string
	errorMsg     string
	notice       string
	width        int
}

// New creates the form pre-filled with the current settings.
// providerName is shown in labels and the missing-key message.
func New(model, apiKey string, remember bool, providerName string) *Form {
	if providerName == "" {
		providerName = "Gemini"
	}
	f := &Form{
		model:        field.New("模型", "gemini-2.5-flash"),
		apiKey:       field.New(providerName+" API Key", "貼上你的 API Key"),
		remember:     remember,
		providerName: providerName,
	}
	f.apiKey.Masked = true
	f.model.SetValue(model)
	f.apiKey.SetValue(apiKey)
	f.setFocus(focusKey)
	return f
}

// SetWidth sets the available width.
func (f *Form) SetWidth(width int) {
	f.width = width
}

// SetNotice shows an informational line under the form, e.g. a failure
// to persist the key.
func (f *Form) SetNotice(notice string) {
	f.notice = notice
}

// Error returns the validation message, if any.
func (f *Form) Error() string {
	return f.errorMsg
}

// Remember reports the toggle state.
func (f *Form) Remember() bool {
	return f.remember
}

// Update handles keyboard input.
func (f *Form) Update(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		f.setFocus((f.focus + 1) % focusCount)
		return nil
	case "shift+tab", "up":
		f.setFocus((f.focus + focusCount - 1) % focusCount)
		return nil
	case "enter":
		switch f.focus {
		case focusRemember:
			f.remember = !f.remember
			return nil
		case focusModel:
			f.setFocus(focusKey)
			return nil
		default:
			return f.start()
		}
	case "space", " ":
		if f.focus == focusRemember {
			f.remember = !f.remember
			return nil
		}
	}

	switch f.focus {
	case focusModel:
		f.model.Update(msg)
	case focusKey:
		f.apiKey.Update(msg)
	}
	return nil
}

// HandlePaste routes pasted text to the focused field.
func (f *Form) HandlePaste(content string) {
	switch f.focus {
	case focusModel:
		f.model.InsertString(content)
	case focusKey:
		f.apiKey.InsertString(content)
	}
}

func (f *Form) start() tea.Cmd {
	key := strings.TrimSpace(f.apiKey.Value())
	if key == "" {
		f.errorMsg = fmt.Sprintf("請先輸入有效的 %s API Key", f.providerName)
		f.setFocus(focusKey)
		return nil
	}
	f.errorMsg = ""
	start := StartMsg{
		Model:    strings.TrimSpace(f.model.Value()),
		APIKey:   key,
		Remember: f.remember,
	}
	return func() tea.Msg {
		return start
	}
}

func (f *Form) setFocus(i int) {
	f.focus = i
	f.model.Blur()
	f.apiKey.Blur()
	switch i {
	case focusModel:
		f.model.Focus()
	case focusKey:
		f.apiKey.Focus()
	}
}

// View renders the page.
func (f *Form) View() string {
	width := f.width
	if width <= 0 {
		width = 80
	}
	boxWidth := width - 2
	if boxWidth > 70 {
		boxWidth = 70
	}
	if boxWidth < 20 {
		boxWidth = 20
	}

	var content strings.Builder
	content.WriteString(banner(boxWidth - 10))
	content.WriteString("\n\n")

	rows := []struct {
		label string
		value string
		index int
	}{
		{f.model.Label, f.model.View(), focusModel},
		{f.apiKey.Label, f.apiKey.View(), focusKey},
		{"記住金鑰", checkbox(f.remember) + " 儲存在這台電腦", focusRemember},
	}
	for _, row := range rows {
		marker := "  "
		if f.focus == row.index {
			marker = styles.TitleStyle.Render("▶ ")
		}
		content.WriteString(marker + styles.LabelStyle.Render(row.label+"：") + " " + row.value + "\n")
	}

	content.WriteString("\n")
	button := "[ 開始聊天 ]"
	if f.focus == focusStart {
		content.WriteString("  " + styles.SelectedStyle.Render(button))
	} else {
		content.WriteString("  " + styles.TextBoldStyle.Render(button))
	}
	content.WriteString("\n")

	if f.errorMsg != "" {
		content.WriteString("\n")
		content.WriteString(styles.ErrorStyle.Render("⚠️  " + f.errorMsg))
		content.WriteString("\n")
	}
	if f.notice != "" {
		content.WriteString("\n")
		content.WriteString(styles.TextMutedStyle.Render(f.notice))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(styles.FooterStyle.Render("Tab/↑↓ 切換 • Enter 確認 • Space 切換記住 • Ctrl+C 離開"))

	return styles.BoxStyle.Width(boxWidth).Render(content.String())
}

func checkbox(on bool) string {
	if on {
		return styles.SuccessStyle.Render("[x]")
	}
	return "[ ]"
}

// banner draws the title box with the build version.
func banner(innerWidth int) string {
	if innerWidth < 10 {
		innerWidth = 10
	}

	makeLine := func(content string, visualWidth int) string {
		pad := innerWidth - visualWidth
		if pad < 0 {
			pad = 0
		}
		return styles.BannerBorderStyle.Render("│") + content + strings.Repeat(" ", pad) + styles.BannerBorderStyle.Render("│")
	}
	centered := func(text string, render func(...string) string) string {
		text = utils.TruncateToWidth(text, innerWidth)
		w := runewidth.StringWidth(text)
		left := (innerWidth - w) / 2
		return makeLine(strings.Repeat(" ", left)+render(text), left+w)
	}

	lines := []string{
		styles.BannerBorderStyle.Render("╭" + strings.Repeat("─", innerWidth) + "╮"),
		centered("🥗 健康飲食小助手 🥗", styles.BannerTitleStyle.Render),
		centered("問我任何健康飲食的問題", styles.TextStyle.Render),
		centered(version.Summary(), styles.BannerVersionStyle.Render),
		styles.BannerBorderStyle.Render("╰" + strings.Repeat("─", innerWidth) + "╯"),
	}
	return strings.Join(lines, "\n")
}
