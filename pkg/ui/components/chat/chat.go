// Package chat renders the conversation tab: transcript, in-progress reply
// and the message input.
package chat

import (
	"fmt"
	"strings"

	"healthchat/pkg/conversation"
	"healthchat/pkg/transcript"
	"healthchat/pkg/ui/components/utils"
	"healthchat/pkg/ui/styles"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"
)

const (
	userPrefix       = "你："
	modelPrefix      = "AI："
	thinkingLine     = "💭 AI 思考中…"
	revealCursor     = "▌"
	inputHeight      = 3
	chromeLines      = 2 // separator + quick prompt line
	busyNotice       = "AI 回覆中，請稍候…"
	copiedNotice     = "已複製最後一則回覆"
	inputPlaceholder = "輸入你的問題，Enter 送出…"
)

// SubmitMsg is returned when the user sends the input.
type SubmitMsg struct {
	Text string
}

// Panel is the chat tab.
type Panel struct {
	textarea textarea.Model
	viewport viewport.Model

	turns   []transcript.Turn
	partial string
	state   conversation.State

	prompts []string
	notice  string
	width   int
	height  int
	follow  bool
}

// New creates the panel. prompts are offered as alt+1..alt+9 shortcuts.
func New(prompts []string) *Panel {
	ta := textarea.New()
	ta.Placeholder = inputPlaceholder
	ta.SetHeight(inputHeight)
	ta.Focus()

	return &Panel{
		textarea: ta,
		viewport: viewport.New(),
		prompts:  prompts,
		follow:   true,
	}
}

// SetSize sets the panel dimensions.
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.textarea.SetWidth(max(width, 1))
	p.viewport.SetWidth(max(width, 1))
	p.viewport.SetHeight(p.transcriptHeight())
	p.refresh()
}

// SetConversation replaces what is displayed.
func (p *Panel) SetConversation(turns []transcript.Turn, partial string, state conversation.State) {
	p.turns = turns
	p.partial = partial
	p.state = state
	if state == conversation.Idle && p.notice == busyNotice {
		p.notice = ""
	}
	p.refresh()
}

// Input returns the current input text.
func (p *Panel) Input() string {
	return p.textarea.Value()
}

// SetInput replaces the input text.
func (p *Panel) SetInput(text string) {
	p.textarea.SetValue(text)
}

// ClearInput empties the input after a submission was accepted.
func (p *Panel) ClearInput() {
	p.textarea.Reset()
	p.notice = ""
}

// SetNotice shows a one-line message above the input.
func (p *Panel) SetNotice(notice string) {
	p.notice = notice
}

// HandlePaste inserts pasted text into the input.
func (p *Panel) HandlePaste(content string) {
	p.textarea.InsertString(content)
}

// LastReply returns the newest model turn.
func (p *Panel) LastReply() string {
	for i := len(p.turns) - 1; i >= 0; i-- {
		if p.turns[i].Role == transcript.RoleModel {
			return p.turns[i].Text
		}
	}
	return ""
}

// Update handles keyboard input.
func (p *Panel) Update(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "enter":
		text := strings.TrimSpace(p.textarea.Value())
		if text == "" {
			return nil
		}
		if p.state != conversation.Idle {
			p.notice = busyNotice
			return nil
		}
		return func() tea.Msg {
			return SubmitMsg{Text: text}
		}

	case "ctrl+y":
		reply := p.LastReply()
		if reply == "" {
			return nil
		}
		p.notice = copiedNotice
		return utils.CopyToClipboard(reply)

	case "up":
		p.viewport.ScrollUp(1)
		p.follow = p.viewport.AtBottom()
		return nil
	case "down":
		p.viewport.ScrollDown(1)
		p.follow = p.viewport.AtBottom()
		return nil
	case "pgup":
		p.viewport.PageUp()
		p.follow = p.viewport.AtBottom()
		return nil
	case "pgdown":
		p.viewport.PageDown()
		p.follow = p.viewport.AtBottom()
		return nil
	}

	if idx, ok := quickPromptIndex(key); ok {
		if idx < len(p.prompts) {
			p.textarea.SetValue(p.prompts[idx])
		}
		return nil
	}

	var cmd tea.Cmd
	p.textarea, cmd = p.textarea.Update(msg)
	return cmd
}

func quickPromptIndex(key string) (int, bool) {
	if len(key) != len("alt+1") || !strings.HasPrefix(key, "alt+") {
		return 0, false
	}
	d := key[len(key)-1]
	if d < '1' || d > '9' {
		return 0, false
	}
	return int(d - '1'), true
}

// TranscriptLines renders every committed turn, the partial reply and the
// thinking indicator as wrapped, styled lines.
func (p *Panel) TranscriptLines() []string {
	width := p.width
	if width <= 0 {
		width = 80
	}

	var lines []string
	for i, turn := range p.turns {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, renderTurn(turn.Role, turn.Text, "", width)...)
	}

	switch p.state {
	case conversation.AwaitingCompletion:
		lines = append(lines, "", styles.ThinkingStyle.Render(thinkingLine))
	case conversation.Revealing:
		lines = append(lines, "")
		lines = append(lines, renderTurn(transcript.RoleModel, p.partial, revealCursor, width)...)
	}
	return lines
}

func renderTurn(role transcript.Role, text, suffix string, width int) []string {
	prefix, prefixStyle := modelPrefix, styles.ModelPrefixStyle
	if role == transcript.RoleUser {
		prefix, prefixStyle = userPrefix, styles.UserPrefixStyle
	}
	prefixWidth := runewidth.StringWidth(prefix)
	indent := strings.Repeat(" ", prefixWidth)

	body := utils.WrapText(text+suffix, width-prefixWidth)
	lines := make([]string, 0, len(body))
	for i, line := range body {
		lead := indent
		if i == 0 {
			lead = prefixStyle.Render(prefix)
		}
		lines = append(lines, lead+styles.TextStyle.Render(line))
	}
	return lines
}

func (p *Panel) refresh() {
	p.viewport.SetContent(strings.Join(p.TranscriptLines(), "\n"))
	if p.follow {
		p.viewport.GotoBottom()
	}
}

func (p *Panel) transcriptHeight() int {
	h := p.height - inputHeight - chromeLines
	if p.notice != "" {
		h--
	}
	if h < 1 {
		return 1
	}
	return h
}

// View renders the panel.
func (p *Panel) View() string {
	width := max(p.width, 1)
	p.viewport.SetHeight(p.transcriptHeight())

	parts := []string{
		p.viewport.View(),
		styles.TextMutedStyle.Render(strings.Repeat("─", width)),
		utils.TruncateStyled(p.promptHint(), width),
	}
	if p.notice != "" {
		parts = append(parts, styles.TextMutedStyle.Render(utils.TruncateToWidth(p.notice, width)))
	}
	parts = append(parts, p.textarea.View())
	return strings.Join(parts, "\n")
}

func (p *Panel) promptHint() string {
	if len(p.prompts) == 0 {
		return styles.FooterStyle.Render("Enter 送出 • Ctrl+Y 複製回覆")
	}
	hints := make([]string, 0, len(p.prompts))
	for i, prompt := range p.prompts {
		if i >= 9 {
			break
		}
		hints = append(hints, fmt.Sprintf("%s %s", styles.TitleStyle.Render(fmt.Sprintf("Alt+%d", i+1)), prompt))
	}
	return strings.Join(hints, "  ")
}
