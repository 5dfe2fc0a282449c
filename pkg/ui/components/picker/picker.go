// Package picker is a modal list used to choose a quick prompt.
package picker

import (
	"strings"

	"healthchat/pkg/ui/components/utils"
	"healthchat/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
)

// SelectMsg is sent when an option is chosen.
type SelectMsg struct {
	Value string
}

// Panel is a scrolling list shown over the chat page.
type Panel struct {
	title    string
	options  []string
	selected int
	scroll   int
	visible  bool
	width    int
	height   int
}

// New creates a hidden picker.
func New(title string) *Panel {
	return &Panel{title: title}
}

// Show opens the picker with options; the first one is selected.
func (p *Panel) Show(options []string) {
	p.visible = true
	p.options = append([]string(nil), options...)
	p.selected = 0
	p.scroll = 0
	p.ensureVisible(p.listHeight())
}

// Hide closes the picker.
func (p *Panel) Hide() {
	p.visible = false
}

// IsVisible reports whether the picker is open.
func (p *Panel) IsVisible() bool {
	return p.visible
}

// Selected returns the highlighted index.
func (p *Panel) Selected() int {
	return p.selected
}

// SetSize updates the picker dimensions.
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Update handles keyboard input while the picker is open.
func (p *Panel) Update(msg tea.KeyPressMsg) tea.Cmd {
	if !p.visible {
		return nil
	}
	listHeight := p.listHeight()

	switch msg.String() {
	case "up", "ctrl+p":
		if p.selected > 0 {
			p.selected--
		}
	case "down", "ctrl+n":
		if p.selected < len(p.options)-1 {
			p.selected++
		}
	case "pgup":
		p.selected = max(p.selected-listHeight, 0)
	case "pgdown":
		p.selected = min(p.selected+listHeight, len(p.options)-1)
	case "home":
		p.selected = 0
	case "end":
		p.selected = len(p.options) - 1
	case "enter":
		if p.selected < 0 || p.selected >= len(p.options) {
			return nil
		}
		value := p.options[p.selected]
		p.Hide()
		return func() tea.Msg {
			return SelectMsg{Value: value}
		}
	case "esc":
		p.Hide()
		return nil
	}
	p.ensureVisible(listHeight)
	return nil
}

// View renders the picker box, or nothing when hidden.
func (p *Panel) View() string {
	if !p.visible {
		return ""
	}
	boxWidth, contentWidth, listHeight := p.dimensions()

	var content strings.Builder
	content.WriteString(styles.TitleStyle.Render(p.title))
	content.WriteString("\n\n")

	if len(p.options) == 0 {
		content.WriteString(styles.TextMutedStyle.Render("沒有可用的選項"))
		content.WriteString("\n")
	} else {
		end := min(p.scroll+listHeight, len(p.options))
		for i := p.scroll; i < end; i++ {
			line := utils.TruncateToWidth("  "+p.options[i], contentWidth)
			if i == p.selected {
				content.WriteString(styles.SelectedStyle.Render(utils.PadPlain(line, contentWidth)))
			} else {
				content.WriteString(styles.TextStyle.Render(line))
			}
			content.WriteString("\n")
		}
	}

	content.WriteString("\n")
	content.WriteString(styles.FooterStyle.Render("↑↓ 選擇 • Enter 填入 • Esc 取消"))
	return styles.BoxStyle.Width(boxWidth).Render(content.String())
}

func (p *Panel) ensureVisible(listHeight int) {
	if len(p.options) == 0 {
		p.selected = 0
		p.scroll = 0
		return
	}
	p.selected = min(max(p.selected, 0), len(p.options)-1)

	if p.selected < p.scroll {
		p.scroll = p.selected
	}
	if p.selected >= p.scroll+listHeight {
		p.scroll = p.selected - listHeight + 1
	}
	p.scroll = min(max(p.scroll, 0), max(len(p.options)-listHeight, 0))
}

func (p *Panel) dimensions() (boxWidth, contentWidth, listHeight int) {
	width, height := p.width, p.height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	boxWidth = min(max(width-2, 30), 70)
	contentWidth = max(boxWidth-4, 10)

	// title, blank, blank, footer plus the border
	listHeight = max(height-4-4, 1)
	return boxWidth, contentWidth, listHeight
}

func (p *Panel) listHeight() int {
	_, _, h := p.dimensions()
	return h
}
