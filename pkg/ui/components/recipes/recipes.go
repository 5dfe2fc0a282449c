// Package recipes is the recipe search tab.
package recipes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"healthchat/pkg/recipes"
	"healthchat/pkg/ui/components/field"
	"healthchat/pkg/ui/components/utils"
	"healthchat/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
)

const (
	notSearchedText = "尚未搜尋，輸入關鍵字開始查詢食譜。"
	noResultsText   = "抱歉，找不到符合的食譜，請試試其他關鍵字。"
	emptyQueryText  = "請輸入食材或料理名稱"
	searchingText   = "搜尋中..."
	loadingText     = "載入中..."
	searchFailed    = "搜尋失敗："
	detailsFailed   = "無法取得食譜詳情"
	copiedText      = "已複製連結"
)

// Searcher is the recipe backend.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]recipes.Summary, error)
	Details(ctx context.Context, id int) (recipes.Detail, error)
}

type focusArea int

const (
	focusQuery focusArea = iota
	focusList
)

// SearchResultMsg carries the outcome of a search.
type SearchResultMsg struct {
	Seq     uint64
	Query   string
	Results []recipes.Summary
	Err     error
}

// DetailResultMsg carries the outcome of a details lookup.
type DetailResultMsg struct {
	Seq    uint64
	Detail recipes.Detail
	Err    error
}

// Panel is the recipe tab.
type Panel struct {
	searcher Searcher
	ctx      context.Context
	query    *field.Field
	focus    focusArea

	results  []recipes.Summary
	searched bool
	selected int
	detail   *recipes.Detail

	loading bool
	notice  string
	isError bool
	seq     uint64

	width  int
	height int
}

// New creates the panel. ctx bounds every request it starts.
func New(ctx context.Context, searcher Searcher) *Panel {
	if ctx == nil {
		ctx = context.Background()
	}
	q := field.New("食材或料理", "chicken, pasta, breakfast")
	q.Focus()
	return &Panel{searcher: searcher, ctx: ctx, query: q}
}

// SetSize sets the panel dimensions.
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// InDetail reports whether a recipe is open; esc then returns to the list.
func (p *Panel) InDetail() bool {
	return p.detail != nil
}

// Results returns the current result list.
func (p *Panel) Results() []recipes.Summary {
	return p.results
}

// Notice returns the status line.
func (p *Panel) Notice() string {
	return p.notice
}

// HandlePaste inserts pasted text into the query.
func (p *Panel) HandlePaste(content string) {
	if p.focus == focusQuery && p.detail == nil {
		p.query.InsertString(content)
	}
}

// Update handles keys and result messages.
func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case SearchResultMsg:
		p.applySearch(msg)
		return nil
	case DetailResultMsg:
		p.applyDetail(msg)
		return nil
	case tea.KeyPressMsg:
		return p.handleKey(msg)
	}
	return nil
}

func (p *Panel) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	if p.detail != nil {
		switch key {
		case "esc", "backspace", "left":
			p.detail = nil
			p.notice = ""
		case "ctrl+y", "o":
			return p.copyLink(p.detail.SourceURL)
		}
		return nil
	}

	if p.focus == focusList {
		switch key {
		case "up":
			if p.selected > 0 {
				p.selected--
			} else {
				p.setFocus(focusQuery)
			}
		case "down":
			if p.selected < len(p.results)-1 {
				p.selected++
			}
		case "enter":
			return p.openSelected()
		case "ctrl+y", "o":
			if p.selected < len(p.results) {
				return p.copyLink(recipes.Link(p.results[p.selected]))
			}
		case "/":
			p.setFocus(focusQuery)
		}
		return nil
	}

	switch key {
	case "enter":
		return p.search()
	case "down":
		if len(p.results) > 0 {
			p.setFocus(focusList)
		}
		return nil
	}
	p.query.Update(msg)
	return nil
}

func (p *Panel) setFocus(f focusArea) {
	p.focus = f
	if f == focusQuery {
		p.query.Focus()
	} else {
		p.query.Blur()
	}
}

func (p *Panel) search() tea.Cmd {
	query := strings.TrimSpace(p.query.Value())
	if query == "" {
		p.setNotice(emptyQueryText, true)
		return nil
	}
	if p.searcher == nil {
		p.setNotice(searchFailed+"recipe service unavailable", true)
		return nil
	}

	p.seq++
	seq := p.seq
	p.loading = true
	p.detail = nil
	p.setNotice(searchingText, false)

	searcher, ctx := p.searcher, p.ctx
	return func() tea.Msg {
		results, err := searcher.Search(ctx, query, 0)
		return SearchResultMsg{Seq: seq, Query: query, Results: results, Err: err}
	}
}

func (p *Panel) openSelected() tea.Cmd {
	if p.selected >= len(p.results) || p.searcher == nil {
		return nil
	}
	id := p.results[p.selected].ID

	p.seq++
	seq := p.seq
	p.loading = true
	p.setNotice(loadingText, false)

	searcher, ctx := p.searcher, p.ctx
	return func() tea.Msg {
		detail, err := searcher.Details(ctx, id)
		return DetailResultMsg{Seq: seq, Detail: detail, Err: err}
	}
}

func (p *Panel) applySearch(msg SearchResultMsg) {
	if msg.Seq != p.seq {
		slog.Debug("recipes_ui_stale_result", "seq", msg.Seq, "current", p.seq)
		return
	}
	p.loading = false
	if msg.Err != nil {
		p.setNotice(searchFailed+msg.Err.Error(), true)
		return
	}
	p.searched = true
	p.results = msg.Results
	p.selected = 0
	p.notice = ""
	if len(p.results) > 0 {
		p.setFocus(focusList)
	}
}

func (p *Panel) applyDetail(msg DetailResultMsg) {
	if msg.Seq != p.seq {
		slog.Debug("recipes_ui_stale_detail", "seq", msg.Seq, "current", p.seq)
		return
	}
	p.loading = false
	if msg.Err != nil {
		p.setNotice(detailsFailed, true)
		return
	}
	detail := msg.Detail
	p.detail = &detail
	p.notice = ""
}

func (p *Panel) copyLink(link string) tea.Cmd {
	if link == "" {
		return nil
	}
	p.setNotice(copiedText, false)
	return utils.CopyToClipboard(link)
}

func (p *Panel) setNotice(text string, isError bool) {
	p.notice = text
	p.isError = isError
}

// View renders the panel.
func (p *Panel) View() string {
	width := p.width
	if width <= 0 {
		width = 80
	}

	var lines []string
	lines = append(lines, styles.TitleStyle.Render("🍳 食譜查詢"), "")

	if p.detail != nil {
		lines = append(lines, p.detailLines(width)...)
	} else {
		lines = append(lines, styles.LabelStyle.Render(p.query.Label+"：")+" "+p.query.View(), "")
		lines = append(lines, p.listLines(width)...)
	}

	if p.notice != "" {
		style := styles.TextMutedStyle
		if p.isError {
			style = styles.ErrorStyle
		}
		lines = append(lines, "", style.Render(utils.TruncateToWidth(p.notice, width)))
	}

	lines = append(lines, "", styles.FooterStyle.Render(p.footer()))
	return strings.Join(lines, "\n")
}

func (p *Panel) listLines(width int) []string {
	if !p.searched {
		return []string{styles.TextMutedStyle.Render(notSearchedText)}
	}
	if len(p.results) == 0 {
		return []string{styles.TextMutedStyle.Render(noResultsText)}
	}

	lines := make([]string, 0, len(p.results))
	for i, r := range p.results {
		text := fmt.Sprintf("%d. %s", i+1, r.Title)
		if r.ReadyInMinutes > 0 {
			text += fmt.Sprintf("（%d 分鐘）", r.ReadyInMinutes)
		}
		text = utils.TruncateToWidth(text, width-2)
		if p.focus == focusList && i == p.selected {
			lines = append(lines, styles.SelectedStyle.Render("▶ "+text))
		} else {
			lines = append(lines, "  "+styles.TextStyle.Render(text))
		}
	}
	return lines
}

func (p *Panel) detailLines(width int) []string {
	d := p.detail
	lines := []string{
		styles.TextMutedStyle.Render("← 返回列表 (Esc)"),
		"",
		styles.TextBoldStyle.Render(utils.TruncateToWidth(d.Title, width)),
	}
	if d.Image != "" {
		lines = append(lines, styles.LinkStyle.Render(utils.TruncateToWidth(d.Image, width)))
	}
	lines = append(lines, "")
	for _, line := range utils.WrapText(d.SummaryText(), width) {
		lines = append(lines, styles.TextStyle.Render(line))
	}
	lines = append(lines, "",
		styles.TextStyle.Render(fmt.Sprintf("份量：%d • 時間：%d 分鐘", d.Servings, d.ReadyInMinutes)),
	)
	if d.SourceURL != "" {
		lines = append(lines, "前往原始食譜："+styles.LinkStyle.Render(utils.TruncateToWidth(d.SourceURL, width)))
	}

	if p.height > 0 && len(lines) > p.height-4 {
		lines = lines[:max(p.height-4, 1)]
	}
	return lines
}

func (p *Panel) footer() string {
	switch {
	case p.detail != nil:
		return "Esc 返回列表 • Ctrl+Y 複製原始食譜連結"
	case p.focus == focusList:
		return "↑↓ 選擇 • Enter 查看詳情 • Ctrl+Y 複製連結 • / 重新搜尋"
	default:
		return "Enter 搜尋 • ↓ 進入結果列表"
	}
}
