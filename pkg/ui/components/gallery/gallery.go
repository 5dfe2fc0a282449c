// Package gallery is the random cat picture tab.
package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"healthchat/pkg/images"
	"healthchat/pkg/ui/components/utils"
	"healthchat/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
)

const (
	title       = "🐱 貓咪圖片"
	loadingText = "載入中..."
	failedText  = "取得貓咪圖片失敗"
	emptyText   = "按 Enter 取得一張貓咪圖片"
	copiedText  = "已複製圖片網址"
)

// Fetcher returns one random image.
type Fetcher interface {
	Random(ctx context.Context) (images.Image, error)
}

// ResultMsg carries a finished fetch.
type ResultMsg struct {
	Seq   uint64
	Image images.Image
	Err   error
}

// Panel is the gallery tab.
type Panel struct {
	fetcher Fetcher
	ctx     context.Context

	image   *images.Image
	loading bool
	failed  bool
	notice  string
	seq     uint64
	width   int
}

// New creates the panel.
func New(ctx context.Context, fetcher Fetcher) *Panel {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Panel{fetcher: fetcher, ctx: ctx}
}

// SetSize sets the panel width.
func (p *Panel) SetSize(width, _ int) {
	p.width = width
}

// Image returns the image on display, if any.
func (p *Panel) Image() (images.Image, bool) {
	if p.image == nil {
		return images.Image{}, false
	}
	return *p.image, true
}

// Loading reports whether a fetch is in flight.
func (p *Panel) Loading() bool {
	return p.loading
}

// Fetch starts a new request. The panel may call it on first show.
func (p *Panel) Fetch() tea.Cmd {
	if p.fetcher == nil {
		p.failed = true
		return nil
	}
	p.seq++
	seq := p.seq
	p.loading = true
	p.failed = false
	p.notice = ""

	fetcher, ctx := p.fetcher, p.ctx
	return func() tea.Msg {
		img, err := fetcher.Random(ctx)
		return ResultMsg{Seq: seq, Image: img, Err: err}
	}
}

// Update handles keys and fetch results.
func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ResultMsg:
		if msg.Seq != p.seq {
			slog.Debug("gallery_stale_result", "seq", msg.Seq, "current", p.seq)
			return nil
		}
		p.loading = false
		if msg.Err != nil {
			p.failed = true
			return nil
		}
		img := msg.Image
		p.image = &img
		return nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter", "r", "space", " ":
			if p.loading {
				return nil
			}
			return p.Fetch()
		case "ctrl+y":
			if p.image == nil {
				return nil
			}
			p.notice = copiedText
			return utils.CopyToClipboard(p.image.URL)
		}
	}
	return nil
}

// View renders the panel.
func (p *Panel) View() string {
	width := p.width
	if width <= 0 {
		width = 80
	}

	lines := []string{styles.TitleStyle.Render(title), ""}
	switch {
	case p.loading:
		lines = append(lines, styles.TextMutedStyle.Render(loadingText))
	case p.failed:
		lines = append(lines, styles.ErrorStyle.Render(failedText))
	case p.image != nil:
		lines = append(lines, styles.LinkStyle.Render(utils.TruncateToWidth(p.image.URL, width)))
		if p.image.Width > 0 && p.image.Height > 0 {
			lines = append(lines, styles.TextMutedStyle.Render(fmt.Sprintf("%d × %d", p.image.Width, p.image.Height)))
		}
	default:
		lines = append(lines, styles.TextMutedStyle.Render(emptyText))
	}

	if p.notice != "" {
		lines = append(lines, "", styles.SuccessStyle.Render(p.notice))
	}
	lines = append(lines, "", styles.FooterStyle.Render("Enter / R 換一張 • Ctrl+Y 複製網址"))
	return strings.Join(lines, "\n")
}
