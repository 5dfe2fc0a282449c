// Package ui is the Bubble Tea front end: a home page that collects the API
// key and a tabbed chat page with recipe search and a cat gallery.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"healthchat/pkg/ai"
	"healthchat/pkg/completion"
	"healthchat/pkg/config"
	"healthchat/pkg/conversation"
	"healthchat/pkg/credential"
	"healthchat/pkg/reveal"
	"healthchat/pkg/ui/components/chat"
	"healthchat/pkg/ui/components/gallery"
	"healthchat/pkg/ui/components/home"
	"healthchat/pkg/ui/components/picker"
	"healthchat/pkg/ui/components/recipes"
	"healthchat/pkg/ui/components/statusbar"
	"healthchat/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
)

type page int

const (
	pageHome page = iota
	pageChat
)

type tab int

const (
	tabChat tab = iota
	tabRecipes
	tabGallery
	tabCount
)

var tabTitles = [tabCount]string{"AI聊天", "食譜查詢", "貓咪圖片"}

const (
	appTitle  = "🥗 健康飲食小助手"
	chatHint  = "Tab 切換分頁 • Ctrl+P 快速提問 • Esc 返回首頁 • Ctrl+C 離開"
	homeHint  = "Tab 切換欄位 • Enter 開始 • Ctrl+C 離開"
	saveError = "無法儲存 API Key："
)

// CompleterFactory builds the completion backend for a key.
type CompleterFactory func(cfg config.Config, apiKey string) (completion.Completer, error)

// DefaultCompleterFactory builds a completion.Client from the app config.
func DefaultCompleterFactory(cfg config.Config, apiKey string) (completion.Completer, error) {
	return completion.New(completion.FromAppConfig(cfg, apiKey))
}

// Options wires the model to its backends.
type Options struct {
	Config     config.Config
	ConfigPath string
	Credential *credential.Setting

	NewCompleter CompleterFactory
	Recipes      recipes.Searcher
	Images       gallery.Fetcher

	// Context bounds every request the UI starts.
	Context context.Context
}

// completionDoneMsg and revealTickMsg are tagged with the session that
// issued them; a new chat entry or a reset invalidates older ones.
type completionDoneMsg struct {
	session string
	result  conversation.Result
}

type revealTickMsg struct {
	session string
	tick    reveal.Tick
}

// Model is the root Bubble Tea model.
type Model struct {
	opts   Options
	cfg    config.Config
	ctx    context.Context
	layout *LayoutManager
	status *statusbar.StatusBarView

	page page
	tab  tab

	home    *home.Form
	convo   *conversation.Controller
	chat    *chat.Panel
	prompts *picker.Panel
	recipes *recipes.Panel
	gallery *gallery.Panel

	galleryShown bool
}

// NewModel creates the root model on the home page.
func NewModel(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.NewCompleter == nil {
		opts.NewCompleter = DefaultCompleterFactory
	}
	if opts.Credential == nil {
		opts.Credential = credential.NewSetting(nil, ai.CredentialNameFor(ai.ProviderType(opts.Config.LLMProvider)))
	}

	m := Model{
		opts:    opts,
		cfg:     opts.Config,
		ctx:     opts.Context,
		layout:  NewLayoutManager(),
		status:  statusbar.NewStatusBarView(),
		chat:    chat.New(opts.Config.Assistant.QuickPrompts),
		prompts: picker.New("快速提問"),
		recipes: recipes.New(opts.Context, opts.Recipes),
		gallery: gallery.New(opts.Context, opts.Images),
	}
	m.home = m.newHomeForm()
	m.syncStatus()
	return m
}

func (m Model) newHomeForm() *home.Form {
	f := home.New(m.cfg.ActiveModel(), m.opts.Credential.Value(), m.opts.Credential.Remember(), providerName(m.cfg.LLMProvider))
	width, _ := m.layout.GetDimensions()
	f.SetWidth(width)
	return f
}

func providerName(provider string) string {
	if provider == "" || provider == config.ProviderGoogle {
		return "Gemini"
	}
	if info, ok := ai.GetProviderInfo(ai.ProviderType(provider)); ok {
		return info.Name
	}
	return provider
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.PasteMsg:
		m.handlePaste(msg.Content)
		return m, nil

	case home.StartMsg:
		return m.start(msg)

	case chat.SubmitMsg:
		cmd := m.submit(msg.Text)
		return m, cmd

	case completionDoneMsg:
		if !m.currentSession(msg.session) {
			slog.Debug("ui_completion_stale", "session_id", msg.session)
			return m, nil
		}
		tick, ok := m.convo.Resolve(msg.result)
		m.syncChat()
		if !ok {
			return m, nil
		}
		return m, m.scheduleReveal(msg.session, tick)

	case revealTickMsg:
		if !m.currentSession(msg.session) {
			return m, nil
		}
		next, ok := m.convo.Advance(msg.tick)
		m.syncChat()
		if !ok {
			return m, nil
		}
		return m, m.scheduleReveal(msg.session, next)

	case recipes.SearchResultMsg, recipes.DetailResultMsg:
		return m, m.recipes.Update(msg)

	case gallery.ResultMsg:
		return m, m.gallery.Update(msg)

	case picker.SelectMsg:
		m.tab = tabChat
		m.chat.SetInput(msg.Value)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		slog.Info("ui_quit")
		return m, tea.Quit
	}

	if m.page == pageHome {
		return m, m.home.Update(msg)
	}
	if m.prompts.IsVisible() {
		return m, m.prompts.Update(msg)
	}

	switch key {
	case "ctrl+p":
		if m.tab == tabChat {
			m.prompts.Show(m.cfg.Assistant.QuickPrompts)
			return m, nil
		}
	case "tab":
		cmd := m.switchTab((m.tab + 1) % tabCount)
		return m, cmd
	case "shift+tab":
		cmd := m.switchTab((m.tab + tabCount - 1) % tabCount)
		return m, cmd
	case "esc":
		if m.tab == tabRecipes && m.recipes.InDetail() {
			return m, m.recipes.Update(msg)
		}
		m.leaveChat()
		return m, nil
	}

	switch m.tab {
	case tabRecipes:
		return m, m.recipes.Update(msg)
	case tabGallery:
		return m, m.gallery.Update(msg)
	default:
		return m, m.chat.Update(msg)
	}
}

func (m *Model) handlePaste(content string) {
	if m.page == pageHome {
		m.home.HandlePaste(content)
		return
	}
	switch m.tab {
	case tabRecipes:
		m.recipes.HandlePaste(content)
	case tabChat:
		m.chat.HandlePaste(content)
	}
}

func (m *Model) switchTab(t tab) tea.Cmd {
	m.tab = t
	m.syncStatus()
	if t == tabGallery && !m.galleryShown {
		m.galleryShown = true
		return m.gallery.Fetch()
	}
	return nil
}

func (m Model) start(msg home.StartMsg) (tea.Model, tea.Cmd) {
	var notices []string

	if msg.Model != "" && msg.Model != m.cfg.ActiveModel() {
		m.cfg.SetActiveModel(msg.Model)
		if m.opts.ConfigPath != "" {
			if err := config.Save(m.opts.ConfigPath, m.cfg); err != nil {
				slog.Warn("ui_config_save_error", "error", err)
				notices = append(notices, "無法儲存設定："+err.Error())
			}
		}
	}

	cred := m.opts.Credential
	if err := cred.Set(msg.APIKey); err != nil {
		slog.Warn("ui_credential_save_error", "error", err)
		notices = append(notices, saveError+err.Error())
	}
	if err := cred.SetRemember(msg.Remember); err != nil {
		slog.Warn("ui_credential_remember_error", "error", err)
		notices = append(notices, saveError+err.Error())
	}

	completer, err := m.opts.NewCompleter(m.cfg, cred.Value())
	if err != nil {
		slog.Error("ui_completer_error", "error", err)
		m.home.SetNotice(fmt.Sprintf("無法建立 AI 連線：%v", err))
		return m, nil
	}

	m.convo = conversation.New(completer, conversation.Options{
		Welcome:           m.cfg.Assistant.WelcomeMessage,
		Model:             m.cfg.ActiveModel(),
		SystemInstruction: m.cfg.Assistant.SystemPrompt,
		RevealInterval:    time.Duration(m.cfg.Assistant.RevealIntervalMs) * time.Millisecond,
	})
	m.chat = chat.New(m.cfg.Assistant.QuickPrompts)
	m.page = pageChat
	m.tab = tabChat
	m.resize(m.layout.GetDimensions())
	m.syncChat()
	if len(notices) > 0 {
		m.status.SetMessage(strings.Join(notices, "；"))
	}

	slog.Info("ui_chat_started",
		"session_id", m.convo.SessionID(),
		"model", m.cfg.ActiveModel(),
		"remember", cred.Remember(),
	)
	return m, nil
}

func (m *Model) submit(text string) tea.Cmd {
	if m.convo == nil {
		return nil
	}
	pending, ok := m.convo.Submit(text)
	if !ok {
		if !m.convo.Configured() {
			m.chat.SetNotice("請先回首頁輸入 API Key")
		}
		return nil
	}
	m.chat.ClearInput()
	m.syncChat()

	session, ctx := m.convo.SessionID(), m.ctx
	return func() tea.Msg {
		return completionDoneMsg{session: session, result: pending.Run(ctx)}
	}
}

func (m *Model) scheduleReveal(session string, tick reveal.Tick) tea.Cmd {
	return tea.Tick(m.convo.RevealInterval(), func(time.Time) tea.Msg {
		return revealTickMsg{session: session, tick: tick}
	})
}

func (m *Model) currentSession(session string) bool {
	return m.convo != nil && m.page == pageChat && m.convo.SessionID() == session
}

func (m *Model) leaveChat() {
	if m.convo != nil {
		m.convo.Reset()
	}
	m.convo = nil
	m.prompts.Hide()
	m.page = pageHome
	m.tab = tabChat
	m.home = m.newHomeForm()
	m.status.SetMessage("")
	m.syncStatus()
}

func (m *Model) syncChat() {
	if m.convo == nil {
		return
	}
	m.chat.SetConversation(m.convo.Transcript(), m.convo.Partial(), m.convo.State())
}

func (m *Model) syncStatus() {
	m.status.SetModel(m.cfg.ActiveModel())
	cred := m.opts.Credential
	switch {
	case cred.Value() == "":
		m.status.SetKeySource(statusbar.KeyMissing)
	case cred.FromEnv():
		m.status.SetKeySource(statusbar.KeyEnvironment)
	case cred.Remember():
		m.status.SetKeySource(statusbar.KeyRemembered)
	default:
		m.status.SetKeySource(statusbar.KeySession)
	}
	if m.page == pageHome {
		m.status.SetHint(homeHint)
	} else {
		m.status.SetHint(chatHint)
	}
}

func (m *Model) resize(width, height int) {
	m.layout.SetSize(width, height)
	m.status.SetWidth(width)
	m.home.SetWidth(width)

	h := m.layout.ContentHeight()
	m.chat.SetSize(width, h)
	m.prompts.SetSize(width, h)
	m.recipes.SetSize(width, h)
	m.gallery.SetSize(width, h)
}

// View implements tea.Model.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	m.syncStatus()
	var content string
	switch {
	case m.page == pageHome:
		content = m.home.View()
	case m.prompts.IsVisible():
		content = m.prompts.View()
	case m.tab == tabRecipes:
		content = m.recipes.View()
	case m.tab == tabGallery:
		content = m.gallery.View()
	default:
		content = m.chat.View()
	}
	return m.layout.RenderLayout(m.header(), content, m.status.Render())
}

func (m Model) header() string {
	title := styles.TitleStyle.Render(appTitle)
	if m.page == pageHome {
		return title + "\n"
	}
	parts := make([]string, 0, tabCount)
	for i, name := range tabTitles {
		if tab(i) == m.tab {
			parts = append(parts, styles.TabActiveStyle.Render(name))
		} else {
			parts = append(parts, styles.TabInactiveStyle.Render(name))
		}
	}
	return title + "  " + strings.Join(parts, " ") + "\n"
}

// InChat reports whether the chat page is showing.
func (m Model) InChat() bool {
	return m.page == pageChat
}

// Conversation returns the active controller, nil on the home page.
func (m Model) Conversation() *conversation.Controller {
	return m.convo
}
