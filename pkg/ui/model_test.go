package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"healthchat/pkg/completion"
	"healthchat/pkg/config"
	"healthchat/pkg/conversation"
	"healthchat/pkg/credential"
	"healthchat/pkg/images"
	"healthchat/pkg/transcript"
	"healthchat/pkg/ui/components/chat"
	"healthchat/pkg/ui/components/home"
	"healthchat/pkg/ui/components/testutils"
	"healthchat/pkg/ui/components/utils"

	tea "charm.land/bubbletea/v2"
)

type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (s *stubCompleter) Configured() bool { return true }

func (s *stubCompleter) Complete(ctx context.Context, model, systemInstruction string, history []transcript.Turn, userText string) (string, error) {
	s.calls++
	return s.reply, s.err
}

type stubFetcher struct {
	calls int
}

func (s *stubFetcher) Random(ctx context.Context) (images.Image, error) {
	s.calls++
	return images.Image{URL: "https://cdn2.thecatapi.com/images/x.jpg"}, nil
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Assistant.WelcomeMessage = "歡迎"
	cfg.Assistant.RevealIntervalMs = 1
	return cfg
}

func newTestModel(t *testing.T, completer *stubCompleter) (Model, *credential.Setting) {
	t.Helper()
	t.Setenv(credential.EnvAPIKey, "")
	store := credential.NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	setting := credential.NewSetting(store, "gemini_api_key")

	m := NewModel(Options{
		Config:     testConfig(),
		Credential: setting,
		NewCompleter: func(cfg config.Config, apiKey string) (completion.Completer, error) {
			return completer, nil
		},
		Images: &stubFetcher{},
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return updated.(Model), setting
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// drain runs cmd and feeds every resulting message back until no command
// is left.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 1000 {
			t.Fatal("command chain did not terminate")
		}
		msg := cmd()
		if msg == nil {
			return m
		}
		m, cmd = update(t, m, msg)
	}
	return m
}

func startChat(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, home.StartMsg{Model: "gemini-2.5-flash", APIKey: "k-123", Remember: false})
	if !m.InChat() {
		t.Fatal("Expected chat page after start")
	}
	return m
}

func TestModel_StartsOnHome(t *testing.T) {
	m, _ := newTestModel(t, &stubCompleter{})

	if m.InChat() {
		t.Fatal("Expected home page")
	}
	if m.Conversation() != nil {
		t.Error("No conversation before start")
	}
	if !strings.Contains(utils.StripANSI(m.render()), "開始聊天") {
		t.Error("Expected start button on home page")
	}
}

func TestModel_HomeRejectsEmptyKey(t *testing.T) {
	m, _ := newTestModel(t, &stubCompleter{})

	// key -> remember -> start
	for i := 0; i < 2; i++ {
		m, _ = update(t, m, testutils.TestKeyTab)
	}
	m, cmd := update(t, m, testutils.TestKeyEnter)
	m = drain(t, m, cmd)

	if m.InChat() {
		t.Error("Empty key must not start the chat")
	}
	if !strings.Contains(utils.StripANSI(m.render()), "請先輸入有效的 Gemini API Key") {
		t.Error("Expected missing key message")
	}
}

func TestModel_FullConversationRoundTrip(t *testing.T) {
	stub := &stubCompleter{reply: "吃沙拉"}
	m, _ := newTestModel(t, stub)
	m = startChat(t, m)

	turns := m.Conversation().Transcript()
	if len(turns) != 1 || turns[0].Text != "歡迎" {
		t.Fatalf("Expected seeded welcome turn, got %+v", turns)
	}

	m, cmd := update(t, m, chat.SubmitMsg{Text: "幫我安排一餐健康的菜餚"})
	if cmd == nil {
		t.Fatal("Expected completion command")
	}
	if m.Conversation().State() != conversation.AwaitingCompletion {
		t.Errorf("Expected awaiting state, got %v", m.Conversation().State())
	}
	if !strings.Contains(utils.StripANSI(m.render()), "思考中") {
		t.Error("Expected thinking indicator while awaiting")
	}

	m = drain(t, m, cmd)

	turns = m.Conversation().Transcript()
	if len(turns) != 3 {
		t.Fatalf("Expected 3 turns, got %d: %+v", len(turns), turns)
	}
	if turns[1].Role != transcript.RoleUser || turns[1].Text != "幫我安排一餐健康的菜餚" {
		t.Errorf("Unexpected user turn %+v", turns[1])
	}
	if turns[2].Role != transcript.RoleModel || turns[2].Text != "吃沙拉" {
		t.Errorf("Unexpected model turn %+v", turns[2])
	}
	if m.Conversation().State() != conversation.Idle {
		t.Errorf("Expected idle after reveal, got %v", m.Conversation().State())
	}
	if stub.calls != 1 {
		t.Errorf("Expected 1 completion call, got %d", stub.calls)
	}
}

func TestModel_CompletionError(t *testing.T) {
	m, _ := newTestModel(t, &stubCompleter{err: errors.New("upstream down")})
	m = startChat(t, m)

	m, cmd := update(t, m, chat.SubmitMsg{Text: "hi"})
	m = drain(t, m, cmd)

	last, ok := m.Conversation().LastReply()
	if !ok || last != conversation.ErrorReply {
		t.Errorf("Expected error reply turn, got %q", last)
	}
}

func TestModel_EscDropsLateResult(t *testing.T) {
	m, _ := newTestModel(t, &stubCompleter{reply: "late"})
	m = startChat(t, m)

	m, cmd := update(t, m, chat.SubmitMsg{Text: "hi"})
	m, _ = update(t, m, testutils.TestKeyEsc)
	if m.InChat() {
		t.Fatal("Esc should return to home")
	}

	m = startChat(t, m)
	m = drain(t, m, cmd)

	turns := m.Conversation().Transcript()
	if len(turns) != 1 {
		t.Errorf("Late result from a previous session must be dropped, got %+v", turns)
	}
}

func TestModel_TabSwitchingFetchesGalleryOnce(t *testing.T) {
	fetcher := &stubFetcher{}
	t.Setenv(credential.EnvAPIKey, "")
	m := NewModel(Options{
		Config: testConfig(),
		NewCompleter: func(cfg config.Config, apiKey string) (completion.Completer, error) {
			return &stubCompleter{}, nil
		},
		Images: fetcher,
	})
	m = startChat(t, m)

	m, _ = update(t, m, testutils.TestKeyTab)
	if m.tab != tabRecipes {
		t.Fatalf("Expected recipes tab, got %d", m.tab)
	}
	m, cmd := update(t, m, testutils.TestKeyTab)
	if m.tab != tabGallery {
		t.Fatalf("Expected gallery tab, got %d", m.tab)
	}
	m = drain(t, m, cmd)

	m, _ = update(t, m, testutils.TestKeyShiftTab)
	m, cmd = update(t, m, testutils.TestKeyTab)
	if cmd != nil {
		t.Error("Gallery should only auto-fetch on first show")
	}
	if fetcher.calls != 1 {
		t.Errorf("Expected 1 fetch, got %d", fetcher.calls)
	}
	if !strings.Contains(utils.StripANSI(m.render()), "x.jpg") {
		t.Error("Expected fetched image URL in view")
	}
}

func TestModel_RememberPersistsKey(t *testing.T) {
	m, setting := newTestModel(t, &stubCompleter{})

	m, _ = update(t, m, home.StartMsg{APIKey: "k-remember", Remember: true})
	if !m.InChat() {
		t.Fatal("Expected chat page")
	}
	if !setting.Remember() || setting.Value() != "k-remember" {
		t.Errorf("Expected remembered key, got %q remember=%v", setting.Value(), setting.Remember())
	}

	m, _ = update(t, m, testutils.TestKeyEsc)
	m, _ = update(t, m, home.StartMsg{APIKey: "k-remember", Remember: false})
	if setting.Remember() {
		t.Error("Expected remember to be turned off")
	}
}

func TestModel_QuickPromptPicker(t *testing.T) {
	m, _ := newTestModel(t, &stubCompleter{})
	m = startChat(t, m)

	m, _ = update(t, m, testutils.NewCtrlKeyPressMsg('p'))
	if !m.prompts.IsVisible() {
		t.Fatal("Expected prompt picker to open")
	}
	m, _ = update(t, m, testutils.TestKeyDown)
	m, cmd := update(t, m, testutils.TestKeyEnter)
	m = drain(t, m, cmd)

	if m.prompts.IsVisible() {
		t.Error("Expected picker closed after selection")
	}
	want := testConfig().Assistant.QuickPrompts[1]
	if m.chat.Input() != want {
		t.Errorf("Expected input %q, got %q", want, m.chat.Input())
	}
	if len(m.Conversation().Transcript()) != 1 {
		t.Error("Choosing a quick prompt must not send it")
	}
}

func TestModel_CtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t, &stubCompleter{})

	_, cmd := update(t, m, testutils.TestKeyCtrlC)
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}

func TestModel_ViewUsesAltScreen(t *testing.T) {
	m, _ := newTestModel(t, &stubCompleter{})
	if !m.View().AltScreen {
		t.Error("Expected alt screen view")
	}
}
