package chat

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"healthchat/pkg/conversation"
	"healthchat/pkg/transcript"
	"healthchat/pkg/ui/components/testutils"
	"healthchat/pkg/ui/components/utils"
)

var quickPrompts = []string{"一週健康菜單", "減脂早餐", "高蛋白晚餐"}

func plainLines(p *Panel) string {
	return utils.StripANSI(strings.Join(p.TranscriptLines(), "\n"))
}

func newTestPanel() *Panel {
	p := New(quickPrompts)
	p.SetSize(60, 20)
	p.SetConversation([]transcript.Turn{transcript.ModelTurn("歡迎")}, "", conversation.Idle)
	return p
}

func TestPanel_QuickPromptFillsInput(t *testing.T) {
	p := newTestPanel()

	cmd := p.Update(testutils.TestKeyAlt2)
	if cmd != nil {
		if _, ok := cmd().(SubmitMsg); ok {
			t.Fatal("Quick prompt must not auto-send")
		}
	}
	if p.Input() != "減脂早餐" {
		t.Errorf("Expected input filled with prompt, got %q", p.Input())
	}

	p.Update(testutils.NewAltKeyPressMsg('9'))
	if p.Input() != "減脂早餐" {
		t.Errorf("Out-of-range shortcut should not change input, got %q", p.Input())
	}
}

func TestPanel_EnterSubmits(t *testing.T) {
	p := newTestPanel()
	p.HandlePaste("  多吃什麼比較好？ ")

	cmd := p.Update(testutils.TestKeyEnter)
	if cmd == nil {
		t.Fatal("Expected submit command")
	}
	msg, ok := cmd().(SubmitMsg)
	if !ok {
		t.Fatalf("Expected SubmitMsg, got %T", cmd())
	}
	if msg.Text != "多吃什麼比較好？" {
		t.Errorf("Expected trimmed text, got %q", msg.Text)
	}
	if p.Input() == "" {
		t.Error("Input should only be cleared once the submission is accepted")
	}

	p.ClearInput()
	if p.Input() != "" {
		t.Errorf("Expected cleared input, got %q", p.Input())
	}
}

func TestPanel_EnterIgnoredWhenEmpty(t *testing.T) {
	p := newTestPanel()
	if cmd := p.Update(testutils.TestKeyEnter); cmd != nil {
		t.Error("Expected no command for empty input")
	}
}

func TestPanel_EnterWhileBusy(t *testing.T) {
	p := newTestPanel()
	p.SetConversation([]transcript.Turn{transcript.ModelTurn("歡迎"), transcript.UserTurn("q")}, "", conversation.AwaitingCompletion)
	p.HandlePaste("second")

	if cmd := p.Update(testutils.TestKeyEnter); cmd != nil {
		t.Fatal("Expected no submission while awaiting a reply")
	}
	if !strings.Contains(utils.StripANSI(p.View()), busyNotice) {
		t.Error("Expected busy notice in view")
	}

	p.SetConversation(p.turns, "", conversation.Idle)
	if strings.Contains(utils.StripANSI(p.View()), busyNotice) {
		t.Error("Busy notice should clear when idle")
	}
}

func TestPanel_RendersTranscript(t *testing.T) {
	p := newTestPanel()
	p.SetConversation([]transcript.Turn{
		transcript.ModelTurn("歡迎"),
		transcript.UserTurn("幫我安排一餐健康的菜餚"),
		transcript.ModelTurn("吃沙拉"),
	}, "", conversation.Idle)

	got := plainLines(p)
	for _, want := range []string{"AI：歡迎", "你：幫我安排一餐健康的菜餚", "AI：吃沙拉"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in transcript:\n%s", want, got)
		}
	}
	if strings.Contains(got, thinkingLine) {
		t.Error("Thinking indicator should not show when idle")
	}
}

func TestPanel_ThinkingAndPartial(t *testing.T) {
	p := newTestPanel()
	turns := []transcript.Turn{transcript.ModelTurn("歡迎"), transcript.UserTurn("hi")}

	p.SetConversation(turns, "", conversation.AwaitingCompletion)
	if !strings.Contains(plainLines(p), thinkingLine) {
		t.Error("Expected thinking indicator while awaiting")
	}

	p.SetConversation(turns, "吃", conversation.Revealing)
	got := plainLines(p)
	if !strings.Contains(got, "AI：吃"+revealCursor) {
		t.Errorf("Expected partial reply with cursor, got:\n%s", got)
	}
	if strings.Contains(got, thinkingLine) {
		t.Error("Thinking indicator should be replaced by the partial reply")
	}
}

func TestPanel_WrapsLongTurns(t *testing.T) {
	p := New(nil)
	p.SetSize(20, 10)
	p.SetConversation([]transcript.Turn{transcript.ModelTurn(strings.Repeat("蔬", 30))}, "", conversation.Idle)

	lines := p.TranscriptLines()
	if len(lines) < 3 {
		t.Fatalf("Expected long turn to wrap, got %d lines", len(lines))
	}
	if !strings.HasPrefix(utils.StripANSI(lines[1]), "    ") {
		t.Errorf("Expected continuation indented under prefix, got %q", utils.StripANSI(lines[1]))
	}
}

func TestPanel_CopyLastReply(t *testing.T) {
	var buf bytes.Buffer
	old := utils.ClipboardOutput
	utils.ClipboardOutput = &buf
	t.Cleanup(func() { utils.ClipboardOutput = old })

	p := newTestPanel()
	p.SetConversation([]transcript.Turn{
		transcript.ModelTurn("歡迎"),
		transcript.UserTurn("q"),
		transcript.ModelTurn("多喝水"),
	}, "", conversation.Idle)

	cmd := p.Update(testutils.TestKeyCtrlY)
	if cmd == nil {
		t.Fatal("Expected copy command")
	}
	cmd()

	encoded := base64.StdEncoding.EncodeToString([]byte("多喝水"))
	if !strings.Contains(buf.String(), encoded) {
		t.Errorf("Expected OSC52 payload for last reply, got %q", buf.String())
	}
}
