package home

import (
	"strings"
	"testing"

	"healthchat/pkg/ui/components/testutils"
	"healthchat/pkg/ui/components/utils"

	tea "charm.land/bubbletea/v2"
)

func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestForm_StartWithoutKeyShowsGuard(t *testing.T) {
	f := New("gemini-2.5-flash", "", false, "Gemini")

	// focus: key -> remember -> start
	f.Update(testutils.TestKeyTab)
	f.Update(testutils.TestKeyTab)
	if msg := runCmd(f.Update(testutils.TestKeyEnter)); msg != nil {
		t.Fatalf("Expected no start message, got %T", msg)
	}
	if f.Error() != "請先輸入有效的 Gemini API Key" {
		t.Errorf("Unexpected error %q", f.Error())
	}
	if !strings.Contains(utils.StripANSI(f.View()), "請先輸入有效的 Gemini API Key") {
		t.Error("Expected guard message in view")
	}
}

func TestForm_StartWithKey(t *testing.T) {
	f := New("gemini-2.5-flash", "", false, "Gemini")

	testutils.TypeText(func(msg tea.KeyPressMsg) { f.Update(msg) }, "my-key")
	f.Update(testutils.TestKeyTab)
	f.Update(testutils.TestKeySpace)

	msg := runCmd(f.Update(testutils.TestKeyShiftTab))
	if msg != nil {
		t.Fatalf("Navigation must not start, got %T", msg)
	}

	start, ok := runCmd(f.Update(testutils.TestKeyEnter)).(StartMsg)
	if !ok {
		t.Fatal("Expected StartMsg from enter on key field")
	}
	if start.APIKey != "my-key" || start.Model != "gemini-2.5-flash" || !start.Remember {
		t.Errorf("Unexpected start message %+v", start)
	}
	if f.Error() != "" {
		t.Errorf("Expected error cleared, got %q", f.Error())
	}
}

func TestForm_EditModel(t *testing.T) {
	f := New("gemini-2.5-flash", "k", true, "Gemini")

	f.Update(testutils.TestKeyUp)
	for range "flash" {
		f.Update(testutils.TestKeyBackspace)
	}
	testutils.TypeText(func(msg tea.KeyPressMsg) { f.Update(msg) }, "pro")
	f.Update(testutils.TestKeyEnter) // model -> key

	start, ok := runCmd(f.Update(testutils.TestKeyEnter)).(StartMsg)
	if !ok {
		t.Fatal("Expected StartMsg")
	}
	if start.Model != "gemini-2.5-pro" {
		t.Errorf("Expected edited model, got %q", start.Model)
	}
}

func TestForm_KeyIsMasked(t *testing.T) {
	f := New("m", "super-secret-key", false, "Gemini")
	view := utils.StripANSI(f.View())
	if strings.Contains(view, "super-secret-key") {
		t.Fatal("API key must be masked in the view")
	}
	if !strings.Contains(view, "Gemini API Key") {
		t.Error("Expected key label in view")
	}
}

func TestForm_Paste(t *testing.T) {
	f := New("m", "", false, "Gemini")
	f.HandlePaste("pasted-key\n")

	start, ok := runCmd(f.Update(testutils.TestKeyEnter)).(StartMsg)
	if !ok {
		t.Fatal("Expected StartMsg")
	}
	if start.APIKey != "pasted-key" {
		t.Errorf("Expected pasted key, got %q", start.APIKey)
	}
}
