package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// ClipboardOutput receives OSC52 sequences. Tests may replace it.
var ClipboardOutput io.Writer = os.Stdout

// CopyToClipboard returns a command that copies text through the terminal
// using OSC52. Empty text is ignored.
func CopyToClipboard(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	out := ClipboardOutput
	return func() tea.Msg {
		if _, err := fmt.Fprint(out, osc52.New(text)); err != nil {
			slog.Debug("clipboard_copy_error", "error", err)
		}
		return nil
	}
}
