// Package field is a single-line text input with a block cursor.
package field

import (
	"strings"

	"healthchat/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
)

// Field holds an editable value. Masked fields render bullets instead of
// their content.
type Field struct {
	Label       string
	Placeholder string
	Masked      bool

	value   string
	cursor  int
	focused bool
}

// New creates an empty field.
func New(label, placeholder string) *Field {
	return &Field{Label: label, Placeholder: placeholder}
}

// Value returns the current content.
func (f *Field) Value() string {
	return f.value
}

// SetValue replaces the content and moves the cursor to the end.
func (f *Field) SetValue(v string) {
	f.value = stripNewlines(v)
	f.cursor = len([]rune(f.value))
}

// Reset clears the content.
func (f *Field) Reset() {
	f.value = ""
	f.cursor = 0
}

func (f *Field) Focus() {
	f.focused = true
}

func (f *Field) Blur() {
	f.focused = false
}

func (f *Field) Focused() bool {
	return f.focused
}

// Update applies an editing key. It reports whether the key was consumed.
func (f *Field) Update(msg tea.KeyPressMsg) bool {
	if !f.focused {
		return false
	}

	runes := []rune(f.value)
	if f.cursor > len(runes) {
		f.cursor = len(runes)
	}

	switch msg.String() {
	case "backspace":
		if f.cursor > 0 {
			runes = append(runes[:f.cursor-1], runes[f.cursor:]...)
			f.cursor--
			f.value = string(runes)
		}
		return true

	case "delete":
		if f.cursor < len(runes) {
			runes = append(runes[:f.cursor], runes[f.cursor+1:]...)
			f.value = string(runes)
		}
		return true

	case "left":
		if f.cursor > 0 {
			f.cursor--
		}
		return true

	case "right":
		if f.cursor < len(runes) {
			f.cursor++
		}
		return true

	case "home", "ctrl+a":
		f.cursor = 0
		return true

	case "end", "ctrl+e":
		f.cursor = len(runes)
		return true

	case "ctrl+u":
		f.value = string(runes[f.cursor:])
		f.cursor = 0
		return true
	}

	text := msg.Key().Text
	if text == "" {
		return false
	}
	f.insert(text)
	return true
}

// InsertString inserts pasted text at the cursor.
func (f *Field) InsertString(text string) {
	f.insert(text)
}

func (f *Field) insert(text string) {
	filtered := []rune(stripNewlines(text))
	if len(filtered) == 0 {
		return
	}
	runes := []rune(f.value)
	if f.cursor > len(runes) {
		f.cursor = len(runes)
	}
	runes = append(runes[:f.cursor], append(filtered, runes[f.cursor:]...)...)
	f.cursor += len(filtered)
	f.value = string(runes)
}

// View renders the value, the cursor when focused, or the placeholder.
func (f *Field) View() string {
	shown := f.value
	if f.Masked {
		shown = strings.Repeat("•", len([]rune(f.value)))
	}
	if f.focused {
		return styles.EditStyle.Render(renderEditValue(shown, f.cursor))
	}
	if shown == "" {
		return styles.PlaceholderStyle.Render(f.Placeholder)
	}
	return styles.ValueStyle.Render(shown)
}

func renderEditValue(value string, cursor int) string {
	runes := []rune(value)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	withCursor := make([]rune, 0, len(runes)+1)
	withCursor = append(withCursor, runes[:cursor]...)
	withCursor = append(withCursor, '█')
	withCursor = append(withCursor, runes[cursor:]...)
	return string(withCursor)
}

func stripNewlines(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
