// Package testutils builds bubbletea v2 key messages for component tests.
package testutils

import (
	tea "charm.land/bubbletea/v2"
)

// NewKeyPressMsg creates a KeyPressMsg from a key code (for special keys)
func NewKeyPressMsg(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: code})
}

// NewTextKeyPressMsg creates a KeyPressMsg for text input
func NewTextKeyPressMsg(text string) tea.KeyPressMsg {
	if len(text) == 0 {
		return tea.KeyPressMsg(tea.Key{})
	}
	r := []rune(text)[0]
	return tea.KeyPressMsg(tea.Key{
		Code: r,
		Text: text,
	})
}

// Common special keys
var (
	TestKeyUp        = NewKeyPressMsg(tea.KeyUp)
	TestKeyDown      = NewKeyPressMsg(tea.KeyDown)
	TestKeyLeft      = NewKeyPressMsg(tea.KeyLeft)
	TestKeyRight     = NewKeyPressMsg(tea.KeyRight)
	TestKeyEnter     = NewKeyPressMsg(tea.KeyEnter)
	TestKeyTab       = NewKeyPressMsg(tea.KeyTab)
	TestKeyEsc       = NewKeyPressMsg(tea.KeyEscape)
	TestKeyBackspace = NewKeyPressMsg(tea.KeyBackspace)
	TestKeySpace     = NewKeyPressMsg(tea.KeySpace)
	TestKeyHome      = NewKeyPressMsg(tea.KeyHome)
	TestKeyEnd       = NewKeyPressMsg(tea.KeyEnd)
	TestKeyPgUp      = NewKeyPressMsg(tea.KeyPgUp)
	TestKeyPgDown    = NewKeyPressMsg(tea.KeyPgDown)
	TestKeyDelete    = NewKeyPressMsg(tea.KeyDelete)
)

// NewShiftKeyPressMsg creates a special key with the shift modifier.
func NewShiftKeyPressMsg(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{
		Code: code,
		Mod:  tea.ModShift,
	})
}

// TestKeyShiftTab moves focus backwards.
var TestKeyShiftTab = NewShiftKeyPressMsg(tea.KeyTab)

// NewCtrlKeyPressMsg creates a Ctrl+X key using the modifier
func NewCtrlKeyPressMsg(char rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{
		Code: char,
		Mod:  tea.ModCtrl,
	})
}

// NewAltKeyPressMsg creates an Alt+X key using the modifier
func NewAltKeyPressMsg(char rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{
		Code: char,
		Mod:  tea.ModAlt,
	})
}

// Common modifier combinations
var (
	TestKeyCtrlC = NewCtrlKeyPressMsg('c')
	TestKeyCtrlY = NewCtrlKeyPressMsg('y')
	TestKeyCtrlU = NewCtrlKeyPressMsg('u')
	TestKeyAlt1  = NewAltKeyPressMsg('1')
	TestKeyAlt2  = NewAltKeyPressMsg('2')
	TestKeyAlt3  = NewAltKeyPressMsg('3')
)

// TypeText feeds every rune of text through update as a key press.
func TypeText(update func(tea.KeyPressMsg), text string) {
	for _, r := range text {
		update(NewTextKeyPressMsg(string(r)))
	}
}
