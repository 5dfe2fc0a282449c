package ui

import (
	"charm.land/lipgloss/v2"
)

const (
	headerHeight    = 2
	statusBarHeight = 1
)

// LayoutManager handles the overall UI layout
type LayoutManager struct {
	width  int
	height int
}

// NewLayoutManager creates a new layout manager
func NewLayoutManager() *LayoutManager {
	return &LayoutManager{
		width:  80,
		height: 24,
	}
}

// SetSize updates the layout dimensions
func (lm *LayoutManager) SetSize(width, height int) {
	lm.width = width
	lm.height = height
}

// ContentHeight returns the height left for the active page
// (total height minus header and status bar)
func (lm *LayoutManager) ContentHeight() int {
	h := lm.height - headerHeight - statusBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// RenderLayout stacks header, page content and status bar. The content is
// clamped to ContentHeight so the status bar stays on the last row.
func (lm *LayoutManager) RenderLayout(header, content, statusBar string) string {
	content = lipgloss.NewStyle().
		Height(lm.ContentHeight()).
		MaxHeight(lm.ContentHeight()).
		Render(content)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}

// GetDimensions returns current width and height
func (lm *LayoutManager) GetDimensions() (width, height int) {
	return lm.width, lm.height
}
