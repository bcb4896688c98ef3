// Package style provides lipgloss-based helpers for styling CLI output.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/swapfs/swapfs/color"
)

// New returns an empty lipgloss.Style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Colored returns a style with the given foreground and background colors.
func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a function rendering its input with the given foreground color.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(c, "").Render(s) }
}

// Truncate returns a function constraining its input to max cells.
func Truncate(max int) func(string) string {
	return func(s string) string { return New().MaxWidth(max).Render(s) }
}

var (
	Faint  = func(s string) string { return New().Faint(true).Render(s) }
	Bold   = func(s string) string { return New().Bold(true).Render(s) }
	Italic = func(s string) string { return New().Italic(true).Render(s) }
)

// Tag returns a function rendering its input as a padded colored block.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(fg, bg).Padding(0, 1).Render(s) }
}

// Directory entry styles used by listings.
var (
	Directory = func(s string) string { return New().Bold(true).Foreground(color.Blue).Render(s) }
	File      = func(s string) string { return s }
	Symlink   = func(s string) string { return New().Italic(true).Foreground(color.Cyan).Render(s) }
)

// Op renders an operation name.
var Op = Fg(color.Purple)
