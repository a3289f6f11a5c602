// Package console prints the human-readable progress lines of a compile run.
// The lines are not a stable interface.
package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Console writes styled lines to an io.Writer. Styling is dropped
// automatically when the writer is not a terminal.
type Console struct {
	out     io.Writer
	heading lipgloss.Style
	command lipgloss.Style
	success lipgloss.Style
	note    lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
}

// New returns a Console writing to out.
func New(out io.Writer) *Console {
	r := lipgloss.NewRenderer(out)
	return &Console{
		out:     out,
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
		command: r.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
		success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50")),
		note:    r.NewStyle().Italic(true).Foreground(lipgloss.Color("#AAAAAA")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#E5C07B")),
		fail:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
	}
}

// Discard returns a Console that prints nothing.
func Discard() *Console { return New(io.Discard) }

func (c *Console) line(style lipgloss.Style, format string, args ...any) {
	_, _ = fmt.Fprintln(c.out, style.Render(fmt.Sprintf(format, args...)))
}

func (c *Console) Heading(format string, args ...any) {
	c.line(c.heading, "=== "+format+" ===", args...)
}
func (c *Console) Command(cmdline string) { c.line(c.command, "> Running: %s", cmdline) }
func (c *Console) Info(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format+"\n", args...)
}
func (c *Console) Success(format string, args ...any) { c.line(c.success, format, args...) }
func (c *Console) Note(format string, args ...any)    { c.line(c.note, "Note: "+format, args...) }
func (c *Console) Warn(format string, args ...any)    { c.line(c.warn, format, args...) }
func (c *Console) Error(format string, args ...any)   { c.line(c.fail, "Error: "+format, args...) }
