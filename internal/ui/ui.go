// Package ui renders command output for the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	// Out and Err receive all output. Tests swap them for buffers.
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// PrintSuccess prints a success message to Out.
func PrintSuccess(format string, args ...any) {
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintError prints an error message to Err.
func PrintError(format string, args ...any) {
	fmt.Fprintln(Err, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message to Out.
func PrintWarning(format string, args ...any) {
	fmt.Fprintln(Out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintInfo prints an informational message to Out.
func PrintInfo(format string, args ...any) {
	fmt.Fprintln(Out, InfoStyle.Render("ℹ "+fmt.Sprintf(format, args...)))
}

// PrintTable renders rows under headers. Nothing but the headers is printed
// for an empty result.
func PrintTable(headers []string, rows [][]string) error {
	data := pterm.TableData{headers}
	data = append(data, rows...)

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, out)
	return nil
}

// Stat is one labelled figure of a summary box.
type Stat struct {
	Label string
	Value any
}

// PrintSummary prints stats in a rounded box under title.
func PrintSummary(title string, stats []Stat) {
	width := 0
	for _, s := range stats {
		width = max(width, len(s.Label))
	}

	lines := make([]string, 0, len(stats)+1)
	lines = append(lines, TitleStyle.Render(title))
	for _, s := range stats {
		label := SecondaryStyle.Render(fmt.Sprintf("%-*s", width, s.Label))
		lines = append(lines, fmt.Sprintf("%s  %v", label, formatValue(s.Value)))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	fmt.Fprintln(Out, box)
}

func formatValue(v any) string {
	if d, ok := v.(time.Duration); ok {
		return d.Round(time.Millisecond).String()
	}
	return fmt.Sprint(v)
}

// Spinner shows progress of a long running step. A nil *Spinner is valid
// and does nothing, which lets callers skip it when output is not a
// terminal.
type Spinner struct {
	sp *pterm.SpinnerPrinter
}

// StartSpinner starts a spinner with message. It returns nil when Out is
// not the process stdout.
func StartSpinner(message string) *Spinner {
	if Out != os.Stdout || color.NoColor {
		return nil
	}
	sp, err := pterm.DefaultSpinner.WithText(message).Start()
	if err != nil {
		return nil
	}
	return &Spinner{sp: sp}
}

// Success stops the spinner with a success message.
func (s *Spinner) Success(message string) {
	if s == nil {
		return
	}
	s.sp.Success(message)
}

// Fail stops the spinner with a failure message.
func (s *Spinner) Fail(message string) {
	if s == nil {
		return
	}
	s.sp.Fail(message)
}

// KeyValue prints aligned key/value pairs with fatih/color highlighting,
// for plain output such as `version`.
func KeyValue(pairs ...string) {
	key := color.New(color.FgCyan, color.Bold)
	width := 0
	for i := 0; i < len(pairs); i += 2 {
		width = max(width, len(pairs[i]))
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		key.Fprintf(Out, "%-*s", width+1, pairs[i]+":")
		fmt.Fprintln(Out, " "+pairs[i+1])
	}
}

// Truncate shortens s to n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
