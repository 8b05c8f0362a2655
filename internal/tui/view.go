package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cristianadrielbraun/qrstudio/internal/studio"
)

// Color palette.
var (
	colorGreen  = lipgloss.Color("#4ade80")
	colorRed    = lipgloss.Color("#f87171")
	colorCyan   = lipgloss.Color("#22d3ee")
	colorWhite  = lipgloss.Color("#e5e7eb")
	colorGray   = lipgloss.Color("#6b7280")
	colorPurple = lipgloss.Color("#a855f7")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPurple)
	labelStyle   = lipgloss.NewStyle().Foreground(colorGray)
	focusStyle   = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(colorGreen)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	helpStyle    = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("QR Studio"))
	b.WriteString("\n\n")

	b.WriteString(m.row(FieldText, "Text", m.Text.View()))
	b.WriteString(m.row(FieldLogo, "Logo", checkbox(m.Logo)))
	b.WriteString(m.row(FieldGradient, "Gradient", checkbox(m.Gradient)))
	b.WriteString(m.row(FieldTransparent, "Transparent", checkbox(m.Transparent)))
	b.WriteString(m.row(FieldConsensus, "Consensus", checkbox(m.Consensus)))
	b.WriteString(m.row(FieldAnimated, "Animate", checkbox(m.Animated)))
	if m.Animated {
		b.WriteString(m.row(FieldFrames, "  Frames", m.Frames.View()))
		b.WriteString(m.row(FieldColors, "  Colors", swatches(m.Colors)))
	}
	b.WriteString("\n")
	b.WriteString(m.trigger())
	b.WriteString("\n\n")

	if m.Status.Message != "" {
		switch m.Status.Kind {
		case studio.StatusSuccess:
			b.WriteString(successStyle.Render("✨ " + m.Status.Message))
		case studio.StatusError:
			b.WriteString(errorStyle.Render("❌ " + m.Status.Message))
		default:
			b.WriteString(m.Status.Message)
		}
		b.WriteString("\n\n")
	}

	if m.FrameURL != "" {
		b.WriteString(m.Preview)
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("ctrl+s: download to %s", m.SavePath)))
		b.WriteString("\n")
	}
	if m.Saved != "" {
		b.WriteString(labelStyle.Render(m.Saved))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab/↑↓ move · space toggle · a/x add/remove color · ctrl+g generate · esc quit"))
	return b.String()
}

func (m Model) row(f Field, label, value string) string {
	cursor := "  "
	l := labelStyle.Render(fmt.Sprintf("%-12s", label))
	if m.Focus == f {
		cursor = focusStyle.Render("> ")
		l = focusStyle.Render(fmt.Sprintf("%-12s", label))
	}
	return cursor + l + " " + value + "\n"
}

func (m Model) trigger() string {
	label := "[ Generate QR Code ]"
	if m.Busy {
		return "  " + m.Spinner.View() + " Generating..."
	}
	if m.Focus == FieldGenerate {
		return focusStyle.Render("> " + label)
	}
	return "  " + label
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func swatches(colors []string) string {
	parts := make([]string, 0, len(colors))
	for _, c := range colors {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("■ "+c))
	}
	if len(parts) == 0 {
		return labelStyle.Render("(none)")
	}
	return strings.Join(parts, " ")
}
