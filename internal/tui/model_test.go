package tui

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cristianadrielbraun/qrstudio/internal/studio"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func focusOn(t *testing.T, m Model, f Field) Model {
	t.Helper()
	for i := 0; i < int(fieldCount) && m.Focus != f; i++ {
		m, _ = update(t, m, key("tab"))
	}
	if m.Focus != f {
		t.Fatalf("could not focus field %d", f)
	}
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel(nil, "qrcode.png")
	if len(m.Colors) != 2 || m.Colors[0] != "#FF0000" || m.Colors[1] != "#0000FF" {
		t.Errorf("colors = %v", m.Colors)
	}
	if m.Frames.Value() != "10" {
		t.Errorf("frames = %q", m.Frames.Value())
	}
}

func TestToggleAnimationSendsAction(t *testing.T) {
	ch := make(chan Action, 4)
	m := focusOn(t, NewModel(ch, "qrcode.png"), FieldAnimated)

	m, _ = update(t, m, key("enter"))
	if !m.Animated {
		t.Fatal("animation not toggled on")
	}
	if a := <-ch; a != (ActionAnimation{Enabled: true}) {
		t.Errorf("action = %#v", a)
	}

	m, _ = update(t, m, key("enter"))
	if a := <-ch; a != (ActionAnimation{Enabled: false}) {
		t.Errorf("action = %#v", a)
	}
}

func TestFocusSkipsHiddenAnimationControls(t *testing.T) {
	m := focusOn(t, NewModel(nil, "qrcode.png"), FieldAnimated)
	m, _ = update(t, m, key("tab"))
	if m.Focus != FieldGenerate {
		t.Errorf("focus = %d, want generate", m.Focus)
	}
}

func TestColorList(t *testing.T) {
	m := focusOn(t, NewModel(nil, "qrcode.png"), FieldAnimated)
	m, _ = update(t, m, key("enter"))
	m = focusOn(t, m, FieldColors)

	m, _ = update(t, m, key("a"))
	if len(m.Colors) != 3 {
		t.Fatalf("colors = %v", m.Colors)
	}
	if !regexp.MustCompile(`^#[0-9A-F]{6}$`).MatchString(m.Colors[2]) {
		t.Errorf("random color %q is not #RRGGBB", m.Colors[2])
	}
	m, _ = update(t, m, key("x"))
	m, _ = update(t, m, key("x"))
	if len(m.Colors) != 1 || m.Colors[0] != "#FF0000" {
		t.Errorf("colors after removal = %v", m.Colors)
	}
}

func TestGenerateSendsFields(t *testing.T) {
	ch := make(chan Action, 4)
	m := NewModel(ch, "qrcode.png")
	for _, r := range "hello" {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m = focusOn(t, m, FieldLogo)
	m, _ = update(t, m, key("enter"))

	m, _ = update(t, m, key("ctrl+g"))
	a, ok := (<-ch).(ActionGenerate)
	if !ok {
		t.Fatal("expected ActionGenerate")
	}
	if a.Fields.Text != "hello" || !a.Fields.Logo || a.Fields.Animated {
		t.Errorf("fields = %+v", a.Fields)
	}

	m, _ = update(t, m, busyMsg{Busy: true})
	m, _ = update(t, m, key("ctrl+g"))
	select {
	case a := <-ch:
		t.Errorf("generate while busy sent %#v", a)
	default:
	}
	if !strings.Contains(m.View(), "Generating...") {
		t.Error("busy trigger not rendered")
	}
}

func TestViewMessages(t *testing.T) {
	m := NewModel(nil, "qrcode.png")
	m, _ = update(t, m, statusMsg{Status: studio.Status{Kind: studio.StatusError, Message: "Error: overloaded"}})
	if !strings.Contains(m.View(), "overloaded") {
		t.Error("status not rendered")
	}

	url, _ := studio.DataURLs{}.ToURL(context.Background(), pngBytes(t))
	m, _ = update(t, m, frameMsg{URL: url})
	if m.FrameURL != url || m.Preview == "" {
		t.Error("frame not shown")
	}
	m, _ = update(t, m, hideMsg{})
	if m.FrameURL != "" || m.Preview != "" {
		t.Error("output not hidden")
	}
}

func TestSaveWritesCurrentFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	m := NewModel(nil, path)
	data := pngBytes(t)
	url, _ := studio.DataURLs{}.ToURL(context.Background(), data)
	m, _ = update(t, m, frameMsg{URL: url})

	_, cmd := update(t, m, key("ctrl+s"))
	if cmd == nil {
		t.Fatal("expected save command")
	}
	msg := cmd().(savedMsg)
	if msg.Err != nil {
		t.Fatalf("save failed: %v", msg.Err)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != string(data) {
		t.Errorf("saved file mismatch: %v", err)
	}
}

func TestHalfBlocks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	// Top-left 2x1 is dark: one upper half block in the first cell row.
	img.SetRGBA(0, 0, color.RGBA{0, 0, 0, 255})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 0, 0, 255})

	out := halfBlocks(img, 4)
	if !strings.Contains(out, "█▀") {
		t.Errorf("unexpected preview %q", out)
	}
}
