package tui

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cristianadrielbraun/qrstudio/internal/studio"
)

// Field identifies the focused form control.
type Field int

const (
	FieldText Field = iota
	FieldLogo
	FieldGradient
	FieldTransparent
	FieldConsensus
	FieldAnimated
	FieldFrames
	FieldColors
	FieldGenerate
	fieldCount
)

// Messages sent by Program on behalf of the submitter.
type (
	frameMsg  struct{ URL string }
	busyMsg   struct{ Busy bool }
	statusMsg struct{ Status studio.Status }
	hideMsg   struct{}
	savedMsg  struct {
		Path string
		Err  error
	}
)

var defaultColors = []string{"#FF0000", "#0000FF"}

// Model is the BubbleTea model of the generation form.
type Model struct {
	Text   textinput.Model
	Frames textinput.Model

	Logo        bool
	Gradient    bool
	Transparent bool
	Consensus   bool
	Animated    bool
	Colors      []string

	Focus   Field
	Busy    bool
	Spinner spinner.Model
	Status  studio.Status

	// FrameURL is what the image and the download link currently show.
	FrameURL string
	Preview  string
	Saved    string

	SavePath string
	ActionCh chan<- Action

	Width  int
	Height int
}

// NewModel creates the form with two starting colors.
func NewModel(actionCh chan<- Action, savePath string) Model {
	text := textinput.New()
	text.Placeholder = "Text or URL"
	text.Focus()

	frames := textinput.New()
	frames.SetValue("10")
	frames.CharLimit = 3

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(colorCyan)),
	)

	return Model{
		Text:     text,
		Frames:   frames,
		Colors:   append([]string(nil), defaultColors...),
		Spinner:  s,
		SavePath: savePath,
		ActionCh: actionCh,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.Spinner.Tick)
}

// Fields snapshots the form for the options builder.
func (m Model) Fields() studio.Fields {
	return studio.Fields{
		Text:        m.Text.Value(),
		Logo:        m.Logo,
		Gradient:    m.Gradient,
		Transparent: m.Transparent,
		Animated:    m.Animated,
		Frames:      m.Frames.Value(),
		Colors:      append([]string(nil), m.Colors...),
		Consensus:   m.Consensus,
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case busyMsg:
		m.Busy = msg.Busy
		return m, nil

	case statusMsg:
		m.Status = msg.Status
		return m, nil

	case hideMsg:
		m.FrameURL, m.Preview = "", ""
		return m, nil

	case frameMsg:
		m.FrameURL = msg.URL
		m.Preview = renderPreview(msg.URL, previewSize)
		return m, nil

	case savedMsg:
		if msg.Err != nil {
			m.Saved = "save failed: " + msg.Err.Error()
		} else {
			m.Saved = "saved " + msg.Path
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "down":
		return m.moveFocus(1), nil
	case "shift+tab", "up":
		return m.moveFocus(-1), nil
	case "ctrl+g":
		return m.generate(), nil
	case "ctrl+s":
		return m, m.save()
	}

	switch m.Focus {
	case FieldText, FieldFrames:
		var cmd tea.Cmd
		if m.Focus == FieldText {
			if msg.String() == "enter" {
				return m.generate(), nil
			}
			m.Text, cmd = m.Text.Update(msg)
		} else {
			m.Frames, cmd = m.Frames.Update(msg)
		}
		return m, cmd
	case FieldColors:
		switch msg.String() {
		case "a", "+":
			m.Colors = append(m.Colors, randomColor())
		case "x", "-", "backspace":
			if len(m.Colors) > 0 {
				m.Colors = m.Colors[:len(m.Colors)-1]
			}
		}
		return m, nil
	case FieldGenerate:
		if activates(msg) {
			return m.generate(), nil
		}
		return m, nil
	}

	if activates(msg) {
		return m.toggle()
	}
	return m, nil
}

func activates(msg tea.KeyMsg) bool {
	switch msg.String() {
	case " ", "space", "enter":
		return true
	}
	return false
}

func (m Model) moveFocus(delta int) Model {
	next := (int(m.Focus) + delta + int(fieldCount)) % int(fieldCount)
	// Animation controls are skipped while the toggle is off.
	for !m.Animated && (Field(next) == FieldFrames || Field(next) == FieldColors) {
		next = (next + delta + int(fieldCount)) % int(fieldCount)
	}
	m.Focus = Field(next)
	m.Text.Blur()
	m.Frames.Blur()
	switch m.Focus {
	case FieldText:
		m.Text.Focus()
	case FieldFrames:
		m.Frames.Focus()
	}
	return m
}

func (m Model) toggle() (Model, tea.Cmd) {
	switch m.Focus {
	case FieldLogo:
		m.Logo = !m.Logo
	case FieldGradient:
		m.Gradient = !m.Gradient
	case FieldTransparent:
		m.Transparent = !m.Transparent
	case FieldConsensus:
		m.Consensus = !m.Consensus
	case FieldAnimated:
		m.Animated = !m.Animated
		m.send(ActionAnimation{Enabled: m.Animated})
	}
	return m, nil
}

// generate queues a cycle unless one is already running; the trigger is
// disabled while busy.
func (m Model) generate() Model {
	if m.Busy {
		return m
	}
	m.Saved = ""
	m.send(ActionGenerate{Fields: m.Fields()})
	return m
}

func (m Model) send(a Action) {
	if m.ActionCh == nil {
		return
	}
	select {
	case m.ActionCh <- a:
	default:
	}
}

// save writes the frame the download link points at.
func (m Model) save() tea.Cmd {
	if m.FrameURL == "" {
		return nil
	}
	url, path := m.FrameURL, m.SavePath
	return func() tea.Msg {
		data, err := studio.DecodeDataURL(url)
		if err == nil {
			err = os.WriteFile(path, data, 0o644)
		}
		return savedMsg{Path: path, Err: err}
	}
}

// randomColor returns a random "#RRGGBB" color.
func randomColor() string {
	return fmt.Sprintf("#%06X", rand.IntN(1<<24))
}
