package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cristianadrielbraun/qrstudio/internal/studio"
)

// Action is a user request the model cannot fulfil on its own.
type Action interface{ isAction() }

// ActionGenerate asks for one generation cycle.
type ActionGenerate struct{ Fields studio.Fields }

// ActionAnimation reports a change of the animation toggle.
type ActionAnimation struct{ Enabled bool }

func (ActionGenerate) isAction()  {}
func (ActionAnimation) isAction() {}

// Program wraps tea.Program and doubles as the studio.View the submitter
// drives: every view call becomes a message for the event loop.
type Program struct {
	program  *tea.Program
	actionCh chan Action
}

// NewProgram creates a fullscreen form. Saved frames go to savePath.
func NewProgram(savePath string) *Program {
	actionCh := make(chan Action, 4)
	p := tea.NewProgram(NewModel(actionCh, savePath), tea.WithAltScreen())
	return &Program{program: p, actionCh: actionCh}
}

// Actions returns the channel that receives user-triggered actions.
func (p *Program) Actions() <-chan Action { return p.actionCh }

// Start runs the TUI and blocks until it exits. The actions channel is
// closed on return.
func (p *Program) Start() error {
	defer close(p.actionCh)
	_, err := p.program.Run()
	return err
}

func (p *Program) ShowFrame(url string)      { p.program.Send(frameMsg{URL: url}) }
func (p *Program) SetBusy(busy bool)         { p.program.Send(busyMsg{Busy: busy}) }
func (p *Program) SetStatus(s studio.Status) { p.program.Send(statusMsg{Status: s}) }
func (p *Program) HideOutput()               { p.program.Send(hideMsg{}) }

var _ studio.View = (*Program)(nil)
