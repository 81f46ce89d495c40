package testing

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// Driver feeds messages to a model without a terminal and keeps what came
// back.
type Driver struct {
	Model    tea.Model
	Commands []tea.Cmd
	Output   string
}

// NewDriver wraps model.
func NewDriver(model tea.Model) *Driver {
	return &Driver{Model: model, Output: model.View()}
}

// Send delivers msg and re-renders.
func (d *Driver) Send(msg tea.Msg) tea.Cmd {
	next, cmd := d.Model.Update(msg)
	d.Model = next
	if cmd != nil {
		d.Commands = append(d.Commands, cmd)
	}
	d.Output = next.View()
	return cmd
}

// Apply delivers every message of seq in order.
func (d *Driver) Apply(seq *InputSequence) {
	for _, msg := range seq.Messages() {
		d.Send(msg)
	}
}

// Run executes cmd and delivers the message it produces, if any. Batches
// are not expanded.
func (d *Driver) Run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg != nil {
		d.Send(msg)
	}
	return msg
}

// Contains reports whether the last rendered view, without ANSI escape
// codes, contains text.
func (d *Driver) Contains(text string) bool {
	return strings.Contains(ansi.Strip(d.Output), text)
}
