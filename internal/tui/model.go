// Package tui is the terminal front-end of the calculator form.
package tui

import (
	"context"

	"go-chi-calculator/internal/form"
	"go-chi-calculator/internal/operation"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Focus targets, in tab order.
const (
	focusX = iota
	focusY
	focusOperation
	focusCount
)

// submittedMsg is sent once a keyboard-triggered submission has finished.
type submittedMsg struct{}

// Model is the bubbletea model of the calculator form.
type Model struct {
	ctrl *form.Controller
	keys *form.KeyBus

	values   *formValues
	result   *region
	errPanel *region
	loading  *region
	submit   *button

	inputs  []textinput.Model
	ops     []string
	opIndex int // -1 while no operation is selected
	focus   int
	spinner spinner.Model

	width int
}

// New builds the form and its controller. The controller's key subscription
// lives until Close.
func New(ctx context.Context, calc form.Calculator, opts form.Options) (*Model, error) {
	m := &Model{
		keys:     form.NewKeyBus(),
		values:   &formValues{},
		result:   &region{},
		errPanel: &region{},
		loading:  &region{},
		submit:   &button{},
		ops:      operation.Names(),
		opIndex:  -1,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
	}

	m.inputs = []textinput.Model{newNumberInput("First number"), newNumberInput("Second number")}
	m.inputs[focusX].Focus()

	ctrl, err := form.NewController(ctx, calc, form.Elements{
		Form:        m.values,
		ResultPanel: m.result,
		ErrorPanel:  m.errPanel,
		Loading:     m.loading,
		Submit:      m.submit,
	}, m.keys, opts)
	if err != nil {
		return nil, err
	}
	m.ctrl = ctrl

	return m, nil
}

func newNumberInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 32
	ti.Width = 24
	return ti
}

// Close detaches the controller from the key bus.
func (m *Model) Close() {
	m.ctrl.Close()
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submittedMsg:
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, m.updateFocusedInput(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.Close()
		return tea.Quit
	case "enter":
		return m.pressEnter()
	case "tab", "down":
		return m.setFocus((m.focus + 1) % focusCount)
	case "shift+tab", "up":
		return m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	if m.focus == focusOperation {
		switch msg.String() {
		case "right", "l", " ":
			m.cycleOperation(1)
		case "left", "h":
			m.cycleOperation(-1)
		case "backspace", "delete":
			m.opIndex = -1
		}
		m.syncValues()
		return nil
	}

	return m.updateFocusedInput(msg)
}

// pressEnter publishes Enter to the controller off the program loop, so a
// slow service never blocks rendering.
func (m *Model) pressEnter() tea.Cmd {
	m.syncValues()
	keys := m.keys
	return func() tea.Msg {
		keys.Publish(form.KeyEnter)
		return submittedMsg{}
	}
}

func (m *Model) setFocus(target int) tea.Cmd {
	m.focus = target
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == target {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

func (m *Model) cycleOperation(step int) {
	n := len(m.ops)
	if m.opIndex < 0 {
		if step > 0 {
			m.opIndex = 0
		} else {
			m.opIndex = n - 1
		}
		return
	}
	m.opIndex = (m.opIndex + step + n) % n
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	if m.focus >= len(m.inputs) {
		return nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.syncValues()
	return cmd
}

func (m *Model) selectedOperation() string {
	if m.opIndex < 0 {
		return ""
	}
	return m.ops[m.opIndex]
}

func (m *Model) syncValues() {
	m.values.set(form.Values{
		X:         m.inputs[focusX].Value(),
		Y:         m.inputs[focusY].Value(),
		Operation: m.selectedOperation(),
	})
}

// Run starts the interactive form and blocks until the user quits.
func Run(ctx context.Context, calc form.Calculator, opts form.Options) error {
	m, err := New(ctx, calc, opts)
	if err != nil {
		return err
	}
	defer m.Close()

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
