package tui

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"go-chi-calculator/internal/calcclient"
	"go-chi-calculator/internal/form"

	tea "github.com/charmbracelet/bubbletea"
)

type stubCalculator struct {
	calls  atomic.Int32
	result float64
	err    error
	last   calcclient.Request
}

func (s *stubCalculator) Calculate(ctx context.Context, req calcclient.Request) (calcclient.Response, error) {
	s.calls.Add(1)
	s.last = req
	if s.err != nil {
		return calcclient.Response{}, s.err
	}
	return calcclient.Response{Operation: req.Operation, X: req.X, Y: req.Y, Result: s.result}, nil
}

func newTestModel(t *testing.T, calc form.Calculator) *Model {
	t.Helper()
	m, err := New(context.Background(), calc, form.Options{})
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func TestSubmitThroughKeyboardShowsResult(t *testing.T) {
	calc := &stubCalculator{result: 5}
	m := newTestModel(t, calc)

	typeText(m, "2")
	press(m, tea.KeyTab)
	typeText(m, "3")
	press(m, tea.KeyTab)
	press(m, tea.KeyRight)

	cmd := press(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected enter to return a submit command")
	}
	if _, ok := cmd().(submittedMsg); !ok {
		t.Fatal("expected submittedMsg from submit command")
	}

	if calc.calls.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", calc.calls.Load())
	}
	want := calcclient.Request{Operation: "add", X: 2, Y: 3}
	if calc.last != want {
		t.Fatalf("expected request %+v, got %+v", want, calc.last)
	}

	view := m.View()
	if !strings.Contains(view, "2 + 3 =") {
		t.Fatalf("expected expression in view, got:\n%s", view)
	}
	if visible, content := m.result.snapshot(); !visible || content != "2 + 3 =\n5" {
		t.Fatalf("expected visible result %q, got %v %q", "2 + 3 =\n5", visible, content)
	}
}

func TestSubmitWithoutOperationShowsValidationError(t *testing.T) {
	calc := &stubCalculator{}
	m := newTestModel(t, calc)

	typeText(m, "1")
	press(m, tea.KeyEnter)()

	if calc.calls.Load() != 0 {
		t.Fatalf("expected no calls, got %d", calc.calls.Load())
	}
	if visible, content := m.errPanel.snapshot(); !visible || content != form.MsgSelectOperation {
		t.Fatalf("expected error %q, got %v %q", form.MsgSelectOperation, visible, content)
	}
	if !strings.Contains(m.View(), form.MsgSelectOperation) {
		t.Fatal("expected validation message in view")
	}
}

func TestServiceErrorRendersErrorPanel(t *testing.T) {
	calc := &stubCalculator{err: &calcclient.ServiceError{StatusCode: 400, Detail: "Division by zero is not allowed"}}
	m := newTestModel(t, calc)

	typeText(m, "1")
	press(m, tea.KeyTab)
	typeText(m, "0")
	press(m, tea.KeyTab)
	press(m, tea.KeyLeft) // wraps to divide

	press(m, tea.KeyEnter)()

	if calc.last.Operation != "divide" {
		t.Fatalf("expected divide, got %q", calc.last.Operation)
	}
	if visible, _ := m.result.snapshot(); visible {
		t.Fatal("expected result panel hidden")
	}
	if visible, content := m.errPanel.snapshot(); !visible || content != "Division by zero is not allowed" {
		t.Fatalf("unexpected error panel %v %q", visible, content)
	}
	if m.submit.Disabled() {
		t.Fatal("expected submit enabled after the cycle")
	}
}

func TestOperationSelectorCyclesAndClears(t *testing.T) {
	m := newTestModel(t, &stubCalculator{})
	m.setFocus(focusOperation)

	press(m, tea.KeyRight)
	press(m, tea.KeyRight)
	if got := m.selectedOperation(); got != "subtract" {
		t.Fatalf("expected subtract, got %q", got)
	}

	press(m, tea.KeyBackspace)
	if got := m.values.Values().Operation; got != "" {
		t.Fatalf("expected cleared operation, got %q", got)
	}
}

func TestEscapeQuitsAndDetaches(t *testing.T) {
	m := newTestModel(t, &stubCalculator{})

	cmd := press(m, tea.KeyEsc)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if m.keys.Len() != 0 {
		t.Fatalf("expected key subscription detached, got %d", m.keys.Len())
	}
}
