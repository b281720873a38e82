// Package cli runs a single calculation from the command line through the
// same form controller the interactive UI uses.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go-chi-calculator/internal/form"

	"gopkg.in/yaml.v3"
)

// ErrNoResult is returned when the calculation ended without a result. The
// reason has already been written to the output.
var ErrNoResult = errors.New("no result")

// EvalOptions describe one calculation.
type EvalOptions struct {
	Operation string
	X         string
	Y         string
	Format    string // text, json or yaml
	Strict    bool
	// Progress receives the loading indicator. Nil disables it.
	Progress io.Writer
}

// Report is the machine-readable form of the visible panel.
type Report struct {
	Outcome string `json:"outcome" yaml:"outcome"`
	Result  string `json:"result,omitempty" yaml:"result,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

type panel struct {
	visible bool
	content string
}

func (p *panel) Show()               { p.visible = true }
func (p *panel) Hide()               { p.visible = false }
func (p *panel) SetContent(s string) { p.content = s }

type indicator struct {
	w io.Writer
}

func (i indicator) Show() {
	if i.w != nil {
		fmt.Fprintln(i.w, "Calculating...")
	}
}
func (i indicator) Hide()             {}
func (i indicator) SetContent(string) {}

type noopControl struct{}

func (noopControl) SetDisabled(bool) {}

type fixedValues form.Values

func (v fixedValues) Values() form.Values { return form.Values(v) }

// Eval submits one calculation and writes the visible panel to out.
func Eval(ctx context.Context, calc form.Calculator, opts EvalOptions, out io.Writer) error {
	values := form.Values{X: opts.X, Y: opts.Y, Operation: opts.Operation}
	result, errPanel := &panel{}, &panel{}

	ctrl, err := form.NewController(ctx, calc, form.Elements{
		Form:        fixedValues(values),
		ResultPanel: result,
		ErrorPanel:  errPanel,
		Loading:     indicator{w: opts.Progress},
		Submit:      noopControl{},
	}, form.NewKeyBus(), form.Options{StrictInput: opts.Strict})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	outcome := ctrl.HandleSubmit(ctx, values)

	report := Report{Outcome: outcome.String()}
	switch {
	case result.visible:
		report.Result = result.content
	case errPanel.visible:
		report.Error = errPanel.content
	}

	if err := write(out, opts.Format, report); err != nil {
		return err
	}

	if outcome != form.OutcomeResult {
		return ErrNoResult
	}
	return nil
}

func write(out io.Writer, format string, r Report) error {
	switch format {
	case "", "text":
		if r.Result != "" {
			_, err := fmt.Fprintln(out, r.Result)
			return err
		}
		_, err := fmt.Fprintln(out, r.Error)
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(out)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}
