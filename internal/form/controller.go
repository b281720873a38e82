// Package form drives a calculator form: it validates the submitted values,
// calls the calculation service and reflects the outcome in the result and
// error panels while keeping the submit control disabled for the duration
// of the call.
package form

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"go-chi-calculator/internal/calcclient"
	"go-chi-calculator/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Messages shown in the error panel.
const (
	MsgSelectOperation = "Please select an operation"
	MsgInvalidNumbers  = "Please enter valid numbers"
	MsgServiceFallback = "An error occurred"
	MsgNetwork         = "Network error: Could not connect to server"
)

var tracer = otel.Tracer("form")

// Panel identifies which display panel is visible.
type Panel int

const (
	PanelNone Panel = iota
	PanelResult
	PanelError
)

// State is the controller's view of the UI.
type State struct {
	Loading bool
	Visible Panel
}

// Outcome is how a submission ended.
type Outcome int

const (
	// OutcomeSkipped means a request was already in flight.
	OutcomeSkipped Outcome = iota
	OutcomeResult
	OutcomeInvalid
	OutcomeServiceError
	OutcomeTransportError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeResult:
		return "result"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeServiceError:
		return "service_error"
	case OutcomeTransportError:
		return "transport_error"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// ValidationError is a submission rejected before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Calculator performs one remote calculation.
type Calculator interface {
	Calculate(ctx context.Context, req calcclient.Request) (calcclient.Response, error)
}

// Options tune a Controller.
type Options struct {
	// StrictInput rejects operands that do not parse as finite numbers
	// instead of sending them for the service to reject.
	StrictInput bool
}

// Controller mediates one request/response cycle at a time between a form
// and the calculation service.
type Controller struct {
	// ctx is the context for Enter presses, which arrive from the key bus
	// without one of their own.
	ctx  context.Context
	calc Calculator
	el   Elements
	opts Options

	mu    sync.Mutex
	state State

	unsubscribe func()
	closeOnce   sync.Once

	submissions metric.Int64Counter
	duration    metric.Float64Histogram
}

// NewController wires a controller to its elements and subscribes it to Enter
// presses on keys. ctx is used for submissions triggered from the keyboard.
// Call Close to detach from keys.
func NewController(ctx context.Context, calc Calculator, el Elements, keys *KeyBus, opts Options) (*Controller, error) {
	meter := otel.Meter("form")

	submissions, err := meter.Int64Counter("form.submissions.total",
		metric.WithDescription("Form submissions by outcome"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating submissions counter: %w", err)
	}

	duration, err := meter.Float64Histogram("form.request.duration",
		metric.WithDescription("Time spent waiting on the calculation service"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request histogram: %w", err)
	}

	c := &Controller{
		ctx:         ctx,
		calc:        calc,
		el:          el,
		opts:        opts,
		submissions: submissions,
		duration:    duration,
	}
	c.unsubscribe = keys.Subscribe(c.onKey)

	return c, nil
}

// Close detaches the controller from its key bus.
func (c *Controller) Close() {
	c.closeOnce.Do(c.unsubscribe)
}

// State returns a snapshot of the UI state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// InFlight reports whether a request is outstanding.
func (c *Controller) InFlight() bool {
	return c.State().Loading
}

// HandleEnterKey submits the current form values unless a request is in
// flight, in which case it does nothing.
func (c *Controller) HandleEnterKey(ctx context.Context) Outcome {
	if c.InFlight() {
		return OutcomeSkipped
	}
	return c.HandleSubmit(ctx, c.el.Form.Values())
}

func (c *Controller) onKey(k Key) {
	if k == KeyEnter {
		c.HandleEnterKey(c.ctx)
	}
}

// HandleSubmit runs one submission cycle. Every failure ends here: it is
// shown in the error panel and reported as the returned Outcome. Loading is
// cleared and the submit control re-enabled on every path that issued a
// request.
func (c *Controller) HandleSubmit(ctx context.Context, v Values) Outcome {
	ctx, span := tracer.Start(ctx, "form.submit")
	defer span.End()

	req, err := c.begin(v)
	if err != nil {
		outcome := OutcomeSkipped
		var verr *ValidationError
		if errors.As(err, &verr) {
			outcome = OutcomeInvalid
			span.RecordError(err)
			span.SetStatus(codes.Error, verr.Message)
		}
		c.record(ctx, outcome)
		return outcome
	}
	defer c.release()

	span.SetAttributes(attribute.String("calculator.operation", req.Operation))

	start := time.Now()
	resp, err := c.calc.Calculate(ctx, req)
	c.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000.0)

	outcome := c.finish(ctx, req, resp, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome.String())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	c.record(ctx, outcome)
	return outcome
}

var errInFlight = errors.New("request in flight")

// begin validates v and, when it is acceptable, moves the UI into the
// loading state.
func (c *Controller) begin(v Values) (calcclient.Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Loading {
		return calcclient.Request{}, errInFlight
	}

	op := strings.TrimSpace(v.Operation)
	if op == "" {
		c.showErrorLocked(MsgSelectOperation)
		return calcclient.Request{}, &ValidationError{Message: MsgSelectOperation}
	}

	x, y := parseOperand(v.X), parseOperand(v.Y)
	if c.opts.StrictInput && (!isFinite(x) || !isFinite(y)) {
		c.showErrorLocked(MsgInvalidNumbers)
		return calcclient.Request{}, &ValidationError{Message: MsgInvalidNumbers}
	}

	c.el.ResultPanel.Hide()
	c.el.ErrorPanel.Hide()
	c.state.Visible = PanelNone

	c.state.Loading = true
	c.el.Loading.Show()
	c.el.Submit.SetDisabled(true)

	return calcclient.Request{Operation: op, X: x, Y: y}, nil
}

// finish renders the outcome of a completed call.
func (c *Controller) finish(ctx context.Context, req calcclient.Request, resp calcclient.Response, err error) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil {
		c.showResultLocked(resultText(req.Operation, req.X, req.Y, resp.Result))
		return OutcomeResult
	}

	var svcErr *calcclient.ServiceError
	if errors.As(err, &svcErr) {
		msg := svcErr.Detail
		if msg == "" {
			msg = MsgServiceFallback
		}
		c.showErrorLocked(msg)
		return OutcomeServiceError
	}

	observability.LoggerWithTrace(ctx).Error("calculation request failed",
		zap.String("operation", req.Operation),
		zap.Float64("x", req.X),
		zap.Float64("y", req.Y),
		zap.Error(err),
	)
	c.showErrorLocked(MsgNetwork)
	return OutcomeTransportError
}

func (c *Controller) release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Loading = false
	c.el.Loading.Hide()
	c.el.Submit.SetDisabled(false)
}

func (c *Controller) showResultLocked(text string) {
	c.el.ResultPanel.SetContent(text)
	c.el.ResultPanel.Show()
	c.el.ErrorPanel.Hide()
	c.state.Visible = PanelResult
}

func (c *Controller) showErrorLocked(msg string) {
	c.el.ErrorPanel.SetContent(msg)
	c.el.ErrorPanel.Show()
	c.el.ResultPanel.Hide()
	c.state.Visible = PanelError
}

func (c *Controller) record(ctx context.Context, o Outcome) {
	c.submissions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", o.String())))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
