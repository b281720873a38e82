package calculator

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/operation"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrNonFiniteResult is returned when an operation overflows or otherwise
// yields a value JSON cannot carry.
var ErrNonFiniteResult = errors.New("Result is not a finite number")

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// ---------------------------------------------------------------------------
// Handlers: single operations
// ---------------------------------------------------------------------------

// Calc handles POST /calc with a {"operation","x","y"} body.
func Calc(w http.ResponseWriter, r *http.Request) {
	var req CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reject(w, r, "calc", "invalid request body", err)
		return
	}

	if strings.TrimSpace(req.Operation) == "" {
		reject(w, r, "calc", "operation is required", errors.New("empty operation"))
		return
	}

	if req.X == nil || req.Y == nil {
		reject(w, r, req.Operation, "x and y must be numbers", fmt.Errorf("x=%v y=%v", req.X, req.Y))
		return
	}

	calculate(w, r, req.Operation, *req.X, *req.Y)
}

// Add handles GET /add?x=&y=
func Add(w http.ResponseWriter, r *http.Request) {
	handleQueryOp(w, r, operation.Add)
}

// Subtract handles GET /subtract?x=&y=
func Subtract(w http.ResponseWriter, r *http.Request) {
	handleQueryOp(w, r, operation.Subtract)
}

// Multiply handles GET /multiply?x=&y=
func Multiply(w http.ResponseWriter, r *http.Request) {
	handleQueryOp(w, r, operation.Multiply)
}

// Divide handles GET /divide?x=&y=
func Divide(w http.ResponseWriter, r *http.Request) {
	handleQueryOp(w, r, operation.Divide)
}

// Operations handles GET /operations.
func Operations(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, OperationsResponse{Operations: operation.Names()})
}

func handleQueryOp(w http.ResponseWriter, r *http.Request, opName string) {
	q := r.URL.Query()

	x, err := strconv.ParseFloat(q.Get("x"), 64)
	if err != nil {
		reject(w, r, opName, "x must be a number", err)
		return
	}

	y, err := strconv.ParseFloat(q.Get("y"), 64)
	if err != nil {
		reject(w, r, opName, "y must be a number", err)
		return
	}

	calculate(w, r, opName, x, y)
}

// reject answers 422 for input that never reached the computation.
func reject(w http.ResponseWriter, r *http.Request, opName, msg string, err error) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)
	observability.RecordError(ctx, span, observability.LoggerWithTrace(ctx), errorCounter, metricOpName(opName), msg, err, http.StatusUnprocessableEntity, w)
}

// calculate is the shared implementation for every single-operation
// endpoint: child span, validation, timed computation, metrics and a
// trace-correlated log line.
func calculate(w http.ResponseWriter, r *http.Request, opName string, x, y float64) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.calculate",
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	if !isFinite(x) || !isFinite(y) {
		observability.RecordError(ctx, span, logger, errorCounter, metricOpName(opName), "x and y must be finite numbers", fmt.Errorf("x=%g y=%g", x, y), http.StatusUnprocessableEntity, w)
		return
	}

	span.SetAttributes(
		attribute.Float64("calculator.operand.x", x),
		attribute.Float64("calculator.operand.y", y),
	)

	logger.Debug("calculation requested",
		zap.String("operation", opName),
		zap.Float64("x", x),
		zap.Float64("y", y),
		zap.String("request_id", requestID),
	)

	op, err := operation.Lookup(opName)
	if err != nil {
		logger.Error("calculation failed",
			zap.String("operation", opName),
			zap.Float64("x", x),
			zap.Float64("y", y),
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		observability.RecordError(ctx, span, logger, errorCounter, metricOpName(opName), err.Error(), err, http.StatusBadRequest, w)
		return
	}

	start := time.Now()
	result, err := op.Apply(x, y)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err == nil && !isFinite(result) {
		err = ErrNonFiniteResult
	}
	if err != nil {
		logger.Error("calculation failed",
			zap.String("operation", op.Name),
			zap.Float64("x", x),
			zap.Float64("y", y),
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		observability.RecordError(ctx, span, logger, errorCounter, op.Name, err.Error(), err, http.StatusBadRequest, w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", op.Name))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result, attrs)

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Float64("result", result),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.Float64("calculator.result", result))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculation completed",
		zap.String("operation", op.Name),
		zap.Float64("x", x),
		zap.Float64("y", y),
		zap.Float64("result", result),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, CalcResponse{
		Operation: opName,
		X:         x,
		Y:         y,
		Result:    result,
	})
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// metricOpName keeps the operation attribute bounded to known names.
func metricOpName(name string) string {
	op, err := operation.Lookup(name)
	if err != nil {
		return "unknown"
	}
	return op.Name
}

// ---------------------------------------------------------------------------
// Handler: chained operations (nested spans)
// ---------------------------------------------------------------------------

// Chain handles POST /calc/chain. It runs a sequence of operations on a
// running total and opens a child span for every step.
func Chain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.chain",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req ChainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "chain", "invalid request body", err, http.StatusUnprocessableEntity, w)
		return
	}

	if len(req.Steps) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "chain", "no steps provided", errors.New("steps array is empty"), http.StatusUnprocessableEntity, w)
		return
	}

	span.SetAttributes(
		attribute.Float64("chain.initial", req.Initial),
		attribute.Int("chain.steps_count", len(req.Steps)),
	)

	running := req.Initial
	results := make([]ChainResult, 0, len(req.Steps))

	for i, step := range req.Steps {
		_, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.chain.step.%d", i),
			trace.WithAttributes(
				attribute.Int("chain.step.index", i),
				attribute.String("chain.step.operation", step.Op),
				attribute.Float64("chain.step.input", running),
				attribute.Float64("chain.step.value", step.Value),
			),
		)

		stepStart := time.Now()
		prev := running
		next, err := operation.Apply(step.Op, running, step.Value)
		stepElapsed := float64(time.Since(stepStart).Microseconds()) / 1000.0
		if err == nil && !isFinite(next) {
			err = ErrNonFiniteResult
		}

		if err != nil {
			stepSpan.RecordError(err)
			stepSpan.SetStatus(codes.Error, err.Error())
			stepSpan.End()

			logger.Warn("chain step failed",
				zap.Int("step", i),
				zap.String("operation", step.Op),
			)

			observability.RecordError(ctx, span, logger, errorCounter, metricOpName(step.Op),
				fmt.Sprintf("step %d: %s", i, err.Error()), err, http.StatusBadRequest, w)
			return
		}
		running = next

		attrs := metric.WithAttributes(attribute.String("operation", metricOpName(step.Op)))
		opsCounter.Add(ctx, 1, attrs)
		opsHistogram.Record(ctx, stepElapsed, attrs)

		stepSpan.AddEvent("step.complete", trace.WithAttributes(
			attribute.Float64("input", prev),
			attribute.Float64("result", running),
		))
		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		results = append(results, ChainResult{
			Op:     step.Op,
			Value:  step.Value,
			Result: running,
		})
	}

	resultGauge.Record(ctx, running, metric.WithAttributes(attribute.String("operation", "chain")))

	span.SetAttributes(attribute.Float64("chain.result", running))
	span.SetStatus(codes.Ok, "")

	logger.Info("chained calculation completed",
		zap.Float64("initial", req.Initial),
		zap.Float64("result", running),
		zap.Int("steps", len(req.Steps)),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, ChainResponse{
		Initial: req.Initial,
		Steps:   results,
		Result:  running,
	})
}
