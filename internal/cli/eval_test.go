package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go-chi-calculator/internal/calcclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type calcFunc func(ctx context.Context, req calcclient.Request) (calcclient.Response, error)

func (f calcFunc) Calculate(ctx context.Context, req calcclient.Request) (calcclient.Response, error) {
	return f(ctx, req)
}

func answer(result float64) calcFunc {
	return func(ctx context.Context, req calcclient.Request) (calcclient.Response, error) {
		return calcclient.Response{Result: result}, nil
	}
}

func TestEvalTextResult(t *testing.T) {
	var out, progress bytes.Buffer

	err := Eval(context.Background(), answer(5), EvalOptions{Operation: "add", X: "2", Y: "3", Progress: &progress}, &out)

	require.NoError(t, err)
	assert.Equal(t, "2 + 3 =\n5\n", out.String())
	assert.Equal(t, "Calculating...\n", progress.String())
}

func TestEvalJSONServiceError(t *testing.T) {
	calc := calcFunc(func(ctx context.Context, req calcclient.Request) (calcclient.Response, error) {
		return calcclient.Response{}, &calcclient.ServiceError{StatusCode: 400, Detail: "Division by zero is not allowed"}
	})
	var out bytes.Buffer

	err := Eval(context.Background(), calc, EvalOptions{Operation: "divide", X: "1", Y: "0", Format: "json"}, &out)

	require.ErrorIs(t, err, ErrNoResult)
	var got Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, Report{Outcome: "service_error", Error: "Division by zero is not allowed"}, got)
}

func TestEvalYAMLValidationError(t *testing.T) {
	var out bytes.Buffer

	err := Eval(context.Background(), answer(0), EvalOptions{X: "1", Y: "2", Format: "yaml"}, &out)

	require.ErrorIs(t, err, ErrNoResult)
	var got Report
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, Report{Outcome: "invalid", Error: "Please select an operation"}, got)
}

func TestEvalTransportError(t *testing.T) {
	calc := calcFunc(func(ctx context.Context, req calcclient.Request) (calcclient.Response, error) {
		return calcclient.Response{}, &calcclient.TransportError{Op: "POST /calc", Err: errors.New("refused")}
	})
	var out bytes.Buffer

	err := Eval(context.Background(), calc, EvalOptions{Operation: "add", X: "1", Y: "2"}, &out)

	require.ErrorIs(t, err, ErrNoResult)
	assert.Equal(t, "Network error: Could not connect to server\n", out.String())
}

func TestEvalStrictRejectsBadNumbers(t *testing.T) {
	var out bytes.Buffer

	err := Eval(context.Background(), answer(0), EvalOptions{Operation: "add", X: "two", Y: "2", Strict: true}, &out)

	require.ErrorIs(t, err, ErrNoResult)
	assert.Equal(t, "Please enter valid numbers\n", out.String())
}

func TestEvalUnknownFormat(t *testing.T) {
	var out bytes.Buffer

	err := Eval(context.Background(), answer(1), EvalOptions{Operation: "add", X: "1", Y: "0", Format: "xml"}, &out)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoResult)
}
