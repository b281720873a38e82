// Package operation holds the arithmetic operations shared by the calculator
// service and its clients.
package operation

import (
	"errors"
	"fmt"
	"strings"
)

// Names of the supported operations.
const (
	Add      = "add"
	Subtract = "subtract"
	Multiply = "multiply"
	Divide   = "divide"
)

// ErrDivisionByZero is returned when dividing by zero.
var ErrDivisionByZero = errors.New("Division by zero is not allowed")

// UnknownError reports an operation name outside the registry.
type UnknownError struct {
	Name string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("Invalid operation: %s. Supported operations: %s", e.Name, strings.Join(Names(), ", "))
}

// Operation is a binary arithmetic function.
type Operation struct {
	Name  string
	apply func(x, y float64) (float64, error)
}

// Symbol returns the operation's display symbol.
func (o Operation) Symbol() string {
	return Symbol(o.Name)
}

// Apply runs the operation on x and y.
func (o Operation) Apply(x, y float64) (float64, error) {
	return o.apply(x, y)
}

// registry preserves declaration order for Names.
var registry = []Operation{
	{Name: Add, apply: func(x, y float64) (float64, error) { return x + y, nil }},
	{Name: Subtract, apply: func(x, y float64) (float64, error) { return x - y, nil }},
	{Name: Multiply, apply: func(x, y float64) (float64, error) { return x * y, nil }},
	{Name: Divide, apply: func(x, y float64) (float64, error) {
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		return x / y, nil
	}},
}

// symbols maps operation names to the symbols shown next to operands.
var symbols = map[string]string{
	Add:      "+",
	Subtract: "−",
	Multiply: "×",
	Divide:   "÷",
}

// Lookup resolves an operation by name, ignoring case and surrounding space.
func Lookup(name string) (Operation, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, op := range registry {
		if op.Name == key {
			return op, nil
		}
	}
	return Operation{}, &UnknownError{Name: name}
}

// Apply looks up name and applies it to x and y.
func Apply(name string, x, y float64) (float64, error) {
	op, err := Lookup(name)
	if err != nil {
		return 0, err
	}
	return op.Apply(x, y)
}

// Names lists the supported operation names in display order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, op := range registry {
		names = append(names, op.Name)
	}
	return names
}

// Symbol returns the display symbol for name. Unknown names are returned
// unchanged.
func Symbol(name string) string {
	if s, ok := symbols[name]; ok {
		return s
	}
	return name
}
