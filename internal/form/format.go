package form

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go-chi-calculator/internal/operation"
)

// decimalLiteral is what a numeric input field accepts. strconv alone would
// also take hex, underscores, "inf" and "nan".
var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// parseOperand reads a decimal number. Anything else, including trailing
// garbage such as "12abc", becomes NaN and is left for the service to reject.
func parseOperand(s string) float64 {
	s = strings.TrimSpace(s)
	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

// exponentPadding drops the leading zero Go puts in one-digit exponents.
var exponentPadding = strings.NewReplacer("e-0", "e-", "e+0", "e+")

// formatNumber prints v the way a browser prints a number: integers without
// a fraction, no trailing zeros, exponent form from 1e21 up.
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	case math.Abs(v) >= 1e21 || math.Abs(v) < 1e-6:
		return exponentPadding.Replace(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// resultText renders the result panel: the expression line, then the value.
func resultText(op string, x, y, result float64) string {
	return fmt.Sprintf("%s %s %s =\n%s", formatNumber(x), operation.Symbol(op), formatNumber(y), formatNumber(result))
}
