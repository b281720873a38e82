package calcclient

import (
	"encoding/json"
	"math"
)

// Request is one calculation sent to POST /calc.
type Request struct {
	Operation string
	X         float64
	Y         float64
}

// MarshalJSON encodes non-finite operands as null. The service rejects them,
// which keeps numeric validation on the server.
func (r Request) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Operation string   `json:"operation"`
		X         *float64 `json:"x"`
		Y         *float64 `json:"y"`
	}{
		Operation: r.Operation,
		X:         finite(r.X),
		Y:         finite(r.Y),
	})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Response is the success body of POST /calc.
type Response struct {
	Operation string  `json:"operation"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Result    float64 `json:"result"`
}

// errorBody is the failure body. Detail stays raw because the service is
// only required to send a string when it sends anything.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (b errorBody) message() string {
	var s string
	if err := json.Unmarshal(b.Detail, &s); err != nil {
		return ""
	}
	return s
}
