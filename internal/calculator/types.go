package calculator

// CalcRequest is the JSON body of POST /calc. Operands are pointers so that
// missing or null values can be told apart from zero.
type CalcRequest struct {
	Operation string   `json:"operation"`
	X         *float64 `json:"x"`
	Y         *float64 `json:"y"`
}

// CalcResponse is the JSON response for every single-operation endpoint.
type CalcResponse struct {
	Operation string  `json:"operation"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Result    float64 `json:"result"`
}

// OperationsResponse lists the supported operation names.
type OperationsResponse struct {
	Operations []string `json:"operations"`
}

// ChainStep describes a single step in a chained calculation.
type ChainStep struct {
	Op    string  `json:"op"`    // "add", "subtract", "multiply", "divide"
	Value float64 `json:"value"` // the operand applied with the running total
}

// ChainRequest is the JSON body for POST /calc/chain.
type ChainRequest struct {
	Initial float64     `json:"initial"` // starting value
	Steps   []ChainStep `json:"steps"`
}

// ChainResponse is the JSON response for POST /calc/chain.
type ChainResponse struct {
	Initial float64       `json:"initial"`
	Steps   []ChainResult `json:"steps"`
	Result  float64       `json:"result"`
}

// ChainResult records one executed step.
type ChainResult struct {
	Op     string  `json:"op"`
	Value  float64 `json:"value"`
	Result float64 `json:"result"`
}
