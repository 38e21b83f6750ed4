package model

// Run is the record of evaluating every output of a model once at one
// set of input values. The engine produces Runs; the store persists
// them.
type Run struct {
	ID        string `json:"id"`
	Model     string `json:"model"`
	ModelHash string `json:"model_hash"`
	Order     Order  `json:"order"`

	// Variables holds the effective (bumped) input values the run was
	// evaluated at, in declaration order.
	Variables []VariableDef `json:"variables"`

	Results []Result `json:"results"`
}

// Result is one evaluated output with its sensitivities.
//
// Gradient is index-aligned to Variables: Gradient[i] is the partial
// with respect to Variables[i]. Hessian is flattened row-major over the
// same index space and nil for first-order runs.
type Result struct {
	ID        string    `json:"id"` // Content-addressed hash
	Seq       int64     `json:"seq"`
	Output    string    `json:"output"`
	Source    string    `json:"source"`
	Value     float64   `json:"value"`
	Variables []string  `json:"variables"`
	Gradient  []float64 `json:"gradient"`
	Hessian   []float64 `json:"hessian,omitempty"`
}

// Payload returns the canonical-JSON-ready payload of a result: the
// value, the gradient keyed by variable, and the Hessian when present.
// This is the object ResultID hashes and the store persists.
func (r *Result) Payload() map[string]any {
	gradient := make(map[string]float64, len(r.Variables))
	for i, name := range r.Variables {
		gradient[name] = r.Gradient[i]
	}
	payload := map[string]any{
		"value":    r.Value,
		"gradient": gradient,
	}
	if r.Hessian != nil {
		payload["hessian"] = r.Hessian
	}
	return payload
}
