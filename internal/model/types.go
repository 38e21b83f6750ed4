package model

// Order is the highest derivative degree a model tracks.
type Order int

const (
	// OrderFirst tracks gradients only.
	OrderFirst Order = 1

	// OrderSecond tracks gradients and Hessians.
	OrderSecond Order = 2
)

// ValidOrders defines the allowed derivative orders.
var ValidOrders = map[Order]bool{
	OrderFirst:  true,
	OrderSecond: true,
}

// ModelSpec represents a compiled sensitivity model: the differentiation
// variables with their base values and the named output expressions to
// evaluate over them.
//
// All variables of one model share a single derivative order. Mixing
// orders inside one evaluation scope is rejected at compile time; the
// arithmetic engine would refuse the combination anyway, but the model
// is the right place to catch the authoring mistake.
type ModelSpec struct {
	Name      string        `json:"name"`
	Purpose   string        `json:"purpose,omitempty"`
	Order     Order         `json:"order"`
	Variables []VariableDef `json:"variables"`
	Outputs   []OutputDef   `json:"outputs"`
}

// VariableDef declares one differentiation variable.
// Declaration order is significant: it fixes the VarSet order, and with
// it the index alignment of every gradient and Hessian the model
// produces.
type VariableDef struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// OutputDef declares a named output expression.
type OutputDef struct {
	Name string `json:"name"`

	// Source is the expression text as authored (e.g. "x * y + sin(x)").
	Source string `json:"source"`

	// Expr is the parsed expression. Not serialized; Source is the
	// durable form.
	Expr Expr `json:"-"`
}

// VariableNames returns the variable identifiers in declaration order.
func (m *ModelSpec) VariableNames() []string {
	names := make([]string, len(m.Variables))
	for i, v := range m.Variables {
		names[i] = v.Name
	}
	return names
}

// VariableValues returns the base values in declaration order.
func (m *ModelSpec) VariableValues() []float64 {
	values := make([]float64, len(m.Variables))
	for i, v := range m.Variables {
		values[i] = v.Value
	}
	return values
}
