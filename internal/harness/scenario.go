package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one harness test scenario.
// Scenarios evaluate a set of models and assert on the resulting
// values and sensitivities.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Models is inline CUE source declaring the models under a
	// top-level "model" struct.
	Models string `yaml:"models"`

	// Model restricts evaluation to one named model. Empty means all
	// models, in declaration order.
	Model string `yaml:"model,omitempty"`

	// Bumps shifts variable base values before evaluation, keyed by
	// variable name.
	Bumps map[string]float64 `yaml:"bumps,omitempty"`

	// Expect lists expectations on evaluated outputs.
	Expect []Expectation `yaml:"expect"`
}

// Expectation asserts on one evaluated output.
type Expectation struct {
	// Model is the model the output belongs to. May be empty when the
	// scenario evaluates a single model.
	Model string `yaml:"model,omitempty"`

	// Output names the output to check.
	Output string `yaml:"output"`

	// Value is the expected output value.
	Value float64 `yaml:"value"`

	// Gradient holds expected partials keyed by variable. Subset
	// match - only listed variables are checked.
	Gradient map[string]float64 `yaml:"gradient,omitempty"`

	// Hessian holds expected second-order entries keyed by
	// "var1,var2". Subset match.
	Hessian map[string]float64 `yaml:"hessian,omitempty"`

	// Tolerance bounds the comparison. Zero means the default 1e-9.
	Tolerance float64 `yaml:"tolerance,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Models == "" {
		return fmt.Errorf("models is required")
	}

	if len(s.Expect) == 0 {
		return fmt.Errorf("expect list is required and must be non-empty")
	}

	for i, exp := range s.Expect {
		if exp.Output == "" {
			return fmt.Errorf("expect[%d]: output is required", i)
		}
		if exp.Tolerance < 0 {
			return fmt.Errorf("expect[%d]: tolerance must be non-negative", i)
		}
	}

	return nil
}
