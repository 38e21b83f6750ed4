package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSpec() *ModelSpec {
	return &ModelSpec{
		Name:  "swap_pv",
		Order: OrderFirst,
		Variables: []VariableDef{
			{Name: "rate", Value: 0.03},
			{Name: "notional", Value: 1e6},
		},
		Outputs: []OutputDef{
			{Name: "pv", Source: "notional * rate"},
		},
	}
}

func TestModelHashStable(t *testing.T) {
	a, err := sampleSpec().Hash()
	require.NoError(t, err)
	b, err := sampleSpec().Hash()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64) // hex SHA-256
}

func TestModelHashSensitivity(t *testing.T) {
	base, err := sampleSpec().Hash()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*ModelSpec)
	}{
		{"name", func(m *ModelSpec) { m.Name = "other" }},
		{"order", func(m *ModelSpec) { m.Order = OrderSecond }},
		{"variable_value", func(m *ModelSpec) { m.Variables[0].Value = 0.04 }},
		{"variable_order", func(m *ModelSpec) {
			m.Variables[0], m.Variables[1] = m.Variables[1], m.Variables[0]
		}},
		{"output_source", func(m *ModelSpec) { m.Outputs[0].Source = "rate" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sampleSpec()
			tt.mutate(m)
			got, err := m.Hash()
			require.NoError(t, err)
			assert.NotEqual(t, base, got)
		})
	}
}

func TestResultIDDomainSeparatedFromModelHash(t *testing.T) {
	payload := map[string]any{"value": 3.0}
	id, err := ResultID("abc", "pv", payload)
	require.NoError(t, err)
	again, err := ResultID("abc", "pv", payload)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	other, err := ResultID("abc", "delta", payload)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}
