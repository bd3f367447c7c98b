package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want float64
	}{
		{name: "addition", expr: "2+2", want: 4},
		{name: "precedence", expr: "2+3*4", want: 14},
		{name: "parens", expr: "(2+3)*4", want: 20},
		{name: "division", expr: "10/4", want: 2.5},
		{name: "unary minus", expr: "-5+3", want: -2},
		{name: "double unary", expr: "--5", want: 5},
		{name: "whitespace", expr: "  1 +  2 ", want: 3},
		{name: "decimal", expr: "0.1+0.2*10", want: 2.1},
		{name: "nested parens", expr: "((1+2)*(3+4))", want: 21},
		{name: "chained subtraction", expr: "10-3-2", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "empty", expr: ""},
		{name: "only spaces", expr: "   "},
		{name: "division by zero", expr: "1/0"},
		{name: "nested division by zero", expr: "1/(2-2)"},
		{name: "letters", expr: "two plus two"},
		{name: "trailing operator", expr: "1+"},
		{name: "unbalanced paren", expr: "(1+2"},
		{name: "stray close paren", expr: "1+2)"},
		{name: "double dot", expr: "1.2.3"},
		{name: "adjacent numbers", expr: "1 2"},
		{name: "injection attempt", expr: "process.exit(1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.expr)
			assert.Error(t, err)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "4", Format(4))
	assert.Equal(t, "2.5", Format(2.5))
	assert.Equal(t, "-0.5", Format(-0.5))
}
