package plugin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/natter-sh/natter/internal/eval"
)

// Calc evaluates arithmetic expressions locally.
type Calc struct{}

// NewCalc creates the calculator plugin.
func NewCalc() *Calc {
	return &Calc{}
}

func (c *Calc) Name() string {
	return "calc"
}

type calcPayload struct {
	Expression string  `json:"expression"`
	Value      float64 `json:"value"`
}

func (c *Calc) Run(ctx context.Context, expr string) (*Result, error) {
	v, err := eval.Evaluate(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %q: %w", expr, err)
	}

	data, err := json.Marshal(calcPayload{Expression: expr, Value: v})
	if err != nil {
		return nil, err
	}

	return &Result{
		Content: "Result: " + eval.Format(v),
		Data:    data,
	}, nil
}
