package cost

import (
	"fmt"
	"strings"

	"github.com/leofalp/blueprint/providers/ai"
)

// Currency of every price in this package.
const Currency = "USD"

// ModelCost is the list price of a model.
//
//	price := cost.ModelCost{InputCostPerMillion: 0.30, OutputCostPerMillion: 2.50}
//	usd := price.CalculateTotalCost(12_000, 3_500)
type ModelCost struct {
	InputCostPerMillion  float64 `json:"inputCostPerMillion" yaml:"inputCostPerMillion"`
	OutputCostPerMillion float64 `json:"outputCostPerMillion" yaml:"outputCostPerMillion"`
}

// CalculateInputCost returns the cost of tokens prompt tokens.
func (mc ModelCost) CalculateInputCost(tokens int) float64 {
	return (float64(tokens) / 1_000_000.0) * mc.InputCostPerMillion
}

// CalculateOutputCost returns the cost of tokens completion tokens.
func (mc ModelCost) CalculateOutputCost(tokens int) float64 {
	return (float64(tokens) / 1_000_000.0) * mc.OutputCostPerMillion
}

func (mc ModelCost) CalculateTotalCost(inputTokens, outputTokens int) float64 {
	return mc.CalculateInputCost(inputTokens) + mc.CalculateOutputCost(outputTokens)
}

func (mc ModelCost) String() string {
	return fmt.Sprintf("Input: $%.6f/M, Output: $%.6f/M",
		mc.InputCostPerMillion, mc.OutputCostPerMillion)
}

// Summary is the estimated cost of one generation, failed attempts included.
type Summary struct {
	Model      string  `json:"model"`
	InputCost  float64 `json:"inputCost"`
	OutputCost float64 `json:"outputCost"`
	TotalCost  float64 `json:"totalCost"`
	Currency   string  `json:"currency"`
}

// Table maps model names to prices. Lookups fall back to the longest key that
// prefixes the model, so dated snapshots such as "claude-sonnet-4-5-20250929"
// resolve to their family.
type Table map[string]ModelCost

// DefaultTable holds public list prices for the models the backends default
// to. Prices change; override them through configuration.
func DefaultTable() Table {
	return Table{
		"gemini-2.5-flash":      {InputCostPerMillion: 0.30, OutputCostPerMillion: 2.50},
		"gemini-2.5-flash-lite": {InputCostPerMillion: 0.10, OutputCostPerMillion: 0.40},
		"gemini-2.5-pro":        {InputCostPerMillion: 1.25, OutputCostPerMillion: 10.00},
		"claude-sonnet-4-5":     {InputCostPerMillion: 3.00, OutputCostPerMillion: 15.00},
		"claude-haiku-4-5":      {InputCostPerMillion: 1.00, OutputCostPerMillion: 5.00},
		"gpt-4o":                {InputCostPerMillion: 2.50, OutputCostPerMillion: 10.00},
		"gpt-4o-mini":           {InputCostPerMillion: 0.15, OutputCostPerMillion: 0.60},
	}
}

// Merge returns a copy of t with overrides applied.
func (t Table) Merge(overrides map[string]ModelCost) Table {
	out := make(Table, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Lookup returns the price of model.
func (t Table) Lookup(model string) (ModelCost, bool) {
	model = strings.TrimPrefix(strings.TrimSpace(model), "models/")
	if mc, ok := t[model]; ok {
		return mc, true
	}

	best := ""
	for name := range t {
		if strings.HasPrefix(model, name) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return ModelCost{}, false
	}
	return t[best], true
}

// Estimate prices usage for model. It returns nil when usage is nil or the
// model is not in the table.
func (t Table) Estimate(model string, usage *ai.Usage) *Summary {
	if usage == nil {
		return nil
	}
	mc, ok := t.Lookup(model)
	if !ok {
		return nil
	}

	s := &Summary{
		Model:      model,
		InputCost:  mc.CalculateInputCost(usage.PromptTokens),
		OutputCost: mc.CalculateOutputCost(usage.CompletionTokens),
		Currency:   Currency,
	}
	s.TotalCost = s.InputCost + s.OutputCost
	return s
}
