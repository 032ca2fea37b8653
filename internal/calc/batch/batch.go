package batch

import (
	"fmt"

	lens "Sagitta/internal/calc/lens"
)

const maxItems = 500

// SizeError rejects an empty or oversized batch.
type SizeError struct {
	Count int
}

func (e *SizeError) Error() string {
	if e.Count == 0 {
		return "no items"
	}
	return fmt.Sprintf("%d items, at most %d per batch", e.Count, maxItems)
}

func (e *SizeError) InputField() string { return "items" }

type Input struct {
	Items []lens.Input `json:"items"`
}

type Result struct {
	Results []lens.Result `json:"results"`
}

// Calculate runs every item and stops at the first invalid one.
func Calculate(in Input) (Result, error) {
	if n := len(in.Items); n == 0 || n > maxItems {
		return Result{}, &SizeError{Count: n}
	}
	out := Result{Results: make([]lens.Result, 0, len(in.Items))}
	for i, item := range in.Items {
		res, err := lens.Calculate(item)
		if err != nil {
			return Result{}, fmt.Errorf("item %d: %w", i, err)
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}
