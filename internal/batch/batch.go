package batch

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Outcome status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result represents the outcome of a single attachment in a batch.
type Result struct {
	Index    int    `json:"index"`
	Filename string `json:"filename,omitempty"`
	Status   string `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Error    string `json:"error,omitempty"`
}

// BatchResult represents the aggregated outcomes of a batch run.
type BatchResult struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Results   []Result `json:"results"`
}

// NewSuccessResult creates a success result.
func NewSuccessResult(index int, filename, detail string) Result {
	return Result{
		Index:    index,
		Filename: filename,
		Status:   StatusSuccess,
		Detail:   detail,
	}
}

// NewErrorResult creates an error result.
func NewErrorResult(index int, filename string, err error) Result {
	return Result{
		Index:    index,
		Filename: filename,
		Status:   StatusError,
		Error:    err.Error(),
	}
}

// Run executes fn for indices 0..n-1 concurrently and waits for every
// pipeline to settle. One item's failure never cancels or blocks the
// others: fn reports failure through its Result, not through an error, so
// the group always drains completely. Results are returned in index order.
func Run(ctx context.Context, n int, fn func(ctx context.Context, index int) Result) []Result {
	results := make([]Result, n)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			results[i] = fn(ctx, i)
			return nil
		})
	}
	// The error is always nil by construction.
	_ = g.Wait()

	return results
}

// Collect aggregates per-item results into a BatchResult.
func Collect(results []Result) *BatchResult {
	br := &BatchResult{
		Total:   len(results),
		Results: results,
	}
	for _, r := range results {
		if r.Status == StatusSuccess {
			br.Succeeded++
		} else {
			br.Failed++
		}
	}
	return br
}

// JSON renders the batch result as indented JSON for tool output.
func (br *BatchResult) JSON() string {
	b, _ := json.MarshalIndent(br, "", "  ")
	return string(b)
}

// ParseStringOrArray parses a parameter that can be either a single string
// or an array of strings.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	var result []string

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		result = []string{v}
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if str == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			result = append(result, str)
		}
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}

	return result, nil
}
