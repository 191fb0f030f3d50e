package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
)

func TestRunSettleAll(t *testing.T) {
	// Item 1 fails; 0 and 2 must still complete.
	var processed atomic.Int32

	results := Run(context.Background(), 3, func(_ context.Context, i int) Result {
		processed.Add(1)
		if i == 1 {
			return NewErrorResult(i, "b.pdf", errors.New("no download URL found"))
		}
		return NewSuccessResult(i, fmt.Sprintf("file%d.pdf", i), "")
	})

	if got := processed.Load(); got != 3 {
		t.Fatalf("processed %d items, want 3", got)
	}

	br := Collect(results)
	if br.Succeeded != 2 || br.Failed != 1 {
		t.Errorf("Succeeded = %d, Failed = %d, want 2/1", br.Succeeded, br.Failed)
	}
	if results[1].Status != StatusError || results[1].Filename != "b.pdf" {
		t.Errorf("failed result = %+v", results[1])
	}
	if results[2].Status != StatusSuccess {
		t.Errorf("item after a failure did not settle successfully: %+v", results[2])
	}
}

func TestRunPreservesOrder(t *testing.T) {
	results := Run(context.Background(), 8, func(_ context.Context, i int) Result {
		return NewSuccessResult(i, "", "")
	})

	for i, r := range results {
		if r.Index != i {
			t.Errorf("results[%d].Index = %d", i, r.Index)
		}
	}
}

func TestCollectEmpty(t *testing.T) {
	br := Collect(nil)
	if br.Total != 0 || br.Succeeded != 0 || br.Failed != 0 {
		t.Errorf("Collect(nil) = %+v", br)
	}
}

func TestBatchResultJSON(t *testing.T) {
	br := Collect([]Result{
		NewSuccessResult(0, "a.pdf", "saved"),
		NewErrorResult(1, "b.pdf", errors.New("boom")),
	})

	out := br.JSON()
	for _, want := range []string{`"total": 2`, `"succeeded": 1`, `"failed": 1`, `"a.pdf"`, `"boom"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON output missing %q:\n%s", want, out)
		}
	}
}

func TestParseStringOrArray(t *testing.T) {
	tests := []struct {
		name     string
		param    interface{}
		expected []string
		wantErr  bool
	}{
		{
			name:     "single string",
			param:    "msg-1",
			expected: []string{"msg-1"},
		},
		{
			name:     "array of strings",
			param:    []interface{}{"msg-1", "msg-2"},
			expected: []string{"msg-1", "msg-2"},
		},
		{
			name:    "nil",
			param:   nil,
			wantErr: true,
		},
		{
			name:    "empty string",
			param:   "",
			wantErr: true,
		},
		{
			name:    "empty array",
			param:   []interface{}{},
			wantErr: true,
		},
		{
			name:    "array with non-string",
			param:   []interface{}{"msg-1", 42},
			wantErr: true,
		},
		{
			name:    "wrong type",
			param:   42,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringOrArray(tt.param, "messageIds")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("got %v, want %v", got, tt.expected)
				}
			}
		})
	}
}
