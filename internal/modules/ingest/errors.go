package ingest

import (
	"fmt"
	"strings"
)

// ValidationError aborts an ingestion before anything is written.
type ValidationError struct {
	Message        string   `json:"error"`
	Problems       []string `json:"problems,omitempty"`
	UnresolvedSKUs []string `json:"unresolved_skus,omitempty"`
}

func (e *ValidationError) Error() string {
	switch {
	case len(e.UnresolvedSKUs) > 0:
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.UnresolvedSKUs, ", "))
	case len(e.Problems) > 0:
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Problems, "; "))
	}
	return e.Message
}

func invalid(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError means some orders in the file were already committed. The
// file is rejected as a whole.
type ConflictError struct {
	OrderNumbers []string `json:"order_numbers"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("orders already processed: %s", strings.Join(e.OrderNumbers, ", "))
}
