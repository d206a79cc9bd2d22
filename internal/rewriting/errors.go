// Package rewriting adapts selected CV text to a job under a strict no-fabrication contract.
package rewriting

import (
	"fmt"
	"strings"
)

// EmptyRewriteError is returned when the model answers with no usable text.
type EmptyRewriteError struct {
	Field string
}

func (e *EmptyRewriteError) Error() string {
	return fmt.Sprintf("rewrite of %s returned empty text", e.Field)
}

// LengthLimitError is returned when a rewrite overshoots its ceiling by more than the tolerance.
type LengthLimitError struct {
	Field  string
	Length int
	Limit  int
}

func (e *LengthLimitError) Error() string {
	return fmt.Sprintf("rewrite of %s is %d characters, limit is %d", e.Field, e.Length, e.Limit)
}

// FabricationError is returned when a rewrite introduces figures the original does not contain.
type FabricationError struct {
	Field   string
	Figures []string
}

func (e *FabricationError) Error() string {
	return fmt.Sprintf("rewrite of %s introduced figures not in the original: %s", e.Field, strings.Join(e.Figures, ", "))
}
