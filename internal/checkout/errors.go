package checkout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to check out")
	ErrSubmissionInFlight = errors.New("an order submission is already in flight")
)

// FieldErrors maps a form field name to its validation message.
type FieldErrors map[string]string

// ValidationError carries per-field failures back to the form without
// touching cart or submission state.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid checkout form: %s", strings.Join(fields, ", "))
}
