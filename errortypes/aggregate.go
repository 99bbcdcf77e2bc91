package errortypes

import (
	"fmt"
	"strings"
)

// AggregateErrors groups the problems found while checking one input, such as the
// configuration or the adapter registry, so they are reported together at startup.
type AggregateErrors struct {
	Message string
	Errors  []error
}

func NewAggregateErrors(msg string, errs []error) AggregateErrors {
	return AggregateErrors{Message: msg, Errors: errs}
}

func (e AggregateErrors) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}

	noun := "errors"
	if len(e.Errors) == 1 {
		noun = "error"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d %s):\n", e.Message, len(e.Errors), noun)
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d: %v\n", i+1, err)
	}
	return b.String()
}

// Unwrap exposes the grouped errors to errors.Is and errors.As.
func (e AggregateErrors) Unwrap() []error {
	return e.Errors
}
