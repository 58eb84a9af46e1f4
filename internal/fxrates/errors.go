package fxrates

import (
	"fmt"
	"strings"
)

// RateUnavailableError is returned when rates for a base currency cannot be
// fetched or do not cover every requested currency.
type RateUnavailableError struct {
	Base    string
	Missing []string
	Err     error
}

func (e *RateUnavailableError) Error() string {
	msg := fmt.Sprintf("exchange rates unavailable for base %s", e.Base)
	if len(e.Missing) > 0 {
		msg += fmt.Sprintf(" (missing: %s)", strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RateUnavailableError) Unwrap() error {
	return e.Err
}
