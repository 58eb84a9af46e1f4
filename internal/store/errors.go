package store

import (
	"errors"
	"fmt"
)

// ErrCategoryNotFound is returned when a keyword targets an unknown category.
var ErrCategoryNotFound = errors.New("category not found")

// RuleStoreIOError reports a failure to read or write the rules file.
type RuleStoreIOError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *RuleStoreIOError) Error() string {
	return fmt.Sprintf("rule store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *RuleStoreIOError) Unwrap() error {
	return e.Err
}
