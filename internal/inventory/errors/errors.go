package errors

import "errors"

var (
	ErrNotFound = errors.New("vehicle not found")
)
