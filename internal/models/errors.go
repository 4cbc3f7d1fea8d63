package models

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Component-internal failures are wrapped into one
// of these before crossing a component boundary; the API layer translates
// them into structured responses.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrParse             = errors.New("parse error")
	ErrSessionNotFound   = errors.New("session not found")
	ErrMissingColumn     = errors.New("missing column")
	ErrOracle            = errors.New("oracle error")
	ErrInternal          = errors.New("internal error")
)

// MissingColumnError builds an ErrMissingColumn naming the absent concept
// in user-facing terms ("Survival data not found in this dataset").
func MissingColumnError(concept string) error {
	return fmt.Errorf("%w: %s data not found in this dataset", ErrMissingColumn, concept)
}
