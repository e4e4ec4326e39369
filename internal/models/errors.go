package models

import "fmt"

// NoModelAvailableError is returned when selection exhausts every
// candidate for a category: no preferred model matched the catalog, no
// fallback model was available, and no usable remote target existed.
type NoModelAvailableError struct {
	Category TaskCategory
	Detail   string
}

func (e *NoModelAvailableError) Error() string {
	return fmt.Sprintf("no model available for category %q: %s", e.Category, e.Detail)
}

// CatalogUnavailableError is returned by the catalog client when the
// local runtime cannot be reached or returns a malformed listing.
type CatalogUnavailableError struct {
	Endpoint string
	Err      error
}

func (e *CatalogUnavailableError) Error() string {
	return fmt.Sprintf("model catalog unavailable at %s: %v", e.Endpoint, e.Err)
}

func (e *CatalogUnavailableError) Unwrap() error { return e.Err }

// CompletionError is returned when a selected backend accepted the
// request but the completion call itself failed.
type CompletionError struct {
	Model string
	Mode  ExecutionMode
	Err   error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion failed on %s (%s): %v", e.Model, e.Mode, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }
