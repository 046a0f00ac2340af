// Package gateway holds the HTTP clients for the remote bookstore API:
// read-only catalog lookups and order submission. Remote faults are
// wrapped as transient errors; nothing in this package touches cart state.
package gateway

import "errors"

var (
	ErrBookNotFound = errors.New("book not found")

	// ErrUnavailable marks transient remote faults the shopper may retry.
	ErrUnavailable = errors.New("remote service unavailable")
)
