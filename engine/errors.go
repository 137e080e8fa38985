package engine

import "errors"

// Validation errors. Raised before any state change; nothing is recorded in
// the event log for a rejected command.
var (
	ErrZeroQuantity        = errors.New("engine: quantity must be greater than zero")
	ErrZeroOrNegativePrice = errors.New("engine: price must be greater than zero")
)

// Cancel and modify errors. Raised before any state change.
var (
	ErrOrderNotFound   = errors.New("engine: order not found")
	ErrOrderNotActive  = errors.New("engine: order not active")
	ErrInvalidQuantity = errors.New("engine: new quantity must be greater than zero")
)
