package stk

import "errors"

// Errors returned by ledger operations. They are always wrapped with the
// offending values, use errors.Is to test them.
var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrInvalidPrice      = errors.New("price must be positive")
	ErrInvalidTicker     = errors.New("ticker is missing")
	ErrDuplicateTicker   = errors.New("ticker already held")
	ErrNotHeld           = errors.New("ticker not held")
	ErrUnknownTicker     = errors.New("ticker not found")
	ErrNoPrice           = errors.New("no price available")
	ErrLedgerDiverged    = errors.New("balance does not match the ledger")
)
