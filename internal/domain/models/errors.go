package models

import "errors"

// Sentinel errors the HTTP layer maps onto status codes. Wrap them with
// fmt.Errorf("...: %w", ...) so errors.Is keeps working.
var (
	ErrNoHistory       = errors.New("no price history")
	ErrUnknownStrategy = errors.New("unknown strategy")
)
