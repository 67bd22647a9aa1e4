package network

import "errors"

var (
	ErrNotConnected = errors.New("not connected")
	// ErrActionRejected marks an action the ledger declined. Transport
	// failures never wrap it.
	ErrActionRejected = errors.New("action rejected")
)
