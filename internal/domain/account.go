// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidAmount indicates a malformed, non-positive or
	// negative-where-disallowed amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds indicates that the account balance does not
	// cover the requested withdrawal or transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrTxConflict indicates that lock or transaction contention was
	// exhausted and the operation did not commit.
	ErrTxConflict = errors.New("transaction conflict")
)

// Account holds the balance of a single owner.
//
// Balance is a two-decimal-place amount and is never negative at any
// committed state.
type Account struct {
	ID        int64     `json:"id"`
	Owner     string    `json:"owner"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// OpenAccountParams is the input data to open an account with its owner.
type OpenAccountParams struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	HashedPassword string `json:"hashed_password"`
	InitialBalance string `json:"initial_balance"`
}
