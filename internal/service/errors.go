// Package service implements the bank's business operations over the
// storage contracts: registration, login, deposits, withdrawals and the
// authenticated transfer protocol.
package service

import "errors"

// Domain errors. Every operation failure surfaces as one of these
// (possibly wrapped); they are recoverable, user-facing outcomes, and
// their text is what the shell displays.
var (
	ErrNotLoggedIn    = errors.New("please log in first")
	ErrNoAccount      = errors.New("you have no account to send from")
	ErrNotFound       = errors.New("account not found")
	ErrUserExists     = errors.New("that user ID already exists")
	ErrBadCredentials = errors.New("incorrect ID or password")
	ErrNumberTaken    = errors.New("could not allocate an unused account number")
	ErrBadAmount      = errors.New("amount must be a positive number")
	ErrInsufficient   = errors.New("insufficient balance")
	ErrAuthExhausted  = errors.New("password entered incorrectly 3 times, transfer cancelled")
	ErrMutation       = errors.New("balance update failed, transfer cancelled")
	ErrCancelled      = errors.New("cancelled")
)
