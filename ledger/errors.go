package ledger

import (
	"errors"

	"ticketescrow/accounts"
)

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNoFunds          = errors.New("there are not enough funds available")
	ErrWrongEvent       = errors.New("the ticket is not for this event")
	ErrAlreadyCheckedIn = errors.New("ticket already checked in")

	ErrTitleTooLong         = errors.New("title is longer than 50 bytes")
	ErrDescriptionTooLong   = errors.New("description is longer than 500 bytes")
	ErrAddressMismatch      = errors.New("account address does not match its seeds")
	ErrInvalidMintAuthority = errors.New("mint authority is not derived from the mint")
	ErrMintAlreadyUsed      = errors.New("mint already backs a ticket")
	ErrHoldingOwnerMismatch = errors.New("token account is not owned by the caller")

	// Re-exported so callers only need this package to branch on outcomes.
	ErrAccountExists       = accounts.ErrAccountExists
	ErrAccountNotFound     = accounts.ErrAccountNotFound
	ErrAccountKindMismatch = accounts.ErrAccountKindMismatch
	ErrInsufficientFunds   = accounts.ErrInsufficientFunds
)
