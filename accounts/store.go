// Package accounts defines the account store contract shared by the ledger program
// and the transfer and token services, plus helpers for typed account records.
package accounts

import (
	"context"
	"errors"

	"ticketescrow/entities"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountExists       = errors.New("account already in use")
	ErrAccountKindMismatch = errors.New("account kind mismatch")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrBalanceOverflow     = errors.New("balance overflow")
	ErrConcurrentUpdate    = errors.New("accounts were modified concurrently, retry")
)

type Getter interface {
	Account(ctx context.Context, addr entities.Address) (entities.Account, error)
}

// Tx is one atomic unit of work over accounts. Nothing it writes is visible to
// others until the surrounding Update returns nil.
type Tx interface {
	Getter
	CreateAccount(ctx context.Context, account entities.Account) error
	UpdateAccount(ctx context.Context, account entities.Account) error
	Publish(ctx context.Context, notification entities.IEvent) error
}

// DataFilter matches accounts whose record has Field equal to Value, compared as text.
type DataFilter struct {
	Field string
	Value string
}

type Reader interface {
	Getter
	AccountsByKind(ctx context.Context, kind entities.AccountKind, filters ...DataFilter) ([]entities.Account, error)
}

type Store interface {
	Reader
	// Update runs fn in a transaction: every change commits together or none does.
	Update(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
